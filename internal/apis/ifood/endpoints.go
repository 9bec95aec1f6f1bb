package ifood

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sortimento/internal/jsonmap"
	"sortimento/internal/strutil"
	"sortimento/internal/upstream"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type api struct {
	doer    Doer
	baseURL string
}

// merchantInfoQuery is the exact query the web storefront sends; the endpoint
// rejects reformatted variants.
const merchantInfoQuery = "query ($merchantId: String!) { merchant " +
	"(merchantId: $merchantId, required: true) " +
	"{ available availableForScheduling contextSetup" +
	" { catalogGroup context regionGroup }" +
	" currency deliveryFee { originalValue type value }" +
	" deliveryMethods { catalogGroup " +
	"deliveredBy id maxTime minTime mode originalValue" +
	" priority schedule { now shifts { " +
	"dayOfWeek endTime interval startTime } timeSlots" +
	" { availableLoad date endDateTime" +
	" endTime id isAvailable originalPrice price" +
	" startDateTime startTime } }" +
	" subtitle title type value } deliveryTime " +
	"distance features id mainCategory" +
	" { code name } minimumOrderValue name paymentCodes" +
	" preparationTime priceRange" +
	" resources { fileName type } slug tags takeoutTime" +
	" userRating } merchantExtra" +
	" (merchantId: $merchantId, required: false) " +
	"{ address { city country district" +
	" latitude longitude state streetName streetNumber" +
	" timezone zipCode }" +
	" categories { code description friendlyName } " +
	"companyCode configs " +
	"{ bagItemNoteLength chargeDifferentToppingsMode " +
	"nationalIdentificationNumberRequired orderNoteLength } " +
	"deliveryTime description documents { CNPJ { type value } " +
	"MCC { type value } } enabled features groups " +
	"{ externalId id name type } id locale mainCategory { " +
	"code description friendlyName } merchantChain { externalId id name } " +
	"metadata { ifoodClub { banner { action image priority title } } } " +
	"minimumOrderValue name phoneIf priceRange resources { fileName type }" +
	" shifts { dayOfWeek duration start } shortId tags " +
	"takeoutTime test type userRatingCount } }"

func (a *api) getJSON(ctx context.Context, op, path string, body any, headers func(*http.Request)) (map[string]any, error) {
	method := http.MethodGet
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		method = http.MethodPost
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	headers(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, upstream.NewAPIError(op, resp.StatusCode, b)
	}

	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: bad json: %w", op, err)
	}

	// the marketplace answers 200 with code=102 when it blocks a session
	if jsonmap.Str(out, "code") == "102" {
		return nil, upstream.ErrAccessDenied
	}
	return out, nil
}

func (a *api) getSegments(ctx context.Context, latitude, longitude string) ([]any, error) {
	q := url.Values{}
	q.Set("latitude", latitude)
	q.Set("longitude", longitude)
	q.Set("channel", "IFOOD")

	out, err := a.getJSON(ctx, "ifood.segments", "/v2/categories?"+q.Encode(), nil, applySegmentHeaders)
	if err != nil {
		return nil, err
	}
	return jsonmap.Slice(out, "categories"), nil
}

func (a *api) getHomeCards(ctx context.Context, alias, latitude, longitude string) ([]any, error) {
	q := url.Values{}
	q.Set("alias", alias)
	q.Set("latitude", latitude)
	q.Set("longitude", longitude)
	q.Set("channel", "IFOOD")

	payload := map[string]any{
		"supported-headers": []string{"OPERATION_HEADER"},
		"supported-cards": []string{
			"MERCHANT_LIST",
			"CATALOG_ITEM_LIST",
			"CATALOG_ITEM_LIST_V2",
			"FEATURED_MERCHANT_LIST",
			"CATALOG_ITEM_CAROUSEL",
			"BIG_BANNER_CAROUSEL",
			"IMAGE_BANNER",
			"MERCHANT_LIST_WITH_ITEMS_CAROUSEL",
			"SMALL_BANNER_CAROUSEL",
			"NEXT_CONTENT",
			"MERCHANT_CAROUSEL",
			"MERCHANT_TILE_CAROUSEL",
			"SIMPLE_MERCHANT_CAROUSEL",
			"INFO_CARD",
			"MERCHANT_LIST_V2",
			"ROUND_IMAGE_CAROUSEL",
			"BANNER_GRID",
		},
		"supported-actions": []string{"merchant", "page", "reorder"},
		"feed-feature-name": "",
		"faster-overrides":  "",
	}

	out, err := a.getJSON(ctx, "ifood.stores", "/v2/home?"+q.Encode(), payload, applyDefaultHeaders)
	if err != nil {
		return nil, err
	}

	sections := jsonmap.Slice(out, "sections")
	if len(sections) == 0 {
		return nil, nil
	}
	first, ok := sections[0].(map[string]any)
	if !ok {
		return nil, nil
	}
	return jsonmap.Slice(first, "cards"), nil
}

func (a *api) getMerchantInfo(ctx context.Context, storeID, latitude, longitude string) (map[string]any, error) {
	q := url.Values{}
	q.Set("latitude", latitude)
	q.Set("longitude", longitude)
	q.Set("channel", "IFOOD")

	payload := map[string]any{
		"query":     merchantInfoQuery,
		"variables": map[string]string{"merchantId": storeID},
	}

	out, err := a.getJSON(ctx, "ifood.store_info", "/v1/merchant-info/graphql?"+q.Encode(), payload, applyDefaultHeaders)
	if err != nil {
		return nil, err
	}
	return jsonmap.Map(out, "data"), nil
}

func (a *api) getTaxonomies(ctx context.Context, storeID string) ([]any, error) {
	path := fmt.Sprintf("/v1/merchants/%s/taxonomies", url.PathEscape(storeID))

	out, err := a.getJSON(ctx, "ifood.departments", path, nil, applyTaxonomyHeaders)
	if err != nil {
		return nil, err
	}
	return jsonmap.Slice(jsonmap.Map(out, "data"), "categories"), nil
}

func (a *api) getCatalogCategory(ctx context.Context, storeID, departmentID, page string) (map[string]any, error) {
	path := fmt.Sprintf("/v1/merchants/%s/catalog-category/%s?items_page=%s&items_size=50",
		url.PathEscape(storeID), url.PathEscape(departmentID), url.QueryEscape(page))

	out, err := a.getJSON(ctx, "ifood.assortment", path, nil, applyDefaultHeaders)
	if err != nil {
		return nil, err
	}
	return jsonmap.Map(out, "data"), nil
}

func (a *api) getMenuItem(ctx context.Context, storeID, itemID string) (map[string]any, error) {
	path := fmt.Sprintf("/ifood-ws-v3/restaurant/%s/menuitem/%s",
		url.PathEscape(storeID), url.PathEscape(itemID))
	return a.getJSON(ctx, "ifood.menu_item", path, nil, applyDefaultHeaders)
}

// geoAPI resolves a CEP to an address (ViaCEP) and the address to coordinates
// (Nominatim).

type geoAPI struct {
	doer          Doer
	viaCEPBase    string
	nominatimBase string
}

type cepAddress struct {
	Street     string `json:"logradouro"`
	District   string `json:"bairro"`
	Complement string `json:"complemento"`
	City       string `json:"localidade"`
	UF         string `json:"uf"`
	NotFound   bool   `json:"erro"`
}

func (g *geoAPI) lookupCEP(ctx context.Context, zipCode string) (cepAddress, error) {
	var out cepAddress

	path := fmt.Sprintf("%s/ws/%s/json/", g.viaCEPBase, url.PathEscape(strutil.FormatZipCode(zipCode)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.doer.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return out, err
	}
	if resp.StatusCode != http.StatusOK {
		return out, upstream.NewAPIError("ifood.postal_code", resp.StatusCode, b)
	}

	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("ifood.postal_code: bad json: %w", err)
	}
	if out.NotFound {
		return cepAddress{}, nil
	}
	return out, nil
}

type geoPoint struct {
	Latitude  string
	Longitude string
}

func (g *geoAPI) geocode(ctx context.Context, query string) (geoPoint, bool) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.nominatimBase+"/search?"+q.Encode(), nil)
	if err != nil {
		return geoPoint{}, false
	}
	req.Header.Set("User-Agent", "geolocation")
	req.Header.Set("Accept", "application/json")

	resp, err := g.doer.Do(req)
	if err != nil {
		return geoPoint{}, false
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil || resp.StatusCode != http.StatusOK {
		return geoPoint{}, false
	}

	var rows []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(b, &rows); err != nil || len(rows) == 0 {
		return geoPoint{}, false
	}
	return geoPoint{Latitude: rows[0].Lat, Longitude: rows[0].Lon}, true
}
