package tendaatacado

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"sortimento/internal/upstream"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type api struct {
	doer    Doer
	baseURL string
}

type departmentRow struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Link        string          `json:"link"`
	HasChildren bool            `json:"hasChildren"`
	Children    []departmentRow `json:"children"`
}

func (a *api) getDepartments(ctx context.Context) ([]departmentRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/public/store/departments", nil)
	if err != nil {
		return nil, err
	}
	applyHeaders(req)

	resp, err := a.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstream.NewAPIError("tendaatacado.departments", resp.StatusCode, body)
	}

	var rows []departmentRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("tendaatacado.departments: bad json: %w", err)
	}
	return rows, nil
}

type productRow struct {
	ID                int              `json:"id"`
	Name              string           `json:"name"`
	MetaTitle         string           `json:"metaTitle"`
	Barcode           any              `json:"barcode"`
	SKU               string           `json:"sku"`
	Brand             string           `json:"brand"`
	Availability      string           `json:"availability"`
	DeliveryAvailable bool             `json:"deliveryAvailable"`
	TotalStock        int              `json:"totalStock"`
	Rating            float64          `json:"rating"`
	Price             float64          `json:"price"`
	WholesalePrices   []wholesalePrice `json:"wholesalePrices"`
	Thumbnail         string           `json:"thumbnail"`
	URL               string           `json:"url"`
}

type wholesalePrice struct {
	Price       float64 `json:"price"`
	MinQuantity int     `json:"minQuantity"`
}

type productsResponse struct {
	Products      []productRow `json:"products"`
	TotalProducts int          `json:"total_products"`
	TotalPages    int          `json:"total_pages"`
}

// getProducts lists one page of a category. The query parameter carries the
// category link as a small JSON blob, the way the storefront sends it.
func (a *api) getProducts(ctx context.Context, p AssortmentParams) (productsResponse, error) {
	var out productsResponse

	linkQuery, err := json.Marshal(map[string]string{"link": p.SearchTerm})
	if err != nil {
		return out, err
	}

	q := url.Values{}
	q.Set("query", string(linkQuery))
	q.Set("page", p.Page)
	q.Set("order", "relevance")
	q.Set("save", "true")
	q.Set("cartId", defaultCartID)

	endpoint := fmt.Sprintf("%s/api/public/store/category/%d/products?%s", a.baseURL, p.CategoryID, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return out, err
	}
	applyHeaders(req)

	resp, err := a.doer.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return out, err
	}
	if resp.StatusCode != http.StatusOK {
		return out, upstream.NewAPIError("tendaatacado.assortment", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("tendaatacado.assortment: bad json: %w", err)
	}
	return out, nil
}
