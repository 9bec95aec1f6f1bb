package osuper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"

	"sortimento/internal/upstream"
)

// allCategoriesQuery and onlineStoresQuery mirror the queries the storefront
// SPA issues, typename noise included, so the responses match byte for byte.
const allCategoriesQuery = `
query AllCategoriesPageQuery($storeId: ID!) {
  publicViewer(storeId: $storeId) {
    id
    categories(storeId: $storeId) {
      id
      name
      slug
      imageCategoryPage {
        url
        thumborized
        __typename
      }
      children(active: true, group: true) {
        id
        name
        slug
        __typename
      }
      __typename
    }
    __typename
  }
}
`

const onlineStoresQuery = `
fragment StoreFields on PublicViewerStore {
  id
  name
  alias
  timezone
  cnpj
  messageConfig
  alertConfig {
    id
    active
    backgroundColor
    text
    textColor
    time
    icon
    __typename
  }
  id
  popUpConfig {
    id
    active
    backgroundColor
    text
    textColor
    title
    icon
    __typename
  }
  antifraudConfig {
    type
    enabled
    fingerprint
    __typename
  }
  deliveryMapTool {
    apiKey
    defaultCenter {
      lat
      lng
      __typename
    }
    defaultZoom
    email
    __typename
  }
  couponConfig {
    active
    __typename
  }
  categoriesConfigurations {
    ordering
    enableHighlighting
    __typename
  }
  fullAddress {
    id
    complete
    __typename
  }
  contacts {
    identification
    type
    value
    __typename
  }
  deliveryConfig {
    id
    active
    daysToCollect
    preparationTime
    maxDeliveriesBySchedule
    maxDeadlineExpressDelivery
    __typename
  }
  selfCollectConfig {
    id
    active
    daysToCollect
    preparationPrice
    preparationTime
    __typename
  }
  orderConfiguration {
    id
    minOrderValue
    minOrderValueEnabled
    minValueForFreeDelivery
    paymentNotice
    registrationMessage
    replacementOption
    deliveryNotice
    freeDeliveryEnabled
    freeDeliveryEnabledForExpressDelivery
    displayFreeDeliveryStatus
    freeDeliveryPeriodStart
    freeDeliveryPeriodEnd
    minOrderValueForExpress
    minOrderValueForFreeDeliveryExpress
    __typename
  }
  productConfig {
    id
    displayNormalPrice
    displayPercentageOfDiscount
    displayPromotionBox
    displayUnitContent
    stockDisplayMethod
    minimumStockToDisplay
    minimumStockToDisplayWeighable
    displayProductsOutOfStock
    displayPromotionLimit
    __typename
  }
  adwordsConfig {
    awConversionId
    awConversionLabel
    __typename
  }
  recipeConfig {
    displayParallax
    subTitle
    title
    ordering
    __typename
  }
  disableLeads
  footerText
  chatEmbed
  chatEnabled
  facebookPixelCode
  allowedCustomerType
  socialMediaConfig {
    facebook
    instagram
    twitter
    youtube
    linkedin
    __typename
  }
  openingHours {
    weekdays {
      start
      end
      __typename
    }
    sundays {
      end
      start
      __typename
    }
    saturdays {
      start
      end
      __typename
    }
    __typename
  }
  googleAdsConfig {
    tagId
    events {
      addToCart
      contact
      viewProduct
      registration
      __typename
    }
    __typename
  }
  __typename
}
query OnlineStoresQuery($storeId: ID!) {
  publicViewer(storeId: $storeId) {
    id
    onlineStores {
      ...StoreFields
      __typename
    }
    __typename
  }
}
`

var reAccountID = regexp.MustCompile(`(?i)accountId":(\d+),"checkoutDomain`)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type api struct {
	doer           Doer
	searchBaseURL  string
	graphQLBase    string
	storefrontBase string
}

func (a *api) graphQLURL(domain string) string {
	if a.graphQLBase != "" {
		return a.graphQLBase + "/graphql"
	}
	return "https://api." + domain + "/graphql"
}

func (a *api) storefrontURL(domain string) string {
	if a.storefrontBase != "" {
		return a.storefrontBase
	}
	return "https://" + domain
}

type categoryRow struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Slug     string        `json:"slug"`
	Children []categoryRow `json:"children"`
}

type storeRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Alias       string `json:"alias"`
	CNPJ        string `json:"cnpj"`
	FullAddress struct {
		Complete string `json:"complete"`
	} `json:"fullAddress"`
	Contacts []map[string]any `json:"contacts"`
}

type publicViewerEnvelope struct {
	Data struct {
		PublicViewer struct {
			Categories   []categoryRow `json:"categories"`
			OnlineStores []storeRow    `json:"onlineStores"`
		} `json:"publicViewer"`
	} `json:"data"`
}

func (a *api) postGraphQL(ctx context.Context, op, domain, query, storeID string) (publicViewerEnvelope, error) {
	var env publicViewerEnvelope

	b, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": map[string]any{"storeId": storeID},
	})
	if err != nil {
		return env, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.graphQLURL(domain), bytes.NewReader(b))
	if err != nil {
		return env, err
	}
	applyHeaders(req, domain)

	resp, err := a.doer.Do(req)
	if err != nil {
		return env, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return env, err
	}
	if resp.StatusCode != http.StatusOK {
		return env, upstream.NewAPIError(op, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("%s: bad json: %w", op, err)
	}
	return env, nil
}

func (a *api) getCategories(ctx context.Context, domain string, storeID int) ([]categoryRow, error) {
	env, err := a.postGraphQL(ctx, "osuper.categories", domain, allCategoriesQuery, strconv.Itoa(storeID))
	if err != nil {
		return nil, err
	}
	return env.Data.PublicViewer.Categories, nil
}

func (a *api) getOnlineStores(ctx context.Context, domain string) ([]storeRow, error) {
	env, err := a.postGraphQL(ctx, "osuper.stores", domain, onlineStoresQuery, "")
	if err != nil {
		return nil, err
	}
	return env.Data.PublicViewer.OnlineStores, nil
}

// getAccountID scrapes the storefront HTML for the embedded account id. The
// id only appears in the bootstrap state blob next to checkoutDomain.
func (a *api) getAccountID(ctx context.Context, domain string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.storefrontURL(domain), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", defaultUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.8,en-US;q=0.5,en;q=0.3")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := a.doer.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, upstream.NewAPIError("osuper.account", resp.StatusCode, body)
	}

	m := reAccountID.FindSubmatch(body)
	if m == nil {
		return 0, fmt.Errorf("osuper.account: account id not found for %s", domain)
	}
	return strconv.Atoi(string(m[1]))
}

type searchPage struct {
	Edges    []searchEdge `json:"edges"`
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
}

type searchEdge struct {
	Node searchNode `json:"node"`
}

type searchNode struct {
	Name          string         `json:"name"`
	Gtin          any            `json:"gtin"`
	ObjectID      string         `json:"objectID"`
	BrandName     string         `json:"brandName"`
	SaleUnit      string         `json:"saleUnit"`
	Slug          string         `json:"slug"`
	Image         string         `json:"image"`
	Pricing       []storePricing  `json:"pricing"`
	Quantity      []storeQuantity `json:"quantity"`
	SalesPerStore []storeSales    `json:"sales_per_store"`
}

type storePricing struct {
	Store            int     `json:"store"`
	Price            float64 `json:"price"`
	PromotionalPrice float64 `json:"promotionalPrice"`
	Discount         float64 `json:"discount"`
}

type storeQuantity struct {
	Store   int `json:"store"`
	InStock int `json:"inStock"`
}

type storeSales struct {
	Store int `json:"store"`
	Count int `json:"count"`
}

func (a *api) searchProducts(ctx context.Context, p AssortmentParams, cursor string) (searchPage, error) {
	var page searchPage

	b, err := json.Marshal(map[string]any{
		"accountId":        p.AccountID,
		"storeId":          p.StoreID,
		"categoryName":     p.SearchTerm,
		"first":            recordsPerPage,
		"promotion":        nil,
		"after":            cursor,
		"search":           "",
		"brands":           []any{},
		"categories":       []any{},
		"tags":             []any{},
		"personas":         []any{},
		"sort":             map[string]any{"field": "_score", "order": "desc"},
		"pricingRange":     map[string]any{},
		"highlightEnabled": false,
	})
	if err != nil {
		return page, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.searchBaseURL+searchIndexPath, bytes.NewReader(b))
	if err != nil {
		return page, err
	}
	applyHeaders(req, p.Domain)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Sec-Fetch-Site", "cross-site")

	resp, err := a.doer.Do(req)
	if err != nil {
		return page, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return page, err
	}
	if resp.StatusCode != http.StatusOK {
		return page, upstream.NewAPIError("osuper.assortment", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, &page); err != nil {
		return page, fmt.Errorf("osuper.assortment: bad json: %w", err)
	}
	return page, nil
}
