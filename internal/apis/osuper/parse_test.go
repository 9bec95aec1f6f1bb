package osuper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortimento/internal/records"
)

func TestParseNodePrices(t *testing.T) {
	tests := []struct {
		name         string
		pricing      storePricing
		wantFrom     float64
		wantTo       float64
		wantDiscount int
	}{
		{"regular price only", storePricing{Store: 77, Price: 10}, 0, 10, 0},
		{"equal prices collapse", storePricing{Store: 77, Price: 9.99, PromotionalPrice: 9.99}, 0, 9.99, 0},
		{"promotional", storePricing{Store: 77, Price: 6, PromotionalPrice: 4.5, Discount: 25}, 6, 4.5, 25},
		{"no pricing for store", storePricing{Store: 99, Price: 6}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := searchNode{Name: "Arroz", ObjectID: "sku-1", Pricing: []storePricing{tt.pricing}}
			prod := parseNode(node, AssortmentParams{StoreID: 77}, records.Now())

			assert.InDelta(t, tt.wantFrom, prod.PriceFrom, 1e-9)
			assert.InDelta(t, tt.wantTo, prod.PriceTo, 1e-9)
			assert.Equal(t, tt.wantDiscount, prod.Discount)
		})
	}
}

func TestParseEAN(t *testing.T) {
	assert.Equal(t, int64(7891234567890), parseEAN("7891234567890"))
	assert.Equal(t, int64(7891234567890), parseEAN(7891234567890.0))
	assert.Zero(t, parseEAN(nil))
	assert.Zero(t, parseEAN(""))
}

func TestAssortmentCursorWalk(t *testing.T) {
	pages := map[string]string{
		"": `{
			"edges": [
				{"node": {"name": "Arroz Tipo 1", "gtin": "7891000100103", "objectID": "sku-1",
					"brandName": "Tio João", "saleUnit": "UN", "slug": "arroz-tipo-1", "image": "https://img/1.png",
					"pricing": [
						{"store": 99, "price": 1.23, "promotionalPrice": 0, "discount": 0},
						{"store": 77, "price": 25.9, "promotionalPrice": 19.9, "discount": 23}
					],
					"quantity": [{"store": 77, "inStock": 42}],
					"sales_per_store": [{"store": 77, "count": 7}]
				}},
				{"node": {"name": "Feijão Carioca", "objectID": "sku-2",
					"pricing": [{"store": 77, "price": 8.5, "promotionalPrice": 0, "discount": 0}]
				}}
			],
			"pageInfo": {"hasNextPage": true, "endCursor": "c1"}
		}`,
		"c1": `{
			"edges": [{"node": {"name": "Macarrão", "objectID": "sku-3"}}],
			"pageInfo": {"hasNextPage": true, "endCursor": "c2"}
		}`,
		"c2": `{
			"edges": [{"node": {"name": "Azeite", "objectID": "sku-4"}}],
			"pageInfo": {"hasNextPage": false, "endCursor": ""}
		}`,
	}

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/ecommerce_products_production/_search", r.URL.Path)
		assert.Equal(t, "https://www.loja.com.br", r.Header.Get("Origin"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.InDelta(t, 12, payload["first"], 1e-9)
		assert.InDelta(t, 123, payload["accountId"], 1e-9)
		assert.InDelta(t, 77, payload["storeId"], 1e-9)
		assert.Equal(t, "Mercearia", payload["categoryName"])

		after, _ := payload["after"].(string)
		body, ok := pages[after]
		require.True(t, ok, "unexpected cursor %q", after)
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	s := New(Options{Transport: srv.Client(), SearchBaseURL: srv.URL})

	out, err := s.Assortment(context.Background(), AssortmentParams{
		Domain:     "loja.com.br",
		AccountID:  123,
		StoreID:    77,
		CategoryID: 9,
		SearchTerm: "Mercearia",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, requests)

	require.Len(t, out.Data, 4)
	assert.Equal(t, []string{"sku-1", "sku-2", "sku-3", "sku-4"},
		[]string{out.Data[0].SKU, out.Data[1].SKU, out.Data[2].SKU, out.Data[3].SKU})

	p := out.Data[0]
	assert.Equal(t, "ARROZ TIPO 1", p.Name)
	assert.Equal(t, int64(7891000100103), p.EAN)
	assert.Equal(t, "TIO JOAO", p.Brand)
	assert.Equal(t, "S", p.Available)
	assert.Equal(t, "UN", p.SaleUnit)
	assert.InDelta(t, 25.9, p.PriceFrom, 1e-9)
	assert.InDelta(t, 19.9, p.PriceTo, 1e-9)
	assert.Equal(t, 23, p.Discount)
	assert.Equal(t, 42, p.InStock)
	assert.Equal(t, 7, p.QtySale)
	assert.Equal(t, 9, p.CategoryID)
	assert.Equal(t, "Mercearia", p.SearchTerm)

	regular := out.Data[1]
	assert.InDelta(t, 0, regular.PriceFrom, 1e-9)
	assert.InDelta(t, 8.5, regular.PriceTo, 1e-9)
}

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		variables, _ := payload["variables"].(map[string]any)
		assert.Equal(t, "5", variables["storeId"])

		fmt.Fprint(w, `{"data": {"publicViewer": {"categories": [
			{"id": "10", "name": "Bebidas", "slug": "bebidas", "children": [
				{"id": "101", "name": "Cervejas", "slug": "cervejas"},
				{"id": "102", "name": "Sucos", "slug": "sucos"}
			]},
			{"id": "20", "name": "Açougue", "slug": "acougue", "children": []}
		]}}}`)
	}))
}

func TestDepartments(t *testing.T) {
	srv := catalogServer(t)
	defer srv.Close()

	s := New(Options{Transport: srv.Client(), GraphQLBaseURL: srv.URL})

	out, err := s.Departments(context.Background(), CatalogParams{Domain: "loja.com.br", StoreID: 5})
	require.NoError(t, err)

	require.Len(t, out.Data, 2)
	assert.Equal(t, Department{
		Name: "BEBIDAS", DepartmentID: 10, StoreID: 5, Slug: "bebidas", SearchTerm: "Bebidas",
	}, out.Data[0])
	assert.Equal(t, "ACOUGUE", out.Data[1].Name)
	assert.Equal(t, "Açougue", out.Data[1].SearchTerm)
}

func TestCategories(t *testing.T) {
	srv := catalogServer(t)
	defer srv.Close()

	s := New(Options{Transport: srv.Client(), GraphQLBaseURL: srv.URL})

	out, err := s.Categories(context.Background(), CatalogParams{Domain: "loja.com.br", StoreID: 5})
	require.NoError(t, err)

	require.Len(t, out.Data, 2)
	assert.Equal(t, Category{
		Name: "CERVEJAS", CategoryID: 101, DepartmentID: 10, StoreID: 5,
		Slug: "cervejas", SearchTerm: "Bebidas > Cervejas",
	}, out.Data[0])
	assert.Equal(t, "Bebidas > Sucos", out.Data[1].SearchTerm)
}

func TestStores(t *testing.T) {
	graphql := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"publicViewer": {"onlineStores": [{
			"id": "5",
			"name": "Loja <b>Centro</b>",
			"alias": "centro",
			"cnpj": "12.345.678/0001-90",
			"fullAddress": {"complete": "Rua das Flores, 100"},
			"contacts": [{"type": "PHONE", "value": "1133334444"}]
		}]}}}`)
	}))
	defer graphql.Close()

	storefront := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>window.__STATE__={"accountId":123,"checkoutDomain":"checkout.loja.com.br"}</script>`)
	}))
	defer storefront.Close()

	s := New(Options{
		Transport:         graphql.Client(),
		GraphQLBaseURL:    graphql.URL,
		StorefrontBaseURL: storefront.URL,
	})

	out, err := s.Stores(context.Background(), StoreParams{Domain: "loja.com.br"})
	require.NoError(t, err)

	require.Len(t, out.Data, 1)
	store := out.Data[0]
	assert.Equal(t, "LOJA CENTRO", store.Name)
	assert.Equal(t, 123, store.AccountID)
	assert.Equal(t, 5, store.StoreID)
	assert.Equal(t, "CENTRO", store.Alias)
	assert.Equal(t, "12.345.678/0001-90", store.CNPJ)
	assert.Equal(t, "RUA DAS FLORES, 100", store.Address)
	require.Len(t, store.Contacts, 1)
}

func TestAccountIDNotFound(t *testing.T) {
	storefront := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>nothing here</html>`)
	}))
	defer storefront.Close()

	a := &api{doer: storefront.Client(), storefrontBase: storefront.URL}
	_, err := a.getAccountID(context.Background(), "loja.com.br")
	assert.Error(t, err)
}
