package ubereats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestParseDiscount(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantOriginal float64
		wantDiscount float64
	}{
		{"discounted", "$7.49, discounted from $9.99", 9.99, 25.03},
		{"no discount text", "Priced at $9.99", 0, 0},
		{"empty", "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original, discount := parseDiscount(map[string]any{"accessibilityText": tt.text})
			assert.InDelta(t, tt.wantOriginal, original, 1e-9)
			assert.InDelta(t, tt.wantDiscount, discount, 1e-9)
		})
	}
}

func TestParsePrice(t *testing.T) {
	assert.InDelta(t, 12.34, parsePrice(decode(t, `{"price": 1234}`)), 1e-9)
	assert.Zero(t, parsePrice(decode(t, `{"price": "abc"}`)))
	assert.Zero(t, parsePrice(decode(t, `{}`)))
}

func TestParseAssortment(t *testing.T) {
	data := decode(t, `{
		"sections": [{"uuid": "sec-1"}],
		"catalogSectionsMap": {
			"sec-1": [
				{"payload": {"standardItemsPayload": {
					"title": {"text": "Save on Select Items"},
					"catalogItems": [{"title": "skip me", "uuid": "x"}]
				}}},
				{"payload": {"standardItemsPayload": {
					"title": {"text": "Burgers"},
					"catalogItems": [{
						"title": "Double Burger",
						"itemDescription": "With <b>cheese</b>",
						"uuid": "item-1",
						"price": 2599,
						"isAvailable": true,
						"hasCustomizations": true,
						"priceTagline": {"accessibilityText": "$25.99, discounted from $28.99"},
						"endorsementAnalyticsTag": "confidence_builders_popular",
						"imageUrl": "https://img/x.png",
						"catalogItemAnalyticsData": {"endorsementMetadata": {"rating": "96%", "numRatings": 310}}
					}]
				}}}
			]
		}
	}`)

	s := New(Options{Transport: http.DefaultClient})
	items := s.parseAssortment("store-1", data)

	require.Len(t, items, 1)
	p := items[0]
	assert.Equal(t, "Double Burger", p.Name)
	assert.Equal(t, "WITH CHEESE", p.Description)
	assert.Equal(t, "item-1", p.ProductID)
	assert.Equal(t, "BURGERS", p.Category)
	assert.Equal(t, "S", p.Available)
	assert.Equal(t, "S", p.HasCustomizations)
	assert.InDelta(t, 25.99, p.PriceTo, 1e-9)
	assert.InDelta(t, 28.99, p.PriceFrom, 1e-9)
	assert.InDelta(t, 10.35, p.Discount, 1e-9)
	assert.Equal(t, 96, p.Rating)
	assert.Equal(t, 310, p.NumRatings)
	assert.Equal(t, "S", p.Endorsement)
}

func TestParseAssortmentEmptySections(t *testing.T) {
	s := New(Options{Transport: http.DefaultClient})

	assert.Empty(t, s.parseAssortment("s", decode(t, `{}`)))
	assert.Empty(t, s.parseAssortment("s", decode(t, `{"sections": [{"uuid": ""}]}`)))
}

func TestStoreInfoEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_p/api/getStoreV1", r.URL.Path)
		assert.Equal(t, "x", r.Header.Get("x-csrf-token"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "store-1", payload["storeUuid"])
		assert.Equal(t, "DELIVERY", payload["diningMode"])

		fmt.Fprint(w, `{"data": {
			"title": "Burger House",
			"slug": "burger-house",
			"rating": {"ratingValue": 4.6},
			"location": {"address": "Av. Paulista 1000"},
			"hours": [{"dayRange": "Mon-Fri"}],
			"phoneNumber": "+551130000000"
		}}`)
	}))
	defer srv.Close()

	s := New(Options{Transport: srv.Client(), BaseURL: srv.URL})

	out, err := s.StoreInfo(context.Background(), Params{StoreID: "store-1"})
	require.NoError(t, err)

	assert.Equal(t, "BURGER HOUSE", out.Data.Name)
	assert.Equal(t, "store-1", out.Data.StoreID)
	assert.Equal(t, "burger-house", out.Data.Slug)
	assert.Equal(t, "+551130000000", out.Data.Phone)
	require.Len(t, out.Data.Hours, 1)
}
