package ubereats

import "sortimento/internal/records"

type Product struct {
	Name              string  `json:"name" validate:"required"`
	Description       string  `json:"description"`
	ProductID         string  `json:"product_id" validate:"required"`
	Category          string  `json:"category"`
	StoreID           string  `json:"store_id"`
	Available         string  `json:"available" validate:"oneof=S N"`
	HasCustomizations string  `json:"has_customizations" validate:"oneof=S N"`
	PriceTo           float64 `json:"price_to" validate:"gte=0"`
	PriceFrom         float64 `json:"price_from" validate:"gte=0"`
	Discount          float64 `json:"discount" validate:"gte=0"`
	Rating            int     `json:"rating"`
	NumRatings        int     `json:"num_ratings"`
	Endorsement       string  `json:"endorsement" validate:"oneof=S N"`
	Image             string  `json:"image"`
	records.Stamp
}

// StoreInfo keeps rating, location and opening hours in the upstream shape;
// downstream consumers read them as-is.
type StoreInfo struct {
	Name     string         `json:"name"`
	StoreID  string         `json:"store_id"`
	Slug     string         `json:"slug"`
	Rating   map[string]any `json:"rating"`
	Location map[string]any `json:"location"`
	Hours    []any          `json:"hours"`
	Phone    string         `json:"phone"`
}
