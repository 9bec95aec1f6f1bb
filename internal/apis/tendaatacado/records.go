package tendaatacado

import "sortimento/internal/records"

type Department struct {
	Name         string `json:"name"`
	DepartmentID int    `json:"department_id"`
	SearchTerm   string `json:"search_term"`
}

type Category struct {
	Name         string `json:"name"`
	CategoryID   int    `json:"category_id"`
	DepartmentID int    `json:"department_id"`
	SearchTerm   string `json:"search_term"`
}

type Product struct {
	Name              string  `json:"name" validate:"required"`
	Title             string  `json:"title"`
	EAN               int64   `json:"ean" validate:"gte=0"`
	SKU               string  `json:"sku" validate:"required"`
	ProductID         int     `json:"product_id"`
	Brand             string  `json:"brand"`
	CategoryID        int     `json:"category_id"`
	SearchTerm        string  `json:"search_term"`
	Available         string  `json:"available" validate:"oneof=S N"`
	DeliveryAvailable string  `json:"delivery_available" validate:"oneof=S N"`
	StockQty          int     `json:"stock_qty" validate:"gte=0"`
	Rating            float64 `json:"rating" validate:"gte=0"`
	PriceFrom         float64 `json:"price_from" validate:"gte=0"`
	PriceTo           float64 `json:"price_to" validate:"gte=0"`
	PriceWholesale    float64 `json:"price_wholesale" validate:"gte=0"`
	MinQtyWholesale   int     `json:"min_qty_wholesale" validate:"gte=0"`
	Image             string  `json:"image"`
	URL               string  `json:"url"`
	records.Stamp
}
