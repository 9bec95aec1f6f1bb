package osuper

import "sortimento/internal/records"

type Store struct {
	Name      string           `json:"name"`
	AccountID int              `json:"account_id"`
	StoreID   int              `json:"store_id"`
	Alias     string           `json:"alias"`
	CNPJ      string           `json:"cnpj"`
	Address   string           `json:"address"`
	Contacts  []map[string]any `json:"contacts"`
}

type Department struct {
	Name         string `json:"name"`
	DepartmentID int    `json:"department_id"`
	StoreID      int    `json:"store_id"`
	Slug         string `json:"slug"`
	SearchTerm   string `json:"search_term"`
}

type Category struct {
	Name         string `json:"name"`
	CategoryID   int    `json:"category_id"`
	DepartmentID int    `json:"department_id"`
	StoreID      int    `json:"store_id"`
	Slug         string `json:"slug"`
	SearchTerm   string `json:"search_term"`
}

type Product struct {
	Name       string  `json:"name" validate:"required"`
	EAN        int64   `json:"ean" validate:"gte=0"`
	SKU        string  `json:"sku" validate:"required"`
	StoreID    int     `json:"store_id"`
	CategoryID int     `json:"category_id"`
	SearchTerm string  `json:"search_term"`
	Brand      string  `json:"brand"`
	Available  string  `json:"available" validate:"oneof=S N"`
	SaleUnit   string  `json:"sale_unit"`
	QtySale    int     `json:"qty_sale" validate:"gte=0"`
	PriceFrom  float64 `json:"price_from" validate:"gte=0"`
	PriceTo    float64 `json:"price_to" validate:"gte=0"`
	Discount   int     `json:"discount" validate:"gte=0"`
	InStock    int     `json:"in_stock" validate:"gte=0"`
	Slug       string  `json:"slug"`
	Image      string  `json:"image"`
	records.Stamp
}
