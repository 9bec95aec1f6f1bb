package vipcommerce

import "sortimento/internal/records"

type DistributionCenter struct {
	Name                 string `json:"name"`
	SiteURL              string `json:"site_url"`
	CNPJ                 string `json:"cnpj"`
	DistributionCenterID int    `json:"distribution_center_id"`
	ZipCode              string `json:"zip_code"`
	Address              string `json:"address"`
	Number               string `json:"number"`
	Complement           string `json:"complement"`
	Neighborhood         string `json:"neighborhood"`
	City                 string `json:"city"`
	State                string `json:"state"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Whatsapp             string `json:"whatsapp"`
	BranchID             int    `json:"branch_id"`
	SearchTerm           string `json:"search_term"`
}

type Department struct {
	Name                 string `json:"name"`
	DepartmentID         int    `json:"department_id"`
	Slug                 string `json:"slug"`
	BranchID             int    `json:"branch_id"`
	DistributionCenterID int    `json:"distribution_center_id"`
}

type Category struct {
	Name                 string `json:"name"`
	CategoryID           int    `json:"category_id"`
	DepartmentID         int    `json:"department_id"`
	Slug                 string `json:"slug"`
	BranchID             int    `json:"branch_id"`
	DistributionCenterID int    `json:"distribution_center_id"`
}

type Product struct {
	Name                 string  `json:"name" validate:"required"`
	EAN                  int64   `json:"ean" validate:"gte=0"`
	SKU                  string  `json:"sku" validate:"required"`
	ProductID            int     `json:"product_id"`
	Brand                string  `json:"brand"`
	CategoryID           int     `json:"category_id"`
	BranchID             int     `json:"branch_id"`
	DistributionCenterID int     `json:"distribution_center_id"`
	PriceFrom            float64 `json:"price_from" validate:"gte=0"`
	PriceTo              float64 `json:"price_to" validate:"gte=0"`
	PriceOffer           float64 `json:"price_offer" validate:"gte=0"`
	QtyMin               float64 `json:"qty_min" validate:"gte=0"`
	QtyMax               float64 `json:"qty_max" validate:"gte=0"`
	SoldAmount           int     `json:"sold_amount" validate:"gte=0"`
	Available            string  `json:"available" validate:"oneof=S N"`
	UnitLabel            string  `json:"unit_label"`
	UnitFraction         int     `json:"unit_fraction"`
	QtyFraction          int     `json:"qty_fraction"`
	PriceFraction        float64 `json:"price_fraction"`
	PrioritizedProduct   string  `json:"prioritized_product" validate:"oneof=S N"`
	MainVolume           string  `json:"main_volume"`
	URL                  string  `json:"url"`
	Image                string  `json:"image"`
	records.Stamp
}
