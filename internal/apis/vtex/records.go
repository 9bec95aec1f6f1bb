package vtex

import "sortimento/internal/records"

type Department struct {
	Name         string `json:"name"`
	DepartmentID int    `json:"department_id"`
	URL          string `json:"url"`
}

type Category struct {
	Name         string `json:"name"`
	DepartmentID int    `json:"department_id"`
	CategoryID   int    `json:"category_id"`
	URL          string `json:"url"`
}

type SubCategory struct {
	Name          string `json:"name"`
	DepartmentID  int    `json:"department_id"`
	CategoryID    int    `json:"category_id"`
	SubCategoryID int    `json:"subcategory_id"`
	URL           string `json:"url"`
}

type Brand struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	BrandID int    `json:"brand_id"`
}

type TopSearch struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Product is one seller offer of one SKU. A catalog product with three
// sellers and two SKUs yields six records.
type Product struct {
	Name                   string  `json:"name" validate:"required"`
	ProductTitle           string  `json:"product_title"`
	EAN                    int64   `json:"ean" validate:"gte=0"`
	SKU                    string  `json:"sku" validate:"required"`
	ProductRef             string  `json:"product_ref"`
	DepartmentID           int     `json:"department_id,omitempty"`
	CategoryID             int     `json:"category_id,omitempty"`
	SearchName             string  `json:"search_name,omitempty"`
	BrandID                int     `json:"brand_id"`
	MeasurementUnit        string  `json:"measurement_unit"`
	UnitMultiplier         float64 `json:"unit_multiplier"`
	IsKit                  string  `json:"is_kit" validate:"oneof=S N"`
	SellerID               string  `json:"seller_id"`
	SellerName             string  `json:"seller_name"`
	SellerDefault          string  `json:"seller_default" validate:"oneof=S N"`
	SellerType             string  `json:"seller_type" validate:"oneof=LP VP V"`
	AvailableQuantity      int     `json:"available_quantity" validate:"gte=0"`
	Available              string  `json:"available" validate:"oneof=S N"`
	PriceFrom              float64 `json:"price_from" validate:"gte=0"`
	PriceTo                float64 `json:"price_to" validate:"gte=0"`
	PricePix               float64 `json:"price_pix" validate:"gte=0"`
	PriceWithoutDiscount   float64 `json:"price_without_discount" validate:"gte=0"`
	Discount               int     `json:"discount" validate:"gte=0"`
	InstallmentsAmount     int     `json:"installments_amount" validate:"gte=0"`
	InstallmentsValue      float64 `json:"installments_value" validate:"gte=0"`
	InterestRate           string  `json:"interest_rate"`
	InstallmentsTotalValue float64 `json:"installments_total_value" validate:"gte=0"`
	RewardValue            float64 `json:"reward_value" validate:"gte=0"`
	Tax                    float64 `json:"tax" validate:"gte=0"`
	URL                    string  `json:"url"`
	Image                  string  `json:"image"`
	records.Stamp
}
