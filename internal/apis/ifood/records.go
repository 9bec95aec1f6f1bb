package ifood

import "sortimento/internal/records"

type Segment struct {
	Name        string `json:"name" validate:"required"`
	SegmentType string `json:"segment_type" validate:"required"`
	Alias       string `json:"alias" validate:"required"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
}

type Store struct {
	Name           string  `json:"name" validate:"required"`
	Segment        string  `json:"segment"`
	StoreType      string  `json:"store_type"`
	StoreID        string  `json:"store_id" validate:"required"`
	StoreSlug      string  `json:"store_slug"`
	URL            string  `json:"url"`
	Available      string  `json:"available" validate:"oneof=S N"`
	Distance       float64 `json:"distance"`
	UserRating     float64 `json:"user_rating"`
	Fee            float64 `json:"fee"`
	TimeMinMinutes int     `json:"time_min_minutes"`
	TimeMaxMinutes int     `json:"time_max_minutes"`
	Latitude       string  `json:"latitude"`
	Longitude      string  `json:"longitude"`
	ZipCode        string  `json:"zip_code"`
	Region         string  `json:"region"`
	Alias          string  `json:"alias"`
}

type StoreInfo struct {
	Name              string  `json:"name"`
	CompanyCode       string  `json:"company_code"`
	Phone             string  `json:"phone"`
	MainCategory      string  `json:"main_category"`
	StoreID           string  `json:"store_id"`
	StoreType         string  `json:"store_type"`
	CNPJ              string  `json:"cnpj"`
	Logo              string  `json:"logo"`
	Country           string  `json:"country"`
	State             string  `json:"state"`
	City              string  `json:"city"`
	District          string  `json:"district"`
	ZipCode           string  `json:"zip_code"`
	Latitude          string  `json:"latitude"`
	Longitude         string  `json:"longitude"`
	StreetName        string  `json:"street_name"`
	StreetNumber      string  `json:"street_number"`
	PriceRange        string  `json:"price_range"`
	DeliveryFee       float64 `json:"delivery_fee"`
	TypeDeliveryFee   string  `json:"type_delivery_fee"`
	TakeoutTime       int     `json:"takeout_time"`
	DeliveryTime      int     `json:"delivery_time"`
	MinimumOrderValue int     `json:"minimum_order_value"`
	PreparationTime   int     `json:"preparation_time"`
	Distance          float64 `json:"distance"`
	Available         string  `json:"available"`
	UserRating        float64 `json:"user_rating"`
	UserRatingCount   int     `json:"user_rating_count"`
}

type Category struct {
	Name string `json:"name"`
}

type Department struct {
	Name         string     `json:"name" validate:"required"`
	DepartmentID string     `json:"department_id" validate:"required"`
	Categories   []Category `json:"categories"`
	SegmentType  string     `json:"segment_type"`
	StoreID      string     `json:"store_id"`
	Latitude     string     `json:"latitude"`
	Longitude    string     `json:"longitude"`
}

type Product struct {
	Name         string  `json:"name" validate:"required"`
	EAN          int64   `json:"ean" validate:"gte=0"`
	SKU          string  `json:"sku"`
	Department   string  `json:"department"`
	Category     string  `json:"category"`
	SubCategory  string  `json:"sub_category"`
	DepartmentID string  `json:"department_id"`
	CategoryID   string  `json:"category_id"`
	SearchTerm   string  `json:"search_term"`
	Details      string  `json:"details"`
	Availability string  `json:"availability" validate:"oneof=S N"`
	PriceFrom    float64 `json:"price_from" validate:"gte=0"`
	PriceTo      float64 `json:"price_to" validate:"gte=0"`
	Discount     int     `json:"discount" validate:"gte=0"`
	SegmentType  string  `json:"segment_type"`
	StoreID      string  `json:"store_id"`
	Latitude     string  `json:"latitude"`
	Longitude    string  `json:"longitude"`
	Image        string  `json:"image"`
	URL          string  `json:"url"`
	records.Stamp
}

type PostalCode struct {
	ZipCode      string `json:"zip_code" validate:"required"`
	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
	Complement   string `json:"complement"`
	City         string `json:"city"`
	Region       string `json:"region"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
}
