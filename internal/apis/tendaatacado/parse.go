package tendaatacado

import (
	"regexp"

	"sortimento/internal/records"
	"sortimento/internal/strutil"
)

var reInStock = regexp.MustCompile(`(?i)in_stock`)

func naClean(s string) string {
	if s == "" {
		return "NA"
	}
	return strutil.CleanHTML(s)
}

func naOr(s string) string {
	if s == "" {
		return "NA"
	}
	return s
}

// parseEAN tolerates the barcode arriving as either a string or a number.
func parseEAN(v any) int64 {
	switch t := v.(type) {
	case string:
		return strutil.CleanEAN(t)
	case float64:
		return int64(t)
	}
	return 0
}

func parseProduct(row productRow, p AssortmentParams, now records.Stamp) Product {
	available := "N"
	if reInStock.MatchString(row.Availability) {
		available = "S"
	}
	deliveryAvailable := "N"
	if row.DeliveryAvailable {
		deliveryAvailable = "S"
	}

	var priceWholesale float64
	var minQtyWholesale int
	if len(row.WholesalePrices) > 0 {
		priceWholesale = row.WholesalePrices[0].Price
		minQtyWholesale = row.WholesalePrices[0].MinQuantity
	}

	return Product{
		Name:              naClean(row.Name),
		Title:             naClean(row.MetaTitle),
		EAN:               parseEAN(row.Barcode),
		SKU:               naOr(row.SKU),
		ProductID:         row.ID,
		Brand:             naClean(row.Brand),
		CategoryID:        p.CategoryID,
		SearchTerm:        p.SearchTerm,
		Available:         available,
		DeliveryAvailable: deliveryAvailable,
		StockQty:          row.TotalStock,
		Rating:            row.Rating,
		PriceFrom:         0,
		PriceTo:           row.Price,
		PriceWholesale:    priceWholesale,
		MinQtyWholesale:   minQtyWholesale,
		Image:             naOr(row.Thumbnail),
		URL:               naOr(row.URL),
		Stamp:             now,
	}
}
