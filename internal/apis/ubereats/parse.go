package ubereats

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"sortimento/internal/jsonmap"
	"sortimento/internal/records"
	"sortimento/internal/strutil"
)

var (
	reDiscount    = regexp.MustCompile(`\$(\d+\.\d+), discounted from \$(\d+\.\d+)`)
	rePopular     = regexp.MustCompile(`(?i)confidence_builders_popular`)
	reSaveSection = regexp.MustCompile(`(?i)Save on Select Items`)
)

// parsePrice converts the integer cent price to reais with two decimals.
func parsePrice(item map[string]any) float64 {
	return math.Round(jsonmap.Float(item, "price")) / 100
}

// parseDiscount recovers the original price and the discount percentage from
// the accessibility text, the only place the storefront exposes them.
func parseDiscount(priceTagline map[string]any) (originalPrice, discount float64) {
	m := reDiscount.FindStringSubmatch(jsonmap.Str(priceTagline, "accessibilityText"))
	if m == nil {
		return 0, 0
	}

	current, _ := strconv.ParseFloat(m[1], 64)
	original, _ := strconv.ParseFloat(m[2], 64)
	if original <= 0 {
		return 0, 0
	}

	discount = math.Round(((original-current)/original)*100*100) / 100
	return original, discount
}

func (s *Service) parseAssortment(storeID string, data map[string]any) []Product {
	sections := jsonmap.Slice(data, "sections")
	if len(sections) == 0 {
		return []Product{}
	}
	first, ok := sections[0].(map[string]any)
	if !ok {
		return []Product{}
	}
	sectionID := jsonmap.Str(first, "uuid")
	if sectionID == "" {
		return []Product{}
	}

	catalog := jsonmap.Slice(jsonmap.Map(data, "catalogSectionsMap"), sectionID)

	now := records.Now()
	out := make([]Product, 0, 64)
	for _, c := range catalog {
		row, ok := c.(map[string]any)
		if !ok {
			continue
		}

		payload := jsonmap.Map(jsonmap.Map(row, "payload"), "standardItemsPayload")
		category := strutil.CleanHTML(jsonmap.Str(jsonmap.Map(payload, "title"), "text"))
		if reSaveSection.MatchString(category) {
			continue
		}

		for _, it := range jsonmap.Slice(payload, "catalogItems") {
			item, ok := it.(map[string]any)
			if !ok {
				continue
			}

			prod := s.parseItem(item, category, storeID, now)
			if msgs := s.checker.Check(prod); len(msgs) > 0 {
				s.log.Warnw("product dropped", "product_id", prod.ProductID, "reasons", msgs)
				continue
			}
			out = append(out, prod)
		}
	}
	return out
}

func (s *Service) parseItem(item map[string]any, category, storeID string, now records.Stamp) Product {
	available := "N"
	if jsonmap.Bool(item, "isAvailable") {
		available = "S"
	}
	hasCustomizations := "N"
	if jsonmap.Bool(item, "hasCustomizations") {
		hasCustomizations = "S"
	}
	endorsement := "N"
	if rePopular.MatchString(jsonmap.Str(item, "endorsementAnalyticsTag")) {
		endorsement = "S"
	}

	priceFrom, discount := parseDiscount(jsonmap.Map(item, "priceTagline"))

	metadata := jsonmap.Map(jsonmap.Map(item, "catalogItemAnalyticsData"), "endorsementMetadata")
	rating := 0
	if r := strings.TrimSuffix(jsonmap.Str(metadata, "rating"), "%"); r != "" {
		rating, _ = strconv.Atoi(r)
	}

	return Product{
		Name:              jsonmap.Str(item, "title"),
		Description:       strutil.CleanHTML(jsonmap.Str(item, "itemDescription")),
		ProductID:         jsonmap.Str(item, "uuid"),
		Category:          category,
		StoreID:           storeID,
		Available:         available,
		HasCustomizations: hasCustomizations,
		PriceTo:           parsePrice(item),
		PriceFrom:         priceFrom,
		Discount:          discount,
		Rating:            rating,
		NumRatings:        jsonmap.Int(metadata, "numRatings"),
		Endorsement:       endorsement,
		Image:             jsonmap.Str(item, "imageUrl"),
		Stamp:             now,
	}
}

func parseStoreInfo(storeID string, data map[string]any) StoreInfo {
	return StoreInfo{
		Name:     strutil.CleanHTML(jsonmap.Str(data, "title")),
		StoreID:  storeID,
		Slug:     jsonmap.Str(data, "slug"),
		Rating:   jsonmap.Map(data, "rating"),
		Location: jsonmap.Map(data, "location"),
		Hours:    jsonmap.Slice(data, "hours"),
		Phone:    jsonmap.Str(data, "phoneNumber"),
	}
}
