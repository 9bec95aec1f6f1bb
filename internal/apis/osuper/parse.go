package osuper

import (
	"strconv"

	"sortimento/internal/records"
	"sortimento/internal/strutil"
)

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

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// parseEAN tolerates the gtin arriving as either a string or a bare number.
func parseEAN(v any) int64 {
	switch t := v.(type) {
	case string:
		return strutil.CleanEAN(t)
	case float64:
		return int64(t)
	}
	return 0
}

func (s *Service) appendProducts(out *records.List[Product], edges []searchEdge, p AssortmentParams) {
	now := records.Now()
	for _, edge := range edges {
		prod := parseNode(edge.Node, p, now)
		if msgs := s.checker.Check(prod); len(msgs) > 0 {
			s.log.Warnw("product dropped", "sku", prod.SKU, "reasons", msgs)
			continue
		}
		out.Data = append(out.Data, prod)
	}
}

func parseNode(node searchNode, p AssortmentParams, now records.Stamp) Product {
	var priceFrom, priceTo, discount float64
	for _, price := range node.Pricing {
		if price.Store == p.StoreID {
			priceFrom = price.Price
			priceTo = price.PromotionalPrice
			discount = price.Discount
			break
		}
	}
	if priceFrom > 0 && priceTo == 0 {
		priceTo = priceFrom
		priceFrom = 0
	}
	if priceFrom > 0 && priceTo > 0 && priceFrom == priceTo {
		priceFrom = 0
	}

	inStock := 0
	for _, qty := range node.Quantity {
		if qty.Store == p.StoreID {
			inStock = qty.InStock
			break
		}
	}

	qtySale := 0
	for _, sales := range node.SalesPerStore {
		if sales.Store == p.StoreID {
			qtySale = sales.Count
			break
		}
	}

	return Product{
		Name:       naClean(node.Name),
		EAN:        parseEAN(node.Gtin),
		SKU:        naOr(node.ObjectID),
		StoreID:    p.StoreID,
		CategoryID: p.CategoryID,
		SearchTerm: p.SearchTerm,
		Brand:      naClean(node.BrandName),
		Available:  "S",
		SaleUnit:   node.SaleUnit,
		QtySale:    qtySale,
		PriceFrom:  priceFrom,
		PriceTo:    priceTo,
		Discount:   int(discount),
		InStock:    inStock,
		Slug:       node.Slug,
		Image:      node.Image,
		Stamp:      now,
	}
}
