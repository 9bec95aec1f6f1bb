package ifood

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"sortimento/internal/jsonmap"
	"sortimento/internal/records"
	"sortimento/internal/strutil"
)

const assortmentPageSize = 50

var (
	reMerchantList = regexp.MustCompile(`(?i)MERCHANT_LIST`)
	reStoreSlug    = regexp.MustCompile(`(?i)slug=(.*?)%2F(.*?)$`)
	reAvailable    = regexp.MustCompile(`(?i)AVAILABLE`)
)

// naClean mirrors the normalization applied to every free-text field: empty
// becomes NA, everything else is cleaned.
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

func (s *Service) parseSegments(rows []any, p SegmentParams) []Segment {
	out := make([]Segment, 0, len(rows))
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}

		seg := Segment{
			Name:        naClean(jsonmap.Str(row, "title")),
			SegmentType: naClean(jsonmap.Str(row, "type")),
			Alias:       naClean(jsonmap.Str(row, "alias")),
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
		}

		if msgs := s.checker.Check(seg); len(msgs) > 0 {
			s.log.Warnw("segment dropped", "reasons", msgs)
			continue
		}
		out = append(out, seg)
	}
	return out
}

func (s *Service) parseStores(cards []any, p StoreParams) []Store {
	out := make([]Store, 0, 32)
	for _, c := range cards {
		card, ok := c.(map[string]any)
		if !ok || !reMerchantList.MatchString(jsonmap.Str(card, "cardType")) {
			continue
		}

		contents := jsonmap.Slice(jsonmap.Map(card, "data"), "contents")
		for _, ct := range contents {
			content, ok := ct.(map[string]any)
			if !ok {
				continue
			}

			available := "N"
			if jsonmap.Bool(content, "available") {
				available = "S"
			}

			actionURL := naOr(jsonmap.Str(content, "action"))

			var region, storeSlug string
			if m := reStoreSlug.FindStringSubmatch(actionURL); m != nil {
				region, storeSlug = m[1], m[2]
			}

			delivery := jsonmap.Map(content, "deliveryInfo")

			st := Store{
				Name:           naClean(jsonmap.Str(content, "name")),
				Segment:        naClean(jsonmap.Str(content, "mainCategory")),
				StoreType:      naOr(jsonmap.Str(delivery, "type")),
				StoreID:        naOr(jsonmap.Str(content, "id")),
				StoreSlug:      storeSlug,
				URL:            actionURL,
				Available:      available,
				Distance:       jsonmap.Float(content, "distance"),
				UserRating:     jsonmap.Float(content, "userRating"),
				Fee:            jsonmap.Float(delivery, "fee"),
				TimeMinMinutes: jsonmap.Int(delivery, "timeMinMinutes"),
				TimeMaxMinutes: jsonmap.Int(delivery, "timeMaxMinutes"),
				Latitude:       p.Latitude,
				Longitude:      p.Longitude,
				ZipCode:        p.ZipCode,
				Region:         region,
				Alias:          p.Alias,
			}

			if msgs := s.checker.Check(st); len(msgs) > 0 {
				s.log.Warnw("store dropped", "store_id", st.StoreID, "reasons", msgs)
				continue
			}
			out = append(out, st)
		}
	}
	return out
}

func parseStoreInfo(storeID string, data map[string]any) StoreInfo {
	merchant := jsonmap.Map(data, "merchant")
	extra := jsonmap.Map(data, "merchantExtra")

	info := StoreInfo{
		Name:              "NA",
		CompanyCode:       "NA",
		Phone:             "NA",
		MainCategory:      "NA",
		StoreID:           storeID,
		StoreType:         "NA",
		CNPJ:              "NA",
		Country:           "NA",
		State:             "NA",
		City:              "NA",
		District:          "NA",
		ZipCode:           "NA",
		Latitude:          "NA",
		Longitude:         "NA",
		StreetName:        "NA",
		StreetNumber:      "NA",
		PriceRange:        "NA",
		TypeDeliveryFee:   "NA",
		Available:         "NA",
	}

	if merchant != nil {
		info.Available = "S"
		if v, ok := merchant["available"].(bool); ok && !v {
			info.Available = "N"
		}
		info.DeliveryFee = jsonmap.Float(jsonmap.Map(merchant, "deliveryFee"), "originalValue")
		if t := jsonmap.Str(jsonmap.Map(merchant, "deliveryFee"), "type"); t != "" {
			info.TypeDeliveryFee = t
		}
		info.DeliveryTime = jsonmap.Int(merchant, "deliveryTime")
		info.Distance = jsonmap.Float(merchant, "distance")
		info.MinimumOrderValue = jsonmap.Int(merchant, "minimumOrderValue")
		info.Name = naClean(jsonmap.Str(merchant, "name"))
		info.PreparationTime = jsonmap.Int(merchant, "preparationTime")
		if pr := jsonmap.Str(merchant, "priceRange"); pr != "" {
			info.PriceRange = pr
		}
		info.TakeoutTime = jsonmap.Int(merchant, "takeoutTime")
		info.UserRating = jsonmap.Float(merchant, "userRating")

		for _, r := range jsonmap.Slice(merchant, "resources") {
			res, ok := r.(map[string]any)
			if !ok {
				continue
			}
			if jsonmap.Str(res, "type") == "LOGO" {
				info.Logo = fmt.Sprintf(
					"%s/image/upload/t_thumbnail/logosgde/%s",
					imageBaseURL, jsonmap.Str(res, "fileName"),
				)
				break
			}
		}
	}

	if extra != nil {
		address := jsonmap.Map(extra, "address")
		if address != nil {
			info.Country = naOr(jsonmap.Str(address, "country"))
			info.City = naClean(jsonmap.Str(address, "city"))
			info.District = naClean(jsonmap.Str(address, "district"))
			info.Latitude = naOr(jsonmap.Str(address, "latitude"))
			info.Longitude = naOr(jsonmap.Str(address, "longitude"))
			info.State = naOr(jsonmap.Str(address, "state"))
			info.StreetName = naClean(jsonmap.Str(address, "streetName"))
			info.StreetNumber = naOr(jsonmap.Str(address, "streetNumber"))
			info.ZipCode = naOr(jsonmap.Str(address, "zipCode"))
		}
		info.CompanyCode = naOr(jsonmap.Str(extra, "companyCode"))
		info.UserRatingCount = jsonmap.Int(extra, "userRatingCount")
		info.StoreType = naOr(jsonmap.Str(extra, "type"))
		if cnpj := jsonmap.Str(jsonmap.Map(jsonmap.Map(extra, "documents"), "CNPJ"), "value"); cnpj != "" {
			info.CNPJ = cnpj
		}
		info.MainCategory = naClean(jsonmap.Str(jsonmap.Map(extra, "mainCategory"), "friendlyName"))
		info.Phone = naOr(jsonmap.Str(extra, "phoneIf"))
	}

	return info
}

func parseDepartments(rows []any, p DepartmentParams) []Department {
	out := make([]Department, 0, len(rows))
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}

		categories := []Category{}
		for _, pc := range jsonmap.Slice(row, "parentTaxonomies") {
			if cm, ok := pc.(map[string]any); ok {
				categories = append(categories, Category{Name: naOr(jsonmap.Str(cm, "name"))})
			}
		}

		out = append(out, Department{
			Name:         naClean(jsonmap.Str(row, "name")),
			DepartmentID: naOr(jsonmap.Str(row, "id")),
			Categories:   categories,
			SegmentType:  p.SegmentType,
			StoreID:      p.StoreID,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
		})
	}
	return out
}

// productPrices applies the storefront pricing convention: the struck-through
// price only exists when the marketplace reports an original price, and the
// discount is the rounded-up percentage between the two.
func productPrices(priceTo, originalPrice float64) (priceFrom float64, discount int) {
	if originalPrice > 0 {
		return originalPrice, int(math.Ceil(math.Abs((priceTo/originalPrice)*100 - 100)))
	}
	return 0, 0
}

type productDetail struct {
	SKU          string
	Availability string
	TaxonomyName string
	TaxonomyType string
	Category     string
}

func emptyProductDetail() productDetail {
	return productDetail{
		SKU:          "NA",
		Availability: "N",
		TaxonomyName: "NA",
		TaxonomyType: "NA",
		Category:     "NA",
	}
}

// fetchProductDetail tolerates every upstream failure: a product whose detail
// endpoint misbehaves still ships with sentinel fields.
func (s *Service) fetchProductDetail(ctx context.Context, storeID, itemID string) productDetail {
	data, err := s.api.getMenuItem(ctx, storeID, itemID)
	if err != nil {
		s.log.Warnw("menu item fetch failed", "store_id", storeID, "item_id", itemID, "err", err)
		return emptyProductDetail()
	}

	menu := jsonmap.Slice(jsonmap.Map(data, "data"), "menu")
	if len(menu) == 0 {
		return emptyProductDetail()
	}
	first, ok := menu[0].(map[string]any)
	if !ok {
		return emptyProductDetail()
	}
	items := jsonmap.Slice(first, "itens")
	if len(items) == 0 {
		return emptyProductDetail()
	}
	row, ok := items[0].(map[string]any)
	if !ok {
		return emptyProductDetail()
	}

	availability := "N"
	if reAvailable.MatchString(jsonmap.Str(row, "availability")) {
		availability = "S"
	}

	return productDetail{
		SKU:          jsonmap.StrOr(row, "NA", "posCode"),
		Availability: availability,
		TaxonomyName: naClean(jsonmap.StrOr(row, "NA", "taxonomyName")),
		TaxonomyType: jsonmap.StrOr(row, "NA", "taxonomyType"),
		Category:     naClean(jsonmap.StrOr(row, "NA", "parentTaxonomyName")),
	}
}

func (s *Service) buildAssortment(ctx context.Context, data map[string]any, p AssortmentParams) (records.Page[Product], error) {
	out := records.Page[Product]{RecordsPerPage: assortmentPageSize, Data: []Product{}}

	menu := jsonmap.Map(data, "categoryMenu")
	if menu == nil {
		return out, nil
	}

	department := naClean(jsonmap.Str(menu, "name"))
	items := jsonmap.Slice(menu, "itens")

	type entry struct {
		product map[string]any
		itemID  string
	}
	entries := make([]entry, 0, len(items))
	for _, it := range items {
		product, ok := it.(map[string]any)
		if !ok {
			continue
		}
		itemID := jsonmap.Str(product, "id")
		if itemID == "" {
			continue
		}
		entries = append(entries, entry{product: product, itemID: itemID})
	}

	details := make([]productDetail, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range entries {
		i := i
		g.Go(func() error {
			// spread detail calls out so the store does not see a burst
			if err := detailPause(gctx); err != nil {
				return err
			}
			details[i] = s.fetchProductDetail(gctx, p.StoreID, entries[i].itemID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	now := records.Now()
	for i, e := range entries {
		detail := details[i]

		priceTo := jsonmap.Float(e.product, "unitMinPrice")
		priceFrom, discount := productPrices(priceTo, jsonmap.Float(e.product, "unitOriginalPrice"))

		prod := Product{
			Name:         naClean(jsonmap.Str(e.product, "description")),
			EAN:          strutil.CleanEAN(jsonmap.Str(e.product, "ean")),
			SKU:          detail.SKU,
			Department:   department,
			Category:     detail.Category,
			SubCategory:  detail.TaxonomyName,
			DepartmentID: p.DepartmentID,
			CategoryID:   e.itemID,
			SearchTerm:   p.SearchTerm,
			Details:      naClean(jsonmap.Str(e.product, "details")),
			Availability: detail.Availability,
			PriceFrom:    priceFrom,
			PriceTo:      priceTo,
			Discount:     discount,
			SegmentType:  p.SegmentType,
			StoreID:      p.StoreID,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			Image:        buildImageURL(jsonmap.Str(e.product, "logoUrl")),
			URL:          buildProductURL(p, e.itemID),
			Stamp:        now,
		}

		if msgs := s.checker.Check(prod); len(msgs) > 0 {
			s.log.Warnw("product dropped", "sku", prod.SKU, "reasons", msgs)
			continue
		}
		out.Data = append(out.Data, prod)
	}

	pagination := jsonmap.Map(jsonmap.Map(data, "metadata"), "pagination")
	out.Items = jsonmap.Int(pagination, "items")
	out.Pages = jsonmap.Int(pagination, "pages")

	return out, nil
}

func detailPause(ctx context.Context) error {
	d := time.Duration(500+rand.Intn(1000)) * time.Millisecond
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildProductURL(p AssortmentParams, itemID string) string {
	return fmt.Sprintf("%s/delivery/%s/%s/%s?corredor=%s&item=%s",
		siteURL, p.Region, p.StoreSlug, p.StoreID, p.DepartmentID, itemID)
}

func buildImageURL(slug string) string {
	if slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/image/upload/t_high/pratos/%s", imageBaseURL, slug)
}

// resolveLocation geocodes the address. The street is abbreviated the way the
// map service indexes it ("Rua X" turns into "R. X") and the abbreviated form
// is what ships in the record, so the possibly modified address comes back.
func (s *Service) resolveLocation(ctx context.Context, zipCode string, address cepAddress) (geoPoint, cepAddress) {
	var query string
	if address.Street != "" && address.District != "" && address.City != "" {
		if len(address.Street) > 3 {
			address.Street = address.Street[:1] + "." + address.Street[3:]
		}
		query = fmt.Sprintf("%s, %s-%s, %s", address.Street, address.District, address.City, zipCode)
	} else {
		query = address.City
	}

	point, ok := s.geo.geocode(ctx, query)
	if !ok {
		return geoPoint{Latitude: "NA", Longitude: "NA"}, address
	}
	return point, address
}

func buildPostalCode(zipCode string, address cepAddress, loc geoPoint) PostalCode {
	return PostalCode{
		ZipCode:      zipCode,
		Address:      naClean(address.Street),
		Neighborhood: naClean(address.District),
		Complement:   naClean(address.Complement),
		City:         naClean(address.City),
		Region:       naClean(address.UF),
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
	}
}
