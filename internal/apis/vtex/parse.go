package vtex

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"sortimento/internal/jsonmap"
	"sortimento/internal/records"
	"sortimento/internal/strutil"
)

var (
	rePixDiscount = regexp.MustCompile(`(?i)PIX\s*(\d+)%`)
	reFrontView   = regexp.MustCompile(`(?i)front view`)
	rePrincipal   = regexp.MustCompile(`(?i)principal`)
	reMastercard  = regexp.MustCompile(`(?i)Mastercard`)
)

// pixClusterID is the collection holding the "X% no PIX" highlight text.
const pixClusterID = "2349"

func naClean(s string) string {
	if s == "" {
		return "NA"
	}
	return strutil.CleanHTML(s)
}

type searchContext struct {
	domain       string
	subdomain    string
	departmentID int
	categoryID   int
	searchName   string
	from         int
	to           int
}

func (c searchContext) storeURL() string {
	if c.subdomain == "" {
		return "https://www." + c.domain + "/"
	}
	return "https://" + c.subdomain + "." + c.domain + "/"
}

type productDetail struct {
	name     string
	title    string
	sku      string
	ref      string
	slug     string
	brandID  int
	discount int
}

func parseProductDetail(storeURL string, product map[string]any) productDetail {
	d := productDetail{
		name:  naClean(jsonmap.Str(product, "productName")),
		title: naClean(jsonmap.Str(product, "productTitle")),
		sku:   jsonmap.Str(product, "productId"),
		ref:   jsonmap.Str(product, "productReference"),
	}
	if link := jsonmap.Str(product, "linkText"); link != "" {
		d.slug = storeURL + link + "/p"
	}
	d.brandID = jsonmap.Int(product, "brandId")

	highlight := jsonmap.Str(jsonmap.Map(product, "clusterHighlights"), pixClusterID)
	if m := rePixDiscount.FindStringSubmatch(highlight); m != nil {
		d.discount, _ = strconv.Atoi(m[1])
	}
	return d
}

// parseImage picks the first image without a label, then the front view,
// then the principal shot.
func parseImage(item map[string]any) string {
	for _, i := range jsonmap.Slice(item, "images") {
		img, ok := i.(map[string]any)
		if !ok {
			continue
		}
		label := jsonmap.Str(img, "imageLabel")
		if label == "" || reFrontView.MatchString(label) || rePrincipal.MatchString(label) {
			return jsonmap.Str(img, "imageUrl")
		}
	}
	return ""
}

type sellerOffer struct {
	ean                    int64
	sku                    string
	measurementUnit        string
	unitMultiplier         float64
	isKit                  string
	image                  string
	sellerID               string
	sellerName             string
	sellerDefault          string
	sellerType             string
	availableQuantity      int
	available              string
	priceFrom              float64
	priceTo                float64
	priceWithoutDiscount   float64
	rewardValue            float64
	tax                    float64
	installmentsAmount     int
	installmentsValue      float64
	interestRate           string
	installmentsTotalValue float64
}

// parseSellers flattens every seller of every SKU into one offer each.
func parseSellers(product map[string]any) []sellerOffer {
	var offers []sellerOffer

	for _, it := range jsonmap.Slice(product, "items") {
		item, ok := it.(map[string]any)
		if !ok {
			continue
		}

		base := sellerOffer{
			ean:             strutil.CleanEAN(jsonmap.Str(item, "ean")),
			sku:             jsonmap.Str(item, "itemId"),
			measurementUnit: jsonmap.Str(item, "measurementUnit"),
			unitMultiplier:  jsonmap.Float(item, "unitMultiplier"),
			isKit:           boolFlag(jsonmap.Bool(item, "isKit")),
			image:           parseImage(item),
		}

		for _, sl := range jsonmap.Slice(item, "sellers") {
			seller, ok := sl.(map[string]any)
			if !ok {
				continue
			}

			offer := base
			offer.sellerID = jsonmap.StrOr(seller, "NA", "sellerId")
			offer.sellerName = naClean(jsonmap.Str(seller, "sellerName"))
			offer.sellerDefault = boolFlag(jsonmap.Bool(seller, "sellerDefault"))

			switch {
			case offer.sellerID == "1":
				offer.sellerType = "LP"
			case offer.sellerDefault == "S":
				offer.sellerType = "VP"
			default:
				offer.sellerType = "V"
			}

			commertial := jsonmap.Map(seller, "commertialOffer")
			offer.availableQuantity = jsonmap.Int(commertial, "AvailableQuantity")
			offer.available = boolFlag(jsonmap.Bool(commertial, "IsAvailable"))
			offer.priceFrom = jsonmap.Float(commertial, "ListPrice")
			offer.priceTo = jsonmap.Float(commertial, "Price")
			offer.priceWithoutDiscount = jsonmap.Float(commertial, "PriceWithoutDiscount")
			offer.rewardValue = jsonmap.Float(commertial, "RewardValue")
			offer.tax = jsonmap.Float(commertial, "Tax")

			if inst, ok := parseInstallments(jsonmap.Slice(commertial, "Installments")); ok {
				offer.installmentsAmount = inst.amount
				offer.installmentsValue = inst.value
				offer.interestRate = inst.interestRate
				offer.installmentsTotalValue = inst.totalValue
			}

			offers = append(offers, offer)
		}
	}
	return offers
}

type installmentPlan struct {
	amount       int
	value        float64
	interestRate string
	totalValue   float64
}

// parseInstallments keeps the longest Mastercard plan, the last row the
// platform lists for that payment system.
func parseInstallments(rows []any) (installmentPlan, bool) {
	var plan installmentPlan
	found := false

	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		if !reMastercard.MatchString(jsonmap.Str(row, "PaymentSystemName")) {
			continue
		}

		plan.amount = jsonmap.Int(row, "NumberOfInstallments")
		plan.value = jsonmap.Float(row, "Value")
		plan.totalValue = jsonmap.Float(row, "TotalValuePlusInterestRate")
		if jsonmap.Float(row, "InterestRate") > 0 {
			plan.interestRate = "com juros"
		} else {
			plan.interestRate = "sem juros"
		}
		found = true
	}
	return plan, found
}

func boolFlag(b bool) string {
	if b {
		return "S"
	}
	return "N"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) fillSearchPage(out *records.OffsetPage[Product], rows []map[string]any, c searchContext) {
	now := records.Now()
	storeURL := c.storeURL()

	for _, product := range rows {
		detail := parseProductDetail(storeURL, product)

		for _, offer := range parseSellers(product) {
			priceFrom := offer.priceFrom
			priceTo := offer.priceTo
			if priceFrom > 0 && priceTo > 0 && priceFrom == priceTo {
				priceFrom = 0
			}
			if offer.available == "N" {
				priceFrom = 0
				priceTo = 0
			}

			pricePix := priceTo
			if priceTo > 0 && detail.discount > 0 {
				pricePix = round2(priceTo - priceTo*float64(detail.discount)/100)
			}

			prod := Product{
				Name:                   detail.name,
				ProductTitle:           detail.title,
				EAN:                    offer.ean,
				SKU:                    offer.sku,
				ProductRef:             detail.ref,
				DepartmentID:           c.departmentID,
				CategoryID:             c.categoryID,
				SearchName:             c.searchName,
				BrandID:                detail.brandID,
				MeasurementUnit:        offer.measurementUnit,
				UnitMultiplier:         offer.unitMultiplier,
				IsKit:                  offer.isKit,
				SellerID:               offer.sellerID,
				SellerName:             offer.sellerName,
				SellerDefault:          offer.sellerDefault,
				SellerType:             offer.sellerType,
				AvailableQuantity:      offer.availableQuantity,
				Available:              offer.available,
				PriceFrom:              priceFrom,
				PriceTo:                priceTo,
				PricePix:               pricePix,
				PriceWithoutDiscount:   offer.priceWithoutDiscount,
				Discount:               detail.discount,
				InstallmentsAmount:     offer.installmentsAmount,
				InstallmentsValue:      offer.installmentsValue,
				InterestRate:           offer.interestRate,
				InstallmentsTotalValue: offer.installmentsTotalValue,
				RewardValue:            offer.rewardValue,
				Tax:                    offer.tax,
				URL:                    detail.slug,
				Image:                  offer.image,
				Stamp:                  now,
			}

			if msgs := s.checker.Check(prod); len(msgs) > 0 {
				s.log.Warnw("product dropped",
					"sku", fmt.Sprintf("%s/%s", prod.SKU, prod.SellerID), "reasons", msgs)
				continue
			}
			out.Data = append(out.Data, prod)
		}
	}

	out.RecordsPerPage = searchRecordsPerPage
	out.Items = searchItems
	out.Pages = searchPages
	out.Offset = c.from
	out.Limit = c.to
}
