// Package ifood scrapes the marketplace catalog of ifood and normalizes it
// into typed records. All calls are paced by the caller-supplied waiting time
// and go through the shared transport chain.
package ifood

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"sortimento/internal/client"
	"sortimento/internal/logger"
	"sortimento/internal/records"
	"sortimento/internal/schema"
)

const (
	defaultBaseURL  = "https://marketplace.ifood.com.br"
	siteURL         = "https://www.ifood.com.br"
	imageBaseURL    = "https://static-images.ifood.com.br"
	taxonomyAccess  = "69f181d5-0046-4221-b7b2-deef62bd60d5"
	taxonomySecret  = "9ef4fb4f-7a1d-4e0d-a9b1-9b82873297d8"
	platformHeader  = "Desktop"
	appVersion      = "9.94.6"
	defaultUA       = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/118.0"
	detailWorkerCap = 8
)

type Options struct {
	Transport client.Transport
	BaseURL   string
	// ViaCEP and Nominatim resolve a postal code into coordinates.
	ViaCEPBaseURL    string
	NominatimBaseURL string
	DetailWorkers    int
	Logger           *zap.SugaredLogger
	Checker          *schema.Checker
}

type Service struct {
	api     *api
	geo     *geoAPI
	workers int
	log     *zap.SugaredLogger
	checker *schema.Checker
}

func New(opts Options) *Service {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.ViaCEPBaseURL == "" {
		opts.ViaCEPBaseURL = "https://viacep.com.br"
	}
	if opts.NominatimBaseURL == "" {
		opts.NominatimBaseURL = "https://nominatim.openstreetmap.org"
	}
	if opts.DetailWorkers <= 0 || opts.DetailWorkers > detailWorkerCap {
		opts.DetailWorkers = detailWorkerCap
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Checker == nil {
		opts.Checker = schema.New()
	}

	return &Service{
		api:     &api{doer: opts.Transport, baseURL: opts.BaseURL},
		geo:     &geoAPI{doer: opts.Transport, viaCEPBase: opts.ViaCEPBaseURL, nominatimBase: opts.NominatimBaseURL},
		workers: opts.DetailWorkers,
		log:     opts.Logger,
		checker: opts.Checker,
	}
}

func applyDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", defaultUA)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=1")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Origin", siteURL)
	req.Header.Set("Referer", siteURL)
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
	req.Header.Set("Pragma", "no-cache")
}

func applyTaxonomyHeaders(req *http.Request) {
	applyDefaultHeaders(req)
	req.Header.Set("access_key", taxonomyAccess)
	req.Header.Set("secret_key", taxonomySecret)
	req.Header.Set("platform", platformHeader)
	req.Header.Set("app_version", appVersion)
}

func applySegmentHeaders(req *http.Request) {
	applyDefaultHeaders(req)
	req.Header.Set("platform", platformHeader)
	req.Header.Set("app_version", appVersion)
	req.Header.Set("X-Ifood-Session-Id", "9e348c9d-9815-4140-8ef7-fac180b3a5d5")
	req.Header.Set("X-Ifood-Device-Id", "cdfcbb46-9bf9-4da9-af89-d6854c09eaa5")
	req.Header.Set("x-device-model", "Ubuntu Firefox")
	req.Header.Set("x-client-application-key", "41a266ee-51b7-4c37-9e9d-5cd331f280d5")
}

type SegmentParams struct {
	Latitude       string
	Longitude      string
	RequestWaiting int
}

func (s *Service) Segments(ctx context.Context, p SegmentParams) (records.List[Segment], error) {
	out := records.List[Segment]{Data: []Segment{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	raw, err := s.api.getSegments(ctx, p.Latitude, p.Longitude)
	if err != nil {
		return out, err
	}

	out.Data = s.parseSegments(raw, p)
	return out, nil
}

type StoreParams struct {
	Alias          string
	Latitude       string
	Longitude      string
	ZipCode        string
	RequestWaiting int
}

func (s *Service) Stores(ctx context.Context, p StoreParams) (records.List[Store], error) {
	out := records.List[Store]{Data: []Store{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	cards, err := s.api.getHomeCards(ctx, p.Alias, p.Latitude, p.Longitude)
	if err != nil {
		return out, err
	}

	out.Data = s.parseStores(cards, p)
	return out, nil
}

type StoreInfoParams struct {
	StoreID        string
	Latitude       string
	Longitude      string
	RequestWaiting int
}

func (s *Service) StoreInfo(ctx context.Context, p StoreInfoParams) (records.Object[StoreInfo], error) {
	var out records.Object[StoreInfo]

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	raw, err := s.api.getMerchantInfo(ctx, p.StoreID, p.Latitude, p.Longitude)
	if err != nil {
		return out, err
	}

	out.Data = parseStoreInfo(p.StoreID, raw)
	return out, nil
}

type DepartmentParams struct {
	SegmentType    string
	StoreID        string
	Latitude       string
	Longitude      string
	RequestWaiting int
}

func (s *Service) Departments(ctx context.Context, p DepartmentParams) (records.List[Department], error) {
	out := records.List[Department]{Data: []Department{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	raw, err := s.api.getTaxonomies(ctx, p.StoreID)
	if err != nil {
		return out, err
	}

	out.Data = parseDepartments(raw, p)
	return out, nil
}

type AssortmentParams struct {
	SegmentType    string
	Region         string
	StoreSlug      string
	StoreID        string
	DepartmentID   string
	SearchTerm     string
	Latitude       string
	Longitude      string
	Page           string
	RequestWaiting int
}

func (s *Service) Assortment(ctx context.Context, p AssortmentParams) (records.Page[Product], error) {
	out := records.Page[Product]{RecordsPerPage: assortmentPageSize, Data: []Product{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	raw, err := s.api.getCatalogCategory(ctx, p.StoreID, p.DepartmentID, p.Page)
	if err != nil {
		return out, err
	}

	return s.buildAssortment(ctx, raw, p)
}

func (s *Service) PostalCode(ctx context.Context, zipCode string) (records.Object[PostalCode], error) {
	var out records.Object[PostalCode]

	address, err := s.geo.lookupCEP(ctx, zipCode)
	if err != nil {
		return out, err
	}

	loc, address := s.resolveLocation(ctx, zipCode, address)

	out.Data = buildPostalCode(zipCode, address, loc)
	return out, nil
}
