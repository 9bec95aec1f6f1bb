// Package ubereats scrapes restaurant menus from the Uber Eats store API.
// One POST returns both the store profile and the whole catalog, so the two
// operations share the same endpoint.
package ubereats

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
	defaultBaseURL = "https://www.ubereats.com"
	defaultUA      = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/118.0"
)

type Options struct {
	Transport client.Transport
	BaseURL   string
	Logger    *zap.SugaredLogger
	Checker   *schema.Checker
}

type Service struct {
	api     *api
	log     *zap.SugaredLogger
	checker *schema.Checker
}

func New(opts Options) *Service {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Checker == nil {
		opts.Checker = schema.New()
	}

	return &Service{
		api:     &api{doer: opts.Transport, baseURL: opts.BaseURL},
		log:     opts.Logger,
		checker: opts.Checker,
	}
}

func applyHeaders(req *http.Request, baseURL string) {
	req.Header.Set("User-Agent", defaultUA)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-csrf-token", "x")
	req.Header.Set("Origin", baseURL)
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Priority", "u=0")
}

type Params struct {
	StoreID        string
	RequestWaiting int
}

func (s *Service) Assortment(ctx context.Context, p Params) (records.List[Product], error) {
	out := records.List[Product]{Data: []Product{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	data, err := s.api.getStore(ctx, p.StoreID)
	if err != nil {
		return out, err
	}

	out.Data = s.parseAssortment(p.StoreID, data)
	return out, nil
}

func (s *Service) StoreInfo(ctx context.Context, p Params) (records.Object[StoreInfo], error) {
	var out records.Object[StoreInfo]

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	data, err := s.api.getStore(ctx, p.StoreID)
	if err != nil {
		return out, err
	}

	out.Data = parseStoreInfo(p.StoreID, data)
	return out, nil
}
