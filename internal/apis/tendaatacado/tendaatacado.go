// Package tendaatacado scrapes the Tenda Atacado public store API. The
// catalog is a flat department tree plus a paged product listing per
// category.
package tendaatacado

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
	defaultBaseURL = "https://api.tendaatacado.com.br"
	storefrontURL  = "https://www.tendaatacado.com.br"
	recordsPerPage = 20
	defaultCartID  = "7383256"
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

func applyHeaders(req *http.Request) {
	req.Header.Set("User-Agent", defaultUA)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Origin", storefrontURL)
	req.Header.Set("DNT", "1")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
}

type CatalogParams struct {
	RequestWaiting int
}

func (s *Service) Departments(ctx context.Context, p CatalogParams) (records.List[Department], error) {
	out := records.List[Department]{Data: []Department{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getDepartments(ctx)
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		out.Data = append(out.Data, Department{
			Name:         naClean(row.Name),
			DepartmentID: row.ID,
			SearchTerm:   naOr(row.Link),
		})
	}
	return out, nil
}

// Categories flattens the children of the department tree; departments
// without children contribute nothing.
func (s *Service) Categories(ctx context.Context, p CatalogParams) (records.List[Category], error) {
	out := records.List[Category]{Data: []Category{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getDepartments(ctx)
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		if !row.HasChildren {
			continue
		}
		for _, child := range row.Children {
			out.Data = append(out.Data, Category{
				Name:         naClean(child.Name),
				CategoryID:   child.ID,
				DepartmentID: row.ID,
				SearchTerm:   naOr(child.Link),
			})
		}
	}
	return out, nil
}

type AssortmentParams struct {
	CategoryID     int
	SearchTerm     string
	Page           string
	RequestWaiting int
}

func (s *Service) Assortment(ctx context.Context, p AssortmentParams) (records.Page[Product], error) {
	out := records.Page[Product]{Data: []Product{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	resp, err := s.api.getProducts(ctx, p)
	if err != nil {
		return out, err
	}
	if len(resp.Products) == 0 {
		return out, nil
	}

	now := records.Now()
	for _, row := range resp.Products {
		prod := parseProduct(row, p, now)
		if msgs := s.checker.Check(prod); len(msgs) > 0 {
			s.log.Warnw("product dropped", "sku", prod.SKU, "reasons", msgs)
			continue
		}
		out.Data = append(out.Data, prod)
	}

	out.RecordsPerPage = recordsPerPage
	out.Items = resp.TotalProducts
	out.Pages = resp.TotalPages
	return out, nil
}
