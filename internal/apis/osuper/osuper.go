// Package osuper scrapes storefronts hosted on the osuper platform. Catalog
// browsing goes through the per-domain GraphQL API, product search through
// the shared search cluster with cursor pagination.
package osuper

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"sortimento/internal/client"
	"sortimento/internal/logger"
	"sortimento/internal/records"
	"sortimento/internal/schema"
	"sortimento/internal/strutil"
)

const (
	defaultSearchBaseURL = "https://search.osuper.com.br"
	searchIndexPath      = "/ecommerce_products_production/_search"
	recordsPerPage       = 12
	defaultUA            = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/118.0"
)

type Options struct {
	Transport client.Transport
	// SearchBaseURL points at the shared search cluster.
	SearchBaseURL string
	// GraphQLBaseURL and StorefrontBaseURL pin every domain to a fixed host
	// when set; production leaves them empty and derives hosts per domain.
	GraphQLBaseURL    string
	StorefrontBaseURL string
	Logger            *zap.SugaredLogger
	Checker           *schema.Checker
}

type Service struct {
	api     *api
	log     *zap.SugaredLogger
	checker *schema.Checker
}

func New(opts Options) *Service {
	if opts.SearchBaseURL == "" {
		opts.SearchBaseURL = defaultSearchBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Checker == nil {
		opts.Checker = schema.New()
	}

	return &Service{
		api: &api{
			doer:           opts.Transport,
			searchBaseURL:  opts.SearchBaseURL,
			graphQLBase:    opts.GraphQLBaseURL,
			storefrontBase: opts.StorefrontBaseURL,
		},
		log:     opts.Logger,
		checker: opts.Checker,
	}
}

func applyHeaders(req *http.Request, domain string) {
	req.Header.Set("User-Agent", defaultUA)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.8,en-US;q=0.5,en;q=0.3")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", strutil.CheckSubdomain(domain))
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Cache-Control", "no-cache")
}

type StoreParams struct {
	Domain         string
	RequestWaiting int
}

func (s *Service) Stores(ctx context.Context, p StoreParams) (records.List[Store], error) {
	out := records.List[Store]{Data: []Store{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getOnlineStores(ctx, p.Domain)
	if err != nil {
		return out, err
	}
	if len(rows) == 0 {
		return out, nil
	}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}
	accountID, err := s.api.getAccountID(ctx, p.Domain)
	if err != nil {
		s.log.Warnw("account id lookup failed", "domain", p.Domain, "err", err)
	}

	for _, row := range rows {
		out.Data = append(out.Data, Store{
			Name:      naClean(row.Name),
			AccountID: accountID,
			StoreID:   atoi(row.ID),
			Alias:     naClean(row.Alias),
			CNPJ:      naOr(row.CNPJ),
			Address:   naClean(row.FullAddress.Complete),
			Contacts:  row.Contacts,
		})
	}
	return out, nil
}

type CatalogParams struct {
	Domain         string
	StoreID        int
	RequestWaiting int
}

func (s *Service) Departments(ctx context.Context, p CatalogParams) (records.List[Department], error) {
	out := records.List[Department]{Data: []Department{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getCategories(ctx, p.Domain, p.StoreID)
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		out.Data = append(out.Data, Department{
			Name:         naClean(row.Name),
			DepartmentID: atoi(row.ID),
			StoreID:      p.StoreID,
			Slug:         naOr(row.Slug),
			SearchTerm:   naOr(row.Name),
		})
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context, p CatalogParams) (records.List[Category], error) {
	out := records.List[Category]{Data: []Category{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getCategories(ctx, p.Domain, p.StoreID)
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		departmentID := atoi(row.ID)
		for _, child := range row.Children {
			out.Data = append(out.Data, Category{
				Name:         naClean(child.Name),
				CategoryID:   atoi(child.ID),
				DepartmentID: departmentID,
				StoreID:      p.StoreID,
				Slug:         naOr(child.Slug),
				SearchTerm:   fmt.Sprintf("%s > %s", naOr(row.Name), naOr(child.Name)),
			})
		}
	}
	return out, nil
}

type AssortmentParams struct {
	Domain         string
	AccountID      int
	StoreID        int
	CategoryID     int
	SearchTerm     string
	RequestWaiting int
}

// Assortment walks the search cursor until the last page and accumulates
// every edge in page order.
func (s *Service) Assortment(ctx context.Context, p AssortmentParams) (records.List[Product], error) {
	out := records.List[Product]{Data: []Product{}}

	cursor := ""
	for {
		if err := client.Pace(ctx, p.RequestWaiting); err != nil {
			return out, err
		}

		page, err := s.api.searchProducts(ctx, p, cursor)
		if err != nil {
			return out, err
		}

		s.appendProducts(&out, page.Edges, p)

		if !page.PageInfo.HasNextPage {
			break
		}
		cursor = page.PageInfo.EndCursor
	}
	return out, nil
}
