// Package vtex scrapes stores hosted on the VTEX commerce platform through
// the public catalog_system API. Search results are windowed by the caller
// with _from/_to offsets; the platform answers 206 for partial windows and
// 429 when it throttles.
package vtex

import (
	"context"

	"go.uber.org/zap"

	"sortimento/internal/client"
	"sortimento/internal/logger"
	"sortimento/internal/records"
	"sortimento/internal/schema"
	"sortimento/internal/strutil"
)

const (
	hostSuffix = ".vtexcommercestable.com.br"

	// The platform caps free-text search at 2500 items regardless of the
	// real catalog size, so the pagination header is fixed.
	searchRecordsPerPage = 20
	searchItems          = 2500
	searchPages          = 130
)

type Options struct {
	Transport client.Transport
	// BaseURL pins every store alias to a fixed host when set; production
	// leaves it empty and derives {alias}.vtexcommercestable.com.br.
	BaseURL string
	Logger  *zap.SugaredLogger
	Checker *schema.Checker
}

type Service struct {
	api     *api
	log     *zap.SugaredLogger
	checker *schema.Checker
}

func New(opts Options) *Service {
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

type CatalogParams struct {
	Subdomain      string
	RequestWaiting int
}

func (s *Service) Departments(ctx context.Context, p CatalogParams) (records.List[Department], error) {
	out := records.List[Department]{Data: []Department{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	tree, err := s.api.getCategoryTree(ctx, p.Subdomain)
	if err != nil {
		return out, err
	}

	for _, row := range tree {
		out.Data = append(out.Data, Department{
			Name:         strutil.CleanHTML(row.Name),
			DepartmentID: row.ID,
			URL:          row.URL,
		})
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context, p CatalogParams) (records.List[Category], error) {
	out := records.List[Category]{Data: []Category{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	tree, err := s.api.getCategoryTree(ctx, p.Subdomain)
	if err != nil {
		return out, err
	}

	for _, row := range tree {
		if !row.HasChildren {
			continue
		}
		for _, child := range row.Children {
			out.Data = append(out.Data, Category{
				Name:         strutil.CleanHTML(child.Name),
				DepartmentID: row.ID,
				CategoryID:   child.ID,
				URL:          child.URL,
			})
		}
	}
	return out, nil
}

func (s *Service) SubCategories(ctx context.Context, p CatalogParams) (records.List[SubCategory], error) {
	out := records.List[SubCategory]{Data: []SubCategory{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	tree, err := s.api.getCategoryTree(ctx, p.Subdomain)
	if err != nil {
		return out, err
	}

	for _, department := range tree {
		if !department.HasChildren {
			continue
		}
		for _, category := range department.Children {
			if !category.HasChildren {
				continue
			}
			for _, sub := range category.Children {
				out.Data = append(out.Data, SubCategory{
					Name:          strutil.CleanHTML(sub.Name),
					DepartmentID:  department.ID,
					CategoryID:    category.ID,
					SubCategoryID: sub.ID,
					URL:           sub.URL,
				})
			}
		}
	}
	return out, nil
}

func (s *Service) Brands(ctx context.Context, p CatalogParams) (records.List[Brand], error) {
	out := records.List[Brand]{Data: []Brand{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getBrands(ctx, p.Subdomain)
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		out.Data = append(out.Data, Brand{
			Name:    strutil.CleanHTML(row.Name),
			Title:   strutil.CleanHTML(row.Title),
			BrandID: row.ID,
		})
	}
	return out, nil
}

func (s *Service) TopSearches(ctx context.Context, p CatalogParams) (records.List[TopSearch], error) {
	out := records.List[TopSearch]{Data: []TopSearch{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getTopSearches(ctx, p.Subdomain)
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		out.Data = append(out.Data, TopSearch{
			Term:  strutil.CleanHTML(row.Term),
			Count: row.Count,
		})
	}
	return out, nil
}

type AssortmentParams struct {
	Domain         string
	Subdomain      string
	Alias          string
	DepartmentID   int
	CategoryID     int
	From           int
	To             int
	RequestWaiting int
}

// Assortment lists one _from/_to window of a category path.
func (s *Service) Assortment(ctx context.Context, p AssortmentParams) (records.OffsetPage[Product], error) {
	out := records.OffsetPage[Product]{Data: []Product{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.searchCategory(ctx, p)
	if err != nil {
		return out, err
	}
	if len(rows) == 0 {
		return out, nil
	}

	s.fillSearchPage(&out, rows, searchContext{
		domain:       p.Domain,
		subdomain:    p.Subdomain,
		departmentID: p.DepartmentID,
		categoryID:   p.CategoryID,
		from:         p.From,
		to:           p.To,
	})
	return out, nil
}

type SearchTermParams struct {
	Domain         string
	Subdomain      string
	Alias          string
	SearchName     string
	From           int
	To             int
	RequestWaiting int
}

// SearchTerm lists one _from/_to window of a free-text search.
func (s *Service) SearchTerm(ctx context.Context, p SearchTermParams) (records.OffsetPage[Product], error) {
	out := records.OffsetPage[Product]{Data: []Product{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.searchText(ctx, p)
	if err != nil {
		return out, err
	}
	if len(rows) == 0 {
		return out, nil
	}

	s.fillSearchPage(&out, rows, searchContext{
		domain:     p.Domain,
		subdomain:  p.Subdomain,
		searchName: p.SearchName,
		from:       p.From,
		to:         p.To,
	})
	return out, nil
}
