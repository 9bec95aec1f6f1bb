// Package vipcommerce scrapes white-label grocery storefronts on the
// vipcommerce platform. Every call needs the platform Bearer token.
package vipcommerce

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"sortimento/internal/client"
	"sortimento/internal/jsonmap"
	"sortimento/internal/logger"
	"sortimento/internal/records"
	"sortimento/internal/schema"
	"sortimento/internal/strutil"
)

const (
	imageBaseURL = "https://s3.amazonaws.com/produtos.vipcommerce.com.br/250x250/"
	defaultUA    = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/118.0"
)

// ErrMissingToken is returned when the service is built without the platform
// Bearer token.
var ErrMissingToken = errors.New("vipcommerce: missing auth token")

type Options struct {
	Transport client.Transport
	// AuthToken is the platform-wide Bearer token, AUTH_TOKEN_VIPCOMMERCE in
	// the environment.
	AuthToken string
	// BaseURL pins every domain to a fixed host when set; production leaves
	// it empty and derives api.{domain} per request.
	BaseURL string
	Logger  *zap.SugaredLogger
	Checker *schema.Checker
}

type Service struct {
	api     *api
	log     *zap.SugaredLogger
	checker *schema.Checker
}

func New(opts Options) (*Service, error) {
	if opts.AuthToken == "" {
		return nil, ErrMissingToken
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Checker == nil {
		opts.Checker = schema.New()
	}

	return &Service{
		api:     &api{doer: opts.Transport, authToken: opts.AuthToken, baseURL: opts.BaseURL},
		log:     opts.Logger,
		checker: opts.Checker,
	}, nil
}

func (a *api) applyHeaders(req *http.Request) {
	req.Header.Set("User-Agent", defaultUA)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("DNT", "1")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
	req.Header.Set("Authorization", "Bearer "+a.authToken)
}

type DistributionCenterParams struct {
	Domain         string
	BranchID       int
	ZipCode        string
	RequestWaiting int
}

func (s *Service) DistributionCenters(ctx context.Context, p DistributionCenterParams) (records.List[DistributionCenter], error) {
	out := records.List[DistributionCenter]{Data: []DistributionCenter{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getDistributionCenters(ctx, p)
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		location := jsonmap.Map(row, "endereco")
		contact := jsonmap.Map(row, "relacionamento_cliente")

		out.Data = append(out.Data, DistributionCenter{
			Name:                 naClean(jsonmap.Str(row, "nome")),
			SiteURL:              jsonmap.Str(row, "nome_site"),
			CNPJ:                 jsonmap.Str(row, "cnpj"),
			DistributionCenterID: jsonmap.Int(row, "id"),
			ZipCode:              jsonmap.Str(location, "cep"),
			Address:              strutil.CleanHTML(jsonmap.Str(location, "logradouro")),
			Number:               jsonmap.Str(location, "numero"),
			Complement:           strutil.CleanHTML(jsonmap.Str(location, "complemento")),
			Neighborhood:         strutil.CleanHTML(jsonmap.Str(location, "bairro")),
			City:                 strutil.CleanHTML(jsonmap.Str(location, "cidade")),
			State:                strutil.CleanHTML(jsonmap.Str(location, "estado")),
			Email:                jsonmap.Str(contact, "email"),
			Phone:                jsonmap.Str(contact, "telefone"),
			Whatsapp:             jsonmap.Str(contact, "whatsapp"),
			BranchID:             p.BranchID,
			SearchTerm:           p.ZipCode,
		})
	}
	return out, nil
}

type CatalogParams struct {
	Domain               string
	BranchID             int
	DistributionCenterID int
	RequestWaiting       int
}

func (s *Service) Departments(ctx context.Context, p CatalogParams) (records.List[Department], error) {
	out := records.List[Department]{Data: []Department{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getDepartmentTree(ctx, p)
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		out.Data = append(out.Data, Department{
			Name:                 naClean(jsonmap.Str(row, "descricao")),
			DepartmentID:         jsonmap.Int(row, "classificacao_mercadologica_id"),
			Slug:                 naOr(jsonmap.Str(row, "link")),
			BranchID:             p.BranchID,
			DistributionCenterID: p.DistributionCenterID,
		})
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context, p CatalogParams) (records.List[Category], error) {
	out := records.List[Category]{Data: []Category{}}

	if err := client.Pace(ctx, p.RequestWaiting); err != nil {
		return out, err
	}

	rows, err := s.api.getDepartmentTree(ctx, p)
	if err != nil {
		return out, err
	}

	for _, row := range rows {
		departmentID := jsonmap.Int(row, "classificacao_mercadologica_id")
		for _, c := range jsonmap.Slice(row, "children") {
			child, ok := c.(map[string]any)
			if !ok {
				continue
			}
			out.Data = append(out.Data, Category{
				Name:                 naClean(jsonmap.Str(child, "descricao")),
				CategoryID:           jsonmap.Int(child, "classificacao_mercadologica_id"),
				DepartmentID:         departmentID,
				Slug:                 naOr(jsonmap.Str(child, "link")),
				BranchID:             p.BranchID,
				DistributionCenterID: p.DistributionCenterID,
			})
		}
	}
	return out, nil
}

type AssortmentParams struct {
	Domain               string
	BranchID             int
	DistributionCenterID int
	CategoryID           int
	Page                 string
	RequestWaiting       int
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

	rows := jsonmap.Slice(resp, "data")
	if len(rows) == 0 {
		return out, nil
	}

	now := records.Now()
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		prod := s.parseProduct(row, p, now)
		if msgs := s.checker.Check(prod); len(msgs) > 0 {
			s.log.Warnw("product dropped", "sku", prod.SKU, "reasons", msgs)
			continue
		}
		out.Data = append(out.Data, prod)
	}

	paginator := jsonmap.Map(resp, "paginator")
	out.RecordsPerPage = jsonmap.Int(paginator, "items_per_page")
	out.Items = jsonmap.Int(paginator, "total_items")
	out.Pages = jsonmap.Int(paginator, "total_pages")
	return out, nil
}

func (s *Service) parseProduct(row map[string]any, p AssortmentParams, now records.Stamp) Product {
	available := "N"
	if jsonmap.Bool(row, "disponivel") {
		available = "S"
	}
	prioritized := "N"
	if jsonmap.Bool(row, "produto_priorizado") {
		prioritized = "S"
	}

	productID := jsonmap.Int(row, "produto_id")

	fraction := jsonmap.Map(row, "unidade_fracao")
	offer := jsonmap.Map(row, "oferta")

	image := ""
	if img := jsonmap.Str(row, "imagem"); img != "" {
		image = imageBaseURL + img
	}
	url := ""
	if link := jsonmap.Str(row, "link"); link != "" {
		url = fmt.Sprintf("https://www.%s/produtos/detalhe/%d/%s", p.Domain, productID, link)
	}

	return Product{
		Name:                 naClean(jsonmap.Str(row, "descricao")),
		EAN:                  strutil.CleanEAN(jsonmap.Str(row, "codigo_barras")),
		SKU:                  naOr(jsonmap.Str(row, "sku")),
		ProductID:            productID,
		Brand:                naOr(jsonmap.Str(row, "marca")),
		CategoryID:           p.CategoryID,
		BranchID:             p.BranchID,
		DistributionCenterID: p.DistributionCenterID,
		PriceFrom:            jsonmap.Float(row, "preco_original"),
		PriceTo:              jsonmap.Float(row, "preco"),
		PriceOffer:           jsonmap.Float(offer, "preco_oferta"),
		QtyMin:               jsonmap.Float(offer, "quantidade_minima"),
		QtyMax:               jsonmap.Float(offer, "quantidade_maxima"),
		SoldAmount:           jsonmap.Int(row, "quantidade_vendida"),
		Available:            available,
		UnitLabel:            jsonmap.Str(row, "unidade_sigla"),
		UnitFraction:         jsonmap.Int(fraction, "fracao"),
		QtyFraction:          jsonmap.Int(fraction, "quantidade"),
		PriceFraction:        jsonmap.Float(fraction, "preco"),
		PrioritizedProduct:   prioritized,
		MainVolume:           jsonmap.Str(row, "volume_principal"),
		URL:                  url,
		Image:                image,
		Stamp:                now,
	}
}
