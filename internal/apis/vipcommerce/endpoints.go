package vipcommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sortimento/internal/strutil"
	"sortimento/internal/upstream"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type api struct {
	doer      Doer
	authToken string
	baseURL   string
}

func (a *api) apiURL(domain string) string {
	if a.baseURL != "" {
		return a.baseURL
	}
	return "https://api." + domain
}

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

// getJSON runs one authenticated GET and decodes the body with UseNumber so
// string and numeric ids survive untouched.
func (a *api) getJSON(ctx context.Context, op, rawURL string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	a.applyHeaders(req)

	resp, err := a.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstream.NewAPIError(op, resp.StatusCode, body)
	}

	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: bad json: %w", op, err)
	}
	return out, nil
}

func dataRows(resp map[string]any) []map[string]any {
	raw, _ := resp["data"].([]any)
	rows := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if row, ok := r.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func (a *api) getDistributionCenters(ctx context.Context, p DistributionCenterParams) ([]map[string]any, error) {
	rawURL := fmt.Sprintf("%s/v1/loja/centros_distribuicoes/filial/%d/retiradas?cep=%s",
		a.apiURL(p.Domain), p.BranchID, url.QueryEscape(p.ZipCode))

	resp, err := a.getJSON(ctx, "vipcommerce.distribution_centers", rawURL)
	if err != nil {
		return nil, err
	}
	return dataRows(resp), nil
}

func (a *api) getDepartmentTree(ctx context.Context, p CatalogParams) ([]map[string]any, error) {
	rawURL := fmt.Sprintf("%s/v1/loja/classificacoes_mercadologicas/departamentos/arvore/filial/%d/centro_distribuicao/%d",
		a.apiURL(p.Domain), p.BranchID, p.DistributionCenterID)

	resp, err := a.getJSON(ctx, "vipcommerce.departments", rawURL)
	if err != nil {
		return nil, err
	}
	return dataRows(resp), nil
}

func (a *api) getProducts(ctx context.Context, p AssortmentParams) (map[string]any, error) {
	rawURL := fmt.Sprintf("%s/v1/loja/classificacoes_mercadologicas/secoes/%d/produtos/filial/%d/centro_distribuicao/%d/ativos?orderby=produto.descricao&page=%s",
		a.apiURL(p.Domain), p.CategoryID, p.BranchID, p.DistributionCenterID, url.QueryEscape(p.Page))

	return a.getJSON(ctx, "vipcommerce.assortment", rawURL)
}
