package vtex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sortimento/internal/upstream"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type api struct {
	doer    Doer
	baseURL string
}

func (a *api) hostURL(alias string) string {
	if a.baseURL != "" {
		return a.baseURL
	}
	return "https://" + alias + hostSuffix
}

func (a *api) get(ctx context.Context, op, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("cache-control", "no-cache")

	resp, err := a.doer.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func (a *api) getJSON(ctx context.Context, op, rawURL string, out any) error {
	status, body, err := a.get(ctx, op, rawURL)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return upstream.NewAPIError(op, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: bad json: %w", op, err)
	}
	return nil
}

type treeRow struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	HasChildren bool      `json:"hasChildren"`
	Children    []treeRow `json:"children"`
}

func (a *api) getCategoryTree(ctx context.Context, alias string) ([]treeRow, error) {
	var tree []treeRow
	err := a.getJSON(ctx, "vtex.category_tree",
		a.hostURL(alias)+"/api/catalog_system/pub/category/tree/3", &tree)
	return tree, err
}

type brandRow struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	IsActive bool   `json:"isActive"`
}

func (a *api) getBrands(ctx context.Context, alias string) ([]brandRow, error) {
	var rows []brandRow
	err := a.getJSON(ctx, "vtex.brands",
		a.hostURL(alias)+"/api/catalog_system/pub/brand/list", &rows)
	return rows, err
}

type topSearchRow struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

func (a *api) getTopSearches(ctx context.Context, alias string) ([]topSearchRow, error) {
	var out struct {
		Searches []topSearchRow `json:"searches"`
	}
	err := a.getJSON(ctx, "vtex.top_searches",
		a.hostURL(alias)+"/api/io/_v/api/intelligent-search/top_searches", &out)
	return out.Searches, err
}

// search runs one windowed product search. The platform answers 206 for a
// partial window, which is still a full page for us, and 429 when throttled.
func (a *api) search(ctx context.Context, op, rawURL string) ([]map[string]any, error) {
	status, body, err := a.get(ctx, op, rawURL)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusPartialContent:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: %w", op, upstream.ErrRateLimited)
	default:
		return nil, upstream.NewAPIError(op, status, body)
	}

	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%s: bad json: %w", op, err)
	}
	return rows, nil
}

func (a *api) searchCategory(ctx context.Context, p AssortmentParams) ([]map[string]any, error) {
	rawURL := fmt.Sprintf("%s/api/catalog_system/pub/products/search/?fq=C:/%d/%d/&_from=%d&_to=%d",
		a.hostURL(p.Alias), p.DepartmentID, p.CategoryID, p.From, p.To)
	return a.search(ctx, "vtex.assortment", rawURL)
}

func (a *api) searchText(ctx context.Context, p SearchTermParams) ([]map[string]any, error) {
	rawURL := fmt.Sprintf("%s/api/catalog_system/pub/products/search/?ft=%s&_from=%d&_to=%d",
		a.hostURL(p.Alias), url.QueryEscape(strings.ToLower(p.SearchName)), p.From, p.To)
	return a.search(ctx, "vtex.search_term", rawURL)
}
