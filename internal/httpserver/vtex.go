package httpserver

import (
	"net/http"

	"sortimento/internal/apis/vtex"
)

func (s *Server) vtexCatalogParams(q *query) vtex.CatalogParams {
	return vtex.CatalogParams{
		Subdomain:      q.Str("subdomain"),
		RequestWaiting: q.Waiting(waitFloor),
	}
}

func (s *Server) vtexDepartments(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := s.vtexCatalogParams(q)
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vtex.Departments(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) vtexCategories(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := s.vtexCatalogParams(q)
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vtex.Categories(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) vtexSubCategories(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := s.vtexCatalogParams(q)
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vtex.SubCategories(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) vtexBrands(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := s.vtexCatalogParams(q)
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vtex.Brands(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) vtexTopSearches(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := s.vtexCatalogParams(q)
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vtex.TopSearches(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) vtexAssortment(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := vtex.AssortmentParams{
		Domain:         q.Str("domain"),
		Subdomain:      q.StrOpt("subdomain", ""),
		Alias:          q.Str("alias"),
		DepartmentID:   q.Int("department_id", 1),
		CategoryID:     q.Int("category_id", 1),
		From:           q.Int("_from", 0),
		To:             q.Int("_to", 0),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vtex.Assortment(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) vtexSearchTerm(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := vtex.SearchTermParams{
		Domain:         q.Str("domain"),
		Subdomain:      q.StrOpt("subdomain", ""),
		Alias:          q.Str("alias"),
		SearchName:     q.Str("search_name"),
		From:           q.Int("_from", 0),
		To:             q.Int("_to", 0),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vtex.SearchTerm(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
