package httpserver

import (
	"net/http"

	"sortimento/internal/apis/tendaatacado"
)

func (s *Server) tendaDepartments(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := tendaatacado.CatalogParams{
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.tenda.Departments(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) tendaCategories(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := tendaatacado.CatalogParams{
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.tenda.Categories(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) tendaAssortment(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := tendaatacado.AssortmentParams{
		CategoryID:     q.Int("category_id", 1),
		SearchTerm:     q.Str("search_term"),
		Page:           q.Str("page"),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.tenda.Assortment(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
