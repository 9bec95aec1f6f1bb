package httpserver

import (
	"net/http"
	"strings"

	"sortimento/internal/apis/ifood"
)

func (s *Server) ifoodPostalCode(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	zip := strings.ReplaceAll(q.Str("zip_code"), "-", "")
	if !q.ok(w) {
		return
	}
	if len(zip) != 8 {
		writeDetail(w, http.StatusUnprocessableEntity, "Por favor, preencha o CEP corretamente.")
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.ifood.PostalCode(ctx, zip)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ifoodSegments(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := ifood.SegmentParams{
		Latitude:       q.Str("latitude"),
		Longitude:      q.Str("longitude"),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.ifood.Segments(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ifoodStores(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := ifood.StoreParams{
		Alias:          q.Str("alias"),
		Latitude:       q.Str("latitude"),
		Longitude:      q.Str("longitude"),
		ZipCode:        q.Str("zip_code"),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.ifood.Stores(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ifoodStoreInfo(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := ifood.StoreInfoParams{
		StoreID:        q.Str("store_id"),
		Latitude:       q.Str("latitude"),
		Longitude:      q.Str("longitude"),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.ifood.StoreInfo(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ifoodDepartments(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := ifood.DepartmentParams{
		SegmentType:    q.Str("segment_type"),
		StoreID:        q.Str("store_id"),
		Latitude:       q.Str("latitude"),
		Longitude:      q.Str("longitude"),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.ifood.Departments(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ifoodAssortment pages one department. The floor is lower here because the
// catalog walk already paces its per-item detail calls.
func (s *Server) ifoodAssortment(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := ifood.AssortmentParams{
		SegmentType:    q.Str("segment_type"),
		Region:         q.Str("region"),
		StoreSlug:      q.Str("store_slug"),
		StoreID:        q.Str("store_id"),
		DepartmentID:   q.Str("department_id"),
		SearchTerm:     q.Str("search_term"),
		Latitude:       q.Str("latitude"),
		Longitude:      q.Str("longitude"),
		Page:           q.Str("page"),
		RequestWaiting: q.Waiting(2),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.ifood.Assortment(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
