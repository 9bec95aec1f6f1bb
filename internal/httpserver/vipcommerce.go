package httpserver

import (
	"net/http"

	"sortimento/internal/apis/vipcommerce"
)

func (s *Server) vipDistributionCenters(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := vipcommerce.DistributionCenterParams{
		Domain:         q.Str("domain"),
		BranchID:       q.Int("branch_id", 1),
		ZipCode:        q.StrLen("zip_code", 8),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vip.DistributionCenters(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) vipDepartments(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := vipcommerce.CatalogParams{
		Domain:               q.Str("domain"),
		BranchID:             q.Int("branch_id", 1),
		DistributionCenterID: q.Int("distribution_center_id", 1),
		RequestWaiting:       q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vip.Departments(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) vipCategories(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := vipcommerce.CatalogParams{
		Domain:               q.Str("domain"),
		BranchID:             q.Int("branch_id", 1),
		DistributionCenterID: q.Int("distribution_center_id", 1),
		RequestWaiting:       q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vip.Categories(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) vipAssortment(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := vipcommerce.AssortmentParams{
		Domain:               q.Str("domain"),
		BranchID:             q.Int("branch_id", 1),
		DistributionCenterID: q.Int("distribution_center_id", 1),
		CategoryID:           q.Int("category_id", 1),
		Page:                 q.Str("page"),
		RequestWaiting:       q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	out, err := s.vip.Assortment(ctx, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
