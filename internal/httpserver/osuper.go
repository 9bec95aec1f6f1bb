package httpserver

import (
	"net/http"
	"strconv"

	"sortimento/internal/apis/osuper"
	"sortimento/internal/cache"
	"sortimento/internal/records"
)

// The osuper storefront and search cluster are slow enough that every
// resource caches the whole envelope for the configured TTL.

func (s *Server) osuperStores(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := osuper.StoreParams{
		Domain:         q.Str("domain"),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	key := cache.Key("store", p.Domain)
	out, err := cached(s.cache, key, func() (records.List[osuper.Store], error) {
		return s.osuper.Stores(ctx, p)
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) osuperDepartments(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := osuper.CatalogParams{
		Domain:         q.Str("domain"),
		StoreID:        q.Int("store_id", 1),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	key := cache.Key("department", p.Domain, strconv.Itoa(p.StoreID))
	out, err := cached(s.cache, key, func() (records.List[osuper.Department], error) {
		return s.osuper.Departments(ctx, p)
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) osuperCategories(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := osuper.CatalogParams{
		Domain:         q.Str("domain"),
		StoreID:        q.Int("store_id", 1),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	key := cache.Key("category", p.Domain, strconv.Itoa(p.StoreID))
	out, err := cached(s.cache, key, func() (records.List[osuper.Category], error) {
		return s.osuper.Categories(ctx, p)
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) osuperAssortment(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := osuper.AssortmentParams{
		Domain:         q.Str("domain"),
		AccountID:      q.Int("account_id", 1),
		StoreID:        q.Int("store_id", 1),
		CategoryID:     q.Int("category_id", 1),
		SearchTerm:     q.Str("search_term"),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	key := cache.Key("assortment", p.Domain,
		strconv.Itoa(p.AccountID), strconv.Itoa(p.StoreID),
		strconv.Itoa(p.CategoryID), p.SearchTerm)
	out, err := cached(s.cache, key, func() (records.List[osuper.Product], error) {
		return s.osuper.Assortment(ctx, p)
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
