package httpserver

import (
	"net/http"

	"sortimento/internal/apis/ubereats"
	"sortimento/internal/cache"
	"sortimento/internal/records"
)

// Both resources come from the same heavy store payload, so each one caches
// under its own key per store.

func (s *Server) ubereatsStoreInfo(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := ubereats.Params{
		StoreID:        q.Str("store_id"),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	key := cache.Key("ubereats:store-info", p.StoreID)
	out, err := cached(s.cache, key, func() (records.Object[ubereats.StoreInfo], error) {
		return s.ubereats.StoreInfo(ctx, p)
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ubereatsAssortment(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	p := ubereats.Params{
		StoreID:        q.Str("store_id"),
		RequestWaiting: q.Waiting(waitFloor),
	}
	if !q.ok(w) {
		return
	}

	ctx, cancel := s.opCtx(r)
	defer cancel()

	key := cache.Key("ubereats:assortment", p.StoreID)
	out, err := cached(s.cache, key, func() (records.List[ubereats.Product], error) {
		return s.ubereats.Assortment(ctx, p)
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
