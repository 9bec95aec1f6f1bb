package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"sortimento/internal/upstream"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type detailBody struct {
	Detail string `json:"detail"`
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detailBody{Detail: msg})
}

// respondErr maps a scraping failure to the caller-facing status. A denied
// session and a throttle get their own codes; everything else surfaces as an
// unprocessable request with the error text.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// Caller went away, nothing to answer.
	case errors.Is(err, upstream.ErrAccessDenied):
		writeDetail(w, http.StatusUnauthorized, "Acesso não permitido.")
	case errors.Is(err, upstream.ErrRateLimited):
		writeDetail(w, http.StatusTooManyRequests, "Too Many Requests.")
	default:
		s.log.Errorw("request failed",
			"id", requestIDFrom(r.Context()),
			"path", r.URL.Path,
			"err", err,
		)
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	}
}
