package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Every scraping route requires a request_waiting pause between upstream
// calls. The floor is three seconds except where a route lowers it.
const waitFloor = 3

// query reads the typed parameters of one request and remembers the first
// validation failure, so a handler fills its whole params struct and checks
// once at the end.
type query struct {
	values url.Values
	detail string
}

func parseQuery(r *http.Request) *query {
	return &query{values: r.URL.Query()}
}

func (q *query) fail(format string, args ...any) {
	if q.detail == "" {
		q.detail = fmt.Sprintf(format, args...)
	}
}

func (q *query) Str(name string) string {
	v := q.values.Get(name)
	if v == "" {
		q.fail("query parameter %q is required", name)
	}
	return v
}

func (q *query) StrOpt(name, def string) string {
	if v := q.values.Get(name); v != "" {
		return v
	}
	return def
}

func (q *query) StrLen(name string, length int) string {
	v := q.Str(name)
	if v != "" && len(v) != length {
		q.fail("query parameter %q must have exactly %d characters", name, length)
	}
	return v
}

func (q *query) Int(name string, min int) int {
	raw := q.values.Get(name)
	if raw == "" {
		q.fail("query parameter %q is required", name)
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail("query parameter %q must be an integer", name)
		return 0
	}
	if v < min {
		q.fail("query parameter %q must be greater than or equal to %d", name, min)
	}
	return v
}

func (q *query) Waiting(min int) int {
	return q.Int("request_waiting", min)
}

// ok writes the 422 reply when any parameter failed and tells the handler
// whether to keep going.
func (q *query) ok(w http.ResponseWriter) bool {
	if q.detail != "" {
		writeDetail(w, http.StatusUnprocessableEntity, q.detail)
		return false
	}
	return true
}
