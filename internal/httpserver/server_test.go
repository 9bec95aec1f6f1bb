package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortimento/internal/apis/ifood"
	"sortimento/internal/apis/osuper"
	"sortimento/internal/apis/tendaatacado"
	"sortimento/internal/apis/ubereats"
	"sortimento/internal/apis/vipcommerce"
	"sortimento/internal/apis/vtex"
	"sortimento/internal/auth"
	"sortimento/internal/cache"
	"sortimento/internal/client"
	"sortimento/internal/config"
	"sortimento/internal/logger"
)

const testKey = "sorted-key-1"

// newTestServer wires every vendor at the given upstream and serves the full
// route tree with one allowed api key. The vendors sit behind the same
// retrying transport chain the binary assembles.
func newTestServer(t *testing.T, upstream *httptest.Server) *httptest.Server {
	t.Helper()
	t.Setenv("API_KEY_TEST", testKey)

	doer, err := client.Build(client.Options{
		HTTPClient: upstream.Client(),
		Retries:    3,
		Workers:    4,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	})
	require.NoError(t, err)
	base := upstream.URL

	vip, err := vipcommerce.New(vipcommerce.Options{
		Transport: doer, AuthToken: "tok-test", BaseURL: base,
	})
	require.NoError(t, err)

	s := New(Options{
		Config: config.Config{},
		Logger: logger.Nop(),
		Keys:   auth.KeysFromEnv("API_KEY"),
		Cache:  cache.New(time.Minute, time.Minute),
		Ifood: ifood.New(ifood.Options{
			Transport: doer, BaseURL: base,
			ViaCEPBaseURL: base, NominatimBaseURL: base,
		}),
		UberEats:     ubereats.New(ubereats.Options{Transport: doer, BaseURL: base}),
		TendaAtacado: tendaatacado.New(tendaatacado.Options{Transport: doer, BaseURL: base}),
		VipCommerce:  vip,
		Osuper: osuper.New(osuper.Options{
			Transport: doer, SearchBaseURL: base,
			GraphQLBaseURL: base, StorefrontBaseURL: base,
		}),
		Vtex: vtex.New(vtex.Options{Transport: doer, BaseURL: base}),
	})

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path, key string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeDetail(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Detail
}

func TestHealthSkipsAuth(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()
	srv := newTestServer(t, upstream)

	resp := get(t, srv, "/health", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.NotEmpty(t, resp.Header.Get("X-Process-Time"))
}

func TestRejectsMissingAndBadKey(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()
	srv := newTestServer(t, upstream)

	for _, key := range []string{"", "wrong"} {
		resp := get(t, srv, "/api/v1/tendaatacado/wholesale/department?request_waiting=3", key)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Unauthorized", decodeDetail(t, resp))
	}
}

func TestRequestWaitingValidation(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()
	srv := newTestServer(t, upstream)

	resp := get(t, srv, "/api/v1/tendaatacado/wholesale/department", testKey)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decodeDetail(t, resp), "request_waiting")

	resp = get(t, srv, "/api/v1/tendaatacado/wholesale/department?request_waiting=1", testKey)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decodeDetail(t, resp), "request_waiting")
}

func TestIfoodPostalCodeRejectsShortCEP(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()
	srv := newTestServer(t, upstream)

	resp := get(t, srv, "/api/v1/ifood/delivery/postal-code?zip_code=0131-000", testKey)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Por favor, preencha o CEP corretamente.", decodeDetail(t, resp))
}

func TestTendaDepartmentsEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/public/store/departments", r.URL.Path)
		fmt.Fprint(w, `[{"id": 12, "name": "Mercearia", "link": "mercearia", "hasChildren": false}]`)
	}))
	defer upstream.Close()
	srv := newTestServer(t, upstream)

	resp := get(t, srv, "/api/v1/tendaatacado/wholesale/department?request_waiting=3", testKey)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []tendaatacado.Department `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, tendaatacado.Department{Name: "MERCEARIA", DepartmentID: 12, SearchTerm: "mercearia"}, body.Data[0])
}

func TestOsuperDepartmentsCachesPerDomainAndStore(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"data": {"publicViewer": {"categories": [
			{"id": "4", "name": "Mercearia", "slug": "mercearia", "children": []}
		]}}}`)
	}))
	defer upstream.Close()
	srv := newTestServer(t, upstream)

	const path = "/api/v1/osuper/market/department?domain=loja.com.br&store_id=7&request_waiting=3"

	for i := 0; i < 2; i++ {
		resp := get(t, srv, path, testKey)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestVtexThrottleAnswers429(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()
	srv := newTestServer(t, upstream)

	resp := get(t, srv,
		"/api/v1/vtex/market/search-term?domain=loja.com.br&alias=loja&search_name=arroz&_from=0&_to=19&request_waiting=3",
		testKey)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too Many Requests.", decodeDetail(t, resp))

	// The retry layer burned its attempts and still surfaced the throttle.
	assert.EqualValues(t, 4, calls.Load())
}

func TestUpstreamFailureMapsTo422(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer upstream.Close()
	srv := newTestServer(t, upstream)

	resp := get(t, srv, "/api/v1/tendaatacado/wholesale/department?request_waiting=3", testKey)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decodeDetail(t, resp), "502")
}
