package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfigDisabled(t *testing.T) {
	p, failOpen, err := FromConfig(Config{Mode: "disabled"}, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, failOpen)

	p, _, err = FromConfig(Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestFromConfigUnknownMode(t *testing.T) {
	_, _, err := FromConfig(Config{Mode: "tunnel"}, nil)
	assert.ErrorContains(t, err, "unknown proxy.mode")
}

func TestListProviderRoundRobin(t *testing.T) {
	p, err := NewListProvider([]string{"a:1", " ", "b:2"})
	require.NoError(t, err)

	ctx := context.Background()
	got := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		s, err := p.Next(ctx)
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.Equal(t, []string{"a:1", "b:2", "a:1", "b:2"}, got)
}

func TestListProviderEmpty(t *testing.T) {
	_, err := NewListProvider([]string{"", "  "})
	assert.ErrorContains(t, err, "empty")
}

func TestRotationProviderCachesForTTL(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"proxy":"10.0.0.5:3128"}`))
	}))
	defer srv.Close()

	p := NewRotationProvider(srv.URL, time.Minute, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		s, err := p.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.5:3128", s)
	}
	assert.Equal(t, 1, calls)
}

func TestParseRotationBody(t *testing.T) {
	assert.Equal(t, "1.2.3.4:80", parseRotationBody([]byte("1.2.3.4:80\n")))
	assert.Equal(t, "1.2.3.4:80", parseRotationBody([]byte(`{"url":"1.2.3.4:80"}`)))
	assert.Equal(t, "1.2.3.4:80", parseRotationBody([]byte(`["1.2.3.4:80","5.6.7.8:80"]`)))
	assert.Empty(t, parseRotationBody([]byte(`{"other":1}`)))
	assert.Empty(t, parseRotationBody([]byte("")))
}

func TestFromProviderPrefixesScheme(t *testing.T) {
	p, err := NewListProvider([]string{"10.0.0.9:8080"})
	require.NoError(t, err)

	fn := FromProvider(p, false, nil)
	req := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	u, err := fn(req)
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "10.0.0.9:8080", u.Host)
}
