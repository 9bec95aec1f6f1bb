package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"sortimento/internal/client/httpc"
	"sortimento/internal/client/proxy"
	"sortimento/internal/client/transport"
)

type Transport = transport.Transport

type Options struct {
	HTTPClient *http.Client
	Retries    int
	Workers    int

	BaseDelay time.Duration
	MaxDelay  time.Duration

	Logger *zap.SugaredLogger
}

func Build(opts Options) (Transport, error) {
	return transport.Build(transport.Options{
		HTTPClient:  opts.HTTPClient,
		Retries:     opts.Retries,
		Concurrency: opts.Workers,
		BaseDelay:   opts.BaseDelay,
		MaxDelay:    opts.MaxDelay,
		Logger:      opts.Logger,
	})
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return httpc.New(timeout)
}

func NewHTTPClientWithProxy(timeout time.Duration, proxyFunc func(*http.Request) (*url.URL, error)) *http.Client {
	return httpc.NewWithProxy(timeout, proxyFunc)
}

func ProxyFuncFromProvider(p proxy.Provider, failOpen bool, log *zap.SugaredLogger) func(*http.Request) (*url.URL, error) {
	return proxy.FromProvider(p, failOpen, log)
}

// Pace sleeps the caller-requested pause between scraping calls. It returns
// early with the context error when the request is cancelled.
func Pace(ctx context.Context, seconds int) error {
	if seconds <= 0 {
		return nil
	}
	t := time.NewTimer(time.Duration(seconds) * time.Second)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
