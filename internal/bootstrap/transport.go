package bootstrap

import (
	"go.uber.org/zap"

	"sortimento/internal/client"
	"sortimento/internal/client/proxy"
	"sortimento/internal/client/transport"
	"sortimento/internal/config"
	"sortimento/internal/metrics"
)

// BuildTransport assembles the outbound chain used by every vendor service:
// proxy-aware http.Client, retry layer, concurrency cap and, when metrics is
// non-nil, an instrumentation layer on the outside.
func BuildTransport(cfg config.Config, log *zap.SugaredLogger, m *metrics.Metrics) (transport.Transport, error) {
	log.Infow("profile",
		"env", cfg.Env,
		"proxy_mode", cfg.Proxy.Mode,
		"proxy_list_len", len(cfg.Proxy.List),
	)

	pvd, failOpen, err := proxy.FromConfig(proxy.Config{
		Mode:               cfg.Proxy.Mode,
		List:               cfg.Proxy.List,
		RotationURL:        cfg.Proxy.RotationURL,
		RotationTTLSeconds: cfg.Proxy.RotationTTLSeconds,
		FailOpen:           cfg.Proxy.FailOpen,
	}, log)
	if err != nil {
		return nil, err
	}

	proxyFunc := client.ProxyFuncFromProvider(pvd, failOpen, log)

	if proxyFunc == nil {
		log.Warnw("proxy OFF", "mode", cfg.Proxy.Mode)
	} else {
		log.Infow("proxy ON", "mode", cfg.Proxy.Mode, "fail_open", cfg.Proxy.FailOpen)
	}

	httpClient := client.NewHTTPClientWithProxy(cfg.HTTP.Timeout, proxyFunc)

	t, err := client.Build(client.Options{
		HTTPClient: httpClient,
		Retries:    cfg.HTTP.Retries(),
		Workers:    cfg.HTTP.MaxConcurrent,
		BaseDelay:  cfg.HTTP.RetryBaseDelay,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}

	if m != nil {
		return &metrics.Transport{Next: t, M: m}, nil
	}
	return t, nil
}
