package source

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"toru/internal/config"
)

// NewHTTPClient builds the shared client used by every background task.
// It is created once at startup; the pool and cookie jar are internally
// synchronized, so tasks may use it concurrently.
func NewHTTPClient(cfg *config.Config) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if cfg.General.RequestProxy != "" {
		proxyURL, err := url.Parse(AddProtocol(cfg.General.RequestProxy, false))
		if err != nil {
			return nil, fmt.Errorf("parsing proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := cfg.General.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Jar:       jar,
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
