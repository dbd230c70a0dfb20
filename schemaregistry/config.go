package schemaregistry

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

const registryMediaType = "application/vnd.schemaregistry.v1+json"

// RegistryConfig configures a Client. Build one with NewRegistryConfig
// and the With* options, then hand it to FromConfig.
type RegistryConfig struct {
	urls         []string
	auth         Authentication
	proxy        *url.URL
	headers      http.Header
	httpClient   *http.Client
	logger       *logrus.Entry
	singleflight bool
}

// RegistryConfigOption customizes a RegistryConfig. Mirrors the
// functional-options idiom hamba/avro/v2/registry exposes as
// ClientFunc.
type RegistryConfigOption func(*RegistryConfig) error

// NewRegistryConfig builds a config from an ordered, non-empty list of
// replica base URLs, applying every option in order. Options are
// validated here, not deferred to client construction: a bad header, a
// malformed proxy URL, or an empty url list all fail at this call.
func NewRegistryConfig(urls []string, opts ...RegistryConfigOption) (RegistryConfig, error) {
	if len(urls) == 0 {
		return RegistryConfig{}, &ConfigError{Reason: "at least one registry url is required"}
	}
	for _, u := range urls {
		if _, err := url.Parse(u); err != nil {
			return RegistryConfig{}, &ConfigError{Reason: "invalid registry url " + u + ": " + err.Error()}
		}
	}

	cfg := RegistryConfig{
		urls:       append([]string(nil), urls...),
		headers:    make(http.Header),
		httpClient: http.DefaultClient,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return RegistryConfig{}, err
		}
	}

	return cfg, nil
}

// WithAuthentication attaches Basic or Bearer credentials. Configuring a
// second authentication after one is already set replaces the prior
// choice and logs a warning, matching §6's configuration surface.
func WithAuthentication(auth Authentication) RegistryConfigOption {
	return func(c *RegistryConfig) error {
		if c.auth.kind != AuthNone {
			c.logger.Warn("schemaregistry: replacing previously configured authentication")
		}
		c.auth = auth
		return nil
	}
}

// WithProxy routes every replica's HTTP transport through proxyURL.
func WithProxy(proxyURL string) RegistryConfigOption {
	return func(c *RegistryConfig) error {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return &ConfigError{Reason: "invalid proxy url: " + err.Error()}
		}
		c.proxy = parsed
		return nil
	}
}

// WithHeader attaches a custom header sent on every request. Supplements
// the original spec per the source crate's per-request header support
// (original_source/schema-registry-client/src/config.rs).
func WithHeader(name, value string) RegistryConfigOption {
	return func(c *RegistryConfig) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return &ConfigError{Reason: "header name must not be empty"}
		}
		c.headers.Add(name, value)
		return nil
	}
}

// WithHTTPClient overrides the http.Client used to issue requests (and
// thus owns any timeout configuration — this layer enforces none, per
// §5's Timeouts note).
func WithHTTPClient(client *http.Client) RegistryConfigOption {
	return func(c *RegistryConfig) error {
		c.httpClient = client
		return nil
	}
}

// WithLogger attaches a logrus entry used for replica-race diagnostics
// and auth-replacement warnings. Authentication material is never
// written through it in the clear — see Authentication.String.
func WithLogger(logger *logrus.Entry) RegistryConfigOption {
	return func(c *RegistryConfig) error {
		c.logger = logger
		return nil
	}
}

// WithSingleflightDedup enables deduplication of concurrent identical
// cache misses via golang.org/x/sync/singleflight — the "welcome but not
// required" improvement called out in §9's design notes.
func WithSingleflightDedup() RegistryConfigOption {
	return func(c *RegistryConfig) error {
		c.singleflight = true
		return nil
	}
}

// authHeaderValue materializes the configured Authentication into the
// literal Authorization header value, or "" if none is configured.
func (c RegistryConfig) authHeaderValue() string {
	switch c.auth.kind {
	case AuthBasic:
		return "Basic " + basicToken(c.auth.username, c.auth.password)
	case AuthBearer:
		return "Bearer " + c.auth.token
	default:
		return ""
	}
}

func (c RegistryConfig) transport() *http.Transport {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if c.proxy != nil {
		proxyURL := c.proxy
		base.Proxy = func(*http.Request) (*url.URL, error) { return proxyURL, nil }
	}
	return base
}
