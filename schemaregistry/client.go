package schemaregistry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Client is the polymorphic capability codecs hold: fetch a schema by
// numeric id, fetch by (subject, version), register a new schema. All
// three operations may suspend on I/O and are safe for concurrent use.
//
// The in-process cached client below is one realization; tests and
// alternate deployments may supply their own.
type Client interface {
	GetSchemaByID(ctx context.Context, id uint32) (Schema, error)
	GetSchemaBySubject(ctx context.Context, subject string, version Version) (Schema, error)
	// GetSubjectVersion resolves the full Subject (including its id) for
	// subject at version. Format codecs need the id, not just the
	// Schema, to frame an encoded payload — GetSchemaBySubject exists
	// for callers that only need the schema source.
	GetSubjectVersion(ctx context.Context, subject string, version Version) (Subject, error)
	RegisterSchema(ctx context.Context, subject string, unregistered UnregisteredSchema) (uint32, Schema, error)
	// IsRegistered reports whether an equivalent schema is already
	// registered under subject, without creating a new version. It issues
	// the registry's lookup request (POST /subjects/{subject}) and returns
	// the matching schema id and schema.
	IsRegistered(ctx context.Context, subject string, unregistered UnregisteredSchema) (uint32, Schema, error)
}

// client is the in-process, caching, replica-racing Client.
type client struct {
	cfg RegistryConfig

	idCache      sync.Map // uint32 -> Schema
	subjectCache sync.Map // string -> uint32

	group singleflight.Group
}

// FromURL builds a single-replica client with no authentication — the
// minimal constructor for tests and simple deployments.
func FromURL(baseURL string) (Client, error) {
	cfg, err := NewRegistryConfig([]string{baseURL})
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg)
}

// FromConfig builds a client from a fully validated RegistryConfig.
func FromConfig(cfg RegistryConfig) (Client, error) {
	return &client{cfg: cfg}, nil
}

// do optionally single-flights concurrent identical requests when the
// client was configured with WithSingleflightDedup; otherwise it calls
// fn directly, allowing the "accepted trade-off" of concurrent duplicate
// fetches described in §4.4.
func (c *client) do(key string, fn func() (any, error)) (any, error) {
	if !c.cfg.singleflight {
		return fn()
	}
	v, err, _ := c.group.Do(key, fn)
	return v, err
}

func (c *client) GetSchemaByID(ctx context.Context, id uint32) (Schema, error) {
	if v, ok := c.idCache.Load(id); ok {
		return v.(Schema).Clone(), nil
	}

	path := fmt.Sprintf("/schemas/ids/%d?deleted=true", id)
	schema, err := c.fetchSchemaDeduped(ctx, fmt.Sprintf("id:%d", id), path)
	if err != nil {
		return Schema{}, err
	}

	c.idCache.Store(id, schema)
	return schema.Clone(), nil
}

func (c *client) GetSchemaBySubject(ctx context.Context, subject string, version Version) (Schema, error) {
	sub, err := c.GetSubjectVersion(ctx, subject, version)
	if err != nil {
		return Schema{}, err
	}
	return sub.Schema(), nil
}

func (c *client) GetSubjectVersion(ctx context.Context, subject string, version Version) (Subject, error) {
	if version.latest {
		if id, ok := c.subjectCache.Load(subject); ok {
			schema, err := c.GetSchemaByID(ctx, id.(uint32))
			if err != nil {
				return Subject{}, err
			}
			return Subject{ID: id.(uint32), Subject: subject, SchemaType: schema.SchemaType, Schema: schema.Schema, References: schema.References}, nil
		}
	}

	path := fmt.Sprintf("/subjects/%s/versions/%s", url.PathEscape(subject), version.String())
	key := "subject:" + subject + "@" + version.String()

	v, err := c.do(key, func() (any, error) {
		var sub Subject
		if err := c.raceJSON(ctx, http.MethodGet, path, nil, &sub); err != nil {
			return Subject{}, err
		}
		return sub, nil
	})
	if err != nil {
		return Subject{}, err
	}
	sub := v.(Subject)

	c.idCache.Store(sub.ID, sub.Schema())
	c.subjectCache.Store(sub.Subject, sub.ID)

	return sub, nil
}

func (c *client) RegisterSchema(ctx context.Context, subject string, unregistered UnregisteredSchema) (uint32, Schema, error) {
	path := fmt.Sprintf("/subjects/%s/versions", url.PathEscape(subject))

	var resp struct {
		ID uint32 `json:"id"`
	}
	if err := c.raceJSON(ctx, http.MethodPost, path, unregistered, &resp); err != nil {
		return 0, Schema{}, err
	}

	schema := Schema{
		SchemaType: unregistered.SchemaType,
		Schema:     unregistered.Schema,
		References: unregistered.References,
	}
	// idCache is populated; subjectCache deliberately is not — the
	// submitted subject may be an alias for the canonical name used on
	// reads (see DESIGN.md Open Question decisions).
	c.idCache.Store(resp.ID, schema)

	return resp.ID, schema, nil
}

func (c *client) IsRegistered(ctx context.Context, subject string, unregistered UnregisteredSchema) (uint32, Schema, error) {
	path := fmt.Sprintf("/subjects/%s", url.PathEscape(subject))

	var resp struct {
		ID uint32 `json:"id"`
	}
	if err := c.raceJSON(ctx, http.MethodPost, path, unregistered, &resp); err != nil {
		return 0, Schema{}, err
	}

	schema := Schema{
		SchemaType: unregistered.SchemaType,
		Schema:     unregistered.Schema,
		References: unregistered.References,
	}
	c.idCache.Store(resp.ID, schema)

	return resp.ID, schema, nil
}

func (c *client) fetchSchemaDeduped(ctx context.Context, key, path string) (Schema, error) {
	v, err := c.do(key, func() (any, error) {
		var payload struct {
			Schema     string            `json:"schema"`
			SchemaType SchemaType        `json:"schemaType"`
			References []SchemaReference `json:"references,omitempty"`
		}
		if err := c.raceJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
			return Schema{}, err
		}
		return Schema{SchemaType: payload.SchemaType, Schema: payload.Schema, References: payload.References}, nil
	})
	if err != nil {
		return Schema{}, err
	}
	return v.(Schema), nil
}

// raceJSON issues method+path against every configured replica
// concurrently, decodes the first successful response's JSON body into
// out, and cancels every other in-flight request.
func (c *client) raceJSON(ctx context.Context, method, path string, body any, out any) error {
	var bodyBytes []byte
	if body != nil {
		b, err := jsonMarshal(body)
		if err != nil {
			return &ParseError{TargetType: fmt.Sprintf("%T", body), Cause: err}
		}
		bodyBytes = b
	}

	raw, err := raceReplicas(ctx, c.cfg, c.cfg.logger, func(ctx context.Context, baseURL string) ([]byte, error) {
		return c.doRequest(ctx, baseURL, method, path, bodyBytes)
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{Body: string(raw), TargetType: fmt.Sprintf("%T", out), Cause: err}
	}
	return nil
}

// doRequest performs a single HTTP round-trip against one replica,
// returning the response body on a [200,299] status or an UpstreamError
// otherwise.
func (c *client) doRequest(ctx context.Context, baseURL, method, path string, body []byte) ([]byte, error) {
	fullURL := strings.TrimSuffix(baseURL, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", registryMediaType)
	if body != nil {
		req.Header.Set("Content-Type", registryMediaType)
	}
	if authVal := c.cfg.authHeaderValue(); authVal != "" {
		req.Header.Set("Authorization", authVal)
	}
	for name, values := range c.cfg.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	httpClient := c.cfg.httpClient
	if c.cfg.proxy != nil {
		withProxy := *httpClient
		withProxy.Transport = c.cfg.transport()
		httpClient = &withProxy
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{URL: fullURL, Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// raceReplicas builds one request per configured URL, races them, and
// returns the first success. Losers are cancelled as soon as a winner is
// observed. If every replica fails, the last-observed error is returned
// wrapped in a RacingError that also carries the aggregate of every
// failure for diagnostics.
func raceReplicas[T any](ctx context.Context, cfg RegistryConfig, logger *logrus.Entry, fn func(ctx context.Context, baseURL string) (T, error)) (T, error) {
	var zero T

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		value T
		err   error
		url   string
	}

	results := make(chan result, len(cfg.urls))
	for _, u := range cfg.urls {
		u := u
		go func() {
			v, err := fn(raceCtx, u)
			results <- result{value: v, err: err, url: u}
		}()
	}

	var lastErr error
	var aggregate *multierror.Error
	for i := 0; i < len(cfg.urls); i++ {
		r := <-results
		if r.err == nil {
			cancel()
			return r.value, nil
		}
		logger.WithField("url", r.url).WithError(r.err).Debug("schemaregistry: replica request failed")
		lastErr = r.err
		aggregate = multierror.Append(aggregate, fmt.Errorf("%s: %w", r.url, r.err))
	}

	return zero, &RacingError{Last: lastErr, All: aggregate.ErrorOrNil()}
}
