package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Togather-Foundation/campus-events/internal/metrics"
	"github.com/Togather-Foundation/campus-events/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"sigs.k8s.io/yaml"
)

var (
	// ErrFetch means the catalog source could not be read.
	ErrFetch = errors.New("catalog fetch failed")
	// ErrDecode means the catalog was read but is not a list of events.
	ErrDecode = errors.New("catalog decode failed")
)

// MaxCatalogBytes bounds how much of a remote catalog is read.
const MaxCatalogBytes = 4 << 20

// Loader reads the catalog from a local path or an http(s) URL. Every call
// to Load reads the source again; nothing is cached.
type Loader struct {
	source  string
	client  *http.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithTimeout bounds each Load call.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func NewLoader(source string, logger zerolog.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:  source,
		client:  http.DefaultClient,
		timeout: 5 * time.Second,
		logger:  logger.With().Str("component", "catalog").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Source returns the configured catalog location.
func (l *Loader) Source() string {
	return l.source
}

// Load fetches and decodes the catalog.
func (l *Loader) Load(ctx context.Context) ([]Event, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "catalog.Load")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.source", l.source))

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	raw, err := l.fetch(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "fetch failed")
		metrics.CatalogLoads.WithLabelValues("fetch_error").Inc()
		l.logger.Error().Err(err).Str("source", l.source).Msg("load catalog")
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	events, err := Decode(raw, isYAML(l.source))
	if err != nil {
		span.SetStatus(codes.Error, "decode failed")
		metrics.CatalogLoads.WithLabelValues("decode_error").Inc()
		l.logger.Error().Err(err).Str("source", l.source).Msg("decode catalog")
		return nil, err
	}
	metrics.CatalogLoads.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.Int("catalog.events", len(events)))
	return events, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		return l.fetchHTTP(ctx)
	}
	path := strings.TrimPrefix(l.source, "file://")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Clean(path))
}

func (l *Loader) fetchHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxCatalogBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxCatalogBytes {
		return nil, fmt.Errorf("catalog exceeds %d bytes", MaxCatalogBytes)
	}
	return body, nil
}

// Decode parses a JSON (or, with fromYAML, YAML) list of events.
func Decode(raw []byte, fromYAML bool) ([]Event, error) {
	if fromYAML {
		converted, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		raw = converted
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of events", ErrDecode)
	}
	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

func isYAML(source string) bool {
	if i := strings.IndexAny(source, "?#"); i >= 0 && strings.HasPrefix(source, "http") {
		source = source[:i]
	}
	ext := strings.ToLower(filepath.Ext(source))
	return ext == ".yaml" || ext == ".yml"
}
