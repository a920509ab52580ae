package artifacts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spacesedan/sentidash/internal/clients"
)

// Source reads raw artifact bytes for one location scheme.
type Source interface {
	Fetch(ctx context.Context, loc Location) ([]byte, error)
}

type SourceFunc func(ctx context.Context, loc Location) ([]byte, error)

func (f SourceFunc) Fetch(ctx context.Context, loc Location) ([]byte, error) {
	return f(ctx, loc)
}

// FileSource reads artifacts from the local filesystem. Relative paths are
// resolved against the working directory.
var FileSource = SourceFunc(func(_ context.Context, loc Location) ([]byte, error) {
	data, err := os.ReadFile(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", loc.Path, err)
	}
	return data, nil
})

func HTTPSource(c *clients.HTTPClient) Source {
	return SourceFunc(func(ctx context.Context, loc Location) ([]byte, error) {
		return c.Fetch(ctx, loc.Path)
	})
}

func S3Source(c *clients.S3Client) Source {
	return SourceFunc(func(ctx context.Context, loc Location) ([]byte, error) {
		return c.Fetch(ctx, loc.Bucket, loc.Path)
	})
}

func ValkeySource(c *clients.ValkeyClient) Source {
	return SourceFunc(func(ctx context.Context, loc Location) ([]byte, error) {
		return c.Fetch(ctx, loc.Path)
	})
}

// Fetcher routes each location to the source registered for its scheme.
type Fetcher struct {
	sources map[string]Source
	closers []func()
}

func NewFetcher() *Fetcher {
	f := &Fetcher{sources: make(map[string]Source)}
	f.Register(SCHEME_FILE, FileSource)
	return f
}

func (f *Fetcher) Register(scheme string, s Source) {
	f.sources[scheme] = s
}

func (f *Fetcher) Fetch(ctx context.Context, raw string) ([]byte, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}

	source, ok := f.sources[loc.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: no source configured for %q", ErrUnsupportedScheme, loc.Scheme)
	}
	return source.Fetch(ctx, loc)
}

// Close releases any connections opened for remote sources.
func (f *Fetcher) Close() {
	for _, c := range f.closers {
		c()
	}
	f.closers = nil
}

type SourceOptions struct {
	HTTPTimeout time.Duration
	AWSRegion   string
	AWSEndpoint string
	Valkey      clients.ValkeyOptions
}

// NewFetcherForManifest connects only the remote sources the manifest needs.
func NewFetcherForManifest(ctx context.Context, m *Manifest, opts SourceOptions) (*Fetcher, error) {
	f := NewFetcher()
	schemes := m.Schemes()

	if schemes[SCHEME_HTTP] || schemes[SCHEME_HTTPS] {
		hc := clients.NewHTTPClient(opts.HTTPTimeout)
		f.Register(SCHEME_HTTP, HTTPSource(hc))
		f.Register(SCHEME_HTTPS, HTTPSource(hc))
	}

	if schemes[SCHEME_S3] {
		s3c, err := clients.NewS3Client(ctx, opts.AWSRegion, opts.AWSEndpoint)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.Register(SCHEME_S3, S3Source(s3c))
	}

	if schemes[SCHEME_VALKEY] {
		vc, err := clients.NewValkeyClient(ctx, opts.Valkey)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.Register(SCHEME_VALKEY, ValkeySource(vc))
		f.closers = append(f.closers, vc.Close)
	}

	slog.Debug("[Artifacts] Sources ready", slog.Int("schemes", len(schemes)))
	return f, nil
}
