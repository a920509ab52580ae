package artifacts

import (
	"context"
	"fmt"

	"github.com/spacesedan/sentidash/config"
	"github.com/spacesedan/sentidash/internal/clients"
	"github.com/spacesedan/sentidash/internal/pipeline"
)

func OptionsFromConfig(cfg *config.Config) SourceOptions {
	return SourceOptions{
		HTTPTimeout: cfg.ArtifactHTTPTimeout,
		AWSRegion:   cfg.AWSRegion,
		AWSEndpoint: cfg.AWSEndpoint,
		Valkey: clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			TLS:      cfg.ValkeyTLS,
		},
	}
}

// LoadPipeline reads the manifest at path, fetches every artifact it names and
// builds the inference pipeline. Remote clients are released before it
// returns; the models are fully in memory by then.
func LoadPipeline(ctx context.Context, path string, opts SourceOptions) (*pipeline.Pipeline, error) {
	m, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}

	f, err := NewFetcherForManifest(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to set up artifact sources: %w", err)
	}
	defer f.Close()

	set, err := Load(ctx, f, m)
	if err != nil {
		return nil, err
	}
	return set.Pipeline()
}
