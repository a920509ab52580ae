package clients

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_RETRIES     = 3
	VALKEY_RETRY_DELAY = 250 * time.Millisecond
)

var ErrArtifactNotFound = errors.New("artifact not found")

type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
}

type ValkeyClient struct {
	Client     valkey.Client
	RetryDelay time.Duration
}

func NewValkeyClient(ctx context.Context, o ValkeyOptions) (*ValkeyClient, error) {
	if o.Address == "" {
		return nil, errors.New("[ValkeyClient] VALKEY_INIT_ADDRESS is not set")
	}

	opts := valkey.ClientOption{
		InitAddress:      []string{o.Address},
		Password:         o.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if o.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return &ValkeyClient{Client: client, RetryDelay: VALKEY_RETRY_DELAY}, nil
}

func (vc *ValkeyClient) Close() {
	if vc != nil && vc.Client != nil {
		vc.Client.Close()
	}
}

// Fetch reads the artifact bytes stored under key.
func (vc *ValkeyClient) Fetch(ctx context.Context, key string) ([]byte, error) {
	res := vc.DoWithRetry(ctx, func() valkey.Completed {
		return vc.Client.B().Get().Key(key).Build()
	}, VALKEY_RETRIES)

	data, err := res.AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, fmt.Errorf("%w: valkey key %q", ErrArtifactNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to get %q: %w", key, err)
	}

	slog.Info("[ValkeyClient] Artifact fetched",
		slog.String("key", key),
		slog.Int("bytes", len(data)))
	return data, nil
}

// DoWithRetry runs the command from build, retrying connection errors. A
// command is recycled once Do returns, so every attempt builds a fresh one.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func() valkey.Completed, retries uint64) valkey.ValkeyResult {
	delay := vc.RetryDelay
	if delay <= 0 {
		delay = VALKEY_RETRY_DELAY
	}

	var result valkey.ValkeyResult
	backoff := retry.WithMaxRetries(retries, retry.NewConstant(delay))

	attempt := 0
	_ = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		result = vc.Client.Do(ctx, build())
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			return nil
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			return retry.RetryableError(err)
		}
		return err
	})

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
