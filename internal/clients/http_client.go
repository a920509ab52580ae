package clients

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	DOWNLOAD_RETRIES         = 5
	DOWNLOAD_INITIAL_BACKOFF = 1 * time.Second
	DOWNLOAD_MAX_BACKOFF     = 32 * time.Second
	USER_AGENT               = "sentidash-artifacts/1.0 (+https://github.com/spacesedan/sentidash)"
)

// HTTPClient downloads artifacts over HTTP(S). Server errors and transport
// failures are retried with exponential backoff; 4xx responses are not.
type HTTPClient struct {
	Client     *http.Client
	MaxRetries uint64
	Backoff    time.Duration
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	slog.Info("[HTTPClient] Initializing Client",
		slog.Duration("timeout", timeout))
	return &HTTPClient{
		Client:     &http.Client{Timeout: timeout},
		MaxRetries: DOWNLOAD_RETRIES,
		Backoff:    DOWNLOAD_INITIAL_BACKOFF,
	}
}

func (h *HTTPClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	backoff := retry.WithCappedDuration(DOWNLOAD_MAX_BACKOFF, retry.NewExponential(h.Backoff))
	backoff = retry.WithMaxRetries(h.MaxRetries, backoff)

	attempt := 0
	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		data, err := h.get(ctx, url)
		if err != nil {
			slog.Warn("[HTTPClient] Request failed",
				slog.Int("attempt", attempt),
				slog.String("url", url),
				slog.String("error", err.Error()))
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		slog.Error("[HTTPClient] Artifact download failed",
			slog.String("url", url),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	slog.Info("[HTTPClient] Artifact downloaded",
		slog.String("url", url),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))
	return body, nil
}

func (h *HTTPClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, retry.RetryableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, retry.RetryableError(fmt.Errorf("status code %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("failed to read response: %w", err))
	}
	return body, nil
}
