// Package provider holds the HTTP clients for the external ad platforms.
// Each client maps the platform's wire format into domain.Campaign snapshots;
// OAuth token acquisition happens outside this service, so clients only carry
// a ready API key.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/paceboard/platform/internal/domain"
)

// CampaignSource fetches the campaign snapshots for one connected account.
type CampaignSource interface {
	Platform() domain.Platform
	FetchCampaigns(ctx context.Context, account domain.Account) ([]domain.Campaign, error)
}

// permanentError marks a failure that retrying cannot fix (4xx responses).
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

const (
	maxAttempts  = 3
	retryBackoff = 2 * time.Second
)

// getJSON performs a GET with bounded retry. Network errors and 5xx responses
// are retried with linear backoff; 4xx responses fail immediately.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * retryBackoff):
			}
		}

		body, err := doGet(ctx, client, url, header)
		if err == nil {
			return body, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return nil, perm.err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func doGet(ctx context.Context, client *http.Client, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &permanentError{err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, io.EOF) {
			return nil, err // transient, retry
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body))
	case resp.StatusCode >= 400:
		return nil, &permanentError{fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body))}
	}
	return body, nil
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
