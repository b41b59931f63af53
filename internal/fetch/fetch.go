package fetch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// userAgent is a browser-like identity; several origin hosts refuse requests
// that look like scripts.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const (
	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
)

// Client fetches URL lists and images. One shared timeout and retry policy
// covers both; a token bucket keeps the request rate polite toward the
// origin hosts.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

func New(timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(4), 8),
	}
}

// get performs a single logical GET with retries on transport errors and 5xx
// responses. The Referer is set to the request URL itself; the origin hosts
// use it to reject hotlinked fetches.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	backoff := initialBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retryable, err := c.attempt(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		if attempt < maxAttempts {
			slog.Debug("fetch retrying", "url", url, "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", url)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode >= 500, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}

// Lines fetches a newline-delimited text resource and returns its non-empty,
// whitespace-trimmed lines.
func (c *Client) Lines(ctx context.Context, url string) ([]string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Image fetches and decodes an image, normalised to NRGBA.
func (c *Client) Image(ctx context.Context, url string) (*image.NRGBA, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	img, err := DecodeNRGBA(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

// DecodeNRGBA decodes any registered image format and converts the result to
// *image.NRGBA so the pipeline can work on a single pixel layout.
func DecodeNRGBA(data []byte) (*image.NRGBA, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	bounds := decoded.Bounds()
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, decoded, bounds.Min, draw.Src)
	return nrgba, nil
}
