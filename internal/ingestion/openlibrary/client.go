package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://openlibrary.org"

	// Open Library asks bulk clients to stay well under a handful of
	// requests per second.
	requestsPerSecond = 3
	requestBurst      = 5

	maxRetries   = 5
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second
)

// searchFields trims search responses to the columns the importer maps.
var searchFields = []string{
	"key",
	"title",
	"author_name",
	"first_publish_year",
	"number_of_pages_median",
	"isbn",
	"cover_i",
	"language",
	"first_sentence",
}

// Client talks to the Open Library search API with rate limiting and
// retry on transient failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: log,
	}
}

// SearchSubject fetches one page of works tagged with an Open Library
// subject slug, newest first.
func (c *Client) SearchSubject(ctx context.Context, subject string, limit, offset int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("subject", subject)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("fields", strings.Join(searchFields, ","))
	params.Set("sort", "new")

	var response SearchResponse
	if err := c.get(ctx, "/search.json", params, &response); err != nil {
		return nil, fmt.Errorf("failed to search subject %q: %w", subject, err)
	}
	return &response, nil
}

// get performs a GET with rate limiting and exponential backoff on 429s
// and server errors.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + endpoint
	if params != nil {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "ReadHub/1.0 (catalog import)")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				c.log.Warn().Err(err).Int("attempt", attempt+1).Dur("retry_in", delay).
					Msg("open library request failed, retrying")
				time.Sleep(delay)
				delay = min(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			if shouldRetry(resp.StatusCode) && attempt < maxRetries {
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))

				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if parsed, err := time.ParseDuration(retryAfter + "s"); err == nil {
						delay = parsed
					}
				}

				c.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).
					Dur("retry_in", delay).Msg("open library returned an error, retrying")
				time.Sleep(delay)
				delay = min(delay*2, maxDelay)
				continue
			}

			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}
