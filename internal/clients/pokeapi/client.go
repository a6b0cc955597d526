// Package pokeapi provides a rate-limited client for the public PokeAPI.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://pokeapi.co/api/v2"
	userAgent      = "partydex/1.0"
	maxErrorBody   = 512
)

// Config holds client settings
type Config struct {
	BaseURL    string
	Timeout    time.Duration // Per-request timeout
	RateLimit  float64       // Requests per second
	Burst      int
	MaxRetries int
}

// Client is the PokeAPI client.
// It is safe for concurrent use; all requests share one rate limiter.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	timeout        time.Duration
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	log            zerolog.Logger
}

// NewClient creates a new PokeAPI client
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 50
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: 500 * time.Millisecond,
		maxBackoff:     8 * time.Second,
		log:            log.With().Str("component", "pokeapi").Logger(),
	}
}

// GetPokemon retrieves the base record of a roster member
func (c *Client) GetPokemon(ctx context.Context, id int) (*Pokemon, error) {
	var pokemon Pokemon
	if err := c.get(ctx, "/pokemon/"+strconv.Itoa(id), &pokemon); err != nil {
		return nil, fmt.Errorf("failed to get pokemon %d: %w", id, err)
	}
	return &pokemon, nil
}

// GetPokemonSpecies retrieves the species record of a roster member
func (c *Client) GetPokemonSpecies(ctx context.Context, id int) (*PokemonSpecies, error) {
	var species PokemonSpecies
	if err := c.get(ctx, "/pokemon-species/"+strconv.Itoa(id), &species); err != nil {
		return nil, fmt.Errorf("failed to get pokemon species %d: %w", id, err)
	}
	return &species, nil
}

// GetType retrieves the damage relations of an elemental type
func (c *Client) GetType(ctx context.Context, name string) (*TypeData, error) {
	var typeData TypeData
	if err := c.get(ctx, "/type/"+name, &typeData); err != nil {
		return nil, fmt.Errorf("failed to get type %s: %w", name, err)
	}
	return &typeData, nil
}

// get performs a GET with rate limiting and retry logic.
// 429, 5xx and network errors are retried with exponential backoff; 404 is not.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	url := c.baseURL + path

	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = min(backoff*2, c.maxBackoff)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		retry, err := c.attempt(ctx, url, result)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}

		lastErr = err
		c.log.Debug().
			Err(err).
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("Retrying PokeAPI request")
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// attempt performs a single request and reports whether a failure is retryable
func (c *Client) attempt(ctx context.Context, url string, result interface{}) (bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Caller cancellation is final; a per-request timeout is not
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return false, nil

	case resp.StatusCode == http.StatusNotFound:
		return false, &NotFoundError{URL: url}

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return true, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return false, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}

// IsNotFound reports whether err is a PokeAPI 404
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
