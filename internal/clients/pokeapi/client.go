package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/pokedex-cache/internal/observability"
	"github.com/yungbote/pokedex-cache/internal/platform/httpx"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Fetcher retrieves raw records from the remote source.
type Fetcher interface {
	FetchPokemon(ctx context.Context, key string) (*Pokemon, error)
	FetchSpecies(ctx context.Context, key string) (*Species, error)
	ListPokemon(ctx context.Context, limit, offset int) (*ListPage, error)
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

func NewClient(log *logger.Logger, cfg Config) (Fetcher, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid POKEAPI_BASE_URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &client{
		log:        log.With("client", "PokeAPI"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		backoff:    backoff,
	}, nil
}

func normalizeKey(key string) string {
	return url.PathEscape(strings.ToLower(strings.TrimSpace(key)))
}

func (c *client) FetchPokemon(ctx context.Context, key string) (*Pokemon, error) {
	k := normalizeKey(key)
	if k == "" {
		return nil, fmt.Errorf("pokeapi: empty key")
	}
	var out Pokemon
	if err := c.do(ctx, "pokemon", "/pokemon/"+k, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) FetchSpecies(ctx context.Context, key string) (*Species, error) {
	k := normalizeKey(key)
	if k == "" {
		return nil, fmt.Errorf("pokeapi: empty key")
	}
	var out Species
	if err := c.do(ctx, "species", "/pokemon-species/"+k, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) ListPokemon(ctx context.Context, limit, offset int) (*ListPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var out ListPage
	if err := c.do(ctx, "list", "/pokemon?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) doOnce(ctx context.Context, path string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode == http.StatusNotFound {
		return resp, raw, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, resource, path string, out any) error {
	backoff := c.backoff
	start := time.Now()

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path)
		if err == nil {
			observability.Current().ObserveRemoteFetch(resource, "ok", time.Since(start))
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("pokeapi decode %s: %w", path, uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			observability.Current().ObserveRemoteFetch(resource, statusLabel(resp, err), time.Since(start))
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("PokeAPI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return err
		}
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

func statusLabel(resp *http.Response, err error) string {
	if resp != nil {
		return strconv.Itoa(resp.StatusCode)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "timeout"
	}
	return "error"
}
