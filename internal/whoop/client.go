// Package whoop is a read-only client for the WHOOP developer API collections
// the reconciler ingests: sleep, workout and recovery.
package whoop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/pillars/internal/constants"
)

const defaultBaseURL = "https://api.prod.whoop.com/developer"

// ErrUnauthorized is returned when the vendor rejects the access token.
var ErrUnauthorized = errors.New("WHOOP rejected the access token")

// TokenSource supplies an already-refreshed access token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", errors.New("empty WHOOP token")
	}
	return string(t), nil
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	// Timeout bounds one collection fetch including every page.
	Timeout time.Duration
}

// StatusError is a non-2xx response.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("WHOOP %s failed with status %d", e.Path, e.Status)
}

type page[T any] struct {
	Records   []T    `json:"records"`
	NextToken string `json:"next_token"`
}

func (c *Client) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	return base
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.timeout()}
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return constants.DefaultWhoopTimeout
}

// collect walks every page of a collection between start and end.
func collect[T any](ctx context.Context, c *Client, path string, start, end time.Time) ([]T, error) {
	if c.Tokens == nil {
		return nil, errors.New("missing WHOOP token source")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get WHOOP token: %w", err)
	}

	var out []T
	next := ""
	for i := 0; i < constants.WhoopMaxPages; i++ {
		q := url.Values{}
		q.Set("start", start.UTC().Format(time.RFC3339))
		q.Set("end", end.UTC().Format(time.RFC3339))
		q.Set("limit", strconv.Itoa(constants.WhoopPageLimit))
		if next != "" {
			q.Set("nextToken", next)
		}

		p, err := getPage[T](ctx, c, path, q, token)
		if err != nil {
			return out, err
		}
		out = append(out, p.Records...)
		if p.NextToken == "" {
			return out, nil
		}
		next = p.NextToken
	}
	return out, nil
}

func getPage[T any](ctx context.Context, c *Client, path string, q url.Values, token string) (page[T], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+path+"?"+q.Encode(), nil)
	if err != nil {
		return page[T]{}, fmt.Errorf("create WHOOP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return page[T]{}, fmt.Errorf("execute WHOOP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return page[T]{}, fmt.Errorf("read WHOOP response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return page[T]{}, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return page[T]{}, &StatusError{Path: path, Status: resp.StatusCode, Body: string(body)}
	}

	var p page[T]
	if err := json.Unmarshal(body, &p); err != nil {
		return page[T]{}, fmt.Errorf("decode WHOOP response: %w", err)
	}
	return p, nil
}

// Sleeps returns sleep sessions that started between start and end.
func (c *Client) Sleeps(ctx context.Context, start, end time.Time) ([]Sleep, error) {
	return collect[Sleep](ctx, c, "/v2/activity/sleep", start, end)
}

// Workouts returns workouts that started between start and end.
func (c *Client) Workouts(ctx context.Context, start, end time.Time) ([]Workout, error) {
	return collect[Workout](ctx, c, "/v2/activity/workout", start, end)
}

// Recoveries returns recoveries recorded between start and end.
func (c *Client) Recoveries(ctx context.Context, start, end time.Time) ([]Recovery, error) {
	return collect[Recovery](ctx, c, "/v2/recovery", start, end)
}
