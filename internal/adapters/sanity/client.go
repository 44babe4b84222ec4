// internal/adapters/sanity/client.go
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Lafiorentina/siteweb/internal/adapters/observability"
	"github.com/Lafiorentina/siteweb/internal/domain"
)

type Options struct {
	ProjectID  string
	Dataset    string
	APIVersion string // e.g. 2024-01-01
	UseCDN     bool
	Token      string // optional; public datasets need none
	BaseURL    string // overrides the host derived from ProjectID (tests, proxies)
	RPS        int
	Timeout    time.Duration
}

type Client struct {
	endpoint string
	hc       *http.Client
	token    string
	rl       *rate.Limiter
}

func New(o Options) (*Client, error) {
	if o.ProjectID == "" && o.BaseURL == "" {
		return nil, fmt.Errorf("sanity: project id is required")
	}
	if o.Dataset == "" {
		return nil, fmt.Errorf("sanity: dataset is required")
	}
	if o.APIVersion == "" {
		o.APIVersion = "2024-01-01"
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	base := strings.TrimRight(o.BaseURL, "/")
	if base == "" {
		host := "api.sanity.io"
		if o.UseCDN {
			host = "apicdn.sanity.io"
		}
		base = fmt.Sprintf("https://%s.%s", o.ProjectID, host)
	}
	return &Client{
		endpoint: fmt.Sprintf("%s/v%s/data/query/%s", base, strings.TrimPrefix(o.APIVersion, "v"), o.Dataset),
		hc:       &http.Client{Timeout: o.Timeout},
		token:    o.Token,
		rl:       rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
	}, nil
}

var (
	ErrNotFound     = errors.New("sanity: not found")
	ErrUnauthorized = errors.New("sanity: unauthorized")
	ErrForbidden    = errors.New("sanity: forbidden")
	ErrBadQuery     = errors.New("sanity: bad query")
)

func init() {
	observability.RegisterErrLabel(ErrNotFound, "not_found")
	observability.RegisterErrLabel(ErrUnauthorized, "unauthorized")
	observability.RegisterErrLabel(ErrForbidden, "forbidden")
	observability.RegisterErrLabel(ErrBadQuery, "bad_query")
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
	} `json:"error"`
}

// Query runs a GROQ query and decodes its result into out.
// A null result (no matching document) yields domain.ErrNoDocument. Failures are not retried.
func (c *Client) Query(ctx context.Context, query string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	u := c.endpoint + "?" + url.Values{"query": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "siteweb/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("sanity", "query", 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("sanity", "query", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		var qr queryResponse
		if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
			return fmt.Errorf("sanity: decode response: %w", err)
		}
		if len(qr.Result) == 0 || bytes.Equal(bytes.TrimSpace(qr.Result), []byte("null")) {
			return domain.ErrNoDocument
		}
		if err := json.Unmarshal(qr.Result, out); err != nil {
			return fmt.Errorf("sanity: decode result: %w", err)
		}
		return nil

	case http.StatusBadRequest:
		var er errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&er)
		return fmt.Errorf("%w: %s", ErrBadQuery, er.Error.Description)

	case http.StatusNotFound:
		return ErrNotFound

	case http.StatusUnauthorized:
		return ErrUnauthorized

	case http.StatusForbidden:
		return ErrForbidden

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sanity: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
