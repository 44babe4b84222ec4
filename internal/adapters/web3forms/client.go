// internal/adapters/web3forms/client.go
package web3forms

import (
	"context"
	"encoding/json"
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

const DefaultEndpoint = "https://api.web3forms.com/submit"

// Client relays form fields to the intake endpoint, adding the access key server-side.
type Client struct {
	endpoint  string
	accessKey string
	hc        *http.Client
	rl        *rate.Limiter
}

func New(endpoint, accessKey string, rps int) (*Client, error) {
	if accessKey == "" {
		return nil, fmt.Errorf("web3forms: access key is required")
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		endpoint:  endpoint,
		accessKey: accessKey,
		hc:        &http.Client{Timeout: 15 * time.Second},
		rl:        rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Submit posts fields plus access_key once. Any JSON answer carrying a success flag is returned
// as a RelayResult whatever the HTTP status; anything else is an error.
func (c *Client) Submit(ctx context.Context, fields map[string]string) (domain.RelayResult, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.RelayResult{}, err
	}

	form := url.Values{}
	for k, v := range fields {
		if k == "access_key" {
			continue
		}
		form.Set(k, v)
	}
	form.Set("access_key", c.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.RelayResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "siteweb/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("web3forms", "submit", 0, time.Since(start))
		return domain.RelayResult{}, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("web3forms", "submit", resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return domain.RelayResult{}, err
	}
	var out struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Success == nil {
		return domain.RelayResult{}, fmt.Errorf("web3forms: unexpected response %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body[:min(len(body), 256)])))
	}
	return domain.RelayResult{Success: *out.Success, Message: out.Message}, nil
}
