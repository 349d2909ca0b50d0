package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/logger"
)

const defaultTimeout = 15 * time.Second

// Cache keeps ENS answers between runs, *cache.FileCache satisfies it.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Client talks to the badge indexer API.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
}

// NewClient builds a client for baseURL. A nil httpClient uses a 15s
// timeout, a nil cache disables ENS caching.
func NewClient(baseURL string, httpClient *http.Client, cache Cache) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		cache:   cache,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("couldn't unmarshal %s response: %w", path, err)
	}
	return nil
}

// TokensFor lists the badges of an address or email.
func (c *Client) TokensFor(ctx context.Context, addressOrEmail string) ([]TokenInfo, error) {
	tokens := []TokenInfo{}
	err := c.do(ctx, http.MethodGet, "/actions/scan/"+url.PathEscape(addressOrEmail), nil, nil, &tokens)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// ResolveENS resolves a name to an address, returned in ENSResult.ENS.
func (c *Client) ResolveENS(ctx context.Context, name string) (ENSResult, error) {
	key := "ens_resolve:" + name
	if res, ok := c.cached(key); ok {
		return res, nil
	}
	var res ENSResult
	if err := c.do(ctx, http.MethodGet, "/actions/ens_resolve", url.Values{"name": {name}}, nil, &res); err != nil {
		return ENSResult{}, err
	}
	c.store(key, res)
	return res, nil
}

// LookupENS finds the primary name of an address.
func (c *Client) LookupENS(ctx context.Context, address string) (ENSResult, error) {
	key := "ens_lookup:" + address
	if res, ok := c.cached(key); ok {
		return res, nil
	}
	var res ENSResult
	if err := c.do(ctx, http.MethodGet, "/actions/ens_lookup/"+url.PathEscape(address), nil, nil, &res); err != nil {
		return ENSResult{}, err
	}
	c.store(key, res)
	return res, nil
}

// RequestEmailRedeem asks the indexer to mail claim instructions for the
// badges reserved to email.
func (c *Client) RequestEmailRedeem(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/actions/redeem-request", nil, map[string]string{"email": email}, nil)
}

func (c *Client) Events(ctx context.Context, q EventQuery) (PaginatedEvents, error) {
	params := url.Values{}
	if q.Name != "" {
		params.Set("name", q.Name)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("limit", strconv.Itoa(limit))
	if q.SortBy != "" {
		params.Set("sort_field", q.SortBy)
	}
	if q.SortDirection != "" {
		params.Set("sort_dir", string(q.SortDirection))
	}

	var res PaginatedEvents
	err := c.do(ctx, http.MethodGet, "/paginated-events", params, nil, &res)
	return res, err
}

// only valid answers are cached so a name registered later is picked up
func (c *Client) cached(key string) (ENSResult, bool) {
	if c.cache == nil {
		return ENSResult{}, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		return ENSResult{}, false
	}
	return ENSResult{Valid: true, ENS: v}, true
}

func (c *Client) store(key string, res ENSResult) {
	if c.cache == nil || !res.Valid || res.ENS == "" {
		return
	}
	if err := c.cache.Set(key, res.ENS); err != nil {
		logger.Debug("couldn't cache ens result", zap.String("key", key), zap.Error(err))
	}
}
