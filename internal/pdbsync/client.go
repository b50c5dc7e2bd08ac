// Package pdbsync pulls PeeringDB objects over the public HTTP API and
// replays them into the local store. Syncs are incremental: each
// resource keeps a high-water updated timestamp and only rows changed
// since then are fetched.
package pdbsync

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

	"go.uber.org/zap"

	"github.com/route-beacon/neighgen/internal/config"
	"github.com/route-beacon/neighgen/internal/pdb"
)

// Client is a thin PeeringDB API client. It only knows how to page
// through a resource listing; object mapping lives in the sync layer.
type Client struct {
	base     string
	user     string
	password string
	pageSize int
	stripTZ  bool
	http     *http.Client
	logger   *zap.Logger
}

// NewClient builds a client from the sync section of the config.
func NewClient(cfg config.SyncConfig, logger *zap.Logger) *Client {
	return &Client{
		base:     strings.TrimRight(cfg.URL, "/"),
		user:     cfg.User,
		password: cfg.Password,
		pageSize: cfg.PageSize,
		stripTZ:  cfg.StripTZ,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

type listResponse struct {
	Data []json.RawMessage `json:"data"`
}

// List pages through /<resource> and returns every raw object. A
// non-zero since narrows the listing to rows updated at or after it.
func (c *Client) List(ctx context.Context, resource string, since time.Time) ([]json.RawMessage, error) {
	var out []json.RawMessage
	skip := 0
	for {
		page, err := c.page(ctx, resource, since, skip)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < c.pageSize {
			return out, nil
		}
		skip += len(page)
	}
}

func (c *Client) page(ctx context.Context, resource string, since time.Time, skip int) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageSize))
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if !since.IsZero() {
		q.Set("since", strconv.FormatInt(since.Unix(), 10))
	}
	u := fmt.Sprintf("%s/%s?%s", c.base, resource, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, pdb.DataSourceError("building request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	c.logger.Debug("fetching page",
		zap.String("resource", resource),
		zap.Int("skip", skip))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pdb.DataSourceError("fetching "+resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, pdb.DataSourceError("fetching "+resource,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, pdb.DataSourceError("decoding "+resource, err)
	}
	return lr.Data, nil
}

// parseTime handles the timestamp flavors the API emits. With stripTZ
// set, offsets are discarded and the wall-clock value is kept as UTC.
func (c *Client) parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	if c.stripTZ {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t.UTC()
}
