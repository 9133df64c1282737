package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/komsit37/screen/pkg/screen/types"
)

const DefaultBaseURL = "https://finnhub.io/api/v1"

// Gate is consulted before every HTTP request the client sends.
type Gate interface {
	Acquire(ctx context.Context) error
}

// Client talks to the Finnhub REST API.
type Client struct {
	http *resty.Client
	log  logrus.FieldLogger
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.http.SetBaseURL(url) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithGate makes every request wait on g first, one Acquire per request.
func WithGate(g Gate) Option {
	return func(c *Client) {
		c.http.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return g.Acquire(r.Context())
		})
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	h := resty.New()
	h.SetBaseURL(DefaultBaseURL)
	h.SetTimeout(30 * time.Second)
	h.SetQueryParam("token", apiKey)
	h.SetHeader("Accept", "application/json")

	c := &Client{http: h, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(c)
	}
	h.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		// The full URL carries the token; log the path only.
		path := ""
		if resp.Request != nil && resp.Request.RawRequest != nil {
			path = resp.Request.RawRequest.URL.Path
		}
		c.log.WithFields(logrus.Fields{
			"path":    path,
			"status":  resp.StatusCode(),
			"elapsed": resp.Time().Round(time.Millisecond).String(),
		}).Debug("finnhub response")
		return nil
	})
	return c
}

// get issues one GET and decodes the body into out, classifying failures.
func (c *Client) get(ctx context.Context, res types.Resource, symbol, path string, params map[string]string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return types.NewFetchError(types.KindCanceled, res, symbol, ctx.Err())
		}
		return types.NewFetchError(types.KindNetwork, res, symbol, err)
	}
	if !resp.IsSuccess() {
		fe := types.NewFetchError(types.KindStatus, res, symbol, fmt.Errorf("%s", abbreviate(resp.String(), 200)))
		fe.Status = resp.StatusCode()
		return fe
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return types.NewFetchError(types.KindShape, res, symbol, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func abbreviate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
