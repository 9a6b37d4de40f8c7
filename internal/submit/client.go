package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Client is the ad-creation collaborator port. One request, one response,
// no retries.
type Client interface {
	Create(ctx context.Context, req CreateAdRequest) (CreatedAd, error)
}

// HTTPClient talks to the Daberli backend over REST.
type HTTPClient struct {
	rc *resty.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the API at baseURL. The timeout covers
// the whole round-trip including the request body upload, which carries the
// encoded images and can be several megabytes.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "daberli-ad-composer/1.0").
		SetHeader("Content-Type", "application/json")
	return &HTTPClient{rc: rc}
}

// apiError is the backend's failure body.
type apiError struct {
	Message string `json:"message"`
}

// Create POSTs the ad and returns the server's acknowledgement.
func (c *HTTPClient) Create(ctx context.Context, req CreateAdRequest) (CreatedAd, error) {
	var created CreatedAd
	var apiErr apiError

	start := time.Now()
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&created).
		SetError(&apiErr).
		Post("/api/ads")
	if err != nil {
		return CreatedAd{}, fmt.Errorf("create ad: %w", err)
	}
	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = resp.Status()
		}
		return CreatedAd{}, fmt.Errorf("create ad: %s", msg)
	}

	log.Info().
		Str("adId", created.ID).
		Str("clientRef", req.ClientRef).
		Int("images", len(req.Images)).
		Dur("duration", time.Since(start)).
		Msg("Ad created")
	return created, nil
}
