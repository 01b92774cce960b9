package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/prasadnk/dairydesk/internal/domain/models"
)

// Client posts daily summaries to a configured webhook URL.
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client for the given URL.
func NewClient(url string) *Client {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{httpClient: restyClient, url: url}
}

// PostDailySummary delivers the summary payload. Non-2xx responses are
// reported as errors; the caller treats delivery as best-effort.
func (c *Client) PostDailySummary(ctx context.Context, summary models.DailySummary) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(summary).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post daily summary webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("daily summary webhook rejected: status=%d", resp.StatusCode())
	}
	return nil
}
