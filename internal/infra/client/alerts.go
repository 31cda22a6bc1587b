package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/boddenberg/sarathi-client-go/internal/domain"
)

// AlertsClient calls the /alerts endpoints.
type AlertsClient struct {
	t *Transport
}

// NewAlertsClient creates a new AlertsClient.
func NewAlertsClient(t *Transport) *AlertsClient {
	return &AlertsClient{t: t}
}

func (c *AlertsClient) List(ctx context.Context) ([]domain.Alert, error) {
	var alerts []domain.Alert
	err := c.t.Do(ctx, Request{
		Operation: "AlertsClient.List",
		Method:    http.MethodGet,
		Path:      "/alerts",
	}, &alerts)
	return alerts, err
}

func (c *AlertsClient) MarkRead(ctx context.Context, id int64) (*domain.Alert, error) {
	var a domain.Alert
	err := c.t.Do(ctx, Request{
		Operation: "AlertsClient.MarkRead",
		Method:    http.MethodPost,
		Path:      fmt.Sprintf("/alerts/%d/mark-read", id),
	}, &a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *AlertsClient) Delete(ctx context.Context, id int64) error {
	return c.t.Do(ctx, Request{
		Operation: "AlertsClient.Delete",
		Method:    http.MethodDelete,
		Path:      fmt.Sprintf("/alerts/%d", id),
	}, nil)
}
