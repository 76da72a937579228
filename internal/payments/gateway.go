package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway is a thin client for the external payment service. Calls are
// bounded by the client timeout and never block a booking state change;
// callers treat failures as non-fatal.
type Gateway struct {
	baseURL string
	client  *http.Client
}

func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *Gateway) CreatePaymentIntent(ctx context.Context, bookingRef string) error {
	return g.post(ctx, "/intents", bookingRef)
}

func (g *Gateway) ProcessRefund(ctx context.Context, bookingRef string) error {
	return g.post(ctx, "/refunds", bookingRef)
}

func (g *Gateway) post(ctx context.Context, path, bookingRef string) error {
	payload, err := json.Marshal(map[string]string{"booking_reference": bookingRef})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("payment gateway %s returned %d", path, resp.StatusCode)
	}
	return nil
}
