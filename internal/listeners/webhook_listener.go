package listeners

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"os-manager/internal/events"
	"os-manager/pkg/eventbus"

	"go.uber.org/zap"
)

// WebhookListener forwards order status events to an external automation
// flow (an N8N webhook that fans out to WhatsApp). Delivery is fire and
// forget; a failed POST is logged and dropped.
type WebhookListener struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewWebhookListener(url string, timeout time.Duration, logger *zap.Logger) *WebhookListener {
	return &WebhookListener{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Register subscribes the listener on the bus. A missing webhook URL
// disables notifications entirely.
func (l *WebhookListener) Register(bus *eventbus.Bus) {
	if l.url == "" {
		l.logger.Info("webhook notifications disabled, no URL configured")
		return
	}
	bus.Subscribe(events.OrderStatusChangedEvent{}.Name(), l.handleOrderStatusChanged)
}

type orderStatusPayload struct {
	Event       string `json:"event"`
	TenantID    string `json:"tenant_id"`
	OrderID     uint64 `json:"order_id"`
	OrderNumber int    `json:"order_number"`
	OldStatus   string `json:"old_status,omitempty"`
	NewStatus   string `json:"new_status"`
	OccurredAt  string `json:"occurred_at"`
}

func (l *WebhookListener) handleOrderStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.Name())
	}

	payload := orderStatusPayload{
		Event:       e.Name(),
		TenantID:    e.TenantID,
		OrderID:     e.OrderID,
		OrderNumber: e.OrderNumber,
		OldStatus:   e.OldStatus,
		NewStatus:   e.NewStatus,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	l.logger.Debug("webhook delivered",
		zap.String("event", e.Name()),
		zap.Uint64("orderId", e.OrderID),
		zap.String("newStatus", e.NewStatus),
	)
	return nil
}
