package listeners

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"os-manager/internal/events"
	"os-manager/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebhookDeliversOrderStatusPayload(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	listener := NewWebhookListener(server.URL, time.Second, zap.NewNop())
	err := listener.handleOrderStatusChanged(context.Background(), events.OrderStatusChangedEvent{
		TenantID:    "t1",
		OrderID:     42,
		OrderNumber: 7,
		OldStatus:   "OPEN",
		NewStatus:   "READY",
	})
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "order.status.changed", payload["event"])
	assert.Equal(t, "t1", payload["tenant_id"])
	assert.Equal(t, float64(7), payload["order_number"])
	assert.Equal(t, "READY", payload["new_status"])
}

func TestWebhookReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	listener := NewWebhookListener(server.URL, time.Second, zap.NewNop())
	err := listener.handleOrderStatusChanged(context.Background(), events.OrderStatusChangedEvent{NewStatus: "READY"})
	assert.Error(t, err)
}

func TestRegisterSkipsEmptyURL(t *testing.T) {
	bus := eventbus.New(zap.NewNop())
	listener := NewWebhookListener("", time.Second, zap.NewNop())

	assert.NotPanics(t, func() {
		listener.Register(bus)
	})
}
