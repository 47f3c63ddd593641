package events

// OrderStatusChangedEvent fires after a service order is created or its
// status changes. The webhook listener forwards it to the notification flow.
type OrderStatusChangedEvent struct {
	TenantID    string
	OrderID     uint64
	OrderNumber int
	OldStatus   string
	NewStatus   string
	ActorID     uint64
}

func (e OrderStatusChangedEvent) Name() string {
	return "order.status.changed"
}
