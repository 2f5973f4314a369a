package signal

import (
	"go.opentelemetry.io/otel/metric"

	intotel "github.com/imtaco/live-signal/internal/otel"
)

var (
	// WebSocket connection metrics
	wsConnectionsActive metric.Int64UpDownCounter
	wsConnectionsTotal  metric.Int64Counter
	wsDisconnectsTotal  metric.Int64Counter

	// Inbound events
	eventsReceived metric.Int64Counter
	eventsRejected metric.Int64Counter

	// Outbound notifications
	notificationsSent   metric.Int64Counter
	notificationsFailed metric.Int64Counter
)

func init() {
	f := intotel.NewFactory("livestream.signal", intotel.PrefixSignal)

	f.Int64UpDownCounter(&wsConnectionsActive, "connections.active",
		metric.WithDescription("Number of active WebSocket connections"))

	f.Int64Counter(&wsConnectionsTotal, "connections.total",
		metric.WithDescription("Total WebSocket connections established"))

	f.Int64Counter(&wsDisconnectsTotal, "disconnects.total",
		metric.WithDescription("Total WebSocket disconnections"))

	f.Int64Counter(&eventsReceived, "events.received",
		metric.WithDescription("Inbound client events, by event"))

	f.Int64Counter(&eventsRejected, "events.rejected",
		metric.WithDescription("Inbound client events with invalid params, by event"))

	f.Int64Counter(&notificationsSent, "notifications.sent",
		metric.WithDescription("Total notifications sent to clients"))

	f.Int64Counter(&notificationsFailed, "notifications.failed",
		metric.WithDescription("Total failed notification deliveries"))
}
