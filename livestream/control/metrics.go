package control

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	intotel "github.com/imtaco/live-signal/internal/otel"
)

var tracer = otel.Tracer("livestream.control")

var (
	roomsActive  metric.Int64UpDownCounter
	roomsCreated metric.Int64Counter
	roomsEnded   metric.Int64Counter

	viewersActive metric.Int64UpDownCounter
	viewersJoined metric.Int64Counter

	rejections metric.Int64Counter

	eventsProcessed metric.Int64Counter
	eventsFailed    metric.Int64Counter
	eventDuration   metric.Float64Histogram

	relaysSent    metric.Int64Counter
	relaysDropped metric.Int64Counter
	chatMessages  metric.Int64Counter
)

func init() {
	f := intotel.NewFactory("livestream.control", intotel.PrefixRoomCtrl)

	f.Int64UpDownCounter(&roomsActive, "rooms.active",
		metric.WithDescription("Number of live rooms"))

	f.Int64Counter(&roomsCreated, "rooms.created",
		metric.WithDescription("Total rooms created"))

	f.Int64Counter(&roomsEnded, "rooms.ended",
		metric.WithDescription("Total rooms ended, by reason"))

	f.Int64UpDownCounter(&viewersActive, "viewers.active",
		metric.WithDescription("Number of viewers across all rooms"))

	f.Int64Counter(&viewersJoined, "viewers.joined",
		metric.WithDescription("Total viewer joins, by path"))

	f.Int64Counter(&rejections, "rejections",
		metric.WithDescription("Room operations answered with an error event, by reason"))

	f.Int64Counter(&eventsProcessed, "events.processed",
		metric.WithDescription("Commands executed by the controller loop, by event"))

	f.Int64Counter(&eventsFailed, "events.failed",
		metric.WithDescription("Commands that returned an error, by event"))

	f.Float64Histogram(&eventDuration, "events.duration",
		metric.WithDescription("Time spent applying one command, by event"),
		metric.WithUnit("ms"))

	f.Int64Counter(&relaysSent, "relays.sent",
		metric.WithDescription("Negotiation messages relayed, by event"))

	f.Int64Counter(&relaysDropped, "relays.dropped",
		metric.WithDescription("Negotiation messages whose target was gone, by event"))

	f.Int64Counter(&chatMessages, "chat.messages",
		metric.WithDescription("Chat messages broadcast"))
}
