package otel

// Metric name prefixes, one per component.
const (
	PrefixRoomCtrl = "room_ctrl"
	PrefixSignal   = "signal"
)
