package logger

import "log/slog"

// Keys shared by the stream engine's log records.
const (
	KeyError          = "error"
	KeyComponent      = "component"
	KeyOperator       = "operator"
	KeyEvent          = "event"
	KeySubscriptionID = "subscription_id"
	KeyNotification   = "notification"
	KeyValue          = "value"
	KeyCount          = "count"
)

// Error records err under KeyError. A nil err yields an empty Attr, which slog skips.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

// Component names the emitting component, such as a subject or a queue.
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operator names the stream operator that emitted the record.
func Operator(name string) slog.Attr {
	return slog.String(KeyOperator, name)
}

// Event names the stream event kind: subscribe, value, completion, cancel or send.
func Event(name string) slog.Attr {
	return slog.String(KeyEvent, name)
}

// SubscriptionID tags a record with a subscription identifier.
// An empty id yields an empty Attr.
func SubscriptionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String(KeySubscriptionID, id)
}

// Notification names a notification center channel.
func Notification(name string) slog.Attr {
	return slog.String(KeyNotification, name)
}

// Value records a delivered value.
func Value(v any) slog.Attr {
	return slog.Any(KeyValue, v)
}

// Count records a number of items, such as subscribers or dropped tasks.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}
