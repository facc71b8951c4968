package logger

import (
	"fmt"
	"log/slog"
)

// Error records err under the key "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// WorkspaceID records the tenant boundary an operation acts on.
func WorkspaceID(id any) slog.Attr {
	return idAttr("workspace_id", id)
}

// UserID records the acting user.
func UserID(id any) slog.Attr {
	return idAttr("user_id", id)
}

func OrderID(id any) slog.Attr {
	return idAttr("order_id", id)
}

func SubscriptionID(id any) slog.Attr {
	return idAttr("subscription_id", id)
}

func TaskID(id any) slog.Attr {
	return idAttr("task_id", id)
}

func ProjectID(id any) slog.Attr {
	return idAttr("project_id", id)
}

func PlanID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("plan_id", id)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// idAttr stores ids as strings so uuid.UUID and string ids render identically.
func idAttr(key string, id any) slog.Attr {
	switch v := id.(type) {
	case nil:
		return slog.Attr{}
	case string:
		if v == "" {
			return slog.Attr{}
		}
		return slog.String(key, v)
	case fmt.Stringer:
		return slog.String(key, v.String())
	default:
		return slog.Any(key, v)
	}
}
