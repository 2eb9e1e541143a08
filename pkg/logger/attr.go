package logger

import (
	"fmt"
	"log/slog"
	"time"
)

// Error records err under "error". A nil error yields an empty attribute,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the id of the signed in user.
func UserID(id fmt.Stringer) slog.Attr {
	return stringer("user_id", id)
}

func Role(role fmt.Stringer) slog.Attr {
	return stringer("role", role)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// SessionState records a session lifecycle state.
func SessionState(state string) slog.Attr {
	return slog.String("session_state", state)
}

// Transition records a state change as "from->to".
func Transition(from, to string) slog.Attr {
	return slog.String("transition", from+"->"+to)
}

// Request groups the method and path of an HTTP request.
func Request(method, path string) slog.Attr {
	return slog.Group("http", slog.String("method", method), slog.String("path", path))
}

func StatusCode(code int) slog.Attr {
	return slog.Int("status", code)
}

func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Resource(name string) slog.Attr {
	return slog.String("resource", name)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func stringer(key string, v fmt.Stringer) slog.Attr {
	if v == nil {
		return slog.Attr{}
	}
	s := v.String()
	if s == "" {
		return slog.Attr{}
	}
	return slog.String(key, s)
}
