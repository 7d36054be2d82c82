package oauth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Yulian302/taskflow-gateway/auth"
	"github.com/sony/gobreaker/v2"
)

// NewBreaker guards a single provider endpoint. Only transport failures and
// 5xx responses count against it.
func NewBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name: name,

		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},

		IsSuccessful: isBreakerSuccess,

		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var se *auth.StatusError
	if errors.As(err, &se) {
		return se.StatusCode < http.StatusInternalServerError
	}
	return false
}
