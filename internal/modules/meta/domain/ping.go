package domain

import (
	"fmt"
	"time"
)

// PingResult is the reply to a liveness check.
type PingResult struct {
	Message string
	Latency time.Duration // gateway heartbeat round trip, zero if unknown
}

// NewPingResult creates a PingResult for the given gateway latency.
func NewPingResult(latency time.Duration) *PingResult {
	msg := "Pong!"
	if latency > 0 {
		msg = fmt.Sprintf("Pong! (%dms)", latency.Milliseconds())
	}
	return &PingResult{
		Message: msg,
		Latency: latency,
	}
}
