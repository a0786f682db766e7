package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when an HTTP request is received.
// Context carries the request context; RequestID repeats the id assigned
// to the request so subscribers can correlate without the context.
type HTTPStart struct {
	RequestID int64
	Request   *http.Request
}

// HTTPFinish is emitted after the handler completes.
type HTTPFinish struct {
	RequestID int64
	Request   *http.Request
	Status    int
	Duration  time.Duration
}
