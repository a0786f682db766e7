package events

import "time"

// FetchStart is emitted before a join type's batched fetch.
type FetchStart struct {
	Type       string
	Selections int
}

// FetchFinish is emitted after a join type's batched fetch completes.
type FetchFinish struct {
	Type       string
	Selections int
	Rows       int
	Err        error
	Duration   time.Duration
}
