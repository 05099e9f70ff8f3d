package types

import "time"

// LogEntry is an in-flight audit record handed to the async logger before it
// is persisted as a models/log.Log row.
type LogEntry struct {
	ID              uint
	Method          string
	URL             string
	RequestBody     string
	ResponseBody    string
	RequestHeaders  string
	ResponseHeaders string
	StatusCode      int
	CreatedAt       time.Time
}
