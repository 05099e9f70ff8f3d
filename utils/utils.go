package utils

import (
	"fmt"
	"strings"
	"time"

	"election-management/types"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// dateLayouts are the accepted formats for election start/end fields, tried
// in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an election date field. A date-only value is widened to
// the start of that day, or to the end of it when endOfDay is set, so a
// deadline like "2024-01-31" covers the whole final day.
func ParseDate(value string, endOfDay bool) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			if endOfDay {
				return now.With(t).EndOfDay(), nil
			}
			return now.With(t).BeginningOfDay(), nil
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}

// CreateSanitizedLogEntry builds an audit log entry from the request context.
// Bodies are deep-copied so the entry stays valid after fiber recycles the
// context, and multipart payloads are elided rather than persisted.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))

	requestBody := string(append([]byte(nil), c.Body()...))
	if strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		requestBody = fmt.Sprintf("[multipart form data, %d bytes]", len(c.Body()))
	}
	responseBody := string(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())
	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}
