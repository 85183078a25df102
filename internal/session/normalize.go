package session

import (
	"errors"
	"sort"
	"strings"

	"taskman/internal/api"
)

// NormalizeError reduces an auth failure to one human-readable string.
// Precedence for a response body:
//  1. an errors array of {path, msg} entries: join the messages with ", "
//  2. a top-level message
//  3. an errors map of field -> messages: flatten every message, fields in
//     sorted order, joined with ", "
//  4. the action-specific fallback
//
// With no response body at all, the transport error text is used when
// present, otherwise the fallback.
func NormalizeError(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		if msg := err.Error(); msg != "" {
			return msg
		}
		return fallback
	}

	body := apiErr.Body
	if len(body.List) > 0 {
		msgs := make([]string, 0, len(body.List))
		for _, fe := range body.List {
			if fe.Msg != "" {
				msgs = append(msgs, fe.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
	}

	if body.Message != "" {
		return body.Message
	}

	if len(body.Fields) > 0 {
		fields := make([]string, 0, len(body.Fields))
		for f := range body.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		var msgs []string
		for _, f := range fields {
			msgs = append(msgs, body.Fields[f]...)
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
	}

	return fallback
}
