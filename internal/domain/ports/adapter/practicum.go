// File: internal/domain/ports/adapter/practicum.go
package adapter

import "context"

// HomeworkAPI fetches homework status changes since a unix timestamp.
// The decoded JSON document is returned as-is; its shape is validated by the caller.
type HomeworkAPI interface {
	GetHomeworkStatuses(ctx context.Context, fromDate int64) (any, error)
}
