package domain

import "context"

// ActivityRepository appends audit events. Rows are never updated or deleted.
type ActivityRepository interface {
	Append(ctx context.Context, event ActivityEvent) error
}
