package prepcat

import "context"

// ViewService tracks how many times each catalog item has been opened.
// Counts only grow; an id never recorded has a count of zero.
type ViewService interface {
	// RecordView increments the count for id by one and returns the new count.
	// Implementations must not lose concurrent increments.
	RecordView(ctx context.Context, id string) (int, error)

	// ViewCount returns the current count for id.
	ViewCount(ctx context.Context, id string) (int, error)
}
