package collector

import "context"

// Fetcher retrieves the raw CSV feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}
