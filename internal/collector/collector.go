package collector

import (
	"context"
	"errors"
	"fmt"

	"PortfolioDesk/internal/model"
)

// Failure classes for a collection attempt. Callers match them with errors.Is.
var (
	ErrTransport = errors.New("transport failure")
	ErrParse     = errors.New("parse failure")
	ErrNoData    = errors.New("no data")
)

// Collector orchestrates feed fetching and normalization.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches the feed and returns the retained positions.
func (c *Collector) Collect(ctx context.Context) ([]model.Position, error) {
	data, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTransport, c.Fetcher.Name(), err)
	}
	positions, err := ParseFeed(data)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: feed has no valid rows", ErrNoData)
	}
	return positions, nil
}
