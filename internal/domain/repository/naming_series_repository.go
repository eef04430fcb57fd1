package repository

import "context"

// NamingSeriesRepository hands out document numbers
type NamingSeriesRepository interface {
	// Next atomically increments and returns the counter for key
	Next(ctx context.Context, key string) (int64, error)
}
