package calendar

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/javiermolinar/courtside/internal/booking"
	"github.com/javiermolinar/courtside/internal/dateutil"
)

// maxParallelFetches bounds concurrent store calls for one range.
const maxParallelFetches = 4

// Fetch loads every record overlapping rng, one week per request in
// parallel. Records that span a week boundary are returned once.
func Fetch(ctx context.Context, store booking.Store, resources []string, rng dateutil.DateRange) ([]booking.Record, error) {
	chunks := weekChunks(rng)
	results := make([][]booking.Record, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, chunk := range chunks {
		g.Go(func() error {
			from, to := chunk.Bounds()
			recs, err := store.ListBookings(gctx, resources, from, to)
			if err != nil {
				return fmt.Errorf("listing bookings %s..%s: %w",
					chunk.Start.Format("2006-01-02"), chunk.End.Format("2006-01-02"), err)
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var merged []booking.Record
	for _, recs := range results {
		for _, r := range recs {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			merged = append(merged, r)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})
	return merged, nil
}

// weekChunks splits rng into ranges of at most seven days.
func weekChunks(rng dateutil.DateRange) []dateutil.DateRange {
	var chunks []dateutil.DateRange
	for start := rng.Start; !start.After(rng.End); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 6)
		if end.After(rng.End) {
			end = rng.End
		}
		chunks = append(chunks, dateutil.DateRange{Start: start, End: end})
	}
	return chunks
}
