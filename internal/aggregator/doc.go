// Package aggregator orchestrates concurrent fetch+parse across the
// requested weeks and shapes the merged result.
//
// Each requested week becomes one task executed by a bounded worker pool.
// Tasks own their event lists exclusively; results flow over a channel into
// a single-threaded merge, so no collection is shared between tasks. A week
// that fails to fetch or parse is recorded as a partial failure instead of
// aborting the request, and the merged output is sorted deterministically so
// grouping never depends on task completion order.
package aggregator
