// Package timeouts provides centralized timeout values for handler and
// store operations.
//
// These timeouts are used with context.WithTimeout for database operations
// and other I/O. Using centralized values ensures consistency and makes it
// easy to adjust timeouts across the application.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: simple single-document reads or lookups
//   - Medium: list queries, moderate writes, multi-step reads
//   - Batch: full-collection scans such as the email-casing repair
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	batch  = 60 * time.Second
)

// Ping returns the timeout for health checks and connectivity verification.
func Ping() time.Duration { return ping }

// Short returns the timeout for simple operations like single-document reads.
// Examples: get by ID, lookup by email, the reconcile upsert.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and multi-step reads.
// Examples: user listings, the diagnostic inspector's paired lookups.
func Medium() time.Duration { return medium }

// Batch returns the timeout for bulk operations that touch every record in
// a collection.
func Batch() time.Duration { return batch }
