// Package cache keeps rendered report results and drops them when the
// listing paths they were derived from change.
package cache

import (
	"invoice-dashboard/internal/domain/mutation"
	"invoice-dashboard/internal/domain/report"
)

// ViewCache is the report cache that mutations can invalidate.
type ViewCache interface {
	report.ViewCache
	mutation.Invalidator
}
