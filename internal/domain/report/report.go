package report

import "context"

const (
	TypeInvoices  = "invoices"
	TypeCustomers = "customers"
)

const (
	MsgInvalidType   = "Invalid or missing type parameter (use ?type=invoices or ?type=customers)"
	MsgInvalidAmount = "Invalid amount parameter"
	MsgQueryFailed   = "Failed to run report query."
)

// InvoiceAmount is one invoice matching the amount filter. Amount is in cents.
type InvoiceAmount struct {
	Amount int64  `json:"amount"`
	Name   string `json:"name"`
}

// CustomerTotals aggregates a customer's invoices. Totals are in cents and
// are zero, never null, for customers without invoices.
type CustomerTotals struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	ImageURL      *string `json:"image_url"`
	TotalInvoices int64   `json:"total_invoices"`
	TotalPending  int64   `json:"total_pending"`
	TotalPaid     int64   `json:"total_paid"`
}

type Repository interface {
	InvoicesByAmount(ctx context.Context, amountCents int64) ([]InvoiceAmount, error)
	CustomerTotals(ctx context.Context) ([]CustomerTotals, error)
}

// Snapshot is the invalidation generation of each listing path, taken before
// a report is loaded.
type Snapshot map[string]uint64

// ViewCache stores report results tagged by the listing paths they depend on.
// Get returns false on a miss. Set drops the write when any path in snap was
// invalidated after the snapshot was taken.
type ViewCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Snapshot(ctx context.Context, paths ...string) (Snapshot, error)
	Set(ctx context.Context, key string, value any, snap Snapshot) error
}
