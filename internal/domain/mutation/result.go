// Package mutation holds the outcome type shared by the customer and invoice
// write paths.
package mutation

import "context"

const (
	CustomersPath = "/dashboard/customers"
	InvoicesPath  = "/dashboard/invoices"
)

type Kind string

const (
	KindRendered Kind = "rendered"
	KindRedirect Kind = "redirect"
)

// Result is what a successful mutation tells the caller to do next: either
// show Message in place or navigate to Target.
type Result struct {
	Kind    Kind
	Target  string
	Message string
}

func Redirect(target string) Result {
	return Result{Kind: KindRedirect, Target: target}
}

func Rendered(message string) Result {
	return Result{Kind: KindRendered, Message: message}
}

func (r Result) IsRedirect() bool {
	return r.Kind == KindRedirect
}

// Invalidator drops cached views derived from the given listing paths.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string) error
}

type Event struct {
	Entity string
	Action string
	ID     string
}

const (
	EntityCustomer = "customer"
	EntityInvoice  = "invoice"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

func (e Event) RoutingKey() string {
	return e.Entity + "." + e.Action
}

// Publisher announces committed mutations to other processes.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}
