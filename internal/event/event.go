package event

import (
	"strings"
	"time"

	"invoice-dashboard/internal/domain/mutation"
)

const publisherAppID = "invoice-dashboard"

// bindingKeys cover every customer and invoice mutation.
var bindingKeys = []string{
	mutation.EntityCustomer + ".*",
	mutation.EntityInvoice + ".*",
}

// MutationEvent is the JSON body of every published message.
type MutationEvent struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// pathForRoutingKey maps a routing key to the listing path it affects.
func pathForRoutingKey(key string) (string, bool) {
	entity, action, ok := strings.Cut(key, ".")
	if !ok {
		return "", false
	}
	switch action {
	case mutation.ActionCreated, mutation.ActionUpdated, mutation.ActionDeleted:
	default:
		return "", false
	}
	switch entity {
	case mutation.EntityCustomer:
		return mutation.CustomersPath, true
	case mutation.EntityInvoice:
		return mutation.InvoicesPath, true
	default:
		return "", false
	}
}
