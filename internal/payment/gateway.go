package payment

import "context"

// OrderRequest describes the hosted-checkout order the facility asks
// the card gateway to create.
type OrderRequest struct {
	Amount       int
	Description  string
	LicensePlate string
	Email        string
}

// Order is the gateway's answer: ids for reconciliation plus the URL
// the payer is redirected to.
type Order struct {
	OrderID     string
	ReferenceID string
	RedirectURL string
	Status      string
}

type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
}
