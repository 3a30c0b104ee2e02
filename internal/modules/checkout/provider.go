package checkout

import (
	"context"

	"github.com/nycarchivalsociety/New-York-Archival-Society/internal/modules/donors"
)

const (
	OrderCreated   = "CREATED"
	OrderApproved  = "APPROVED"
	OrderCompleted = "COMPLETED"
)

type CreateOrderRequest struct {
	ItemID   string
	Fee      float64
	Currency string
}

type CreateOrderResponse struct {
	ID     string
	Status string
}

type Payer struct {
	GivenName string
	Surname   string
	Email     string
	Phone     string
}

// OrderDetails is what the provider reports for an order. Payer identity and
// the shipping address come from here, never from the client, and Amount is
// the amount the payer actually approved.
type OrderDetails struct {
	ID       string
	Status   string
	Amount   float64
	Payer    Payer
	Shipping donors.Address
	Raw      []byte // provider payload as received, persisted for reconciliation
}

type Provider interface {
	Name() string
	CreateOrder(ctx context.Context, req CreateOrderRequest) (CreateOrderResponse, error)
	GetOrder(ctx context.Context, orderID string) (OrderDetails, error)
}
