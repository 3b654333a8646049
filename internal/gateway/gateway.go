package gateway

import (
	"context"

	"github.com/projexfx/signal-trader/internal/signal"
)

// AccountInformation is the subset of broker account state the bot needs.
type AccountInformation struct {
	Login    int64
	Balance  float64
	Currency string
}

// SymbolPrice is a live two-sided quote for one instrument.
type SymbolPrice struct {
	Bid float64
	Ask float64
}

// OrderRequest describes one order leg. EntryPrice is only consulted for
// limit and stop variants; market orders execute at the current price.
type OrderRequest struct {
	Type       signal.OrderType
	Symbol     string
	Volume     float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
}

// OrderResult carries the broker's verdict for one placed leg.
type OrderResult struct {
	ResultCode string
	OrderID    string
}

// Gateway is the brokerage collaborator the trade flow drives. Calls are
// long-running and sequential: Connect must succeed before any other call,
// and the flow never issues overlapping calls for one session.
type Gateway interface {
	// Connect deploys the account if needed and blocks until the broker
	// connection is established and synchronized.
	Connect(ctx context.Context) error
	Disconnect() error

	AccountInformation(ctx context.Context) (*AccountInformation, error)
	SymbolPrice(ctx context.Context, symbol string) (*SymbolPrice, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}
