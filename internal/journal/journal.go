package journal

import (
	"context"
	"time"
)

// OrderRecord is one placed order leg as recorded in the journal. Entry is
// the resolved entry price, so market orders journal the quote they were
// priced against.
type OrderRecord struct {
	ID         string
	PlacedAt   time.Time
	Symbol     string
	OrderType  string
	Volume     float64
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	ResultCode string
	OrderID    string
}

// Journal persists placed order legs for later review and export.
// ListOrders filters by placement time; a zero bound is open-ended.
type Journal interface {
	RecordOrder(ctx context.Context, record OrderRecord) error
	ListOrders(ctx context.Context, from, to time.Time) ([]OrderRecord, error)
	Close() error
}
