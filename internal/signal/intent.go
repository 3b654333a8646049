package signal

// OrderType identifies one of the six supported MetaTrader order variants.
type OrderType string

const (
	OrderBuy       OrderType = "Buy"
	OrderSell      OrderType = "Sell"
	OrderBuyLimit  OrderType = "Buy Limit"
	OrderSellLimit OrderType = "Sell Limit"
	OrderBuyStop   OrderType = "Buy Stop"
	OrderSellStop  OrderType = "Sell Stop"
)

// IsMarket reports whether the order executes at the current market price.
func (o OrderType) IsMarket() bool {
	return o == OrderBuy || o == OrderSell
}

// IsBuy reports whether the order is on the buy side.
func (o OrderType) IsBuy() bool {
	return o == OrderBuy || o == OrderBuyLimit || o == OrderBuyStop
}

// Entry is the entry price of a trade intent. A market entry ("NOW" in the
// signal text) carries no price until it is resolved from a live quote.
type Entry struct {
	Market bool
	Price  float64
}

// MarketEntry returns an entry that resolves from the live quote at
// execution time.
func MarketEntry() Entry {
	return Entry{Market: true}
}

// PriceEntry returns an entry pinned to an explicit price.
func PriceEntry(price float64) Entry {
	return Entry{Price: price}
}

// TradeIntent is the structured result of parsing one signal. An intent is
// only ever constructed fully populated; a signal that fails any structural
// check never produces one.
type TradeIntent struct {
	OrderType    OrderType
	Symbol       string
	Entry        Entry
	StopLoss     float64
	TakeProfits  []float64
	RiskFraction float64
}

// Legs returns the number of take-profit legs (1 or 2).
func (t *TradeIntent) Legs() int {
	return len(t.TakeProfits)
}

// ResolveEntry returns a copy of the intent with a market entry pinned to
// the given price. Intents with an explicit entry are returned unchanged.
func (t *TradeIntent) ResolveEntry(price float64) *TradeIntent {
	if !t.Entry.Market {
		return t
	}
	resolved := *t
	resolved.Entry = PriceEntry(price)
	resolved.TakeProfits = append([]float64(nil), t.TakeProfits...)
	return &resolved
}
