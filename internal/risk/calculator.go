package risk

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/projexfx/signal-trader/internal/signal"
)

// Calculation failures. A zero pip distance means the entry sits exactly on
// the stop loss; sizing such a trade would divide by zero, so it is
// classified as an invalid trade instead.
var (
	ErrUnresolvedEntry = errors.New("market entry has not been resolved to a price")
	ErrZeroPipDistance = errors.New("stop loss pip distance is zero")
	ErrInvalidBalance  = errors.New("account balance must be positive")
)

// dollarsPerPipPerLot is the account-currency value of one pip for one
// standard lot on the supported instruments.
const dollarsPerPipPerLot = 10.0

// Report holds the risk figures derived for one trade intent against a
// live balance. All monetary figures are rounded to two decimals at
// computation time, so formatting them repeatedly is idempotent. Reports
// are recomputed from scratch on every request; nothing is cached.
type Report struct {
	Intent         *signal.TradeIntent
	Balance        float64
	StopLossPips   int
	TakeProfitPips []int
	PositionSize   float64
	ProjectedLoss  float64
	LegProfits     []float64
	TotalProfit    float64
}

// LegVolume is the volume submitted per take-profit leg: the position size
// split evenly across however many legs the intent carries.
func (r *Report) LegVolume() float64 {
	return r.PositionSize / float64(r.Intent.Legs())
}

// Calculate derives pip distances, position size and profit/loss
// projections for an intent whose entry has been resolved to a price.
func Calculate(intent *signal.TradeIntent, balance float64) (*Report, error) {
	if intent.Entry.Market {
		return nil, ErrUnresolvedEntry
	}
	if balance <= 0 {
		return nil, ErrInvalidBalance
	}

	entry := intent.Entry.Price
	multiplier := pipMultiplier(intent.Symbol, entry)

	stopLossPips := pipDistance(intent.StopLoss, entry, multiplier)
	if stopLossPips == 0 {
		return nil, ErrZeroPipDistance
	}

	riskAmount := balance * intent.RiskFraction
	// Floored to two decimals so rounding never allocates more than the
	// configured risk.
	positionSize := math.Floor(riskAmount/float64(stopLossPips)/dollarsPerPipPerLot*100) / 100

	legs := intent.Legs()
	takeProfitPips := make([]int, 0, legs)
	legProfits := make([]float64, 0, legs)
	// Legs are totalled in whole cents so the sum carries no binary
	// remainder from adding the rounded per-leg values.
	totalCents := 0.0
	for _, takeProfit := range intent.TakeProfits {
		pips := pipDistance(takeProfit, entry, multiplier)
		takeProfitPips = append(takeProfitPips, pips)

		profit := round2(positionSize * dollarsPerPipPerLot / float64(legs) * float64(pips))
		legProfits = append(legProfits, profit)
		totalCents += math.Round(profit * 100)
	}

	return &Report{
		Intent:         intent,
		Balance:        balance,
		StopLossPips:   stopLossPips,
		TakeProfitPips: takeProfitPips,
		PositionSize:   positionSize,
		ProjectedLoss:  round2(positionSize * dollarsPerPipPerLot * float64(stopLossPips)),
		LegProfits:     legProfits,
		TotalProfit:    totalCents / 100,
	}, nil
}

// pipMultiplier resolves the per-symbol price value of one pip. Metals have
// fixed multipliers; for FX pairs the quote style is inferred from the
// entry price: two or more integer digits means a JPY-style 2/3-decimal
// quote, anything else a standard 4/5-decimal quote.
func pipMultiplier(symbol string, entry float64) float64 {
	switch symbol {
	case "XAUUSD":
		return 0.1
	case "XAGUSD":
		return 0.001
	}
	if integerDigits(entry) >= 2 {
		return 0.01
	}
	return 0.0001
}

func integerDigits(price float64) int {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		return dot
	}
	return len(s)
}

func pipDistance(price, entry, multiplier float64) int {
	return int(math.Abs(math.Round((price - entry) / multiplier)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
