package risk

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projexfx/signal-trader/internal/signal"
)

func limitIntent() *signal.TradeIntent {
	return &signal.TradeIntent{
		OrderType:    signal.OrderBuyLimit,
		Symbol:       "GBPUSD",
		Entry:        signal.PriceEntry(1.14480),
		StopLoss:     1.14336,
		TakeProfits:  []float64{1.28930},
		RiskFraction: 0.02,
	}
}

func TestCalculate_SingleLegLimit(t *testing.T) {
	report, err := Calculate(limitIntent(), 10000)
	require.NoError(t, err)

	assert.Equal(t, 14, report.StopLossPips)
	assert.Equal(t, []int{1445}, report.TakeProfitPips)
	assert.Equal(t, 1.42, report.PositionSize)
	assert.Equal(t, 198.8, report.ProjectedLoss)
	assert.Equal(t, []float64{20519.0}, report.LegProfits)
	assert.Equal(t, 20519.0, report.TotalProfit)
	// Single take profit: the one leg carries the full position size.
	assert.Equal(t, 1.42, report.LegVolume())
}

func TestCalculate_TwoLegsSplitEvenly(t *testing.T) {
	intent := &signal.TradeIntent{
		OrderType:    signal.OrderBuy,
		Symbol:       "GBPUSD",
		Entry:        signal.PriceEntry(1.1500), // resolved from the live ask
		StopLoss:     1.14336,
		TakeProfits:  []float64{1.2893, 1.2984},
		RiskFraction: 0.02,
	}

	report, err := Calculate(intent, 10000)
	require.NoError(t, err)

	assert.Equal(t, 66, report.StopLossPips)
	assert.Equal(t, []int{1393, 1484}, report.TakeProfitPips)
	assert.Equal(t, 0.30, report.PositionSize)
	assert.Equal(t, 0.15, report.LegVolume())
	assert.Equal(t, 198.0, report.ProjectedLoss)
	assert.Equal(t, []float64{2089.5, 2226.0}, report.LegProfits)
	// Total profit is the decimal sum of the per-leg profits.
	assert.Equal(t, 4315.5, report.TotalProfit)
	assert.InDelta(t, report.LegProfits[0]+report.LegProfits[1], report.TotalProfit, 1e-9)
}

// Leg profits of 0.10 and 0.20 sum to 0.30000000000000004 in raw float64
// arithmetic; the reported total must be the exact decimal sum instead.
func TestCalculate_TotalProfitExactDecimalSum(t *testing.T) {
	intent := &signal.TradeIntent{
		OrderType:    signal.OrderBuy,
		Symbol:       "EURUSD",
		Entry:        signal.PriceEntry(1.2000),
		StopLoss:     1.1900,
		TakeProfits:  []float64{1.2002, 1.2004},
		RiskFraction: 0.001,
	}

	report, err := Calculate(intent, 10000)
	require.NoError(t, err)

	assert.Equal(t, 0.01, report.PositionSize)
	assert.Equal(t, []float64{0.1, 0.2}, report.LegProfits)
	assert.Equal(t, 0.3, report.TotalProfit)
}

func TestCalculate_PipMultipliers(t *testing.T) {
	cases := []struct {
		name     string
		symbol   string
		entry    float64
		stopLoss float64
		wantPips int
	}{
		{"gold uses 0.1", "XAUUSD", 1950.0, 1940.0, 100},
		{"silver uses 0.001", "XAGUSD", 24.5, 24.4, 100},
		{"jpy quote uses 0.01", "USDJPY", 145.0, 144.7, 30},
		{"standard quote uses 0.0001", "GBPUSD", 1.1500, 1.1470, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			intent := &signal.TradeIntent{
				OrderType:    signal.OrderSell,
				Symbol:       tc.symbol,
				Entry:        signal.PriceEntry(tc.entry),
				StopLoss:     tc.stopLoss,
				TakeProfits:  []float64{tc.entry * 1.01},
				RiskFraction: 0.01,
			}
			report, err := Calculate(intent, 5000)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPips, report.StopLossPips)
		})
	}
}

func TestCalculate_ZeroPipDistanceRejected(t *testing.T) {
	intent := limitIntent()
	intent.Entry = signal.PriceEntry(1.14336)

	_, err := Calculate(intent, 10000)
	assert.ErrorIs(t, err, ErrZeroPipDistance)
}

// A sub-pip stop distance rounds to zero pips and must also be rejected.
func TestCalculate_SubPipDistanceRejected(t *testing.T) {
	intent := limitIntent()
	intent.Entry = signal.PriceEntry(1.14337)

	_, err := Calculate(intent, 10000)
	assert.ErrorIs(t, err, ErrZeroPipDistance)
}

func TestCalculate_UnresolvedMarketEntryRejected(t *testing.T) {
	intent := limitIntent()
	intent.Entry = signal.MarketEntry()

	_, err := Calculate(intent, 10000)
	assert.ErrorIs(t, err, ErrUnresolvedEntry)
}

func TestCalculate_NonPositiveBalanceRejected(t *testing.T) {
	_, err := Calculate(limitIntent(), 0)
	assert.ErrorIs(t, err, ErrInvalidBalance)
}

// Flooring must never round the position size up: widening the stop can
// only shrink or keep the size.
func TestCalculate_PositionSizeNonIncreasingWithStopDistance(t *testing.T) {
	previous := -1.0
	for i := 1; i <= 60; i++ {
		intent := &signal.TradeIntent{
			OrderType:    signal.OrderBuy,
			Symbol:       "EURUSD",
			Entry:        signal.PriceEntry(1.2000),
			StopLoss:     1.2000 - 0.001*float64(i),
			TakeProfits:  []float64{1.2500},
			RiskFraction: 0.02,
		}
		report, err := Calculate(intent, 10000)
		require.NoError(t, err)

		if previous >= 0 {
			assert.LessOrEqual(t, report.PositionSize, previous,
				fmt.Sprintf("size grew at %d pips", report.StopLossPips))
		}
		previous = report.PositionSize
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	first, err := Calculate(limitIntent(), 10000)
	require.NoError(t, err)
	second, err := Calculate(limitIntent(), 10000)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Table(), second.Table())
}
