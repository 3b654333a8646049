package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportTable(t *testing.T) {
	report, err := Calculate(limitIntent(), 10000)
	require.NoError(t, err)

	rendered := report.Table()

	assert.Contains(t, rendered, "Trade Information")
	assert.Contains(t, rendered, "Buy Limit")
	assert.Contains(t, rendered, "GBPUSD")
	assert.Contains(t, rendered, "14 pips")
	assert.Contains(t, rendered, "1445 pips")
	assert.Contains(t, rendered, "2 %")
	assert.Contains(t, rendered, "1.42")
	assert.Contains(t, rendered, "$ 10000.00")
	assert.Contains(t, rendered, "$ 198.80")
	assert.Contains(t, rendered, "TP 1 Profit")
	assert.Contains(t, rendered, "$ 20519.00")
}
