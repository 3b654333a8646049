package signal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Rejection reasons returned by Parse. Callers match them with errors.Is
// and turn them into a user-facing re-prompt; Parse never panics on
// malformed input.
var (
	ErrUnknownOrderType = errors.New("unrecognized order type")
	ErrUnknownSymbol    = errors.New("symbol is not in the allowed list")
	ErrIncompleteSignal = errors.New("signal is missing a required line")
	ErrInvalidPrice     = errors.New("price is not a positive decimal")
	ErrZeroStopDistance = errors.New("entry price and stop loss are identical")
)

// marketEntryToken is the literal an operator writes on the entry line to
// request execution at the current market price. Case-sensitive.
const marketEntryToken = "NOW"

// Compound phrases must be matched before the bare ones: "Buy" is a
// substring of "Buy Limit".
var orderTypePhrases = []struct {
	phrase string
	order  OrderType
}{
	{"buy limit", OrderBuyLimit},
	{"sell limit", OrderSellLimit},
	{"buy stop", OrderBuyStop},
	{"sell stop", OrderSellStop},
	{"buy", OrderBuy},
	{"sell", OrderSell},
}

// Parser turns raw multi-line signal text into trade intents. The risk
// fraction is injected from configuration and stamped onto every intent.
type Parser struct {
	symbols      map[string]struct{}
	riskFraction float64
}

// NewParser creates a parser with the given risk fraction and symbol
// allow-list. A nil allow-list selects DefaultSymbols.
func NewParser(riskFraction float64, symbols []string) *Parser {
	if symbols == nil {
		symbols = DefaultSymbols
	}
	return &Parser{
		symbols:      symbolSet(symbols),
		riskFraction: riskFraction,
	}
}

// Parse interprets one signal. The expected shape is:
//
//	BUY/SELL [LIMIT/STOP] SYMBOL
//	Entry NOW|price
//	SL price
//	TP price
//	TP price   (optional second take profit)
//
// It returns either a fully populated intent or a rejection error; a
// partially populated intent is never produced.
func (p *Parser) Parse(text string) (*TradeIntent, error) {
	lines := splitSignal(text)

	header, err := lineAt(lines, 0)
	if err != nil {
		return nil, err
	}

	orderType, err := classifyOrderType(header)
	if err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(lastToken(header))
	if _, ok := p.symbols[symbol]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}

	entry, err := p.parseEntry(lines, orderType)
	if err != nil {
		return nil, err
	}

	stopLoss, err := priceAt(lines, 2)
	if err != nil {
		return nil, err
	}

	takeProfit, err := priceAt(lines, 3)
	if err != nil {
		return nil, err
	}
	takeProfits := []float64{takeProfit}

	if len(lines) > 4 {
		second, err := priceAt(lines, 4)
		if err != nil {
			return nil, err
		}
		takeProfits = append(takeProfits, second)
	}

	// A pinned entry sitting exactly on the stop loss would later divide
	// by a zero pip distance; reject it up front. Market entries get the
	// same guard at calculation time, once the live quote is known.
	if !entry.Market && entry.Price == stopLoss {
		return nil, ErrZeroStopDistance
	}

	return &TradeIntent{
		OrderType:    orderType,
		Symbol:       symbol,
		Entry:        entry,
		StopLoss:     stopLoss,
		TakeProfits:  takeProfits,
		RiskFraction: p.riskFraction,
	}, nil
}

func (p *Parser) parseEntry(lines []string, orderType OrderType) (Entry, error) {
	line, err := lineAt(lines, 1)
	if err != nil {
		return Entry{}, err
	}
	token := lastToken(line)

	if orderType.IsMarket() && token == marketEntryToken {
		return MarketEntry(), nil
	}

	price, err := parsePrice(token)
	if err != nil {
		return Entry{}, err
	}
	return PriceEntry(price), nil
}

// splitSignal splits the raw text into lines with trailing whitespace
// removed. Leading whitespace and interior blank lines are preserved so a
// misplaced line fails the later lookup instead of silently shifting the
// layout. A single trailing newline does not count as an extra line.
func splitSignal(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return lines
}

func classifyOrderType(header string) (OrderType, error) {
	lowered := strings.ToLower(header)
	for _, c := range orderTypePhrases {
		if strings.Contains(lowered, c.phrase) {
			return c.order, nil
		}
	}
	return "", ErrUnknownOrderType
}

func lineAt(lines []string, index int) (string, error) {
	if index >= len(lines) || strings.TrimSpace(lines[index]) == "" {
		return "", fmt.Errorf("%w: line %d", ErrIncompleteSignal, index+1)
	}
	return lines[index], nil
}

// lastToken returns the final whitespace-delimited token of a line. The
// line is known to be non-blank by the time this is called.
func lastToken(line string) string {
	fields := strings.Fields(line)
	return fields[len(fields)-1]
}

func priceAt(lines []string, index int) (float64, error) {
	line, err := lineAt(lines, index)
	if err != nil {
		return 0, err
	}
	return parsePrice(lastToken(line))
}

func parsePrice(token string) (float64, error) {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, token)
	}
	return value, nil
}
