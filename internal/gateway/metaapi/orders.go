package metaapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/projexfx/signal-trader/internal/gateway"
	"github.com/projexfx/signal-trader/internal/signal"
)

// actionTypes maps the six supported order variants onto MetaApi trade
// action types.
var actionTypes = map[signal.OrderType]string{
	signal.OrderBuy:       "ORDER_TYPE_BUY",
	signal.OrderSell:      "ORDER_TYPE_SELL",
	signal.OrderBuyLimit:  "ORDER_TYPE_BUY_LIMIT",
	signal.OrderSellLimit: "ORDER_TYPE_SELL_LIMIT",
	signal.OrderBuyStop:   "ORDER_TYPE_BUY_STOP",
	signal.OrderSellStop:  "ORDER_TYPE_SELL_STOP",
}

type tradeRequest struct {
	ActionType string  `json:"actionType"`
	Symbol     string  `json:"symbol"`
	Volume     float64 `json:"volume"`
	OpenPrice  float64 `json:"openPrice,omitempty"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit"`
}

type tradeResponse struct {
	NumericCode int    `json:"numericCode"`
	StringCode  string `json:"stringCode"`
	OrderID     string `json:"orderId"`
}

// PlaceOrder submits one order leg. Market variants omit the open price;
// limit and stop variants pass the parsed entry price.
func (c *Client) PlaceOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.OrderResult, error) {
	actionType, ok := actionTypes[req.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported order type %q", req.Type)
	}

	body := tradeRequest{
		ActionType: actionType,
		Symbol:     req.Symbol,
		Volume:     req.Volume,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
	}
	if !req.Type.IsMarket() {
		body.OpenPrice = req.EntryPrice
	}

	var resp tradeResponse
	url := fmt.Sprintf("%s/users/current/accounts/%s/trade", c.cfg.ClientURL, c.cfg.AccountID)
	if err := c.call(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}

	return &gateway.OrderResult{
		ResultCode: resp.StringCode,
		OrderID:    resp.OrderID,
	}, nil
}
