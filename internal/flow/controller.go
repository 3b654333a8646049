package flow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/projexfx/signal-trader/internal/config"
	"github.com/projexfx/signal-trader/internal/gateway"
	"github.com/projexfx/signal-trader/internal/journal"
	"github.com/projexfx/signal-trader/internal/logger"
	"github.com/projexfx/signal-trader/internal/monitoring"
	"github.com/projexfx/signal-trader/internal/reporting"
	"github.com/projexfx/signal-trader/internal/risk"
	"github.com/projexfx/signal-trader/internal/signal"
)

// Messenger is the outbound half of the messaging transport: deliver text,
// formatted tables and documents to a chat session.
type Messenger interface {
	SendMessage(chatID int64, text string) error
	SendHTML(chatID int64, html string) error
	SendDocument(chatID int64, filename string, content []byte, caption string) error
}

// IncomingMessage is one inbound transport event, already stripped down to
// what the flow needs: the session key, the requester identity, and the
// command or free-text body.
type IncomingMessage struct {
	ChatID  int64
	Sender  string
	Command string
	Text    string
}

// Controller sequences calculate and trade requests: it runs the parser,
// drives the brokerage gateway, and walks each chat through the
// confirmation state machine. Updates for one chat are handled strictly
// one at a time; an in-flight gateway sequence finishes before the next
// command for that chat is accepted.
type Controller struct {
	cfg       *config.Config
	gateway   gateway.Gateway
	messenger Messenger
	parser    *signal.Parser
	sessions  *SessionStore
	journal   journal.Journal
	health    *monitoring.HealthChecker
	activity  *logger.Logger

	mu        sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

// NewController wires the flow controller. journal and activity may be nil;
// the corresponding features are then skipped.
func NewController(
	cfg *config.Config,
	gw gateway.Gateway,
	messenger Messenger,
	jnl journal.Journal,
	health *monitoring.HealthChecker,
	activity *logger.Logger,
) *Controller {
	var symbols []string
	if len(cfg.Trading.Symbols) > 0 {
		symbols = cfg.Trading.Symbols
	}
	return &Controller{
		cfg:       cfg,
		gateway:   gw,
		messenger: messenger,
		parser:    signal.NewParser(cfg.Trading.RiskFraction, symbols),
		sessions:  NewSessionStore(),
		journal:   jnl,
		health:    health,
		activity:  activity,
		chatLocks: make(map[int64]*sync.Mutex),
	}
}

// chatLock returns the serialization lock for a chat, creating it on first
// use. Locks are never removed; the bot serves a single operator.
func (c *Controller) chatLock(chatID int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		c.chatLocks[chatID] = lock
	}
	return lock
}

// Handle routes one incoming message. It never returns an error: every
// failure path ends in a user-facing message and a clean session state.
// Webhook deliveries arrive on separate goroutines, so the whole handling
// of an update, including the blocking gateway sequence, runs under the
// chat's lock.
func (c *Controller) Handle(ctx context.Context, msg IncomingMessage) {
	lock := c.chatLock(msg.ChatID)
	lock.Lock()
	defer lock.Unlock()

	switch msg.Command {
	case "start":
		c.send(msg.ChatID, welcomeMessage)
	case "help":
		c.send(msg.ChatID, helpMessage)
		c.send(msg.ChatID, commandsMessage)
		c.send(msg.ChatID, examplesMessage)
	case "trade":
		c.beginSession(msg, ModeTrade, promptTradeMessage)
	case "calculate":
		c.beginSession(msg, ModeCalculate, promptCalculateMessage)
	case "yes":
		c.handleYes(ctx, msg)
	case "no", "cancel":
		c.handleCancel(msg)
	case "report":
		c.handleReport(ctx, msg)
	case "":
		c.handleText(ctx, msg)
	default:
		c.handleUnknown(msg)
	}
}

// authorized checks the requester against the single configured identity.
func (c *Controller) authorized(msg IncomingMessage) bool {
	if msg.Sender == c.cfg.Telegram.AuthorizedUser {
		return true
	}
	c.send(msg.ChatID, unauthorizedMessage)
	if c.activity != nil {
		c.activity.Warning("unauthorized request from %q", msg.Sender)
	}
	return false
}

func (c *Controller) beginSession(msg IncomingMessage, mode Mode, prompt string) {
	if !c.authorized(msg) {
		return
	}
	c.sessions.Begin(msg.ChatID, mode)
	c.send(msg.ChatID, prompt)
}

// handleText receives the free-text signal body while a session awaits it.
// A parse rejection re-prompts without advancing the phase.
func (c *Controller) handleText(ctx context.Context, msg IncomingMessage) {
	if !c.authorized(msg) {
		return
	}

	session, ok := c.sessions.Get(msg.ChatID)
	if !ok || session.Phase != PhaseAwaitingSignal {
		c.send(msg.ChatID, unknownCommandMessage)
		return
	}

	intent, err := c.parser.Parse(msg.Text)
	if err != nil {
		monitoring.RecordParseRejection()
		if c.activity != nil {
			c.activity.Signal("rejected signal: %v", err)
		}
		c.send(msg.ChatID, parseErrorMessage(err.Error()))
		return
	}

	monitoring.RecordSignal(intent.Symbol, string(intent.OrderType))
	if c.activity != nil {
		c.activity.Signal("parsed %s %s", intent.OrderType, intent.Symbol)
	}
	session.Intent = intent
	c.send(msg.ChatID, parsedMessage)

	c.execute(ctx, msg.ChatID, session, session.Mode == ModeTrade)
}

// handleYes re-runs the placement sequence for the pending intent: balance
// and price are fetched fresh and the report recomputed before any order
// goes out.
func (c *Controller) handleYes(ctx context.Context, msg IncomingMessage) {
	if !c.authorized(msg) {
		return
	}

	session, ok := c.sessions.Get(msg.ChatID)
	if !ok || session.Phase != PhaseAwaitingDecision || session.Intent == nil {
		c.send(msg.ChatID, unknownCommandMessage)
		return
	}

	c.execute(ctx, msg.ChatID, session, true)
}

func (c *Controller) handleCancel(msg IncomingMessage) {
	if !c.authorized(msg) {
		return
	}
	c.sessions.End(msg.ChatID)
	c.send(msg.ChatID, canceledMessage)
}

func (c *Controller) handleUnknown(msg IncomingMessage) {
	if !c.authorized(msg) {
		return
	}
	c.send(msg.ChatID, unknownCommandMessage)
}

// execute drives the gateway for the session's pending intent: connect,
// verify the account, resolve the entry, present the risk report, and,
// when enter is set, place one order per take-profit leg. Any gateway or
// validation failure ends the session after reporting it.
func (c *Controller) execute(ctx context.Context, chatID int64, session *Session, enter bool) {
	report, err := c.prepareReport(ctx, chatID, session.Intent)
	if err != nil {
		if errors.Is(err, risk.ErrZeroPipDistance) {
			// A market entry landed exactly on the stop loss. Treat it
			// like a rejected signal: re-prompt instead of ending.
			session.Phase = PhaseAwaitingSignal
			session.Intent = nil
			return
		}
		c.sessions.End(chatID)
		return
	}

	c.sendHTML(chatID, "<pre>"+report.Table()+"</pre>")

	if !enter {
		session.Phase = PhaseAwaitingDecision
		c.send(chatID, decisionPromptMessage)
		return
	}

	c.placeOrders(ctx, chatID, report)
	c.sessions.End(chatID)
}

// prepareReport runs the blocking gateway sequence and computes the risk
// report. On failure the user has already been told what went wrong.
func (c *Controller) prepareReport(ctx context.Context, chatID int64, intent *signal.TradeIntent) (*risk.Report, error) {
	if err := c.gateway.Connect(ctx); err != nil {
		c.reportGatewayError(chatID, err)
		return nil, err
	}
	if c.health != nil {
		c.health.SetConnected(true)
	}

	info, err := c.gateway.AccountInformation(ctx)
	if err != nil {
		c.reportGatewayError(chatID, err)
		return nil, err
	}

	if info.Login != c.cfg.MetaAPI.AllowedAccountNumber {
		monitoring.RecordError("account_mismatch")
		if c.activity != nil {
			c.activity.Error("connected to unauthorized account %d", info.Login)
		}
		c.send(chatID, accountMismatchMessage)
		return nil, fmt.Errorf("connected account %d is not allowed", info.Login)
	}

	c.send(chatID, connectedMessage)

	resolved := intent
	if intent.Entry.Market {
		price, err := c.gateway.SymbolPrice(ctx, intent.Symbol)
		if err != nil {
			c.reportGatewayError(chatID, err)
			return nil, err
		}
		// Buys fill at the ask, sells at the bid.
		quote := price.Ask
		if !intent.OrderType.IsBuy() {
			quote = price.Bid
		}
		resolved = intent.ResolveEntry(quote)
	}

	report, err := risk.Calculate(resolved, info.Balance)
	if err != nil {
		monitoring.RecordError("risk_calculation")
		c.send(chatID, parseErrorMessage(err.Error()))
		return nil, err
	}

	monitoring.UpdateBalance(info.Balance)
	if c.health != nil {
		c.health.SignalProcessed(info.Balance)
	}
	return report, nil
}

// placeOrders submits one order per take-profit leg. A failed leg is
// reported and does not abort the remaining legs; already placed legs
// stand.
func (c *Controller) placeOrders(ctx context.Context, chatID int64, report *risk.Report) {
	c.send(chatID, enteringMessage)

	intent := report.Intent
	legVolume := report.LegVolume()
	var results []string

	for i, takeProfit := range intent.TakeProfits {
		result, err := c.gateway.PlaceOrder(ctx, gateway.OrderRequest{
			Type:       intent.OrderType,
			Symbol:     intent.Symbol,
			Volume:     legVolume,
			EntryPrice: intent.Entry.Price,
			StopLoss:   intent.StopLoss,
			TakeProfit: takeProfit,
		})
		if err != nil {
			monitoring.RecordOrder(intent.Symbol, string(intent.OrderType), "error")
			if c.activity != nil {
				c.activity.Error("order leg %d failed: %v", i+1, err)
			}
			c.send(chatID, orderErrorMessage(i+1, err.Error()))
			continue
		}

		monitoring.RecordOrder(intent.Symbol, string(intent.OrderType), result.ResultCode)
		if c.activity != nil {
			c.activity.Trade("placed %s %s %.2f lots TP %.5f (%s)",
				intent.OrderType, intent.Symbol, legVolume, takeProfit, result.ResultCode)
		}
		results = append(results, fmt.Sprintf("TP %d: %s", i+1, result.ResultCode))

		c.recordOrder(ctx, report, legVolume, takeProfit, result)
	}

	if len(results) > 0 {
		c.send(chatID, enteredMessage+"\n\nResult Codes:\n"+strings.Join(results, "\n"))
	}
}

func (c *Controller) recordOrder(ctx context.Context, report *risk.Report, volume, takeProfit float64, result *gateway.OrderResult) {
	if c.journal == nil {
		return
	}
	intent := report.Intent
	err := c.journal.RecordOrder(ctx, journal.OrderRecord{
		Symbol:     intent.Symbol,
		OrderType:  string(intent.OrderType),
		Volume:     volume,
		Entry:      intent.Entry.Price,
		StopLoss:   intent.StopLoss,
		TakeProfit: takeProfit,
		ResultCode: result.ResultCode,
		OrderID:    result.OrderID,
	})
	if err != nil {
		log.Printf("Failed to journal order: %v", err)
	}
}

// handleReport exports the journal as an Excel workbook and sends it back
// as a document.
func (c *Controller) handleReport(ctx context.Context, msg IncomingMessage) {
	if !c.authorized(msg) {
		return
	}
	if c.journal == nil {
		c.send(msg.ChatID, emptyJournalMessage)
		return
	}

	records, err := c.journal.ListOrders(ctx, time.Time{}, time.Time{})
	if err != nil {
		c.send(msg.ChatID, connectionErrorMessage(err.Error()))
		return
	}
	if len(records) == 0 {
		c.send(msg.ChatID, emptyJournalMessage)
		return
	}

	workbook, err := reporting.OrdersWorkbook(records)
	if err != nil {
		c.send(msg.ChatID, connectionErrorMessage(err.Error()))
		return
	}

	if err := c.messenger.SendDocument(msg.ChatID, "orders.xlsx", workbook, "Trade journal export"); err != nil {
		log.Printf("Failed to send journal export: %v", err)
	}
}

func (c *Controller) reportGatewayError(chatID int64, err error) {
	monitoring.RecordError("gateway")
	if c.health != nil {
		c.health.SetConnected(false)
		c.health.AddError(err.Error())
	}
	if c.activity != nil {
		c.activity.Error("gateway error: %v", err)
	}
	c.send(chatID, connectionErrorMessage(err.Error()))
}

func (c *Controller) send(chatID int64, text string) {
	if err := c.messenger.SendMessage(chatID, text); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (c *Controller) sendHTML(chatID int64, html string) {
	if err := c.messenger.SendHTML(chatID, html); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}
