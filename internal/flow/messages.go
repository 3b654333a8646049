package flow

import "fmt"

// User-facing message texts. Kept in one place so the controller logic
// stays readable.

const welcomeMessage = "Hi, Welcome to the ProjexFX Signal Trading Bot!\n\n" +
	"You can use this bot to enter trades directly from Telegram and get a detailed look at your " +
	"risk to reward ratio with profit, loss, and calculated lot size. You are able to change " +
	"specific settings such as allowed symbols, risk factor, and more from your environment " +
	"variables and configuration file.\n\n" +
	"Use the /help command to view instructions and example trades."

const helpMessage = "This bot is used to automatically enter trades onto your MetaTrader account " +
	"directly from Telegram. To begin, ensure that you are authorized to use this bot by adjusting " +
	"your environment variables.\n\n" +
	"This bot supports all trade order types (Market Execution, Limit, and Stop).\n\n" +
	"After an extended period away from the bot, please be sure to re-enter the start command to " +
	"restart the connection to your MetaTrader account."

const commandsMessage = "List of commands:\n" +
	"/start : displays welcome message\n" +
	"/help : displays list of commands and example trades\n" +
	"/trade : takes in user inputted trade for parsing and placement\n" +
	"/calculate : calculates trade information for a user inputted trade\n" +
	"/report : exports the trade journal as an Excel workbook\n" +
	"/cancel : cancels the current action"

const examplesMessage = "Example Trades:\n\n" +
	"Market Execution:\n" +
	"BUY GBPUSD\nEntry NOW\nSL 1.14336\nTP 1.28930\nTP 1.29845\n\n" +
	"Limit Execution:\n" +
	"BUY LIMIT GBPUSD\nEntry 1.14480\nSL 1.14336\nTP 1.28930\n\n" +
	"You are able to enter up to two take profits. If two are entered, both trades will use half " +
	"of the position size, and one will use TP1 while the other uses TP2.\n\n" +
	"Note: Use 'NOW' as the entry to enter a market execution trade."

const (
	unauthorizedMessage   = "You are not authorized to use this bot!"
	unknownCommandMessage = "Unknown command. Use /trade to place a trade or /calculate to find " +
		"information for a trade. You can also use the /help command to view instructions for this bot."

	promptTradeMessage     = "Please enter the trade that you would like to place."
	promptCalculateMessage = "Please enter the trade that you would like to calculate."

	parsedMessage = "Trade Successfully Parsed!\nConnecting to MetaTrader ... (May take a while)"

	decisionPromptMessage = "Would you like to enter this trade?\nTo enter, select: /yes\nTo decline, select: /no"

	connectedMessage = "Successfully connected to MetaTrader!\nCalculating trade risk ..."
	enteringMessage  = "Entering trade on MetaTrader Account ..."
	enteredMessage   = "Trade entered successfully, Good Luck!"

	canceledMessage = "Command has been canceled."

	accountMismatchMessage = "Connected to an unauthorized MetaTrader account. Operation aborted."

	emptyJournalMessage = "No orders have been journalled yet."
)

// parseErrorMessage is the re-prompt sent when a signal text is rejected.
func parseErrorMessage(reason string) string {
	return "There was an error parsing this trade\n\n" +
		"Error: " + reason + "\n\n" +
		"Please re-enter trade with this format:\n\n" +
		"BUY/SELL SYMBOL\nEntry \nSL \nTP \n\n" +
		"Or use the /cancel command to cancel this action."
}

// connectionErrorMessage surfaces a gateway failure verbatim.
func connectionErrorMessage(reason string) string {
	return "There was an issue with the connection\n\nError Message:\n" + reason
}

// orderErrorMessage surfaces a per-leg placement failure verbatim.
func orderErrorMessage(leg int, reason string) string {
	return fmt.Sprintf("There was an issue placing the order for TP %d\n\nError Message:\n%s", leg, reason)
}
