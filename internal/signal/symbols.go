package signal

// DefaultSymbols is the fixed allow-list of instrument codes the parser
// accepts: majors, crosses and metals. "NOW" is kept for backwards
// compatibility with older signal sheets; as an entry value it is handled
// separately and never reaches the symbol check.
var DefaultSymbols = []string{
	"AUDCAD", "AUDCHF", "AUDJPY", "AUDNZD", "AUDUSD",
	"CADCHF", "CADJPY", "CHFJPY",
	"EURAUD", "EURCAD", "EURCHF", "EURGBP", "EURJPY", "EURNZD", "EURUSD",
	"GBPAUD", "GBPCAD", "GBPCHF", "GBPJPY", "GBPNZD", "GBPUSD",
	"NOW",
	"NZDCAD", "NZDCHF", "NZDJPY", "NZDUSD",
	"USDCAD", "USDCHF", "USDJPY",
	"XAGUSD", "XAUUSD",
}

// symbolSet builds a membership set from an allow-list slice.
func symbolSet(symbols []string) map[string]struct{} {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return set
}
