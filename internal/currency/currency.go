// Package currency resolves currency pairs from free text and reconciles the
// missing side of a buy/sell amount given a rate. Everything here is pure.
package currency

import (
	"math"
	"regexp"
	"strings"
)

// Info describes one currency in the reference table.
type Info struct {
	Name     string
	ValueUSD float64
	Symbol   string
}

// RateSource supplies the approximate USD unit value used to order a pair by
// strength. The default is the static table below; swap in a live source if
// exactness ever matters.
type RateSource interface {
	ValueUSD(code string) float64
}

// StaticRates is the built-in approximation table.
type StaticRates struct{}

var currencyData = map[string]Info{
	"USD":  {Name: "US Dollar", ValueUSD: 1.0, Symbol: "$"},
	"USDT": {Name: "Tether", ValueUSD: 1.0, Symbol: "USDT"},
	"USDC": {Name: "USD Coin", ValueUSD: 1.0, Symbol: "USDC"},
	"HKD":  {Name: "Hong Kong Dollar", ValueUSD: 0.128, Symbol: "HK$"},
	"CNY":  {Name: "Chinese Yuan", ValueUSD: 0.14, Symbol: "¥"},
	"EUR":  {Name: "Euro", ValueUSD: 1.08, Symbol: "€"},
	"GBP":  {Name: "British Pound", ValueUSD: 1.27, Symbol: "£"},
	"JPY":  {Name: "Japanese Yen", ValueUSD: 0.0067, Symbol: "¥"},
	"BTC":  {Name: "Bitcoin", ValueUSD: 100000, Symbol: "₿"},
	"ETH":  {Name: "Ethereum", ValueUSD: 3500, Symbol: "Ξ"},
}

// Lookup returns the table entry for a code; unknown codes get unit value 1.0.
func Lookup(code string) Info {
	c := strings.ToUpper(code)
	if info, ok := currencyData[c]; ok {
		return info
	}
	return Info{Name: c, ValueUSD: 1.0, Symbol: c}
}

func (StaticRates) ValueUSD(code string) float64 { return Lookup(code).ValueUSD }

// Pair is a buy/sell currency pair: From is what we buy, To what we sell.
type Pair struct {
	From string
	To   string
}

var (
	slashPattern   = regexp.MustCompile(`([A-Z]{3,4})[/\-]([A-Z]{3,4})`)
	buySellPattern = regexp.MustCompile(`BUY(?:ING)?\s+([A-Z]{3,4}).*SELL(?:ING)?\s+([A-Z]{3,4})`)
	twoCodePattern = regexp.MustCompile(`\b([A-Z]{3,4})\s+([A-Z]{3,4})\b`)
	codePattern    = regexp.MustCompile(`^[A-Z]{3,4}$`)
)

// ParsePair extracts a currency pair from free text. Three shapes are tried
// in order: "XXX/YYY" or "XXX-YYY", "buy XXX ... sell YYY", and two bare
// codes separated by whitespace. Matching is case-insensitive.
func ParsePair(input string) (Pair, bool) {
	if input == "" {
		return Pair{}, false
	}
	upper := strings.ToUpper(strings.TrimSpace(input))

	if m := slashPattern.FindStringSubmatch(upper); m != nil {
		return Pair{From: m[1], To: m[2]}, true
	}
	if m := buySellPattern.FindStringSubmatch(upper); m != nil {
		return Pair{From: m[1], To: m[2]}, true
	}
	if m := twoCodePattern.FindStringSubmatch(upper); m != nil {
		return Pair{From: m[1], To: m[2]}, true
	}
	return Pair{}, false
}

// FormatPair renders a pair for display.
func FormatPair(from, to string) string { return from + "/" + to }

// IsValidCode reports whether code looks like a 3-4 letter currency code.
func IsValidCode(code string) bool {
	return codePattern.MatchString(strings.ToUpper(code))
}

// OrderAmounts is the calculation slice of an order draft. A zero amount
// means "unknown".
type OrderAmounts struct {
	FromCurrency string
	ToCurrency   string
	Rate         float64
	AmountBuy    float64
	AmountSell   float64
}

// Engine reconciles amounts against a rate source.
type Engine struct {
	rates RateSource
}

func NewEngine(rates RateSource) *Engine {
	if rates == nil {
		rates = StaticRates{}
	}
	return &Engine{rates: rates}
}

// stronger reports whether a is worth more than b per the rate source.
func (e *Engine) stronger(a, b string) bool {
	return e.rates.ValueUSD(a) > e.rates.ValueUSD(b)
}

// ResolveAmounts fills the missing one of AmountBuy/AmountSell.
//
// The rate is read as "1 unit of the stronger currency = rate units of the
// weaker currency". For HKD/USDT at rate 7: 1 USDT = 7 HKD, so buying 700 HKD
// means selling 100 USDT.
//
// Not-yet-computable input (missing pair or rate, rate <= 0, both amounts
// known, neither known) is returned unchanged.
func (e *Engine) ResolveAmounts(a OrderAmounts) OrderAmounts {
	if a.FromCurrency == "" || a.ToCurrency == "" || a.Rate <= 0 {
		return a
	}

	fromStronger := e.stronger(a.FromCurrency, a.ToCurrency)

	switch {
	case a.AmountBuy != 0 && a.AmountSell == 0:
		if fromStronger {
			a.AmountSell = round2(a.AmountBuy * a.Rate)
		} else {
			a.AmountSell = round2(a.AmountBuy / a.Rate)
		}
	case a.AmountSell != 0 && a.AmountBuy == 0:
		if fromStronger {
			a.AmountBuy = round2(a.AmountSell / a.Rate)
		} else {
			a.AmountBuy = round2(a.AmountSell * a.Rate)
		}
	}
	return a
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
