// File: internal/currency/currency_test.go
package currency

import (
	"math"
	"testing"
)

func TestParsePair(t *testing.T) {
	cases := []struct {
		in       string
		from, to string
		ok       bool
	}{
		{"HKD/USDT", "HKD", "USDT", true},
		{"hkd/usdt", "HKD", "USDT", true},
		{"hkd-usdt", "HKD", "USDT", true},
		{"buy HKD sell USDT", "HKD", "USDT", true},
		{"buying EUR and selling GBP", "EUR", "GBP", true},
		{"USDT HKD", "USDT", "HKD", true},
		{"just words", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		pair, ok := ParsePair(tc.in)
		if ok != tc.ok {
			t.Errorf("ParsePair(%q) ok=%v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if pair.From != tc.from || pair.To != tc.to {
			t.Errorf("ParsePair(%q) = %s/%s, want %s/%s", tc.in, pair.From, pair.To, tc.from, tc.to)
		}
	}
}

func TestParsePairIdempotent(t *testing.T) {
	pair, ok := ParsePair("HKD/USDT")
	if !ok {
		t.Fatal("first parse failed")
	}
	again, ok := ParsePair(FormatPair(pair.From, pair.To))
	if !ok || again != pair {
		t.Fatalf("reparse of %q gave %+v, want %+v", FormatPair(pair.From, pair.To), again, pair)
	}
}

func TestLookupUnknownCode(t *testing.T) {
	if got := Lookup("ZZZ").ValueUSD; got != 1.0 {
		t.Fatalf("unknown code value = %v, want 1.0", got)
	}
}

func TestResolveAmounts(t *testing.T) {
	e := NewEngine(StaticRates{})

	cases := []struct {
		name     string
		in       OrderAmounts
		wantBuy  float64
		wantSell float64
	}{
		{
			// 1 USDT = 7 HKD: buying 700 HKD means selling 100 USDT
			name:     "weak from, buy known",
			in:       OrderAmounts{FromCurrency: "HKD", ToCurrency: "USDT", Rate: 7, AmountBuy: 700},
			wantBuy:  700,
			wantSell: 100,
		},
		{
			name:     "weak from, sell known",
			in:       OrderAmounts{FromCurrency: "HKD", ToCurrency: "USDT", Rate: 7, AmountSell: 100},
			wantBuy:  700,
			wantSell: 100,
		},
		{
			name:     "strong from, buy known",
			in:       OrderAmounts{FromCurrency: "USDT", ToCurrency: "HKD", Rate: 7, AmountBuy: 100},
			wantBuy:  100,
			wantSell: 700,
		},
		{
			name:     "strong from, sell known",
			in:       OrderAmounts{FromCurrency: "USDT", ToCurrency: "HKD", Rate: 7, AmountSell: 700},
			wantBuy:  100,
			wantSell: 700,
		},
		{
			name:     "rounds to cents",
			in:       OrderAmounts{FromCurrency: "HKD", ToCurrency: "USDT", Rate: 7.8, AmountBuy: 1000},
			wantBuy:  1000,
			wantSell: 128.21,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.ResolveAmounts(tc.in)
			if got.AmountBuy != tc.wantBuy || got.AmountSell != tc.wantSell {
				t.Fatalf("got buy=%v sell=%v, want buy=%v sell=%v", got.AmountBuy, got.AmountSell, tc.wantBuy, tc.wantSell)
			}
		})
	}
}

func TestResolveAmountsRoundTrip(t *testing.T) {
	e := NewEngine(StaticRates{})

	forward := e.ResolveAmounts(OrderAmounts{FromCurrency: "HKD", ToCurrency: "USDT", Rate: 7, AmountBuy: 700})
	back := e.ResolveAmounts(OrderAmounts{FromCurrency: "HKD", ToCurrency: "USDT", Rate: 7, AmountSell: forward.AmountSell})
	if math.Abs(back.AmountBuy-700) > 0.01 {
		t.Fatalf("round trip buy = %v, want 700", back.AmountBuy)
	}
}

func TestResolveAmountsLeavesIncompleteInput(t *testing.T) {
	e := NewEngine(StaticRates{})

	cases := []OrderAmounts{
		{FromCurrency: "HKD", ToCurrency: "USDT", AmountBuy: 700},          // no rate
		{FromCurrency: "HKD", Rate: 7, AmountBuy: 700},                     // no pair
		{FromCurrency: "HKD", ToCurrency: "USDT", Rate: 7},                 // no amounts
		{FromCurrency: "HKD", ToCurrency: "USDT", Rate: -1, AmountBuy: 10}, // bad rate
	}
	for _, in := range cases {
		if got := e.ResolveAmounts(in); got != in {
			t.Errorf("ResolveAmounts(%+v) = %+v, want unchanged", in, got)
		}
	}
}

func TestResolveAmountsBothKnownUntouched(t *testing.T) {
	e := NewEngine(StaticRates{})
	in := OrderAmounts{FromCurrency: "HKD", ToCurrency: "USDT", Rate: 7, AmountBuy: 700, AmountSell: 99}
	if got := e.ResolveAmounts(in); got != in {
		t.Fatalf("both amounts set should pass through, got %+v", got)
	}
}
