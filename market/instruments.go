package market

import (
	"math"
	"strings"
)

// InstrumentMeta carries per-symbol contract details needed for pip-value
// and position-size math. Correct sizing depends on these being supplied by
// the broker for the traded symbol; the registry below covers the common
// pairs and Resolve falls back to a quote-currency heuristic for the rest.
type InstrumentMeta struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	PipLocation   int
	ContractSize  float64
	MinLot        float64
	LotStep       float64
}

// PipSize returns the price increment of one pip for the instrument.
func (m InstrumentMeta) PipSize() float64 {
	return math.Pow(10, float64(m.PipLocation))
}

// Instruments is the built-in instrument registry.
var Instruments = map[string]InstrumentMeta{
	"EUR_USD": {
		Name:          "EUR_USD",
		BaseCurrency:  "EUR",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		ContractSize:  100000,
		MinLot:        0.01,
		LotStep:       0.01,
	},
	"GBP_USD": {
		Name:          "GBP_USD",
		BaseCurrency:  "GBP",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		ContractSize:  100000,
		MinLot:        0.01,
		LotStep:       0.01,
	},
	"USD_JPY": {
		Name:          "USD_JPY",
		BaseCurrency:  "USD",
		QuoteCurrency: "JPY",
		PipLocation:   -2,
		ContractSize:  100000,
		MinLot:        0.01,
		LotStep:       0.01,
	},
	"XAU_USD": {
		Name:          "XAU_USD",
		BaseCurrency:  "XAU",
		QuoteCurrency: "USD",
		PipLocation:   -1,
		ContractSize:  100,
		MinLot:        0.01,
		LotStep:       0.01,
	},
}

// Resolve returns metadata for the symbol, synthesizing a reasonable entry
// when the registry has no exact match (JPY quotes pip at 0.01, everything
// else at 0.0001).
func Resolve(symbol string) InstrumentMeta {
	if m, ok := Instruments[symbol]; ok {
		return m
	}
	loc := -4
	if strings.Contains(symbol, "JPY") {
		loc = -2
	}
	return InstrumentMeta{
		Name:         symbol,
		PipLocation:  loc,
		ContractSize: 100000,
		MinLot:       0.01,
		LotStep:      0.01,
	}
}
