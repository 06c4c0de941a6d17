package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one daily OHLC record for a stock.
type Bar struct {
	Date          time.Time
	Open          decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	Close         decimal.Decimal
	AdjustedClose decimal.Decimal
	Volume        int64
}

// Price is the single daily reference price used for executions and valuation.
func (b Bar) Price() decimal.Decimal {
	return b.Open
}

// validate repairs a zero open with the close and rejects bars without a usable close or low.
func (b Bar) validate() (Bar, error) {
	if b.Close.IsZero() || b.Low.IsZero() {
		return b, ErrMalformedData
	}
	if b.Open.IsZero() {
		b.Open = b.Close
	}
	return b, nil
}

// Dividend is a per-share cash distribution paid on Date.
type Dividend struct {
	Date   time.Time
	Amount decimal.Decimal
}
