package sim

import (
	"github.com/rustyeddy/stocksim/market"
	"github.com/shopspring/decimal"
)

// AdvanceDay steps the ledger to the next business day. The order of effects
// is fixed:
//
//  1. accrue a day of lending fees for open shorts
//  2. advance the date, repeating 1 through weekends
//  3. pay or charge dividends for the landed day
//  4. on a month change, settle lending fees
//  5. check for a margin call and resolve it
//  6. on a month change, settle capital gains tax
func (m *Market) AdvanceDay() {
	from := m.date
	for {
		m.accrueLendingFee()
		m.date = m.date.AddDate(0, 0, 1)
		if !market.IsWeekend(m.date) {
			break
		}
	}

	m.payDividends()

	monthChanged := !market.SameMonth(from, m.date)
	if monthChanged {
		m.settleLendingFee()
	}

	m.checkMarginCall()

	if monthChanged {
		m.settleTaxes()
	}
}

// payDividends credits longs (as taxable gain) and debits shorts for any
// dividend paid today.
func (m *Market) payDividends() {
	for _, p := range m.positions {
		perShare, ok := p.stock.DividendAt(m.date)
		if !ok {
			continue
		}
		amount := perShare.Mul(decimal.NewFromInt(p.shares))
		if p.side == Long {
			m.cash = m.cash.Add(amount)
			m.bookCapitalGains(amount)
		} else {
			amount = amount.Neg()
			m.cash = m.cash.Add(amount)
		}
		m.sink.OnDividend(DividendEvent{
			Date:     m.date,
			Symbol:   p.stock.Symbol(),
			Side:     p.side,
			Shares:   p.shares,
			PerShare: perShare,
			Amount:   amount,
		})
	}
}
