package sim

import "github.com/shopspring/decimal"

var daysPerYear = decimal.NewFromInt(365)

// bookCapitalGains withholds tax on a positive gain immediately and files
// losses for netting at the next settlement.
func (m *Market) bookCapitalGains(gain decimal.Decimal) {
	if gain.IsPositive() {
		m.cash = m.cash.Sub(m.params.TaxRate.Mul(gain))
		m.gainsToDate = m.gainsToDate.Add(gain)
		return
	}
	m.lossesToDate = m.lossesToDate.Add(gain.Abs())
}

// settleTaxes refunds tax on gains matched by losses. Unmatched remainders
// carry forward to the next settlement.
func (m *Market) settleTaxes() {
	offset := decimal.Min(m.gainsToDate, m.lossesToDate)
	if !offset.IsPositive() {
		return
	}
	refund := m.params.TaxRate.Mul(offset)
	m.cash = m.cash.Add(refund)
	m.gainsToDate = m.gainsToDate.Sub(offset)
	m.lossesToDate = m.lossesToDate.Sub(offset)
	m.sink.OnSettlement(SettlementEvent{Date: m.date, Kind: TaxRefundSettlement, Amount: refund})
}

// accrueLendingFee adds one calendar day of borrow cost for every open short.
func (m *Market) accrueLendingFee() {
	for _, p := range m.positions {
		if p.side != Short {
			continue
		}
		notional := decimal.NewFromInt(p.shares).Mul(p.entry)
		m.accruedFee = m.accruedFee.Add(m.params.LendingFeeRate.Mul(notional).Div(daysPerYear))
	}
}

// settleLendingFee charges the accrued borrow cost to cash.
func (m *Market) settleLendingFee() {
	if m.accruedFee.IsZero() {
		return
	}
	charged := m.accruedFee
	m.cash = m.cash.Sub(charged)
	m.accruedFee = decimal.Zero
	m.sink.OnSettlement(SettlementEvent{Date: m.date, Kind: LendingFeeSettlement, Amount: charged.Neg()})
}
