package sim

import "github.com/shopspring/decimal"

// MarginStatus is a point-in-time margin evaluation.
type MarginStatus struct {
	Equity     decimal.Decimal
	ShortValue decimal.Decimal // Σ shares×price over open shorts
	Ratio      decimal.Decimal // Equity / ShortValue; zero when ShortValue is zero
}

// Call reports whether the account is below the maintenance ratio. An account
// without short exposure can never be called.
func (s MarginStatus) Call(maintenance decimal.Decimal) bool {
	if s.ShortValue.IsZero() {
		return false
	}
	return s.Ratio.LessThan(maintenance)
}

// Margin evaluates the account at today's prices.
func (m *Market) Margin() MarginStatus {
	var short decimal.Decimal
	for _, p := range m.positions {
		if p.side != Short {
			continue
		}
		price := p.stock.PriceAt(m.date)
		short = short.Add(price.Mul(decimal.NewFromInt(p.shares)))
	}

	s := MarginStatus{Equity: m.Equity(), ShortValue: short}
	if !short.IsZero() {
		s.Ratio = s.Equity.Div(short)
	}
	return s
}

// checkMarginCall resolves a maintenance breach according to the policy.
// A breach counts as a single call however many positions it closes.
func (m *Market) checkMarginCall() {
	status := m.Margin()
	if !status.Call(m.params.MaintenanceMargin) {
		return
	}

	m.marginCalls++
	liquidated := 0

	switch m.policy {
	case LiquidateIteratively:
		for len(m.positions) > 0 {
			// liquidate only fails for positions the Market does not hold
			_ = m.liquidate(m.positions[0], ReasonMarginCall)
			liquidated++
			if !m.Margin().Call(m.params.MaintenanceMargin) {
				break
			}
		}
	default:
		liquidated = len(m.positions)
		_ = m.liquidateAll(ReasonMarginCall)
	}

	m.sink.OnMarginCall(MarginCallEvent{
		Date:       m.date,
		Equity:     status.Equity,
		ShortValue: status.ShortValue,
		Ratio:      status.Ratio,
		Liquidated: liquidated,
		Count:      m.marginCalls,
	})
}
