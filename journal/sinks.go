package journal

import (
	"github.com/rs/zerolog"
	"github.com/rustyeddy/stocksim/sim"
)

// LogSink writes ledger events to a zerolog logger at debug level, with
// margin calls at warn.
type LogSink struct {
	log zerolog.Logger
}

var _ sim.EventSink = LogSink{}

func NewLogSink(log zerolog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) OnTrade(e sim.TradeEvent) {
	ev := s.log.Debug().
		Time("date", e.Date).
		Str("action", string(e.Action)).
		Str("side", e.Side.String()).
		Str("symbol", e.Symbol).
		Int64("shares", e.Shares).
		Stringer("price", e.Price).
		Stringer("cash", e.Cash).
		Str("reason", e.Reason)
	if e.Action == sim.Close {
		ev = ev.Stringer("gain", e.Gain)
	}
	ev.Msg("trade")
}

func (s LogSink) OnDividend(e sim.DividendEvent) {
	s.log.Debug().
		Time("date", e.Date).
		Str("symbol", e.Symbol).
		Str("side", e.Side.String()).
		Int64("shares", e.Shares).
		Stringer("per_share", e.PerShare).
		Stringer("amount", e.Amount).
		Msg("dividend")
}

func (s LogSink) OnMarginCall(e sim.MarginCallEvent) {
	s.log.Warn().
		Time("date", e.Date).
		Stringer("equity", e.Equity).
		Stringer("short_value", e.ShortValue).
		Stringer("ratio", e.Ratio).
		Int("liquidated", e.Liquidated).
		Int("count", e.Count).
		Msg("margin call")
}

func (s LogSink) OnSettlement(e sim.SettlementEvent) {
	s.log.Debug().
		Time("date", e.Date).
		Str("kind", string(e.Kind)).
		Stringer("amount", e.Amount).
		Msg("settlement")
}

// Fanout forwards every event to each sink in order.
type Fanout []sim.EventSink

var _ sim.EventSink = Fanout(nil)

func (f Fanout) OnTrade(e sim.TradeEvent) {
	for _, s := range f {
		s.OnTrade(e)
	}
}

func (f Fanout) OnDividend(e sim.DividendEvent) {
	for _, s := range f {
		s.OnDividend(e)
	}
}

func (f Fanout) OnMarginCall(e sim.MarginCallEvent) {
	for _, s := range f {
		s.OnMarginCall(e)
	}
}

func (f Fanout) OnSettlement(e sim.SettlementEvent) {
	for _, s := range f {
		s.OnSettlement(e)
	}
}
