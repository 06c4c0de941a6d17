package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatRunOrg renders a run and its trades as an Org-mode block. Structured
// facts go in PROPERTIES drawers so they stay searchable.
func FormatRunOrg(r RunRecord, trades []TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "* Run: %s (%s)\n", r.Strategy, shortID(r.RunID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", r.RunID)
	fmt.Fprintf(&b, ":KIND: %s\n", r.Kind)
	fmt.Fprintf(&b, ":LABELS: %s\n", r.Labels)
	fmt.Fprintf(&b, ":START: %s\n", r.Start.Format(time.DateOnly))
	fmt.Fprintf(&b, ":END: %s\n", r.End.Format(time.DateOnly))
	fmt.Fprintf(&b, ":START_CASH: %s\n", r.StartCash.StringFixed(2))
	fmt.Fprintf(&b, ":FINAL_CASH: %s\n", r.FinalCash.StringFixed(2))
	fmt.Fprintf(&b, ":MARGIN_CALLS: %d\n", r.MarginCalls)
	fmt.Fprintf(&b, ":TRADES: %d\n", r.Trades)
	fmt.Fprintf(&b, ":CREATED: [%s]\n", r.Created.UTC().Format("2006-01-02 Mon 15:04"))
	b.WriteString(":END:\n")

	for _, t := range trades {
		b.WriteString("\n")
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// FormatTradeOrg renders one execution as an Org-mode subheading.
func FormatTradeOrg(t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s %s %d @ %s\n", t.Date.Format(time.DateOnly), t.Action, t.Side, t.Shares, t.Symbol)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":SEQ: %d\n", t.Seq)
	fmt.Fprintf(&b, ":PRICE: %s\n", t.Price.StringFixed(2))
	fmt.Fprintf(&b, ":FEE: %s\n", t.Fee.StringFixed(2))
	if t.Action == "close" {
		fmt.Fprintf(&b, ":GAIN: %s\n", t.Gain.StringFixed(2))
	}
	fmt.Fprintf(&b, ":CASH: %s\n", t.Cash.StringFixed(2))
	fmt.Fprintf(&b, ":REASON: %s\n", t.Reason)
	b.WriteString(":END:\n")
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
