// Package notify renders trade plans into alert messages and delivers them
// through a pluggable sink. Delivery is fire-and-forget per message.
package notify

import (
	"fmt"

	"github.com/rxtech-lab/swing-trader/internal/types"
)

// FormatTradeAlert renders one trade plan into the fixed alert template.
// Pure string interpolation, no logic.
func FormatTradeAlert(plan types.TradePlan) string {
	return fmt.Sprintf(`🚨 TRADE ALERT: $%s
📈 Strategy: %s
📍 Entry: $%.2f
📉 Stop: $%.2f
🎯 Target: $%.2f
📊 Confidence: %s
💰 Risk: $%.0f
🧠 Reasoning: %s`,
		plan.Ticker,
		plan.Strategy,
		plan.Entry,
		plan.Stop,
		plan.Target,
		plan.Confidence,
		plan.RiskAmount,
		plan.Reasoning,
	)
}
