package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"PortfolioDesk/internal/format"
	"PortfolioDesk/internal/model"
)

var reasonLabels = map[model.AlertReason]string{
	model.ReasonCurrentValue: "değer eşiği",
	model.ReasonProfitLoss:   "K/Z eşiği",
	model.ReasonDailyPercent: "günlük % eşiği",
}

// ReasonText joins the readable labels of reasons.
func ReasonText(reasons []model.AlertReason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = reasonLabels[r]
	}
	return strings.Join(parts, ", ")
}

// FormatSummary formats the portfolio view for a chat message.
func FormatSummary(view *model.AggregateView, at time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Portföy Özeti</b> | %s\n\n", at.Format("02.01.2006 15:04")))
	b.WriteString(fmt.Sprintf("Maliyet: %s\n", format.Currency(view.TotalCost)))
	b.WriteString(fmt.Sprintf("Güncel: %s\n", format.Currency(view.TotalValue)))
	b.WriteString(fmt.Sprintf("K/Z: %s (%s)\n\n", format.SignedCurrency(view.ProfitLoss), format.Percent(view.ReturnPercent)))

	b.WriteString("📈 <b>Dönemler:</b>\n")
	for _, s := range view.PeriodTotals {
		b.WriteString(fmt.Sprintf("  %s: %s (%s)\n", s.Period.Label(), format.SignedCurrency(s.Delta), format.Percent(s.Percent)))
	}

	if len(view.Categories) > 0 {
		b.WriteString("\n🗂 <b>Türler:</b>\n")
		for _, c := range view.Categories {
			b.WriteString(fmt.Sprintf("  %s (%d): %s\n", html.EscapeString(c.Category), c.Count, format.SignedCurrency(c.ProfitLoss)))
		}
	}
	return b.String()
}

// FormatAlertHit formats a single alert crossing.
func FormatAlertHit(hit model.AlertHit) string {
	return fmt.Sprintf("🔔 <b>Alarm</b> | %s\n%s aşıldı\nGüncel değer: %s",
		html.EscapeString(hit.Name), ReasonText(hit.Reasons), format.Currency(hit.Value))
}

// FormatAlerts lists every rule that is currently firing.
func FormatAlerts(hits []model.AlertHit) string {
	if len(hits) == 0 {
		return "🔕 Tetiklenen alarm yok"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔔 <b>Tetiklenen alarmlar</b> (%d)\n\n", len(hits)))
	for _, h := range hits {
		b.WriteString(fmt.Sprintf("• %s: %s\n", html.EscapeString(h.Name), ReasonText(h.Reasons)))
	}
	return b.String()
}

// FormatRefreshed announces a successful refresh.
func FormatRefreshed(positions int, at time.Time) string {
	return fmt.Sprintf("✅ Veriler güncellendi | %d pozisyon | %s", positions, at.Format("15:04:05"))
}

// HelpText lists the bot commands.
func HelpText() string {
	return "Kullanılabilir komutlar:\n• /ozet — portföy özeti\n• /alarmlar — tetiklenen alarmlar\n• /yenile — verileri şimdi yenile"
}
