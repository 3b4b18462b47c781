package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockPulse/internal/model"
	"StockPulse/internal/presenter"
)

// FormatAlert formats an alert as a Telegram message.
func FormatAlert(alert model.Alert) string {
	if alert.Symbol == "" {
		return html.EscapeString(alert.Message)
	}
	return fmt.Sprintf("<b>%s</b> | %s", html.EscapeString(alert.Symbol), html.EscapeString(alert.Message))
}

// FormatQuote formats a view model as a Telegram quote reply.
func FormatQuote(v presenter.View) string {
	var b strings.Builder
	if v.Banner != "" {
		b.WriteString(html.EscapeString(v.Banner) + "\n\n")
	}
	if v.Snapshot == nil {
		b.WriteString("❌ " + presenter.ErrorMessage)
		return b.String()
	}

	b.WriteString(fmt.Sprintf("📊 <b>%s</b>\n\n", html.EscapeString(v.Snapshot.Symbol)))
	for _, m := range v.Metrics {
		b.WriteString(fmt.Sprintf("%s: %s\n", m.Label, m.Value))
	}
	b.WriteString(fmt.Sprintf("\n%s <b>%s</b>\n", badgeIcon(v.Badge), html.EscapeString(v.Suggestion)))
	if v.Reason != "" {
		b.WriteString(fmt.Sprintf("<i>%s</i>\n", html.EscapeString(v.Reason)))
	}
	if v.Chart != nil {
		parts := make([]string, 0, len(v.Chart.Points))
		for _, p := range v.Chart.Points {
			parts = append(parts, fmt.Sprintf("%s %.2f", p.Label, p.Value))
		}
		b.WriteString("\n📈 " + strings.Join(parts, " → ") + "\n")
	}
	if len(v.News) > 0 {
		b.WriteString("\n📢 <b>Latest News</b>\n")
		for _, n := range v.News {
			b.WriteString(fmt.Sprintf("• <a href=\"%s\">%s</a>\n", html.EscapeString(n.Link), html.EscapeString(n.Title)))
		}
	}
	return b.String()
}

// FormatSession formats the session status for the /session command.
func FormatSession(status model.SessionStatus, banner string) string {
	if status.Open {
		return "🟢 Market is open. Closes at 3:15 PM"
	}
	return html.EscapeString(banner)
}

// FormatTrending lists the quick-select symbols.
func FormatTrending(symbols []string) string {
	var b strings.Builder
	b.WriteString("🔥 <b>Trending Stocks</b>\n")
	for _, s := range symbols {
		b.WriteString("• /quote " + html.EscapeString(s) + "\n")
	}
	return b.String()
}

func badgeIcon(badge presenter.BadgeCategory) string {
	switch badge {
	case presenter.BadgePositive:
		return "🟢"
	case presenter.BadgeAlert:
		return "🔴"
	default:
		return "🟡"
	}
}
