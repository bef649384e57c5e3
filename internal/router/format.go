package router

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

const (
	descriptionPreview = 120
	maxHashtags        = 3
	trendingVolume     = 10000
	trendingWindow     = time.Hour
	separator          = "━━━━━━━━━━━━━━"
)

// Link returns the canonical view URL for m. Feed-provided links win,
// then the slug under baseURL, then baseURL itself.
func Link(m model.Market, baseURL string) string {
	if m.Link != "" {
		return m.Link
	}
	base := strings.TrimRight(baseURL, "/")
	if m.Slug != "" {
		return base + "/event/" + m.Slug
	}
	return base
}

// IsTrending reports whether a listing gathered high volume within its first hour.
func IsTrending(m model.Market, now time.Time) bool {
	if m.CreatedAt == nil || m.Volume <= trendingVolume {
		return false
	}
	return now.Sub(*m.CreatedAt) < trendingWindow
}

// FormatAlert renders the Telegram HTML body announcing m under topic t.
func FormatAlert(m model.Market, t model.Topic, baseURL string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s <b>NEW MARKET</b> - %s", t.Icon(), escape(t.String()))
	if IsTrending(m, now) {
		b.WriteString(" | 🔥 <b>TRENDING</b>")
	}
	b.WriteString("\n" + separator + "\n\n")
	fmt.Fprintf(&b, "📊 <b>%s</b>\n\n", escape(m.DisplayText()))

	if desc := preview(m.Description); desc != "" {
		fmt.Fprintf(&b, "<i>%s</i>\n\n", escape(desc))
	}

	if m.Volume > 0 || m.Liquidity > 0 {
		fmt.Fprintf(&b, "💰 <b>Vol</b>: $%s   💧 <b>Liq</b>: $%s\n", money(m.Volume), money(m.Liquidity))
	}
	if len(m.OutcomePrices) >= 2 {
		fmt.Fprintf(&b, "📈 <b>Yes</b>: %.1f%% | <b>No</b>: %.1f%%\n",
			m.OutcomePrices[0]*100, m.OutcomePrices[1]*100)
	}
	if m.CreatedAt != nil {
		fmt.Fprintf(&b, "⏰ <b>Added</b>: %s\n", humanize.RelTime(*m.CreatedAt, now, "ago", "from now"))
	}
	if m.EndDate != nil {
		fmt.Fprintf(&b, "🏁 <b>Ends</b>: %s\n", m.EndDate.Format("Jan 02"))
	}

	if tags := hashtags(m.Tags); len(tags) > 0 {
		fmt.Fprintf(&b, "\n🏷️ %s\n", escape(strings.Join(tags, " ")))
	}

	fmt.Fprintf(&b, "\n🔗 <a href=\"%s\">Trade Now</a>", html.EscapeString(Link(m, baseURL)))
	return b.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func money(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func preview(desc string) string {
	clean := strings.TrimSpace(strings.Join(strings.Fields(desc), " "))
	if utf8.RuneCountInString(clean) <= 10 {
		return ""
	}
	runes := []rune(clean)
	if len(runes) > descriptionPreview {
		return string(runes[:descriptionPreview]) + "..."
	}
	return clean
}

func hashtags(tags []string) []string {
	labels := lo.Uniq(lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		label := strings.ReplaceAll(strings.TrimSpace(tag), " ", "")
		return label, label != ""
	}))
	labels = lo.Subset(labels, 0, maxHashtags)
	return lo.Map(labels, func(label string, _ int) string {
		return "#" + label
	})
}
