package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/boomerok2001-cpu/boomerbot/internal/model"
)

const (
	markEnabled   = "✅"
	markDisabled  = "❌"
	buttonsPerRow = 2
)

// TopicKeyboard builds the inline toggle keyboard for p, two topics per row.
func TopicKeyboard(p model.Preferences) tgbotapi.InlineKeyboardMarkup {
	buttons := lo.Map(model.AllTopics(), func(t model.Topic, _ int) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(topicButtonLabel(p, t), ToggleData(t))
	})
	rows := lo.Map(lo.Chunk(buttons, buttonsPerRow), func(row []tgbotapi.InlineKeyboardButton, _ int) []tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardRow(row...)
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func topicButtonLabel(p model.Preferences, t model.Topic) string {
	mark := markDisabled
	if p.IsEnabled(t) {
		mark = markEnabled
	}
	return fmt.Sprintf("%s %s %s", mark, t.Icon(), t)
}

// FormatSettings lists the enabled and muted topics of p.
func FormatSettings(p model.Preferences) string {
	on, off := lo.FilterReject(model.AllTopics(), func(t model.Topic, _ int) bool {
		return p.IsEnabled(t)
	})

	var b strings.Builder
	b.WriteString("Your alert topics:\n")
	fmt.Fprintf(&b, "\nEnabled: %s", joinTopics(on))
	fmt.Fprintf(&b, "\nMuted: %s", joinTopics(off))
	b.WriteString("\n\nTap a topic to toggle it.")
	return b.String()
}

func joinTopics(ts []model.Topic) string {
	if len(ts) == 0 {
		return "none"
	}
	return strings.Join(lo.Map(ts, func(t model.Topic, _ int) string { return t.String() }), ", ")
}

// FormatStatus formats the /status reply.
func FormatStatus(subscribers, tracked, recent int, interval time.Duration, startedAt time.Time) string {
	var b strings.Builder
	b.WriteString("BoomerBot status\n\n")
	fmt.Fprintf(&b, "Subscribers: %d\n", subscribers)
	fmt.Fprintf(&b, "Tracked markets: %d\n", tracked)
	fmt.Fprintf(&b, "Recent alerts: %d\n", recent)
	if interval > 0 {
		fmt.Fprintf(&b, "Polling every %s\n", interval)
	}
	fmt.Fprintf(&b, "Up since %s", startedAt.UTC().Format("2006-01-02 15:04 UTC"))
	return b.String()
}
