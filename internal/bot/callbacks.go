package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	_, topic, err := ParseCallbackData(cb.Data)
	if err != nil || cb.Message == nil || cb.Message.Chat == nil {
		b.log.Debug("ignored callback", "data", cb.Data, "error", err)
		b.answerCallback(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID

	prefs, err := b.store.Toggle(ctx, chatID, topic)
	if err != nil {
		b.log.Error("toggle topic", "chat_id", chatID, "topic", topic.Key(), "error", err)
		b.answerCallback(cb.ID, "Could not update, try again.")
		return
	}

	state := "off"
	if prefs.IsEnabled(topic) {
		state = "on"
	}

	b.log.Info("callback",
		"action", actionToggle,
		"topic", topic.Key(),
		"enabled", prefs.IsEnabled(topic),
		"chat_id", chatID,
		"user_id", userID(cb),
	)

	b.answerCallback(cb.ID, fmt.Sprintf("%s alerts %s", topic, state))
	b.editReplyControls(chatID, cb.Message.MessageID, TopicKeyboard(prefs))
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Error("send callback ack", "error", err)
	}
}

func (b *Bot) editReplyControls(chatID int64, messageID int, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, kb)
	if _, err := b.api.Request(edit); err != nil {
		b.log.Error("edit keyboard", "chat_id", chatID, "error", err)
	}
}

func userID(cb *tgbotapi.CallbackQuery) int64 {
	if cb.From == nil {
		return 0
	}
	return cb.From.ID
}
