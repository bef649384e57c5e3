package bot

import (
	"context"
)

const welcomeText = `Welcome to BoomerBot!

You will get an alert whenever a new prediction market is listed.
Every topic is enabled. Tap a topic below to mute or unmute it.

Use /settings to change topics later and /help for all commands.`

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	prefs, err := b.store.Get(ctx, chatID)
	if err != nil {
		b.log.Error("subscribe", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong, please try /start again later.")
		return
	}
	b.log.Info("subscriber started", "chat_id", chatID)
	b.replyWithKeyboard(chatID, welcomeText, TopicKeyboard(prefs))
}

func (b *Bot) handleSettings(ctx context.Context, chatID int64) {
	prefs, err := b.store.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load preferences", "chat_id", chatID, "error", err)
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}
	b.replyWithKeyboard(chatID, FormatSettings(prefs), TopicKeyboard(prefs))
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Commands:
/start — subscribe to new market alerts
/settings — choose which topics you are alerted about
/status — bot status
/help — this message

Topics: Politics, Crypto, Sports, Business, Science, Pop Culture, News, Other.`)
}

func (b *Bot) handleStatus(ctx context.Context, chatID int64) {
	subs, err := b.store.List(ctx)
	if err != nil {
		b.log.Error("list subscribers", "error", err)
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}
	tracked := 0
	if b.tracker != nil {
		tracked = b.tracker.Len()
	}
	recent := 0
	if b.recent != nil {
		recent = b.recent.Len()
	}
	b.reply(chatID, FormatStatus(len(subs), tracked, recent, b.interval, b.startedAt))
}
