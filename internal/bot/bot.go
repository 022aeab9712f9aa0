// Package bot is the Telegram transport. It routes commands and free-text
// expense messages to the services layer and answers in the single
// configured chat.
package bot

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vydaje/internal/core"
	"vydaje/internal/log"
	"vydaje/internal/services"
)

const updateTimeout = 30 // long-poll seconds

type Bot struct {
	api      *tgbotapi.BotAPI
	expenses *services.ExpenseService
	stats    *services.StatsService
	accessID int64
	currency string
}

func New(token string, accessID int64, expenses *services.ExpenseService, stats *services.StatsService, currency string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		expenses: expenses,
		stats:    stats,
		accessID: accessID,
		currency: currency,
	}, nil
}

// Run long-polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	updates := b.api.GetUpdatesChan(u)
	slog.InfoContext(ctx, "Bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("updates channel closed")
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat.ID != b.accessID {
		slog.WarnContext(ctx, "Ignoring message from unknown chat", log.FieldChatID, msg.Chat.ID)
		return
	}

	b.reply(ctx, msg.Chat.ID, b.dispatch(ctx, msg.Text))
}

// dispatch maps one inbound message to one reply text.
func (b *Bot) dispatch(ctx context.Context, text string) string {
	if id, ok := parseDeleteCommand(text); ok {
		if err := b.expenses.Delete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to delete expense", log.FieldExpenseID, id, log.FieldError, err)
			return storeErrorText
		}
		return deletedText
	}

	switch text {
	case "/start", "/help":
		return helpText

	case "/today":
		return b.statsReply(ctx, b.stats.Today)

	case "/month":
		return b.statsReply(ctx, b.stats.Month)

	case "/expenses":
		expenses, err := b.expenses.Recent(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list expenses", log.FieldError, err)
			return storeErrorText
		}
		return formatRecent(expenses, b.currency)

	case "/categories":
		categories, err := b.expenses.Categories(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list categories", log.FieldError, err)
			return storeErrorText
		}
		return formatCategories(categories)
	}

	return b.addExpense(ctx, text)
}

func (b *Bot) addExpense(ctx context.Context, text string) string {
	expense, err := b.expenses.AddExpense(ctx, text)
	if errors.Is(err, core.ErrNotExpenseMessage) {
		return core.FormatHint
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to add expense", log.FieldError, err)
		return storeErrorText
	}

	today, err := b.stats.Today(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load today statistics", log.FieldError, err)
		today = ""
	}

	return formatAdded(expense, today, b.currency)
}

func (b *Bot) statsReply(ctx context.Context, summary func(context.Context) (string, error)) string {
	text, err := summary(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compute statistics", log.FieldError, err)
		return storeErrorText
	}
	return text
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.ErrorContext(ctx, "Failed to send reply", log.FieldChatID, chatID, log.FieldError, err)
	}
}
