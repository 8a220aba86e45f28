package telegram

import (
	"context"
	"errors"
	"strings"

	telegramout "cinemabot/internal/adapters/output/telegram"
	"cinemabot/internal/domain"
	"cinemabot/internal/ports/input"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Dispatcher struct - Primary/Driving adapter routing Telegram updates to the
// search service. Each update is handled on its own goroutine; the service's
// per-user locks keep one user's actions serialized.
type Dispatcher struct {
	bot         *tgbotapi.BotAPI
	service     input.SearchService
	pollTimeout int
}

// NewDispatcher func - Creates new Telegram update dispatcher
func NewDispatcher(bot *tgbotapi.BotAPI, service input.SearchService, pollTimeout int) *Dispatcher {
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Dispatcher{
		bot:         bot,
		service:     service,
		pollTimeout: pollTimeout,
	}
}

// Run func - Long-polls Telegram for updates until the context is cancelled
func (d *Dispatcher) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = d.pollTimeout
	updates := d.bot.GetUpdatesChan(u)

	logrus.Infof("Telegram dispatcher started, long polling as @%s", d.bot.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			d.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go d.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate func - Routes one update; also the entry point for webhook delivery
func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		d.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	}
}

// handleMessage - Routes commands and free text. Plain text is a numeric
// selection while the session awaits one, otherwise a fresh search query.
func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	var err error
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			err = d.service.HandleStart(ctx, userID, chatID, msg.From.FirstName)
		case "help":
			err = d.service.HandleHelp(ctx, userID, chatID)
		case "history":
			err = d.service.HandleHistory(ctx, userID, chatID)
		case "stats":
			err = d.service.HandleStats(ctx, userID, chatID)
		case "clear_data":
			err = d.service.HandleClearData(ctx, userID, chatID)
		default:
			logrus.Infof("Unhandled command %q from user %d", msg.Command(), userID)
		}
	} else {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			return
		}
		err = d.service.HandleText(ctx, userID, chatID, text)
	}

	if err != nil {
		logrus.Errorf("Failed to handle message from user %d: %v", userID, err)
	}
}

// handleCallback - Routes inline keyboard taps to navigation actions
func (d *Dispatcher) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	userID := cq.From.ID

	action, ok := actionFromCallback(cq.Data)
	if !ok {
		logrus.Infof("Unhandled callback data %q from user %d", cq.Data, userID)
		d.answerCallback(cq.ID, "", false)
		return
	}

	err := d.service.HandleAction(ctx, userID, action)
	switch {
	case errors.Is(err, domain.ErrStaleSession):
		d.answerCallback(cq.ID, "Сделай новый поиск!", true)
	case err != nil:
		logrus.Errorf("Failed to handle action %q from user %d: %v", action, userID, err)
		d.answerCallback(cq.ID, "", false)
	case action == domain.ActionReject:
		d.answerCallback(cq.ID, "Выберите другой номер", false)
	default:
		d.answerCallback(cq.ID, "", false)
	}
}

// answerCallback acks a callback query; failures only get logged
func (d *Dispatcher) answerCallback(id, text string, alert bool) {
	var callback tgbotapi.CallbackConfig
	if alert {
		callback = tgbotapi.NewCallbackWithAlert(id, text)
	} else {
		callback = tgbotapi.NewCallback(id, text)
	}
	if _, err := d.bot.Request(callback); err != nil {
		logrus.Debugf("Failed to answer callback %s: %v", id, err)
	}
}

// actionFromCallback maps the presenter's callback data to a navigation action
func actionFromCallback(data string) (domain.NavAction, bool) {
	switch data {
	case telegramout.CallbackPrev:
		return domain.ActionPrev, true
	case telegramout.CallbackNext:
		return domain.ActionNext, true
	case telegramout.CallbackList:
		return domain.ActionOpenList, true
	case telegramout.CallbackCloseList:
		return domain.ActionCloseList, true
	case telegramout.CallbackYes:
		return domain.ActionConfirm, true
	case telegramout.CallbackNo:
		return domain.ActionReject, true
	}
	return "", false
}

// RegisterCommands func - Publishes the bot command menu. Runs during wiring
// so both the long-poll and webhook transports get the menu.
func (d *Dispatcher) RegisterCommands() {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Перезапустить бота"},
		tgbotapi.BotCommand{Command: "help", Description: "Помощь и инструкции"},
		tgbotapi.BotCommand{Command: "history", Description: "История ваших поисков"},
		tgbotapi.BotCommand{Command: "stats", Description: "Статистика выбранных фильмов"},
		tgbotapi.BotCommand{Command: "clear_data", Description: "Очистить историю и статистику"},
	)
	if _, err := d.bot.Request(commands); err != nil {
		logrus.Warnf("Failed to register bot commands: %v", err)
	}
}
