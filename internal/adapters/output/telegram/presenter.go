package telegram

import (
	"cinemabot/internal/domain"
	"cinemabot/internal/ports/output"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure Presenter implements the output port
var _ output.Presenter = (*Presenter)(nil)

// Callback data understood by the input dispatcher
const (
	CallbackPrev      = "nav:prev"
	CallbackNext      = "nav:next"
	CallbackList      = "nav:list"
	CallbackCloseList = "nav:close_list"
	CallbackYes       = "confirm:yes"
	CallbackNo        = "confirm:no"
)

// Presenter struct - Output adapter rendering views through the Telegram Bot API
type Presenter struct {
	bot *tgbotapi.BotAPI
}

// NewPresenter func - Creates new Telegram presenter adapter
func NewPresenter(bot *tgbotapi.BotAPI) *Presenter {
	return &Presenter{
		bot: bot,
	}
}

// ShowRecord - Renders the primary record view. An existing message is edited
// in place; when the edit fails the message is deleted best-effort and the
// view is sent fresh.
func (a *Presenter) ShowRecord(chatID int64, current *domain.ViewRef, view domain.RecordView) (*domain.ViewRef, error) {
	keyboard := recordKeyboard(view.Controls)

	if current != nil {
		if err := a.edit(*current, view.PosterURL, view.Caption, &keyboard); err == nil {
			return current, nil
		} else {
			logrus.Warnf("In-place record edit failed, recreating: %v", err)
			a.Delete(*current)
		}
	}

	return a.send(chatID, view.PosterURL, view.Caption, &keyboard)
}

// ShowList - Renders the numbered variant list with a single close control
func (a *Presenter) ShowList(chatID int64, view domain.ListView) (*domain.ViewRef, error) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Закрыть", CallbackCloseList),
		),
	)

	msg := tgbotapi.NewMessage(chatID, view.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard

	sent, err := a.bot.Send(msg)
	if err != nil {
		return nil, err
	}
	return &domain.ViewRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// ShowConfirm - Renders a tentative selection with accept/reject controls
func (a *Presenter) ShowConfirm(chatID int64, view domain.ConfirmView) (*domain.ViewRef, error) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да, тот!", CallbackYes),
			tgbotapi.NewInlineKeyboardButtonData("❌ Нет, другой", CallbackNo),
		),
	)
	return a.send(chatID, view.PosterURL, view.Caption, &keyboard)
}

// ShowFrozen - Strips a superseded session's record view down to the watch
// link. On edit failure the stale message is deleted best-effort.
func (a *Presenter) ShowFrozen(ref domain.ViewRef, view domain.FrozenView) error {
	var keyboard *tgbotapi.InlineKeyboardMarkup
	if view.WatchLink != "" {
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🎬 Смотреть онлайн", view.WatchLink),
			),
		)
		keyboard = &kb
	}

	if err := a.edit(ref, view.PosterURL, view.Caption, keyboard); err != nil {
		logrus.Warnf("Freezing record view failed, deleting: %v", err)
		a.Delete(ref)
	}
	return nil
}

// Notify - Sends a plain text notice
func (a *Presenter) Notify(chatID int64, text string) (*domain.ViewRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	sent, err := a.bot.Send(msg)
	if err != nil {
		return nil, err
	}
	return &domain.ViewRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// Delete - Removes a rendered message. Failures are logged and swallowed.
func (a *Presenter) Delete(ref domain.ViewRef) {
	if _, err := a.bot.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
		logrus.Debugf("Delete of message %d in chat %d failed: %v", ref.MessageID, ref.ChatID, err)
	}
}

// edit updates a displayed message in place. A record with a poster is edited
// as media; one without falls back to a text edit. A media/text mismatch with
// the existing message fails here and is absorbed by the recreate fallback.
func (a *Presenter) edit(ref domain.ViewRef, posterURL, caption string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	if posterURL != "" {
		media := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(posterURL))
		media.Caption = caption
		media.ParseMode = tgbotapi.ModeHTML

		edit := tgbotapi.EditMessageMediaConfig{
			BaseEdit: tgbotapi.BaseEdit{
				ChatID:      ref.ChatID,
				MessageID:   ref.MessageID,
				ReplyMarkup: keyboard,
			},
			Media: media,
		}
		_, err := a.bot.Request(edit)
		return err
	}

	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, caption)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = keyboard
	_, err := a.bot.Request(edit)
	return err
}

// send delivers a view as a fresh photo or text message
func (a *Presenter) send(chatID int64, posterURL, caption string, keyboard *tgbotapi.InlineKeyboardMarkup) (*domain.ViewRef, error) {
	var (
		sent tgbotapi.Message
		err  error
	)

	if posterURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(posterURL))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeHTML
		if keyboard != nil {
			photo.ReplyMarkup = *keyboard
		}
		sent, err = a.bot.Send(photo)
	} else {
		msg := tgbotapi.NewMessage(chatID, caption)
		msg.ParseMode = tgbotapi.ModeHTML
		if keyboard != nil {
			msg.ReplyMarkup = *keyboard
		}
		sent, err = a.bot.Send(msg)
	}

	if err != nil {
		return nil, err
	}
	return &domain.ViewRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// recordKeyboard derives the inline keyboard from the enabled control set
func recordKeyboard(controls domain.ControlSet) tgbotapi.InlineKeyboardMarkup {
	var navRow []tgbotapi.InlineKeyboardButton
	if controls.Prev {
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", CallbackPrev))
	}
	if controls.WatchLink != "" {
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonURL("🎬 Смотреть онлайн", controls.WatchLink))
	}
	if controls.Next {
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData("➡️ Далее", CallbackNext))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{navRow}
	if controls.List {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Все варианты", CallbackList),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
