package telegram

import (
	"context"

	"philcali.me/recipebot/internal/bot"
)

type Handler interface {
	HandleText(ctx context.Context, event bot.TextEvent) error
	HandleCallback(ctx context.Context, event bot.CallbackEvent) error
}

func ConvertUser(user User) bot.User {
	return bot.User{
		Id:        user.Id,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// Dispatch hands a decoded update to the handler. Updates carrying neither a
// text message nor a callback query are ignored and reported as not handled.
func Dispatch(ctx context.Context, handler Handler, update Update) (bool, error) {
	switch {
	case update.CallbackQuery != nil:
		query := update.CallbackQuery
		event := bot.CallbackEvent{
			User:       ConvertUser(query.From),
			CallbackId: query.Id,
			Data:       query.Data,
		}
		if query.Message != nil {
			event.ChatId = query.Message.Chat.Id
			event.MessageId = query.Message.MessageId
		} else {
			event.ChatId = query.From.Id
		}
		return true, handler.HandleCallback(ctx, event)
	case update.Message != nil && update.Message.Text != "" && update.Message.From != nil:
		return true, handler.HandleText(ctx, bot.TextEvent{
			User:   ConvertUser(*update.Message.From),
			ChatId: update.Message.Chat.Id,
			Text:   update.Message.Text,
		})
	}
	return false, nil
}
