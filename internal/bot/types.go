package bot

import (
	"context"

	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/presentation"
)

type Button struct {
	Text         string
	CallbackData string
}

// Keyboard is either an inline keyboard attached to a message or a
// persistent reply keyboard replacing the user's input keys.
type Keyboard struct {
	Inline [][]Button
	Reply  [][]string
}

type Message struct {
	ChatId    int64
	MessageId int64
	Text      string
	HTML      bool
	Keyboard  *Keyboard
}

type Photo struct {
	ChatId   int64
	Url      string
	Caption  string
	HTML     bool
	Keyboard *Keyboard
}

// Messenger is everything the controller needs from the chat transport.
type Messenger interface {
	SendMessage(ctx context.Context, message Message) error
	SendPhoto(ctx context.Context, photo Photo) error
	EditMessage(ctx context.Context, message Message) error
	EditMarkup(ctx context.Context, chatId int64, messageId int64, keyboard *Keyboard) error
	AnswerCallback(ctx context.Context, callbackId string, text string) error
}

type Presenter interface {
	Present(ctx context.Context, record data.RecipeRecord) presentation.Payload
}

type User struct {
	Id        int64
	Username  string
	FirstName string
	LastName  string
}

type TextEvent struct {
	User   User
	ChatId int64
	Text   string
}

type CallbackEvent struct {
	User       User
	ChatId     int64
	MessageId  int64
	CallbackId string
	Data       string
}
