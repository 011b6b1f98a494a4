package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"philcali.me/recipebot/internal/bot"
)

const (
	DEFAULT_API_URL = "https://api.telegram.org"
	PARSE_MODE_HTML = "HTML"
)

type APIError struct {
	Method      string
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s failed (%d): %s", e.Method, e.StatusCode, e.Description)
}

// Client speaks the Bot API over plain HTTPS JSON calls.
type Client struct {
	ApiUrl string
	Token  string
	Client *http.Client
	Logger *zap.Logger
}

func NewClient(apiUrl string, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if apiUrl == "" {
		apiUrl = DEFAULT_API_URL
	}
	return &Client{
		ApiUrl: strings.TrimSuffix(apiUrl, "/"),
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

func (c *Client) _call(ctx context.Context, method string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.ApiUrl, c.Token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	var response Response
	if err := json.Unmarshal(raw, &response); err != nil {
		return &APIError{Method: method, StatusCode: resp.StatusCode, Description: string(raw)}
	}
	if !response.Ok {
		return &APIError{Method: method, StatusCode: resp.StatusCode, Description: response.Description}
	}
	c.Logger.Debug("Telegram call succeeded", zap.String("method", method))
	return nil
}

func _parseMode(html bool) string {
	if html {
		return PARSE_MODE_HTML
	}
	return ""
}

func ConvertInline(keyboard *bot.Keyboard) *InlineKeyboardMarkup {
	if keyboard == nil || len(keyboard.Inline) == 0 {
		return nil
	}
	markup := &InlineKeyboardMarkup{InlineKeyboard: make([][]InlineKeyboardButton, 0, len(keyboard.Inline))}
	for _, row := range keyboard.Inline {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: button.Text, CallbackData: button.CallbackData})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}

// ConvertMarkup picks the reply keyboard when present, the inline one
// otherwise. A nil result leaves the message without markup.
func ConvertMarkup(keyboard *bot.Keyboard) interface{} {
	if keyboard == nil {
		return nil
	}
	if len(keyboard.Reply) > 0 {
		markup := &ReplyKeyboardMarkup{ResizeKeyboard: true}
		for _, row := range keyboard.Reply {
			buttons := make([]KeyboardButton, 0, len(row))
			for _, text := range row {
				buttons = append(buttons, KeyboardButton{Text: text})
			}
			markup.Keyboard = append(markup.Keyboard, buttons)
		}
		return markup
	}
	if inline := ConvertInline(keyboard); inline != nil {
		return inline
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, message bot.Message) error {
	return c._call(ctx, "sendMessage", SendMessageRequest{
		ChatId:      message.ChatId,
		Text:        message.Text,
		ParseMode:   _parseMode(message.HTML),
		ReplyMarkup: ConvertMarkup(message.Keyboard),
	})
}

func (c *Client) SendPhoto(ctx context.Context, photo bot.Photo) error {
	return c._call(ctx, "sendPhoto", SendPhotoRequest{
		ChatId:      photo.ChatId,
		Photo:       photo.Url,
		Caption:     photo.Caption,
		ParseMode:   _parseMode(photo.HTML),
		ReplyMarkup: ConvertMarkup(photo.Keyboard),
	})
}

func (c *Client) EditMessage(ctx context.Context, message bot.Message) error {
	return c._call(ctx, "editMessageText", EditMessageTextRequest{
		ChatId:      message.ChatId,
		MessageId:   message.MessageId,
		Text:        message.Text,
		ParseMode:   _parseMode(message.HTML),
		ReplyMarkup: ConvertInline(message.Keyboard),
	})
}

func (c *Client) EditMarkup(ctx context.Context, chatId int64, messageId int64, keyboard *bot.Keyboard) error {
	return c._call(ctx, "editMessageReplyMarkup", EditMessageReplyMarkupRequest{
		ChatId:      chatId,
		MessageId:   messageId,
		ReplyMarkup: ConvertInline(keyboard),
	})
}

func (c *Client) AnswerCallback(ctx context.Context, callbackId string, text string) error {
	return c._call(ctx, "answerCallbackQuery", AnswerCallbackQueryRequest{
		CallbackQueryId: callbackId,
		Text:            text,
	})
}
