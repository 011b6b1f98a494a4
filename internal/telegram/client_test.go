package telegram_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"philcali.me/recipebot/internal/bot"
	"philcali.me/recipebot/internal/telegram"
)

type Call struct {
	Method string
	Body   map[string]interface{}
}

func NewServer(t *testing.T, calls *[]Call) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		method := strings.TrimPrefix(r.URL.Path, "/botsecret-token/")
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		*calls = append(*calls, Call{Method: method, Body: body})
		if body["chat_id"] == float64(-1) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient(t *testing.T) {
	var calls []Call
	server := NewServer(t, &calls)
	client := telegram.NewClient(server.URL+"/", "secret-token", time.Second, zap.NewNop())
	ctx := context.TODO()

	t.Run("SendMessageReplyKeyboard", func(t *testing.T) {
		err := client.SendMessage(ctx, bot.Message{ChatId: 10, Text: "hi", Keyboard: bot.MainMenuKeyboard()})
		require.NoError(t, err)
		call := calls[len(calls)-1]
		assert.Equal(t, "sendMessage", call.Method)
		assert.Equal(t, "hi", call.Body["text"])
		assert.NotContains(t, call.Body, "parse_mode")
		markup := call.Body["reply_markup"].(map[string]interface{})
		assert.Equal(t, true, markup["resize_keyboard"])
		assert.Len(t, markup["keyboard"], 2)
	})

	t.Run("SendPhotoInlineKeyboard", func(t *testing.T) {
		err := client.SendPhoto(ctx, bot.Photo{
			ChatId:   10,
			Url:      "https://img/1.jpg",
			Caption:  "<b>x</b>",
			HTML:     true,
			Keyboard: bot.RecipeActionsKeyboard("1", false, 0),
		})
		require.NoError(t, err)
		call := calls[len(calls)-1]
		assert.Equal(t, "sendPhoto", call.Method)
		assert.Equal(t, "HTML", call.Body["parse_mode"])
		markup := call.Body["reply_markup"].(map[string]interface{})
		rows := markup["inline_keyboard"].([]interface{})
		first := rows[0].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "add_favorite_1", first["callback_data"])
	})

	t.Run("NoKeyboard", func(t *testing.T) {
		require.NoError(t, client.SendMessage(ctx, bot.Message{ChatId: 10, Text: "plain"}))
		assert.NotContains(t, calls[len(calls)-1].Body, "reply_markup")
	})

	t.Run("EditAndAnswer", func(t *testing.T) {
		require.NoError(t, client.EditMessage(ctx, bot.Message{ChatId: 10, MessageId: 5, Text: "edited"}))
		assert.Equal(t, "editMessageText", calls[len(calls)-1].Method)
		assert.Equal(t, float64(5), calls[len(calls)-1].Body["message_id"])

		require.NoError(t, client.EditMarkup(ctx, 10, 5, bot.FavoritesMenuKeyboard()))
		assert.Equal(t, "editMessageReplyMarkup", calls[len(calls)-1].Method)

		require.NoError(t, client.AnswerCallback(ctx, "cb-1", "done"))
		assert.Equal(t, "answerCallbackQuery", calls[len(calls)-1].Method)
		assert.Equal(t, "cb-1", calls[len(calls)-1].Body["callback_query_id"])
	})

	t.Run("APIError", func(t *testing.T) {
		err := client.SendMessage(ctx, bot.Message{ChatId: -1, Text: "nobody"})
		var apiErr *telegram.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.Equal(t, "sendMessage", apiErr.Method)
		assert.Contains(t, apiErr.Description, "chat not found")
	})
}

type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) HandleText(ctx context.Context, event bot.TextEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockHandler) HandleCallback(ctx context.Context, event bot.CallbackEvent) error {
	return m.Called(ctx, event).Error(0)
}

func TestDispatch(t *testing.T) {
	ctx := context.TODO()
	from := telegram.User{Id: 42, FirstName: "Alice", Username: "alice"}

	t.Run("Text", func(t *testing.T) {
		handler := &MockHandler{}
		handler.On("HandleText", ctx, bot.TextEvent{
			User:   bot.User{Id: 42, FirstName: "Alice", Username: "alice"},
			ChatId: 99,
			Text:   "/start",
		}).Return(nil)
		var update telegram.Update
		require.NoError(t, json.Unmarshal([]byte(`{
			"update_id": 1,
			"message": {"message_id": 3, "from": {"id": 42, "first_name": "Alice", "username": "alice"}, "chat": {"id": 99, "type": "private"}, "text": "/start"}
		}`), &update))
		handled, err := telegram.Dispatch(ctx, handler, update)
		require.NoError(t, err)
		assert.True(t, handled)
		handler.AssertExpectations(t)
	})

	t.Run("Callback", func(t *testing.T) {
		handler := &MockHandler{}
		handler.On("HandleCallback", ctx, bot.CallbackEvent{
			User:       telegram.ConvertUser(from),
			ChatId:     99,
			MessageId:  3,
			CallbackId: "cb",
			Data:       "my_recipes",
		}).Return(errors.New("send failed"))
		handled, err := telegram.Dispatch(ctx, handler, telegram.Update{
			CallbackQuery: &telegram.CallbackQuery{
				Id:      "cb",
				From:    from,
				Message: &telegram.Message{MessageId: 3, Chat: telegram.Chat{Id: 99}},
				Data:    "my_recipes",
			},
		})
		assert.True(t, handled)
		assert.EqualError(t, err, "send failed")
	})

	t.Run("Ignored", func(t *testing.T) {
		handler := &MockHandler{}
		handled, err := telegram.Dispatch(ctx, handler, telegram.Update{
			Message: &telegram.Message{From: &from, Chat: telegram.Chat{Id: 99}},
		})
		require.NoError(t, err)
		assert.False(t, handled)
		handler.AssertNotCalled(t, "HandleText", mock.Anything, mock.Anything)
	})
}
