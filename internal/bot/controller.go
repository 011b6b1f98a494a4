package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/exceptions"
	"philcali.me/recipebot/internal/presentation"
	"philcali.me/recipebot/internal/provider"
	"philcali.me/recipebot/internal/sessions"
)

const (
	CAPTION_LIMIT               = 1024
	DEFAULT_SEARCH_LIMIT        = 5
	DEFAULT_RANDOM_COUNT        = 3
	DEFAULT_FILTER_DETAIL_LIMIT = 5
	COMMAND_START               = "/start"
)

// Controller routes chat events to the recipe source, the favorites store
// and the presentation builder. Per user state lives in the session that is
// loaded at the start of every event and saved at the end.
type Controller struct {
	Recipes           provider.RecipeProvider
	Favorites         data.FavoritesStore
	Presenter         Presenter
	Videos            presentation.VideoSearcher
	Sessions          sessions.Store
	Messenger         Messenger
	Logger            *zap.Logger
	SearchLimit       int
	RandomCount       int
	FilterDetailLimit int
}

func NewController(
	recipes provider.RecipeProvider,
	favorites data.FavoritesStore,
	videos presentation.VideoSearcher,
	store sessions.Store,
	messenger Messenger,
	logger *zap.Logger) *Controller {
	return &Controller{
		Recipes:           recipes,
		Favorites:         favorites,
		Presenter:         presentation.NewBuilder(videos),
		Videos:            videos,
		Sessions:          store,
		Messenger:         messenger,
		Logger:            logger,
		SearchLimit:       DEFAULT_SEARCH_LIMIT,
		RandomCount:       DEFAULT_RANDOM_COUNT,
		FilterDetailLimit: DEFAULT_FILTER_DETAIL_LIMIT,
	}
}

func _userId(user User) string {
	return strconv.FormatInt(user.Id, 10)
}

func (c *Controller) _session(ctx context.Context, user User, chatId int64) (*sessions.Session, error) {
	return c.Sessions.Get(ctx, _userId(user), chatId)
}

func (c *Controller) _save(ctx context.Context, session *sessions.Session) {
	if err := c.Sessions.Save(ctx, session); err != nil {
		c.Logger.Error("Failed to save session", zap.String("userId", session.UserId), zap.Error(err))
	}
}

func (c *Controller) _send(ctx context.Context, chatId int64, text string, html bool, keyboard *Keyboard) error {
	return c.Messenger.SendMessage(ctx, Message{
		ChatId:   chatId,
		Text:     text,
		HTML:     html,
		Keyboard: keyboard,
	})
}

// _show replaces the callback's message when possible. Photo messages
// cannot be edited into text, so a failed edit falls back to a new message.
func (c *Controller) _show(ctx context.Context, event CallbackEvent, text string, html bool, keyboard *Keyboard) error {
	err := c.Messenger.EditMessage(ctx, Message{
		ChatId:    event.ChatId,
		MessageId: event.MessageId,
		Text:      text,
		HTML:      html,
		Keyboard:  keyboard,
	})
	if err == nil {
		return nil
	}
	c.Logger.Debug("Edit failed, sending a new message", zap.Int64("chatId", event.ChatId), zap.Error(err))
	return c._send(ctx, event.ChatId, text, html, keyboard)
}

func (c *Controller) _sourceFailure(err error) string {
	var unavailable *exceptions.SourceUnavailableError
	if errors.As(err, &unavailable) {
		c.Logger.Warn("Recipe source unavailable", zap.String("resource", unavailable.Resource), zap.Error(unavailable.Cause))
		return MSG_SOURCE_UNAVAILABLE
	}
	c.Logger.Error("Recipe source failed", zap.Error(err))
	return MSG_SOMETHING_WENT_WRONG
}

func (c *Controller) HandleText(ctx context.Context, event TextEvent) error {
	session, err := c._session(ctx, event.User, event.ChatId)
	if err != nil {
		return err
	}
	defer c._save(ctx, session)
	text := strings.TrimSpace(event.Text)
	switch {
	case text == COMMAND_START || strings.HasPrefix(text, COMMAND_START+" "):
		return c.Start(ctx, session, event.User)
	case text == BUTTON_SEARCH:
		session.Transition(sessions.StateSearchOptions)
		return c._send(ctx, event.ChatId, MSG_SEARCH_OPTIONS, true, SearchOptionsKeyboard())
	case text == BUTTON_FAVORITES:
		return c.ShowFavorites(ctx, session, nil)
	case session.State == sessions.StateSearchOptions || session.State == sessions.StateWaitingForSearch:
		return c.Search(ctx, session, text)
	}
	return c._send(ctx, event.ChatId, MSG_USE_MENU, false, MainMenuKeyboard())
}

// Start lazily registers the user and greets them with the main menu.
func (c *Controller) Start(ctx context.Context, session *sessions.Session, user User) error {
	err := c.Favorites.AddUser(ctx, data.UserInput{
		UserId:    _userId(user),
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		c.Logger.Error("Failed to register user", zap.String("userId", session.UserId), zap.Error(err))
	}
	session.Transition(sessions.StateMain)
	return c._send(ctx, session.ChatId, WelcomeMessage(user.FirstName), false, MainMenuKeyboard())
}

func (c *Controller) Search(ctx context.Context, session *sessions.Session, query string) error {
	if err := c._send(ctx, session.ChatId, MSG_SEARCHING, false, nil); err != nil {
		return err
	}
	records, err := c.Recipes.Search(ctx, query, c.SearchLimit)
	if err != nil {
		return c._send(ctx, session.ChatId, c._sourceFailure(err), false, nil)
	}
	if len(records) == 0 {
		session.Transition(sessions.StateWaitingForSearch)
		return c._send(ctx, session.ChatId, MSG_NO_RECIPES, false, MainMenuKeyboard())
	}
	session.Transition(sessions.StateSearchResults)
	return c.SendRecipes(ctx, session, records)
}

func (c *Controller) _favoriteState(ctx context.Context, userId string, recipeId string) (bool, int) {
	isFavorite, err := c.Favorites.IsFavorite(ctx, userId, recipeId)
	if err != nil {
		c.Logger.Warn("Failed to read favorite", zap.String("userId", userId), zap.String("recipeId", recipeId), zap.Error(err))
		return false, 0
	}
	if !isFavorite {
		return false, 0
	}
	rating, err := c.Favorites.GetRating(ctx, userId, recipeId)
	if err != nil {
		c.Logger.Warn("Failed to read rating", zap.String("userId", userId), zap.String("recipeId", recipeId), zap.Error(err))
	}
	return true, rating
}

// SendRecipes posts one card per record. A card with an image is a photo;
// bodies that do not fit in a caption follow the photo as their own message.
func (c *Controller) SendRecipes(ctx context.Context, session *sessions.Session, records []data.RecipeRecord) error {
	for _, record := range records {
		payload := c.Presenter.Present(ctx, record)
		isFavorite, rating := c._favoriteState(ctx, session.UserId, payload.RecipeId)
		keyboard := RecipeActionsKeyboard(payload.RecipeId, isFavorite, rating)
		var err error
		switch {
		case payload.ImageUrl == "":
			err = c._send(ctx, session.ChatId, payload.BodyText, true, keyboard)
		case utf8.RuneCountInString(payload.BodyText) <= CAPTION_LIMIT:
			err = c.Messenger.SendPhoto(ctx, Photo{
				ChatId:   session.ChatId,
				Url:      payload.ImageUrl,
				Caption:  payload.BodyText,
				HTML:     true,
				Keyboard: keyboard,
			})
		default:
			err = c.Messenger.SendPhoto(ctx, Photo{
				ChatId: session.ChatId,
				Url:    payload.ImageUrl,
			})
			if err == nil {
				err = c._send(ctx, session.ChatId, payload.BodyText, true, keyboard)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) ShowFavorites(ctx context.Context, session *sessions.Session, event *CallbackEvent) error {
	session.Transition(sessions.StateFavorites)
	text := MSG_NO_FAVORITES
	entries, err := c.Favorites.ListFavorites(ctx, session.UserId)
	if err != nil {
		c.Logger.Error("Failed to list favorites", zap.String("userId", session.UserId), zap.Error(err))
		text = MSG_SOMETHING_WENT_WRONG
	} else if len(entries) > 0 {
		text = FavoritesMessage(entries)
	}
	if event != nil {
		return c._show(ctx, *event, text, true, FavoritesMenuKeyboard())
	}
	return c._send(ctx, session.ChatId, text, true, FavoritesMenuKeyboard())
}

func (c *Controller) HandleCallback(ctx context.Context, event CallbackEvent) error {
	session, err := c._session(ctx, event.User, event.ChatId)
	if err != nil {
		return err
	}
	defer c._save(ctx, session)
	payload := event.Data
	switch {
	case strings.HasPrefix(payload, PREFIX_ADD_FAVORITE):
		return c.AddFavorite(ctx, session, event, strings.TrimPrefix(payload, PREFIX_ADD_FAVORITE))
	case strings.HasPrefix(payload, PREFIX_REMOVE_FAVORITE):
		return c.RemoveFavorite(ctx, session, event, strings.TrimPrefix(payload, PREFIX_REMOVE_FAVORITE))
	case strings.HasPrefix(payload, PREFIX_RATE):
		recipeId, rating, err := ParseRating(strings.TrimPrefix(payload, PREFIX_RATE))
		if err != nil {
			c.Logger.Warn("Malformed rating callback", zap.String("data", payload), zap.Error(err))
			return c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_RATING_FAILED)
		}
		return c.Rate(ctx, session, event, recipeId, rating)
	case strings.HasPrefix(payload, PREFIX_MORE_VIDEOS):
		return c.MoreVideos(ctx, session, event, strings.TrimPrefix(payload, PREFIX_MORE_VIDEOS))
	}
	if err := c.Messenger.AnswerCallback(ctx, event.CallbackId, ""); err != nil {
		c.Logger.Debug("Failed to answer callback", zap.String("callbackId", event.CallbackId), zap.Error(err))
	}
	switch {
	case payload == CALLBACK_SEARCH_RECIPES || payload == CALLBACK_BACK_TO_SEARCH:
		session.Transition(sessions.StateSearchOptions)
		return c._show(ctx, event, MSG_SEARCH_OPTIONS, true, SearchOptionsKeyboard())
	case payload == CALLBACK_MY_RECIPES || payload == CALLBACK_BACK_TO_FAVORITES:
		return c.ShowFavorites(ctx, session, &event)
	case payload == CALLBACK_BACK_TO_MAIN:
		session.Transition(sessions.StateMain)
		return c._show(ctx, event, MSG_MAIN_MENU, false, InlineMainMenuKeyboard())
	case payload == CALLBACK_RANDOM_RECIPES:
		return c.RandomRecipes(ctx, session, event)
	case payload == CALLBACK_SEARCH_BY_CATEGORY:
		return c.ShowLabels(ctx, event, MSG_LOADING_CATEGORIES, MSG_CHOOSE_CATEGORY, MSG_NO_CATEGORIES, PREFIX_CATEGORY, c.Recipes.Categories)
	case payload == CALLBACK_SEARCH_BY_AREA:
		return c.ShowLabels(ctx, event, MSG_LOADING_AREAS, MSG_CHOOSE_AREA, MSG_NO_AREAS, PREFIX_AREA, c.Recipes.Areas)
	case strings.HasPrefix(payload, PREFIX_CATEGORY):
		category := strings.TrimPrefix(payload, PREFIX_CATEGORY)
		return c.FilterRecipes(ctx, session, event, SearchingCategoryMessage(category), MSG_CATEGORY_EMPTY, func(ctx context.Context) ([]data.RecipeStub, error) {
			return c.Recipes.SearchByCategory(ctx, category)
		})
	case strings.HasPrefix(payload, PREFIX_AREA):
		area := strings.TrimPrefix(payload, PREFIX_AREA)
		return c.FilterRecipes(ctx, session, event, SearchingAreaMessage(area), MSG_AREA_EMPTY, func(ctx context.Context) ([]data.RecipeStub, error) {
			return c.Recipes.SearchByArea(ctx, area)
		})
	}
	c.Logger.Debug("Ignoring unknown callback", zap.String("data", payload))
	return nil
}

// ParseRating splits "<recipeId>_<n>" on the last underscore.
func ParseRating(payload string) (string, int, error) {
	index := strings.LastIndex(payload, "_")
	if index <= 0 {
		return "", 0, fmt.Errorf("expected <recipeId>_<rating>, got %q", payload)
	}
	rating, err := strconv.Atoi(payload[index+1:])
	if err != nil {
		return "", 0, err
	}
	return payload[:index], rating, nil
}

func (c *Controller) AddFavorite(ctx context.Context, session *sessions.Session, event CallbackEvent, recipeId string) error {
	record, err := c.Recipes.Lookup(ctx, recipeId)
	if err != nil {
		c.Logger.Warn("Failed to look up recipe", zap.String("recipeId", recipeId), zap.Error(err))
		return c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_RECIPE_FAILED)
	}
	result, err := c.Favorites.AddFavorite(ctx, session.UserId, data.FavoriteInput{
		RecipeId:  record.Id,
		Title:     record.Title,
		ImageUrl:  record.ImageUrl,
		SourceUrl: record.SourceUrl,
	})
	if err != nil {
		c.Logger.Error("Failed to add favorite", zap.String("userId", session.UserId), zap.String("recipeId", recipeId), zap.Error(err))
		return c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_SOMETHING_WENT_WRONG)
	}
	answer, rating := MSG_ADDED, 0
	if result == data.AlreadyExists {
		answer = MSG_ALREADY_SAVED
		if rating, err = c.Favorites.GetRating(ctx, session.UserId, recipeId); err != nil {
			c.Logger.Warn("Failed to read rating", zap.String("recipeId", recipeId), zap.Error(err))
		}
	}
	if err := c.Messenger.AnswerCallback(ctx, event.CallbackId, answer); err != nil {
		return err
	}
	return c.Messenger.EditMarkup(ctx, event.ChatId, event.MessageId, RecipeActionsKeyboard(recipeId, true, rating))
}

func (c *Controller) RemoveFavorite(ctx context.Context, session *sessions.Session, event CallbackEvent, recipeId string) error {
	removed, err := c.Favorites.RemoveFavorite(ctx, session.UserId, recipeId)
	if err != nil {
		c.Logger.Error("Failed to remove favorite", zap.String("userId", session.UserId), zap.String("recipeId", recipeId), zap.Error(err))
		return c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_SOMETHING_WENT_WRONG)
	}
	if !removed {
		return c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_NOT_IN_FAVORITES)
	}
	if err := c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_REMOVED); err != nil {
		return err
	}
	return c.Messenger.EditMarkup(ctx, event.ChatId, event.MessageId, RecipeActionsKeyboard(recipeId, false, 0))
}

func (c *Controller) Rate(ctx context.Context, session *sessions.Session, event CallbackEvent, recipeId string, rating int) error {
	err := c.Favorites.SetRating(ctx, session.UserId, recipeId, rating)
	if err != nil {
		var notFavorited *exceptions.NotFavoritedError
		if errors.As(err, &notFavorited) {
			return c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_FAVORITE_FIRST)
		}
		c.Logger.Error("Failed to set rating", zap.String("userId", session.UserId), zap.String("recipeId", recipeId), zap.Error(err))
		return c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_RATING_FAILED)
	}
	if err := c.Messenger.AnswerCallback(ctx, event.CallbackId, RatedMessage(rating)); err != nil {
		return err
	}
	return c.Messenger.EditMarkup(ctx, event.ChatId, event.MessageId, RecipeActionsKeyboard(recipeId, true, rating))
}

// MoreVideos lists every aggregated video for the recipe in a new message.
func (c *Controller) MoreVideos(ctx context.Context, session *sessions.Session, event CallbackEvent, recipeId string) error {
	record, err := c.Recipes.Lookup(ctx, recipeId)
	if err != nil {
		c.Logger.Warn("Failed to look up recipe", zap.String("recipeId", recipeId), zap.Error(err))
		return c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_RECIPE_FAILED)
	}
	if err := c.Messenger.AnswerCallback(ctx, event.CallbackId, MSG_VIDEOS_SEARCHING); err != nil {
		c.Logger.Debug("Failed to answer callback", zap.String("callbackId", event.CallbackId), zap.Error(err))
	}
	title := record.Title
	if title == "" {
		title = presentation.DEFAULT_TITLE
	}
	videos := c.Videos.SearchAll(ctx, title)
	isFavorite, rating := c._favoriteState(ctx, session.UserId, recipeId)
	return c._send(ctx, event.ChatId, presentation.FormatVideoList(title, videos), true, RecipeActionsKeyboard(recipeId, isFavorite, rating))
}

func (c *Controller) RandomRecipes(ctx context.Context, session *sessions.Session, event CallbackEvent) error {
	session.Transition(sessions.StateSearchResults)
	if err := c._show(ctx, event, MSG_RANDOM_SEARCHING, false, nil); err != nil {
		return err
	}
	records, err := c.Recipes.Random(ctx, c.RandomCount)
	if err != nil {
		return c._show(ctx, event, c._sourceFailure(err), false, nil)
	}
	if len(records) == 0 {
		return c._show(ctx, event, MSG_RANDOM_EMPTY, false, nil)
	}
	return c.SendRecipes(ctx, session, records)
}

func (c *Controller) ShowLabels(
	ctx context.Context,
	event CallbackEvent,
	loading string,
	choose string,
	empty string,
	prefix string,
	fetch func(context.Context) ([]string, error)) error {
	if err := c._show(ctx, event, loading, false, nil); err != nil {
		return err
	}
	labels, err := fetch(ctx)
	if err != nil {
		return c._show(ctx, event, c._sourceFailure(err), false, nil)
	}
	if len(labels) == 0 {
		return c._show(ctx, event, empty, false, LabelsKeyboard(prefix, nil))
	}
	return c._show(ctx, event, choose, true, LabelsKeyboard(prefix, labels))
}

// ResolveStubs fetches full details for the first FilterDetailLimit stubs,
// one at a time. Stubs whose lookup fails are dropped.
func (c *Controller) ResolveStubs(ctx context.Context, stubs []data.RecipeStub) []data.RecipeRecord {
	limit := c.FilterDetailLimit
	if limit <= 0 || limit > len(stubs) {
		limit = len(stubs)
	}
	records := make([]data.RecipeRecord, 0, limit)
	for _, stub := range stubs[:limit] {
		record, err := c.Recipes.Lookup(ctx, stub.Id)
		if err != nil {
			c.Logger.Warn("Dropping recipe without details", zap.String("recipeId", stub.Id), zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records
}

func (c *Controller) FilterRecipes(
	ctx context.Context,
	session *sessions.Session,
	event CallbackEvent,
	searching string,
	empty string,
	filter func(context.Context) ([]data.RecipeStub, error)) error {
	session.Transition(sessions.StateSearchResults)
	if err := c._show(ctx, event, searching, false, nil); err != nil {
		return err
	}
	stubs, err := filter(ctx)
	if err != nil {
		return c._show(ctx, event, c._sourceFailure(err), false, nil)
	}
	if len(stubs) == 0 {
		return c._show(ctx, event, empty, false, nil)
	}
	records := c.ResolveStubs(ctx, stubs)
	if len(records) == 0 {
		return c._show(ctx, event, MSG_DETAILS_FAILED, false, nil)
	}
	return c.SendRecipes(ctx, session, records)
}
