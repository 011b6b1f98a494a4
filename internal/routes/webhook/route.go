package webhook

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"philcali.me/recipebot/internal/exceptions"
	"philcali.me/recipebot/internal/routes"
	"philcali.me/recipebot/internal/routes/filters"
	"philcali.me/recipebot/internal/routes/util"
	"philcali.me/recipebot/internal/telegram"
)

type WebhookService struct {
	Handler telegram.Handler
	Logger  *zap.Logger
}

func NewRoute(handler telegram.Handler, logger *zap.Logger) routes.Service {
	return &WebhookService{
		Handler: handler,
		Logger:  logger,
	}
}

type Acknowledgement struct {
	Ok      bool `json:"ok"`
	Handled bool `json:"handled"`
}

func (ws *WebhookService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"POST:/webhook": ws.Receive,
		"GET:/health":   ws.Health,
	}
}

// Receive acknowledges every well formed update, even when handling it
// failed, so the platform does not redeliver it.
func (ws *WebhookService) Receive(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	body, err := util.RequestBody(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	var update telegram.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Body is not a valid update")
	}
	handled, err := telegram.Dispatch(ctx, ws.Handler, update)
	if err != nil {
		ws.Logger.Error("Failed to handle update",
			zap.String("requestId", filters.RequestId(ctx)),
			zap.Int64("updateId", update.UpdateId),
			zap.Error(err))
	}
	return util.SerializeResponseOK(util.IdentityThunk[Acknowledgement], Acknowledgement{Ok: true, Handled: handled}, nil)
}

func (ws *WebhookService) Health(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeResponseOK(util.IdentityThunk[map[string]string], map[string]string{"status": "ok"}, nil)
}
