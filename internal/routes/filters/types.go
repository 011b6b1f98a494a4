package filters

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

type contextKey string

const (
	REQUEST_ID_KEY      contextKey = "RequestId"
	REQUEST_ID_HEADER              = "x-request-id"
	SECRET_TOKEN_HEADER            = "X-Telegram-Bot-Api-Secret-Token"
)

type FilterContext struct {
	Request  *events.APIGatewayV2HTTPRequest
	Response *events.APIGatewayV2HTTPResponse
	Context  *context.Context
}

type RequestFilter interface {
	Filter(ctx *FilterContext) (*FilterContext, bool)
}

// Header finds a request header regardless of the casing the gateway used.
func Header(request *events.APIGatewayV2HTTPRequest, name string) (string, bool) {
	if value, ok := request.Headers[name]; ok {
		return value, true
	}
	for key, value := range request.Headers {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}

func RequestId(ctx context.Context) string {
	if id, ok := ctx.Value(REQUEST_ID_KEY).(string); ok {
		return id
	}
	return ""
}

// RequestIdFilter tags every request with a correlation id, reusing the
// caller's id when one was sent.
type RequestIdFilter struct {
	Generate func() string
}

func (rf *RequestIdFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	id, ok := Header(ctx.Request, REQUEST_ID_HEADER)
	if !ok || id == "" {
		id = rf.Generate()
	}
	withId := context.WithValue(*ctx.Context, REQUEST_ID_KEY, id)
	return &FilterContext{
		Request:  ctx.Request,
		Response: ctx.Response,
		Context:  &withId,
	}, false
}

// SecretTokenFilter rejects requests under PathPrefix whose secret header
// does not match. An empty Secret disables the check.
type SecretTokenFilter struct {
	Header     string
	Secret     string
	PathPrefix string
}

func (sf *SecretTokenFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	if sf.Secret == "" || !strings.HasPrefix(ctx.Request.RawPath, sf.PathPrefix) {
		return ctx, false
	}
	provided, _ := Header(ctx.Request, sf.Header)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(sf.Secret)) == 1 {
		return ctx, false
	}
	body, _ := json.Marshal(map[string]string{"message": "Unauthorized"})
	return &FilterContext{
		Request: ctx.Request,
		Context: ctx.Context,
		Response: &events.APIGatewayV2HTTPResponse{
			Headers: map[string]string{
				"Content-Type":   "application/json",
				"Content-Length": strconv.Itoa(len(body)),
			},
			StatusCode: 401,
			Body:       string(body),
		},
	}, true
}

func DefaultFilterContext(event events.APIGatewayV2HTTPRequest, ctx context.Context) *FilterContext {
	return &FilterContext{
		Request: &event,
		Response: &events.APIGatewayV2HTTPResponse{
			StatusCode: 200,
		},
		Context: &ctx,
	}
}

func DefaultRequestIdFilter() *RequestIdFilter {
	return &RequestIdFilter{
		Generate: uuid.NewString,
	}
}

func DefaultSecretTokenFilter(secret string) *SecretTokenFilter {
	return &SecretTokenFilter{
		Header:     SECRET_TOKEN_HEADER,
		Secret:     secret,
		PathPrefix: "/webhook",
	}
}
