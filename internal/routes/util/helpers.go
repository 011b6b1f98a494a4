package util

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/recipebot/internal/exceptions"
	"philcali.me/recipebot/internal/routes"
)

func IdentityThunk[T interface{}](thing T) T {
	return thing
}

func RequestParam(ctx context.Context, name string) string {
	if params, ok := ctx.Value(routes.PARAMS_KEY).(map[string]string); ok {
		return params[name]
	}
	return ""
}

// RequestBody returns the raw payload, undoing the gateway's base64 wrapping.
func RequestBody(event events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !event.IsBase64Encoded {
		return []byte(event.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(event.Body)
	if err != nil {
		return nil, exceptions.InvalidInput("Request body is not valid base64")
	}
	return decoded, nil
}

func QueryInt(event events.APIGatewayV2HTTPRequest, name string, fallback int) (int, error) {
	value, ok := event.QueryStringParameters[name]
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, exceptions.InvalidInput("Query parameter " + name + " must be a number")
	}
	return parsed, nil
}

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, 200)
}
