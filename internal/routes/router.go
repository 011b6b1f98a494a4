package routes

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"philcali.me/recipebot/internal/exceptions"
	"philcali.me/recipebot/internal/routes/filters"
)

type contextKey string

const PARAMS_KEY contextKey = "Params"

type Route func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error)

type Service interface {
	GetRoutes() map[string]Route
}

type CachedMatcher struct {
	Matcher    *regexp.Regexp
	ParamNames []string
	Mutex      *sync.Mutex
}

type CachedRoute struct {
	Method  string
	Path    string
	Route   Route
	Matcher *CachedMatcher
}

func (cr *CachedMatcher) Refresh(path string) *regexp.Regexp {
	cr.Mutex.Lock()
	defer cr.Mutex.Unlock()
	if cr.Matcher == nil {
		namex := regexp.MustCompile(":[^/]+")
		regexPath := namex.ReplaceAllStringFunc(path, func(found string) string {
			cr.ParamNames = append(cr.ParamNames, found[1:])
			return "([^/]+)"
		})
		cr.Matcher = regexp.MustCompile("^" + regexPath + "$")
	}
	return cr.Matcher
}

func (cr *CachedRoute) MatchEvent(event events.APIGatewayV2HTTPRequest) (map[string]string, bool) {
	if event.RequestContext.HTTP.Method != cr.Method {
		return nil, false
	}
	if event.RawPath == cr.Path {
		return map[string]string{}, true
	}
	matcher := cr.Matcher.Refresh(cr.Path)
	values := matcher.FindStringSubmatch(event.RawPath)
	if values == nil {
		return nil, false
	}
	params := make(map[string]string, len(cr.Matcher.ParamNames))
	for i, p := range cr.Matcher.ParamNames {
		params[p] = values[i+1]
	}
	return params, true
}

type Router struct {
	Filters []filters.RequestFilter
	Routes  []CachedRoute
	Logger  *zap.Logger
}

// NewRouter collects the routes of every service. Static paths are tried
// before parameterized ones, so "/recipes/random" wins over "/recipes/:id".
func NewRouter(logger *zap.Logger, fltrs []filters.RequestFilter, services ...Service) *Router {
	var routes []CachedRoute
	for _, service := range services {
		for composite, route := range service.GetRoutes() {
			parts := strings.SplitN(composite, ":", 2)
			cachedRoute := CachedRoute{
				Method: parts[0],
				Path:   parts[1],
				Route:  route,
				Matcher: &CachedMatcher{
					Mutex: &sync.Mutex{},
				},
			}
			routes = append(routes, cachedRoute)
		}
	}
	slices.SortStableFunc(routes, func(a, b CachedRoute) int {
		if pa, pb := strings.Count(a.Path, ":"), strings.Count(b.Path, ":"); pa != pb {
			return pa - pb
		}
		return strings.Compare(a.Method+a.Path, b.Method+b.Path)
	})
	return &Router{
		Routes:  routes,
		Filters: fltrs,
		Logger:  logger,
	}
}

func translateError(err error) events.APIGatewayV2HTTPResponse {
	statusCode := 500
	var re exceptions.RequestError
	var se *exceptions.ServiceError
	if errors.As(err, &re) {
		statusCode = re.ToServiceError().StatusCode
	} else if errors.As(err, &se) {
		statusCode = se.StatusCode
	}
	message := err.Error()
	if statusCode >= 500 && statusCode != 502 {
		message = "Unexpected internal error"
	}
	body, _ := json.Marshal(map[string]string{"message": message})
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    headers,
	}
}

func _withRequestId(response events.APIGatewayV2HTTPResponse, requestId string) events.APIGatewayV2HTTPResponse {
	if requestId == "" {
		return response
	}
	if response.Headers == nil {
		response.Headers = make(map[string]string, 1)
	}
	response.Headers[filters.REQUEST_ID_HEADER] = requestId
	return response
}

func (r *Router) Invoke(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	filterContext := filters.DefaultFilterContext(event, ctx)
	for _, filter := range r.Filters {
		updatedContext, broken := filter.Filter(filterContext)
		if broken {
			requestId := filters.RequestId(*updatedContext.Context)
			r.Logger.Info("Request rejected by filter",
				zap.String("requestId", requestId),
				zap.String("path", event.RawPath),
				zap.Int("status", updatedContext.Response.StatusCode))
			return _withRequestId(*updatedContext.Response, requestId)
		}
		filterContext = updatedContext
	}
	requestId := filters.RequestId(*filterContext.Context)
	for _, route := range r.Routes {
		if params, ok := route.MatchEvent(*filterContext.Request); ok {
			resp, err := route.Route(event, context.WithValue(*filterContext.Context, PARAMS_KEY, params))
			if err != nil {
				r.Logger.Warn("Route failed",
					zap.String("requestId", requestId),
					zap.String("method", route.Method),
					zap.String("path", event.RawPath),
					zap.Error(err))
				return _withRequestId(translateError(err), requestId)
			}
			return _withRequestId(resp, requestId)
		}
	}
	return _withRequestId(translateError(exceptions.NotFound("route", event.RawPath)), requestId)
}
