package exceptions

import "fmt"

type ServiceError struct {
	StatusCode int
	Cause      error
}

func (se *ServiceError) Error() string {
	return se.Cause.Error()
}

func (se *ServiceError) Unwrap() error {
	return se.Cause
}

type RequestError interface {
	ToServiceError() *ServiceError
	Error() string
}

type ConflictError struct {
	Resource string
	Id       string
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("Found conflicting %s with id: %s", ce.Resource, ce.Id)
}

func (ce *ConflictError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 409,
		Cause:      ce,
	}
}

func Conflict(resource string, id string) *ConflictError {
	return &ConflictError{
		Resource: resource,
		Id:       id,
	}
}

type NotFoundError struct {
	Resource string
	Id       string
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("Could not find a %s with id: %s", nfe.Resource, nfe.Id)
}

func (nfe *NotFoundError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 404,
		Cause:      nfe,
	}
}

func NotFound(resource string, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Id:       id,
	}
}

type InvalidInputError struct {
	Message string
}

func (ie *InvalidInputError) Error() string {
	return ie.Message
}

func (ie *InvalidInputError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 400,
		Cause:      ie,
	}
}

func InvalidInput(message string) *InvalidInputError {
	return &InvalidInputError{
		Message: message,
	}
}

type InternalServerError struct {
	Message string
}

func (ise *InternalServerError) Error() string {
	return ise.Message
}

func (ise *InternalServerError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 500,
		Cause:      ise,
	}
}

func InternalServer(message string) *InternalServerError {
	return &InternalServerError{
		Message: message,
	}
}

// SourceUnavailableError covers every transport or decoding failure talking to
// the upstream recipe service. An empty result is never reported this way.
type SourceUnavailableError struct {
	Resource string
	Cause    error
}

func (se *SourceUnavailableError) Error() string {
	return fmt.Sprintf("Recipe source unavailable for %s: %v", se.Resource, se.Cause)
}

func (se *SourceUnavailableError) Unwrap() error {
	return se.Cause
}

func (se *SourceUnavailableError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 502,
		Cause:      se,
	}
}

func SourceUnavailable(resource string, cause error) *SourceUnavailableError {
	return &SourceUnavailableError{
		Resource: resource,
		Cause:    cause,
	}
}

type NotFavoritedError struct {
	UserId   string
	RecipeId string
}

func (nf *NotFavoritedError) Error() string {
	return fmt.Sprintf("Recipe %s is not a favorite of %s", nf.RecipeId, nf.UserId)
}

func (nf *NotFavoritedError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 409,
		Cause:      nf,
	}
}

func NotFavorited(userId string, recipeId string) *NotFavoritedError {
	return &NotFavoritedError{
		UserId:   userId,
		RecipeId: recipeId,
	}
}
