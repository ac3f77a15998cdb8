// Package errors maps application errors to enveloped HTTP responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/shared/envelope"
)

// APIError is an HTTP status plus the envelope message shown to clients. Cause, when set,
// is reported in the error field.
type APIError struct {
	Status  int
	Message string
	Cause   error
}

func (e APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e APIError) Unwrap() error {
	return e.Cause
}

func NotFound(message string) APIError {
	return APIError{Status: http.StatusNotFound, Message: message}
}

func BadRequest(message string, cause error) APIError {
	return APIError{Status: http.StatusBadRequest, Message: message, Cause: cause}
}

func Internal(message string, cause error) APIError {
	return APIError{Status: http.StatusInternalServerError, Message: message, Cause: cause}
}

// Responder writes APIErrors as envelopes.
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

// DefaultResponder has no mappers.
var DefaultResponder = NewResponder()

func (r *Responder) Respond(c *gin.Context, apiErr APIError) {
	c.JSON(apiErr.Status, envelope.Fail(apiErr.Message, apiErr.Cause))
}

// RespondError writes err as a 500 with fallback as the message unless err already is an
// APIError.
func (r *Responder) RespondError(c *gin.Context, err error, fallback string) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		r.Respond(c, apiErr)
		return
	}
	r.Respond(c, Internal(fallback, err))
}

func Respond(c *gin.Context, apiErr APIError) {
	DefaultResponder.Respond(c, apiErr)
}

// ErrorMapper maps domain/application errors to an APIError.
type ErrorMapper func(err error) (APIError, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

func NewChainedResponder(mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(),
		mappers:   mappers,
	}
}

// RespondError tries each mapper before falling back to a 500.
func (r *ChainedResponder) RespondError(c *gin.Context, err error, fallback string) {
	for _, mapper := range r.mappers {
		if apiErr, ok := mapper(err); ok {
			r.Respond(c, apiErr)
			return
		}
	}
	r.Responder.RespondError(c, err, fallback)
}

// HTTPStatusFromError extracts the HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}
