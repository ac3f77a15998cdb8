package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var errMissing = errors.New("missing")

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	return rec
}

func TestChainedResponder(t *testing.T) {
	responder := NewChainedResponder(func(err error) (APIError, bool) {
		if errors.Is(err, errMissing) {
			return NotFound("Order not found"), true
		}
		return APIError{}, false
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "mapped",
			err:        fmt.Errorf("load: %w", errMissing),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"success":false,"message":"Order not found"}`,
		},
		{
			name:       "api error passes through",
			err:        BadRequest("Invalid request body", errors.New("unexpected EOF")),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"success":false,"message":"Invalid request body","error":"unexpected EOF"}`,
		},
		{
			name:       "fallback",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"success":false,"message":"Error fetching orders","error":"disk on fire"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(func(c *gin.Context) { responder.RespondError(c, tt.err, "Error fetching orders") })
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantStatus, HTTPStatusFromError(mustMap(responder, tt.err)))
		})
	}
}

func mustMap(r *ChainedResponder, err error) error {
	for _, m := range r.mappers {
		if apiErr, ok := m(err); ok {
			return apiErr
		}
	}
	return err
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("root")
	err := Internal("Error creating order", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Error creating order: root", err.Error())
	assert.Equal(t, "Order not found", NotFound("Order not found").Error())
}
