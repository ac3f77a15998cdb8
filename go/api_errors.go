package marketserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/application"
	catalogports "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/catalog/ports"
	ordersapp "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/application"
	ordersdomain "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/domain"
	ordersports "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/domains/orders/ports"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/middleware"
	apierrors "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/shared/errors"
)

const (
	msgOrderNotFound   = "Order not found"
	msgProductNotFound = "Product not found"
	msgInvalidBody     = "Invalid request body"
)

var responder = apierrors.NewChainedResponder(orderErrorMapper, productErrorMapper)

func orderErrorMapper(err error) (apierrors.APIError, bool) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.NotFound(msgOrderNotFound), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		var validation *ordersdomain.ValidationError
		switch {
		case errors.As(err, &validation) && validation.MissingRequiredFields():
			return apierrors.BadRequest("Missing required fields: name, address, and cartItems", err), true
		case errors.Is(err, ordersdomain.ErrMissingStatus):
			return apierrors.BadRequest("Status is required", err), true
		case errors.Is(err, ordersdomain.ErrStatusTooLong):
			return apierrors.BadRequest("Status must be at most 32 characters", err), true
		case errors.Is(err, ordersdomain.ErrInvalidItem):
			return apierrors.BadRequest("Invalid cart items", err), true
		default:
			return apierrors.BadRequest("Invalid order data", err), true
		}
	}
	return apierrors.APIError{}, false
}

func productErrorMapper(err error) (apierrors.APIError, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.NotFound(msgProductNotFound), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.BadRequest("Invalid product data", err), true
	}
	return apierrors.APIError{}, false
}

// respondError logs the failure on the request logger and writes the mapped envelope.
// fallback is the message used when err maps to a 500.
func respondError(c *gin.Context, err error, fallback string) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	if !mapped(err) && apierrors.HTTPStatusFromError(err) >= http.StatusInternalServerError {
		middleware.Logger(c).Error(fallback, "error", err.Error())
	}
	responder.RespondError(c, err, fallback)
}

func mapped(err error) bool {
	if _, ok := orderErrorMapper(err); ok {
		return true
	}
	_, ok := productErrorMapper(err)
	return ok
}

func respondBadBody(c *gin.Context, err error) {
	apierrors.Respond(c, apierrors.BadRequest(msgInvalidBody, err))
}
