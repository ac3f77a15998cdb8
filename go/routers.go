package marketserver

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/platform/middleware"
	"github.com/Iron-Mark/MSiazon-MarketWebsite/internal/shared/envelope"
	apierrors "github.com/Iron-Mark/MSiazon-MarketWebsite/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every resource.
type ApiHandleFunctions struct {
	HealthAPI  HealthAPI
	OrderAPI   OrderAPI
	ProductAPI ProductAPI
}

// RouterOptions carries the cross-cutting settings of the engine.
type RouterOptions struct {
	ServiceName string
	Logger      *slog.Logger
	Metrics     *middleware.Metrics
	CORSOrigins []string
	// Development exposes panic text in 500 responses.
	Development bool
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, opts)
}

// NewRouterWithGinEngine adds middleware and routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(middleware.RequestLogger(logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	router.Use(gin.CustomRecoveryWithWriter(io.Discard, recoverPanic(opts.Development)))
	router.Use(middleware.CORS(opts.CORSOrigins, func(c *gin.Context) {
		c.JSON(http.StatusForbidden, envelope.Fail("Not allowed by CORS", nil))
	}))

	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.NotFound("Endpoint not found"))
	})
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Health", http.MethodGet, "/api/health", handleFunctions.HealthAPI.Health},
		{"ListProducts", http.MethodGet, "/api/products", handleFunctions.ProductAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/api/products/:id", handleFunctions.ProductAPI.GetProduct},
		{"CreateProduct", http.MethodPost, "/api/products", handleFunctions.ProductAPI.CreateProduct},
		{"UpdateProduct", http.MethodPut, "/api/products/:id", handleFunctions.ProductAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/api/products/:id", handleFunctions.ProductAPI.DeleteProduct},
		{"ListOrders", http.MethodGet, "/api/orders", handleFunctions.OrderAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/api/orders/:id", handleFunctions.OrderAPI.GetOrder},
		{"CreateOrder", http.MethodPost, "/api/orders", handleFunctions.OrderAPI.CreateOrder},
		{"UpdateOrderStatus", http.MethodPut, "/api/orders/:id/status", handleFunctions.OrderAPI.UpdateOrderStatus},
		{"DeleteOrder", http.MethodDelete, "/api/orders/:id", handleFunctions.OrderAPI.DeleteOrder},
	}
}

func recoverPanic(development bool) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		detail := fmt.Sprint(recovered)
		middleware.Logger(c).Error("panic recovered", "panic", detail)
		body := envelope.Fail("Internal server error", nil)
		if development {
			body.Error = detail
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	}
}

// parseIDParam binds a path identifier. "12" and "12.0" both yield 12; anything else is
// reported as not ok.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, raw, &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err == nil {
		return id, true
	}
	return parseID(raw)
}

// parseID accepts decimal integers and integral floats that fit in an int64.
func parseID(raw string) (int64, bool) {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f >= 1<<63 || f < -(1<<63) {
		return 0, false
	}
	return int64(f), true
}
