package shopserver

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Apurer/go-gin-shop-api/docs"
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

// ApiHandleFunctions groups the handlers of every API.
type ApiHandleFunctions struct {
	OrderAPI   OrderAPI
	PaymentAPI PaymentAPI
}

type routerOptions struct {
	logger     *slog.Logger
	sessions   SessionResolver
	metrics    *ServerMetrics
	middleware []gin.HandlerFunc
}

// RouterOption customises NewRouter.
type RouterOption func(*routerOptions)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(o *routerOptions) { o.logger = logger }
}

// WithSessions enables bearer token authentication.
func WithSessions(sessions SessionResolver) RouterOption {
	return func(o *routerOptions) { o.sessions = sessions }
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(metrics *ServerMetrics) RouterOption {
	return func(o *routerOptions) { o.metrics = metrics }
}

// WithMiddleware installs extra middleware ahead of every route, e.g. tracing.
func WithMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(o *routerOptions) { o.middleware = append(o.middleware, middleware...) }
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, opts...)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
// Middleware is installed before any route so every handler chain includes it.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	var options routerOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	router.Use(gin.Recovery(), RequestID(), RequestLogger(options.logger))
	router.Use(options.middleware...)
	if options.metrics != nil {
		router.Use(options.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(options.metrics.Handler()))
	}
	router.Use(Authenticate(options.sessions, options.logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"CreateOrder",
			http.MethodPost,
			"/orders/create",
			handleFunctions.OrderAPI.CreateOrder,
		},
		{
			"ListUserOrders",
			http.MethodGet,
			"/orders/user",
			handleFunctions.OrderAPI.ListUserOrders,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/orders/:orderId",
			handleFunctions.OrderAPI.GetOrder,
		},
		{
			"DeleteOrder",
			http.MethodDelete,
			"/orders/:orderId",
			handleFunctions.OrderAPI.DeleteOrder,
		},
		{
			"UpdateOrderStatus",
			http.MethodPut,
			"/orders/:orderId/status",
			handleFunctions.OrderAPI.UpdateOrderStatus,
		},
		{
			"Pay",
			http.MethodPost,
			"/payment/pay/:orderId",
			handleFunctions.PaymentAPI.Pay,
		},
		{
			"PaymentSuccess",
			http.MethodGet,
			"/payment/success",
			handleFunctions.PaymentAPI.Success,
		},
		{
			"PaymentCancel",
			http.MethodGet,
			"/payment/cancel",
			handleFunctions.PaymentAPI.Cancel,
		},
	}
}
