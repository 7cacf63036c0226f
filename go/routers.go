package storeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
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

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
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
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler was not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the API sections served by the router.
type ApiHandleFunctions struct {
	// Routes for the order group
	OrderAPI OrderAPI
	// Routes for the product and category groups
	CatalogAPI CatalogAPI
	// Routes for the user group
	UserAPI UserAPI
	// Routes for the media group
	MediaAPI MediaAPI
	// Routes for the admin group
	StatisticsAPI StatisticsAPI
	// Routes for the ops group
	HealthAPI HealthAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"PlaceOrder",
			http.MethodPost,
			"/orders",
			handleFunctions.OrderAPI.PlaceOrder,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/orders",
			handleFunctions.OrderAPI.ListOrders,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/orders/:id",
			handleFunctions.OrderAPI.GetOrder,
		},
		{
			"UpdateOrderStatus",
			http.MethodPut,
			"/orders/:id/status",
			handleFunctions.OrderAPI.UpdateOrderStatus,
		},
		{
			"CancelOrder",
			http.MethodPut,
			"/orders/:id/cancel",
			handleFunctions.OrderAPI.CancelOrder,
		},
		{
			"ListProducts",
			http.MethodGet,
			"/products",
			handleFunctions.CatalogAPI.ListProducts,
		},
		{
			"GetProduct",
			http.MethodGet,
			"/products/:id",
			handleFunctions.CatalogAPI.GetProduct,
		},
		{
			"CreateProduct",
			http.MethodPost,
			"/products",
			handleFunctions.CatalogAPI.CreateProduct,
		},
		{
			"UpdateProduct",
			http.MethodPut,
			"/products/:id",
			handleFunctions.CatalogAPI.UpdateProduct,
		},
		{
			"SetProductVisibility",
			http.MethodPut,
			"/products/:id/visibility",
			handleFunctions.CatalogAPI.SetProductVisibility,
		},
		{
			"DeleteProduct",
			http.MethodDelete,
			"/products/:id",
			handleFunctions.CatalogAPI.DeleteProduct,
		},
		{
			"ListCategories",
			http.MethodGet,
			"/categories",
			handleFunctions.CatalogAPI.ListCategories,
		},
		{
			"CreateCategory",
			http.MethodPost,
			"/categories",
			handleFunctions.CatalogAPI.CreateCategory,
		},
		{
			"UpdateCategory",
			http.MethodPut,
			"/categories/:id",
			handleFunctions.CatalogAPI.UpdateCategory,
		},
		{
			"DeleteCategory",
			http.MethodDelete,
			"/categories/:id",
			handleFunctions.CatalogAPI.DeleteCategory,
		},
		{
			"Register",
			http.MethodPost,
			"/register",
			handleFunctions.UserAPI.Register,
		},
		{
			"Login",
			http.MethodPost,
			"/login",
			handleFunctions.UserAPI.Login,
		},
		{
			"UploadImage",
			http.MethodPost,
			"/upload-image",
			handleFunctions.MediaAPI.UploadImage,
		},
		{
			"GetStatistics",
			http.MethodGet,
			"/admin/statistics",
			handleFunctions.StatisticsAPI.GetStatistics,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			handleFunctions.HealthAPI.Healthz,
		},
	}
}
