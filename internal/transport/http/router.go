package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/banyumasfresh/shop/internal/handlers"
	authmw "github.com/banyumasfresh/shop/internal/middleware/auth"
)

type Deps struct {
	DB              *gorm.DB
	JWTSecret       []byte
	UploadDir       string
	UserHandler     *handlers.UserHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	CartHandler     *handlers.CartHandler
	OrderHandler    *handlers.OrderHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })
	e.Static("/public/uploads", d.UploadDir)

	v1 := e.Group("/api/v1", authmw.JWT(d.JWTSecret))

	users := v1.Group("/users")
	users.POST("/login", d.UserHandler.Login)
	users.POST("/register", d.UserHandler.Register)
	users.GET("/verify-email/:token", d.UserHandler.VerifyEmail)
	users.POST("/send-verification-email", d.UserHandler.SendVerificationEmail)
	users.GET("/get/count", d.UserHandler.GetUserCount)
	users.GET("", d.UserHandler.GetUsers, authmw.AdminOnly)
	users.GET("/:id", d.UserHandler.GetUser)
	users.POST("", d.UserHandler.CreateUser, authmw.AdminOnly)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser, authmw.AdminOnly)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/suggestions", d.ProductHandler.GetSuggestions)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/get/count", d.ProductHandler.GetProductCount)
	products.GET("/get/featured/:count", d.ProductHandler.GetFeaturedProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, authmw.AdminOnly)
	products.PUT("/gallery-images/:id", d.ProductHandler.UpdateGallery, authmw.AdminOnly)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, authmw.AdminOnly)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, authmw.AdminOnly)

	categories := v1.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.POST("", d.CategoryHandler.CreateCategory, authmw.AdminOnly)
	categories.PUT("/:id", d.CategoryHandler.UpdateCategory, authmw.AdminOnly)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory, authmw.AdminOnly)

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetItems)
	cart.POST("", d.CartHandler.AddItem)
	cart.PUT("/:id", d.CartHandler.UpdateItem)
	cart.DELETE("/:id", d.CartHandler.DeleteItem)

	orders := v1.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/get/count", d.OrderHandler.GetOrderCount)
	orders.GET("/get/totalsales", d.OrderHandler.GetTotalSales)
	orders.GET("/get/userorders/:userid", d.OrderHandler.GetUserOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.PUT("/:id", d.OrderHandler.UpdateOrderStatus)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder)
}
