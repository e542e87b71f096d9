package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/smartmart-backend/config"
	"github.com/ikkim/smartmart-backend/internal/app/controller"
	"github.com/ikkim/smartmart-backend/internal/app/view"
	"github.com/ikkim/smartmart-backend/internal/middleware"
)

type Router struct {
	productController *controller.ProductController
	accountController *controller.AccountController
	cartController    *controller.CartController
	authGuard         middleware.AuthGuard
	staffGuard        middleware.StaffGuard
	config            *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	accountController *controller.AccountController,
	cartController *controller.CartController,
	authGuard middleware.AuthGuard,
	staffGuard middleware.StaffGuard,
	cfg *config.Config,
) *Router {
	return &Router{
		productController: productController,
		accountController: accountController,
		cartController:    cartController,
		authGuard:         authGuard,
		staffGuard:        staffGuard,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	if len(r.config.CORS.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     r.config.CORS.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// templates are embedded, so a parse failure is a build defect
	router.SetHTMLTemplate(template.Must(view.Templates()))

	router.NoRoute(controller.NotFound)
	router.NoMethod(controller.MethodNotAllowed)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "SmartMart is running",
		})
	})

	products := r.productController
	accounts := r.accountController
	carts := r.cartController

	optional := r.authGuard.OptionalAuthenticate()
	auth := r.authGuard.Authenticate()
	staff := r.staffGuard.RequireStaff()

	// catalog
	router.GET(controller.PathHome, optional, products.Home)
	router.GET(controller.PathProducts, optional, products.List)
	router.GET("/product/:id/", optional, products.Detail)

	staffOnly := router.Group("/product", auth, staff)
	{
		staffOnly.GET("/create/", products.CreateForm)
		staffOnly.POST("/create/", products.Create)
		staffOnly.GET("/:id/update/", products.UpdateForm)
		staffOnly.POST("/:id/update/", products.Update)
		staffOnly.GET("/:id/delete/", products.DeleteConfirm)
		staffOnly.POST("/:id/delete/", products.Delete)
	}

	// accounts
	router.GET(controller.PathRegister, optional, accounts.RegisterForm)
	router.POST(controller.PathRegister, accounts.Register)
	router.GET(controller.PathLogin, optional, accounts.LoginForm)
	router.POST(controller.PathLogin, accounts.Login)
	router.GET(controller.PathLogout, auth, accounts.Logout)

	// cart
	router.GET(controller.PathCart, auth, carts.View)
	router.POST("/cart/add/:id/", auth, carts.Add)

	return router
}
