package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/middleware"
)

// Options carries the router settings that are not handler dependencies.
type Options struct {
	AllowedOrigins []string
	// AuthLimiter throttles POST /login and POST /register. Nil disables it.
	AuthLimiter *middleware.RateLimiter
}

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()

	// --- Global Middleware ---
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(h.Log),
		middleware.Metrics(),
	)
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	}
	router.Use(middleware.LoadSession(h.Tokens, h.Accounts, h.CookieSecure, h.Log))

	throttle := func(c *gin.Context) { c.Next() }
	if opts.AuthLimiter != nil {
		throttle = opts.AuthLimiter.Handler()
	}

	// --- Operational Routes ---
	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.Static("/uploads", h.UploadDir)

	// --- Public Routes ---
	router.GET("/", h.Home)
	router.GET("/register", h.RegisterForm)
	router.POST("/register", throttle, h.Register)
	router.GET("/login", h.LoginForm)
	router.POST("/login", throttle, h.Login)
	router.POST("/contact", h.SubmitContact)

	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
	router.GET("/categories", h.GetAllCategories)
	router.GET("/categories/:id", h.GetCategoryProducts)

	// --- Protected Routes (Login Required) ---
	authed := router.Group("/")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/logout", h.Logout)

		authed.GET("/account", h.Account)
		authed.GET("/account/orders/:id", h.AccountOrder)

		authed.GET("/review/new/:product_id", h.ReviewForm)
		authed.POST("/review/new/:product_id", h.SubmitReview)

		authed.GET("/address/new", h.AddressForm)
		authed.POST("/address/new", h.AddAddress)

		authed.GET("/support/new", h.TicketForm)
		authed.POST("/support/new", h.OpenTicket)
		authed.GET("/support/:id", h.GetTicket)
		authed.POST("/support/:id/messages", h.PostTicketMessage)

		// --- Admin Routes ---
		admin := authed.Group("/admin")
		admin.Use(middleware.RequireAdmin(h.Accounts, h.Log))
		{
			admin.GET("", h.GetDashboard)
			admin.GET("/add_product", h.AddProductForm)
			admin.POST("/add_product", h.AddProduct)
			admin.POST("/categories", h.CreateCategory)
			admin.POST("/products/:id/images", h.AddProductImage)
			admin.GET("/products/:id/inventory", h.GetInventory)
		}
	}

	return router
}
