package router

import (
	"time"

	"barstockwise/internal/config"
	"barstockwise/internal/handler"
	"barstockwise/internal/infra"
	"barstockwise/internal/middleware"
	"barstockwise/internal/repository"
	"barstockwise/internal/service"
	"barstockwise/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	substRepo := repository.NewSubstitutionRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	ingredientSvc := service.NewIngredientService(ingredientRepo, movementRepo)
	recipeSvc := service.NewRecipeService(recipeRepo, ingredientRepo, substRepo, movementRepo, productRepo, dispatcher)
	productSvc := service.NewProductService(productRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, movementRepo, ingredientRepo, recipeSvc, dispatcher)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, supplierRepo, ingredientRepo, movementRepo, recipeRepo, recipeSvc)
	supplierSvc := service.NewSupplierService(supplierRepo)
	categorySvc := service.NewCategoryService(categoryRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ingredientsH := handler.NewIngredientsHandler(ingredientSvc)
	recipesH := handler.NewRecipesHandler(recipeSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc, purchaseSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: bartender, manager, admin — declared per-endpoint
		anyRole := middleware.RequireRole("bartender", "manager", "admin")
		managerUp := middleware.RequireRole("manager", "admin")
		adminOnly := middleware.RequireRole("admin")

		// Sales — every role can sell; voiding needs manager or admin
		v1.POST("/sales", anyRole, salesH.Register)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)
		v1.POST("/sales/:id/void", managerUp, salesH.Void)

		// Products — all roles read (menu), admin writes
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.POST("/products/:id/recalculate-cost", managerUp, recipesH.RecalculateCost)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
		}

		// Ingredients — bartenders can read and check alerts; writes need
		// manager or admin
		v1.GET("/ingredients", anyRole, ingredientsH.List)
		v1.GET("/ingredients/alerts", anyRole, ingredientsH.ListAlerts)
		v1.GET("/ingredients/:id", anyRole, ingredientsH.Get)
		ing := v1.Group("/ingredients", managerUp)
		{
			ing.POST("", ingredientsH.Create)
			ing.PUT("/:id", ingredientsH.Update)
			ing.DELETE("/:id", ingredientsH.Deactivate)
			ing.POST("/:id/reactivate", ingredientsH.Reactivate)
			ing.POST("/:id/adjust-stock", ingredientsH.AdjustStock)
		}
		v1.GET("/movements", managerUp, ingredientsH.ListMovements)

		// Recipes — bartenders check availability and consume; structural
		// changes need manager or admin
		v1.GET("/recipes", anyRole, recipesH.List)
		v1.GET("/recipes/:id", anyRole, recipesH.Get)
		v1.GET("/recipes/:id/availability", anyRole, recipesH.Availability)
		v1.POST("/recipes/:id/consume", anyRole, recipesH.Consume)
		rec := v1.Group("/recipes", managerUp)
		{
			rec.POST("", recipesH.Create)
			rec.PUT("/:id", recipesH.Update)
			rec.DELETE("/:id", recipesH.Delete)
		}

		// Substitution rules — manager or admin
		subs := v1.Group("/substitutions", managerUp)
		{
			subs.POST("", recipesH.CreateSubstitution)
			subs.GET("", recipesH.ListSubstitutions)
			subs.DELETE("/:id", recipesH.DeleteSubstitution)
		}

		// Purchases — manager or admin
		purch := v1.Group("/purchases", managerUp)
		{
			purch.POST("", suppliersH.ReceivePurchase)
			purch.GET("", suppliersH.ListPurchases)
			purch.GET("/:id", suppliersH.GetPurchase)
		}

		// Suppliers — manager or admin
		sup := v1.Group("/suppliers", managerUp)
		{
			sup.POST("", suppliersH.Create)
			sup.GET("", suppliersH.List)
			sup.GET("/:id", suppliersH.Get)
			sup.PUT("/:id", suppliersH.Update)
			sup.DELETE("/:id", suppliersH.Deactivate)
		}

		// Categories — all roles read, admin writes
		v1.GET("/categories", anyRole, categoriesH.List)
		cats := v1.Group("/categories", adminOnly)
		{
			cats.POST("", categoriesH.Create)
			cats.PUT("/:id", categoriesH.Update)
			cats.DELETE("/:id", categoriesH.Deactivate)
		}

		// Users — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.POST("/:id/reactivate", authH.ReactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
