package routes

import (
	"github.com/gin-gonic/gin"

	"restaurant-pos/handlers"
	"restaurant-pos/middleware"
	"restaurant-pos/models"
)

// NewRouter returns a bare engine that only reads X-Forwarded-For from the
// given proxies. With none, ClientIP is the socket address.
func NewRouter(trustedProxies []string) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, err
	}
	return r, nil
}

// Options controls how routes are guarded
type Options struct {
	Tokens middleware.TokenParser
	// EnforceStaffAuth puts staff routes behind a bearer token
	EnforceStaffAuth bool
	// GuestLimit runs in front of the public routes when set
	GuestLimit gin.HandlerFunc
}

// SetupRoutes mounts the API under /api. Guest-facing routes are always
// public; staff routes require a token when EnforceStaffAuth is set.
func SetupRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.GET("/", h.Welcome)
	r.GET("/health", h.Health)

	posOnly := middleware.Staff(opts.EnforceStaffAuth, opts.Tokens, models.RolePOS)
	floorStaff := middleware.Staff(opts.EnforceStaffAuth, opts.Tokens, models.RoleCaptain, models.RolePOS)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	if opts.GuestLimit != nil {
		public.Use(opts.GuestLimit)
	}
	public.Use(middleware.OptionalAuth(opts.Tokens))
	{
		public.POST("/auth/login", h.Login)
		public.GET("/state-machine", h.GetStateMachineInfo)

		public.GET("/menu", h.ListMenu)
		public.GET("/menu/:id", h.GetMenuItem)
		public.GET("/tables", h.ListTables)
		public.GET("/tables/:id", h.GetTable)

		public.POST("/orders", h.PlaceOrder)
		public.GET("/orders/:id", h.GetOrder)
		public.POST("/orders/:id/add-items", h.AddItems)

		public.GET("/settings", h.GetSettings)
		public.POST("/settings/verify-location", h.VerifyLocation)
	}

	// ── Floor staff: captains and the POS ──────────────────────────
	floor := r.Group("/api")
	floor.Use(floorStaff...)
	{
		floor.GET("/orders", h.ListOrders)
		floor.GET("/orders/stream", h.StreamOrders)
		floor.PATCH("/orders/:id", h.UpdateOrderStatus)
		floor.GET("/orders/:id/history", h.GetOrderHistory)
		floor.GET("/orders/:id/kot", h.PreviewKOT)
		floor.POST("/orders/:id/kot", h.PrintKOT)
		floor.GET("/orders/:id/bill", h.PreviewBill)
		floor.POST("/orders/:id/bill", h.PrintBill)
		floor.PATCH("/tables/:id", h.UpdateTableStatus)
	}

	// ── POS management ─────────────────────────────────────────────
	pos := r.Group("/api")
	pos.Use(posOnly...)
	{
		pos.POST("/menu", h.CreateMenuItem)
		pos.PATCH("/menu/:id", h.UpdateMenuItem)
		pos.DELETE("/menu/:id", h.DeleteMenuItem)

		pos.POST("/tables", h.CreateTable)
		pos.DELETE("/tables/:id", h.DeleteTable)

		pos.POST("/settings", h.UpdateSettings)
		pos.GET("/settings/print", h.GetPrintSettings)
		pos.PUT("/settings/print", h.UpdatePrintSettings)

		pos.GET("/analytics", h.GetAnalytics)
		pos.POST("/staff", h.CreateStaff)
	}
}
