package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"unihaven/internal/handler/api"
	"unihaven/internal/handler/middleware"
	"unihaven/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	reservationHandler *api.ReservationHandler,
	ratingHandler *api.RatingHandler,
	accommodationHandler *api.AccommodationHandler,
	memberHandler *api.MemberHandler,
	roleMiddleware *middleware.RoleMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, reservationHandler, ratingHandler, accommodationHandler, memberHandler, roleMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	reservationHandler *api.ReservationHandler,
	ratingHandler *api.RatingHandler,
	accommodationHandler *api.AccommodationHandler,
	memberHandler *api.MemberHandler,
	roleMiddleware *middleware.RoleMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// Browsing listings needs no role token.
		accommodations := apiGroup.Group("/accommodations")
		{
			addRoutes(accommodations, []route{
				{Method: http.MethodGet, Path: "", Handler: accommodationHandler.ListAccommodations},
				{Method: http.MethodGet, Path: "/:id", Handler: accommodationHandler.GetAccommodation},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(roleMiddleware.RequireRole())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation},
				{Method: http.MethodGet, Path: "", Handler: reservationHandler.ListReservations},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
				{Method: http.MethodPatch, Path: "/:id", Handler: reservationHandler.ChangeStatus},
			})
		}

		ratings := apiGroup.Group("/ratings")
		ratings.Use(roleMiddleware.RequireRole())
		{
			addRoutes(ratings, []route{
				{Method: http.MethodPost, Path: "", Handler: ratingHandler.CreateRating},
				{Method: http.MethodDelete, Path: "/:id", Handler: ratingHandler.DeleteRating},
			})
		}

		members := apiGroup.Group("/members")
		members.Use(roleMiddleware.RequireRole())
		{
			addRoutes(members, []route{
				{Method: http.MethodPost, Path: "", Handler: memberHandler.CreateMember},
				{Method: http.MethodDelete, Path: "/:uid", Handler: memberHandler.DeleteMember},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
