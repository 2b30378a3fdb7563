package components

import (
	"unihaven/internal/handler"
	"unihaven/internal/handler/api"
	"unihaven/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewRatingHandler,
		api.NewAccommodationHandler,
		api.NewMemberHandler,
		middleware.NewRoleMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
