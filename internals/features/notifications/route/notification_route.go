package route

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/features/notifications/controller"
	"letme_backend/internals/features/notifications/service"
)

// NotificationRoutes: /api/u
func NotificationRoutes(r fiber.Router, svc *service.NotificationService) {
	ctl := controller.NewNotificationController(svc)

	g := r.Group("/notifications")
	g.Get("/", ctl.List)
	g.Patch("/read-all", ctl.MarkAllRead)
	g.Patch("/:id/read", ctl.MarkRead)
}
