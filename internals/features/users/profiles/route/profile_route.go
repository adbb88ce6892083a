package route

import (
	"github.com/gofiber/fiber/v2"

	"letme_backend/internals/features/users/profiles/controller"
	"letme_backend/internals/features/users/profiles/service"
)

// ProfileUserRoutes: /api/u (role belum tentu punya profil, jadi tanpa guard role)
func ProfileUserRoutes(r fiber.Router, svc *service.ProfileService) {
	ctl := controller.NewProfileController(svc)

	g := r.Group("/profile")
	g.Get("/", ctl.Me)
	g.Put("/company", ctl.UpsertCompany)
	g.Put("/staff", ctl.UpsertStaff)
}
