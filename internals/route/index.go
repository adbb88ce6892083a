package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"letme_backend/internals/constants"
	applicationRoute "letme_backend/internals/features/jobs/applications/route"
	applicationService "letme_backend/internals/features/jobs/applications/service"
	reportRoute "letme_backend/internals/features/jobs/reports/route"
	reportService "letme_backend/internals/features/jobs/reports/service"
	vacancyRoute "letme_backend/internals/features/jobs/vacancies/route"
	vacancyService "letme_backend/internals/features/jobs/vacancies/service"
	notificationRoute "letme_backend/internals/features/notifications/route"
	notificationService "letme_backend/internals/features/notifications/service"
	subscriptionRoute "letme_backend/internals/features/payment/subscriptions/route"
	subscriptionService "letme_backend/internals/features/payment/subscriptions/service"
	profileRoute "letme_backend/internals/features/users/profiles/route"
	profileService "letme_backend/internals/features/users/profiles/service"
	helper "letme_backend/internals/helpers"
	middlewares "letme_backend/internals/middlewares"
	authMiddleware "letme_backend/internals/middlewares/auth"
)

// Deps semua service yang sudah dirakit di main.
type Deps struct {
	DB            *gorm.DB
	JWTSecret     string
	Log           *logrus.Logger
	Limiter       fiber.Storage
	Blacklist     *authMiddleware.RedisBlacklist
	Vacancies     *vacancyService.VacancyService
	Applications  *applicationService.ApplicationService
	Reports       *reportService.ReportService
	Notifications *notificationService.NotificationService
	Subscriptions *subscriptionService.SubscriptionService
	Profiles      *profileService.ProfileService
}

var startTime time.Time

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	app.Get("/health", func(c *fiber.Ctx) error {
		return helper.JsonOK(c, "ok", fiber.Map{"uptime": time.Since(startTime).Round(time.Second).String()})
	})

	opts := authMiddleware.AuthJWTOpts{
		Secret:              d.JWTSecret,
		AllowCookieFallback: true,
		Profiles:            authMiddleware.GormProfiles{DB: d.DB},
	}
	if d.Blacklist != nil {
		opts.BlacklistChecker = d.Blacklist.IsBlacklisted
	}
	auth := authMiddleware.AuthJWT(opts)
	loose := opts
	loose.ProfileOptional = true
	authLoose := authMiddleware.AuthJWT(loose)

	// ===================== PUBLIC =====================
	d.Log.Info("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	vacancyRoute.VacancyPublicRoutes(public, d.Vacancies)
	subscriptionRoute.SubscriptionPublicRoutes(public, d.Subscriptions)

	// ===================== USER (semua role) =====================
	d.Log.Info("[INFO] Setting up USER group...")
	user := app.Group("/api/u", authLoose)
	profileRoute.ProfileUserRoutes(user, d.Profiles)
	notificationRoute.NotificationRoutes(user, d.Notifications)
	applicationRoute.ApplicationUserRoutes(user, d.Applications)
	reportRoute.ReportUserRoutes(user, d.Reports)
	if d.Blacklist != nil {
		user.Post("/logout", d.Blacklist.LogoutHandler(true))
	}

	// ===================== COMPANY =====================
	d.Log.Info("[INFO] Setting up COMPANY group...")
	company := app.Group("/api/c", auth,
		authMiddleware.OnlyRoles(constants.RoleErrorCompany("company"), helper.RoleCompany))
	company.Post("/invites", middlewares.InviteRateLimiter(d.Limiter))
	vacancyRoute.VacancyCompanyRoutes(company, d.Vacancies)
	applicationRoute.ApplicationCompanyRoutes(company, d.Applications)
	reportRoute.ReportCompanyRoutes(company, d.Reports)
	subscriptionRoute.SubscriptionCompanyRoutes(company, d.Subscriptions)

	// ===================== STAFF =====================
	d.Log.Info("[INFO] Setting up STAFF group...")
	staff := app.Group("/api/s", auth,
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("staff"), helper.RoleStaff))
	staff.Post("/invites/join", middlewares.JoinRateLimiter(d.Limiter))
	applicationRoute.ApplicationStaffRoutes(staff, d.Applications)
	subscriptionRoute.SubscriptionStaffRoutes(staff, d.Subscriptions)
}
