package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"letme_backend/internals/configs"
	database "letme_backend/internals/databases"
	applicationRepo "letme_backend/internals/features/jobs/applications/repository"
	applicationService "letme_backend/internals/features/jobs/applications/service"
	reportRepo "letme_backend/internals/features/jobs/reports/repository"
	reportService "letme_backend/internals/features/jobs/reports/service"
	vacancyRepo "letme_backend/internals/features/jobs/vacancies/repository"
	vacancyService "letme_backend/internals/features/jobs/vacancies/service"
	notificationRepo "letme_backend/internals/features/notifications/repository"
	notificationService "letme_backend/internals/features/notifications/service"
	subscriptionRepo "letme_backend/internals/features/payment/subscriptions/repository"
	subscriptionService "letme_backend/internals/features/payment/subscriptions/service"
	profileRepo "letme_backend/internals/features/users/profiles/repository"
	profileService "letme_backend/internals/features/users/profiles/service"
	helper "letme_backend/internals/helpers"
	"letme_backend/internals/helpers/document"
	"letme_backend/internals/helpers/mailer"
	"letme_backend/internals/helpers/oss"
	"letme_backend/internals/helpers/redisstore"
	"letme_backend/internals/logger"
	middlewares "letme_backend/internals/middlewares"
	authMiddleware "letme_backend/internals/middlewares/auth"
	routes "letme_backend/internals/route"
	"letme_backend/internals/scheduler"
	"letme_backend/internals/seeds"
)

func main() {
	cfg, err := configs.LoadEnv()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	if err := logger.Init(&cfg.Log); err != nil {
		logrus.WithError(err).Fatal("logger")
	}
	log := logger.GetAppLogger()

	// 🔌 DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg.DB, logger.GetLogger("sql"), cfg.Log.SQL)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	if err := database.TunePool(db, cfg.DB); err != nil {
		log.WithError(err).Warn("tune pool")
	}
	database.WarmUpQueries(db, log)
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			log.WithError(err).Fatal("migrate")
		}
		if err := seeds.RunAllSeeds(db, log); err != nil {
			log.WithError(err).Warn("seed")
		}
	}

	// Redis opsional: limiter lintas instance + blacklist token
	var (
		rdb       *redis.Client
		limiter   fiber.Storage
		blacklist *authMiddleware.RedisBlacklist
	)
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err = redisstore.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.WithError(err).Warn("redis tidak tersedia, limiter pakai memory lokal")
		} else {
			limiter = redisstore.NewStorage(rdb, "letme:")
			blacklist = authMiddleware.NewRedisBlacklist(rdb)
		}
	}

	// ===== services =====
	mail := mailer.New(cfg.SMTP, logger.GetLogger("mailer"))

	var uploader applicationService.Uploader
	if cfg.OSS.Enabled() {
		svc, err := oss.NewOSSService(cfg.OSS, log)
		if err != nil {
			log.WithError(err).Warn("OSS nonaktif, kontrak hanya dikirim via email")
		} else {
			uploader = svc
		}
	}

	notifications := notificationService.NewNotificationService(notificationRepo.NewNotificationRepository(db), log, 256)
	contracts := applicationService.NewContractDispatcher(document.PDFRenderer{}, uploader, mail, log)
	vacancies := vacancyService.NewVacancyService(vacancyRepo.NewVacancyRepository(db), log)
	applications := applicationService.NewApplicationService(applicationRepo.NewApplicationRepository(db), notifications, contracts, log)
	reports := reportService.NewReportService(reportRepo.NewReportRepository(db), log)
	subscriptions := subscriptionService.NewSubscriptionService(
		subscriptionRepo.NewSubscriptionRepository(db),
		subscriptionService.NewMidtransProvider(cfg.MidtransServerKey, cfg.MidtransProduction),
		mail, log,
	)
	profiles := profileService.NewProfileService(profileRepo.NewProfileRepository(db))

	// ⏱ scheduler setelah DB siap
	sweeper := scheduler.NewSweeper(log,
		scheduler.Task{Name: "expire_applications", Run: applications.ExpireStale},
		scheduler.Task{Name: "finish_vacancies", Run: func(ctx context.Context) (int64, error) {
			return vacancies.FinishElapsed(ctx, time.Now())
		}},
		scheduler.Task{Name: "purge_invite_codes", Run: subscriptions.PurgeExpiredCodes},
	)
	if err := sweeper.Start(cfg.SweeperSpec); err != nil {
		log.WithError(err).Fatal("scheduler")
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ErrorHandler:          helper.FromFiberError,
		ReadTimeout:           time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout:          time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:           time.Duration(cfg.IdleTimeoutSec) * time.Second,
	})
	middlewares.SetupMiddlewares(app, cfg, log, limiter)

	routes.SetupRoutes(app, routes.Deps{
		DB:            db,
		JWTSecret:     cfg.JWTSecret,
		Log:           log,
		Limiter:       limiter,
		Blacklist:     blacklist,
		Vacancies:     vacancies,
		Applications:  applications,
		Reports:       reports,
		Notifications: notifications,
		Subscriptions: subscriptions,
		Profiles:      profiles,
	})

	go func() {
		log.Infof("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown: http -> scheduler -> kontrak & undangan -> notifikasi -> DB -> redis
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = app.ShutdownWithContext(ctx)
	sweeper.Stop(ctx)
	if err := contracts.Wait(ctx); err != nil {
		log.WithError(err).Warn("pengiriman kontrak belum selesai")
	}
	if err := subscriptions.Wait(ctx); err != nil {
		log.WithError(err).Warn("email undangan belum selesai")
	}
	notifications.Close()
	database.Close(db)
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info("👋 shutdown selesai")
}
