// main.go
//
// Generic admin list views, column selection and inline editing for GORM models
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of gutils-admin.
// gutils-admin is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// gutils-admin is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with gutils-admin.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/gutils-admin/internal/config"
	"github.com/localnerve/gutils-admin/internal/database"
	"github.com/localnerve/gutils-admin/internal/handlers"
	"github.com/localnerve/gutils-admin/internal/listview"
	"github.com/localnerve/gutils-admin/internal/metrics"
	"github.com/localnerve/gutils-admin/internal/middleware"
	"github.com/localnerve/gutils-admin/internal/render"
	"github.com/localnerve/gutils-admin/internal/selection"
	"github.com/localnerve/gutils-admin/internal/services"
	"github.com/localnerve/gutils-admin/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "github.com/localnerve/gutils-admin/docs/api" // Swagger docs
)

// @title gutils admin
// @version 1.0.0
// @description Record list administration: filtered lists, column selection and inline editing
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/gutils-admin
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

const namespace = "gutils_admin"

func newLogger(debug bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return log
}

func main() {
	log := newLogger(os.Getenv("DEBUG") == "true")
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	perms := &services.Permissions{Superuser: cfg.SuperuserRole, Roles: map[string][]string{}}
	if cfg.PermissionsFile != "" {
		if perms, err = services.LoadPermissions(cfg.PermissionsFile); err != nil {
			log.Fatal("failed to load permissions", zap.Error(err))
		}
		if perms.Superuser == "" {
			perms.Superuser = cfg.SuperuserRole
		}
	}

	engine, err := render.New()
	if err != nil {
		log.Fatal("failed to parse templates", zap.Error(err))
	}

	recorder, err := metrics.NewAdmin(namespace, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	sessions := session.New(session.Config{
		Expiration:     12 * time.Hour,
		KeyLookup:      "cookie:admin_session",
		CookieSecure:   cfg.SessionSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	var store selection.Store
	if cfg.AllowSelectColumns {
		store = selection.NewGormStore(db, log)
	}

	admin, err := handlers.NewAdmin(listview.Deps{
		DB:       db,
		Store:    store,
		Render:   engine,
		Perms:    perms,
		Sessions: sessions,
		Log:      log,
		Metrics:  recorder,
		PerPage:  cfg.ItemsPerPage,
		LoginURL: cfg.LoginURL,
		Language: cfg.Language,
		App:      cfg.PermApp,
	})
	if err != nil {
		log.Fatal("failed to build admin views", zap.Error(err))
	}
	if cfg.PermissionsFile != "" {
		if err := perms.Check(admin.Permissions()); err != nil {
			log.Fatal("incomplete permissions", zap.Error(err))
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	prom := fiberprometheus.New(namespace)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	authz := services.NewAuthorizer(cfg, log)
	app.Get("/swagger/*",
		middleware.Authenticate(authz, log),
		middleware.RequireRole(cfg.SuperuserRole),
		swagger.HandlerDefault,
	)

	health := &handlers.HealthHandler{Cfg: cfg, DB: db, Log: log}
	app.Get("/health", health.Health)

	group := app.Group("/admin", middleware.Authenticate(authz, log))
	admin.Register(group)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	log.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
	log.Info("server stopped")
}
