// Package main RentalHub API.
//
// @title           Fulköping RentalHub REST API
// @version         1.0.0
// @description     Equipment rental service: assets, customers, bookings, history.
// @contact.name    Systemansvarig
// @contact.email   support@fulkoping-rentalhub.se
// @BasePath        /api
// @schemes         http
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-KEY
// @description  API key required on all mutating calls
package main

import (
	"context"
	"log/slog"
	"os"

	"rentalhub/app/echoServer"
	assetctrl "rentalhub/app/echoServer/controller/asset"
	customerctrl "rentalhub/app/echoServer/controller/customer"
	rentalctrl "rentalhub/app/echoServer/controller/rental"
	"rentalhub/app/echoServer/validation"
	"rentalhub/config"
	"rentalhub/migrations"
	assetrepo "rentalhub/repository/asset"
	bookingrepo "rentalhub/repository/booking"
	customerrepo "rentalhub/repository/customer"
	rentalsvc "rentalhub/service/rental"
	"rentalhub/util/clock"
	"rentalhub/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// schema + seed
	if err := migrations.Apply(ctx, db.Pool); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// repos
	ar := assetrepo.New(db)
	cr := customerrepo.New(db)
	br := bookingrepo.New(db)

	// the coordinator
	svc := rentalsvc.New(db, ar, cr, br, clock.NewSystem())

	// controllers
	v := validator.New()
	assetC := &assetctrl.Controller{Svc: svc, V: v, Log: log}
	customerC := &customerctrl.Controller{Svc: svc, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: svc, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Asset:    assetC,
		Customer: customerC,
		Rental:   rentalC,

		APIKey: cfg.APIKey,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
