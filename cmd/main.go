package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dev1mple/attendance-oop/config"
	"github.com/dev1mple/attendance-oop/database"
	"github.com/dev1mple/attendance-oop/handlers"
	"github.com/dev1mple/attendance-oop/routes"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// fail fast when the database is down
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	e.Validator = handlers.NewValidator()

	routes.Register(e, db, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
