package main

import (
	"net/http"
	"os"
	"time"

	"ranch-pregcheck/internal/platform/logger"
	"ranch-pregcheck/internal/router"

	"github.com/joho/godotenv"
)

// @title Ranch Pregcheck API
// @version 1.0
// @description API local del registro de chequeos de preñez.
// @BasePath /
func main() {
	// .env para el flujo de desarrollo; en el empaquetado las variables
	// vienen del shell
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8029"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{
		Log:        log,
		SQLitePath: os.Getenv("DB_PATH"),
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // export de planillas grandes
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
