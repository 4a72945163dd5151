package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ranch-pregcheck/internal/adapters/display/console"
	"ranch-pregcheck/internal/platform/httpclient"
	"ranch-pregcheck/internal/platform/logger"
	"ranch-pregcheck/internal/ports/display"
	"ranch-pregcheck/internal/shell"

	"github.com/joho/godotenv"
)

// Shell de escritorio: levanta el server como proceso hijo, espera a que
// conteste el health check y recién ahí navega a la página de pregchecks.
// Con el argumento "export" en vez de navegar baja la planilla de
// pregchecks y la guarda donde el usuario elija.
func main() {
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	// El empaquetado nativo enchufa acá su webview; headless usa consola.
	var (
		surface display.Surface
		dialogs display.Dialogs
	)
	disp := console.New(log)
	surface, dialogs = disp, disp

	serverBin := os.Getenv("SERVER_BIN")
	if serverBin == "" {
		serverBin = "./ranch-pregcheck-api"
	}

	baseURL := os.Getenv("SERVER_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8029"
	}

	// stdout/stderr del hijo van a un archivo al lado del binario
	sinkPath := os.Getenv("SERVER_LOG")
	if sinkPath == "" {
		sinkPath = "server.log"
	}
	sink, err := os.OpenFile(sinkPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Warn("open server log", map[string]any{"error": err.Error()})
	}

	ctx := context.Background()

	sup := shell.NewSupervisor(shell.Options{
		Command: serverBin,
		Dir:     os.Getenv("SERVER_DIR"),
		Env: []string{
			"APP_ENV=desktop",
			"DB_PATH=" + os.Getenv("DB_PATH"),
		},
		LogSink: sink,
		Log:     log,
		OnStatus: func(status string) {
			surface.SetStatus(ctx, "waiting for server "+status)
		},
		OnError: func(err error) {
			surface.SetStatus(ctx, "server failed to start: "+err.Error())
		},
		OnExit: func(err error) {
			surface.SetStatus(ctx, "server exited unexpectedly")
		},
	})

	sup.Start()

	waitCtx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	if err := sup.WaitUntilReady(waitCtx, baseURL+"/health"); err != nil {
		log.Error("server not ready", map[string]any{"error": err.Error()})
		sup.Stop()
		os.Exit(1)
	}

	if len(os.Args) > 1 && os.Args[1] == "export" {
		client, err := httpclient.NewWithBaseURL(baseURL, 30*time.Second)
		if err == nil {
			var path string
			path, err = shell.SaveExport(ctx, client, dialogs)
			if err == nil && path != "" {
				surface.SetStatus(ctx, "export saved to "+path)
			}
		}
		if err != nil {
			log.Error("export", map[string]any{"error": err.Error()})
			sup.Stop()
			os.Exit(1)
		}
		sup.Stop()
		if sink != nil {
			_ = sink.Close()
		}
		return
	}

	if err := surface.Navigate(ctx, baseURL+"/pregchecks/"); err != nil {
		log.Warn("navigate", map[string]any{"error": err.Error()})
	}

	// el shell vive hasta que el usuario lo cierra
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	sup.Stop()
	if sink != nil {
		_ = sink.Close()
	}
}
