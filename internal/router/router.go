package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "ranch-pregcheck/internal/adapters/storage/memory"
	pg "ranch-pregcheck/internal/adapters/storage/postgres"
	lite "ranch-pregcheck/internal/adapters/storage/sqlite"
	"ranch-pregcheck/internal/domain/cattle"
	"ranch-pregcheck/internal/domain/maintenance"
	"ranch-pregcheck/internal/domain/pregchecks"
	"ranch-pregcheck/internal/domain/seasons"
	"ranch-pregcheck/internal/middleware"
	"ranch-pregcheck/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "ranch-pregcheck/docs" // registro de swagger generado
)

type Options struct {
	Log logger.Logger

	// Opcional: si viene, usa Postgres. Si no, DB_DSN abre Postgres acá
	// mismo; después sqlite (SQLitePath o DB_PATH); sin nada de eso,
	// in-memory (tests/dev).
	DB         *sql.DB
	SQLitePath string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.CSRF)

	// El supervisor del shell consulta esto cada segundo hasta que el
	// server contesta.
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		cattleRepo     cattle.Repository
		pregChecksRepo pregchecks.Repository
		seasonsRepo    seasons.Repository
	)

	sqlitePath := opts.SQLitePath
	if sqlitePath == "" {
		sqlitePath = os.Getenv("DB_PATH")
	}

	switch {
	case opts.DB != nil:
		cattleRepo = pg.NewCattleRepo(opts.DB)
		pregChecksRepo = pg.NewPregChecksRepo(opts.DB)
		seasonsRepo = pg.NewSeasonsRepo(opts.DB)
	case os.Getenv("DB_DSN") != "":
		db, err := pg.Open(os.Getenv("DB_DSN"))
		if err != nil {
			log.Error("postgres open failed, falling back to memory", map[string]any{
				"error": err.Error(),
			})
			cattleRepo = mem.NewCattleRepo()
			pregChecksRepo = mem.NewPregChecksRepo()
			seasonsRepo = mem.NewSeasonsRepo()
		} else {
			cattleRepo = pg.NewCattleRepo(db)
			pregChecksRepo = pg.NewPregChecksRepo(db)
			seasonsRepo = pg.NewSeasonsRepo(db)
		}
	case sqlitePath != "":
		db, err := lite.Open(sqlitePath)
		if err != nil {
			// sin base no hay app de escritorio que valga; en memoria al
			// menos el server levanta y el shell puede mostrar el error
			log.Error("sqlite open failed, falling back to memory", map[string]any{
				"path": sqlitePath, "error": err.Error(),
			})
			cattleRepo = mem.NewCattleRepo()
			pregChecksRepo = mem.NewPregChecksRepo()
			seasonsRepo = mem.NewSeasonsRepo()
		} else {
			cattleRepo = lite.NewCattleRepo(db)
			pregChecksRepo = lite.NewPregChecksRepo(db)
			seasonsRepo = lite.NewSeasonsRepo(db)
		}
	default:
		cattleRepo = mem.NewCattleRepo()
		pregChecksRepo = mem.NewPregChecksRepo()
		seasonsRepo = mem.NewSeasonsRepo()
	}

	// Services por módulo
	cattleSvc := cattle.NewService(cattleRepo)
	pregChecksSvc := pregchecks.NewService(pregChecksRepo, cattleSvc)
	seasonsSvc := seasons.NewService(seasonsRepo)

	maintenanceSvc := maintenance.NewService(sqlitePath, log)
	importer := maintenance.NewImporter(cattleSvc, pregChecksRepo)
	exporter := maintenance.NewExporter(pregChecksSvc)

	// Rutas por módulo
	cattle.RegisterRoutes(r, cattleSvc)
	pregchecks.RegisterRoutes(r, pregChecksSvc, seasonsSvc)
	maintenance.RegisterRoutes(r, maintenanceSvc, importer, exporter)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
