package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"diagnose-me/internal/agent"
	"diagnose-me/internal/config"
	"diagnose-me/internal/consultation"
	"diagnose-me/internal/platform/telegram"
	"diagnose-me/internal/report"
	"diagnose-me/internal/session"
)

func main() {
	config.LoadDotEnv()
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	// 1. Configuration. Missing service keys stop us before anything is served.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 2. Infrastructure
	repo := newRepository(cfg)

	// 3. Clients
	llm := agent.NewChatClient(agent.ChatConfig{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
	})
	search := agent.NewSerperClient(cfg.SearchAPIKey, cfg.SearchURL)

	var tg report.TelegramClient
	if cfg.TelegramEnabled() {
		tg = telegram.NewClient(cfg.TelegramToken)
	} else {
		log.Println("Telegram delivery disabled: TELEGRAM_BOT_TOKEN or DOCTOR_CHAT_ID not set.")
	}

	// 4. Services
	reportSvc := report.NewService(report.NewRenderer(cfg.FontPath), tg, cfg.DoctorChatID)
	pipeline := agent.NewPipeline(llm, search)
	consultationSvc := consultation.NewService(repo, pipeline, reportSvc, time.Now)
	consultationHandler := consultation.NewHandler(consultationSvc, session.NewStore())

	// 5. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for frontend
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Session-ID")
			w.Header().Set("Access-Control-Expose-Headers", "X-Session-ID")
			if r.Method == http.MethodOptions {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		consultation.RegisterRoutes(r, consultationHandler)
	})

	log.Printf("Server starting on port %s...", cfg.Port)
	return http.ListenAndServe(":"+cfg.Port, r)
}

// newRepository connects to Postgres when DATABASE_URL is set and applies
// migrations. Without a reachable database consultations stay in memory.
func newRepository(cfg config.Config) consultation.Repository {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, keeping consultations in memory.")
		return consultation.NewMemoryRepository()
	}

	db, err := connectDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Could not connect to DB: %v. Keeping consultations in memory.", err)
		return consultation.NewMemoryRepository()
	}
	log.Println("Connected to Database.")

	m, err := migrate.New(cfg.MigrationsPath, cfg.DatabaseURL)
	if err != nil {
		log.Printf("Migration init failed: %v", err)
	} else if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Printf("Migration up failed: %v", err)
	} else {
		log.Println("Migrations applied successfully!")
	}

	return consultation.NewRepository(db)
}

func connectDB(dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
		}
		if err == nil {
			return db, nil
		}
		if db != nil {
			db.Close()
		}
		log.Printf("Waiting for DB... (%d/10)", i+1)
		time.Sleep(2 * time.Second)
	}
	return nil, err
}
