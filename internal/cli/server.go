package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assessment-service/internal/app"
	"assessment-service/internal/config"
	"assessment-service/internal/domain"
	"assessment-service/internal/infra/memory"
	pgstore "assessment-service/internal/infra/postgres"
	redisinfra "assessment-service/internal/infra/redis"
	"assessment-service/internal/report"
	transport "assessment-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the assessment server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleCatalog())
	if pool != nil {
		loader = pgstore.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogRepo app.CatalogRepository
	if redisClient != nil {
		catalogRepo = redisinfra.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogRepo = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var store app.SubmissionStore
	var users app.UserDirectory
	if pool != nil {
		store = pgstore.NewSubmissionStore(pool)
		users = pgstore.NewUserDirectory(pool)
	} else {
		store = memory.NewSubmissionStore()
		users = memory.NewUserDirectory(nil)
	}

	var sender report.Sender
	if cfg.Mail.APIKey != "" && cfg.Mail.SecretKey != "" {
		sender = report.NewMailjetSender(
			cfg.Mail.APIKey, cfg.Mail.SecretKey,
			cfg.Mail.FromEmail, cfg.Mail.FromName, cfg.Mail.ToEmail,
		)
	} else {
		log.Println("mail credentials not configured; reports will be dropped")
	}
	mailTimeout := config.TTLDuration(cfg.Mail.Timeout, 10*time.Second)
	dispatcher := report.NewDispatcher(sender, mailTimeout, cfg.Mail.QueueSize)
	defer dispatcher.Close()

	service := app.NewAssessmentService(catalogRepo, store, users, dispatcher)

	pageSize := cfg.Wizard.PageSize
	if pageSize <= 0 {
		pageSize = app.DefaultPageSize
	}
	var wizardSessions app.WizardSessionStore
	if redisClient != nil {
		wizardSessions = redisinfra.NewWizardStore(redisClient, redisTTL)
	} else {
		wizardSessions = memory.NewWizardStore()
	}

	identity := transport.HeaderIdentity{}
	handler := transport.NewHandler(service, identity)
	wsHandler := transport.NewWSHandler(service, wizardSessions, identity, pageSize)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws/assessment", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting assessment service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleCatalog provides a minimal catalog for running without Postgres;
// production deployments seed catalog_sets instead.
func sampleCatalog() []domain.Category {
	return []domain.Category{
		{
			Name:        "ESTABLISH",
			Description: "Focuses on the foundations of your identity.",
			Questions: []domain.Question{
				{ID: "1", Text: "My sense of who I am holds steady under pressure."},
				{ID: "2", Text: "I return to my core convictions when making decisions."},
			},
		},
		{
			Name:        "EQUIP",
			Description: "Measures how prepared you feel for day-to-day challenges.",
			Questions: []domain.Question{
				{ID: "3", Text: "I actively develop the skills my responsibilities require."},
			},
		},
	}
}
