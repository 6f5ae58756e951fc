package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ethosnet/ethosnet/internal/application"
	appethics "github.com/ethosnet/ethosnet/internal/application/ethics"
	appgov "github.com/ethosnet/ethosnet/internal/application/governance"
	appknowledge "github.com/ethosnet/ethosnet/internal/application/knowledge"
	"github.com/ethosnet/ethosnet/internal/config"
	openaiclient "github.com/ethosnet/ethosnet/internal/infra/ai/openai"
	mysqlp "github.com/ethosnet/ethosnet/internal/infra/db/mysql"
	"github.com/ethosnet/ethosnet/internal/infra/httpserver"
	minioStore "github.com/ethosnet/ethosnet/internal/infra/storage"
	"github.com/ethosnet/ethosnet/internal/infra/vector/qdrant"
	"github.com/ethosnet/ethosnet/internal/middleware"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql connect error: %v", err)
	}
	defer db.Close()

	evaluationRepo := mysqlp.NewEvaluationRepository(db)
	guidelineRepo := mysqlp.NewGuidelineRepository(db)
	entryRepo := mysqlp.NewEntryRepository(db)
	proposalRepo := mysqlp.NewProposalRepository(db)
	reputationRepo := mysqlp.NewReputationRepository(db)

	index := qdrant.New(cfg.Qdrant.URL, cfg.Qdrant.APIKey)
	for _, collection := range []string{
		appethics.GuidelineCollection,
		appethics.StandardCollection,
		appknowledge.EntryCollection,
	} {
		if err := index.Ensure(ctx, collection, openaiclient.EmbeddingDim); err != nil {
			log.Fatalf("qdrant ensure %s error: %v", collection, err)
		}
	}

	ai := openaiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)

	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	clock := application.SystemClock{}

	govSvc := &appgov.Service{
		Proposals:  proposalRepo,
		Reputation: reputationRepo,
		AI:         ai,
		Clock:      clock,
	}
	ethicsSvc := &appethics.Service{
		Evaluations: evaluationRepo,
		Guidelines:  guidelineRepo,
		AI:          ai,
		Index:       index,
		Artifacts:   store,
		Gov:         govSvc,
		Clock:       clock,
	}
	knowledgeSvc := &appknowledge.Service{
		Repo:  entryRepo,
		AI:    ai,
		Index: index,
		Rep:   govSvc,
		Clock: clock,
	}

	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.Tokens) > 0 {
		mux.Use(middleware.TokenAuth(cfg.Auth.Tokens))
	}
	mux.Use(middleware.RateLimitMiddleware(60, 10))
	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"vector":   middleware.CheckFunc(index.Ping),
	}
	mux.Mount("/", httpserver.NewRouter(ethicsSvc, knowledgeSvc, govSvc, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
