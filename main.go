package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/synaptrix4/skillatics-io/internal/adaptive"
	"github.com/synaptrix4/skillatics-io/internal/config"
	"github.com/synaptrix4/skillatics-io/internal/db"
	"github.com/synaptrix4/skillatics-io/internal/event"
	"github.com/synaptrix4/skillatics-io/internal/gamification"
	"github.com/synaptrix4/skillatics-io/internal/handlers"
	"github.com/synaptrix4/skillatics-io/internal/repository"
	"github.com/synaptrix4/skillatics-io/internal/selection"
	"github.com/synaptrix4/skillatics-io/internal/service"
	"github.com/synaptrix4/skillatics-io/internal/supply"
	"github.com/synaptrix4/skillatics-io/pkg/discovery"
)

type resultStore interface {
	service.ResultStore
	selection.SeenSource
	gamification.ActivitySource
}

type stores struct {
	questions repository.QuestionStore
	sessions  service.SessionStore
	results   resultStore
	profiles  gamification.ProfileStore
	close     func()
}

func setupLogging(dir string) (*os.File, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}
	logFile := filepath.Join(dir, fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}
	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	return file, nil
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreBackend == config.BackendMemory {
		seed := repository.SeedQuestions()
		log.Printf("Using in-memory stores seeded with %d %q questions, data is lost on restart", len(seed), repository.SeedTopic)
		return &stores{
			questions: repository.NewMemoryQuestionRepository(seed...),
			sessions:  repository.NewMemorySessionStore(),
			results:   repository.NewMemoryResultStore(),
			profiles:  repository.NewMemoryUserStore(),
			close:     func() {},
		}, nil
	}

	client, err := db.InitMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	database := client.Database(cfg.MongoDatabase)

	questionRepo := repository.NewQuestionRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	resultRepo := repository.NewResultRepository(database)

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for name, ensure := range map[string]func(context.Context) error{
		"questions": questionRepo.EnsureIndexes,
		"sessions":  sessionRepo.EnsureIndexes,
		"results":   resultRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			log.Printf("Warning: Failed to create %s indexes: %v", name, err)
		}
	}

	s := &stores{
		questions: questionRepo,
		sessions:  sessionRepo,
		results:   resultRepo,
		profiles:  repository.NewUserRepository(database),
		close:     func() { db.DisconnectMongo(client) },
	}

	if rdb := db.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		s.questions = repository.NewCachedQuestionRepository(questionRepo, rdb, cfg.CacheTTL)
		mongoClose := s.close
		s.close = func() {
			_ = rdb.Close()
			mongoClose()
		}
	}
	return s, nil
}

func main() {
	cfg := config.Load()

	logFile, err := setupLogging(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open stores: %v", err)
	}
	defer st.close()

	var supplier selection.Supplier
	if cfg.GeminiAPIKey != "" {
		gemini, err := supply.NewGeminiSupply(ctx, cfg.GeminiAPIKey, cfg.GeminiModels)
		if err != nil {
			log.Printf("Warning: question supply disabled: %v", err)
		} else {
			supplier = gemini
			log.Printf("Question supply enabled with models %v", gemini.Models())
		}
	} else {
		log.Println("GEMINI_API_KEY not set, short pools will not be topped up")
	}

	var events service.Publisher
	if cfg.RabbitMQURI != "" {
		publisher, err := event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Printf("Warning: Failed to connect to RabbitMQ: %v", err)
		} else {
			events = publisher
			defer publisher.Close()
		}
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	engineConfig := adaptive.DefaultConfig()
	poolManager := selection.NewPoolManager(st.questions, st.results, supplier, engineConfig, cfg.SupplyTimeout)
	sessionService := service.NewSessionService(
		st.sessions,
		st.questions,
		st.results,
		poolManager,
		adaptive.NewManager(engineConfig),
		gamification.NewEngine(st.results, st.profiles),
		events,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		return fmt.Sprintf("[HTTP] %s | %3d | %13v | %15s | %-7s %s %s\n",
			p.TimeStamp.Format(time.RFC3339), p.StatusCode, p.Latency, p.ClientIP, p.Method, p.Path, p.ErrorMessage)
	}))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-User-ID", "X-User-Role", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Sessions:  handlers.NewSessionHandler(sessionService),
		Results:   handlers.NewResultHandler(service.NewResultService(st.results)),
		Questions: handlers.NewQuestionHandler(service.NewQuestionService(st.questions)),
	}, handlers.AuthRequired(cfg.JWTSecret))

	var registry *discovery.ServiceRegistry
	if cfg.ConsulAddress != "" {
		registry, err = discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Printf("Warning: Service discovery init failed: %v", err)
		} else if err := registry.Register(); err != nil {
			log.Printf("Warning: %v", err)
			registry = nil
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	if registry != nil {
		registry.Deregister()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
}
