package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/ptescayola/uptask-backend/internal/auth"
	"github.com/ptescayola/uptask-backend/internal/config"
	"github.com/ptescayola/uptask-backend/internal/handler"
	"github.com/ptescayola/uptask-backend/internal/mailer"
	"github.com/ptescayola/uptask-backend/internal/repository"
	"github.com/ptescayola/uptask-backend/internal/storage"
	"github.com/ptescayola/uptask-backend/internal/usecase"
	"github.com/ptescayola/uptask-backend/internal/validate"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := config.New(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	logger.Info().Msg("connected to MongoDB")

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	tokenRepo := repository.NewTokenMongoRepository(ctx, &logger, db)
	projectRepo := repository.NewProjectMongoRepository(db)
	taskRepo := repository.NewTaskMongoRepository(db)

	uploads, err := storage.NewUploadStorage(cfg.UploadsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	jwtAuth := auth.NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTIssuer, cfg.SessionExpiresIn)
	smtpMailer := mailer.NewMailer(&logger)
	validator := validate.New()

	authUsecase := usecase.NewAuthUsecase(userRepo, tokenRepo, jwtAuth, smtpMailer, cfg, &logger)
	profileUsecase := usecase.NewProfileUsecase(userRepo, uploads)
	projectUsecase := usecase.NewProjectUsecase(projectRepo, taskRepo, &logger)
	taskUsecase := usecase.NewTaskUsecase(taskRepo, projectRepo, &logger)
	teamUsecase := usecase.NewTeamUsecase(userRepo, projectRepo)

	mw := handler.NewMiddleware(jwtAuth, userRepo, projectRepo, taskRepo, cfg.FrontendURL, &logger)
	router := handler.NewRouter(
		mw,
		handler.NewAuthHandler(authUsecase, profileUsecase, validator, &logger),
		handler.NewProjectHandler(projectUsecase, taskUsecase, validator, &logger),
		handler.NewTaskHandler(taskUsecase, validator, &logger),
		handler.NewTeamHandler(teamUsecase, validator, &logger),
		uploads.Dir(),
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
