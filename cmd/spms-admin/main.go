package main

import (
	"log"
	"os"

	"github.com/noah-isme/spms-api/internal/repository"
	"github.com/noah-isme/spms-api/internal/service"
	"github.com/noah-isme/spms-api/internal/validation"
	"github.com/noah-isme/spms-api/pkg/config"
	"github.com/noah-isme/spms-api/pkg/database"
	"github.com/noah-isme/spms-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database unavailable", "error", err)
	}
	defer db.Close()

	validate := validation.New()
	subjectRepo := repository.NewSubjectRepository(db)
	cli := &commandLine{
		db:       db.DB,
		subjects: service.NewSubjectService(subjectRepo, repository.NewPerformanceRepository(db), validate, logr),
		users: service.NewAuthService(repository.NewUserRepository(db), nil, validate, logr, service.AuthConfig{
			Secret: cfg.JWT.Secret,
			Expiry: cfg.JWT.Expiration,
			Issuer: cfg.JWT.Issuer,
		}),
		logger: logr,
		out:    os.Stdout,
	}

	if err := cli.root().Execute(); err != nil {
		os.Exit(1)
	}
}
