package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"contesthub/internal/config"
	"contesthub/internal/database"
	"contesthub/internal/modules/submission"
	"contesthub/internal/repository"
)

// One-shot settlement reconciliation: re-drives every unpaid winner slot and
// exits. Meant for cron or manual runs against a live database.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	service := submission.NewService(
		repository.NewContestRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewUserRepository(db),
		repository.NewPaymentRepository(db),
		cfg.Distribution(),
		cfg.PointsPerWin,
		log.Printf,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	settled, err := service.Reconcile(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("reconcile finished settled=%d", settled)
}
