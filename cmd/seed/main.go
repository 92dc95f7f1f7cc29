package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"contesthub/internal/config"
	"contesthub/internal/database"
	"contesthub/internal/domain"
	jwtsvc "contesthub/internal/pkg/jwt"
	"contesthub/internal/repository"
)

// Seeds a local database with an admin, a creator, a few participants and
// contests in every review state, then prints bearer tokens for each account.
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
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	contests := repository.NewContestRepository(db)

	admin := &domain.User{
		SubjectID:     "seed-admin",
		Email:         cfg.AdminEmail,
		Name:          "Admin",
		Role:          domain.RoleAdmin,
		CreatorStatus: domain.CreatorNone,
		AccountStatus: domain.AccountActive,
	}
	creator := &domain.User{
		SubjectID:     "seed-creator",
		Email:         "creator@contesthub.local",
		Name:          "Casey Creator",
		Role:          domain.RoleCreator,
		CreatorStatus: domain.CreatorApproved,
		AccountStatus: domain.AccountActive,
	}
	seedUsers := []*domain.User{admin, creator}
	for i := 1; i <= 3; i++ {
		seedUsers = append(seedUsers, &domain.User{
			SubjectID:     fmt.Sprintf("seed-user-%d", i),
			Email:         fmt.Sprintf("user%d@contesthub.local", i),
			Name:          fmt.Sprintf("User %d", i),
			Role:          domain.RoleUser,
			CreatorStatus: domain.CreatorNone,
			AccountStatus: domain.AccountActive,
		})
	}

	for _, u := range seedUsers {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("seed user %s: %v", u.Email, err)
		}
	}

	now := time.Now()
	start := now.Add(-24 * time.Hour)
	seedContests := []*domain.Contest{
		{
			Name:        "Logo refresh for a coffee roaster",
			Description: "Rework the brand mark for print and web.",
			Task:        "Deliver a vector logo with light and dark variants.",
			Category:    domain.CategoryImageDesign,
			Price:       5,
			PrizeMoney:  500,
			StartDate:   &start,
			Deadline:    now.Add(14 * 24 * time.Hour),
			Status:      domain.ContestApproved,
			CreatorID:   creator.ID,
		},
		{
			Name:        "Launch article for a budgeting app",
			Description: "A long-form piece for the company blog.",
			Task:        "Write 1200 words aimed at first-time budgeters.",
			Category:    domain.CategoryArticleWriting,
			Price:       3,
			PrizeMoney:  200,
			Deadline:    now.Add(7 * 24 * time.Hour),
			Status:      domain.ContestPending,
			CreatorID:   creator.ID,
		},
		{
			Name:        "Indie roguelike review",
			Description: "Honest review of an early-access build.",
			Task:        "Play at least five hours and review the loop.",
			Category:    domain.CategoryGamingReview,
			Price:       2,
			PrizeMoney:  100,
			Deadline:    now.Add(30 * 24 * time.Hour),
			Status:      domain.ContestRejected,
			CreatorID:   creator.ID,
		},
	}

	for _, c := range seedContests {
		if err := contests.Create(ctx, c); err != nil {
			log.Fatalf("seed contest %s: %v", c.Name, err)
		}
	}

	j := jwtsvc.New(cfg.JWTSecret, 30*24*time.Hour)
	for _, u := range seedUsers {
		token, err := j.GenerateToken(u.SubjectID, u.Email)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%-30s %s\n", u.Email, token)
	}

	log.Printf("seeded %d users, %d contests", len(seedUsers), len(seedContests))
}
