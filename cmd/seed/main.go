package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/bookwormhq/bookworm-api/config"
	"github.com/bookwormhq/bookworm-api/internal/domain/entity"
	"github.com/bookwormhq/bookworm-api/internal/domain/repository"
	"github.com/bookwormhq/bookworm-api/internal/infrastructure/mongodb"
	"github.com/bookwormhq/bookworm-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}

	ctx := context.Background()
	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	email := "demo@bookworm.dev"
	password := "password123"
	username := "demoUser"

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	u := &entity.User{Username: username, Email: email, Password: hash}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			log.Printf("demo user already exists: %s", email)
			return
		}
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s username=%s password=%s\n", u.ID, email, username, password)
}
