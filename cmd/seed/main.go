// main package for the catalog seeding utility. It inserts the sample
// story so a fresh deployment has something to browse.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/book-expert/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talesai/narration-service/internal/catalog"
	"github.com/talesai/narration-service/internal/config"
	"github.com/talesai/narration-service/internal/core"
)

const connectTimeout = 10 * time.Second

func sampleStory() core.Story {
	now := time.Now().UTC()

	return core.Story{
		ID:          "welcome-story",
		Title:       "Welcome to TalesAI",
		Description: "Your first AI-powered interactive story",
		Duration:    300,
		Category:    "Adventure",
		Language:    "en",
		Tags:        []string{"welcome"},
		CoverImage:  core.CoverImagePath("welcome-story", "svg"),
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
		Sections: []core.Section{
			{
				ID:           "1",
				Content:      "Welcome to your first interactive story!",
				VoiceID:      "default",
				Duration:     30,
				NextSections: []string{"2"},
			},
			{
				ID:           "2",
				Content:      "Every story here is narrated in your own voice.",
				VoiceID:      "default",
				Duration:     30,
				NextSections: nil,
			},
		},
	}
}

func run() error {
	log, err := logger.New(os.TempDir(), "narration-seed.log")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, err := config.Load(log)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}

	defer func() {
		disconnectErr := client.Disconnect(context.Background())
		if disconnectErr != nil {
			log.Warn("Failed to disconnect mongo client: %v", disconnectErr)
		}
	}()

	store := catalog.New(client.Database(cfg.Mongo.Database))

	err = store.CreateStory(ctx, sampleStory())
	if err != nil {
		return fmt.Errorf("failed to seed sample story: %w", err)
	}

	log.Info("Seeded sample story into database %s", cfg.Mongo.Database)

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Seed exited with error: %v\n", err)
		os.Exit(1)
	}
}
