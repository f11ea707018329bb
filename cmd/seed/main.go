// Loads demo events from a YAML file. Events are created for the given organizer, which is created
// if it doesn't exist. Events already present with the same title and start time are skipped.
// Run with -dry-run first to see what would be created.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/dhis2-sre/campus-events/pkg/config"
	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/dhis2-sre/campus-events/pkg/storage"
	"github.com/dhis2-sre/campus-events/pkg/user"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

var errDryRun = errors.New("dry run rollback")

type seedFile struct {
	Organizer organizer   `yaml:"organizer"`
	Events    []seedEvent `yaml:"events"`
}

type organizer struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type seedEvent struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Location    string         `yaml:"location"`
	Start       time.Time      `yaml:"start"`
	End         time.Time      `yaml:"end"`
	MaxCapacity *uint          `yaml:"maxCapacity"`
	Category    model.Category `yaml:"category"`
	ImageURL    string         `yaml:"imageUrl"`
}

func main() {
	path := flag.String("file", "", "Path to the YAML file holding the events")
	dryRun := flag.Bool("dry-run", false, "Log planned inserts and do not commit")
	flag.Parse()

	if *path == "" {
		fmt.Fprintf(os.Stderr, "missing -file\n")
		os.Exit(1)
	}

	logger := slog.Default()

	data, err := os.ReadFile(*path)
	if err != nil {
		logger.Error("failed to read seed file", "path", *path, "error", err)
		os.Exit(1)
	}

	seed, err := parseSeed(data)
	if err != nil {
		logger.Error("invalid seed file", "path", *path, "error", err)
		os.Exit(1)
	}

	db, err := openDB(logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	created, err := runSeed(context.Background(), db, seed, *dryRun, logger)
	if err != nil && !errors.Is(err, errDryRun) {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		logger.Info("dry run done, no changes committed", "events", created)
		return
	}
	logger.Info("seed done", "events", created)
}

func parseSeed(data []byte) (seedFile, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return seedFile{}, fmt.Errorf("failed to parse YAML: %v", err)
	}

	if seed.Organizer.Email == "" {
		return seedFile{}, errors.New("organizer email is required")
	}
	if len(seed.Organizer.Password) < 8 {
		return seedFile{}, errors.New("organizer password must be at least 8 characters")
	}

	for i, e := range seed.Events {
		if e.Title == "" || e.Location == "" {
			return seedFile{}, fmt.Errorf("event %d: title and location are required", i)
		}
		if e.Start.IsZero() || e.End.IsZero() {
			return seedFile{}, fmt.Errorf("event %q: start and end are required", e.Title)
		}
		if !e.End.After(e.Start) {
			return seedFile{}, fmt.Errorf("event %q: end must be after start", e.Title)
		}
		if e.Category == "" {
			seed.Events[i].Category = model.CategoryOther
		} else if !slices.Contains(model.Categories, e.Category) {
			return seedFile{}, fmt.Errorf("event %q: unknown category %q", e.Title, e.Category)
		}
	}

	return seed, nil
}

func (e seedEvent) toModel(organizerId uint) *model.Event {
	return &model.Event{
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   e.Start.UTC(),
		EndTime:     e.End.UTC(),
		MaxCapacity: e.MaxCapacity,
		Category:    e.Category,
		ImageURL:    e.ImageURL,
		OrganizerID: organizerId,
	}
}

func runSeed(ctx context.Context, db *gorm.DB, seed seedFile, dryRun bool, logger *slog.Logger) (int, error) {
	created := 0
	// GORM commits when the callback returns nil; it rolls back on any returned error.
	err := db.Transaction(func(tx *gorm.DB) error {
		userService := user.NewService(user.NewRepository(tx))
		u, err := userService.FindOrCreate(ctx, seed.Organizer.Email, seed.Organizer.Password, model.RoleOrganizer)
		if err != nil {
			return fmt.Errorf("failed to find or create organizer %q: %v", seed.Organizer.Email, err)
		}

		for _, e := range seed.Events {
			var count int64
			err := tx.Model(&model.Event{}).
				Where("title = ? AND start_time = ?", e.Title, e.Start.UTC()).
				Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("skip: event exists", "title", e.Title, "start", e.Start)
				continue
			}

			if dryRun {
				logger.Info("would create", "title", e.Title, "start", e.Start, "category", e.Category)
				created++
				continue
			}

			event := e.toModel(u.ID)
			if err := tx.Create(event).Error; err != nil {
				return fmt.Errorf("failed to create event %q: %v", e.Title, err)
			}
			logger.Info("created event", "id", event.ID, "title", event.Title)
			created++
		}

		if dryRun {
			return errDryRun // rollback: no changes committed
		}
		return nil
	})
	return created, err
}

func openDB(logger *slog.Logger) (*gorm.DB, error) {
	host := getEnv("DATABASE_HOST", "")
	portStr := getEnv("DATABASE_PORT", "5432")
	username := getEnv("DATABASE_USERNAME", "")
	password := getEnv("DATABASE_PASSWORD", "")
	name := getEnv("DATABASE_NAME", "")

	if host == "" || username == "" || name == "" {
		return nil, fmt.Errorf("set DATABASE_HOST, DATABASE_USERNAME, DATABASE_NAME (and DATABASE_PASSWORD, DATABASE_PORT)")
	}
	port, _ := strconv.Atoi(portStr)
	if port == 0 {
		port = 5432
	}

	return storage.NewDatabase(logger, config.Postgresql{
		Host:         host,
		Port:         port,
		Username:     username,
		Password:     password,
		DatabaseName: name,
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
