// Command keyadmin is the operator tool for minting credentials. License keys
// and API keys are provisioned out-of-band; the web portal only reads them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keyhaven/keyhaven/internal/adapters/postgres"
	"github.com/keyhaven/keyhaven/internal/app/bootstrap"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "license":
		err = mintLicense(ctx, os.Args[2:])
	case "license-state":
		err = setLicenseState(ctx, os.Args[2:])
	case "apikey":
		err = mintAPIKey(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  keyadmin license -user <id> [-key <value>] [-config <path>]
  keyadmin license-state -key <value> -active=<bool> [-config <path>]
  keyadmin apikey -desc <text> [-key <value>] [-config <path>]`)
}

func mintLicense(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("license", flag.ExitOnError)
	configPath := fs.String("config", "configs/default.yaml", "path to the YAML config file")
	userID := fs.Int64("user", 0, "owner user id")
	key := fs.String("key", "", "license key value, generated when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID <= 0 {
		return fmt.Errorf("missing -user")
	}

	repos, closeDB, err := openRepositories(ctx, *configPath)
	if err != nil {
		return err
	}
	defer closeDB()

	value := *key
	if value == "" {
		value = uuid.NewString()
	}
	created, err := repos.Licenses.Create(ctx, *userID, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create license key: %w", err)
	}
	fmt.Printf("license key %s created for user %d (id %d)\n", created.LicenseKey, created.UserID, created.ID)
	return nil
}

func setLicenseState(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("license-state", flag.ExitOnError)
	configPath := fs.String("config", "configs/default.yaml", "path to the YAML config file")
	key := fs.String("key", "", "license key value")
	active := fs.Bool("active", true, "desired active state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *key == "" {
		return fmt.Errorf("missing -key")
	}

	repos, closeDB, err := openRepositories(ctx, *configPath)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repos.Licenses.SetActive(ctx, *key, *active); err != nil {
		return fmt.Errorf("set license state: %w", err)
	}
	fmt.Printf("license key %s active=%v\n", *key, *active)
	return nil
}

func mintAPIKey(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apikey", flag.ExitOnError)
	configPath := fs.String("config", "configs/default.yaml", "path to the YAML config file")
	description := fs.String("desc", "", "consumer description")
	key := fs.String("key", "", "api key value, generated when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *description == "" {
		return fmt.Errorf("missing -desc")
	}

	repos, closeDB, err := openRepositories(ctx, *configPath)
	if err != nil {
		return err
	}
	defer closeDB()

	value := *key
	if value == "" {
		value = uuid.NewString()
	}
	created, err := repos.APIKeys.Create(ctx, value, *description, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	fmt.Printf("api key %s created (%s)\n", created.APIKey, created.Description)
	return nil
}

func openRepositories(ctx context.Context, configPath string) (postgres.Repositories, func(), error) {
	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		return postgres.Repositories{}, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := postgres.Connect(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		return postgres.Repositories{}, nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		closeGorm(db)
		return postgres.Repositories{}, nil, fmt.Errorf("run migrations: %w", err)
	}
	return postgres.NewRepositories(db), func() { closeGorm(db) }, nil
}

func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
