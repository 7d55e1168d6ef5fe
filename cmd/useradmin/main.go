// Command useradmin creates accounts and marks them verified. Email
// verification happens outside this service, so this is how operators
// activate accounts.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"uni-assistant/cmd"
	"uni-assistant/internal/auth"
	"uni-assistant/internal/database"

	"github.com/caarlos0/env/v11"
	"gorm.io/gorm"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	Root        string `env:"ROOT" envDefault:"./uni-assistant"`
}

func openDatabase(cfg Config, local bool) *gorm.DB {
	if local {
		path := filepath.Join(cfg.Root, "db", "uni-assistant.db")
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}
		db, err := database.NewSqliteDatabase(path)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		return db
	}

	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL must be set unless -local is used")
	}
	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func main() {
	email := flag.String("email", "", "email of the account")
	password := flag.String("password", "", "password for a new account")
	fullName := flag.String("name", "", "full name for a new account")
	create := flag.Bool("create", false, "create the account")
	verify := flag.Bool("verify", false, "mark the account as verified")
	local := flag.Bool("local", false, "use the local sqlite database under ROOT")

	cmd.LoadEnvFile()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	if *email == "" || (!*create && !*verify) {
		flag.Usage()
		os.Exit(2)
	}

	db := openDatabase(cfg, *local)
	ctx := context.Background()

	if *create {
		user, err := auth.CreateUser(ctx, db, *email, *password, *fullName, *verify)
		if err != nil {
			log.Fatalf("error creating user: %v", err)
		}
		log.Printf("created user %s (%s) verified=%v", user.Email, user.Id, user.Verified)
		return
	}

	if err := auth.SetVerified(ctx, db, *email, true); err != nil {
		log.Fatalf("error verifying user: %v", err)
	}
	log.Printf("verified user %s", *email)
}
