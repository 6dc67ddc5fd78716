package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/andresuchdata/stockroom/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockroom/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialised")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Warn().Err(err).Msg("could not load .env file")
	}
	logger.Setup(logger.Options{Mode: "debug", Level: os.Getenv("LOG_LEVEL"), Component: "seed"})

	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seed",
		Usage: "Migrate and seed the stockroom database",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply pending schema migrations",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:  "master",
				Usage: "Seed master data (suppliers, categories, products)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing master seed data",
						Value:   "./data/seeds/master_data",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runSeeder,
			},
			{
				Name:  "user",
				Usage: "Create or update an operator account",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name (defaults to the email)"},
					&cli.StringFlag{Name: "role", Value: "user", Usage: "admin, manager, officer or user"},
					&cli.StringFlag{
						Name:     "password",
						Required: true,
						EnvVars:  []string{"SEED_USER_PASSWORD"},
					},
					&cli.BoolFlag{Name: "token", Usage: "Print a signed access token for the account"},
					&cli.StringFlag{Name: "jwt-secret", EnvVars: []string{"JWT_SECRET"}},
					&cli.DurationFlag{Name: "ttl", Value: defaultTokenTTL, Usage: "Token lifetime"},
				},
				Before: initDB,
				After:  closeDB,
				Action: runUser,
			},
		},
	}
}

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	applied, err := postgres.Migrate(c.Context, db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		logger.Log.Info().Msg("schema is up to date")
		return nil
	}
	logger.Log.Info().Strs("versions", applied).Msg("migrations applied")
	return nil
}
