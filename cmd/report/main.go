package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/config"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockroom/backend-go/internal/service"
	"github.com/andresuchdata/stockroom/backend-go/internal/storage"
	"github.com/andresuchdata/stockroom/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Load()
	logger.Setup(logger.Options{Mode: cfg.Server.Mode, Level: cfg.Server.LogLevel, Component: "report"})

	app := &cli.App{
		Name:  "report",
		Usage: "Export stock reports",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export the stock summary of every product",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.StringFlag{Name: "search", Usage: "Only products whose names or code contain this term"},
					&cli.StringFlag{Name: "format", Value: formatCSV, Usage: "csv or xlsx"},
					&cli.StringFlag{Name: "out", Usage: "Write to this local file instead of object storage"},
					&cli.StringFlag{Name: "prefix", Value: "stock-summary/", Usage: "Object key prefix"},
					&cli.IntFlag{Name: "page-size", Value: 200},
				},
				Action: func(c *cli.Context) error {
					return runExport(c, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("report failed")
	}
}

func runExport(c *cli.Context, cfg *config.Config) error {
	format := strings.ToLower(c.String("format"))
	contentType, ok := contentTypes[format]
	if !ok {
		return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
	}

	conn, err := sqlx.Connect("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	db := postgres.Wrap(conn, &cfg.Database)
	defer db.Close()

	services := service.New(postgres.NewStore(db))
	summaries, err := services.Summary.All(c.Context, c.String("search"), c.Int("page-size"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writeSummary(&buf, format, summaries); err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		logger.Log.Info().Str("file", out).Int("products", len(summaries)).Msg("stock summary exported")
		return nil
	}

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}
	if err := client.EnsureBucket(c.Context); err != nil {
		return err
	}

	key := reportKey(c.String("prefix"), format, time.Now())
	if err := client.UploadObject(c.Context, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), contentType); err != nil {
		return err
	}
	logger.Log.Info().
		Str("bucket", cfg.Storage.Bucket).
		Str("key", key).
		Int("products", len(summaries)).
		Msg("stock summary uploaded")
	return nil
}
