// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/depot"
	"github.com/poiesic/depot/core"
	"github.com/poiesic/depot/storage"
	badgerstore "github.com/poiesic/depot/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "depot",
		Usage: "Record storage with uniqueness guarantees",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before:   setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "put",
				Usage:  "Store a record",
				Action: putCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "id",
						Usage: "Record ID (a fresh UUID if omitted)",
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Record title (2 to 20 runes)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Usage:    "Record payload",
						Required: true,
					},
				},
			},
			{
				Name:   "get",
				Usage:  "Retrieve a record by ID",
				Action: getCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Record ID",
						Required: true,
					},
				},
			},
			{
				Name:   "count",
				Usage:  "Count stored records",
				Action: countCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openService opens the Badger-backed service at the --db path.
func openService(c *cli.Context) (*depot.Service, error) {
	backend, err := badgerstore.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	svc, err := depot.NewService(badgerstore.NewRecordStore(backend))
	if err != nil {
		backend.Close()
		return nil, err
	}
	return svc, nil
}

func putCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.String("id")
	if id == "" {
		id = uuid.NewString()
	}

	record, err := core.NewRecord(id, c.String("title"), []byte(c.String("data")))
	if err != nil {
		return err
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	res := <-svc.Store(ctx, record)
	if conflict, ok := storage.AsConflict(res.Err); ok {
		// Business conflicts are expected outcomes, not failures.
		switch conflict.Kind {
		case storage.ConflictDuplicateID:
			return cli.Exit(fmt.Sprintf("a record with ID %q already exists", conflict.Record.Id), 1)
		case storage.ConflictDuplicateTitle:
			return cli.Exit(fmt.Sprintf("a record titled %q already exists", conflict.Record.Title), 1)
		}
	}
	if res.Err != nil {
		return fmt.Errorf("failed to store record: %w", res.Err)
	}

	fmt.Printf("stored record %s at %s\n", record.Id, res.StoredAt.Format("2006-01-02T15:04:05.000000Z07:00"))
	return nil
}

func getCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	record, err := svc.Get(ctx, c.String("id"))
	if err != nil {
		return err
	}

	fmt.Printf("%s\t%s\t%s\n", record.Id, record.Title, record.Data)
	return nil
}

func countCommand(c *cli.Context) error {
	ctx := context.Background()

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	count, err := svc.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Println(count)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
