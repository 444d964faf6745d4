package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	engine "github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-futures/internal/version"
	"github.com/urfave/cli/v3"
)

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	config := engine.DefaultConfig()

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	output := cmd.String("output")
	if output == "" {
		fmt.Fprintln(cmd.Root().Writer, schemaJSON)

		return nil
	}

	if err := os.WriteFile(output, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to %s: %w", output, err)
	}

	log.Printf("Schema successfully generated at %s", output)

	return nil
}

func viewAction(ctx context.Context, cmd *cli.Command) error {
	model := NewModel(cmd.String("results"), cmd.String("sort"))

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("results viewer failed: %w", err)
	}

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "sweep",
		Usage:   "Parameter sweep backtester for futures strategies",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run every parameter combination of a config over a bar file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the sweep config `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the bar data in CSV or Parquet format with a time (or date) column plus open, high, low, close and volume",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Folder for the results table and summary",
						Value:   "results",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   fmt.Sprintf("Results format (%s or %s)", engine.ResultFormatCSV, engine.ResultFormatParquet),
						Value:   string(engine.ResultFormatCSV),
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of parallel runs, overrides the config (0 keeps it)",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error)",
						Value: "info",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Disable the progress bar",
					},
				},
				Action: runAction,
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the sweep config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the schema to a file instead of stdout",
					},
				},
				Action: schemaAction,
			},
			{
				Name:  "view",
				Usage: "Browse a results table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "results",
						Aliases:  []string{"r"},
						Usage:    "Path to a results CSV or Parquet file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Initial sort column",
						Value:   "sharpe_ratio",
					},
				},
				Action: viewAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		stop()
		log.Fatal(err)
	}
}
