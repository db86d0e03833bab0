package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/vsinha/mealplan/pkg/infrastructure/config"
	"github.com/vsinha/mealplan/pkg/interfaces/cli/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "mealplan",
		Usage:   "Budget-aware weekly recipe planning",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"MEALPLAN_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Environment file loaded before reading configuration",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); overrides configuration",
			},
		},

		Commands: []*cli.Command{
			planCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Create a meal plan from a scenario directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "scenario",
				Aliases:  []string{"s"},
				Usage:    "Path to scenario directory with products.csv, recipes.csv, ingredients.csv and optional history.csv",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "budget",
				Aliases:  []string{"b"},
				Usage:    "Total budget for the plan",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "items",
				Aliases: []string{"n"},
				Value:   5,
				Usage:   "Number of recipes to plan",
			},
			&cli.IntFlag{
				Name:  "pescatarian",
				Usage: "Target number of pescatarian recipes",
			},
			&cli.IntFlag{
				Name:  "vegetarian",
				Usage: "Target number of vegetarian recipes",
			},
			&cli.IntFlag{
				Name:  "max-iterations",
				Usage: "Maximum number of budget-driven swaps, 0 disables swaps (defaults to configuration)",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Planning date (YYYY-MM-DD), defaults to today",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json, csv)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory for results (required for csv)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Do not append the plan to the scenario history.csv",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose output",
			},
		},
		Action: runPlan,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "mealplan %s\n", c.App.Version)
			return nil
		},
	}
}

func runPlan(c *cli.Context) error {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return err
	}

	settings, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if level := c.String("log-level"); level != "" {
		settings.LogLevel = level
	}
	if c.Bool("verbose") && settings.LogLevel == "info" {
		settings.LogLevel = "debug"
	}

	logger, err := newLogger(settings)
	if err != nil {
		return err
	}

	var maxIterations *int
	if c.IsSet("max-iterations") {
		value := c.Int("max-iterations")
		maxIterations = &value
	}

	cmd := commands.NewPlanCommand(commands.Config{
		ScenarioDir:    c.String("scenario"),
		Budget:         c.String("budget"),
		NumItems:       c.Int("items"),
		NumPescatarian: c.Int("pescatarian"),
		NumVegetarian:  c.Int("vegetarian"),
		MaxIterations:  maxIterations,
		Date:           c.String("date"),
		Format:         c.String("format"),
		OutputDir:      c.String("output"),
		DryRun:         c.Bool("dry-run"),
		Verbose:        c.Bool("verbose"),
	}, settings, logger, c.App.Writer)

	_, err = cmd.Execute(c.Context)
	return err
}

func newLogger(settings *config.Config) (zerolog.Logger, error) {
	level, err := settings.Level()
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}
