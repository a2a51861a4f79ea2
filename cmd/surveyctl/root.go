package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/surveybase/internal/application"
	"github.com/JonMunkholm/surveybase/internal/config"
	"github.com/JonMunkholm/surveybase/internal/logging"
)

// cli is the state shared by the subcommands.
type cli struct {
	verbose bool
	envFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "surveyctl",
		Short: "Run survey projects and inspect their history",
		Long: `surveyctl downloads survey answers, applies each project's column rules
and stores the resulting workbook, using the same configuration as the server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "Environment file loaded before the process environment")

	root.AddCommand(
		c.migrateCmd(),
		c.runCmd(),
		c.projectsCmd(),
		c.rulesCmd(),
		c.runsCmd(),
	)
	return root
}

// setup loads the environment file and configuration and sets up logging.
// Variables already in the environment win over the file.
func (c *cli) setup() error {
	if err := godotenv.Load(c.envFile); err != nil {
		slog.Debug("no env file loaded", "path", c.envFile, "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.Logging.Level
	if c.verbose {
		level = "debug"
	}
	logging.Setup(level, cfg.Logging.Format)
	return nil
}

// open connects to the database without migrating.
func (c *cli) open(cmd *cobra.Command) (*application.App, error) {
	return application.New(cmd.Context(), c.cfg, application.Options{})
}
