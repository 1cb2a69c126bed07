package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/akolanti/StudyAPI/internal/app"
	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/study"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	outputJSON bool
)

// newService builds the study service for a command. Tests replace it.
var newService = func(ctx context.Context, settings config.Settings, watch bool) (study.Service, error) {
	var opts []app.Option
	if !watch {
		opts = append(opts, app.WithoutWatcher())
	}
	a, err := app.New(ctx, settings, opts...)
	if err != nil {
		return nil, err
	}
	return a.Service, nil
}

var rootCmd = &cobra.Command{
	Use:   "studyctl",
	Short: "Browse course units and practice questions",
	Long: `studyctl reads the course documents in the configured documents directory,
splits them into units and serves multiple-choice practice questions per unit.

Generated question sets are cached and reused until the course document changes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML settings file (default $STUDY_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// ExecuteContext runs the command line. The service and any watcher stop
// when ctx is done.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadSettings() (config.Settings, error) {
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return settings, fmt.Errorf("loading settings: %w", err)
	}
	logSettings := settings.Log
	if verbose {
		logSettings.Level = "debug"
	} else {
		logSettings.Level = "warn"
	}
	// stdout is reserved for command output and the MCP protocol
	logger_i.InitWithWriter(logSettings, os.Stderr)
	return settings, nil
}

func serviceFor(cmd *cobra.Command, watch bool) (study.Service, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return newService(cmd.Context(), settings, watch)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
