package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/proofdriver/internal/config"
	"github.com/harrison/proofdriver/internal/install"
	"github.com/harrison/proofdriver/internal/logger"
	"github.com/harrison/proofdriver/internal/models"
	"github.com/harrison/proofdriver/internal/session"
)

// Seams replaced in tests, where the test binary is not part of an installation.
var (
	locate     = install.Locate
	newSession = session.New
)

// addCommonFlags registers the flags every subcommand accepts.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("quiet", "q", false, "Suppress subprocess output and reports")
	cmd.Flags().BoolP("verbose", "v", false, "Echo commands and timings")
	cmd.Flags().Bool("debug", false, "Enable debug diagnostics (implies --verbose)")
	cmd.Flags().String("config", "", "Path to config file (default: .proofdriver/config.yaml)")
}

// addPlaybackFlags registers the flags shared by both playback commands.
func addPlaybackFlags(cmd *cobra.Command) {
	cmd.Flags().String("message-format", "", "Report format: human or json (default from config, else human)")
	cmd.Flags().Bool("only-codegen", false, "Build the playback test without running it")
}

// commonArgs reads and validates the verbosity flags.
func commonArgs(cmd *cobra.Command) (models.CommonArgs, error) {
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")

	common := models.CommonArgs{QuietFlag: quiet, VerboseFlag: verbose, Debug: debug}
	if err := common.Validate(); err != nil {
		return common, &UsageError{Err: err}
	}
	return common, nil
}

// loadConfig loads the config file named by --config, or the project default.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	return cfg, nil
}

// messageFormat applies --message-format on top of the configured format.
func messageFormat(cmd *cobra.Command, cfg *config.Config) error {
	if !cmd.Flags().Changed("message-format") {
		return nil
	}
	raw, _ := cmd.Flags().GetString("message-format")
	format, err := models.ParseMessageFormat(raw)
	if err != nil {
		return &UsageError{Err: err}
	}
	cfg.MergeWithFlags(nil, nil, &format, nil)
	return nil
}

// initDiagnostics installs the process logger. PROOFDRIVER_LOG wins over
// the configured filter.
func initDiagnostics(cfg *config.Config, common models.CommonArgs) {
	spec, ok := os.LookupEnv(logger.EnvVar)
	if !ok {
		spec = cfg.LogFilter
	}
	logger.Init(os.Stderr, spec, common.Debug)
}

// prepare runs the steps every subcommand starts with.
func prepare(cmd *cobra.Command) (*config.Config, models.CommonArgs, error) {
	common, err := commonArgs(cmd)
	if err != nil {
		return nil, common, err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, common, err
	}
	initDiagnostics(cfg, common)
	return cfg, common, nil
}
