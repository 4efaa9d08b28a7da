package cli

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spatel/markwise/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "markwise",
	Short: "Markwise - automated scoring of free-text exam answers",
	Long: `Markwise scores a student's free-text exam answers against a
teacher-authored model answer key, producing per-subpart and
per-question marks.

It locates each response inside a loosely-structured submission JSON,
compares it against the model answer with a blend of keyword overlap
and embedding similarity, applies exam scoring policy (MCQ vs.
subjective, partial-credit floors, length penalties, internal-choice
selection, quarter-mark rounding), and writes an auditable report.

Markwise assists grading; a teacher reviews the report.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Markwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("markwise v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.markwise/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.markwise")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match MARKWISE_*
	viper.SetEnvPrefix("MARKWISE")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig returns the defaults overlaid with whatever the config
// file and environment provide, validated eagerly.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		attemptRequiredHook(),
	))); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// attemptRequiredHook decodes "all" or an integer from YAML into the
// AttemptRequired union.
func attemptRequiredHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(model.AttemptRequired{}) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			if v == "all" {
				return model.AttemptAll(), nil
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("attempt_required: expected \"all\" or positive integer, got %q", v)
			}
			return model.AttemptN(n), nil
		case int:
			return model.AttemptN(v), nil
		case float64:
			return model.AttemptN(int(v)), nil
		default:
			return data, nil
		}
	}
}
