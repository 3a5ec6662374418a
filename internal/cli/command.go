package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/sheetxlate/internal"
	"codeberg.org/snonux/sheetxlate/internal/config"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetxlate [input.xlsx]",
		Short: "Spreadsheet Batch Translator",
		Long: `sheetxlate translates the "Original" column of a spreadsheet into a set
of target languages through an LLM chat endpoint (DeepSeek by default).

Every (row, language) cell is translated concurrently, checked for the
expected script and retried on failure. Cells that keep failing are
marked ERROR and logged to error_log.log. The result is saved as
Translated_MMDD_HHMM.xlsx together with a token usage bill.

Languages, concurrency, retries and pricing are set in the config file.

Examples:
  sheetxlate                       # Translate source.xlsx
  sheetxlate manual.xlsx           # Translate another file
  sheetxlate --list-models         # Show the models of the endpoint`,
		Args:         cobra.MaximumNArgs(1),
		Version:      internal.Version,
		SilenceUsage: true,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.sheetxlate.yaml or ./.sheetxlate.yaml)")

	// Local flags
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available models of the configured endpoint")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A .env file may hold the API key; it never overrides the real environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
	}

	configure(viper.GetViper(), cfgFile)

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}

func configure(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		v.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory and the working directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".sheetxlate")
	}

	config.SetDefaults(v)
	config.BindEnv(v)
}

// LoadConfig returns the configuration collected by InitConfig
func LoadConfig() (config.Config, error) {
	return config.FromViper(viper.GetViper())
}
