package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	if cmd.Use != "sheetxlate [input.xlsx]" {
		t.Errorf("Expected Use to be 'sheetxlate [input.xlsx]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Spreadsheet Batch Translator") {
		t.Errorf("Expected Short description to contain 'Spreadsheet Batch Translator'")
	}

	flagTests := []struct {
		name       string
		persistent bool
		defValue   string
	}{
		{"config", true, ""},
		{"list-models", false, "false"},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.persistent {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil {
				t.Fatalf("Expected flag %s to exist", tt.name)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("flag %s default = %q, want %q", tt.name, flag.DefValue, tt.defValue)
			}
		})
	}

	// Languages, workers and pricing are config-file settings only
	for _, name := range []string{"workers", "languages", "lang", "price"} {
		if cmd.Flags().Lookup(name) != nil {
			t.Errorf("Unexpected flag %s", name)
		}
	}
}

func TestCreateRootCommand_Args(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"no args", []string{}, false},
		{"one file", []string{"manual.xlsx"}, false},
		{"two files", []string{"a.xlsx", "b.xlsx"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := NewFlags()
			cmd := CreateRootCommand(flags)

			var got []string
			cmd.RunE = func(cmd *cobra.Command, args []string) error {
				got = args
				return nil
			}
			cmd.SetArgs(tt.args)
			cmd.SetOut(&strings.Builder{})
			cmd.SetErr(&strings.Builder{})

			err := cmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != len(tt.args) {
				t.Errorf("args = %v, want %v", got, tt.args)
			}
		})
	}
}

func TestListModelsFlag(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)
	cmd.RunE = func(cmd *cobra.Command, args []string) error { return nil }
	cmd.SetArgs([]string{"--list-models"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !flags.ListModels {
		t.Error("Expected ListModels to be set")
	}
}

func TestInitConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T)
	}{
		{
			name: "with config file",
			content: `endpoint:
  model: deepseek-reasoner
dispatch:
  workers: 15
languages: [English, Japanese]
`,
			check: func(t *testing.T) {
				if got := viper.GetString("endpoint.model"); got != "deepseek-reasoner" {
					t.Errorf("endpoint.model = %q", got)
				}
				if got := viper.GetInt("dispatch.workers"); got != 15 {
					t.Errorf("dispatch.workers = %d", got)
				}
				// Defaults still fill unset keys
				if got := viper.GetDuration("retry.max"); got != 10*time.Second {
					t.Errorf("retry.max = %v", got)
				}
			},
		},
		{
			name: "without config file",
			check: func(t *testing.T) {
				if got := viper.GetString("endpoint.model"); got != "deepseek-chat" {
					t.Errorf("endpoint.model = %q", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv("HOME", t.TempDir())
			t.Chdir(t.TempDir())

			cfgFile := ""
			if tt.content != "" {
				cfgFile = filepath.Join(t.TempDir(), "test-config.yaml")
				if err := os.WriteFile(cfgFile, []byte(tt.content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
			}

			InitConfig(cfgFile)
			tt.check(t)

			// Test environment variable prefix
			t.Setenv("SHEETXLATE_OUTPUT_PREFIX", "Batch")
			if got := viper.GetString("output.prefix"); got != "Batch" {
				t.Errorf("output.prefix = %q, environment override not applied", got)
			}
		})
	}
}

func TestInitConfig_DotEnv(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	t.Setenv("DEEPSEEK_API_KEY", "")
	os.Unsetenv("DEEPSEEK_API_KEY")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DEEPSEEK_API_KEY=sk-from-dotenv\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	InitConfig("")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Endpoint.APIKey != "sk-from-dotenv" {
		t.Errorf("APIKey = %q, want sk-from-dotenv", cfg.Endpoint.APIKey)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	InitConfig("")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Workers != 45 || cfg.SourceColumn != "Original" || cfg.OutputPrefix != "Translated" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
}
