package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtside/internal/config"
	"github.com/javiermolinar/courtside/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Show the configuration in effect.

Subcommands create the config file with defaults, print its path, or
edit it interactively.

Example:
  courtside config
  courtside config edit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n\n", config.DefaultConfigPath())
			printConfig(cmd.OutOrStdout(), a.config)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.Default().SaveTo(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Edit the configuration interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})

	return cmd
}

func runConfigInteractive(in io.Reader, out io.Writer) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(reader, out, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

// editConfig prompts for each editable setting, keeping the current value
// on an empty answer.
func editConfig(reader *bufio.Reader, out io.Writer, cfg *config.Config) {
	cfg.Club.Timezone = promptValue(reader, out, "Time zone (IANA, empty for local)", cfg.Club.Timezone)
	cfg.Club.Operator = promptValue(reader, out, "Operator name (for 'mine')", cfg.Club.Operator)
	cfg.Club.Courts = promptCourts(reader, out, cfg.Club.Courts)
	cfg.Schedule.DayStart = promptValue(reader, out, "Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptValue(reader, out, "Day end", cfg.Schedule.DayEnd)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Storage.RemoteURL = promptValue(reader, out, "Remote server URL (empty for local database)", cfg.Storage.RemoteURL)
	cfg.Server.Addr = promptValue(reader, out, "Server listen address", cfg.Server.Addr)
	cfg.LLM.Provider = promptValue(reader, out, "LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, out, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, out, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
	cfg.UI.DefaultZoom = promptValue(reader, out, "Default zoom (day, week, month)", cfg.UI.DefaultZoom)
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[club]")
	fmt.Fprintf(out, "  timezone         = %s\n", orDefault(cfg.Club.Timezone, "local"))
	fmt.Fprintf(out, "  operator         = %s\n", cfg.Club.Operator)
	fmt.Fprintf(out, "  courts           = %s\n", orDefault(formatCourts(cfg.Club.Courts), "from bookings"))
	fmt.Fprintln(out, "\n[schedule]")
	fmt.Fprintf(out, "  day_start        = %s\n", cfg.Schedule.DayStart)
	fmt.Fprintf(out, "  day_end          = %s\n", cfg.Schedule.DayEnd)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	if cfg.Storage.RemoteURL != "" {
		fmt.Fprintf(out, "  remote_url       = %s\n", cfg.Storage.RemoteURL)
	}
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  addr             = %s\n", cfg.Server.Addr)
	fmt.Fprintf(out, "  allowed_origins  = %s\n", strings.Join(cfg.Server.AllowedOrigins, ", "))
	fmt.Fprintln(out, "\n[llm]")
	fmt.Fprintf(out, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintf(out, "  default_zoom     = %s\n", cfg.UI.DefaultZoom)
}

// formatCourts renders courts as "id=name" pairs, the form promptCourts reads.
func formatCourts(courts []config.Court) string {
	parts := make([]string, 0, len(courts))
	for _, c := range courts {
		if c.Name == "" || c.Name == c.ID {
			parts = append(parts, c.ID)
			continue
		}
		parts = append(parts, c.ID+"="+c.Name)
	}
	return strings.Join(parts, ", ")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

// promptCourts reads a comma-separated list of "id" or "id=name".
func promptCourts(reader *bufio.Reader, out io.Writer, current []config.Court) []config.Court {
	input := promptValue(reader, out, "Courts (id=name, comma-separated)", formatCourts(current))
	if input == formatCourts(current) {
		return current
	}
	var courts []config.Court
	for _, p := range strings.Split(input, ",") {
		id, name, _ := strings.Cut(strings.TrimSpace(p), "=")
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		courts = append(courts, config.Court{ID: id, Name: strings.TrimSpace(name)})
	}
	return courts
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
