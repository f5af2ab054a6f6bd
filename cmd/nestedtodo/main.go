package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tgienger/nestedtodo/internal/config"
	"github.com/tgienger/nestedtodo/internal/logging"
	"github.com/tgienger/nestedtodo/internal/todolist"
	"github.com/tgienger/nestedtodo/internal/ui"
	"github.com/tgienger/nestedtodo/internal/ui/styles"
	"github.com/tgienger/nestedtodo/internal/ui/views"
	"golang.org/x/term"
)

// errNotTerminal is returned when stdout cannot host the TUI
var errNotTerminal = errors.New("nestedtodo requires an interactive terminal")

type rootFlags struct {
	configPath string
	logFile    string
	logLevel   string
	theme      string
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:           "nestedtodo",
	Short:         "A terminal todo list with nested sub-descriptions",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	addRootFlags(rootCmd.Flags(), &flags)
}

func addRootFlags(fs *pflag.FlagSet, f *rootFlags) {
	fs.StringVar(&f.configPath, "config", "", "path to config.toml")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.theme, "theme", "", fmt.Sprintf("color theme (%v)", styles.ThemeNames()))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command, f rootFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = f.theme
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	theme, err := styles.ThemeByName(cfg.Theme)
	if err != nil {
		return err
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	logger, closeLog, err := logging.Open(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer closeLog()

	list := todolist.New(todolist.WithLogger(logger))
	app := ui.NewApp(list, views.Options{
		Styles: styles.NewStyles(theme),
		Limits: cfg.Limits,
		Logger: logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		return fmt.Errorf("run application: %w", err)
	}
	logger.Info("session ended", "todos", list.Len())
	return nil
}
