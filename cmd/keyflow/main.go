// Package main provides the CLI entrypoint for keyflow.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/keyflow/internal/config"
	"github.com/verte-zerg/keyflow/internal/logging"
	"github.com/verte-zerg/keyflow/internal/model"
	"github.com/verte-zerg/keyflow/internal/passage"
	"github.com/verte-zerg/keyflow/internal/store"
	"github.com/verte-zerg/keyflow/internal/tui"
)

const (
	defaultSource      = model.SourceSample
	defaultWords       = 25
	defaultFocus       = "ASDF"
	defaultFocusFactor = 2.0
	defaultWatch       = true
)

var (
	practiceSource      string
	practiceText        string
	practiceFile        string
	practicePassageID   int64
	practiceWords       int
	practiceWordList    string
	practiceFocus       string
	practiceFocusFactor float64
	practiceWatch       bool

	logLevel string

	fileCfg    config.FileConfig
	fileCfgErr error
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "keyflow",
		Short:             "Typing practice in the terminal",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupCmd,
		RunE:              runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&practiceSource, "source", defaultSource, "passage source: sample, text, file, library, words")
	rootCmd.Flags().StringVar(&practiceText, "text", "", "passage text (implies --source text)")
	rootCmd.Flags().StringVar(&practiceFile, "file", "", "passage file (implies --source file)")
	rootCmd.Flags().Int64Var(&practicePassageID, "passage-id", 0, "library passage id, 0 for random (implies --source library)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per generated passage")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", config.DefaultWordListPath(), "word list for generated passages")
	rootCmd.Flags().StringVar(&practiceFocus, "focus", defaultFocus, "focus keys shown above the passage")
	rootCmd.Flags().Float64Var(&practiceFocusFactor, "focus-factor", defaultFocusFactor, "weight factor for words with focus keys")
	rootCmd.Flags().BoolVar(&practiceWatch, "watch", defaultWatch, "reload the passage file when it changes")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPassageCmd())

	return rootCmd
}

// setupCmd configures logging for every command. A config file that fails to
// load only blocks practice.
func setupCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, fileCfgErr = config.LoadConfig(config.DefaultConfigPath())
	if fileCfgErr != nil {
		fileCfg = config.FileConfig{}
	}
	applyStringConfig(cmd.Root().PersistentFlags().Changed("log-level"), &logLevel, fileCfg.Log.Level)
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, level)
	if fileCfgErr != nil && cmd != cmd.Root() {
		log.Warn().Err(fileCfgErr).Str("path", config.DefaultConfigPath()).Msg("Ignoring config file")
	}
	return nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	if fileCfgErr != nil {
		return fmt.Errorf("failed to load config: %w", fileCfgErr)
	}
	flags := cmd.Flags()
	applyStringConfig(flags.Changed("source"), &practiceSource, fileCfg.Practice.Source)
	applyStringConfig(flags.Changed("text"), &practiceText, fileCfg.Practice.Text)
	applyStringConfig(flags.Changed("file"), &practiceFile, fileCfg.Practice.File)
	applyInt64Config(flags.Changed("passage-id"), &practicePassageID, fileCfg.Practice.PassageID)
	applyIntConfig(flags.Changed("words"), &practiceWords, fileCfg.Practice.Words)
	applyStringConfig(flags.Changed("wordlist"), &practiceWordList, fileCfg.Practice.WordList)
	applyStringConfig(flags.Changed("focus"), &practiceFocus, fileCfg.Practice.Focus)
	applyFloatConfig(flags.Changed("focus-factor"), &practiceFocusFactor, fileCfg.Practice.FocusFactor)
	applyBoolConfig(flags.Changed("watch"), &practiceWatch, fileCfg.Practice.Watch)

	cfg := model.Config{
		Source:       inferSource(cmd, practiceSource),
		Text:         practiceText,
		File:         practiceFile,
		PassageID:    practicePassageID,
		Words:        practiceWords,
		WordListPath: practiceWordList,
		Focus:        practiceFocus,
		FocusFactor:  practiceFocusFactor,
		Watch:        practiceWatch,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("keyflow needs an interactive terminal")
	}

	var lib passage.Library
	if cfg.Source == model.SourceLibrary {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("Failed to close db")
			}
		}()
		lib = st
	}

	resolver, err := passage.NewResolver(cfg, lib, nil)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	// The TUI owns the terminal from here on.
	level, _ := logging.ParseLevel(logLevel)
	closeLog, err := logging.SetupFile(config.DefaultLogPath(), level)
	if err != nil {
		log.Warn().Err(err).Msg("Logging to stderr")
	} else {
		defer func() {
			logging.Setup(os.Stderr, level)
			_ = closeLog()
		}()
	}

	m := tui.NewModel(p, cfg.Focus, resolver)
	program := tea.NewProgram(m, tea.WithAltScreen())

	if path, ok := resolver.WatchPath(); ok {
		w, err := passage.Watch(ctx, path, p.Body, func(p model.Passage) {
			program.Send(tui.PassageChanged(p))
		})
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to watch passage file")
		} else {
			defer func() { _ = w.Close() }()
		}
	}

	log.Info().Str("source", cfg.Source).Str("origin", p.Origin).Msg("Starting practice")
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func inferSource(cmd *cobra.Command, source string) string {
	flags := cmd.Flags()
	if flags.Changed("source") {
		return source
	}
	switch {
	case flags.Changed("file"):
		return model.SourceFile
	case flags.Changed("text"):
		return model.SourceText
	case flags.Changed("passage-id"):
		return model.SourceLibrary
	case flags.Changed("words"), flags.Changed("wordlist"):
		return model.SourceWords
	}
	return source
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		log.Info().Str("path", path).Msg("Created config file")
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(changed bool, target, value *string) {
	if value == nil || changed {
		return
	}
	*target = *value
}

func applyIntConfig(changed bool, target, value *int) {
	if value == nil || changed {
		return
	}
	*target = *value
}

func applyInt64Config(changed bool, target, value *int64) {
	if value == nil || changed {
		return
	}
	*target = *value
}

func applyFloatConfig(changed bool, target, value *float64) {
	if value == nil || changed {
		return
	}
	*target = *value
}

func applyBoolConfig(changed bool, target, value *bool) {
	if value == nil || changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keyflow configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# source = %q         # sample, text, file, library or words
# text = ""                # Passage text for source = "text"
# file = ""                # Passage file for source = "file"
# passage-id = 0           # Library passage id, 0 for random
# words = %d               # Words per generated passage
# wordlist = %q
# focus = %q           # Focus keys shown above the passage
# focus-factor = %.1f      # Weight factor for words with focus keys
# watch = %t             # Reload the passage file when it changes

[log]
# level = %q           # debug, info, warn or error
`,
		defaultSource,
		defaultWords,
		config.DefaultWordListPath(),
		defaultFocus,
		defaultFocusFactor,
		defaultWatch,
		logging.DefaultLevel,
	)
}

func validateConfig(cfg model.Config) error {
	switch cfg.Source {
	case model.SourceSample, model.SourceText, model.SourceFile, model.SourceLibrary, model.SourceWords:
	default:
		return fmt.Errorf("--source must be one of sample, text, file, library, words")
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.FocusFactor < 0 {
		return fmt.Errorf("--focus-factor must be >= 0")
	}
	if cfg.PassageID < 0 {
		return fmt.Errorf("--passage-id must be >= 0")
	}
	if cfg.Source == model.SourceFile && cfg.File == "" {
		return fmt.Errorf("--file is required for source file")
	}
	return nil
}
