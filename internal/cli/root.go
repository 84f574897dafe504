// Package cli wires configuration, storage and the todo list into the
// `todo` command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes (0 ok, 1 error, 2 usage).
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks errors caused by how the command was invoked.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// flags holds root flag values; only flags the user set override config.
type flags struct {
	configPath string
	dataDir    string
	backend    string
	key        string
	theme      string
	logLevel   string
	color      string
	ephemeral  bool
}

// app is the per-invocation state shared by subcommands.
type app struct {
	stdout, stderr io.Writer
	flags          flags

	cfg   config.Config
	log   *zap.Logger
	slot  store.Slot
	todos *todo.Store
}

// NewRootCommand builds the command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a tiny todo list",
		Long: `todo keeps a short list of things to do in a local key-value slot
(a JSON file by default, or SQLite). Every change is saved immediately.`,
		Example: `  todo add "Buy milk"
  todo ls
  todo done 2
  todo rm 3
  todo tui`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default: ./tada.toml or user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory holding the storage file")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: json, sqlite, sqlite3, memory")
	pf.StringVar(&a.flags.key, "key", "", "storage key the list is kept under")
	pf.StringVar(&a.flags.theme, "theme", "", "output theme: classic, neon, mono")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.color, "color", "", "colored output: auto, always, never")
	pf.BoolVar(&a.flags.ephemeral, "ephemeral", false, "keep the list in memory only")

	root.AddCommand(
		a.newAddCommand(),
		a.newListCommand(),
		a.newDoneCommand(),
		a.newRemoveCommand(),
		a.newTUICommand(),
	)
	return root
}

// Execute runs the command tree with args and returns the exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	ui.Fail(stderr, err.Error())
	if isUsage(err) {
		fmt.Fprintln(stderr, ui.Dim("Run `todo --help` for usage."))
		return ExitUsage
	}
	return ExitError
}

func isUsage(err error) bool {
	var ue usageError
	if errors.As(err, &ue) {
		return true
	}
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// configure resolves config (defaults < file < env < flags) and the logger.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	pf := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if pf.Changed(name) {
			*dst = v
		}
	}
	override("data-dir", &cfg.DataDir, a.flags.dataDir)
	override("backend", &cfg.Backend, a.flags.backend)
	override("key", &cfg.Key, a.flags.key)
	override("theme", &cfg.Theme, a.flags.theme)
	override("log-level", &cfg.LogLevel, a.flags.logLevel)
	override("color", &cfg.Color, a.flags.color)
	if a.flags.ephemeral {
		cfg.Backend = store.BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return usagef("config: %v", err)
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)
	switch cfg.Color {
	case "always":
		ui.SetColorForcing(true, false)
	case "never":
		ui.SetColorForcing(false, true)
	default:
		ui.SetColorForcing(false, ui.Current().Name == "mono")
	}

	a.log, err = logging.New(cfg.LogLevel, a.stderr)
	if err != nil {
		return usagef("%v", err)
	}
	return nil
}

// withList opens the configured slot, runs fn and closes the slot again.
func (a *app) withList(fn func() error) error {
	if err := a.open(); err != nil {
		return err
	}
	err := fn()
	if cerr := a.close(); cerr != nil && err == nil {
		err = fmt.Errorf("close storage: %w", cerr)
	}
	return err
}

// open loads the list from the configured slot.
func (a *app) open() error {
	slot, err := store.Open(a.cfg.Backend, a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.slot = slot
	a.todos, err = todo.Open(slot, todo.WithKey(a.cfg.Key), todo.WithLogger(a.log))
	if err != nil {
		_ = a.close()
		return fmt.Errorf("load: %w", err)
	}
	fields := []zap.Field{
		zap.String("backend", a.cfg.Backend),
		zap.Int("count", a.todos.Len()),
	}
	if p, ok := slot.(interface{ Path() string }); ok {
		fields = append(fields, zap.String("path", p.Path()))
	}
	a.log.Debug("opened list", fields...)
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.slot == nil {
		return nil
	}
	err := a.slot.Close()
	a.slot = nil
	return err
}
