package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a new item (text can be multiple words)",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("usage: todo add <text...>")
			}
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withList(func() error {
				t, err := a.todos.Add(strings.Join(args, " "))
				if err != nil {
					return a.notSaved(err)
				}
				if t.IsZero() {
					fmt.Fprintln(a.stdout, ui.Dim("nothing to add"))
					return nil
				}
				ui.OK(a.stdout, "added")
				return nil
			})
		},
	}
}

func (a *app) newListCommand() *cobra.Command {
	var (
		group       bool
		output      string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    noArgs("ls"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interactive {
				return a.runTUI()
			}
			if !cmd.Flags().Changed("group") {
				group = a.cfg.Group
			}
			return a.withList(func() error {
				switch output {
				case "text":
					renderList(a.stdout, a.todos.Todos(), group)
				case "json":
					b, err := json.MarshalIndent(a.todos.Todos(), "", "  ")
					if err != nil {
						return fmt.Errorf("json marshal: %w", err)
					}
					fmt.Fprintln(a.stdout, string(b))
				case "yaml":
					b, err := yaml.Marshal(a.todos.Todos())
					if err != nil {
						return fmt.Errorf("yaml marshal: %w", err)
					}
					fmt.Fprint(a.stdout, string(b))
				default:
					return usagef("ls: unknown output %q (want text, json or yaml)", output)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json, yaml")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the interactive list")
	return cmd
}

func (a *app) newDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done <index|id>",
		Short: "Toggle done for the item at a 1-based index (or with an id)",
		Args:  oneArg("done <index|id>"),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withList(func() error {
				found, err := a.todos.Toggle(resolveID(a.todos, args[0]))
				if err != nil {
					return a.notSaved(err)
				}
				if !found {
					a.noMatch(args[0])
					return nil
				}
				ui.OK(a.stdout, "toggled")
				return nil
			})
		},
	}
}

func (a *app) newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index|id>",
		Aliases: []string{"delete"},
		Short:   "Remove the item at a 1-based index (or with an id)",
		Args:    oneArg("rm <index|id>"),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.withList(func() error {
				found, err := a.todos.Delete(resolveID(a.todos, args[0]))
				if err != nil {
					return a.notSaved(err)
				}
				if !found {
					a.noMatch(args[0])
					return nil
				}
				ui.OK(a.stdout, "removed")
				return nil
			})
		},
	}
}

func (a *app) newTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list (space toggles, d deletes, a adds)",
		Args:  noArgs("tui"),
		RunE: func(*cobra.Command, []string) error {
			return a.runTUI()
		},
	}
}

// runTUI logs to a file while the alternate screen owns the terminal.
func (a *app) runTUI() error {
	if a.cfg.Backend == store.BackendMemory {
		a.log = zap.NewNop()
	} else {
		log, closeLog, err := logging.NewFile(a.cfg.LogLevel, a.cfg.DataDir)
		if err != nil {
			return err
		}
		defer closeLog()
		a.log = log
	}
	return a.withList(func() error {
		if err := tui.Run(a.todos, a.log); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	})
}

// resolveID maps a 1-based index within range to that item's id; any other
// argument is taken as an id.
func resolveID(s *todo.Store, arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= s.Len() {
		return s.Todos()[n-1].ID
	}
	return arg
}

// notSaved marks a failed write. The change was applied in memory but this
// process ends with it, so the command fails; Execute prints the message.
func (a *app) notSaved(err error) error {
	var perr *todo.PersistError
	if errors.As(err, &perr) {
		return fmt.Errorf("change not saved: %w", err)
	}
	return err
}

func (a *app) noMatch(arg string) {
	fmt.Fprintln(a.stdout, ui.Dim(fmt.Sprintf("no item matches %q (have %d); nothing changed", arg, a.todos.Len())))
	fmt.Fprintln(a.stdout, ui.Dim("Hint: run `todo ls` to see valid indexes"))
}

func noArgs(name string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != 0 {
			return usagef("usage: todo %s", name)
		}
		return nil
	}
}

func oneArg(usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usagef("usage: todo %s", usage)
		}
		return nil
	}
}
