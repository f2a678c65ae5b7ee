package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// modeFlag is a --mode flag restricted to the known progress modes. Empty
// means the configured default.
type modeFlag struct {
	mode domain.ProgressMode
}

var _ pflag.Value = (*modeFlag)(nil)

func (f *modeFlag) String() string { return string(f.mode) }

func (f *modeFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidProgressModes[s] {
		return fmt.Errorf("must be one of average, completion")
	}
	f.mode = domain.ProgressMode(s)
	return nil
}

func (f *modeFlag) Type() string { return "mode" }

// statusFlag is an optional --status override.
type statusFlag struct {
	status *domain.NodeStatus
}

var _ pflag.Value = (*statusFlag)(nil)

func (f *statusFlag) String() string {
	if f.status == nil {
		return ""
	}
	return string(*f.status)
}

func (f *statusFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidStatuses[s] {
		return fmt.Errorf("must be one of pending, in_progress, completed")
	}
	st := domain.NodeStatus(s)
	f.status = &st
	return nil
}

func (f *statusFlag) Type() string { return "status" }

var errNotConfirmed = errors.New("aborted")

// confirm asks before a destructive action. Without a terminal it refuses
// unless yes was passed.
func confirm(app *App, yes bool, title string) error {
	if yes {
		return nil
	}
	if app.IsInteractive == nil || !app.IsInteractive() {
		return fmt.Errorf("refusing to continue without confirmation: pass --yes")
	}
	ask := app.Confirm
	if ask == nil {
		ask = huhConfirm
	}
	ok, err := ask(title)
	if err != nil {
		return err
	}
	if !ok {
		return errNotConfirmed
	}
	return nil
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithShowHelp(false).Run()
	return ok, err
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput reads a file argument, or stdin when the argument is "-" or absent.
func readInput(cmd *cobra.Command, args []string, idx int) (string, error) {
	if len(args) <= idx || args[idx] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[idx])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[idx], err)
	}
	return string(data), nil
}
