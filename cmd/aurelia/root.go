package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"aurelia/internal/client"
	"aurelia/internal/config"
	"aurelia/internal/logging"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aurelia",
		Short: "Console for the Aurelia agent workspace",
		Long: `Aurelia is the command-line console for the Aurelia agent workspace.

It manages chat sessions, streams agent answers, stages attachments,
and administers providers, runtime profiles, tool servers, knowledge
bases, and export jobs on the backing server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newSessionsCmd())
	root.AddCommand(newAskCmd())
	root.AddCommand(newToolsCmd())
	root.AddCommand(newProvidersCmd())
	root.AddCommand(newModelsCmd())
	root.AddCommand(newProfilesCmd())
	root.AddCommand(newRolesCmd())
	root.AddCommand(newKBCmd())
	root.AddCommand(newExportJobsCmd())
	return root
}

func newLogger() logging.Logger {
	level := logging.Info
	if cfg, err := config.Load(); err == nil {
		level = logging.ParseLevel(cfg.LogLevel())
	}
	if verbose {
		level = logging.Debug
	}
	return logging.New(os.Stderr, level)
}

func newClient() (*client.Client, error) {
	return client.New(newLogger())
}

// describeErr rewrites API failures for the terminal. An expired credential
// additionally drops the stored token so the next call prompts a clean login.
func describeErr(c *client.Client, err error) error {
	if err == nil {
		return nil
	}
	if client.IsUnauthorized(err) {
		if c != nil {
			_ = c.Logout()
		}
		return errors.New("your session has expired, run 'aurelia login' to sign in again")
	}
	if apiErr := client.AsAPIError(err); apiErr != nil {
		if apiErr.TraceID != "" {
			return fmt.Errorf("%s (trace %s)", apiErr.Message, apiErr.TraceID)
		}
		return errors.New(apiErr.Message)
	}
	return err
}

// The active session id persists across invocations so consecutive asks
// continue the same conversation.
func activeSessionPath() (string, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "active_session"), nil
}

func loadActiveSessionID() string {
	path, err := activeSessionPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func saveActiveSessionID(id string) error {
	path, err := activeSessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(id+"\n"), 0o600)
}

func clearActiveSessionID() {
	path, err := activeSessionPath()
	if err != nil {
		return
	}
	_ = os.Remove(path)
}
