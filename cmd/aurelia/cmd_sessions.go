package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"aurelia/internal/config"
	"aurelia/internal/export"
	"aurelia/internal/types"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage chat sessions",
	}
	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsNewCmd())
	cmd.AddCommand(newSessionsUseCmd())
	cmd.AddCommand(newSessionsEditCmd())
	cmd.AddCommand(newSessionsCopyCmd())
	cmd.AddCommand(newSessionsBranchCmd())
	cmd.AddCommand(newSessionsRemoveCmd())
	cmd.AddCommand(newSessionsShowCmd())
	cmd.AddCommand(newSessionsExportCmd())
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			sessions, err := c.ListSessions(cmd.Context())
			if err != nil {
				return describeErr(c, err)
			}
			if len(sessions) == 0 {
				fmt.Println(dimStyle.Render("No sessions yet. Create one with 'aurelia sessions new'."))
				return nil
			}

			activeID := loadActiveSessionID()
			rows := make([][]string, 0, len(sessions))
			for _, session := range sessions {
				marker := " "
				if session.ID == activeID {
					marker = activeStyle.Render("*")
				}
				title := session.Title
				if title == "" {
					title = "Untitled"
				}
				rows = append(rows, []string{
					marker,
					idStyle.Render(session.ID),
					truncate(title, 50),
					string(session.Reasoning),
					dimStyle.Render(formatAge(session.UpdatedAt)),
				})
			}
			fmt.Println(headerStyle.Render(fmt.Sprintf("%d session(s)", len(sessions))))
			printTable([]string{"", "ID", "Title", "Reasoning", "Updated"}, rows)
			return nil
		},
	}
}

func newSessionsNewCmd() *cobra.Command {
	var (
		title     string
		profileID string
		roleID    string
		prompt    string
		reasoning string
		toolIDs   []string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a session and make it active",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			cfg := types.SessionConfig{DefaultToolIDs: toolIDs}
			if title != "" {
				cfg.Title = &title
			}
			if profileID != "" {
				cfg.RuntimeProfileID = &profileID
			}
			if roleID != "" {
				cfg.RoleID = &roleID
			}
			if prompt != "" {
				cfg.BackgroundPrompt = &prompt
			}
			if reasoning != "" {
				mode := types.ReasoningMode(reasoning)
				cfg.Reasoning = &mode
			}

			session, err := c.CreateSession(cmd.Context(), cfg)
			if err != nil {
				return describeErr(c, err)
			}
			if err := saveActiveSessionID(session.ID); err != nil {
				return err
			}
			fmt.Printf("Created session %s\n", idStyle.Render(session.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "session title")
	cmd.Flags().StringVar(&profileID, "profile", "", "runtime profile id")
	cmd.Flags().StringVar(&roleID, "role", "", "agent role id")
	cmd.Flags().StringVar(&prompt, "background", "", "background prompt")
	cmd.Flags().StringVar(&reasoning, "reasoning", "", "reasoning mode: enabled, disabled, or auto")
	cmd.Flags().StringSliceVar(&toolIDs, "tool", nil, "default-enabled tool server id (repeatable)")
	return cmd
}

func newSessionsUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <session-id>",
		Short: "Make a session the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			sessions, err := c.ListSessions(cmd.Context())
			if err != nil {
				return describeErr(c, err)
			}
			for _, session := range sessions {
				if session.ID == args[0] {
					if err := saveActiveSessionID(session.ID); err != nil {
						return err
					}
					fmt.Printf("Active session is now %s\n", idStyle.Render(session.ID))
					return nil
				}
			}
			return fmt.Errorf("no session with id %s", args[0])
		},
	}
}

func newSessionsEditCmd() *cobra.Command {
	var (
		title         string
		reasoning     string
		budget        int
		showReasoning bool
		toolIDs       []string
	)
	cmd := &cobra.Command{
		Use:   "edit <session-id>",
		Short: "Update session settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			var cfg types.SessionConfig
			if cmd.Flags().Changed("title") {
				cfg.Title = &title
			}
			if cmd.Flags().Changed("reasoning") {
				mode := types.ReasoningMode(reasoning)
				cfg.Reasoning = &mode
			}
			if cmd.Flags().Changed("reasoning-budget") {
				cfg.ReasoningBudget = &budget
			}
			if cmd.Flags().Changed("show-reasoning") {
				cfg.ShowReasoning = &showReasoning
			}
			if cmd.Flags().Changed("tool") {
				cfg.DefaultToolIDs = toolIDs
			}

			session, err := c.UpdateSession(cmd.Context(), args[0], cfg)
			if err != nil {
				return describeErr(c, err)
			}
			fmt.Printf("Updated session %s\n", idStyle.Render(session.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "session title")
	cmd.Flags().StringVar(&reasoning, "reasoning", "", "reasoning mode: enabled, disabled, or auto")
	cmd.Flags().IntVar(&budget, "reasoning-budget", 0, "reasoning token budget")
	cmd.Flags().BoolVar(&showReasoning, "show-reasoning", false, "surface reasoning text")
	cmd.Flags().StringSliceVar(&toolIDs, "tool", nil, "default-enabled tool server id (repeatable)")
	return cmd
}

func newSessionsCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <session-id>",
		Short: "Duplicate a session's settings without its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			session, err := c.CopySession(cmd.Context(), args[0])
			if err != nil {
				return describeErr(c, err)
			}
			fmt.Printf("Copied to new session %s\n", idStyle.Render(session.ID))
			return nil
		},
	}
}

func newSessionsBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branch <session-id>",
		Short: "Fork a session including its message history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			session, err := c.BranchSession(cmd.Context(), args[0])
			if err != nil {
				return describeErr(c, err)
			}
			fmt.Printf("Branched to new session %s\n", idStyle.Render(session.ID))
			return nil
		},
	}
}

func newSessionsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <session-id> [session-id...]",
		Short: "Delete one or more sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			activeID := loadActiveSessionID()

			if len(args) == 1 {
				if err := c.DeleteSession(cmd.Context(), args[0]); err != nil {
					return describeErr(c, err)
				}
				if args[0] == activeID {
					clearActiveSessionID()
				}
				fmt.Printf("Deleted session %s\n", args[0])
				return nil
			}

			result, err := c.DeleteSessions(cmd.Context(), args)
			if err != nil {
				return describeErr(c, err)
			}
			for _, id := range result.Deleted {
				if id == activeID {
					clearActiveSessionID()
				}
				fmt.Printf("Deleted session %s\n", id)
			}
			for _, failure := range result.Failed {
				fmt.Println(errorStyle.Render(fmt.Sprintf("Failed to delete %s: %s", failure.ID, failure.Message)))
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d of %d deletions failed", len(result.Failed), len(args))
			}
			return nil
		},
	}
}

func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [session-id]",
		Short: "Print a session's message timeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			id := loadActiveSessionID()
			if len(args) == 1 {
				id = args[0]
			}
			if id == "" {
				return fmt.Errorf("no active session, pass a session id or run 'aurelia sessions use'")
			}
			messages, err := c.ListMessages(cmd.Context(), id)
			if err != nil {
				return describeErr(c, err)
			}
			if len(messages) == 0 {
				fmt.Println(dimStyle.Render("No messages yet."))
				return nil
			}
			for _, msg := range messages {
				role := titleStyle.Render(string(msg.Role))
				stamp := dimStyle.Render(msg.CreatedAt.Format("15:04:05"))
				fmt.Printf("%s %s\n%s\n\n", role, stamp, msg.Content)
			}
			return nil
		},
	}
}

func newSessionsExportCmd() *cobra.Command {
	var (
		format string
		out    string
		bulk   bool
	)
	cmd := &cobra.Command{
		Use:   "export <session-id> [session-id...]",
		Short: "Export sessions to a file",
		Long: `Export renders a session's timeline locally in json, md, or yaml.
With --bulk the server packages all named sessions into one archive.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if format == "" {
				if cfg, err := config.Load(); err == nil {
					format = cfg.ExportFormat()
				} else {
					format = "md"
				}
			}

			if bulk {
				data, err := c.BulkExportSessions(cmd.Context(), args)
				if err != nil {
					return describeErr(c, err)
				}
				path := out
				if path == "" {
					downloads, err := config.DownloadsDir()
					if err != nil {
						return err
					}
					if err := os.MkdirAll(downloads, 0o700); err != nil {
						return err
					}
					path = filepath.Join(downloads, fmt.Sprintf("sessions-%s.zip", time.Now().Format("20060102-150405")))
				}
				if err := os.WriteFile(path, data, 0o600); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", path)
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("exporting multiple sessions requires --bulk")
			}
			exporter, err := export.NewExporter(format)
			if err != nil {
				return err
			}

			id := args[0]
			sessions, err := c.ListSessions(cmd.Context())
			if err != nil {
				return describeErr(c, err)
			}
			var session *types.Session
			for _, s := range sessions {
				if s.ID == id {
					session = s
					break
				}
			}
			if session == nil {
				return fmt.Errorf("no session with id %s", id)
			}
			messages, err := c.ListMessages(cmd.Context(), id)
			if err != nil {
				return describeErr(c, err)
			}

			path := out
			if path == "" {
				path = fmt.Sprintf("session-%s.%s", id, exporter.Extension())
			}
			file, err := os.Create(path)
			if err != nil {
				return err
			}
			defer file.Close()
			if err := exporter.Export(session, messages, file); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, md, or yaml (default from config)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path")
	cmd.Flags().BoolVar(&bulk, "bulk", false, "server-side archive export of all named sessions")
	return cmd
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
