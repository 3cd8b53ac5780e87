package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"aurelia/internal/client"
	"aurelia/internal/config"
	"aurelia/internal/types"
)

func newExportJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "Manage server-side export jobs",
	}
	cmd.AddCommand(newExportsListCmd())
	cmd.AddCommand(newExportsCreateCmd())
	cmd.AddCommand(newExportsShowCmd())
	cmd.AddCommand(newExportsRemoveCmd())
	cmd.AddCommand(newExportsDownloadCmd())
	return cmd
}

func newExportsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List export jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			jobs, err := c.ListExportJobs(cmd.Context())
			if err != nil {
				return describeErr(c, err)
			}
			if len(jobs) == 0 {
				fmt.Println(dimStyle.Render("No export jobs."))
				return nil
			}
			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					idStyle.Render(job.ID),
					renderJobStatus(job.Status),
					strings.Join(job.ExportTypes, ","),
					job.MemberScope,
					dimStyle.Render(formatAge(job.CreatedAt)),
				})
			}
			printTable([]string{"ID", "Status", "Types", "Scope", "Created"}, rows)
			return nil
		},
	}
}

func newExportsCreateCmd() *cobra.Command {
	var (
		scope       string
		exportTypes []string
		rawFiles    bool
		sanitized   bool
		chatLimit   int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start an export job",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			job, err := c.CreateExportJob(cmd.Context(), client.CreateExportJobRequest{
				MemberScope:          scope,
				ExportTypes:          exportTypes,
				IncludeRawFile:       rawFiles,
				IncludeSanitizedText: sanitized,
				Filters:              types.ExportFilters{ChatLimit: chatLimit},
			})
			if err != nil {
				return describeErr(c, err)
			}
			fmt.Printf("Started export job %s (%s)\n", idStyle.Render(job.ID), job.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "self", "member scope to export")
	cmd.Flags().StringSliceVar(&exportTypes, "type", []string{"chat"}, "export type (repeatable)")
	cmd.Flags().BoolVar(&rawFiles, "raw-files", false, "include original uploaded files")
	cmd.Flags().BoolVar(&sanitized, "sanitized-text", true, "include sanitized document text")
	cmd.Flags().IntVar(&chatLimit, "chat-limit", 0, "cap on exported chat sessions (0 = all)")
	return cmd
}

func newExportsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show an export job's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			job, err := c.GetExportJob(cmd.Context(), args[0])
			if err != nil {
				return describeErr(c, err)
			}
			fmt.Printf("Job %s\n", idStyle.Render(job.ID))
			fmt.Printf("  Status:  %s\n", renderJobStatus(job.Status))
			fmt.Printf("  Types:   %s\n", strings.Join(job.ExportTypes, ", "))
			fmt.Printf("  Scope:   %s\n", job.MemberScope)
			fmt.Printf("  Created: %s\n", job.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newExportsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <job-id>",
		Short: "Delete an export job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.DeleteExportJob(cmd.Context(), args[0]); err != nil {
				return describeErr(c, err)
			}
			fmt.Printf("Deleted export job %s\n", args[0])
			return nil
		},
	}
}

func newExportsDownloadCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "download <job-id>",
		Short: "Download a finished export job's archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			data, err := c.DownloadExportJob(cmd.Context(), args[0])
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
				path = filepath.Join(downloads, fmt.Sprintf("export-%s.zip", args[0]))
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path")
	return cmd
}

func renderJobStatus(status types.ExportJobStatus) string {
	switch status {
	case types.ExportJobDone:
		return activeStyle.Render(string(status))
	case types.ExportJobFailed:
		return errorStyle.Render(string(status))
	default:
		return dimStyle.Render(string(status))
	}
}
