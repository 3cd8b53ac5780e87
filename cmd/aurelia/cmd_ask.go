package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"aurelia/internal/chat"
	"aurelia/internal/types"
)

func newAskCmd() *cobra.Command {
	var (
		sessionID   string
		toolIDs     []string
		attachments []string
		noStream    bool
	)
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the agent a question in the active session",
		Long: `Ask submits a question against the active session and prints the
agent's answer. By default the answer streams in as it is generated;
--no-stream waits for the complete result instead.

Files named with --attach are uploaded first and consumed by this
question. A question may be empty when at least one file is attached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := ""
			if len(args) == 1 {
				question = args[0]
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			coord := chat.NewCoordinator(c, newLogger())
			if err := coord.Load(cmd.Context()); err != nil {
				return describeErr(c, err)
			}

			id := sessionID
			if id == "" {
				id = loadActiveSessionID()
			}
			if id == "" {
				session, err := coord.CreateSession(cmd.Context(), types.SessionConfig{})
				if err != nil {
					return describeErr(c, err)
				}
				id = session.ID
				fmt.Println(dimStyle.Render("Started session " + id))
			} else if err := coord.SelectSession(cmd.Context(), id); err != nil {
				return describeErr(c, err)
			}
			if coord.ActiveSessionID() != id {
				return fmt.Errorf("no session with id %s", id)
			}
			if err := saveActiveSessionID(id); err != nil {
				return err
			}

			for _, path := range attachments {
				file, err := os.Open(path)
				if err != nil {
					return err
				}
				ref, err := coord.Upload(cmd.Context(), filepath.Base(path), file)
				file.Close()
				if err != nil {
					return describeErr(c, err)
				}
				fmt.Println(dimStyle.Render("Attached " + ref.FileName))
			}

			if noStream {
				result, err := coord.Ask(cmd.Context(), question, toolIDs)
				if err != nil {
					return describeErr(c, err)
				}
				session := coord.ActiveSession()
				if session != nil && session.ShowReasoning && result.Reasoning != "" {
					fmt.Println(dimStyle.Render(result.Reasoning))
					fmt.Println()
				}
				fmt.Println(result.Answer)
				return nil
			}

			showReasoning := false
			if session := coord.ActiveSession(); session != nil {
				showReasoning = session.ShowReasoning
			}
			printer := newStreamPrinter(showReasoning)
			if err := coord.Stream(cmd.Context(), question, toolIDs, printer.update); err != nil {
				printer.finish()
				return describeErr(c, err)
			}
			printer.finish()
			return nil
		},
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id (default: active session)")
	cmd.Flags().StringSliceVar(&toolIDs, "tool", nil, "tool server id enabled for this question only (repeatable)")
	cmd.Flags().StringSliceVarP(&attachments, "attach", "a", nil, "file to upload and attach (repeatable)")
	cmd.Flags().BoolVar(&noStream, "no-stream", false, "wait for the complete answer")
	return cmd
}

// streamPrinter renders buffer snapshots incrementally: each update prints
// only the text added since the previous one, reasoning before answer.
type streamPrinter struct {
	showReasoning bool
	reasoningLen  int
	answerLen     int
	inAnswer      bool
}

func newStreamPrinter(showReasoning bool) *streamPrinter {
	return &streamPrinter{showReasoning: showReasoning}
}

func (p *streamPrinter) update(buf chat.Buffers) {
	if p.showReasoning && len(buf.Reasoning) > p.reasoningLen && !p.inAnswer {
		fmt.Print(dimStyle.Render(buf.Reasoning[p.reasoningLen:]))
		p.reasoningLen = len(buf.Reasoning)
	}
	if len(buf.Answer) > p.answerLen {
		if !p.inAnswer {
			if p.showReasoning && p.reasoningLen > 0 {
				fmt.Print("\n\n")
			}
			p.inAnswer = true
		}
		fmt.Print(buf.Answer[p.answerLen:])
		p.answerLen = len(buf.Answer)
	}
}

func (p *streamPrinter) finish() {
	if p.reasoningLen > 0 || p.answerLen > 0 {
		fmt.Println()
	}
}
