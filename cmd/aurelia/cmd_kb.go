package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"aurelia/internal/client"
	"aurelia/internal/kb"
	"aurelia/internal/types"
)

func newKBCenter() (*kb.Center, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	return kb.NewCenter(c), nil
}

func newKBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage knowledge bases",
	}
	cmd.AddCommand(newKBListCmd())
	cmd.AddCommand(newKBCreateCmd())
	cmd.AddCommand(newKBBuildCmd())
	cmd.AddCommand(newKBDocsCmd())
	cmd.AddCommand(newKBSearchCmd())
	return cmd
}

func newKBListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List knowledge bases",
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newKBCenter()
			if err != nil {
				return err
			}
			if err := center.Load(cmd.Context()); err != nil {
				return describeErr(nil, err)
			}
			bases := center.Bases()
			if len(bases) == 0 {
				fmt.Println(dimStyle.Render("No knowledge bases."))
				return nil
			}
			rows := make([][]string, 0, len(bases))
			for _, base := range bases {
				rows = append(rows, []string{
					idStyle.Render(base.ID),
					base.Name,
					base.Status,
					fmt.Sprintf("%d/%d", base.ChunkSize, base.ChunkOverlap),
					dimStyle.Render(formatAge(base.UpdatedAt)),
				})
			}
			printTable([]string{"ID", "Name", "Status", "Chunk/Overlap", "Updated"}, rows)
			return nil
		},
	}
}

func newKBCreateCmd() *cobra.Command {
	var (
		name         string
		chunkSize    int
		chunkOverlap int
		topK         int
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newKBCenter()
			if err != nil {
				return err
			}
			created, err := center.Create(cmd.Context(), &types.KnowledgeBase{
				Name:         name,
				ChunkSize:    chunkSize,
				ChunkOverlap: chunkOverlap,
				TopK:         topK,
			})
			if err != nil {
				return describeErr(nil, err)
			}
			fmt.Printf("Created knowledge base %s\n", idStyle.Render(created.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "knowledge base name")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 512, "chunk size in tokens")
	cmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 64, "chunk overlap in tokens")
	cmd.Flags().IntVar(&topK, "top-k", 5, "retrieval candidate count")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newKBBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <kb-id> <file> [file...]",
		Short: "Index documents into a knowledge base",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newKBCenter()
			if err != nil {
				return err
			}
			if err := center.Load(cmd.Context()); err != nil {
				return describeErr(nil, err)
			}
			if err := center.Select(cmd.Context(), args[0]); err != nil {
				return describeErr(nil, err)
			}
			if center.ActiveID() != args[0] {
				return fmt.Errorf("no knowledge base with id %s", args[0])
			}

			docs := make([]client.KBBuildDocument, 0, len(args)-1)
			for _, path := range args[1:] {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				docs = append(docs, client.KBBuildDocument{
					Title:   filepath.Base(path),
					Content: string(data),
				})
			}

			result, err := center.Build(cmd.Context(), docs)
			if err != nil {
				return describeErr(nil, err)
			}
			fmt.Printf("Indexed %d document(s) into %d chunk(s), status %s\n",
				result.Documents, result.Chunks, result.Status)
			return nil
		},
	}
}

func newKBDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docs <kb-id>",
		Short: "List a knowledge base's documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newKBCenter()
			if err != nil {
				return err
			}
			if err := center.Load(cmd.Context()); err != nil {
				return describeErr(nil, err)
			}
			if err := center.Select(cmd.Context(), args[0]); err != nil {
				return describeErr(nil, err)
			}
			if center.ActiveID() != args[0] {
				return fmt.Errorf("no knowledge base with id %s", args[0])
			}
			docs := center.Documents()
			if len(docs) == 0 {
				fmt.Println(dimStyle.Render("No documents indexed."))
				return nil
			}
			rows := make([][]string, 0, len(docs))
			for _, doc := range docs {
				rows = append(rows, []string{
					idStyle.Render(doc.ID),
					truncate(doc.Title, 50),
					doc.Status,
					fmt.Sprintf("%d", doc.Chunks),
				})
			}
			printTable([]string{"ID", "Title", "Status", "Chunks"}, rows)
			return nil
		},
	}
}

func newKBSearchCmd() *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "search <kb-id> <query>",
		Short: "Run a retrieval query against a knowledge base",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newKBCenter()
			if err != nil {
				return err
			}
			if err := center.Load(cmd.Context()); err != nil {
				return describeErr(nil, err)
			}
			if err := center.Select(cmd.Context(), args[0]); err != nil {
				return describeErr(nil, err)
			}
			if center.ActiveID() != args[0] {
				return fmt.Errorf("no knowledge base with id %s", args[0])
			}

			hits, err := center.Search(cmd.Context(), args[1], topK)
			if err != nil {
				return describeErr(nil, err)
			}
			if len(hits) == 0 {
				fmt.Println(dimStyle.Render("No matches."))
				return nil
			}
			for i, hit := range hits {
				fmt.Printf("%s %s %s\n%s\n\n",
					headerStyle.Render(fmt.Sprintf("#%d", i+1)),
					dimStyle.Render(fmt.Sprintf("score %.3f", hit.Score)),
					idStyle.Render(hit.DocumentID),
					truncate(hit.Text, 400))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&topK, "top-k", 0, "number of results (default: knowledge base setting)")
	return cmd
}
