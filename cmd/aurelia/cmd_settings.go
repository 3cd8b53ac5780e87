package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aurelia/internal/settings"
	"aurelia/internal/types"
)

func newSettingsCenter() (*settings.Center, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	return settings.NewCenter(c), nil
}

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage MCP tool servers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered tool servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newSettingsCenter()
			if err != nil {
				return err
			}
			if err := center.Load(cmd.Context()); err != nil {
				return describeErr(nil, err)
			}
			bindings := center.ToolBindings()
			if len(bindings) == 0 {
				fmt.Println(dimStyle.Render("No tool servers registered."))
				return nil
			}
			rows := make([][]string, 0, len(bindings))
			for _, binding := range bindings {
				state := dimStyle.Render("disabled")
				if binding.Enabled {
					state = activeStyle.Render("enabled")
				}
				rows = append(rows, []string{
					idStyle.Render(binding.ID),
					binding.Name,
					truncate(binding.Endpoint, 40),
					state,
				})
			}
			printTable([]string{"ID", "Name", "Endpoint", "State"}, rows)
			return nil
		},
	})

	var (
		name     string
		endpoint string
		authType string
		timeout  int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a tool server",
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newSettingsCenter()
			if err != nil {
				return err
			}
			binding, err := center.CreateToolBinding(cmd.Context(), &types.ToolBinding{
				Name:      name,
				Endpoint:  endpoint,
				AuthType:  authType,
				Enabled:   true,
				TimeoutMS: timeout,
			})
			if err != nil {
				return describeErr(nil, err)
			}
			fmt.Printf("Registered tool server %s\n", idStyle.Render(binding.ID))
			return nil
		},
	}
	add.Flags().StringVarP(&name, "name", "n", "", "server name")
	add.Flags().StringVarP(&endpoint, "endpoint", "e", "", "server endpoint URL")
	add.Flags().StringVar(&authType, "auth", "none", "auth type")
	add.Flags().IntVar(&timeout, "timeout-ms", 30000, "call timeout in milliseconds")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("endpoint")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "bind-qa <tool-id> [tool-id...]",
		Short: "Set the global tool servers for the QA agent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newSettingsCenter()
			if err != nil {
				return err
			}
			if err := center.BindQAAgent(cmd.Context(), args); err != nil {
				return describeErr(nil, err)
			}
			fmt.Printf("QA agent now uses %d tool server(s)\n", len(args))
			return nil
		},
	})
	return cmd
}

func newProvidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Manage model providers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newSettingsCenter()
			if err != nil {
				return err
			}
			if err := center.Load(cmd.Context()); err != nil {
				return describeErr(nil, err)
			}
			providers := center.Providers()
			if len(providers) == 0 {
				fmt.Println(dimStyle.Render("No providers configured."))
				return nil
			}
			rows := make([][]string, 0, len(providers))
			for _, provider := range providers {
				state := dimStyle.Render("disabled")
				if provider.Enabled {
					state = activeStyle.Render("enabled")
				}
				rows = append(rows, []string{
					idStyle.Render(provider.ID),
					provider.ProviderName,
					truncate(provider.BaseURL, 40),
					state,
				})
			}
			printTable([]string{"ID", "Provider", "Base URL", "State"}, rows)
			return nil
		},
	})

	var (
		name    string
		baseURL string
		apiKey  string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Configure a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newSettingsCenter()
			if err != nil {
				return err
			}
			provider, err := center.CreateProvider(cmd.Context(), &types.Provider{
				ProviderName: name,
				BaseURL:      baseURL,
				APIKey:       apiKey,
				Enabled:      true,
			})
			if err != nil {
				return describeErr(nil, err)
			}
			fmt.Printf("Configured provider %s\n", idStyle.Render(provider.ID))
			return nil
		},
	}
	add.Flags().StringVarP(&name, "name", "n", "", "provider name")
	add.Flags().StringVar(&baseURL, "base-url", "", "API base URL")
	add.Flags().StringVar(&apiKey, "api-key", "", "API key")
	_ = add.MarkFlagRequired("name")
	cmd.AddCommand(add)
	return cmd
}

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Browse the model catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newSettingsCenter()
			if err != nil {
				return err
			}
			if err := center.Load(cmd.Context()); err != nil {
				return describeErr(nil, err)
			}
			entries := center.ModelCatalog()
			if len(entries) == 0 {
				fmt.Println(dimStyle.Render("Model catalog is empty."))
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					idStyle.Render(entry.ID),
					entry.ModelName,
					entry.Kind,
					dimStyle.Render(entry.ProviderID),
				})
			}
			printTable([]string{"ID", "Model", "Kind", "Provider"}, rows)
			return nil
		},
	})

	var manual []string
	refresh := &cobra.Command{
		Use:   "refresh <provider-id>",
		Short: "Re-read a provider's model list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newSettingsCenter()
			if err != nil {
				return err
			}
			if err := center.RefreshModels(cmd.Context(), args[0], manual); err != nil {
				return describeErr(nil, err)
			}
			fmt.Printf("Catalog now has %d entries\n", len(center.ModelCatalog()))
			return nil
		},
	}
	refresh.Flags().StringSliceVar(&manual, "model", nil, "model name to add manually (repeatable)")
	cmd.AddCommand(refresh)
	return cmd
}

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage runtime profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List runtime profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newSettingsCenter()
			if err != nil {
				return err
			}
			if err := center.Load(cmd.Context()); err != nil {
				return describeErr(nil, err)
			}
			profiles := center.RuntimeProfiles()
			if len(profiles) == 0 {
				fmt.Println(dimStyle.Render("No runtime profiles."))
				return nil
			}
			rows := make([][]string, 0, len(profiles))
			for _, profile := range profiles {
				marker := " "
				if profile.IsDefault {
					marker = activeStyle.Render("*")
				}
				rows = append(rows, []string{
					marker,
					idStyle.Render(profile.ID),
					profile.Name,
					dimStyle.Render(profile.LLMModelID),
				})
			}
			printTable([]string{"", "ID", "Name", "LLM Model"}, rows)
			return nil
		},
	})

	var (
		name        string
		llmModel    string
		embedModel  string
		rerankModel string
		temperature float64
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a runtime profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := newSettingsCenter()
			if err != nil {
				return err
			}
			profile := &types.RuntimeProfile{
				Name:             name,
				LLMModelID:       llmModel,
				EmbeddingModelID: embedModel,
				RerankerModelID:  rerankModel,
			}
			if cmd.Flags().Changed("temperature") {
				profile.Params = map[string]any{"temperature": temperature}
			}
			created, err := center.CreateRuntimeProfile(cmd.Context(), profile)
			if err != nil {
				return describeErr(nil, err)
			}
			fmt.Printf("Created runtime profile %s\n", idStyle.Render(created.ID))
			return nil
		},
	}
	add.Flags().StringVarP(&name, "name", "n", "", "profile name")
	add.Flags().StringVar(&llmModel, "llm-model", "", "chat model catalog id")
	add.Flags().StringVar(&embedModel, "embedding-model", "", "embedding model catalog id")
	add.Flags().StringVar(&rerankModel, "reranker-model", "", "reranker model catalog id")
	add.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature")
	_ = add.MarkFlagRequired("name")
	cmd.AddCommand(add)
	return cmd
}

func newRolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Browse agent roles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available agent roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			roles, err := c.ListAgentRoles(cmd.Context())
			if err != nil {
				return describeErr(c, err)
			}
			if len(roles) == 0 {
				fmt.Println(dimStyle.Render("No agent roles defined."))
				return nil
			}
			rows := make([][]string, 0, len(roles))
			for _, role := range roles {
				rows = append(rows, []string{
					idStyle.Render(role.ID),
					role.Name,
					dimStyle.Render(truncate(role.Prompt, 60)),
				})
			}
			printTable([]string{"ID", "Name", "Prompt"}, rows)
			return nil
		},
	})
	return cmd
}
