package settings

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"aurelia/internal/client"
	"aurelia/internal/types"
)

// API is the administrative backend surface the settings center uses.
// *client.Client satisfies it.
type API interface {
	ListProviders(ctx context.Context) ([]*types.Provider, error)
	CreateProvider(ctx context.Context, provider *types.Provider) (*types.Provider, error)
	RefreshProviderModels(ctx context.Context, providerID string, req client.RefreshModelsRequest) ([]*types.ModelCatalogEntry, error)
	ListModelCatalog(ctx context.Context) ([]*types.ModelCatalogEntry, error)
	ListRuntimeProfiles(ctx context.Context) ([]*types.RuntimeProfile, error)
	CreateRuntimeProfile(ctx context.Context, profile *types.RuntimeProfile) (*types.RuntimeProfile, error)
	ListToolBindings(ctx context.Context) ([]*types.ToolBinding, error)
	CreateToolBinding(ctx context.Context, binding *types.ToolBinding) (*types.ToolBinding, error)
	UpdateQABindings(ctx context.Context, bindingIDs []string) error
}

var _ API = (*client.Client)(nil)

// Center keeps a local read-through view of the provider, model, profile,
// and tool-binding catalogs. Writes round-trip to the server and then
// re-read the affected list; nothing is patched locally first.
type Center struct {
	mu  sync.Mutex
	api API

	providers []*types.Provider
	catalog   []*types.ModelCatalogEntry
	profiles  []*types.RuntimeProfile
	bindings  []*types.ToolBinding
}

func NewCenter(api API) *Center {
	return &Center{api: api}
}

// Load fetches all four catalogs in parallel and replaces the local view.
func (c *Center) Load(ctx context.Context) error {
	var (
		providers []*types.Provider
		catalog   []*types.ModelCatalogEntry
		profiles  []*types.RuntimeProfile
		bindings  []*types.ToolBinding
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		providers, err = c.api.ListProviders(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		catalog, err = c.api.ListModelCatalog(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		profiles, err = c.api.ListRuntimeProfiles(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		bindings, err = c.api.ListToolBindings(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.providers = providers
	c.catalog = catalog
	c.profiles = profiles
	c.bindings = bindings
	c.mu.Unlock()
	return nil
}

func (c *Center) Providers() []*types.Provider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.Provider{}, c.providers...)
}

func (c *Center) ModelCatalog() []*types.ModelCatalogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.ModelCatalogEntry{}, c.catalog...)
}

func (c *Center) RuntimeProfiles() []*types.RuntimeProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.RuntimeProfile{}, c.profiles...)
}

func (c *Center) ToolBindings() []*types.ToolBinding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.ToolBinding{}, c.bindings...)
}

func (c *Center) CreateProvider(ctx context.Context, provider *types.Provider) (*types.Provider, error) {
	created, err := c.api.CreateProvider(ctx, provider)
	if err != nil {
		return nil, err
	}
	providers, err := c.api.ListProviders(ctx)
	if err != nil {
		return created, err
	}
	c.mu.Lock()
	c.providers = providers
	c.mu.Unlock()
	return created, nil
}

// RefreshModels re-reads the provider's model list (merging manual names)
// and replaces the local catalog with the result.
func (c *Center) RefreshModels(ctx context.Context, providerID string, manual []string) error {
	catalog, err := c.api.RefreshProviderModels(ctx, providerID, client.RefreshModelsRequest{ManualModels: manual})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.catalog = catalog
	c.mu.Unlock()
	return nil
}

func (c *Center) CreateRuntimeProfile(ctx context.Context, profile *types.RuntimeProfile) (*types.RuntimeProfile, error) {
	created, err := c.api.CreateRuntimeProfile(ctx, profile)
	if err != nil {
		return nil, err
	}
	profiles, err := c.api.ListRuntimeProfiles(ctx)
	if err != nil {
		return created, err
	}
	c.mu.Lock()
	c.profiles = profiles
	c.mu.Unlock()
	return created, nil
}

func (c *Center) CreateToolBinding(ctx context.Context, binding *types.ToolBinding) (*types.ToolBinding, error) {
	created, err := c.api.CreateToolBinding(ctx, binding)
	if err != nil {
		return nil, err
	}
	bindings, err := c.api.ListToolBindings(ctx)
	if err != nil {
		return created, err
	}
	c.mu.Lock()
	c.bindings = bindings
	c.mu.Unlock()
	return created, nil
}

// BindQAAgent replaces the global tool-binding set for the QA agent.
func (c *Center) BindQAAgent(ctx context.Context, bindingIDs []string) error {
	if len(bindingIDs) == 0 {
		return client.Validationf("select at least one tool binding")
	}
	return c.api.UpdateQABindings(ctx, bindingIDs)
}
