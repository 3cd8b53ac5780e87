package kb

import (
	"context"
	"strings"
	"sync"

	"aurelia/internal/client"
	"aurelia/internal/types"
)

// API is the knowledge-base backend surface. *client.Client satisfies it.
type API interface {
	ListKnowledgeBases(ctx context.Context) ([]*types.KnowledgeBase, error)
	CreateKnowledgeBase(ctx context.Context, kb *types.KnowledgeBase) (*types.KnowledgeBase, error)
	BuildKnowledgeBase(ctx context.Context, kbID string, docs []client.KBBuildDocument) (*types.KBBuildResult, error)
	ListKBDocuments(ctx context.Context, kbID string) ([]*types.KBDocument, error)
	RetrievalQuery(ctx context.Context, req client.RetrievalQueryRequest) ([]*types.RetrievalHit, error)
}

var _ API = (*client.Client)(nil)

// Center tracks the knowledge-base list plus one active base whose document
// roster is loaded lazily. Mutations round-trip to the server before the
// local view changes.
type Center struct {
	mu  sync.Mutex
	api API

	bases     []*types.KnowledgeBase
	activeID  string
	documents []*types.KBDocument
}

func NewCenter(api API) *Center {
	return &Center{api: api}
}

func (c *Center) Load(ctx context.Context) error {
	bases, err := c.api.ListKnowledgeBases(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.bases = bases
	if c.activeID != "" && c.byID(c.activeID) == nil {
		c.activeID = ""
		c.documents = nil
	}
	c.mu.Unlock()
	return nil
}

func (c *Center) Bases() []*types.KnowledgeBase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.KnowledgeBase{}, c.bases...)
}

func (c *Center) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

func (c *Center) Documents() []*types.KBDocument {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.KBDocument{}, c.documents...)
}

// Select makes the named base active and loads its documents. Selecting an
// unknown id is a no-op.
func (c *Center) Select(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.byID(id) == nil {
		c.mu.Unlock()
		return nil
	}
	c.activeID = id
	c.mu.Unlock()
	return c.refreshDocuments(ctx, id)
}

// Create registers a new base, prepends it, and makes it active.
func (c *Center) Create(ctx context.Context, kb *types.KnowledgeBase) (*types.KnowledgeBase, error) {
	if strings.TrimSpace(kb.Name) == "" {
		return nil, client.Validationf("knowledge base name is required")
	}
	created, err := c.api.CreateKnowledgeBase(ctx, kb)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.bases = append([]*types.KnowledgeBase{created}, c.bases...)
	c.activeID = created.ID
	c.documents = nil
	c.mu.Unlock()
	return created, nil
}

// Build indexes documents into the active base and refreshes its roster.
func (c *Center) Build(ctx context.Context, docs []client.KBBuildDocument) (*types.KBBuildResult, error) {
	c.mu.Lock()
	id := c.activeID
	c.mu.Unlock()
	if id == "" {
		return nil, client.Validationf("no knowledge base selected")
	}
	if len(docs) == 0 {
		return nil, client.Validationf("no documents to index")
	}
	result, err := c.api.BuildKnowledgeBase(ctx, id, docs)
	if err != nil {
		return nil, err
	}
	if err := c.refreshDocuments(ctx, id); err != nil {
		return result, err
	}
	return result, nil
}

// Search runs a retrieval query against the active base.
func (c *Center) Search(ctx context.Context, query string, topK int) ([]*types.RetrievalHit, error) {
	c.mu.Lock()
	id := c.activeID
	c.mu.Unlock()
	if id == "" {
		return nil, client.Validationf("no knowledge base selected")
	}
	if strings.TrimSpace(query) == "" {
		return nil, client.Validationf("query is required")
	}
	return c.api.RetrievalQuery(ctx, client.RetrievalQueryRequest{KBID: id, Query: query, TopK: topK})
}

// refreshDocuments re-reads the roster and keeps it only if the base is
// still active when the response arrives.
func (c *Center) refreshDocuments(ctx context.Context, id string) error {
	docs, err := c.api.ListKBDocuments(ctx, id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	if c.activeID == id {
		c.documents = docs
	}
	c.mu.Unlock()
	return nil
}

func (c *Center) byID(id string) *types.KnowledgeBase {
	for _, kb := range c.bases {
		if kb.ID == id {
			return kb
		}
	}
	return nil
}
