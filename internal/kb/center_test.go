package kb

import (
	"context"
	"testing"

	"aurelia/internal/client"
	"aurelia/internal/types"
)

type fakeAPI struct {
	bases     []*types.KnowledgeBase
	documents map[string][]*types.KBDocument
	hits      []*types.RetrievalHit

	lastRetrieval client.RetrievalQueryRequest
}

func (f *fakeAPI) ListKnowledgeBases(ctx context.Context) ([]*types.KnowledgeBase, error) {
	return append([]*types.KnowledgeBase{}, f.bases...), nil
}

func (f *fakeAPI) CreateKnowledgeBase(ctx context.Context, kb *types.KnowledgeBase) (*types.KnowledgeBase, error) {
	created := *kb
	created.ID = "kb-new"
	f.bases = append(f.bases, &created)
	return &created, nil
}

func (f *fakeAPI) BuildKnowledgeBase(ctx context.Context, kbID string, docs []client.KBBuildDocument) (*types.KBBuildResult, error) {
	if f.documents == nil {
		f.documents = map[string][]*types.KBDocument{}
	}
	for _, doc := range docs {
		f.documents[kbID] = append(f.documents[kbID], &types.KBDocument{
			ID:     "d-" + doc.Title,
			KBID:   kbID,
			Title:  doc.Title,
			Status: "indexed",
			Chunks: 1,
		})
	}
	return &types.KBBuildResult{Documents: len(docs), Chunks: len(docs), Status: "ready"}, nil
}

func (f *fakeAPI) ListKBDocuments(ctx context.Context, kbID string) ([]*types.KBDocument, error) {
	return append([]*types.KBDocument{}, f.documents[kbID]...), nil
}

func (f *fakeAPI) RetrievalQuery(ctx context.Context, req client.RetrievalQueryRequest) ([]*types.RetrievalHit, error) {
	f.lastRetrieval = req
	return append([]*types.RetrievalHit{}, f.hits...), nil
}

func TestSelectUnknownBaseIsNoOp(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{bases: []*types.KnowledgeBase{{ID: "kb1", Name: "notes"}}}
	center := NewCenter(api)
	if err := center.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := center.Select(context.Background(), "missing"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := center.ActiveID(); got != "" {
		t.Fatalf("ActiveID = %q, want empty", got)
	}
}

func TestCreatePrependsAndActivates(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{bases: []*types.KnowledgeBase{{ID: "kb1", Name: "notes"}}}
	center := NewCenter(api)
	if err := center.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	created, err := center.Create(context.Background(), &types.KnowledgeBase{Name: "research"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	bases := center.Bases()
	if len(bases) != 2 || bases[0].ID != created.ID {
		t.Fatalf("bases = %+v, want new base first", bases)
	}
	if got := center.ActiveID(); got != created.ID {
		t.Fatalf("ActiveID = %q, want %q", got, created.ID)
	}
}

func TestCreateRequiresName(t *testing.T) {
	t.Parallel()

	center := NewCenter(&fakeAPI{})
	_, err := center.Create(context.Background(), &types.KnowledgeBase{Name: "  "})
	apiErr := client.AsAPIError(err)
	if apiErr == nil || apiErr.Kind != client.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestBuildRefreshesDocuments(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{bases: []*types.KnowledgeBase{{ID: "kb1", Name: "notes"}}}
	center := NewCenter(api)
	if err := center.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := center.Select(context.Background(), "kb1"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	result, err := center.Build(context.Background(), []client.KBBuildDocument{
		{Title: "intro", Content: "hello"},
		{Title: "details", Content: "world"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Documents != 2 {
		t.Fatalf("result.Documents = %d, want 2", result.Documents)
	}
	if got := len(center.Documents()); got != 2 {
		t.Fatalf("documents = %d, want 2", got)
	}
}

func TestBuildWithoutSelectionFails(t *testing.T) {
	t.Parallel()

	center := NewCenter(&fakeAPI{})
	_, err := center.Build(context.Background(), []client.KBBuildDocument{{Title: "t", Content: "c"}})
	apiErr := client.AsAPIError(err)
	if apiErr == nil || apiErr.Kind != client.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestSearchTargetsActiveBase(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		bases: []*types.KnowledgeBase{{ID: "kb1", Name: "notes"}},
		hits:  []*types.RetrievalHit{{DocumentID: "d1", Text: "hello", Score: 0.9}},
	}
	center := NewCenter(api)
	if err := center.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := center.Select(context.Background(), "kb1"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	hits, err := center.Search(context.Background(), "hello", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].DocumentID != "d1" {
		t.Fatalf("hits = %+v, want d1", hits)
	}
	if api.lastRetrieval.KBID != "kb1" || api.lastRetrieval.TopK != 5 {
		t.Fatalf("request = %+v, want kb1 topK=5", api.lastRetrieval)
	}
}
