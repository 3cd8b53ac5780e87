package chat

import (
	"context"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"aurelia/internal/client"
	"aurelia/internal/logging"
	"aurelia/internal/types"
)

// Coordinator drives the chat workspace: session selection, timeline
// synchronization, stream assembly, staged attachments, and batch
// operations. Local state changes only after the server confirms the
// corresponding write; the lone exception is the stream preview, which is
// discarded once the authoritative timeline refresh lands.
type Coordinator struct {
	mu        sync.Mutex
	api       API
	log       logging.Logger
	store     *SessionStore
	timeline  *Timeline
	assembler *StreamAssembler
	stager    *AttachmentStager
	selector  *BatchSelector

	tools []*types.ToolBinding
	roles []*types.AgentRole
}

func NewCoordinator(api API, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.Nop()
	}
	return &Coordinator{
		api:       api,
		log:       log,
		store:     NewSessionStore(),
		timeline:  NewTimeline(),
		assembler: NewStreamAssembler(),
		stager:    NewAttachmentStager(),
		selector:  NewBatchSelector(),
	}
}

// Load fetches sessions, the tool-binding catalog, and the role presets in
// parallel, then replaces the local collection wholesale. When nothing is
// active yet the first listed session becomes active.
func (c *Coordinator) Load(ctx context.Context) error {
	var (
		sessions []*types.Session
		tools    []*types.ToolBinding
		roles    []*types.AgentRole
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		sessions, err = c.api.ListSessions(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		tools, err = c.api.ListToolBindings(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		roles, err = c.api.ListAgentRoles(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.store.Replace(sessions)
	c.tools = tools
	c.roles = roles
	if c.store.ActiveID() == "" && len(sessions) > 0 {
		c.store.Select(sessions[0].ID)
	}
	active := c.store.ActiveID()
	c.mu.Unlock()

	c.log.Debug("workspace loaded",
		logging.F("sessions", len(sessions)),
		logging.F("tools", len(tools)),
	)
	return c.refreshFor(ctx, active)
}

func (c *Coordinator) Sessions() []*types.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.Session{}, c.store.Sessions()...)
}

func (c *Coordinator) ActiveSession() *types.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Active()
}

func (c *Coordinator) ActiveSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ActiveID()
}

func (c *Coordinator) Messages() []*types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.Message{}, c.timeline.Messages()...)
}

func (c *Coordinator) ToolBindings() []*types.ToolBinding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.ToolBinding{}, c.tools...)
}

func (c *Coordinator) Roles() []*types.AgentRole {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*types.AgentRole{}, c.roles...)
}

// Preview returns the in-flight stream buffers. Presentation-only: the
// refreshed timeline supersedes this text once the stream completes.
func (c *Coordinator) Preview() (reasoning, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assembler.Reasoning(), c.assembler.Answer()
}

func (c *Coordinator) StreamState() AssemblerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assembler.State()
}

// SelectSession activates id and refreshes the timeline. Selecting an id
// that is not in the collection is a no-op.
func (c *Coordinator) SelectSession(ctx context.Context, id string) error {
	c.mu.Lock()
	c.store.Select(id)
	active := c.store.ActiveID()
	c.mu.Unlock()
	if active != id {
		return nil
	}
	return c.refreshFor(ctx, id)
}

func (c *Coordinator) CreateSession(ctx context.Context, cfg types.SessionConfig) (*types.Session, error) {
	session, err := c.api.CreateSession(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.store.Prepend(session)
	c.store.Select(session.ID)
	c.mu.Unlock()
	if err := c.refreshFor(ctx, session.ID); err != nil {
		return session, err
	}
	return session, nil
}

// UpdateSession sends the partial config for a server-side merge. The local
// entry is replaced only by the returned full session, never patched ahead
// of the round trip.
func (c *Coordinator) UpdateSession(ctx context.Context, id string, cfg types.SessionConfig) (*types.Session, error) {
	session, err := c.api.UpdateSession(ctx, id, cfg)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.store.Update(session)
	c.mu.Unlock()
	return session, nil
}

func (c *Coordinator) CopySession(ctx context.Context, id string) (*types.Session, error) {
	session, err := c.api.CopySession(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.store.Prepend(session)
	c.mu.Unlock()
	return session, nil
}

// BranchSession seeds a new session from the source's history server-side;
// the seeded messages appear on the next timeline refresh for the new id.
func (c *Coordinator) BranchSession(ctx context.Context, id string) (*types.Session, error) {
	session, err := c.api.BranchSession(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.store.Prepend(session)
	c.mu.Unlock()
	return session, nil
}

func (c *Coordinator) DeleteSession(ctx context.Context, id string) error {
	if err := c.api.DeleteSession(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.store.Remove(id)
	c.selector.Remove(id)
	if c.store.ActiveID() == "" {
		c.timeline.Clear()
	}
	c.mu.Unlock()
	return nil
}

// RefreshTimeline re-reads the active session's messages. With no active
// session the timeline is cleared.
func (c *Coordinator) RefreshTimeline(ctx context.Context) error {
	c.mu.Lock()
	active := c.store.ActiveID()
	c.mu.Unlock()
	return c.refreshFor(ctx, active)
}

// refreshFor fetches messages for sessionID and applies them only if that
// session is still active when the response arrives. A stale refresh is
// discarded, the same guard used for stream increments.
func (c *Coordinator) refreshFor(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		c.mu.Lock()
		c.timeline.Clear()
		c.mu.Unlock()
		return nil
	}
	messages, err := c.api.ListMessages(ctx, sessionID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store.ActiveID() != sessionID {
		return nil
	}
	c.timeline.Set(sessionID, messages)
	return nil
}

// Upload stages an attachment against the active session. The ref stays
// pending until a query consumes it.
func (c *Coordinator) Upload(ctx context.Context, fileName string, content io.Reader) (*types.AttachmentRef, error) {
	c.mu.Lock()
	active := c.store.ActiveID()
	c.mu.Unlock()
	if active == "" {
		return nil, client.Validationf("select a session before uploading")
	}
	ref, err := c.api.UploadAttachment(ctx, active, fileName, content)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.stager.Add(*ref)
	c.mu.Unlock()
	return ref, nil
}

func (c *Coordinator) PendingAttachments() []types.AttachmentRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.AttachmentRef{}, c.stager.Pending()...)
}

// prepareQuery validates the submission and, only once it is valid, takes
// the staged attachments — all under one lock, so a concurrent submit sees
// either the busy stream or its own staged set, never an emptied one.
func (c *Coordinator) prepareQuery(text string, toolIDs []string, openStream bool) (client.QueryRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.store.Active()
	if active == nil {
		return client.QueryRequest{}, client.Validationf("no active session")
	}
	if c.assembler.IsOpen() {
		return client.QueryRequest{}, client.Validationf("a response is still streaming; wait for it to finish")
	}
	normalized := strings.TrimSpace(text)
	if normalized == "" && c.stager.Len() == 0 {
		return client.QueryRequest{}, client.Validationf("enter a question or stage at least one attachment")
	}
	if toolIDs == nil {
		toolIDs = append([]string{}, active.DefaultToolIDs...)
	}
	refs := c.stager.TakePending()
	attachmentIDs := make([]string, 0, len(refs))
	for _, ref := range refs {
		attachmentIDs = append(attachmentIDs, ref.ID)
	}
	if openStream {
		c.assembler.Open(active.ID)
	}
	return client.QueryRequest{
		SessionID:     active.ID,
		Query:         normalized,
		ToolIDs:       toolIDs,
		AttachmentIDs: attachmentIDs,
	}, nil
}

// restageAttachments puts refs back after a submission that never reached
// the server, keeping the no-mutation-on-failure discipline.
func (c *Coordinator) restageAttachments(ids []string) {
	if len(ids) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.stager.Add(types.AttachmentRef{ID: id})
	}
}

// Ask is the non-streaming submission path: one terminal result, then a
// timeline refresh.
func (c *Coordinator) Ask(ctx context.Context, text string, toolIDs []string) (*client.QueryResult, error) {
	req, err := c.prepareQuery(text, toolIDs, false)
	if err != nil {
		return nil, err
	}
	result, err := c.api.Query(ctx, req)
	if err != nil {
		c.restageAttachments(req.AttachmentIDs)
		return nil, err
	}
	if err := c.refreshFor(ctx, req.SessionID); err != nil {
		return result, err
	}
	return result, nil
}

// Stream submits a query and folds its increments until the stream closes.
// onUpdate, when non-nil, observes the buffers after every applied
// increment. At most one stream may be open; a second submit is rejected
// until the first closes.
func (c *Coordinator) Stream(ctx context.Context, text string, toolIDs []string, onUpdate func(Buffers)) error {
	req, err := c.prepareQuery(text, toolIDs, true)
	if err != nil {
		return err
	}

	ch, cancel, err := c.api.QueryStream(ctx, req)
	if err != nil {
		c.mu.Lock()
		c.assembler.CloseError()
		c.mu.Unlock()
		c.restageAttachments(req.AttachmentIDs)
		return err
	}
	defer cancel()

	var streamErr *client.APIError
	done := false

consume:
	for inc := range ch {
		c.mu.Lock()
		switch inc.Kind {
		case types.IncrementError:
			c.assembler.CloseError()
			streamErr = &client.APIError{Kind: client.KindServerError, Message: inc.Message}
			c.mu.Unlock()
			break consume
		case types.IncrementDone:
			c.assembler.Drain()
			done = true
			c.mu.Unlock()
			break consume
		default:
			// The active id is read at arrival time, not cached from
			// submission: switching sessions mid-stream turns the rest of
			// the stream into discards.
			applied := c.assembler.Apply(c.store.ActiveID(), inc)
			var snapshot Buffers
			if applied {
				snapshot = Buffers{Reasoning: c.assembler.Reasoning(), Answer: c.assembler.Answer()}
			}
			c.mu.Unlock()
			if applied && onUpdate != nil {
				onUpdate(snapshot)
			}
		}
	}

	if streamErr != nil {
		c.log.Warn("query stream failed", logging.F("session", req.SessionID), logging.F("err", streamErr.Message))
		return streamErr
	}
	if !done {
		c.mu.Lock()
		c.assembler.CloseError()
		c.mu.Unlock()
		return &client.APIError{Kind: client.KindTransport, Message: "stream ended before completion"}
	}

	// The server has persisted the full exchange; re-read the timeline for
	// the bound session and drop the preview buffers.
	refreshErr := c.refreshFor(ctx, req.SessionID)
	c.mu.Lock()
	c.assembler.CloseOK()
	c.mu.Unlock()
	return refreshErr
}

// Batch selection.

func (c *Coordinator) ToggleSelected(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selector.Toggle(id)
}

func (c *Coordinator) SelectedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selector.SelectedIDs()
}

func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selector.Clear()
}

// BulkDelete deletes every selected session, honoring per-id outcomes:
// failed ids stay in both the store and the selection.
func (c *Coordinator) BulkDelete(ctx context.Context) (*client.BatchDeleteResult, error) {
	c.mu.Lock()
	ids := c.selector.SelectedIDs()
	c.mu.Unlock()
	if len(ids) == 0 {
		return nil, client.Validationf("no sessions selected")
	}
	result, err := c.api.DeleteSessions(ctx, ids)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.store.Remove(result.Deleted...)
	c.selector.Remove(result.Deleted...)
	cleared := c.store.ActiveID() == ""
	if cleared {
		c.timeline.Clear()
	}
	c.mu.Unlock()
	return result, nil
}

// BulkExport downloads a server-packaged archive for the selection.
func (c *Coordinator) BulkExport(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	ids := c.selector.SelectedIDs()
	c.mu.Unlock()
	if len(ids) == 0 {
		return nil, client.Validationf("no sessions selected")
	}
	return c.api.BulkExportSessions(ctx, ids)
}
