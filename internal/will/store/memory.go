package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"legacyvault/internal/will/models"
	"legacyvault/internal/will/ports"
	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
	"legacyvault/pkg/platform/sentinel"
)

// defaultTxTimeout bounds a transaction when the caller set no deadline.
const defaultTxTimeout = 5 * time.Second

// MemoryStore keeps records and content in process. Writes made inside
// RunInTx are staged on a copy of the state and become visible only when the
// callback succeeds, so it behaves like a single transactional database.
type MemoryStore struct {
	mu      sync.RWMutex
	state   *memState
	timeout time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState(), timeout: defaultTxTimeout}
}

// Records returns the record store view for reads and non-transactional writes.
func (s *MemoryStore) Records() ports.RecordStore {
	return lockedRecords{s: s}
}

// Contents returns the content store view for reads and non-transactional writes.
func (s *MemoryStore) Contents() ports.ContentStore {
	return lockedContents{s: s}
}

// RunInTx serializes transactions. fn sees a private copy of the state that
// replaces the shared state only if fn returns nil.
func (s *MemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	staged := s.state.clone()
	if err := fn(ctx, ports.Stores{Records: stateRecords{st: staged}, Contents: stateContents{st: staged}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted before commit")
	}
	s.state = staged
	return nil
}

type memState struct {
	records  map[id.WillID]models.WillRecord
	contents map[id.WillID]map[int]models.StoredContent
}

func newMemState() *memState {
	return &memState{
		records:  make(map[id.WillID]models.WillRecord),
		contents: make(map[id.WillID]map[int]models.StoredContent),
	}
}

// clone copies the maps. Stored values are never mutated in place, so the
// values themselves can be shared.
func (st *memState) clone() *memState {
	out := newMemState()
	for k, v := range st.records {
		out.records[k] = v
	}
	for k, versions := range st.contents {
		copied := make(map[int]models.StoredContent, len(versions))
		for v, c := range versions {
			copied[v] = c
		}
		out.contents[k] = copied
	}
	return out
}

// stateRecords operates on a state without locking; the owner holds the lock.
type stateRecords struct {
	st *memState
}

func (r stateRecords) Save(_ context.Context, rec models.WillRecord) error {
	rec.Data = rec.Data.Clone()
	rec.Suggestions = append([]models.Suggestion(nil), rec.Suggestions...)
	r.st.records[rec.ID] = rec
	return nil
}

func (r stateRecords) FindByID(_ context.Context, willID id.WillID) (models.WillRecord, error) {
	rec, ok := r.st.records[willID]
	if !ok {
		return models.WillRecord{}, sentinel.ErrNotFound
	}
	rec.Data = rec.Data.Clone()
	rec.Suggestions = append([]models.Suggestion(nil), rec.Suggestions...)
	return rec, nil
}

func (r stateRecords) ListByOwner(ctx context.Context, owner id.UserID) ([]models.WillRecord, error) {
	var out []models.WillRecord
	for willID, rec := range r.st.records {
		if rec.OwnerID != owner {
			continue
		}
		found, _ := r.FindByID(ctx, willID)
		out = append(out, found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r stateRecords) MarkDeleting(_ context.Context, willID id.WillID) error {
	rec, ok := r.st.records[willID]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.Status = models.StatusDeleting
	r.st.records[willID] = rec
	return nil
}

func (r stateRecords) Delete(_ context.Context, willID id.WillID) error {
	if _, ok := r.st.records[willID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(r.st.records, willID)
	return nil
}

type stateContents struct {
	st *memState
}

func (c stateContents) Put(_ context.Context, content models.StoredContent) error {
	versions, ok := c.st.contents[content.WillID]
	if !ok {
		versions = make(map[int]models.StoredContent)
		c.st.contents[content.WillID] = versions
	}
	versions[content.Version] = content
	return nil
}

func (c stateContents) Get(_ context.Context, willID id.WillID, version int) (models.StoredContent, error) {
	content, ok := c.st.contents[willID][version]
	if !ok {
		return models.StoredContent{}, sentinel.ErrNotFound
	}
	return content, nil
}

func (c stateContents) Versions(_ context.Context, willID id.WillID) ([]int, error) {
	out := make([]int, 0, len(c.st.contents[willID]))
	for v := range c.st.contents[willID] {
		out = append(out, v)
	}
	sort.Ints(out)
	return out, nil
}

func (c stateContents) DeleteVersion(_ context.Context, willID id.WillID, version int) error {
	delete(c.st.contents[willID], version)
	if len(c.st.contents[willID]) == 0 {
		delete(c.st.contents, willID)
	}
	return nil
}

func (c stateContents) DeleteAll(_ context.Context, willID id.WillID) error {
	delete(c.st.contents, willID)
	return nil
}

// lockedRecords guards each call with the store lock.
type lockedRecords struct {
	s *MemoryStore
}

func (r lockedRecords) Save(ctx context.Context, rec models.WillRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return stateRecords{st: r.s.state}.Save(ctx, rec)
}

func (r lockedRecords) FindByID(ctx context.Context, willID id.WillID) (models.WillRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return stateRecords{st: r.s.state}.FindByID(ctx, willID)
}

func (r lockedRecords) ListByOwner(ctx context.Context, owner id.UserID) ([]models.WillRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return stateRecords{st: r.s.state}.ListByOwner(ctx, owner)
}

func (r lockedRecords) MarkDeleting(ctx context.Context, willID id.WillID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return stateRecords{st: r.s.state}.MarkDeleting(ctx, willID)
}

func (r lockedRecords) Delete(ctx context.Context, willID id.WillID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return stateRecords{st: r.s.state}.Delete(ctx, willID)
}

type lockedContents struct {
	s *MemoryStore
}

func (c lockedContents) Put(ctx context.Context, content models.StoredContent) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return stateContents{st: c.s.state}.Put(ctx, content)
}

func (c lockedContents) Get(ctx context.Context, willID id.WillID, version int) (models.StoredContent, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return stateContents{st: c.s.state}.Get(ctx, willID, version)
}

func (c lockedContents) Versions(ctx context.Context, willID id.WillID) ([]int, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return stateContents{st: c.s.state}.Versions(ctx, willID)
}

func (c lockedContents) DeleteVersion(ctx context.Context, willID id.WillID, version int) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return stateContents{st: c.s.state}.DeleteVersion(ctx, willID, version)
}

func (c lockedContents) DeleteAll(ctx context.Context, willID id.WillID) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return stateContents{st: c.s.state}.DeleteAll(ctx, willID)
}
