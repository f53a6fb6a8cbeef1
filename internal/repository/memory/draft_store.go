// internal/repository/memory/draft_store.go
package memory

import (
	"alcyxob/gymtrackr/internal/domain"
	"context"
	"sync"
)

// DraftStore is the in-memory single-slot ongoing-draft holder. Semantics
// match the Redis implementation: Get yields (nil, nil) when absent, every
// write notifies watchers, and Update is one atomic read-modify-write (the
// mutex is held across the whole closure).
type DraftStore struct {
	mu       sync.Mutex
	draft    *domain.ProgramDraft
	watchers map[int]chan *domain.ProgramDraft
	nextID   int
}

// NewDraftStore creates an empty in-memory draft slot.
func NewDraftStore() *DraftStore {
	return &DraftStore{watchers: make(map[int]chan *domain.ProgramDraft)}
}

// Get reads the slot; absence yields (nil, nil).
func (s *DraftStore) Get(ctx context.Context) (*domain.ProgramDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.draft), nil
}

// Set stores the draft (nil clears the slot) and notifies watchers.
func (s *DraftStore) Set(ctx context.Context, draft *domain.ProgramDraft) error {
	s.mu.Lock()
	s.draft = clone(draft)
	s.notifyLocked()
	s.mu.Unlock()
	return nil
}

// Update applies fn under the slot lock, so no concurrent writer can slip
// between the read and the write.
func (s *DraftStore) Update(ctx context.Context, fn func(current *domain.ProgramDraft) *domain.ProgramDraft) error {
	s.mu.Lock()
	s.draft = clone(fn(clone(s.draft)))
	s.notifyLocked()
	s.mu.Unlock()
	return nil
}

// Watch delivers every subsequent slot value until ctx is done.
func (s *DraftStore) Watch(ctx context.Context) (<-chan *domain.ProgramDraft, error) {
	drafts := make(chan *domain.ProgramDraft, 16)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = drafts
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
		close(drafts)
	}()
	return drafts, nil
}

func (s *DraftStore) notifyLocked() {
	for _, drafts := range s.watchers {
		select {
		case drafts <- clone(s.draft):
		default: // slow watcher, drop rather than block the writer
		}
	}
}

func clone(draft *domain.ProgramDraft) *domain.ProgramDraft {
	if draft == nil {
		return nil
	}
	cloned := draft.Clone()
	return &cloned
}
