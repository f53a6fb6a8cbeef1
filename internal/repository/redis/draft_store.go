// internal/repository/redis/draft_store.go
package redis

import (
	"alcyxob/gymtrackr/internal/domain"
	"alcyxob/gymtrackr/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Retries for the optimistic read-modify-write transaction before giving up.
const maxUpdateRetries = 10

// absentPayload is published on the change channel when the slot is cleared.
const absentPayload = "null"

var errUpdateContention = errors.New("draft store: too many concurrent updates")

// draftStore implements repository.DraftStore on a single Redis key.
// The draft is stored as its JSON encoding (the drafts are serializable by
// design), so it survives process restarts. Change notification rides a
// pub/sub channel carrying the new payload.
type draftStore struct {
	client  *goredis.Client
	key     string
	channel string
}

// NewDraftStore creates the process-wide ongoing-draft slot on the given key.
func NewDraftStore(client *goredis.Client, key string) repository.DraftStore {
	return &draftStore{
		client:  client,
		key:     key,
		channel: key + ":changes",
	}
}

// Connect creates and pings a Redis client.
func Connect(addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Get reads the slot. Absence is not an error; it yields (nil, nil).
func (s *draftStore) Get(ctx context.Context) (*domain.ProgramDraft, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDraft(raw)
}

// Set stores the draft (nil clears the slot) and notifies watchers.
func (s *draftStore) Set(ctx context.Context, draft *domain.ProgramDraft) error {
	if draft == nil {
		if err := s.client.Del(ctx, s.key).Err(); err != nil {
			return err
		}
		return s.client.Publish(ctx, s.channel, absentPayload).Err()
	}

	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, raw).Err()
}

// Update applies fn as one atomic read-modify-write using an optimistic
// WATCH transaction: if another writer touches the slot between our read and
// our write, the transaction fails and is retried against the fresh value.
// This closes the window where a workout sub-editor merging back could
// silently overwrite a concurrent program-editor write.
func (s *draftStore) Update(ctx context.Context, fn func(current *domain.ProgramDraft) *domain.ProgramDraft) error {
	var payload string

	txn := func(tx *goredis.Tx) error {
		var current *domain.ProgramDraft
		raw, err := tx.Get(ctx, s.key).Bytes()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if err == nil {
			if current, err = decodeDraft(raw); err != nil {
				return err
			}
		}

		next := fn(current)
		if next == nil {
			payload = absentPayload
			_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
				pipe.Del(ctx, s.key)
				return nil
			})
			return err
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return err
		}
		payload = string(encoded)
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, s.key, encoded, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txn, s.key)
		if err == nil {
			return s.client.Publish(ctx, s.channel, payload).Err()
		}
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return errUpdateContention
}

// Watch delivers every slot value written after the subscription, nil when
// the slot is cleared, until ctx is done.
func (s *draftStore) Watch(ctx context.Context) (<-chan *domain.ProgramDraft, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	// Force the subscription to be established before returning, so callers
	// never miss a write that happens after Watch returns.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	drafts := make(chan *domain.ProgramDraft)
	go func() {
		defer close(drafts)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var draft *domain.ProgramDraft
				if msg.Payload != "" && msg.Payload != absentPayload {
					decoded, err := decodeDraft([]byte(msg.Payload))
					if err != nil {
						continue
					}
					draft = decoded
				}
				select {
				case drafts <- draft:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return drafts, nil
}

func decodeDraft(raw []byte) (*domain.ProgramDraft, error) {
	var draft domain.ProgramDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}
