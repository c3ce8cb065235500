// Package store keeps tree documents in Redis and announces changes on a
// Pub/Sub channel.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dyluth/lineage/internal/logging"
	"github.com/dyluth/lineage/pkg/document"
)

// Store provides namespace-scoped Redis operations for tree documents.
// The store is thread-safe and can be used concurrently from multiple goroutines.
type Store struct {
	rdb       *redis.Client
	namespace string
	log       *logrus.Logger
	now       func() time.Time
}

// EventAction names what happened to a tree.
type EventAction string

const (
	ActionSaved   EventAction = "saved"
	ActionDeleted EventAction = "deleted"
)

// TreeEvent is published on the tree events channel after every change.
type TreeEvent struct {
	TreeID   string      `json:"tree_id"`
	Name     string      `json:"name"`
	Action   EventAction `json:"action"`
	Revision int64       `json:"revision"`
	AtMs     int64       `json:"at_ms"`
}

// Summary describes a stored tree without its document.
type Summary struct {
	ID          string
	Name        string
	Revision    int64
	PersonCount int
	UpdatedAt   time.Time
}

// Record is a stored tree with its document.
type Record struct {
	Summary
	Document *document.Document
}

// New creates a store for the given namespace. A nil logger discards logs.
func New(redisOpts *redis.Options, namespace string, logger *logrus.Logger) (*Store, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		rdb:       redis.NewClient(redisOpts),
		namespace: namespace,
		log:       logger,
		now:       time.Now,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Save writes doc under treeID, bumps its revision and publishes a saved event.
// treeID must be a UUID. Returns the new revision.
func (s *Store) Save(ctx context.Context, treeID string, doc *document.Document) (int64, error) {
	id, err := uuid.Parse(treeID)
	if err != nil {
		return 0, fmt.Errorf("invalid tree ID %q: %w", treeID, err)
	}
	treeID = id.String()

	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize tree: %w", err)
	}

	key := TreeKey(s.namespace, treeID)
	nowMs := s.now().UnixMilli()
	var revision *redis.IntCmd
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldName, doc.Name,
			fieldDocument, data,
			fieldUpdatedAt, nowMs,
			fieldPersons, len(doc.Persons),
		)
		revision = pipe.HIncrBy(ctx, key, fieldRevision, 1)
		pipe.SAdd(ctx, TreeIndexKey(s.namespace), treeID)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to write tree to Redis: %w", err)
	}

	rev := revision.Val()
	s.log.WithFields(logrus.Fields{
		"namespace": s.namespace,
		"tree_id":   treeID,
		"revision":  rev,
		"persons":   len(doc.Persons),
	}).Debug("tree saved")

	if err := s.publish(ctx, TreeEvent{TreeID: treeID, Name: doc.Name, Action: ActionSaved, Revision: rev, AtMs: nowMs}); err != nil {
		return rev, err
	}
	return rev, nil
}

// Get retrieves a stored tree by ID.
// Returns (nil, redis.Nil) if the tree doesn't exist. Use IsNotFound() to check.
func (s *Store) Get(ctx context.Context, treeID string) (*Record, error) {
	hash, err := s.rdb.HGetAll(ctx, TreeKey(s.namespace, treeID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree from Redis: %w", err)
	}
	// HGetAll returns an empty map for non-existent keys
	if len(hash) == 0 {
		return nil, redis.Nil
	}

	summary, err := hashToSummary(treeID, hash)
	if err != nil {
		return nil, err
	}
	var doc document.Document
	if err := json.Unmarshal([]byte(hash[fieldDocument]), &doc); err != nil {
		return nil, fmt.Errorf("failed to deserialize tree %s: %w", treeID, err)
	}
	return &Record{Summary: summary, Document: &doc}, nil
}

// Exists checks if a tree exists without fetching it.
func (s *Store) Exists(ctx context.Context, treeID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, TreeKey(s.namespace, treeID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check tree existence: %w", err)
	}
	return n > 0, nil
}

// ListTrees returns the IDs of all stored trees, sorted.
func (s *Store) ListTrees(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, TreeIndexKey(s.namespace)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

// List returns summaries of all stored trees, sorted by name then ID.
// Index entries whose hash has vanished are skipped.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.ListTrees(ctx)
	if err != nil {
		return nil, err
	}

	cmds := make([]*redis.SliceCmd, len(ids))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HMGet(ctx, TreeKey(s.namespace, id), fieldName, fieldRevision, fieldUpdatedAt, fieldPersons)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read tree summaries: %w", err)
	}

	out := make([]Summary, 0, len(ids))
	for i, cmd := range cmds {
		vals := cmd.Val()
		if len(vals) != 4 || vals[0] == nil {
			s.log.WithField("tree_id", ids[i]).Warn("indexed tree has no hash")
			continue
		}
		hash := map[string]string{
			fieldName:      asString(vals[0]),
			fieldRevision:  asString(vals[1]),
			fieldUpdatedAt: asString(vals[2]),
			fieldPersons:   asString(vals[3]),
		}
		summary, err := hashToSummary(ids[i], hash)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}

	slices.SortFunc(out, func(a, b Summary) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Delete removes a stored tree and publishes a deleted event.
// Returns redis.Nil if the tree doesn't exist.
func (s *Store) Delete(ctx context.Context, treeID string) error {
	key := TreeKey(s.namespace, treeID)
	name, err := s.rdb.HGet(ctx, key, fieldName).Result()
	if err != nil {
		if IsNotFound(err) {
			return redis.Nil
		}
		return fmt.Errorf("failed to read tree from Redis: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, TreeIndexKey(s.namespace), treeID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete tree: %w", err)
	}

	s.log.WithFields(logrus.Fields{"namespace": s.namespace, "tree_id": treeID}).Debug("tree deleted")
	return s.publish(ctx, TreeEvent{TreeID: treeID, Name: name, Action: ActionDeleted, AtMs: s.now().UnixMilli()})
}

func (s *Store) publish(ctx context.Context, ev TreeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal tree event: %w", err)
	}
	if err := s.rdb.Publish(ctx, TreeEventsChannel(s.namespace), data).Err(); err != nil {
		return fmt.Errorf("failed to publish tree event: %w", err)
	}
	return nil
}

func hashToSummary(treeID string, hash map[string]string) (Summary, error) {
	summary := Summary{ID: treeID, Name: hash[fieldName]}
	var err error
	if summary.Revision, err = strconv.ParseInt(hash[fieldRevision], 10, 64); err != nil {
		return Summary{}, fmt.Errorf("invalid revision for tree %s: %w", treeID, err)
	}
	ms, err := strconv.ParseInt(hash[fieldUpdatedAt], 10, 64)
	if err != nil {
		return Summary{}, fmt.Errorf("invalid timestamp for tree %s: %w", treeID, err)
	}
	summary.UpdatedAt = time.UnixMilli(ms)
	if summary.PersonCount, err = strconv.Atoi(hash[fieldPersons]); err != nil {
		return Summary{}, fmt.Errorf("invalid person count for tree %s: %w", treeID, err)
	}
	return summary, nil
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// Subscription represents an active Pub/Sub subscription to tree events.
// Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan TreeEvent
	errors <-chan error
	cancel func()
	once   sync.Once
}

// Events returns the channel of tree events.
// The channel will be closed when the subscription is closed or the context is cancelled.
func (s *Subscription) Events() <-chan TreeEvent {
	return s.events
}

// Errors returns the channel of subscription errors.
// The subscription continues after errors - messages are skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements io.Closer.
// Safe to call multiple times - subsequent calls are no-ops.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe subscribes to tree events of this namespace.
// The subscription is confirmed before Subscribe returns, so no event
// published afterwards is missed.
//
// Events are delivered on a buffered channel (size 10). Redis Pub/Sub is
// at-most-once, so a slow subscriber may miss events.
func (s *Store) Subscribe(ctx context.Context) (*Subscription, error) {
	pubsub := s.rdb.Subscribe(ctx, TreeEventsChannel(s.namespace))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to tree events: %w", err)
	}

	eventsChan := make(chan TreeEvent, 10)
	errorsChan := make(chan error, 10)
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev TreeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal tree event: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- ev:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
	}, nil
}

// IsNotFound returns true if the error is a Redis "key not found" error (redis.Nil).
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
