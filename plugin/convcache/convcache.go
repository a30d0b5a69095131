// Package convcache is the local-first cache for chat conversations. It
// remembers the active conversation id per user and keeps a snapshot of the
// message list so chat survives a dead database connection. It is a
// write-through cache: the server-side store remains authoritative, and the
// last full-list write wins.
package convcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/forkful/forkful/store"
)

var (
	bucketActive   = []byte("active_conversation")
	bucketSnapshot = []byte("conversation_snapshot")
)

// Cache is a bbolt-backed conversation cache.
type Cache struct {
	db *bolt.DB
}

// New opens (or creates) the cache file at dataDir/convcache.bolt.
func New(dataDir string) (*Cache, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	db, err := bolt.Open(filepath.Join(dataDir, "convcache.bolt"), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open convcache")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketActive); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketSnapshot)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "init convcache buckets")
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// ActiveConversationID returns the cached conversation id for userID, or ""
// when the user has no cached conversation.
func (c *Cache) ActiveConversationID(userID string) (string, error) {
	var id string
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketActive).Get([]byte(userID)); v != nil {
			id = string(v)
		}
		return nil
	})
	return id, err
}

// SetActiveConversationID records conversationID as the user's active chat.
func (c *Cache) SetActiveConversationID(userID, conversationID string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketActive).Put([]byte(userID), []byte(conversationID))
	})
}

// ClearActive drops the active-conversation reference and its snapshot. The
// server-side history is untouched.
func (c *Cache) ClearActive(userID string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		active := tx.Bucket(bucketActive)
		if id := active.Get([]byte(userID)); id != nil {
			if err := tx.Bucket(bucketSnapshot).Delete(snapshotKey(userID, string(id))); err != nil {
				return err
			}
		}
		return active.Delete([]byte(userID))
	})
}

// SaveSnapshot stores the full conversation as the user's local copy.
func (c *Cache) SaveSnapshot(userID string, conv *store.Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshot).Put(snapshotKey(userID, conv.ID), raw)
	})
}

// LoadSnapshot returns the cached conversation, or nil when none is cached.
func (c *Cache) LoadSnapshot(userID, conversationID string) (*store.Conversation, error) {
	var conv *store.Conversation
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSnapshot).Get(snapshotKey(userID, conversationID))
		if v == nil {
			return nil
		}
		conv = &store.Conversation{}
		return json.Unmarshal(v, conv)
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func snapshotKey(userID, conversationID string) []byte {
	return []byte(userID + "/" + conversationID)
}
