package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gifty/internal/models/db_models"
	"gifty/pkg/memcache"
	"gifty/pkg/utils"
)

// Well-known slot keys.
const (
	SlotUserInput = "user_input"
	SlotRegion    = "region"
	SlotAssistant = "voice_assistant"
)

func WizardSlot(flow string) string      { return "wizard:" + flow }
func SuggestionsSlot(flow string) string { return "suggestions:" + flow }

// SlotStore is the durable per-session key/value store. Get returns utils.ErrSlotNotFound
// when nothing (or nothing unexpired) is stored under the key.
type SlotStore interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Put(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID, key string) error
}

type memorySlotStore struct {
	store memcache.Store[[]byte]
	ttl   time.Duration
}

func NewMemorySlotStore(ttl time.Duration, opts ...memcache.Option) SlotStore {
	return &memorySlotStore{store: memcache.New[[]byte](opts...), ttl: ttl}
}

func memoryKey(sessionID, key string) string {
	return sessionID + "\x00" + key
}

func (m *memorySlotStore) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	v, ok := m.store.Get(memoryKey(sessionID, key))
	if !ok {
		return nil, utils.ErrSlotNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memorySlotStore) Put(_ context.Context, sessionID, key string, value []byte) error {
	m.store.Set(memoryKey(sessionID, key), append([]byte(nil), value...), m.ttl)
	return nil
}

func (m *memorySlotStore) Delete(_ context.Context, sessionID, key string) error {
	m.store.Delete(memoryKey(sessionID, key))
	return nil
}

const slotNamespace = "gifty:slot"

type cmdable interface {
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
}

type redisSlotStore struct {
	store cmdable
	ttl   time.Duration
}

func NewRedisSlotStore(client *redis.Client, ttl time.Duration) SlotStore {
	return &redisSlotStore{store: client, ttl: ttl}
}

func redisKey(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", slotNamespace, sessionID, key)
}

func (r *redisSlotStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	v, err := r.store.Get(ctx, redisKey(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, utils.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return v, nil
}

func (r *redisSlotStore) Put(ctx context.Context, sessionID, key string, value []byte) error {
	if err := r.store.Set(ctx, redisKey(sessionID, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

func (r *redisSlotStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := r.store.Del(ctx, redisKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

type gormSlotStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewGormSlotStore(db *gorm.DB, ttl time.Duration) SlotStore {
	return &gormSlotStore{db: db, ttl: ttl, now: time.Now}
}

func (g *gormSlotStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var slot db_models.Slot
	err := g.db.WithContext(ctx).
		Where("session_id = ? AND slot_key = ?", sessionID, key).
		Where("expires_at = 0 OR expires_at > ?", g.now().Unix()).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return slot.Value, nil
}

func (g *gormSlotStore) Put(ctx context.Context, sessionID, key string, value []byte) error {
	slot := db_models.Slot{SessionID: sessionID, Key: key, Value: value}
	if g.ttl > 0 {
		slot.ExpiresAt = g.now().Add(g.ttl).Unix()
	}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

func (g *gormSlotStore) Delete(ctx context.Context, sessionID, key string) error {
	err := g.db.WithContext(ctx).
		Where("session_id = ? AND slot_key = ?", sessionID, key).
		Delete(&db_models.Slot{}).Error
	if err != nil {
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}
