package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gifty/internal/infra"
	"gifty/internal/models/db_models"
	"gifty/pkg/memcache"
	"gifty/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(conn))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

type mockCmdable struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func exerciseSlotStore(t *testing.T, store SlotStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "s1", SlotUserInput)
	assert.ErrorIs(t, err, utils.ErrSlotNotFound)

	require.NoError(t, store.Put(ctx, "s1", SlotUserInput, []byte(`{"a":1}`)))
	require.NoError(t, store.Put(ctx, "s1", SlotUserInput, []byte(`{"a":2}`)))
	require.NoError(t, store.Put(ctx, "s2", SlotUserInput, []byte(`{"b":1}`)))

	v, err := store.Get(ctx, "s1", SlotUserInput)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(v))

	v, err = store.Get(ctx, "s2", SlotUserInput)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":1}`, string(v))

	require.NoError(t, store.Delete(ctx, "s1", SlotUserInput))
	_, err = store.Get(ctx, "s1", SlotUserInput)
	assert.ErrorIs(t, err, utils.ErrSlotNotFound)
	require.NoError(t, store.Delete(ctx, "s1", "missing"))
}

func TestMemorySlotStore(t *testing.T) {
	exerciseSlotStore(t, NewMemorySlotStore(time.Hour))
}

func TestMemorySlotStoreExpires(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	store := NewMemorySlotStore(time.Minute, memcache.WithClock(func() time.Time { return now }))
	require.NoError(t, store.Put(context.Background(), "s1", SlotRegion, []byte(`"US"`)))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(context.Background(), "s1", SlotRegion)
	assert.ErrorIs(t, err, utils.ErrSlotNotFound)
}

func TestRedisSlotStore(t *testing.T) {
	mock := newMockCmdable()
	store := &redisSlotStore{store: mock, ttl: time.Hour}
	exerciseSlotStore(t, store)

	require.NoError(t, store.Put(context.Background(), "s9", WizardSlot("quick"), []byte("{}")))
	assert.Equal(t, time.Hour, mock.ttls["gifty:slot:s9:wizard:quick"])
}

func TestGormSlotStore(t *testing.T) {
	exerciseSlotStore(t, NewGormSlotStore(newTestDB(t), time.Hour))
}

func TestGormSlotStoreSkipsExpired(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	store := &gormSlotStore{db: db, ttl: time.Minute, now: func() time.Time { return now }}
	require.NoError(t, store.Put(context.Background(), "s1", SuggestionsSlot("perfect"), []byte("{}")))

	_, err := store.Get(context.Background(), "s1", SuggestionsSlot("perfect"))
	require.NoError(t, err)

	now = now.Add(time.Hour)
	_, err = store.Get(context.Background(), "s1", SuggestionsSlot("perfect"))
	assert.ErrorIs(t, err, utils.ErrSlotNotFound)
}

func TestRecipientRepositoryIsSessionScoped(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipientRepository(newTestDB(t))

	asha := &db_models.Recipient{SessionID: "s1", Name: "Asha", Birthdate: "1990-03-14", Interests: []string{"Reading", "Music"}, NotifyEmail: "me@example.com"}
	require.NoError(t, repo.Create(ctx, asha))
	require.NoError(t, repo.Create(ctx, &db_models.Recipient{SessionID: "s1", Name: "Ben"}))
	require.NoError(t, repo.Create(ctx, &db_models.Recipient{SessionID: "s2", Name: "Cara"}))

	list, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Asha", list[0].Name)
	assert.Equal(t, []string{"Reading", "Music"}, []string(list[0].Interests))

	got, err := repo.FindByID(ctx, "s2", asha.ID.String())
	require.NoError(t, err)
	assert.Nil(t, got)

	notifiable, err := repo.ListNotifiable(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, notifiable, 1)

	asha.Notes = "prefers books"
	asha.Interests = []string{"Poetry"}
	require.NoError(t, repo.Update(ctx, asha))
	got, err = repo.FindByID(ctx, "s1", asha.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "prefers books", got.Notes)
	assert.Equal(t, []string{"Poetry"}, []string(got.Interests))

	deleted, err := repo.Delete(ctx, "s2", asha.ID.String())
	require.NoError(t, err)
	assert.False(t, deleted)
	deleted, err = repo.Delete(ctx, "s1", asha.ID.String())
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestGroupGiftRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGroupGiftRepository(db)

	gift := &db_models.GroupGift{
		SessionID:    "s1",
		Title:        "Mum's 60th",
		TargetAmount: decimal.NewFromInt(200),
		Currency:     "USD",
		Deadline:     time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Status:       db_models.GroupGiftActive,
		Participants: []db_models.Participant{{Name: "Ana", Status: db_models.ParticipantInvited}},
		Messages:     []db_models.GroupMessage{{UserName: "system", Content: "created", Type: db_models.MessageSystem}},
	}
	require.NoError(t, repo.Create(ctx, gift))

	tx := db.Begin()
	locked, err := repo.WithTx(tx).FindForUpdate(ctx, "s1", gift.ID.String())
	require.NoError(t, err)
	require.NotNil(t, locked)
	locked.CurrentAmount = decimal.NewFromInt(50)
	require.NoError(t, repo.WithTx(tx).UpdateProgress(ctx, locked))
	require.NoError(t, tx.Commit().Error)

	option := &db_models.GiftOption{GroupGiftID: gift.ID, Name: "Kindle", Price: decimal.RequireFromString("99.99")}
	require.NoError(t, repo.AddOption(ctx, option))
	require.NoError(t, repo.IncrementVotes(ctx, option.ID.String()))

	got, err := repo.FindByID(ctx, "s1", gift.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, decimal.NewFromInt(50).Equal(got.CurrentAmount))
	assert.True(t, decimal.NewFromInt(150).Equal(got.Remaining()))
	require.Len(t, got.Participants, 1)
	require.Len(t, got.Options, 1)
	assert.Equal(t, 1, got.Options[0].Votes)
	assert.True(t, decimal.RequireFromString("99.99").Equal(got.Options[0].Price))
	require.Len(t, got.Messages, 1)

	other, err := repo.FindByID(ctx, "s2", gift.ID.String())
	require.NoError(t, err)
	assert.Nil(t, other)

	p, err := repo.FindParticipant(ctx, gift.ID.String(), got.Participants[0].ID.String())
	require.NoError(t, err)
	require.NotNil(t, p)
	p.Status = db_models.ParticipantJoined
	p.VotedOptionID = &option.ID
	require.NoError(t, repo.UpdateParticipant(ctx, p))

	p, err = repo.FindParticipant(ctx, gift.ID.String(), p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, db_models.ParticipantJoined, p.Status)
	require.NotNil(t, p.VotedOptionID)
	assert.Equal(t, option.ID, *p.VotedOptionID)
}
