package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gifty/internal/infra"
	"gifty/internal/models/request_models"
	"gifty/internal/presets"
	"gifty/internal/repositories"
	"gifty/pkg/llm"
	"gifty/pkg/region"
)

type counterSequence struct{ n atomic.Int64 }

func (c *counterSequence) Next() int64 { return c.n.Add(1) }

// scriptedGenerator answers through reply and records every request it saw.
type scriptedGenerator struct {
	mu       sync.Mutex
	requests []llm.CompletionRequest
	reply    func(n int, req llm.CompletionRequest) (string, error)
}

func (g *scriptedGenerator) Name() string { return "scripted" }

func (g *scriptedGenerator) Generate(_ context.Context, req llm.CompletionRequest) (string, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	n := len(g.requests)
	g.mu.Unlock()
	return g.reply(n, req)
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

func (g *scriptedGenerator) last() llm.CompletionRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[len(g.requests)-1]
}

func newSlots() repositories.SlotStore {
	return repositories.NewMemorySlotStore(time.Hour)
}

func testCatalog(t *testing.T) *presets.Catalog {
	t.Helper()
	c, err := presets.Default()
	require.NoError(t, err)
	return c
}

func sampleRequest() request_models.GiftRequest {
	return request_models.GiftRequest{
		Occasion:       "Birthday",
		Recipient:      "Partner",
		Interests:      []string{"Technology", "Reading"},
		Budget:         "50",
		GiftPreference: request_models.GiftPreferencePhysical,
		Region:         region.US,
	}
}

func putRequest(t *testing.T, slots repositories.SlotStore, sessionID string, req request_models.GiftRequest) {
	t.Helper()
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	require.NoError(t, slots.Put(context.Background(), sessionID, repositories.SlotUserInput, raw))
}

func getRequest(t *testing.T, slots repositories.SlotStore, sessionID string) request_models.GiftRequest {
	t.Helper()
	raw, err := slots.Get(context.Background(), sessionID, repositories.SlotUserInput)
	require.NoError(t, err)
	var req request_models.GiftRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	return req
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(conn))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

type sentMail struct {
	to       string
	invite   *GroupGiftInvite
	reminder *BirthdayReminder
}

type fakeMail struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMail) SendGroupGiftInvite(_ context.Context, to string, invite GroupGiftInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, invite: &invite})
	return nil
}

func (m *fakeMail) SendBirthdayReminder(_ context.Context, to string, reminder BirthdayReminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, reminder: &reminder})
	return nil
}
