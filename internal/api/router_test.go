package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gifty/internal/api/controllers"
	"gifty/internal/config"
	"gifty/internal/giftprompt"
	"gifty/internal/infra"
	"gifty/internal/models/response_models"
	"gifty/internal/presets"
	"gifty/internal/repositories"
	"gifty/internal/services"
	"gifty/pkg/logger"
	"gifty/pkg/maps"
	"gifty/pkg/memcache"
	"gifty/pkg/metrics"
	"gifty/pkg/middleware"
	"gifty/pkg/region"
	"gifty/pkg/sequence"
	"gifty/pkg/utils"
)

type envelope struct {
	Status  string            `json:"status"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Details map[string]string `json:"details"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(conn))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{App: config.AppConfig{Env: "dev", CORSOrigins: []string{"*"}}}
	log := logger.Nop()
	tokens, err := utils.NewSessionTokens("test-secret", "gifty", time.Hour)
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	m := metrics.NewSuggestionMetrics(reg)
	seq, err := sequence.New(1)
	require.NoError(t, err)
	catalog, err := presets.Default()
	require.NoError(t, err)

	slots := repositories.NewMemorySlotStore(time.Hour)
	regions := services.NewRegionService(slots, region.IN)
	wizards := services.NewWizardService(catalog, slots, regions)
	generator := giftprompt.SampleGenerator()
	suggestions := services.NewSuggestionService(slots, regions, generator, seq,
		memcache.New[[]response_models.GiftSuggestion](), m, log, services.SuggestionOptions{})
	mail := services.NewSMTPMailService(config.MailConfig{})

	engine := NewRouter(RouterParams{
		Config:      cfg,
		Logger:      log,
		Tokens:      tokens,
		Registry:    reg,
		DB:          conn,
		Sessions:    controllers.NewSessionController(services.NewSessionService(tokens), regions),
		Wizards:     controllers.NewWizardController(catalog, wizards),
		Suggestions: controllers.NewSuggestionController(suggestions),
		Media: controllers.NewMediaController(
			services.NewVoiceService(nil, "en", m),
			services.NewImageService(nil, memcache.New[response_models.ProductImage](), time.Hour, m),
			services.NewNearbyService(nil, memcache.New[maps.LatLng](), services.NearbyOptions{}, m, log),
		),
		Assistant: controllers.NewAssistantController(services.NewAssistantService(
			slots, regions, wizards, generator, m, log, services.AssistantOptions{})),
		Recipients: controllers.NewRecipientController(services.NewRecipientService(
			repositories.NewRecipientRepository(conn), regions, wizards, mail, log)),
		GroupGifts: controllers.NewGroupGiftController(services.NewGroupGiftService(
			conn, repositories.NewGroupGiftRepository(conn), regions, mail, log)),
	})

	s := &testServer{t: t, engine: engine}
	var session response_models.SessionResponse
	s.do(http.MethodPost, "/sessions", nil, http.StatusCreated, &session)
	s.token = session.Token
	return s
}

func (s *testServer) raw(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set(middleware.SessionHeader, s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) do(method, path string, body any, wantStatus int, out any) envelope {
	s.t.Helper()
	w := s.raw(method, path, body)
	require.Equal(s.t, wantStatus, w.Code, w.Body.String())
	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil {
		require.NoError(s.t, json.Unmarshal(env.Data, out))
	}
	return env
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodGet, "/healthz", nil, http.StatusOK, nil)

	var flows []string
	s.do(http.MethodGet, "/presets", nil, http.StatusOK, &flows)
	assert.ElementsMatch(t, []string{presets.FlowPerfect, presets.FlowQuick}, flows)

	s.do(http.MethodGet, "/presets/unknown", nil, http.StatusNotFound, nil)

	var regions []region.Settings
	s.do(http.MethodGet, "/regions", nil, http.StatusOK, &regions)
	assert.Len(t, regions, 2)
}

func TestProtectedEndpointsNeedSession(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	s.do(http.MethodGet, "/wizard/perfect", nil, http.StatusUnauthorized, nil)

	s.token = "garbage"
	s.do(http.MethodGet, "/region", nil, http.StatusUnauthorized, nil)
}

func TestWizardToSuggestions(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodGet, "/suggestions/perfect", nil, http.StatusNotFound, nil)

	var view response_models.WizardView
	s.do(http.MethodPost, "/wizard/perfect/start", nil, http.StatusOK, &view)
	assert.Equal(t, 0, view.StepIndex)

	for _, action := range []map[string]string{
		{"action": "select", "value": "Birthday"},
		{"action": "select", "value": "Partner"},
		{"action": "toggle", "value": "Technology"},
		{"action": "next"},
		{"action": "details", "budget": "50", "giftPreference": "physical"},
	} {
		s.do(http.MethodPost, "/wizard/perfect/actions", action, http.StatusOK, &view)
	}
	assert.True(t, view.IsFinal)

	env := s.do(http.MethodPost, "/wizard/perfect/actions", map[string]string{"action": "jump"}, http.StatusBadRequest, nil)
	assert.Equal(t, "error", env.Status)

	s.do(http.MethodPost, "/wizard/perfect/submit", nil, http.StatusCreated, nil)
	s.do(http.MethodPost, "/wizard/perfect/submit", nil, http.StatusConflict, nil)

	var suggestions response_models.SuggestionView
	s.do(http.MethodGet, "/suggestions/perfect", nil, http.StatusOK, &suggestions)
	require.Len(t, suggestions.Suggestions, 4)
	assert.Equal(t, "Sample Gift", suggestions.Suggestions[0].Name)
	assert.Equal(t, "INR", suggestions.Region.Currency)

	s.do(http.MethodPut, "/region", map[string]string{"region": "US"}, http.StatusOK, nil)
	s.do(http.MethodGet, "/suggestions/perfect", nil, http.StatusOK, &suggestions)
	assert.Equal(t, "USD", suggestions.Region.Currency)

	s.do(http.MethodPost, "/suggestions/perfect/refine", map[string]string{}, http.StatusBadRequest, nil)
	s.do(http.MethodPost, "/suggestions/perfect/refine", map[string]string{"preference": "something handmade"}, http.StatusOK, &suggestions)
	assert.Len(t, suggestions.Suggestions, 4)

	w := s.raw(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gifty_suggestion_cycles_total")
}

func TestVoiceAssistantSubmitsRequest(t *testing.T) {
	s := newTestServer(t)

	var reply response_models.AssistantReply
	s.do(http.MethodDelete, "/voice/assistant", nil, http.StatusOK, &reply)
	assert.False(t, reply.Done)
	assert.Equal(t, []string{"occasion", "recipient", "interests", "budget"}, reply.Missing)

	s.do(http.MethodPost, "/voice/assistant", map[string]string{}, http.StatusBadRequest, nil)

	env := s.do(http.MethodPost, "/voice/assistant", map[string]string{"text": "a birthday present for my friend who reads, about 50"}, http.StatusOK, &reply)
	assert.Equal(t, "Gift request submitted", env.Message)
	require.True(t, reply.Done)
	require.NotNil(t, reply.Request)
	assert.Equal(t, "Birthday", reply.Request.Occasion)
	assert.Equal(t, region.IN, reply.Request.Region)

	var suggestions response_models.SuggestionView
	s.do(http.MethodGet, "/suggestions/perfect", nil, http.StatusOK, &suggestions)
	assert.Len(t, suggestions.Suggestions, 4)
}

func TestRecipientsAndCalendar(t *testing.T) {
	s := newTestServer(t)

	var created struct {
		ID string `json:"id"`
	}
	birthday := time.Now().In(region.For(region.IN).Location()).AddDate(-30, 0, 3).Format(utils.DateLayout)
	s.do(http.MethodPost, "/recipients", map[string]any{
		"name": "Priya", "relationship": "Sibling", "birthdate": birthday, "interests": []string{"Music"},
	}, http.StatusCreated, &created)
	require.NotEmpty(t, created.ID)

	env := s.do(http.MethodPost, "/recipients", map[string]any{"name": "", "birthdate": "31-12-1990"}, http.StatusBadRequest, nil)
	assert.Contains(t, env.Details, "birthdate")

	var events []response_models.BirthdayEvent
	s.do(http.MethodGet, "/calendar/upcoming?days=10", nil, http.StatusOK, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "Priya", events[0].Name)

	s.do(http.MethodGet, "/calendar/month?year=2026&month=0", nil, http.StatusBadRequest, nil)
	s.do(http.MethodGet, "/calendar/upcoming?days=abc", nil, http.StatusBadRequest, nil)

	var view response_models.WizardView
	s.do(http.MethodPost, "/recipients/"+created.ID+"/wizard", nil, http.StatusOK, &view)
	assert.Equal(t, "Sibling", view.State.Recipient)

	s.do(http.MethodDelete, "/recipients/"+created.ID, nil, http.StatusOK, nil)
	s.do(http.MethodGet, "/recipients/"+created.ID, nil, http.StatusNotFound, nil)
}

func TestGroupGiftEndpoints(t *testing.T) {
	s := newTestServer(t)

	var gift struct {
		ID           string `json:"id"`
		Status       string `json:"status"`
		Participants []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"participants"`
	}
	s.do(http.MethodPost, "/group-gifts", map[string]any{
		"title":         "Farewell",
		"recipient":     "Jordan",
		"occasion":      "Thank You",
		"target_amount": "40",
		"deadline":      time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"organizer":     "Kim",
		"participants":  []map[string]string{{"name": "Lee", "email": "lee@example.com"}},
	}, http.StatusCreated, &gift)
	require.Len(t, gift.Participants, 1)

	s.do(http.MethodPost, "/group-gifts/"+gift.ID+"/contributions", map[string]any{
		"participant_id": gift.Participants[0].ID, "amount": "40",
	}, http.StatusOK, &gift)
	assert.Equal(t, "completed", gift.Status)

	s.do(http.MethodPost, "/group-gifts/"+gift.ID+"/contributions", map[string]any{
		"participant_id": gift.Participants[0].ID, "amount": 1,
	}, http.StatusConflict, nil)

	s.do(http.MethodGet, "/group-gifts/"+strings.Repeat("x", 5), nil, http.StatusNotFound, nil)
}

func TestUnconfiguredIntegrations(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/voice/speak", map[string]string{"text": "hello"}, http.StatusServiceUnavailable, nil)
	s.do(http.MethodGet, "/images?q=mug", nil, http.StatusServiceUnavailable, nil)
	s.do(http.MethodGet, "/stores/nearby", nil, http.StatusBadRequest, nil)
	s.do(http.MethodPost, "/calendar/reminders", nil, http.StatusOK, nil)
}
