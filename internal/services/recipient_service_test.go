package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifty/internal/models/request_models"
	"gifty/internal/presets"
	"gifty/internal/repositories"
	"gifty/pkg/logger"
	"gifty/pkg/utils"
	"gifty/pkg/validation"
)

func newRecipientService(t *testing.T, mail IMailService) *RecipientService {
	t.Helper()
	wizards, _, regions := newWizardService(t)
	svc := NewRecipientService(repositories.NewRecipientRepository(newTestDB(t)), regions, wizards, mail, logger.Nop()).(*RecipientService)
	svc.now = func() time.Time { return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC) }
	return svc
}

func addRecipient(t *testing.T, svc RecipientServiceInterface, sessionID string, req request_models.RecipientRequest) string {
	t.Helper()
	r, err := svc.Create(context.Background(), sessionID, req)
	require.NoError(t, err)
	return r.ID.String()
}

func TestRecipientCRUDIsScopedToSession(t *testing.T) {
	svc := newRecipientService(t, &fakeMail{})
	ctx := context.Background()

	r, err := svc.Create(ctx, "s1", request_models.RecipientRequest{
		Name:      "  Alice ",
		Interests: []string{"Music", " music", "", "Hiking"},
		Birthdate: "1990-10-20",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", r.Name)
	assert.Equal(t, []string{"Music", "Hiking"}, []string(r.Interests))

	_, err = svc.Get(ctx, "s2", r.ID.String())
	assert.ErrorIs(t, err, utils.ErrRecipientNotFound)

	updated, err := svc.Update(ctx, "s1", r.ID.String(), request_models.RecipientRequest{Name: "Alice B", Relationship: "Sister"})
	require.NoError(t, err)
	assert.Equal(t, "Sister", updated.Relationship)
	assert.Empty(t, updated.Birthdate)

	list, err := svc.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice B", list[0].Name)

	assert.ErrorIs(t, svc.Delete(ctx, "s2", r.ID.String()), utils.ErrRecipientNotFound)
	require.NoError(t, svc.Delete(ctx, "s1", r.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, "s1", r.ID.String()), utils.ErrRecipientNotFound)
}

func TestRecipientValidation(t *testing.T) {
	svc := newRecipientService(t, &fakeMail{})

	_, err := svc.Create(context.Background(), "s1", request_models.RecipientRequest{
		Name:        " ",
		Birthdate:   "1990-13-01",
		NotifyEmail: "not-an-email",
	})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["name"])
	assert.Equal(t, "must be a date in YYYY-MM-DD format", verr.Fields["birthdate"])
	assert.Equal(t, "must be a valid email", verr.Fields["notify_email"])
}

func seedCalendar(t *testing.T, svc RecipientServiceInterface) {
	t.Helper()
	addRecipient(t, svc, "s1", request_models.RecipientRequest{Name: "Alice", Relationship: "Sister", Birthdate: "1990-10-20", NotifyEmail: "me@example.com"})
	addRecipient(t, svc, "s1", request_models.RecipientRequest{Name: "Bob", Birthdate: "1985-10-18"})
	addRecipient(t, svc, "s1", request_models.RecipientRequest{Name: "Carol", Birthdate: "2000-12-25", NotifyEmail: "me@example.com"})
	addRecipient(t, svc, "s1", request_models.RecipientRequest{Name: "Dan"})
	addRecipient(t, svc, "s1", request_models.RecipientRequest{Name: "Eve", Birthdate: "1992-02-29"})
	addRecipient(t, svc, "s2", request_models.RecipientRequest{Name: "Other", Birthdate: "1990-10-19"})
}

func TestUpcomingBirthdays(t *testing.T) {
	svc := newRecipientService(t, &fakeMail{})
	seedCalendar(t, svc)

	events, err := svc.Upcoming(context.Background(), "s1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Bob", events[0].Name)
	assert.Equal(t, 0, events[0].DaysUntil, "today counts as zero")
	assert.Equal(t, 41, events[0].TurningAge)
	assert.Equal(t, "Alice", events[1].Name)
	assert.Equal(t, "2026-10-20", events[1].Date)
	assert.Equal(t, 2, events[1].DaysUntil)

	events, err = svc.Upcoming(context.Background(), "s1", 90)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Carol", events[2].Name)
	assert.Equal(t, 68, events[2].DaysUntil)
}

func TestMonthBirthdays(t *testing.T) {
	svc := newRecipientService(t, &fakeMail{})
	seedCalendar(t, svc)
	ctx := context.Background()

	events, err := svc.Month(ctx, "s1", 2027, 2)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Eve", events[0].Name)
	assert.Equal(t, "2027-02-28", events[0].Date, "leap day falls on Feb 28")

	events, err = svc.Month(ctx, "s1", 2026, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Bob", events[0].Name)

	_, err = svc.Month(ctx, "s1", 2026, 13)
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))
}

func TestSendReminders(t *testing.T) {
	mail := &fakeMail{}
	svc := newRecipientService(t, mail)
	seedCalendar(t, svc)

	res, err := svc.SendReminders(context.Background(), "s1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "me@example.com", mail.sent[0].to)
	assert.Equal(t, "Alice", mail.sent[0].reminder.Name)
	assert.Equal(t, 2, mail.sent[0].reminder.DaysUntil)

	mail.err = utils.ErrFeatureDisabled
	_, err = svc.SendReminders(context.Background(), "s1", 0)
	assert.ErrorIs(t, err, utils.ErrFeatureDisabled)

	res, err = svc.SendReminders(context.Background(), "empty", 0)
	require.NoError(t, err)
	assert.Zero(t, res.Sent)
}

func TestStartWizardFromRecipient(t *testing.T) {
	svc := newRecipientService(t, &fakeMail{})
	id := addRecipient(t, svc, "s1", request_models.RecipientRequest{Name: "Mum", Relationship: "Parent", Interests: []string{"Gardening", "Cooking"}})

	view, err := svc.StartWizard(context.Background(), "s1", id, "")
	require.NoError(t, err)
	assert.Equal(t, presets.FlowPerfect, view.Flow)
	assert.Equal(t, "Parent", view.State.Recipient)
	assert.Equal(t, []string{"Gardening", "Cooking"}, view.State.Interests)

	_, err = svc.StartWizard(context.Background(), "s2", id, presets.FlowQuick)
	assert.ErrorIs(t, err, utils.ErrRecipientNotFound)
}
