package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifty/internal/config"
	"gifty/pkg/utils"
)

type capturedMail struct {
	to  string
	msg string
}

func newCapturingMail(t *testing.T) (*smtpMailService, *[]capturedMail) {
	t.Helper()
	svc := NewSMTPMailService(config.MailConfig{
		Host:     "smtp.test",
		From:     "gifty@example.com",
		FromName: "Gifty",
		AppURL:   "https://gifty.test/",
	}).(*smtpMailService)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	svc.boundary = func() string { return "b1" }

	var sent []capturedMail
	svc.deliver = func(_ context.Context, to string, msg []byte) error {
		sent = append(sent, capturedMail{to: to, msg: string(msg)})
		return nil
	}
	return svc, &sent
}

func TestMailDisabledWithoutHost(t *testing.T) {
	svc := NewSMTPMailService(config.MailConfig{})
	err := svc.SendBirthdayReminder(context.Background(), "a@example.com", BirthdayReminder{Name: "Asha"})
	assert.ErrorIs(t, err, utils.ErrFeatureDisabled)
}

func TestSendGroupGiftInvite(t *testing.T) {
	svc, sent := newCapturingMail(t)
	err := svc.SendGroupGiftInvite(context.Background(), "ben@example.com", GroupGiftInvite{
		GiftID:      "g1",
		Participant: "Ben",
		Organizer:   "Ana",
		Title:       "Mum's 60th",
		Recipient:   "Mum",
		Occasion:    "Birthday",
		Deadline:    time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	mail := (*sent)[0]
	assert.Equal(t, "ben@example.com", mail.to)
	assert.Contains(t, mail.msg, "From: Gifty <gifty@example.com>\r\n")
	assert.Contains(t, mail.msg, `boundary="b1"`)
	assert.Contains(t, mail.msg, "Hi Ben, Ana is collecting contributions for a birthday gift for Mum.")
	assert.Contains(t, mail.msg, "November 30, 2026")
	assert.Contains(t, mail.msg, "https://gifty.test/group-gifting/g1")
	assert.Contains(t, mail.msg, "--b1--\r\n")
}

func TestSendBirthdayReminderWording(t *testing.T) {
	svc, sent := newCapturingMail(t)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SendBirthdayReminder(context.Background(), "me@example.com", BirthdayReminder{RecipientID: "r1", Name: "Asha", Date: day, DaysUntil: 1}))
	require.NoError(t, svc.SendBirthdayReminder(context.Background(), "me@example.com", BirthdayReminder{RecipientID: "r1", Name: "Asha", Date: day, DaysUntil: 0}))
	require.NoError(t, svc.SendBirthdayReminder(context.Background(), "me@example.com", BirthdayReminder{RecipientID: "r1", Name: "Asha", Date: day, DaysUntil: 12}))

	assert.Contains(t, (*sent)[0].msg, "Asha's birthday is tomorrow")
	assert.Contains(t, (*sent)[1].msg, "Asha's birthday is today")
	assert.Contains(t, (*sent)[2].msg, "Asha's birthday is in 12 days")
	assert.Contains(t, (*sent)[0].msg, "Monday, October 19")
	assert.Contains(t, (*sent)[0].msg, "https://gifty.test/recipients/r1")
}
