package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/multierr"

	"gifty/internal/models/db_models"
	"gifty/internal/models/request_models"
	"gifty/internal/models/response_models"
	"gifty/internal/presets"
	"gifty/internal/repositories"
	"gifty/pkg/logger"
	"gifty/pkg/utils"
	"gifty/pkg/validation"
)

const (
	DefaultUpcomingDays = 30
	DefaultReminderDays = 7
	maxWindowDays       = 366
)

type RecipientServiceInterface interface {
	Create(ctx context.Context, sessionID string, req request_models.RecipientRequest) (*db_models.Recipient, error)
	Get(ctx context.Context, sessionID, id string) (*db_models.Recipient, error)
	List(ctx context.Context, sessionID string) ([]db_models.Recipient, error)
	Update(ctx context.Context, sessionID, id string, req request_models.RecipientRequest) (*db_models.Recipient, error)
	Delete(ctx context.Context, sessionID, id string) error
	Upcoming(ctx context.Context, sessionID string, days int) ([]response_models.BirthdayEvent, error)
	Month(ctx context.Context, sessionID string, year, month int) ([]response_models.BirthdayEvent, error)
	SendReminders(ctx context.Context, sessionID string, days int) (*response_models.ReminderResult, error)
	StartWizard(ctx context.Context, sessionID, id, flow string) (*response_models.WizardView, error)
}

type RecipientService struct {
	repo    repositories.RecipientRepositoryInterface
	regions RegionServiceInterface
	wizards WizardServiceInterface
	mail    IMailService
	log     *logger.Logger
	now     func() time.Time
}

func NewRecipientService(
	repo repositories.RecipientRepositoryInterface,
	regions RegionServiceInterface,
	wizards WizardServiceInterface,
	mail IMailService,
	log *logger.Logger,
) RecipientServiceInterface {
	return &RecipientService{repo: repo, regions: regions, wizards: wizards, mail: mail, log: log, now: time.Now}
}

func (s *RecipientService) Create(ctx context.Context, sessionID string, req request_models.RecipientRequest) (*db_models.Recipient, error) {
	req = cleanRecipient(req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	recipient := &db_models.Recipient{SessionID: sessionID}
	applyRecipient(recipient, req)
	if err := s.repo.Create(ctx, recipient); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return recipient, nil
}

func (s *RecipientService) Get(ctx context.Context, sessionID, id string) (*db_models.Recipient, error) {
	recipient, err := s.repo.FindByID(ctx, sessionID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if recipient == nil {
		return nil, utils.ErrRecipientNotFound
	}
	return recipient, nil
}

func (s *RecipientService) List(ctx context.Context, sessionID string) ([]db_models.Recipient, error) {
	recipients, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return recipients, nil
}

func (s *RecipientService) Update(ctx context.Context, sessionID, id string, req request_models.RecipientRequest) (*db_models.Recipient, error) {
	req = cleanRecipient(req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	recipient, err := s.Get(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	applyRecipient(recipient, req)
	if err := s.repo.Update(ctx, recipient); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return recipient, nil
}

func (s *RecipientService) Delete(ctx context.Context, sessionID, id string) error {
	deleted, err := s.repo.Delete(ctx, sessionID, id)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !deleted {
		return utils.ErrRecipientNotFound
	}
	return nil
}

// Upcoming lists birthdays whose next occurrence is at most days away, soonest first.
func (s *RecipientService) Upcoming(ctx context.Context, sessionID string, days int) ([]response_models.BirthdayEvent, error) {
	days = window(days, DefaultUpcomingDays)
	recipients, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	today, err := s.today(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return upcoming(recipients, today, days), nil
}

// Month lists the birthdays falling in the given month. Past dates carry a negative DaysUntil.
func (s *RecipientService) Month(ctx context.Context, sessionID string, year, month int) ([]response_models.BirthdayEvent, error) {
	if month < 1 || month > 12 {
		return nil, validation.Field("month", "must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, validation.Field("year", "is invalid")
	}
	recipients, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	today, err := s.today(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	events := []response_models.BirthdayEvent{}
	for _, r := range recipients {
		birth, ok := birthdate(r)
		if !ok {
			continue
		}
		date := utils.AnniversaryIn(birth, year, today.Location())
		if int(date.Month()) != month || year < birth.Year() {
			continue
		}
		events = append(events, event(r, date, dayDiff(today, date)))
	}
	sortEvents(events)
	return events, nil
}

// SendReminders emails every recipient with a notification address whose birthday is within
// the window. It fails only when nothing could be sent.
func (s *RecipientService) SendReminders(ctx context.Context, sessionID string, days int) (*response_models.ReminderResult, error) {
	days = window(days, DefaultReminderDays)
	recipients, err := s.repo.ListNotifiable(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	today, err := s.today(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]db_models.Recipient, len(recipients))
	for _, r := range recipients {
		byID[r.ID.String()] = r
	}
	result := &response_models.ReminderResult{}
	var errs error
	for _, e := range upcoming(recipients, today, days) {
		date, _ := utils.ParseDate(e.Date)
		err := s.mail.SendBirthdayReminder(ctx, byID[e.RecipientID].NotifyEmail, BirthdayReminder{
			RecipientID: e.RecipientID,
			Name:        e.Name,
			Date:        date,
			DaysUntil:   e.DaysUntil,
		})
		if err != nil {
			s.log.Zerolog(ctx).Warn().Err(err).Str("recipient_id", e.RecipientID).Msg("birthday reminder failed")
			errs = multierr.Append(errs, err)
			result.Failed++
			continue
		}
		result.Sent++
	}
	if result.Sent == 0 && errs != nil {
		return nil, errs
	}
	return result, nil
}

// StartWizard starts a fresh run of the flow with the recipient's relationship and interests
// filled in.
func (s *RecipientService) StartWizard(ctx context.Context, sessionID, id, flow string) (*response_models.WizardView, error) {
	recipient, err := s.Get(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	if flow == "" {
		flow = presets.FlowPerfect
	}
	who := recipient.Relationship
	if who == "" {
		who = recipient.Name
	}
	return s.wizards.Seed(ctx, sessionID, flow, who, recipient.Interests)
}

func (s *RecipientService) today(ctx context.Context, sessionID string) (time.Time, error) {
	settings, err := s.regions.Get(ctx, sessionID)
	if err != nil {
		return time.Time{}, err
	}
	return utils.StartOfDay(s.now().In(settings.Location())), nil
}

func upcoming(recipients []db_models.Recipient, today time.Time, days int) []response_models.BirthdayEvent {
	events := []response_models.BirthdayEvent{}
	for _, r := range recipients {
		birth, ok := birthdate(r)
		if !ok {
			continue
		}
		until := utils.DaysUntil(birth, today)
		if until > days {
			continue
		}
		events = append(events, event(r, utils.NextOccurrence(birth, today), until))
	}
	sortEvents(events)
	return events
}

func event(r db_models.Recipient, date time.Time, until int) response_models.BirthdayEvent {
	birth, _ := birthdate(r)
	return response_models.BirthdayEvent{
		RecipientID:  r.ID.String(),
		Name:         r.Name,
		Relationship: r.Relationship,
		Date:         date.Format(utils.DateLayout),
		DaysUntil:    until,
		TurningAge:   date.Year() - birth.Year(),
	}
}

func sortEvents(events []response_models.BirthdayEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].DaysUntil == events[j].DaysUntil {
			return events[i].Name < events[j].Name
		}
		return events[i].DaysUntil < events[j].DaysUntil
	})
}

func birthdate(r db_models.Recipient) (time.Time, bool) {
	if r.Birthdate == "" {
		return time.Time{}, false
	}
	t, err := utils.ParseDate(r.Birthdate)
	return t, err == nil
}

func dayDiff(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func window(days, fallback int) int {
	if days <= 0 {
		return fallback
	}
	if days > maxWindowDays {
		return maxWindowDays
	}
	return days
}

func cleanRecipient(req request_models.RecipientRequest) request_models.RecipientRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Relationship = strings.TrimSpace(req.Relationship)
	req.Birthdate = strings.TrimSpace(req.Birthdate)
	req.Notes = strings.TrimSpace(req.Notes)
	req.NotifyEmail = strings.TrimSpace(req.NotifyEmail)

	seen := map[string]bool{}
	interests := []string{}
	for _, i := range req.Interests {
		i = strings.TrimSpace(i)
		key := strings.ToLower(i)
		if i == "" || seen[key] {
			continue
		}
		seen[key] = true
		interests = append(interests, i)
	}
	req.Interests = interests
	return req
}

func applyRecipient(r *db_models.Recipient, req request_models.RecipientRequest) {
	r.Name = req.Name
	r.Relationship = req.Relationship
	r.Birthdate = req.Birthdate
	r.Interests = pq.StringArray(req.Interests)
	r.Notes = req.Notes
	r.NotifyEmail = req.NotifyEmail
}
