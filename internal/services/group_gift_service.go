package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gifty/internal/infra"
	"gifty/internal/models/db_models"
	"gifty/internal/models/request_models"
	"gifty/internal/repositories"
	"gifty/pkg/logger"
	"gifty/pkg/utils"
	"gifty/pkg/validation"
)

type GroupGiftServiceInterface interface {
	Create(ctx context.Context, sessionID string, req request_models.CreateGroupGiftRequest) (*db_models.GroupGift, error)
	Get(ctx context.Context, sessionID, id string) (*db_models.GroupGift, error)
	List(ctx context.Context, sessionID string) ([]db_models.GroupGift, error)
	Contribute(ctx context.Context, sessionID, giftID string, req request_models.ContributeRequest) (*db_models.GroupGift, error)
	Vote(ctx context.Context, sessionID, giftID string, req request_models.VoteRequest) (*db_models.GroupGift, error)
	AddOption(ctx context.Context, sessionID, giftID string, req request_models.GiftOptionRequest) (*db_models.GroupGift, error)
	AddMessage(ctx context.Context, sessionID, giftID string, req request_models.GroupMessageRequest) (*db_models.GroupGift, error)
}

type GroupGiftService struct {
	db      *gorm.DB
	repo    repositories.GroupGiftRepositoryInterface
	regions RegionServiceInterface
	mail    IMailService
	log     *logger.Logger
	now     func() time.Time
}

func NewGroupGiftService(
	db *gorm.DB,
	repo repositories.GroupGiftRepositoryInterface,
	regions RegionServiceInterface,
	mail IMailService,
	log *logger.Logger,
) GroupGiftServiceInterface {
	return &GroupGiftService{db: db, repo: repo, regions: regions, mail: mail, log: log, now: time.Now}
}

// Create stores the gift with its participants and opening message, then invites every
// participant with an email address. Invitation failures are logged only.
func (s *GroupGiftService) Create(ctx context.Context, sessionID string, req request_models.CreateGroupGiftRequest) (*db_models.GroupGift, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	target := money(req.TargetAmount)
	minimum := money(req.MinContribution)
	if !target.IsPositive() {
		return nil, utils.ErrInvalidAmount
	}
	if minimum.IsNegative() || minimum.GreaterThan(target) {
		return nil, validation.Field("min_contribution", "must be between 0 and the target amount")
	}
	if !req.Deadline.After(s.now()) {
		return nil, utils.ErrDeadlinePassed
	}
	if len(req.Participants) == 0 {
		return nil, utils.ErrParticipantsRequired
	}
	settings, err := s.regions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	gift := &db_models.GroupGift{
		SessionID:       sessionID,
		Title:           strings.TrimSpace(req.Title),
		Recipient:       strings.TrimSpace(req.Recipient),
		Occasion:        strings.TrimSpace(req.Occasion),
		TargetAmount:    target,
		CurrentAmount:   decimal.Zero,
		MinContribution: minimum,
		Currency:        settings.Currency,
		Deadline:        req.Deadline.UTC(),
		Organizer:       strings.TrimSpace(req.Organizer),
		Status:          db_models.GroupGiftActive,
	}
	for _, p := range req.Participants {
		gift.Participants = append(gift.Participants, db_models.Participant{
			Name:         strings.TrimSpace(p.Name),
			Email:        strings.TrimSpace(p.Email),
			Contribution: decimal.Zero,
			Status:       db_models.ParticipantInvited,
		})
	}
	for _, o := range req.Options {
		gift.Options = append(gift.Options, newOption(o))
	}
	gift.Messages = []db_models.GroupMessage{{
		UserName: "System",
		Content:  fmt.Sprintf("%s started a group gift for %s.", gift.Organizer, gift.Recipient),
		Type:     db_models.MessageSystem,
	}}

	if err := s.repo.Create(ctx, gift); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	s.invite(ctx, gift)
	return s.Get(ctx, sessionID, gift.ID.String())
}

func (s *GroupGiftService) invite(ctx context.Context, gift *db_models.GroupGift) {
	for _, p := range gift.Participants {
		if p.Email == "" {
			continue
		}
		err := s.mail.SendGroupGiftInvite(ctx, p.Email, GroupGiftInvite{
			GiftID:      gift.ID.String(),
			Participant: p.Name,
			Organizer:   gift.Organizer,
			Title:       gift.Title,
			Recipient:   gift.Recipient,
			Occasion:    gift.Occasion,
			Deadline:    gift.Deadline,
		})
		if err != nil {
			s.log.Zerolog(ctx).Warn().Err(err).Str("participant_id", p.ID.String()).Msg("group gift invitation failed")
		}
	}
}

func (s *GroupGiftService) Get(ctx context.Context, sessionID, id string) (*db_models.GroupGift, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrGroupGiftNotFound
	}
	gift, err := s.repo.FindByID(ctx, sessionID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if gift == nil {
		return nil, utils.ErrGroupGiftNotFound
	}
	return gift, nil
}

func (s *GroupGiftService) List(ctx context.Context, sessionID string) ([]db_models.GroupGift, error) {
	gifts, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return gifts, nil
}

// Contribute adds the amount to the gift under a row lock. The gift completes once the target
// is reached and accepts nothing afterwards.
func (s *GroupGiftService) Contribute(ctx context.Context, sessionID, giftID string, req request_models.ContributeRequest) (*db_models.GroupGift, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	amount := money(req.Amount)
	if !amount.IsPositive() {
		return nil, utils.ErrInvalidAmount
	}

	err := s.inTx(ctx, sessionID, giftID, func(repo repositories.GroupGiftRepositoryInterface, gift *db_models.GroupGift) error {
		if gift.Status == db_models.GroupGiftCompleted {
			return utils.ErrGroupGiftClosed
		}
		if amount.LessThan(gift.MinContribution) {
			return utils.ErrContributionTooLow
		}
		if amount.GreaterThan(gift.Remaining()) {
			return utils.ErrContributionTooHigh
		}
		participant, err := repo.FindParticipant(ctx, giftID, req.ParticipantID)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if participant == nil {
			return utils.ErrParticipantNotFound
		}

		participant.Contribution = participant.Contribution.Add(amount)
		participant.Status = db_models.ParticipantJoined
		if err := repo.UpdateParticipant(ctx, participant); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}

		gift.CurrentAmount = gift.CurrentAmount.Add(amount)
		if gift.CurrentAmount.GreaterThanOrEqual(gift.TargetAmount) {
			gift.Status = db_models.GroupGiftCompleted
		}
		if err := repo.UpdateProgress(ctx, gift); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		return s.addMessage(ctx, repo, gift.ID, participant.Name,
			fmt.Sprintf("%s contributed %s %s", participant.Name, amount.StringFixed(2), gift.Currency),
			db_models.MessageContribution)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID, giftID)
}

// Vote records the participant's vote for an option. Each participant votes once per gift.
func (s *GroupGiftService) Vote(ctx context.Context, sessionID, giftID string, req request_models.VoteRequest) (*db_models.GroupGift, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	err := s.inTx(ctx, sessionID, giftID, func(repo repositories.GroupGiftRepositoryInterface, gift *db_models.GroupGift) error {
		participant, err := repo.FindParticipant(ctx, giftID, req.ParticipantID)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if participant == nil {
			return utils.ErrParticipantNotFound
		}
		option, err := repo.FindOption(ctx, giftID, req.OptionID)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if option == nil {
			return utils.ErrGiftOptionNotFound
		}
		if participant.VotedOptionID != nil {
			return utils.ErrAlreadyVoted
		}

		participant.VotedOptionID = &option.ID
		if err := repo.UpdateParticipant(ctx, participant); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if err := repo.IncrementVotes(ctx, option.ID.String()); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		return s.addMessage(ctx, repo, gift.ID, participant.Name,
			fmt.Sprintf("%s voted for %s", participant.Name, option.Name), db_models.MessageVote)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID, giftID)
}

func (s *GroupGiftService) AddOption(ctx context.Context, sessionID, giftID string, req request_models.GiftOptionRequest) (*db_models.GroupGift, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, validation.Field("price", "must not be negative")
	}
	err := s.inTx(ctx, sessionID, giftID, func(repo repositories.GroupGiftRepositoryInterface, gift *db_models.GroupGift) error {
		option := newOption(req)
		option.GroupGiftID = gift.ID
		if err := repo.AddOption(ctx, &option); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		who := option.SuggestedBy
		if who == "" {
			who = "Someone"
		}
		return s.addMessage(ctx, repo, gift.ID, "System",
			fmt.Sprintf("%s suggested %s", who, option.Name), db_models.MessageSystem)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID, giftID)
}

func (s *GroupGiftService) AddMessage(ctx context.Context, sessionID, giftID string, req request_models.GroupMessageRequest) (*db_models.GroupGift, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	req.Content = strings.TrimSpace(req.Content)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	gift, err := s.Get(ctx, sessionID, giftID)
	if err != nil {
		return nil, err
	}
	if err := s.addMessage(ctx, s.repo, gift.ID, req.UserName, req.Content, db_models.MessageChat); err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionID, giftID)
}

// inTx locks the gift row and runs fn inside one transaction.
func (s *GroupGiftService) inTx(ctx context.Context, sessionID, giftID string, fn func(repositories.GroupGiftRepositoryInterface, *db_models.GroupGift) error) error {
	if _, err := uuid.Parse(giftID); err != nil {
		return utils.ErrGroupGiftNotFound
	}
	tx, err := infra.StartTransaction(s.db.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	repo := s.repo.WithTx(tx)

	gift, fnErr := repo.FindForUpdate(ctx, sessionID, giftID)
	switch {
	case fnErr != nil:
		fnErr = fmt.Errorf("%w: %v", utils.ErrDatabaseError, fnErr)
	case gift == nil:
		fnErr = utils.ErrGroupGiftNotFound
	default:
		fnErr = fn(repo, gift)
	}

	err = infra.ReleaseTransaction(tx, fnErr)
	if err != nil && err != fnErr {
		err = fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if errors.Is(err, utils.ErrDatabaseError) {
		s.log.Error(ctx, "group gift transaction failed", err)
	}
	return err
}

func (s *GroupGiftService) addMessage(ctx context.Context, repo repositories.GroupGiftRepositoryInterface, giftID uuid.UUID, user, content, kind string) error {
	err := repo.AddMessage(ctx, &db_models.GroupMessage{
		GroupGiftID: giftID,
		UserName:    user,
		Content:     content,
		Type:        kind,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func newOption(req request_models.GiftOptionRequest) db_models.GiftOption {
	return db_models.GiftOption{
		Name:        strings.TrimSpace(req.Name),
		Price:       money(req.Price),
		Description: strings.TrimSpace(req.Description),
		ImageURL:    req.ImageURL,
		URL:         req.URL,
		SuggestedBy: strings.TrimSpace(req.SuggestedBy),
	}
}

// money rounds to cents. Amount checks run on the rounded value.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
