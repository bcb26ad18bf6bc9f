package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gifty/internal/models/db_models"
)

type GroupGiftRepositoryInterface interface {
	WithTx(tx *gorm.DB) GroupGiftRepositoryInterface
	Create(ctx context.Context, gift *db_models.GroupGift) error
	FindByID(ctx context.Context, sessionID, id string) (*db_models.GroupGift, error)
	FindForUpdate(ctx context.Context, sessionID, id string) (*db_models.GroupGift, error)
	List(ctx context.Context, sessionID string) ([]db_models.GroupGift, error)
	UpdateProgress(ctx context.Context, gift *db_models.GroupGift) error
	FindParticipant(ctx context.Context, giftID, participantID string) (*db_models.Participant, error)
	UpdateParticipant(ctx context.Context, participant *db_models.Participant) error
	FindOption(ctx context.Context, giftID, optionID string) (*db_models.GiftOption, error)
	AddOption(ctx context.Context, option *db_models.GiftOption) error
	IncrementVotes(ctx context.Context, optionID string) error
	AddMessage(ctx context.Context, message *db_models.GroupMessage) error
}

type GroupGiftRepository struct {
	db *gorm.DB
}

func NewGroupGiftRepository(db *gorm.DB) GroupGiftRepositoryInterface {
	return &GroupGiftRepository{db: db}
}

func (r *GroupGiftRepository) WithTx(tx *gorm.DB) GroupGiftRepositoryInterface {
	return &GroupGiftRepository{db: tx}
}

// Create inserts the gift together with its participants, options and messages.
func (r *GroupGiftRepository) Create(ctx context.Context, gift *db_models.GroupGift) error {
	return r.db.WithContext(ctx).Create(gift).Error
}

func (r *GroupGiftRepository) FindByID(ctx context.Context, sessionID, id string) (*db_models.GroupGift, error) {
	var gift db_models.GroupGift
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("votes DESC, created_at ASC") }).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&gift, "id = ? AND session_id = ?", id, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gift, nil
}

// FindForUpdate loads the gift row alone and locks it for the rest of the transaction.
func (r *GroupGiftRepository) FindForUpdate(ctx context.Context, sessionID, id string) (*db_models.GroupGift, error) {
	var gift db_models.GroupGift
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&gift, "id = ? AND session_id = ?", id, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &gift, nil
}

func (r *GroupGiftRepository) List(ctx context.Context, sessionID string) ([]db_models.GroupGift, error) {
	var gifts []db_models.GroupGift
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("session_id = ?", sessionID).
		Order("deadline ASC").
		Find(&gifts).Error
	return gifts, err
}

func (r *GroupGiftRepository) UpdateProgress(ctx context.Context, gift *db_models.GroupGift) error {
	return r.db.WithContext(ctx).
		Model(gift).
		Select("current_amount", "status").
		Updates(gift).Error
}

func (r *GroupGiftRepository) FindParticipant(ctx context.Context, giftID, participantID string) (*db_models.Participant, error) {
	var p db_models.Participant
	err := r.db.WithContext(ctx).First(&p, "id = ? AND group_gift_id = ?", participantID, giftID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *GroupGiftRepository) UpdateParticipant(ctx context.Context, participant *db_models.Participant) error {
	return r.db.WithContext(ctx).
		Model(participant).
		Select("contribution", "status", "voted_option_id").
		Updates(participant).Error
}

func (r *GroupGiftRepository) FindOption(ctx context.Context, giftID, optionID string) (*db_models.GiftOption, error) {
	var o db_models.GiftOption
	err := r.db.WithContext(ctx).First(&o, "id = ? AND group_gift_id = ?", optionID, giftID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *GroupGiftRepository) AddOption(ctx context.Context, option *db_models.GiftOption) error {
	return r.db.WithContext(ctx).Create(option).Error
}

func (r *GroupGiftRepository) IncrementVotes(ctx context.Context, optionID string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.GiftOption{}).
		Where("id = ?", optionID).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1)).Error
}

func (r *GroupGiftRepository) AddMessage(ctx context.Context, message *db_models.GroupMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}
