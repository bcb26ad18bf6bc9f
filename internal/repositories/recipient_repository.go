package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gifty/internal/models/db_models"
)

type RecipientRepositoryInterface interface {
	Create(ctx context.Context, recipient *db_models.Recipient) error
	FindByID(ctx context.Context, sessionID, id string) (*db_models.Recipient, error)
	List(ctx context.Context, sessionID string) ([]db_models.Recipient, error)
	ListNotifiable(ctx context.Context, sessionID string) ([]db_models.Recipient, error)
	Update(ctx context.Context, recipient *db_models.Recipient) error
	Delete(ctx context.Context, sessionID, id string) (bool, error)
}

type RecipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) RecipientRepositoryInterface {
	return &RecipientRepository{db: db}
}

func (r *RecipientRepository) Create(ctx context.Context, recipient *db_models.Recipient) error {
	return r.db.WithContext(ctx).Create(recipient).Error
}

// FindByID returns nil, nil when the recipient does not exist in the session.
func (r *RecipientRepository) FindByID(ctx context.Context, sessionID, id string) (*db_models.Recipient, error) {
	var recipient db_models.Recipient
	err := r.db.WithContext(ctx).First(&recipient, "id = ? AND session_id = ?", id, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipient, nil
}

func (r *RecipientRepository) List(ctx context.Context, sessionID string) ([]db_models.Recipient, error) {
	var recipients []db_models.Recipient
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("name ASC").
		Find(&recipients).Error
	return recipients, err
}

func (r *RecipientRepository) ListNotifiable(ctx context.Context, sessionID string) ([]db_models.Recipient, error) {
	var recipients []db_models.Recipient
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND notify_email <> '' AND birthdate <> ''", sessionID).
		Find(&recipients).Error
	return recipients, err
}

func (r *RecipientRepository) Update(ctx context.Context, recipient *db_models.Recipient) error {
	return r.db.WithContext(ctx).
		Model(recipient).
		Select("name", "relationship", "birthdate", "interests", "notes", "notify_email").
		Updates(recipient).Error
}

func (r *RecipientRepository) Delete(ctx context.Context, sessionID, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", id, sessionID).
		Delete(&db_models.Recipient{})
	return res.RowsAffected > 0, res.Error
}
