package repository

import (
	"context"
	"time"

	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"gorm.io/gorm"
)

type passwordResetTokenRepository struct {
	db *gorm.DB
}

// NewPasswordResetTokenRepository stores reset tokens by hash. Tokens are
// global, not church scoped.
func NewPasswordResetTokenRepository(db *gorm.DB) repository.PasswordResetTokenRepository {
	return &passwordResetTokenRepository{db: db}
}

// Replace drops any outstanding tokens for the email and stores the new one
func (r *passwordResetTokenRepository) Replace(ctx context.Context, token *entity.PasswordResetToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", token.Email).Delete(&entity.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

// Consume marks a live token used in a single statement, so two requests
// racing on one link cannot both succeed.
func (r *passwordResetTokenRepository) Consume(ctx context.Context, hash, email string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.PasswordResetToken{}).
		Where("token_hash = ? AND email = ? AND used = ? AND expires_at > ?", hash, email, false, time.Now()).
		Update("used", true)
	return res.RowsAffected == 1, res.Error
}

func (r *passwordResetTokenRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("email = ?", email).
		Delete(&entity.PasswordResetToken{}).Error
}

// DeleteExpired purges lapsed and spent tokens
func (r *passwordResetTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR used = ?", time.Now(), true).
		Delete(&entity.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
