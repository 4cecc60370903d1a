package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/owuraku-zenas/dump-pad-sub000/internal/domain"
)

var (
	ErrAccountNotFound  = errors.New("linked account not found")
	ErrAccountConflict  = errors.New("account already linked to another user")
	ErrLastLinkedMethod = errors.New("cannot remove the last linked account")
)

type AccountRepository interface {
	Create(account *domain.Account) error
	FindByProvider(provider, providerAccountID string) (*domain.Account, error)
	FindByUserAndProvider(userID, provider string) (*domain.Account, error)
	ListByUser(userID string) ([]domain.Account, error)
	// DeleteIfNotLast removes the binding inside a transaction and refuses
	// when the user would be left with fewer than one linked account.
	DeleteIfNotLast(userID, provider string) error
}

type GormAccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) Create(account *domain.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAccountConflict
		}
		return err
	}
	return nil
}

func (r *GormAccountRepository) FindByProvider(provider, providerAccountID string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) FindByUserAndProvider(userID, provider string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) ListByUser(userID string) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *GormAccountRepository) DeleteIfNotLast(userID, provider string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Account{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastLinkedMethod
		}
		res := tx.Where("user_id = ? AND provider = ?", userID, provider).Delete(&domain.Account{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
}
