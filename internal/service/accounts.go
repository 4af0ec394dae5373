package service

import (
	"errors"
	"fmt"

	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/models"

	"gorm.io/gorm"
)

// AccountOwners resolves which user an account belongs to. The transfer
// validation consults it before touching any transfer state.
type AccountOwners interface {
	// OwnerOf returns the owning user id, or ErrAccountNotFound.
	OwnerOf(accountID uint) (uint, error)
}

// gormAccountOwners looks owners up in the accounts table.
type gormAccountOwners struct {
	db *gorm.DB
}

func (o gormAccountOwners) OwnerOf(accountID uint) (uint, error) {
	var account models.Account
	if err := o.db.Select("id", "user_id").First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("query account #%d: %w", accountID, err)
	}
	return account.UserID, nil
}
