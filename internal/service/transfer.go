package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payload carries the client-supplied transfer attributes. Every field is
// optional at the wire level; validation decides what is actually required.
// Any user id sent by the client is ignored: ownership always comes from
// the authenticated user.
type Payload struct {
	Description *string
	Amount      *decimal.Decimal
	Date        *time.Time
	AccOriID    *uint
	AccDestID   *uint
}

// Service implements the transfer operations: validation, ledger entry
// generation and atomic persistence of a transfer with its entry pair.
type Service struct {
	db     *gorm.DB
	owners AccountOwners
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		owners: gormAccountOwners{db: db},
	}
}

// List returns the user's transfers in insertion order.
func (s *Service) List(userID uint) ([]models.Transfer, error) {
	var transfers []models.Transfer
	if err := s.db.Where("user_id = ?", userID).
		Order("id ASC").
		Find(&transfers).Error; err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, nil
}

// GetByID returns the transfer only if it belongs to userID; a transfer
// owned by someone else is reported as ErrNotFound, never as forbidden.
func (s *Service) GetByID(id, userID uint) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).
		First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &transfer, nil
}

// Create validates the payload and persists the transfer together with its
// two ledger entries in one database transaction. On any failure nothing
// is written.
func (s *Service) Create(userID uint, p Payload) (*models.Transfer, error) {
	if err := s.validate(userID, p); err != nil {
		return nil, err
	}

	transfer := &models.Transfer{
		Description: *p.Description,
		UserID:      userID,
		AccOriID:    *p.AccOriID,
		AccDestID:   *p.AccDestID,
		Amount:      p.Amount.Round(2),
		Date:        *p.Date,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transfer).Error; err != nil {
			return fmt.Errorf("insert transfer: %w", err)
		}
		return insertEntryPair(tx, transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Update validates the payload, then atomically replaces the transfer's
// fields and its entry pair: the old pair is deleted and a new one is
// generated from the updated fields. Entries are never edited in place.
func (s *Service) Update(id, userID uint, p Payload) (*models.Transfer, error) {
	if err := s.validate(userID, p); err != nil {
		return nil, err
	}

	var transfer models.Transfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).
			First(&transfer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load transfer: %w", err)
		}

		if err := tx.Where("transfer_id = ?", transfer.ID).
			Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("delete old entries: %w", err)
		}

		transfer.Description = *p.Description
		transfer.AccOriID = *p.AccOriID
		transfer.AccDestID = *p.AccDestID
		transfer.Amount = p.Amount.Round(2)
		transfer.Date = *p.Date

		if err := tx.Save(&transfer).Error; err != nil {
			return fmt.Errorf("update transfer: %w", err)
		}
		return insertEntryPair(tx, &transfer)
	})
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// insertEntryPair writes the balanced pair for the transfer inside tx.
func insertEntryPair(tx *gorm.DB, transfer *models.Transfer) error {
	outcome, income := entryPair(transfer)
	if err := tx.Create(&outcome).Error; err != nil {
		return fmt.Errorf("insert outbound entry: %w", err)
	}
	if err := tx.Create(&income).Error; err != nil {
		return fmt.Errorf("insert inbound entry: %w", err)
	}
	return nil
}

// validate checks the payload in a fixed order and stops at the first
// failure, so clients always see the same message for the same defect.
// Only the ownership lookups touch the database; nothing is written here.
func (s *Service) validate(userID uint, p Payload) error {
	switch {
	case p.Description == nil || strings.TrimSpace(*p.Description) == "":
		return &MissingFieldError{Field: "description"}
	case p.Amount == nil:
		return &MissingFieldError{Field: "amount"}
	case p.Date == nil:
		return &MissingFieldError{Field: "date"}
	case p.AccOriID == nil:
		return &MissingFieldError{Field: "origin account"}
	case p.AccDestID == nil:
		return &MissingFieldError{Field: "destination account"}
	}

	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if *p.AccOriID == *p.AccDestID {
		return ErrSameAccount
	}

	for _, accID := range []uint{*p.AccOriID, *p.AccDestID} {
		owner, err := s.owners.OwnerOf(accID)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return &ForeignAccountError{AccountID: accID}
			}
			return fmt.Errorf("resolve account owner: %w", err)
		}
		if owner != userID {
			return &ForeignAccountError{AccountID: accID}
		}
	}
	return nil
}
