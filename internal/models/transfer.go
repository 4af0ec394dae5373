package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is one instructed movement of funds between two accounts of the
// same user. Each transfer owns exactly two Transactions, regenerated as a
// pair whenever the transfer changes.
type Transfer struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"size:255;not null" json:"description"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	AccOriID    uint            `gorm:"column:acc_ori_id;index;not null" json:"acc_ori_id"`
	AccDestID   uint            `gorm:"column:acc_dest_id;index;not null" json:"acc_dest_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	User         User          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
