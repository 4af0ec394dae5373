package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type values.
const (
	TransactionInbound  = "I" // credit into an account
	TransactionOutbound = "O" // debit out of an account
)

// Transaction is one signed, immutable ledger entry. Transactions only
// exist as the balanced pair of a Transfer; their two amounts sum to zero.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type        string          `gorm:"size:1;not null" json:"type"`
	AccID       uint            `gorm:"column:acc_id;index;not null" json:"acc_id"`
	TransferID  uint            `gorm:"index;not null" json:"transfer_id"`
	CreatedAt   time.Time       `json:"created_at"`
}
