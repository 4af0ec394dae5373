package service

import (
	"fmt"

	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/models"
)

// entryPair derives the two balanced ledger entries for a transfer: a
// negative outbound entry on the origin account and a positive inbound
// entry on the destination account. Deterministic, no side effects; the
// transfer must already carry its persisted id.
func entryPair(t *models.Transfer) (outcome, income models.Transaction) {
	amount := t.Amount.Round(2)

	outcome = models.Transaction{
		Description: fmt.Sprintf("Transfer to acc #%d", t.AccDestID),
		Date:        t.Date,
		Amount:      amount.Neg(),
		Type:        models.TransactionOutbound,
		AccID:       t.AccOriID,
		TransferID:  t.ID,
	}
	income = models.Transaction{
		Description: fmt.Sprintf("Transfer from acc #%d", t.AccOriID),
		Date:        t.Date,
		Amount:      amount,
		Type:        models.TransactionInbound,
		AccID:       t.AccDestID,
		TransferID:  t.ID,
	}
	return outcome, income
}
