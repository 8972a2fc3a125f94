package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerAccount backs the ledger-transfer capability: one balance per
// identity. Debits and credits are applied atomically inside the operation's
// transaction.
type LedgerAccount struct {
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;primaryKey" json:"account_id"`
	Balance   uint64    `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (LedgerAccount) TableName() string {
	return "LedgerAccounts"
}
