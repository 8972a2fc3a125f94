// Package ledger is the GORM-backed implementation of the ledger-transfer
// capability: balance rows per identity, debited and credited atomically
// inside the calling operation's transaction.
package ledger

import (
	"context"
	"errors"

	"airgrid-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Transfer debits from and credits to within tx (falling back to s.DB when tx
// is nil). It fails with no partial effect: a missing or nil source identity
// is unauthorized, a short balance is insufficient funds. The destination
// account is created on first credit, the same way a receiver holding is.
func (s *Service) Transfer(ctx context.Context, tx *gorm.DB, from, to uuid.UUID, amount uint64) error {
	if tx == nil {
		tx = s.DB
	}
	tx = tx.WithContext(ctx)

	if from == uuid.Nil || to == uuid.Nil {
		return domain.ErrTransferUnauthorized
	}

	var source domain.LedgerAccount
	if err := tx.Where("account_id = ?", from).First(&source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTransferUnauthorized
		}
		return err
	}

	// Conditional debit: the balance guard is checked by the row update
	// itself, so concurrent debits cannot both spend the same funds.
	debit := tx.Model(&domain.LedgerAccount{}).
		Where("account_id = ? AND balance >= ?", from, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if debit.Error != nil {
		return debit.Error
	}
	if debit.RowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}

	credit := tx.Model(&domain.LedgerAccount{}).
		Where("account_id = ?", to).
		Update("balance", gorm.Expr("balance + ?", amount))
	if credit.Error != nil {
		return credit.Error
	}
	if credit.RowsAffected == 0 {
		return tx.Create(&domain.LedgerAccount{AccountID: to, Balance: amount}).Error
	}
	return nil
}

// OpenAccount provisions an account with an initial balance (dev/test
// surface; production balances arrive from the payment rail).
func (s *Service) OpenAccount(ctx context.Context, id uuid.UUID, initial uint64) (*domain.LedgerAccount, error) {
	if id == uuid.Nil {
		return nil, domain.ErrTransferUnauthorized
	}
	account := &domain.LedgerAccount{AccountID: id, Balance: initial}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.LedgerAccount
		err := tx.Where("account_id = ?", id).First(&existing).Error
		if err == nil {
			return domain.ErrAccountExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(account).Error
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Balance returns the account row for an identity.
func (s *Service) Balance(ctx context.Context, id uuid.UUID) (*domain.LedgerAccount, error) {
	var account domain.LedgerAccount
	if err := s.DB.WithContext(ctx).Where("account_id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
