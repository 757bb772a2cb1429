package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/logctx"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/tool"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// NetCredit is the amount actually credited for a top-up: gross minus the
// pre-recorded gateway fee.
func NetCredit(amount, fee decimal.Decimal) decimal.Decimal {
	return amount.Sub(fee)
}

// Credit applies a top-up exactly once per reference. The pre-check catches
// ordinary duplicate deliveries; the partial unique index on completed
// credits settles concurrent races (the losing insert maps to
// ErrAlreadyApplied).
func (s *Service) Credit(ctx context.Context, userID, reference string, amount, fee decimal.Decimal) (*models.WalletTransaction, error) {
	net := NetCredit(amount, fee)
	if !net.IsPositive() {
		return nil, fmt.Errorf("%w: amount %s, fee %s", ErrInvalidAmount, amount, fee)
	}

	applied, err := s.hasCompletedCredit(ctx, userID, reference)
	if err != nil {
		return nil, fmt.Errorf("idempotency check: %w", err)
	}
	if applied {
		return nil, ErrAlreadyApplied
	}

	var txn *models.WalletTransaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := s.lockWallet(ctx, tx, userID)
		if err != nil {
			return err
		}

		before := w.Balance
		after := before.Add(net)
		if err := tx.Model(&models.Wallet{}).
			Where("id = ?", w.ID).
			Update("balance", after).Error; err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		txn = &models.WalletTransaction{
			ID:            tool.GenerateUUIDV7(),
			UserID:        userID,
			Type:          types.WalletTxnTypeCredit,
			Amount:        net,
			ReferenceID:   reference,
			BalanceBefore: before,
			BalanceAfter:  after,
			Status:        types.PaymentStatusCompleted,
		}
		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		if isDuplicateErr(err) {
			logctx.FromCtx(ctx, s.log).Infow("wallet_credit_duplicate", "reference", reference, "user_id", userID)
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("wallet_credited",
		"reference", reference, "user_id", userID, "amount", net.String())
	return txn, nil
}

// RecordFailure writes a failed ledger row for a declined top-up. The wallet
// balance is untouched.
func (s *Service) RecordFailure(ctx context.Context, userID, reference string, amount decimal.Decimal) error {
	var before decimal.Decimal
	var w models.Wallet
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error
	if err == nil {
		before = w.Balance
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load wallet: %w", err)
	}

	txn := &models.WalletTransaction{
		ID:            tool.GenerateUUIDV7(),
		UserID:        userID,
		Type:          types.WalletTxnTypeCredit,
		Amount:        amount,
		ReferenceID:   reference,
		BalanceBefore: before,
		BalanceAfter:  before,
		Status:        types.PaymentStatusFailed,
	}
	if err := s.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("insert failed ledger entry: %w", err)
	}
	return nil
}

func (s *Service) hasCompletedCredit(ctx context.Context, userID, reference string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("reference_id = ? AND user_id = ? AND type = ? AND status = ?",
			reference, userID, types.WalletTxnTypeCredit, types.PaymentStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// lockWallet loads the wallet row FOR UPDATE, creating it on first top-up.
func (s *Service) lockWallet(ctx context.Context, tx *gorm.DB, userID string) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = models.Wallet{
			ID:      tool.GenerateUUIDV7(),
			UserID:  userID,
			Balance: decimal.Zero,
		}
		if err := tx.Create(&w).Error; err != nil {
			return nil, fmt.Errorf("create wallet: %w", err)
		}
		return &w, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock wallet: %w", err)
	}
	return &w, nil
}
