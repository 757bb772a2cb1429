package profit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/logctx"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/tool"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// ErrAlreadyCredited means a profit record for this (shop, order) pair
// already exists; duplicate webhook deliveries land here.
var ErrAlreadyCredited = errors.New("profit already credited for order")

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// AvailableFor computes the withdrawable balance from its inputs:
// max(0, credited − approvedWithdrawals).
func AvailableFor(credited, approvedWithdrawals decimal.Decimal) decimal.Decimal {
	available := credited.Sub(approvedWithdrawals)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// Credit appends one profit ledger row for the shop. The row chains off the
// previous row's balance_after; the unique (shop_id, order_id) index keeps
// the append idempotent under duplicate webhook delivery. A per-shop
// advisory lock serializes concurrent credits from different orders: a row
// lock on the current chain head is not enough, because a transaction that
// blocked on it resumes with its pre-commit snapshot and would chain off
// the stale head.
func (s *Service) Credit(ctx context.Context, shopID, orderID string, amount decimal.Decimal) (*models.ProfitRecord, error) {
	var rec *models.ProfitRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", shopID).Error; err != nil {
			return fmt.Errorf("acquire shop ledger lock: %w", err)
		}

		var last models.ProfitRecord
		before := decimal.Zero
		err := tx.Where("shop_id = ?", shopID).
			Order("created_at DESC").
			First(&last).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first sale for this shop
		case err != nil:
			return fmt.Errorf("load last profit record: %w", err)
		default:
			before = last.BalanceAfter
		}

		rec = &models.ProfitRecord{
			ID:            tool.GenerateUUIDV7(),
			ShopID:        shopID,
			OrderID:       orderID,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  before.Add(amount),
			Status:        types.ProfitStatusCredited,
		}
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("insert profit record: %w", err)
		}
		return nil
	})
	if err != nil {
		if isDuplicateErr(err) {
			return nil, ErrAlreadyCredited
		}
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("profit_credited",
		"shop_id", shopID, "order_id", orderID, "amount", amount.String())
	return rec, nil
}

// SyncAvailableBalance recomputes the shop's snapshot from the source-of-truth
// tables and replaces it wholesale (delete + insert). The snapshot is a read
// optimization only.
func (s *Service) SyncAvailableBalance(ctx context.Context, shopID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		credited, err := s.sumProfit(tx, shopID)
		if err != nil {
			return fmt.Errorf("sum credited profit: %w", err)
		}
		withdrawn, err := s.sumApprovedWithdrawals(tx, shopID)
		if err != nil {
			return fmt.Errorf("sum approved withdrawals: %w", err)
		}

		if err := tx.Where("shop_id = ?", shopID).Delete(&models.AvailableBalance{}).Error; err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}
		snapshot := &models.AvailableBalance{
			ID:             tool.GenerateUUIDV7(),
			ShopID:         shopID,
			Available:      AvailableFor(credited, withdrawn),
			TotalCredited:  credited,
			TotalWithdrawn: withdrawn,
		}
		if err := tx.Create(snapshot).Error; err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
		return nil
	})
}

func (s *Service) sumProfit(tx *gorm.DB, shopID string) (decimal.Decimal, error) {
	var out struct{ Total decimal.Decimal }
	err := tx.Model(&models.ProfitRecord{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("shop_id = ? AND status IN ?", shopID,
			[]types.ProfitStatus{types.ProfitStatusCredited, types.ProfitStatusWithdrawn}).
		Scan(&out).Error
	return out.Total, err
}

func (s *Service) sumApprovedWithdrawals(tx *gorm.DB, shopID string) (decimal.Decimal, error) {
	var out struct{ Total decimal.Decimal }
	err := tx.Model(&models.Withdrawal{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("shop_id = ? AND status = ?", shopID, types.WithdrawalStatusApproved).
		Scan(&out).Error
	return out.Total, err
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "SQLSTATE 23505")
}
