package ledger

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/logctx"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/tool"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// Store is the gorm-backed implementation of the ledger interfaces.
type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewStore(db *gorm.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: log}
}

func (s *Store) GetByReference(ctx context.Context, reference string) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	err := s.db.WithContext(ctx).Where("reference = ?", reference).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) MarkCompleted(ctx context.Context, id string, amount decimal.Decimal, gatewayTxnID string) error {
	return s.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          types.PaymentStatusCompleted,
			"amount_received": amount,
			"gateway_txn_id":  gatewayTxnID,
		}).Error
}

func (s *Store) MarkFailed(ctx context.Context, id string, gatewayTxnID string) error {
	return s.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         types.PaymentStatusFailed,
			"gateway_txn_id": gatewayTxnID,
		}).Error
}

func (s *Store) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) SetPaymentStatus(ctx context.Context, id string, status types.PaymentStatus) error {
	return s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

func (s *Store) SetOrderStatus(ctx context.Context, id string, status types.OrderStatus, method *string) error {
	updates := map[string]any{"order_status": status}
	if method != nil {
		updates["fulfillment_method"] = *method
	}
	return s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *Store) GetByOrderID(ctx context.Context, orderID string) (*models.FulfillmentLog, error) {
	var l models.FulfillmentLog
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) Upsert(ctx context.Context, log *models.FulfillmentLog) error {
	if log.ID == "" {
		existing := &models.FulfillmentLog{}
		err := s.db.WithContext(ctx).Where("order_id = ?", log.OrderID).First(existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			log.ID = tool.GenerateUUIDV7()
		case err != nil:
			return err
		default:
			log.ID = existing.ID
			log.CreatedAt = existing.CreatedAt
		}
	}
	return s.db.WithContext(ctx).Save(log).Error
}

func (s *Store) IsBlacklisted(ctx context.Context, phone string) (bool, error) {
	normalized := tool.NormalizeMSISDN(phone)
	if normalized == "" {
		normalized = phone
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.BlacklistEntry{}).
		Where("phone = ?", normalized).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Insert(ctx context.Context, t *models.CustomerTracking) error {
	if t.ID == "" {
		t.ID = tool.GenerateUUIDV7()
	}
	return s.db.WithContext(ctx).Create(t).Error
}

// GetBool reads a boolean setting. Missing or unreadable values fall back to
// def: auto-fulfillment deliberately fails open so orders do not stall
// silently when the settings table is unavailable.
func (s *Store) GetBool(ctx context.Context, key string, def bool) bool {
	var row models.Setting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logctx.FromCtx(ctx, s.log).Warnw("setting_read_failed", "key", key, "err", err)
		}
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(row.Value))
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("setting_not_bool", "key", key, "value", row.Value)
		return def
	}
	return v
}

// ListFulfillmentLogs backs the admin audit-trail screen.
type ListFulfillmentLogsRequest struct {
	Filters   []*types.CommonFilter
	From      int
	Size      int
	SortBy    string
	SortOrder string
}

func (s *Store) ListFulfillmentLogs(ctx context.Context, req *ListFulfillmentLogsRequest) ([]*models.FulfillmentLog, int64, error) {
	if req.Size <= 0 {
		req.Size = 20
	}
	tx := s.db.WithContext(ctx).Model(&models.FulfillmentLog{})
	for _, f := range req.Filters {
		if f != nil {
			tx = tx.Where(f)
		}
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	dir := "DESC"
	if req.SortOrder == "asc" {
		dir = "ASC"
	}
	q = q.Order(sortBy + " " + dir)

	var rows []*models.FulfillmentLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
