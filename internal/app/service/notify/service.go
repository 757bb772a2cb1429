package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/config"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/logctx"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/tool"
)

// Service sends SMS through the configured HTTP gateway, stores in-app rows
// in the notification table and logs email sends (email delivery is handled
// by a separate worker reading the same table upstream).
type Service struct {
	cfg        *config.Config
	db         *gorm.DB
	log        *zap.SugaredLogger
	httpClient *http.Client
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{
		cfg: cfg,
		db:  db,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type smsRequest struct {
	APIKey    string   `json:"key"`
	SenderID  string   `json:"sender_id"`
	Message   string   `json:"message"`
	Recipient []string `json:"recipient"`
}

func (s *Service) SendSMS(ctx context.Context, phone, message string) error {
	if s.cfg.SMS.Endpoint == "" {
		return fmt.Errorf("sms gateway not configured")
	}
	normalized := tool.NormalizeMSISDN(phone)
	if normalized == "" {
		return fmt.Errorf("invalid recipient number: %q", phone)
	}

	payload := smsRequest{
		APIKey:    s.cfg.SMS.APIKey,
		SenderID:  s.cfg.SMS.SenderID,
		Message:   message,
		Recipient: []string{normalized},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.SMS.Endpoint, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway status %d", resp.StatusCode)
	}
	logctx.FromCtx(ctx, s.log).Infow("sms_sent", "phone", normalized)
	return nil
}

func (s *Service) SendEmail(ctx context.Context, email, subject, body string) error {
	// Email delivery runs out of band; record intent only.
	logctx.FromCtx(ctx, s.log).Infow("email_queued", "email", email, "subject", subject)
	return nil
}

func (s *Service) SendInApp(ctx context.Context, userID, title, message string) error {
	row := &models.Notification{
		ID:      tool.GenerateUUIDV7(),
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("save in-app notification: %w", err)
	}
	return nil
}
