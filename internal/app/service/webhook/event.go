package webhook

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidSignature rejects a callback whose signature header does not
// match the body HMAC. Nothing is mutated on this path.
var ErrInvalidSignature = errors.New("invalid webhook signature")

const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// Event is the gateway callback envelope.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

type EventData struct {
	Reference string `json:"reference"`
	// ID is the gateway's own transaction id.
	ID int64 `json:"id"`
	// Amount is in minor units (pesewas).
	Amount          int64         `json:"amount"`
	Status          string        `json:"status"`
	GatewayResponse string        `json:"gateway_response"`
	Customer        EventCustomer `json:"customer"`
}

type EventCustomer struct {
	Email string `json:"email"`
}

// AmountGHS converts the minor-unit amount to GHS.
func (d EventData) AmountGHS() decimal.Decimal {
	return decimal.New(d.Amount, -2)
}

func (d EventData) GatewayTxnID() string {
	return fmt.Sprintf("%d", d.ID)
}

// VerifySignature recomputes HMAC-SHA512(secret, body) and compares it to the
// hex signature header in constant time.
func VerifySignature(secret string, body []byte, signature string) error {
	if signature == "" {
		return ErrInvalidSignature
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// ParseEvent decodes the callback body.
func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}
	return &ev, nil
}
