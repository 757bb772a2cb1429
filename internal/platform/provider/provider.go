package provider

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

var (
	// ErrRejected means the upstream refused the order outright (non-200
	// initiate response).
	ErrRejected = errors.New("provider rejected order")
	// ErrBadResponse means the body could not be parsed even after noise
	// stripping.
	ErrBadResponse = errors.New("provider response unparseable")
	// ErrUnsupportedNetwork means no client handles the order's family.
	ErrUnsupportedNetwork = errors.New("unsupported network family")
)

// Request is a provider-agnostic delivery order. Reference doubles as the
// upstream idempotency key, so it must be the local order id.
type Request struct {
	Phone     string
	SizeGB    decimal.Decimal
	Reference string
	Family    types.NetworkFamily
}

// InitiateResult reports acceptance only. A 200 from the upstream means
// "queued for processing", never "delivered".
type InitiateResult struct {
	Message string
	RawBody []byte
}

// VerifyResult carries the upstream's free-text order status; classification
// into a local status happens in the orchestrator.
type VerifyResult struct {
	StatusText string
	RawBody    []byte
}

// Client submits delivery orders to one upstream network family and polls
// their status.
type Client interface {
	Family() types.NetworkFamily
	Initiate(ctx context.Context, req Request) (*InitiateResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

// Registry resolves the client for a network family.
type Registry struct {
	clients map[types.NetworkFamily]Client
}

func NewRegistry(clients ...Client) *Registry {
	m := make(map[types.NetworkFamily]Client, len(clients))
	for _, c := range clients {
		m[c.Family()] = c
	}
	return &Registry{clients: m}
}

func (r *Registry) For(family types.NetworkFamily) (Client, error) {
	c, ok := r.clients[family]
	if !ok {
		return nil, ErrUnsupportedNetwork
	}
	return c, nil
}
