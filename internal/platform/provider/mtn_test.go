package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/config"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

func TestMTNClient_Initiate(t *testing.T) {
	var got mtnOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/buy-data", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"accepted","message":"Order received"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewMTNClient(config.ProviderConfig{BaseURL: srv.URL, APIKey: "mtn-key", Timeout: 5 * time.Second})
	res, err := client.Initiate(context.Background(), Request{
		Phone:     "0541234567",
		SizeGB:    decimal.NewFromInt(2),
		Reference: "order-9",
		Family:    types.NetworkFamilyMTN,
	})
	require.NoError(t, err)
	require.Equal(t, "Order received", res.Message)
	require.Equal(t, "mtn-key", got.APIKey)
	require.Equal(t, "0541234567", got.Beneficiary)
	require.Equal(t, "2", got.CapacityGB)
	require.Equal(t, "order-9", got.OrderRef)
}

func TestMTNClient_Initiate_WrongFamily(t *testing.T) {
	client := NewMTNClient(config.ProviderConfig{BaseURL: "http://unused.invalid", Timeout: time.Second})
	_, err := client.Initiate(context.Background(), Request{Family: types.NetworkFamilyTelecel})
	require.ErrorIs(t, err, ErrUnsupportedNetwork)
}

func TestMTNClient_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/order-status", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"order_status":"Successful"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewMTNClient(config.ProviderConfig{BaseURL: srv.URL, APIKey: "mtn-key", Timeout: 5 * time.Second})
	res, err := client.Verify(context.Background(), "order-9")
	require.NoError(t, err)
	require.Equal(t, "Successful", res.StatusText)
}
