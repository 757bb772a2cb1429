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

func newCodeCraftTestClient(t *testing.T, family types.NetworkFamily, handler http.HandlerFunc) (*CodeCraftClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCodeCraftClient(config.ProviderConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, family), srv
}

func TestCodeCraftClient_Initiate(t *testing.T) {
	var got codeCraftOrderRequest
	client, _ := newCodeCraftTestClient(t, types.NetworkFamilyTelecel, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/placeOrder", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		// Upstream bodies arrive with plain-text noise around the payload.
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<b>Notice</b>: something{"status":"success","message":"Order placed","order_id":"cc-1"}`))
	})

	res, err := client.Initiate(context.Background(), Request{
		Phone:     "0241234567",
		SizeGB:    decimal.NewFromInt(5),
		Reference: "order-1",
		Family:    types.NetworkFamilyTelecel,
	})
	require.NoError(t, err)
	require.Equal(t, "Order placed", res.Message)
	require.NotEmpty(t, res.RawBody)

	require.Equal(t, "test-key", got.APIKey)
	require.Equal(t, "0241234567", got.RecipientNumber)
	require.Equal(t, "TELECEL", got.Network)
	require.Equal(t, "5", got.SharedBundle)
	require.Equal(t, "order-1", got.ReferenceID)
}

func TestCodeCraftClient_Initiate_Rejected(t *testing.T) {
	client, _ := newCodeCraftTestClient(t, types.NetworkFamilyATIShare, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"insufficient agent balance"}`))
	})

	_, err := client.Initiate(context.Background(), Request{
		Phone:     "0241234567",
		SizeGB:    decimal.NewFromInt(1),
		Reference: "order-2",
		Family:    types.NetworkFamilyATIShare,
	})
	require.ErrorIs(t, err, ErrRejected)
}

func TestCodeCraftClient_Initiate_UnsupportedFamily(t *testing.T) {
	client, _ := newCodeCraftTestClient(t, types.NetworkFamilyATIShare, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Initiate(context.Background(), Request{
		Phone:     "0241234567",
		SizeGB:    decimal.NewFromInt(1),
		Reference: "order-3",
		Family:    types.NetworkFamilyMTN,
	})
	require.ErrorIs(t, err, ErrUnsupportedNetwork)
}

func TestCodeCraftClient_Verify(t *testing.T) {
	client, _ := newCodeCraftTestClient(t, types.NetworkFamilyATIShare, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/orderStatus", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"order_status":"Order Completed","message":"done"}`))
	})

	res, err := client.Verify(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, "Order Completed", res.StatusText)
}

func TestCodeCraftClient_Verify_MessageFallback(t *testing.T) {
	client, _ := newCodeCraftTestClient(t, types.NetworkFamilyATIShare, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"Pending Network Response"}`))
	})

	res, err := client.Verify(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, "Pending Network Response", res.StatusText)
}

func TestCodeCraftClient_BigTimeEndpoint(t *testing.T) {
	bigTime := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/placeOrder", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"success","message":"ok"}`))
	}))
	t.Cleanup(bigTime.Close)

	client := NewCodeCraftClient(config.ProviderConfig{
		BaseURL:        "http://unused.invalid",
		BigTimeBaseURL: bigTime.URL,
		APIKey:         "test-key",
		Timeout:        5 * time.Second,
	}, types.NetworkFamilyATBigTime)

	_, err := client.Initiate(context.Background(), Request{
		Phone:     "0261234567",
		SizeGB:    decimal.NewFromInt(10),
		Reference: "order-4",
		Family:    types.NetworkFamilyATBigTime,
	})
	require.NoError(t, err)
}

func TestRegistry_For(t *testing.T) {
	client, _ := newCodeCraftTestClient(t, types.NetworkFamilyTelecel, func(w http.ResponseWriter, r *http.Request) {})
	reg := NewRegistry(client)

	got, err := reg.For(types.NetworkFamilyTelecel)
	require.NoError(t, err)
	require.Equal(t, types.NetworkFamilyTelecel, got.Family())

	_, err = reg.For(types.NetworkFamilyMTN)
	require.ErrorIs(t, err, ErrUnsupportedNetwork)
}
