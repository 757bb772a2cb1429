package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/config"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// MTNClient talks to the MTN-family delivery API. Same contract as Code
// Craft, different field vocabulary and endpoints.
type MTNClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewMTNClient(cfg config.ProviderConfig) *MTNClient {
	return &MTNClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *MTNClient) Family() types.NetworkFamily { return types.NetworkFamilyMTN }

type mtnOrderRequest struct {
	APIKey      string `json:"api_key"`
	Beneficiary string `json:"beneficiary"`
	CapacityGB  string `json:"capacity"`
	OrderRef    string `json:"order_ref"`
}

type mtnResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *MTNClient) Initiate(ctx context.Context, req Request) (*InitiateResult, error) {
	if req.Family != types.NetworkFamilyMTN {
		return nil, ErrUnsupportedNetwork
	}
	payload := mtnOrderRequest{
		APIKey:      c.apiKey,
		Beneficiary: req.Phone,
		CapacityGB:  req.SizeGB.String(),
		OrderRef:    req.Reference,
	}
	body, raw, status, err := c.post(ctx, c.baseURL+"/api/v1/buy-data", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d: %s", ErrRejected, status, truncate(raw))
	}
	var parsed mtnResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &InitiateResult{Message: parsed.Message, RawBody: raw}, nil
}

type mtnStatusRequest struct {
	APIKey   string `json:"api_key"`
	OrderRef string `json:"order_ref"`
}

type mtnStatusResponse struct {
	OrderStatus string `json:"order_status"`
	Message     string `json:"message"`
}

func (c *MTNClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	payload := mtnStatusRequest{APIKey: c.apiKey, OrderRef: reference}
	body, raw, status, err := c.post(ctx, c.baseURL+"/api/v1/order-status", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d: %s", ErrRejected, status, truncate(raw))
	}
	var parsed mtnStatusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	statusText := parsed.OrderStatus
	if statusText == "" {
		statusText = parsed.Message
	}
	return &VerifyResult{StatusText: statusText, RawBody: raw}, nil
}

func (c *MTNClient) post(ctx context.Context, url string, payload any) ([]byte, []byte, int, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, raw, resp.StatusCode, nil
	}
	body, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, raw, resp.StatusCode, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return body, raw, resp.StatusCode, nil
}
