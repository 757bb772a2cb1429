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

// codeCraftNetworkCodes maps local families to the Code Craft vocabulary.
var codeCraftNetworkCodes = map[types.NetworkFamily]string{
	types.NetworkFamilyATIShare:  "AT",
	types.NetworkFamilyATBigTime: "AT_BIGTIME",
	types.NetworkFamilyTelecel:   "TELECEL",
}

// CodeCraftClient talks to the Code Craft data-delivery API, which serves the
// AT (iShare and BigTime) and Telecel families. BigTime orders go through a
// separate endpoint with otherwise identical semantics.
type CodeCraftClient struct {
	baseURL        string
	bigTimeBaseURL string
	apiKey         string
	family         types.NetworkFamily
	httpClient     *http.Client
}

func NewCodeCraftClient(cfg config.ProviderConfig, family types.NetworkFamily) *CodeCraftClient {
	return &CodeCraftClient{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		bigTimeBaseURL: strings.TrimRight(cfg.BigTimeBaseURL, "/"),
		apiKey:         cfg.APIKey,
		family:         family,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *CodeCraftClient) Family() types.NetworkFamily { return c.family }

func (c *CodeCraftClient) orderURL() string {
	if c.family == types.NetworkFamilyATBigTime && c.bigTimeBaseURL != "" {
		return c.bigTimeBaseURL + "/api/placeOrder"
	}
	return c.baseURL + "/api/placeOrder"
}

type codeCraftOrderRequest struct {
	APIKey          string `json:"agent_api_key"`
	RecipientNumber string `json:"recipient_number"`
	Network         string `json:"network"`
	SharedBundle    string `json:"shared_bundle"`
	ReferenceID     string `json:"reference_id"`
}

type codeCraftOrderResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	OrderID string `json:"order_id"`
}

func (c *CodeCraftClient) Initiate(ctx context.Context, req Request) (*InitiateResult, error) {
	network, ok := codeCraftNetworkCodes[req.Family]
	if !ok {
		return nil, ErrUnsupportedNetwork
	}

	payload := codeCraftOrderRequest{
		APIKey:          c.apiKey,
		RecipientNumber: req.Phone,
		Network:         network,
		SharedBundle:    req.SizeGB.String(),
		ReferenceID:     req.Reference,
	}
	body, raw, status, err := c.post(ctx, c.orderURL(), payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d: %s", ErrRejected, status, truncate(raw))
	}

	var parsed codeCraftOrderResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &InitiateResult{Message: parsed.Message, RawBody: raw}, nil
}

type codeCraftStatusRequest struct {
	APIKey      string `json:"agent_api_key"`
	ReferenceID string `json:"reference_id"`
}

type codeCraftStatusResponse struct {
	OrderStatus string `json:"order_status"`
	Message     string `json:"message"`
}

func (c *CodeCraftClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	payload := codeCraftStatusRequest{APIKey: c.apiKey, ReferenceID: reference}
	body, raw, status, err := c.post(ctx, c.baseURL+"/api/orderStatus", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d: %s", ErrRejected, status, truncate(raw))
	}

	var parsed codeCraftStatusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	statusText := parsed.OrderStatus
	if statusText == "" {
		statusText = parsed.Message
	}
	return &VerifyResult{StatusText: statusText, RawBody: raw}, nil
}

// post sends the payload and returns the extracted JSON object, the raw body
// and the HTTP status.
func (c *CodeCraftClient) post(ctx context.Context, url string, payload any) ([]byte, []byte, int, error) {
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

func truncate(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
