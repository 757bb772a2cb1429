package fulfillment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/ledger"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/platform/provider"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/config"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func (f *fakeOrderStore) Get(_ context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ledger.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeOrderStore) SetPaymentStatus(_ context.Context, id string, status types.PaymentStatus) error {
	f.orders[id].PaymentStatus = status
	return nil
}

func (f *fakeOrderStore) SetOrderStatus(_ context.Context, id string, status types.OrderStatus, method *string) error {
	o := f.orders[id]
	o.OrderStatus = status
	if method != nil {
		o.FulfillmentMethod = method
	}
	return nil
}

type fakeLogStore struct {
	logs map[string]*models.FulfillmentLog
}

func (f *fakeLogStore) GetByOrderID(_ context.Context, orderID string) (*models.FulfillmentLog, error) {
	l, ok := f.logs[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (f *fakeLogStore) Upsert(_ context.Context, log *models.FulfillmentLog) error {
	cp := *log
	f.logs[log.OrderID] = &cp
	return nil
}

type fakeBlacklist struct {
	blocked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, phone string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.blocked[phone], nil
}

type fakeSettings struct {
	values map[string]bool
}

func (f *fakeSettings) GetBool(_ context.Context, key string, def bool) bool {
	if v, ok := f.values[key]; ok {
		return v
	}
	return def
}

// fakeClient scripts one upstream: an initiate error and a sequence of
// verify status texts consumed in order.
type fakeClient struct {
	family        types.NetworkFamily
	initiateErr   error
	verifyTexts   []string
	initiateCalls int
	verifyCalls   int
}

func (f *fakeClient) Family() types.NetworkFamily { return f.family }

func (f *fakeClient) Initiate(_ context.Context, _ provider.Request) (*provider.InitiateResult, error) {
	f.initiateCalls++
	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	return &provider.InitiateResult{Message: "accepted", RawBody: []byte(`{"status":"accepted"}`)}, nil
}

func (f *fakeClient) Verify(_ context.Context, _ string) (*provider.VerifyResult, error) {
	f.verifyCalls++
	text := ""
	if len(f.verifyTexts) > 0 {
		text = f.verifyTexts[0]
		if len(f.verifyTexts) > 1 {
			f.verifyTexts = f.verifyTexts[1:]
		}
	}
	return &provider.VerifyResult{StatusText: text, RawBody: []byte(`{}`)}, nil
}

type fakeProviders struct {
	client *fakeClient
}

func (f *fakeProviders) For(family types.NetworkFamily) (provider.Client, error) {
	if f.client == nil || f.client.family != family {
		return nil, provider.ErrUnsupportedNetwork
	}
	return f.client, nil
}

type fakeNotifier struct {
	sms   []string
	email []string
	inApp []string
}

func (f *fakeNotifier) SendSMS(_ context.Context, phone, _ string) error {
	f.sms = append(f.sms, phone)
	return nil
}

func (f *fakeNotifier) SendEmail(_ context.Context, email, _, _ string) error {
	f.email = append(f.email, email)
	return nil
}

func (f *fakeNotifier) SendInApp(_ context.Context, userID, _, _ string) error {
	f.inApp = append(f.inApp, userID)
	return nil
}

type fixture struct {
	svc       *Service
	orders    *fakeOrderStore
	logs      *fakeLogStore
	blacklist *fakeBlacklist
	settings  *fakeSettings
	providers *fakeProviders
	notifier  *fakeNotifier
}

func newFixture(client *fakeClient) *fixture {
	f := &fixture{
		orders:    &fakeOrderStore{orders: map[string]*models.Order{}},
		logs:      &fakeLogStore{logs: map[string]*models.FulfillmentLog{}},
		blacklist: &fakeBlacklist{blocked: map[string]bool{}},
		settings:  &fakeSettings{values: map[string]bool{}},
		providers: &fakeProviders{client: client},
		notifier:  &fakeNotifier{},
	}
	f.svc = &Service{
		orders:    f.orders,
		logs:      f.logs,
		blacklist: f.blacklist,
		settings:  f.settings,
		providers: f.providers,
		notifier:  f.notifier,
		cfg: &config.Config{
			AdminPhones: []string{"0200000001"},
			AdminEmails: []string{"ops@example.com"},
		},
		log:         zap.NewNop().Sugar(),
		pollDelays:  []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
		maxAttempts: 3,
	}
	return f
}

func newPaidOrder(id string) *models.Order {
	return &models.Order{
		ID:            id,
		ShopID:        lo.ToPtr("shop-1"),
		CustomerPhone: "0541234567",
		Network:       "MTN",
		VolumeGB:      decimal.NewFromInt(5),
		OrderType:     types.OrderTypeShop,
		PaymentStatus: types.PaymentStatusCompleted,
		OrderStatus:   types.OrderStatusPending,
	}
}

func TestFulfillPaidOrder_Success(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN, verifyTexts: []string{"Pending Network Response", "Successful"}}
	f := newFixture(client)
	order := newPaidOrder("order-1")
	f.orders.orders[order.ID] = order

	require.NoError(t, f.svc.FulfillPaidOrder(context.Background(), order))

	require.Equal(t, 1, client.initiateCalls)
	require.Equal(t, 2, client.verifyCalls)
	require.Equal(t, types.OrderStatusCompleted, order.OrderStatus)
	require.NotNil(t, order.FulfillmentMethod)
	require.Equal(t, "auto_mtn", *order.FulfillmentMethod)

	flog := f.logs.logs[order.ID]
	require.NotNil(t, flog)
	require.Equal(t, types.FulfillmentStatusSuccess, flog.Status)
	require.Nil(t, flog.NextRetryAt)
	require.Nil(t, flog.ErrorMessage)
	require.Equal(t, 1, flog.AttemptNumber)

	require.Equal(t, []string{"shop-1"}, f.notifier.inApp)
}

func TestFulfillPaidOrder_BlacklistedQueueSkips(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN}
	f := newFixture(client)
	order := newPaidOrder("order-2")
	order.Queue = types.QueueBlacklisted
	f.orders.orders[order.ID] = order

	require.NoError(t, f.svc.FulfillPaidOrder(context.Background(), order))
	require.Zero(t, client.initiateCalls)
	require.Equal(t, types.OrderStatusPending, order.OrderStatus)
	require.Empty(t, f.logs.logs)
}

func TestFulfillPaidOrder_AutoFulfillDisabled(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN}
	f := newFixture(client)
	f.settings.values[AutoFulfillSettingKey(types.NetworkFamilyMTN)] = false
	order := newPaidOrder("order-3")
	f.orders.orders[order.ID] = order

	require.NoError(t, f.svc.FulfillPaidOrder(context.Background(), order))
	require.Zero(t, client.initiateCalls)
	require.Equal(t, types.OrderStatusPending, order.OrderStatus)
}

func TestFulfillPaidOrder_PhoneBlacklisted(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN}
	f := newFixture(client)
	f.blacklist.blocked["0541234567"] = true
	order := newPaidOrder("order-4")
	f.orders.orders[order.ID] = order

	require.NoError(t, f.svc.FulfillPaidOrder(context.Background(), order))
	require.Zero(t, client.initiateCalls)
}

func TestFulfillPaidOrder_BlacklistLookupFailsOpen(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN, verifyTexts: []string{"Successful"}}
	f := newFixture(client)
	f.blacklist.err = errors.New("connection refused")
	order := newPaidOrder("order-5")
	f.orders.orders[order.ID] = order

	// A broken blacklist lookup must not stall a paid order.
	require.NoError(t, f.svc.FulfillPaidOrder(context.Background(), order))
	require.Equal(t, 1, client.initiateCalls)
	require.Equal(t, types.OrderStatusCompleted, order.OrderStatus)
}

func TestFulfillPaidOrder_InitiateRejected(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN, initiateErr: provider.ErrRejected}
	f := newFixture(client)
	order := newPaidOrder("order-6")
	f.orders.orders[order.ID] = order

	err := f.svc.FulfillPaidOrder(context.Background(), order)
	require.ErrorIs(t, err, provider.ErrRejected)

	require.Equal(t, types.OrderStatusFailed, order.OrderStatus)
	flog := f.logs.logs[order.ID]
	require.NotNil(t, flog)
	require.Equal(t, types.FulfillmentStatusFailed, flog.Status)
	require.NotNil(t, flog.ErrorMessage)
	require.NotNil(t, flog.NextRetryAt)

	// ops got paged on both channels
	require.Equal(t, []string{"0200000001"}, f.notifier.sms)
	require.Equal(t, []string{"ops@example.com"}, f.notifier.email)
}

func TestFulfillPaidOrder_UpstreamReportsFailure(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN, verifyTexts: []string{"Order Failed - Cancelled"}}
	f := newFixture(client)
	order := newPaidOrder("order-7")
	f.orders.orders[order.ID] = order

	require.NoError(t, f.svc.FulfillPaidOrder(context.Background(), order))
	require.Equal(t, types.OrderStatusFailed, order.OrderStatus)
	require.Equal(t, types.FulfillmentStatusFailed, f.logs.logs[order.ID].Status)
}

func TestFulfillPaidOrder_UnconfirmedStaysProcessing(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN, verifyTexts: []string{"Pending Network Response"}}
	f := newFixture(client)
	order := newPaidOrder("order-8")
	f.orders.orders[order.ID] = order

	require.NoError(t, f.svc.FulfillPaidOrder(context.Background(), order))
	require.Equal(t, 3, client.verifyCalls)
	require.Equal(t, types.OrderStatusProcessing, order.OrderStatus)
	require.Equal(t, types.FulfillmentStatusProcessing, f.logs.logs[order.ID].Status)
}

func TestFulfillPaidOrder_InvalidPhone(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN}
	f := newFixture(client)
	order := newPaidOrder("order-9")
	order.CustomerPhone = "12345"
	f.orders.orders[order.ID] = order

	err := f.svc.FulfillPaidOrder(context.Background(), order)
	require.ErrorIs(t, err, ErrValidation)
	require.Zero(t, client.initiateCalls)

	// even a validation failure leaves an audit row
	flog := f.logs.logs[order.ID]
	require.NotNil(t, flog)
	require.Equal(t, types.FulfillmentStatusFailed, flog.Status)
}

func TestRetry_MaxAttemptsExceeded(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN}
	f := newFixture(client)
	order := newPaidOrder("order-10")
	order.OrderStatus = types.OrderStatusFailed
	f.orders.orders[order.ID] = order
	f.logs.logs[order.ID] = &models.FulfillmentLog{
		OrderID:       order.ID,
		Status:        types.FulfillmentStatusFailed,
		AttemptNumber: 3,
		MaxAttempts:   3,
	}

	err := f.svc.Retry(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrMaxRetriesExceeded)
	// the cap is enforced before any provider traffic
	require.Zero(t, client.initiateCalls)
	require.Zero(t, client.verifyCalls)
}

func TestRetry_AlreadySucceeded(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN}
	f := newFixture(client)
	order := newPaidOrder("order-11")
	order.OrderStatus = types.OrderStatusCompleted
	f.orders.orders[order.ID] = order
	f.logs.logs[order.ID] = &models.FulfillmentLog{
		OrderID:       order.ID,
		Status:        types.FulfillmentStatusSuccess,
		AttemptNumber: 1,
		MaxAttempts:   3,
	}

	require.NoError(t, f.svc.Retry(context.Background(), order.ID))
	require.Zero(t, client.initiateCalls)
}

func TestRetry_IncrementsAttempt(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN, verifyTexts: []string{"Successful"}}
	f := newFixture(client)
	order := newPaidOrder("order-12")
	order.OrderStatus = types.OrderStatusFailed
	f.orders.orders[order.ID] = order
	f.logs.logs[order.ID] = &models.FulfillmentLog{
		OrderID:       order.ID,
		Status:        types.FulfillmentStatusFailed,
		AttemptNumber: 1,
		MaxAttempts:   3,
		NextRetryAt:   lo.ToPtr(time.Now().Add(-time.Minute)),
	}

	require.NoError(t, f.svc.Retry(context.Background(), order.ID))
	require.Equal(t, 1, client.initiateCalls)
	require.Equal(t, 2, f.logs.logs[order.ID].AttemptNumber)
	require.Equal(t, types.OrderStatusCompleted, order.OrderStatus)
}

func TestRetry_WindowNotReached(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN}
	f := newFixture(client)
	order := newPaidOrder("order-14")
	order.OrderStatus = types.OrderStatusFailed
	f.orders.orders[order.ID] = order
	f.logs.logs[order.ID] = &models.FulfillmentLog{
		OrderID:       order.ID,
		Status:        types.FulfillmentStatusFailed,
		AttemptNumber: 1,
		MaxAttempts:   3,
		NextRetryAt:   lo.ToPtr(time.Now().Add(5 * time.Minute)),
	}

	err := f.svc.Retry(context.Background(), order.ID)
	require.ErrorIs(t, err, ErrRetryNotDue)
	require.Zero(t, client.initiateCalls)
}

func TestRetry_OrderNotFound(t *testing.T) {
	f := newFixture(&fakeClient{family: types.NetworkFamilyMTN})
	err := f.svc.Retry(context.Background(), "missing")
	require.ErrorIs(t, err, ledger.ErrOrderNotFound)
}

func TestRetry_CompletedOrderRejected(t *testing.T) {
	client := &fakeClient{family: types.NetworkFamilyMTN}
	f := newFixture(client)
	order := newPaidOrder("order-13")
	order.OrderStatus = types.OrderStatusCompleted
	f.orders.orders[order.ID] = order

	err := f.svc.Retry(context.Background(), order.ID)
	require.Error(t, err)
	require.Zero(t, client.initiateCalls)
}
