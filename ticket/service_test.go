package ticket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"event-tickets-backend/mailer"
	"event-tickets-backend/model"
	"event-tickets-backend/payment"
	"event-tickets-backend/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayments struct {
	mu    sync.Mutex
	calls []payment.SessionParams
	err   error
}

func (f *fakePayments) CreateCheckoutSession(_ context.Context, p payment.SessionParams) (*payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, p)
	return &payment.Session{
		ID:  "cs_test_" + p.TicketID,
		URL: "https://pay.example.com/cs_test_" + p.TicketID,
	}, nil
}

// mailRecorder captures notifications sent by the service's async
// notifier so tests can wait on them.
type mailRecorder struct {
	sent chan mailer.Notification
}

func newMailRecorder() *mailRecorder {
	return &mailRecorder{sent: make(chan mailer.Notification, 16)}
}

func (m *mailRecorder) Notify(_ context.Context, n mailer.Notification) error {
	m.sent <- n
	return nil
}

func (m *mailRecorder) wait(t *testing.T) mailer.Notification {
	t.Helper()
	select {
	case n := <-m.sent:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return mailer.Notification{}
	}
}

func newTestService(store *memStore) (*Service, *fakePayments, *mailRecorder) {
	payments := &fakePayments{}
	mail := newMailRecorder()
	tokens := token.NewIssuer([]byte("test-secret"), "fbcpittsfield", time.Hour)
	return NewService(store, payments, tokens, mail, "https://front.example.com"), payments, mail
}

func seedEvent(store *memStore, status model.EventStatus, capacity *int64) *model.Event {
	e := &model.Event{
		ID:       model.NewEventID(),
		Name:     "Spring Concert",
		Date:     time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC),
		Location: "Main Hall",
		Price:    2500,
		Capacity: capacity,
		Status:   status,
	}
	store.PutEvent(context.Background(), e)
	return e
}

func buyer() *model.Identity {
	return &model.Identity{UserID: "usr_buyer", Email: "jane@example.com", Role: model.RoleUser}
}

func int64p(v int64) *int64 { return &v }

func TestCheckout(t *testing.T) {
	store := newMemStore()
	service, payments, _ := newTestService(store)
	e := seedEvent(store, model.EventStatusActive, int64p(100))

	result, err := service.Checkout(context.Background(), e.ID, buyer(), model.CheckoutRequest{Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_"+result.TicketID, result.SessionID)
	assert.Equal(t, "https://pay.example.com/cs_test_"+result.TicketID, result.CheckoutURL)

	ticket, err := store.GetTicket(context.Background(), result.TicketID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusPending, ticket.Status)
	assert.Equal(t, "jane@example.com", ticket.UserEmail)
	assert.Equal(t, int64(2), ticket.Quantity)
	assert.Equal(t, int64(5000), ticket.AmountPaid)
	assert.Nil(t, ticket.QRCodeData)

	require.Len(t, payments.calls, 1)
	call := payments.calls[0]
	assert.Equal(t, e.ID, call.EventID)
	assert.Equal(t, result.TicketID, call.TicketID)
	assert.Equal(t, "usr_buyer", call.UserID)
	assert.Equal(t, int64(2500), call.UnitAmount)
	assert.Equal(t, fmt.Sprintf("https://front.example.com/events/%s/confirmation?ticketId=%s", e.ID, result.TicketID), call.SuccessURL)

	// Counters move on confirmation, not at checkout.
	fresh, _ := store.GetEvent(context.Background(), e.ID)
	assert.Equal(t, int64(0), fresh.TicketsSold)
}

func TestCheckoutFailsForUnknownEvent(t *testing.T) {
	store := newMemStore()
	service, _, _ := newTestService(store)

	_, err := service.Checkout(context.Background(), "evt_missing", buyer(), model.CheckoutRequest{Quantity: 1})
	assert.Equal(t, ErrEventNotFound, err)
}

func TestCheckoutFailsForInactiveEvent(t *testing.T) {
	store := newMemStore()
	service, _, _ := newTestService(store)

	for _, status := range []model.EventStatus{
		model.EventStatusDraft,
		model.EventStatusSoldOut,
		model.EventStatusCancelled,
		model.EventStatusPast,
	} {
		e := seedEvent(store, status, nil)
		_, err := service.Checkout(context.Background(), e.ID, buyer(), model.CheckoutRequest{Quantity: 1})
		assert.Equal(t, ErrEventNotActive, err, "status %s", status)
	}
}

func TestCheckoutFailsWhenNotEnoughSeats(t *testing.T) {
	store := newMemStore()
	service, payments, _ := newTestService(store)
	e := seedEvent(store, model.EventStatusActive, int64p(10))
	store.AddTicketsSold(context.Background(), e.ID, 7)
	store.AddCompTicketsIssued(context.Background(), e.ID, 2)

	_, err := service.Checkout(context.Background(), e.ID, buyer(), model.CheckoutRequest{Quantity: 2})
	require.Error(t, err)

	var availability *AvailabilityError
	require.True(t, errors.As(err, &availability))
	assert.Equal(t, int64(1), availability.Available)
	assert.Empty(t, payments.calls)
}

func TestCheckoutFailsWhenOversold(t *testing.T) {
	// Comp issuance skips the capacity check, so sold+comp can exceed
	// capacity. An oversold event must sell nothing more.
	store := newMemStore()
	service, payments, _ := newTestService(store)
	e := seedEvent(store, model.EventStatusActive, int64p(5))
	store.AddTicketsSold(context.Background(), e.ID, 4)
	store.AddCompTicketsIssued(context.Background(), e.ID, 2)

	for _, quantity := range []int64{1, 10} {
		_, err := service.Checkout(context.Background(), e.ID, buyer(), model.CheckoutRequest{Quantity: quantity})
		require.Error(t, err, "quantity %d", quantity)

		var availability *AvailabilityError
		require.True(t, errors.As(err, &availability))
		assert.Equal(t, int64(-1), availability.Available)
	}
	assert.Empty(t, payments.calls)
}

func TestCheckoutAvailabilityCheckIsAdvisory(t *testing.T) {
	// Two buyers racing for the last seat can both reserve a PENDING
	// ticket. The check is read-then-decide; the oversell window is a
	// known, accepted gap.
	store := newMemStore()
	service, _, _ := newTestService(store)
	e := seedEvent(store, model.EventStatusActive, int64p(1))

	first, err := service.Checkout(context.Background(), e.ID, buyer(), model.CheckoutRequest{Quantity: 1})
	require.NoError(t, err)

	second, err := service.Checkout(context.Background(), e.ID, buyer(), model.CheckoutRequest{Quantity: 1})
	require.NoError(t, err)

	assert.NotEqual(t, first.TicketID, second.TicketID)
}

func TestCheckoutUnlimitedCapacity(t *testing.T) {
	store := newMemStore()
	service, _, _ := newTestService(store)
	e := seedEvent(store, model.EventStatusActive, nil)
	store.AddTicketsSold(context.Background(), e.ID, 100000)

	_, err := service.Checkout(context.Background(), e.ID, buyer(), model.CheckoutRequest{Quantity: 10})
	assert.NoError(t, err)
}

func TestCheckoutFreeUnlimitedEvent(t *testing.T) {
	store := newMemStore()
	service, _, _ := newTestService(store)
	e := seedEvent(store, model.EventStatusActive, nil)
	store.UpdateEvent(context.Background(), e.ID, []string{"price"}, []interface{}{int64(0)})

	result, err := service.Checkout(context.Background(), e.ID, buyer(), model.CheckoutRequest{Quantity: 1})
	require.NoError(t, err)

	ticket, err := store.GetTicket(context.Background(), result.TicketID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ticket.AmountPaid)
	assert.Equal(t, model.TicketStatusPending, ticket.Status)
}
