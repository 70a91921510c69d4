package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("whsec_test")

func signPayload(secret []byte, ts time.Time, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func testVerifier(now time.Time) *WebhookVerifier {
	v := NewWebhookVerifier(testSecret)
	v.now = func() time.Time { return now }
	return v
}

func TestConstructEvent(t *testing.T) {
	now := time.Now()
	payload := []byte(`{
		"id": "evt_wh_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_123",
			"payment_intent": "pi_123",
			"customer_email": "jane@example.com",
			"metadata": {"eventId": "evt_abc", "ticketId": "tkt_abc", "userId": "usr_abc"}
		}}
	}`)

	event, err := testVerifier(now).ConstructEvent(payload, signPayload(testSecret, now, payload))
	require.NoError(t, err)

	assert.Equal(t, "evt_wh_1", event.ID)
	assert.Equal(t, EventCheckoutSessionCompleted, event.Type)

	session, err := event.Session()
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "pi_123", session.PaymentIntent)
	assert.Equal(t, "jane@example.com", session.CustomerEmail)
	assert.Equal(t, "tkt_abc", session.Metadata["ticketId"])
}

func TestConstructEventFailsForWrongSecret(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id": "evt_wh_1", "type": "checkout.session.completed"}`)

	event, err := testVerifier(now).ConstructEvent(payload, signPayload([]byte("whsec_other"), now, payload))
	require.Error(t, err)

	assert.Equal(t, ErrInvalidSignature, err)
	assert.Nil(t, event)
}

func TestConstructEventFailsForTamperedPayload(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id": "evt_wh_1", "type": "checkout.session.completed"}`)
	header := signPayload(testSecret, now, payload)

	tampered := []byte(`{"id": "evt_wh_1", "type": "charge.refunded"}`)
	event, err := testVerifier(now).ConstructEvent(tampered, header)
	require.Error(t, err)

	assert.Equal(t, ErrInvalidSignature, err)
	assert.Nil(t, event)
}

func TestConstructEventFailsOutsideTolerance(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id": "evt_wh_1", "type": "checkout.session.completed"}`)
	header := signPayload(testSecret, now.Add(-10*time.Minute), payload)

	event, err := testVerifier(now).ConstructEvent(payload, header)
	require.Error(t, err)

	assert.Equal(t, ErrInvalidSignature, err)
	assert.Nil(t, event)
}

func TestConstructEventAcceptsSecondSignature(t *testing.T) {
	// Secret rotation sends one v1 per live secret.
	now := time.Now()
	payload := []byte(`{"id": "evt_wh_1", "type": "checkout.session.expired"}`)

	mac := hmac.New(sha256.New, testSecret)
	fmt.Fprintf(mac, "%d.%s", now.Unix(), payload)
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), "00ff", hex.EncodeToString(mac.Sum(nil)))

	event, err := testVerifier(now).ConstructEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutSessionExpired, event.Type)
}

func TestConstructEventFailsForMissingHeader(t *testing.T) {
	_, err := testVerifier(time.Now()).ConstructEvent([]byte(`{}`), "")
	assert.Equal(t, ErrInvalidSignature, err)
}

func TestParseSignatureHeader(t *testing.T) {
	ts, sigs, err := parseSignatureHeader("t=1680000000,v1=deadbeef")
	require.NoError(t, err)

	assert.Equal(t, int64(1680000000), ts)
	assert.Equal(t, []string{"deadbeef"}, sigs)
}

func TestParseSignatureHeaderFailsWithoutSignature(t *testing.T) {
	_, _, err := parseSignatureHeader("t=1680000000")
	assert.Equal(t, ErrInvalidSignature, err)
}

func TestParseSignatureHeaderFailsForBadTimestamp(t *testing.T) {
	_, _, err := parseSignatureHeader("t=notanumber,v1=deadbeef")
	assert.Equal(t, ErrInvalidSignature, err)
}
