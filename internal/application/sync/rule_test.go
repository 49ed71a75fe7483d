package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

func ruleContext(backend *connector.Backend) *MapContext {
	return &MapContext{Backend: backend}
}

func TestOrderImportRulePaymentMode(t *testing.T) {
	backend := testBackend()

	t.Run("unknown payment method fails with a remediation hint", func(t *testing.T) {
		rule := NewOrderImportRule(newFakePaymentModeStore())
		_, err := rule.Check(context.Background(), ruleContext(backend), decode(t, `{
			"id": 1, "payment_method": "cheque", "payment_method_title": "Check payments", "status": "processing"
		}`))
		require.Error(t, err)

		var cfgErr *connector.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Message, `"cheque"`)
		assert.Contains(t, cfgErr.Message, "Check payments")
	})

	t.Run("configured payment method passes", func(t *testing.T) {
		rule := NewOrderImportRule(newFakePaymentModeStore(paypalMode()))
		skip, err := rule.Check(context.Background(), ruleContext(backend), decode(t, `{
			"id": 1, "payment_method": "paypal", "status": "processing"
		}`))
		require.NoError(t, err)
		assert.Empty(t, skip)
	})
}

func TestOrderImportRulePaymentAge(t *testing.T) {
	backend := testBackend()
	mode := &commerce.PaymentMode{ID: uuid.New(), Name: "Check", Code: "cheque", DaysBeforeCancel: 30}
	rule := NewOrderImportRule(newFakePaymentModeStore(mode))
	rule.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	t.Run("unpaid order past the window is skipped", func(t *testing.T) {
		skip, err := rule.Check(context.Background(), ruleContext(backend), decode(t, `{
			"id": 55, "payment_method": "cheque", "status": "on-hold",
			"date_created": "2026-06-01T09:00:00"
		}`))
		require.NoError(t, err)
		assert.Contains(t, skip, "unpaid for more than 30 days")
	})

	t.Run("recent unpaid order passes", func(t *testing.T) {
		skip, err := rule.Check(context.Background(), ruleContext(backend), decode(t, `{
			"id": 56, "payment_method": "cheque", "status": "on-hold",
			"date_created": "2026-08-20T09:00:00"
		}`))
		require.NoError(t, err)
		assert.Empty(t, skip)
	})

	t.Run("paid order passes regardless of age", func(t *testing.T) {
		skip, err := rule.Check(context.Background(), ruleContext(backend), decode(t, `{
			"id": 57, "payment_method": "cheque", "status": "processing",
			"date_created": "2026-01-01T09:00:00", "date_paid": "2026-01-02T09:00:00"
		}`))
		require.NoError(t, err)
		assert.Empty(t, skip)
	})
}

func TestOrderImportRuleStatus(t *testing.T) {
	rule := NewOrderImportRule(newFakePaymentModeStore(paypalMode()))

	t.Run("status outside the allow-list is skipped", func(t *testing.T) {
		backend := testBackend()
		backend.ImportableOrderStatuses = []string{"processing", "completed"}

		skip, err := rule.Check(context.Background(), ruleContext(backend), decode(t, `{
			"id": 60, "payment_method": "paypal", "status": "cancelled"
		}`))
		require.NoError(t, err)
		assert.Contains(t, skip, `"cancelled"`)
	})

	t.Run("empty allow-list admits every status", func(t *testing.T) {
		skip, err := rule.Check(context.Background(), ruleContext(testBackend()), decode(t, `{
			"id": 61, "payment_method": "paypal", "status": "cancelled"
		}`))
		require.NoError(t, err)
		assert.Empty(t, skip)
	})
}

func TestOrderImportSkippedByRule(t *testing.T) {
	f := setupOrderFixture(t)
	f.backend.ImportableOrderStatuses = []string{"completed"}

	outcome := f.run(t, connector.EntityKindOrder, "742", false)
	assert.True(t, outcome.IsSkipped())
	assert.Equal(t, 0, f.orders.created)
	// The rule runs before dependency resolution, so nothing else was pulled.
	assert.Equal(t, 0, f.partners.created)
	assert.Equal(t, 0, f.bindings.count())
}
