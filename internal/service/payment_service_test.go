package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billflow/internal/domain"
	"billflow/internal/service"
)

func TestPaymentService_Record(t *testing.T) {
	f := newFixture(t)
	c := f.customer("Ravi", "Delhi")
	_, err := f.invoices.Create(f.ctx, f.ns, credit(c.ID, adHoc("a", "1", "2000", "0")))
	require.NoError(t, err)

	p, err := f.payments.Record(f.ctx, f.ns, service.PaymentInput{
		CustomerID: c.ID,
		Amount:     dec("500"),
		Reference:  " UTR123 ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentModeCash, p.Mode)
	assert.Equal(t, "UTR123", p.Reference)
	assert.NotEmpty(t, p.Date)
	assert.True(t, f.balance(c.ID).Equal(dec("1500")))

	got, err := f.customers.Get(f.ctx, f.ns, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Payment Received", got.Notifications[0].Title)
	assert.Equal(t, "Payment of ₹500.00 received via CASH.", got.Notifications[0].Message)
}

func TestPaymentService_Record_Rejects(t *testing.T) {
	f := newFixture(t)
	c := f.customer("Ravi", "Delhi")

	tests := []struct {
		name  string
		input service.PaymentInput
		want  error
	}{
		{"no_customer", service.PaymentInput{Amount: dec("10")}, domain.ErrCustomerRequired},
		{"unknown_customer", service.PaymentInput{CustomerID: "ghost", Amount: dec("10")}, domain.ErrCustomerRequired},
		{"zero_amount", service.PaymentInput{CustomerID: c.ID}, domain.ErrInvalidAmount},
		{"negative_amount", service.PaymentInput{CustomerID: c.ID, Amount: dec("-5")}, domain.ErrInvalidAmount},
		{"bad_mode", service.PaymentInput{CustomerID: c.ID, Amount: dec("5"), Mode: "BARTER"}, domain.ErrValidation},
		{"bad_date", service.PaymentInput{CustomerID: c.ID, Amount: dec("5"), Date: "2024-13-01"}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.payments.Record(f.ctx, f.ns, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := f.payments.List(f.ctx, f.ns, "")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.True(t, f.balance(c.ID).IsZero())
}

func TestPaymentService_Reverse(t *testing.T) {
	f := newFixture(t)
	c := f.customer("Ravi", "Delhi")
	_, err := f.invoices.Create(f.ctx, f.ns, credit(c.ID, adHoc("a", "1", "800", "0")))
	require.NoError(t, err)
	p, err := f.payments.Record(f.ctx, f.ns, service.PaymentInput{CustomerID: c.ID, Amount: dec("300"), Mode: domain.PaymentModeCheque})
	require.NoError(t, err)
	require.True(t, f.balance(c.ID).Equal(dec("500")))

	require.NoError(t, f.payments.Reverse(f.ctx, f.ns, p.ID))
	assert.True(t, f.balance(c.ID).Equal(dec("800")))

	_, err = f.payments.Get(f.ctx, f.ns, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.payments.Reverse(f.ctx, f.ns, p.ID), domain.ErrNotFound)

	got, err := f.customers.Get(f.ctx, f.ns, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSystem, got.Notifications[0].Type)
	assert.Equal(t, "Payment Reversed", got.Notifications[0].Title)
}

func TestPaymentService_List(t *testing.T) {
	f := newFixture(t)
	a := f.customer("Alpha", "Delhi")
	b := f.customer("Beta", "Delhi")

	for _, in := range []service.PaymentInput{
		{CustomerID: a.ID, Amount: dec("10"), Date: "2024-01-01"},
		{CustomerID: a.ID, Amount: dec("20"), Date: "2024-02-01"},
		{CustomerID: b.ID, Amount: dec("30"), Date: "2024-01-15"},
	} {
		_, err := f.payments.Record(f.ctx, f.ns, in)
		require.NoError(t, err)
	}

	all, err := f.payments.List(f.ctx, f.ns, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-02-01", all[0].Date)
	assert.Equal(t, "2024-01-01", all[2].Date)

	onlyA, err := f.payments.List(f.ctx, f.ns, a.ID)
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)
	assert.True(t, f.balance(a.ID).Equal(dec("-30")))
}
