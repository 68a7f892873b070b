package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/komiteku/komite-backend/internal/core/domain"
)

func TestDeriveStatus(t *testing.T) {
	testCases := []struct {
		name   string
		target int64
		paid   int64
		want   domain.PaymentStatus
	}{
		{"nothing paid", 400000, 0, domain.StatusUnpaid},
		{"partially paid", 400000, 150000, domain.StatusPartial},
		{"exactly paid", 400000, 400000, domain.StatusPaid},
		{"one unit short", 400000, 399999, domain.StatusPartial},
		{"zero target nothing paid", 0, 0, domain.StatusPaid},
		{"zero target with stale paid amount", 0, 5000, domain.StatusPartial},
		{"overpaid stale data", 400000, 450000, domain.StatusPaid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.DeriveStatus(tc.target, tc.paid))
		})
	}
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, int64(400000), domain.Remaining(400000, 0))
	assert.Equal(t, int64(250000), domain.Remaining(400000, 150000))
	assert.Equal(t, int64(0), domain.Remaining(400000, 400000))
	// Clamped at zero even when stale data overshoots the target.
	assert.Equal(t, int64(0), domain.Remaining(400000, 450000))
	assert.Equal(t, int64(0), domain.Remaining(0, 0))
}

func TestComputeBalance(t *testing.T) {
	payments := []domain.Payment{
		{PaymentID: "p1", Amount: 100000},
		{PaymentID: "p2", Amount: 150000},
		{PaymentID: "p3", Amount: 50000},
	}

	t.Run("sums all payments", func(t *testing.T) {
		b := domain.ComputeBalance(400000, payments, "")
		assert.Equal(t, int64(300000), b.PaidAmount)
		assert.Equal(t, int64(100000), b.Remaining)
		assert.Equal(t, domain.StatusPartial, b.Status)
	})

	t.Run("excludes one payment for edit validation", func(t *testing.T) {
		b := domain.ComputeBalance(400000, payments, "p2")
		assert.Equal(t, int64(150000), b.PaidAmount)
		assert.Equal(t, int64(250000), b.Remaining)
	})

	t.Run("no payments", func(t *testing.T) {
		b := domain.ComputeBalance(400000, nil, "")
		assert.Equal(t, int64(0), b.PaidAmount)
		assert.Equal(t, domain.StatusUnpaid, b.Status)
	})

	t.Run("zero target with no payments reads as paid", func(t *testing.T) {
		b := domain.ComputeBalance(0, nil, "")
		assert.Equal(t, domain.StatusPaid, b.Status)
		assert.Equal(t, int64(0), b.Remaining)
	})
}
