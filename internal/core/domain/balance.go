package domain

// PaymentStatus is derived purely from paidAmount vs target. It is never
// stored; transitions happen only as a consequence of payment mutations.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "PAID"
	StatusPartial PaymentStatus = "PARTIAL"
	StatusUnpaid  PaymentStatus = "UNPAID"
)

// StudentBalance is the derived view of a student's collection state.
type StudentBalance struct {
	PaidAmount int64         `json:"paidAmount"`
	Remaining  int64         `json:"remaining"`
	Status     PaymentStatus `json:"status"`
}

// DeriveStatus is the single source of truth for the status rule. Every read
// path (single balance, class recap, summaries, statistics) must use it
// rather than re-deriving the thresholds.
//
// A zero target with nothing paid reads as PAID: there is nothing to collect.
// A zero target with a positive paid total can only arise from stale data
// that violates the ledger invariant; it is reported as PARTIAL rather than
// hidden.
func DeriveStatus(target, paid int64) PaymentStatus {
	switch {
	case target == 0:
		if paid > 0 {
			return StatusPartial
		}
		return StatusPaid
	case paid >= target:
		return StatusPaid
	case paid > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// Remaining clamps the unpaid portion at zero. The clamp is defensive against
// stale data; it is not a substitute for the paid <= target invariant.
func Remaining(target, paid int64) int64 {
	if remaining := target - paid; remaining > 0 {
		return remaining
	}
	return 0
}

// ComputeBalance sums payment amounts against a target and derives the
// balance view. excludePaymentID, when non-empty, skips one record from the
// sum; edit validation uses this to ask "what would the balance be without
// the record being replaced".
func ComputeBalance(target int64, payments []Payment, excludePaymentID string) StudentBalance {
	var paid int64
	for _, p := range payments {
		if excludePaymentID != "" && p.PaymentID == excludePaymentID {
			continue
		}
		paid += p.Amount
	}
	return StudentBalance{
		PaidAmount: paid,
		Remaining:  Remaining(target, paid),
		Status:     DeriveStatus(target, paid),
	}
}
