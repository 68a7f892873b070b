package domain

// Student represents a roster entry with a fixed contribution target.
// The ledger reads students but never mutates them; target changes are an
// administrative roster operation.
type Student struct {
	StudentID    string `json:"studentID"`    // Primary key (UUID)
	NIS          string `json:"nis"`          // Enrollment code, unique
	Name         string `json:"name"`         //
	ClassName    string `json:"className"`    // e.g. "7A"
	Gender       string `json:"gender"`       // "L" or "P", informational only
	TargetAmount int64  `json:"targetAmount"` // Smallest currency unit; 0 means no collection required
	AuditFields
}
