package domain

import "github.com/shopspring/decimal"

// StudentCollection pairs a student with the sum of their committed payments.
// It is the raw material the rollup feeds through DeriveStatus / Remaining.
type StudentCollection struct {
	Student
	PaidAmount int64 `json:"paidAmount"`
}

// RecapRow is one student's line in a class recap report.
type RecapRow struct {
	StudentID    string        `json:"id"`
	NIS          string        `json:"nis"`
	Name         string        `json:"name"`
	ClassName    string        `json:"className"`
	TargetAmount int64         `json:"targetAmount"`
	PaidAmount   int64         `json:"paidAmount"`
	Remaining    int64         `json:"remaining"`
	Status       PaymentStatus `json:"status"`
}

// ClassSummary aggregates one class's balances and status counts.
type ClassSummary struct {
	ClassName           string `json:"className"`
	StudentCount        int    `json:"studentCount"`
	TotalTarget         int64  `json:"totalTarget"`
	TotalPaid           int64  `json:"totalPaid"`
	TotalRemaining      int64  `json:"totalRemaining"`
	PaidStudents        int    `json:"paidStudents"`
	PartialPaidStudents int    `json:"partialPaidStudents"`
	UnpaidStudents      int    `json:"unpaidStudents"`
}

// GlobalStatistics is the school-wide rollup.
type GlobalStatistics struct {
	StudentCount         int             `json:"studentCount"`
	ClassCount           int             `json:"classCount"`
	TotalTarget          int64           `json:"totalTarget"`
	TotalPaid            int64           `json:"totalPaid"`
	TotalRemaining       int64           `json:"totalRemaining"`
	PaidStudents         int             `json:"paidStudents"`
	PartialPaidStudents  int             `json:"partialPaidStudents"`
	UnpaidStudents       int             `json:"unpaidStudents"`
	CollectionPercentage decimal.Decimal `json:"collectionPercentage"` // round2(totalPaid/totalTarget*100), 0 when totalTarget == 0
}
