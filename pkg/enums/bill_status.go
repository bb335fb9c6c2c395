package enums

import "fmt"

// BillStatus is derived from the bill's outstanding amount.
type BillStatus string

const (
	BillStatusUnpaid        BillStatus = "unpaid"
	BillStatusPartiallyPaid BillStatus = "partially_paid"
	BillStatusPaid          BillStatus = "paid"
	BillStatusOverdue       BillStatus = "overdue"
)

var validBillStatuses = []BillStatus{
	BillStatusUnpaid,
	BillStatusPartiallyPaid,
	BillStatusPaid,
	BillStatusOverdue,
}

// String implements fmt.Stringer.
func (s BillStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s BillStatus) IsValid() bool {
	for _, candidate := range validBillStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// HasBalance reports whether the bill still carries an outstanding amount.
func (s BillStatus) HasBalance() bool {
	return s == BillStatusUnpaid || s == BillStatusPartiallyPaid || s == BillStatusOverdue
}

// ParseBillStatus converts raw input into a BillStatus.
func ParseBillStatus(value string) (BillStatus, error) {
	for _, candidate := range validBillStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bill status %q", value)
}
