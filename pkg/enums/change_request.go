package enums

import "fmt"

// ChangeRequestType classifies what a customer is asking for.
type ChangeRequestType string

const (
	ChangeRequestTypeNew    ChangeRequestType = "new"
	ChangeRequestTypeUpdate ChangeRequestType = "update"
	ChangeRequestTypeCancel ChangeRequestType = "cancel"
)

var validChangeRequestTypes = []ChangeRequestType{
	ChangeRequestTypeNew,
	ChangeRequestTypeUpdate,
	ChangeRequestTypeCancel,
}

// String implements fmt.Stringer.
func (t ChangeRequestType) String() string {
	return string(t)
}

// IsValid reports whether the value is known.
func (t ChangeRequestType) IsValid() bool {
	for _, candidate := range validChangeRequestTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseChangeRequestType converts raw input into a ChangeRequestType.
func ParseChangeRequestType(value string) (ChangeRequestType, error) {
	for _, candidate := range validChangeRequestTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid change request type %q", value)
}

// ChangeRequestStatus tracks the approval state machine. Pending requests
// take exactly one terminal transition to approved or rejected.
type ChangeRequestStatus string

const (
	ChangeRequestStatusPending  ChangeRequestStatus = "pending"
	ChangeRequestStatusApproved ChangeRequestStatus = "approved"
	ChangeRequestStatusRejected ChangeRequestStatus = "rejected"
)

// String implements fmt.Stringer.
func (s ChangeRequestStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the request has been decided.
func (s ChangeRequestStatus) IsTerminal() bool {
	return s == ChangeRequestStatusApproved || s == ChangeRequestStatusRejected
}
