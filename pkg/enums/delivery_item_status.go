package enums

import "fmt"

// DeliveryItemStatus tracks a single unit of delivery work. Once a pending
// item is resolved the transition is terminal.
type DeliveryItemStatus string

const (
	DeliveryItemStatusPending   DeliveryItemStatus = "pending"
	DeliveryItemStatusDelivered DeliveryItemStatus = "delivered"
	DeliveryItemStatusFailed    DeliveryItemStatus = "failed"
	DeliveryItemStatusSkipped   DeliveryItemStatus = "skipped"
)

var validDeliveryItemStatuses = []DeliveryItemStatus{
	DeliveryItemStatusPending,
	DeliveryItemStatusDelivered,
	DeliveryItemStatusFailed,
	DeliveryItemStatusSkipped,
}

// String implements fmt.Stringer.
func (s DeliveryItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s DeliveryItemStatus) IsValid() bool {
	for _, candidate := range validDeliveryItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the item has been resolved.
func (s DeliveryItemStatus) IsTerminal() bool {
	return s == DeliveryItemStatusDelivered || s == DeliveryItemStatusFailed || s == DeliveryItemStatusSkipped
}

// ParseDeliveryItemStatus converts raw input into a DeliveryItemStatus.
func ParseDeliveryItemStatus(value string) (DeliveryItemStatus, error) {
	for _, candidate := range validDeliveryItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery item status %q", value)
}
