package enums

// DelivererPaymentStatus tracks a commission payout.
type DelivererPaymentStatus string

const (
	DelivererPaymentStatusPending DelivererPaymentStatus = "pending"
	DelivererPaymentStatusPaid    DelivererPaymentStatus = "paid"
)

// String implements fmt.Stringer.
func (s DelivererPaymentStatus) String() string {
	return string(s)
}
