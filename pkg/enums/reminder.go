package enums

// ReminderType classifies why a reminder was raised.
type ReminderType string

const (
	ReminderTypeOverdue ReminderType = "overdue"
)

// ReminderStatus tracks the dispatch state of a reminder.
type ReminderStatus string

const (
	ReminderStatusPending ReminderStatus = "pending"
	ReminderStatusSent    ReminderStatus = "sent"
)

// ReminderDeliveryMethod is the channel chosen from the customer's
// notification preference.
type ReminderDeliveryMethod string

const (
	ReminderDeliveryMethodEmail ReminderDeliveryMethod = "email"
	ReminderDeliveryMethodPrint ReminderDeliveryMethod = "print"
)
