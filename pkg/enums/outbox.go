package enums

// OutboxEventType names a domain event emitted through the outbox.
type OutboxEventType string

const (
	OutboxEventBillingRunCompleted OutboxEventType = "billing.run_completed"
	OutboxEventReminderCreated     OutboxEventType = "reminder.created"
	OutboxEventScheduleCreated     OutboxEventType = "schedule.created"
	OutboxEventCommissionProcessed OutboxEventType = "commission.processed"
)

// OutboxAggregateType names the entity an outbox event is anchored to.
type OutboxAggregateType string

const (
	OutboxAggregateBill             OutboxAggregateType = "bill"
	OutboxAggregateBillingRun       OutboxAggregateType = "billing_run"
	OutboxAggregatePaymentReminder  OutboxAggregateType = "payment_reminder"
	OutboxAggregateDeliverySchedule OutboxAggregateType = "delivery_schedule"
	OutboxAggregateDelivererPayment OutboxAggregateType = "deliverer_payment"
)
