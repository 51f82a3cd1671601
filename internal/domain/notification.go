package domain

import "github.com/google/uuid"

// Notification event types emitted by the workflow engine. Delivery
// transport is out of scope; these name the business moment only.
const (
	NotifyPaymentReminder   = "payment.reminder"
	NotifyPaymentOverdue    = "payment.overdue"
	NotifyPaymentConfirmed  = "payment.confirmed"
	NotifyPaymentReceived   = "payment.received"
	NotifySplitCreated      = "split_payment.created"
	NotifySplitDepositPaid  = "split_payment.deposit_paid"
	NotifySplitBalancePaid  = "split_payment.balance_paid"
	NotifySplitItemReminder = "split_payment.item_reminder"
	NotifySplitCancelled    = "split_payment.cancelled"
)

// NotificationEvent is a fire-and-forget message to one user.
type NotificationEvent struct {
	UserID  uuid.UUID              `json:"user_id"`
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}
