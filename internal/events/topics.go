package events

// Topic constants for domain events emitted by the portal.
const (
	TopicInvoiceIssued    = "invoice.issued"
	TopicPaymentStarted   = "payment.started"
	TopicPaymentCompleted = "payment.completed"
	TopicPaymentFailed    = "payment.failed"
	TopicReceiptIssued    = "receipt.issued"
	TopicCreditGranted    = "credit.granted"
	TopicCreditSpent      = "credit.spent"
)

// DefaultTopics returns the canonical list of topics that support webhooks.
func DefaultTopics() []string {
	return []string{
		TopicInvoiceIssued,
		TopicPaymentStarted,
		TopicPaymentCompleted,
		TopicPaymentFailed,
		TopicReceiptIssued,
		TopicCreditGranted,
		TopicCreditSpent,
	}
}
