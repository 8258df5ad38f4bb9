// Package constants holds shared persistence constants.
package constants

// Database table names.
const (
	TableAssets          = "assets"
	TablePlans           = "plans"
	TableSubscriptions   = "subscriptions"
	TablePaymentRecords  = "payment_records"
	TableOneTimePayments = "one_time_payments"
	TableBillingEvents   = "billing_events"
)
