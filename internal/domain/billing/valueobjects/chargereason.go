package valueobjects

// ChargeReason explains the outcome of a charge eligibility evaluation.
// It is a business result, never an error.
type ChargeReason string

const (
	ReasonSuccess             ChargeReason = "success"
	ReasonNotDue              ChargeReason = "not_due"
	ReasonInsufficientBalance ChargeReason = "insufficient_balance"
	ReasonNotApproved         ChargeReason = "not_approved"
	ReasonPaused              ChargeReason = "paused"
	ReasonCancelled           ChargeReason = "cancelled"
	ReasonPlanInactive        ChargeReason = "plan_inactive"
)

func (r ChargeReason) String() string {
	return string(r)
}

// IsEligible reports whether the reason indicates a chargeable subscription.
func (r ChargeReason) IsEligible() bool {
	return r == ReasonSuccess
}
