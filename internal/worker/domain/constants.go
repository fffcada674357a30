package domain

// Delivery outcomes, logged once per message
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeRequeued  = "requeued"
	OutcomeRejected  = "rejected"
)
