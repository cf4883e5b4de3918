package consts

const (
	// Bank statement states
	StatementStatePending         = "PENDING"
	StatementStateInProgress      = "IN_PROGRESS"
	StatementStateCompleted       = "COMPLETED"
	StatementStateWithDifferences = "WITH_DIFFERENCES"
	StatementStateClosed          = "CLOSED"

	// Match types
	MatchTypeExact     = "EXACT"
	MatchTypeFuzzy     = "FUZZY"
	MatchTypeReference = "REFERENCE"
	MatchTypeManual    = "MANUAL"

	// Confidence tiers
	ConfidenceTierHigh   = "high"
	ConfidenceTierMedium = "medium"
	ConfidenceTierLow    = "low"

	// Treasury movement kinds
	MovementKindPayment    = "PAYMENT"
	MovementKindCharge     = "CHARGE"
	MovementKindTransfer   = "TRANSFER"
	MovementKindCheck      = "CHECK"
	MovementKindAdjustment = "ADJUSTMENT"

	ReferenceTypeBankReconciliationAdjustment = "BANK_RECONCILIATION_ADJUSTMENT"

	// Statement history actions
	ActionImport          = "IMPORT"
	ActionMerge           = "MERGE"
	ActionAutoMatch       = "AUTO_MATCH"
	ActionMatch           = "MATCH"
	ActionUnmatch         = "UNMATCH"
	ActionMarkSuspense    = "MARK_SUSPENSE"
	ActionResolveSuspense = "RESOLVE_SUSPENSE"
	ActionClose           = "CLOSE"

	SystemOperator = "system"

	// Default config
	DefaultChunkSize          = 200
	DefaultPerPage            = 20
	MaxPerPage                = 100
	DefaultSuggestionLimit    = 20
	MaxSuggestionLimit        = 200
	DefaultWorkerNumber       = 1
	DefaultIntervalInSec      = 2
	DefaultDateWindowDays     = 5
	DefaultAmountTolerancePct = "0.01"
	DefaultAmountToleranceAbs = "1.00"
)

// MovementKinds lists the kinds accepted by the movement index filters.
var MovementKinds = []string{
	MovementKindPayment,
	MovementKindCharge,
	MovementKindTransfer,
	MovementKindCheck,
	MovementKindAdjustment,
}
