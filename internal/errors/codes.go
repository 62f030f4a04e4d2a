// Package errors provides machine-readable error codes for program operations.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Event errors
	CodeInvalidTimestamps    Code = "INVALID_TIMESTAMPS"
	CodeZeroSupply           Code = "ZERO_SUPPLY"
	CodeDuplicateEvent       Code = "DUPLICATE_EVENT"
	CodeMetadataURITooLong   Code = "METADATA_URI_TOO_LONG"
	CodeUnauthorizedUpdate   Code = "UNAUTHORIZED_UPDATE"
	CodeInvalidPlatformSplit Code = "INVALID_PLATFORM_SPLIT"
	CodeEndTimestampInPast   Code = "END_TIMESTAMP_IN_PAST"
	CodeEventNotEnded        Code = "EVENT_NOT_ENDED"
	CodeOutstandingFunds     Code = "OUTSTANDING_FUNDS"

	// Tier errors
	CodeExceedsTotalSupply       Code = "EXCEEDS_TOTAL_SUPPLY"
	CodeInvalidPrice             Code = "INVALID_PRICE"
	CodeDuplicateTier            Code = "DUPLICATE_TIER"
	CodeUnauthorizedTierCreation Code = "UNAUTHORIZED_TIER_CREATION"

	// Ticket errors
	CodeTicketAlreadyExists    Code = "TICKET_ALREADY_EXISTS"
	CodeInvalidMintOwner       Code = "INVALID_MINT_OWNER"
	CodeInvalidSupply          Code = "INVALID_SUPPLY"
	CodeTicketAlreadyUsed      Code = "TICKET_ALREADY_USED"
	CodeUnauthorizedTicketUse  Code = "UNAUTHORIZED_TICKET_USE"
	CodeTicketNotOwned         Code = "TICKET_NOT_OWNED"
	CodeAlreadyRefunded        Code = "ALREADY_REFUNDED"
	CodeTicketUsedCannotRefund Code = "TICKET_USED_CANNOT_REFUND"
	CodeUnauthorizedRefund     Code = "UNAUTHORIZED_REFUND"
	CodeEventAlreadyStarted    Code = "EVENT_ALREADY_STARTED"
	CodeResaleDisabled         Code = "RESALE_DISABLED"
	CodeInvalidOwner           Code = "INVALID_OWNER"
	CodeDuplicateOrder         Code = "DUPLICATE_ORDER"
	CodeOrderIDTooLong         Code = "ORDER_ID_TOO_LONG"

	// Check-in proof errors
	CodeInvalidSignature Code = "INVALID_SIGNATURE"
	CodeNonceUsed        Code = "NONCE_USED"
	CodeNonceExpired     Code = "NONCE_EXPIRED"
	CodeProofMissing     Code = "PROOF_MISSING"

	// Gate grant errors
	CodeGateGrantInvalid  Code = "GATE_GRANT_INVALID"
	CodeGateGrantExpired  Code = "GATE_GRANT_EXPIRED"
	CodeGateGrantMismatch Code = "GATE_GRANT_MISMATCH"

	// Funds errors
	CodeInsufficientBalance    Code = "INSUFFICIENT_BALANCE"
	CodeUnauthorizedWithdrawal Code = "UNAUTHORIZED_WITHDRAWAL"
	CodeArithmeticOverflow     Code = "ARITHMETIC_OVERFLOW"

	// Campaign errors
	CodeDeadlineInPast              Code = "DEADLINE_IN_PAST"
	CodeDeadlineAfterEventStart     Code = "DEADLINE_AFTER_EVENT_START"
	CodeCampaignDeadlinePassed      Code = "CAMPAIGN_DEADLINE_PASSED"
	CodeGoalNotReached              Code = "GOAL_NOT_REACHED"
	CodeCampaignNotActive           Code = "CAMPAIGN_NOT_ACTIVE"
	CodeAlreadyFinalized            Code = "ALREADY_FINALIZED"
	CodeContributionAlreadyRefunded Code = "CONTRIBUTION_ALREADY_REFUNDED"
	CodeCannotRefundFundedCampaign  Code = "CANNOT_REFUND_FUNDED_CAMPAIGN"
	CodeCampaignNotCompleted        Code = "CAMPAIGN_NOT_COMPLETED"
	CodeProfitAlreadyClaimed        Code = "PROFIT_ALREADY_CLAIMED"
	CodeCampaignNotFunded           Code = "CAMPAIGN_NOT_FUNDED"
	CodeInvalidContributionAmount   Code = "INVALID_CONTRIBUTION_AMOUNT"
	CodeUnauthorizedCampaignAction  Code = "UNAUTHORIZED_CAMPAIGN_ACTION"
	CodeInvalidStatusTransition     Code = "INVALID_STATUS_TRANSITION"

	// Budget errors
	CodeBudgetExceedsFunds          Code = "BUDGET_EXCEEDS_FUNDS"
	CodeInvalidMilestonePercentages Code = "INVALID_MILESTONE_PERCENTAGES"
	CodeBudgetDescriptionTooLong    Code = "BUDGET_DESCRIPTION_TOO_LONG"
	CodeMilestoneDescriptionTooLong Code = "MILESTONE_DESCRIPTION_TOO_LONG"
	CodeVotingPeriodEnded           Code = "VOTING_PERIOD_ENDED"
	CodeVotingPeriodNotEnded        Code = "VOTING_PERIOD_NOT_ENDED"
	CodeAlreadyVoted                Code = "ALREADY_VOTED"
	CodeBudgetNotPending            Code = "BUDGET_NOT_PENDING"
	CodeBudgetNotApproved           Code = "BUDGET_NOT_APPROVED"
	CodeCannotReviseBudget          Code = "CANNOT_REVISE_BUDGET"
	CodeMaxRevisionsReached         Code = "MAX_REVISIONS_REACHED"
	CodeMilestoneNotReady           Code = "MILESTONE_NOT_READY"
	CodeMilestoneAlreadyReleased    Code = "MILESTONE_ALREADY_RELEASED"
	CodeNotAContributor             Code = "NOT_A_CONTRIBUTOR"

	// Distribution errors
	CodeDistributionAlreadyComplete Code = "DISTRIBUTION_ALREADY_COMPLETE"
	CodeDistributionNotComplete     Code = "DISTRIBUTION_NOT_COMPLETE"
	CodeInvalidCampaignStatus       Code = "INVALID_CAMPAIGN_STATUS"
	CodeOrganizerAlreadyClaimed     Code = "ORGANIZER_ALREADY_CLAIMED"
	CodeUnauthorizedClaim           Code = "UNAUTHORIZED_CLAIM"
	CodeInvalidContribution         Code = "INVALID_CONTRIBUTION"
	CodeInvalidCampaign             Code = "INVALID_CAMPAIGN"
	CodeInvalidEvent                Code = "INVALID_EVENT"

	// Transport errors
	CodeInvalidAddress Code = "INVALID_ADDRESS"
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// Class groups codes into the operation failure taxonomy.
type Class int

const (
	// ClassInternal covers unclassified failures.
	ClassInternal Class = iota
	// ClassValidation covers malformed or out-of-range input.
	ClassValidation
	// ClassAuthorization covers signer or ownership mismatches.
	ClassAuthorization
	// ClassState covers operations against entities in the wrong lifecycle state.
	ClassState
	// ClassArithmetic covers overflow and underflow in checked operations.
	ClassArithmetic
	// ClassProof covers malformed or mismatched signature evidence.
	ClassProof
	// ClassNotFound covers missing entities.
	ClassNotFound
	// ClassConflict covers unique-key collisions on entity creation.
	ClassConflict
)

var classByCode = map[Code]Class{
	CodeInvalidTimestamps:           ClassValidation,
	CodeZeroSupply:                  ClassValidation,
	CodeMetadataURITooLong:          ClassValidation,
	CodeInvalidPlatformSplit:        ClassValidation,
	CodeEndTimestampInPast:          ClassValidation,
	CodeInvalidPrice:                ClassValidation,
	CodeInvalidContributionAmount:   ClassValidation,
	CodeDeadlineInPast:              ClassValidation,
	CodeDeadlineAfterEventStart:     ClassValidation,
	CodeBudgetDescriptionTooLong:    ClassValidation,
	CodeMilestoneDescriptionTooLong: ClassValidation,
	CodeInvalidMilestonePercentages: ClassValidation,
	CodeOrderIDTooLong:              ClassValidation,
	CodeInvalidSupply:               ClassValidation,
	CodeInvalidAddress:              ClassValidation,
	CodeInvalidRequest:              ClassValidation,

	CodeUnauthorizedUpdate:         ClassAuthorization,
	CodeUnauthorizedTierCreation:   ClassAuthorization,
	CodeUnauthorizedTicketUse:      ClassAuthorization,
	CodeUnauthorizedRefund:         ClassAuthorization,
	CodeUnauthorizedWithdrawal:     ClassAuthorization,
	CodeUnauthorizedCampaignAction: ClassAuthorization,
	CodeUnauthorizedClaim:          ClassAuthorization,
	CodeInvalidOwner:               ClassAuthorization,
	CodeInvalidMintOwner:           ClassAuthorization,
	CodeTicketNotOwned:             ClassAuthorization,

	CodeExceedsTotalSupply:          ClassState,
	CodeTicketAlreadyUsed:           ClassState,
	CodeAlreadyRefunded:             ClassState,
	CodeTicketUsedCannotRefund:      ClassState,
	CodeEventAlreadyStarted:         ClassState,
	CodeResaleDisabled:              ClassState,
	CodeEventNotEnded:               ClassState,
	CodeOutstandingFunds:            ClassState,
	CodeInsufficientBalance:         ClassState,
	CodeCampaignDeadlinePassed:      ClassState,
	CodeGoalNotReached:              ClassState,
	CodeCampaignNotActive:           ClassState,
	CodeAlreadyFinalized:            ClassState,
	CodeContributionAlreadyRefunded: ClassState,
	CodeCannotRefundFundedCampaign:  ClassState,
	CodeCampaignNotCompleted:        ClassState,
	CodeProfitAlreadyClaimed:        ClassState,
	CodeCampaignNotFunded:           ClassState,
	CodeInvalidStatusTransition:     ClassState,
	CodeVotingPeriodEnded:           ClassState,
	CodeVotingPeriodNotEnded:        ClassState,
	CodeBudgetNotPending:            ClassState,
	CodeBudgetNotApproved:           ClassState,
	CodeCannotReviseBudget:          ClassState,
	CodeMaxRevisionsReached:         ClassState,
	CodeMilestoneNotReady:           ClassState,
	CodeMilestoneAlreadyReleased:    ClassState,
	CodeBudgetExceedsFunds:          ClassState,
	CodeDistributionAlreadyComplete: ClassState,
	CodeDistributionNotComplete:     ClassState,
	CodeInvalidCampaignStatus:       ClassState,
	CodeOrganizerAlreadyClaimed:     ClassState,

	CodeArithmeticOverflow: ClassArithmetic,

	CodeInvalidSignature:  ClassProof,
	CodeNonceUsed:         ClassProof,
	CodeNonceExpired:      ClassProof,
	CodeProofMissing:      ClassProof,
	CodeGateGrantInvalid:  ClassProof,
	CodeGateGrantExpired:  ClassProof,
	CodeGateGrantMismatch: ClassAuthorization,

	CodeNotFound:            ClassNotFound,
	CodeNotAContributor:     ClassNotFound,
	CodeInvalidContribution: ClassNotFound,
	CodeInvalidCampaign:     ClassNotFound,
	CodeInvalidEvent:        ClassNotFound,

	CodeAlreadyExists:       ClassConflict,
	CodeDuplicateEvent:      ClassConflict,
	CodeDuplicateTier:       ClassConflict,
	CodeTicketAlreadyExists: ClassConflict,
	CodeDuplicateOrder:      ClassConflict,
	CodeAlreadyVoted:        ClassConflict,
}

// ClassOf returns the taxonomy class for a code.
func ClassOf(code Code) Class {
	if class, ok := classByCode[code]; ok {
		return class
	}
	return ClassInternal
}
