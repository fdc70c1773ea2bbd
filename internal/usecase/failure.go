package usecase

type FailureKind string

const (
	FailureEmptyMessage            FailureKind = "empty_message"
	FailureMalformedHeader         FailureKind = "malformed_header"
	FailureVersionNotSupported     FailureKind = "version_not_supported"
	FailureMalformedPayload        FailureKind = "malformed_payload"
	FailureMissingPayload          FailureKind = "missing_payload"
	FailureMissingRules            FailureKind = "missing_rules"
	FailureMissingTarget           FailureKind = "missing_target"
	FailureResourceNotFound        FailureKind = "resource_not_found"
	FailureInvalidResource         FailureKind = "invalid_resource"
	FailureMissingContractOffers   FailureKind = "missing_contract_offers"
	FailureResponseBuild           FailureKind = "response_build_failed"
	FailureProcessing              FailureKind = "processing_failed"
	FailureMessageTypeNotSupported FailureKind = "message_type_not_supported"
)

// Failure carries the context a rejection response needs: what went wrong,
// which message it correlates to and which connector gets the answer.
type Failure struct {
	Kind            FailureKind
	Err             error
	MessageID       string
	Issuer          string
	DeclaredVersion string
	Target          string
}
