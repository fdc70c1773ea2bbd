package domain

import "time"

// ModelVersion is the information model version this connector speaks.
const ModelVersion = "4.1.0"

// SupportedModelVersions lists the inbound versions the connector accepts.
var SupportedModelVersions = []string{"4.0.0", "4.1.0"}

type MessageType string

const (
	MessageTypeContractRequest   MessageType = "ids:ContractRequestMessage"
	MessageTypeContractAgreement MessageType = "ids:ContractAgreementMessage"
	MessageTypeContractRejection MessageType = "ids:ContractRejectionMessage"
	MessageTypeArtifactRequest   MessageType = "ids:ArtifactRequestMessage"
	MessageTypeRejection         MessageType = "ids:RejectionMessage"
)

type RejectionReason string

const (
	RejectionBadParameters           RejectionReason = "BAD_PARAMETERS"
	RejectionMalformedMessage        RejectionReason = "MALFORMED_MESSAGE"
	RejectionMessageTypeNotSupported RejectionReason = "MESSAGE_TYPE_NOT_SUPPORTED"
	RejectionNotFound                RejectionReason = "NOT_FOUND"
	RejectionVersionNotSupported     RejectionReason = "VERSION_NOT_SUPPORTED"
	RejectionInternalRecipientError  RejectionReason = "INTERNAL_RECIPIENT_ERROR"
	RejectionContractRejected        RejectionReason = "CONTRACT_REJECTED"
)

// Message is the protocol header of an inbound or outbound multipart message.
type Message struct {
	ID                 string          `json:"id"`
	Type               MessageType     `json:"type"`
	ModelVersion       string          `json:"modelVersion"`
	IssuedAt           time.Time       `json:"issued"`
	IssuerConnector    string          `json:"issuerConnector"`
	RecipientConnector string          `json:"recipientConnector,omitempty"`
	CorrelationID      string          `json:"correlationId,omitempty"`
	RejectionReason    RejectionReason `json:"rejectionReason,omitempty"`
	TransferContract   string          `json:"transferContract,omitempty"`
}

// ProtocolResponse is the single outbound message a handled request yields.
// IsError marks rejection responses; the payload of a rejection is plain
// text, an agreement payload is a JSON document.
type ProtocolResponse struct {
	Header  Message
	Payload []byte
	IsError bool
}

// MessageDesc describes an outgoing message for the dispatch layer.
type MessageDesc struct {
	Type          MessageType
	Recipient     string
	CorrelationID string
}

type DispatchFailureKind string

const (
	DispatchFailureHeaderBuild    DispatchFailureKind = "header_build"
	DispatchFailureTransmission   DispatchFailureKind = "transmission"
	DispatchFailureRejectedBySend DispatchFailureKind = "rejected_by_send"
)

// TransportResult reports the outcome of a dispatch attempt. A failed
// attempt is not an error to the caller: Sent is false, Failure names the
// reason, and any retry policy is the caller's.
type TransportResult struct {
	Sent       bool
	StatusCode int
	Failure    DispatchFailureKind
	Err        error
}
