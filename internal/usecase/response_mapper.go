package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// RejectionMapper is the default ResponseMapper. It builds rejection
// responses by struct construction so that mapping a failure can itself
// never fail.
type RejectionMapper struct {
	Connector string
	Clock     func() time.Time
}

func NewRejectionMapper(connector string) *RejectionMapper {
	return &RejectionMapper{Connector: connector, Clock: time.Now}
}

func (m *RejectionMapper) Map(failure Failure) domain.ProtocolResponse {
	reason, text := reasonFor(failure)
	now := time.Now
	if m.Clock != nil {
		now = m.Clock
	}
	header := domain.Message{
		ID:                 uuid.NewString(),
		Type:               domain.MessageTypeRejection,
		ModelVersion:       domain.ModelVersion,
		IssuedAt:           now().UTC(),
		IssuerConnector:    m.Connector,
		RecipientConnector: failure.Issuer,
		CorrelationID:      failure.MessageID,
		RejectionReason:    reason,
	}
	return domain.ProtocolResponse{
		Header:  header,
		Payload: []byte(text),
		IsError: true,
	}
}

func reasonFor(failure Failure) (domain.RejectionReason, string) {
	switch failure.Kind {
	case FailureEmptyMessage:
		return domain.RejectionMalformedMessage, "Message is empty."
	case FailureMalformedHeader:
		return domain.RejectionMalformedMessage, "Malformed message header."
	case FailureVersionNotSupported:
		return domain.RejectionVersionNotSupported,
			fmt.Sprintf("Information model version %s not supported.", failure.DeclaredVersion)
	case FailureMalformedPayload:
		return domain.RejectionBadParameters, "Malformed message payload."
	case FailureMissingPayload:
		return domain.RejectionBadParameters, "Missing message payload."
	case FailureMissingRules:
		return domain.RejectionMalformedMessage, "Missing rules in contract request."
	case FailureMissingTarget:
		return domain.RejectionMalformedMessage, "Missing targets in rules of contract request."
	case FailureResourceNotFound:
		return domain.RejectionNotFound,
			fmt.Sprintf("Resource %s not found.", failure.Target)
	case FailureInvalidResource:
		return domain.RejectionBadParameters, "Invalid resource."
	case FailureMissingContractOffers:
		return domain.RejectionNotFound, "Could not find any matching contract offers."
	case FailureResponseBuild:
		return domain.RejectionInternalRecipientError, "Response could not be constructed."
	case FailureMessageTypeNotSupported:
		return domain.RejectionMessageTypeNotSupported, "Message type not supported."
	default:
		return domain.RejectionInternalRecipientError, "Could not process incoming message."
	}
}
