package usecase

import (
	"context"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// OfferResolver looks up the contract offers published for an artifact.
// OffersByArtifact returns domain.ErrInvalidResource for a malformed target
// identifier and domain.ErrResourceNotFound for an unknown artifact; an empty
// slice means the artifact exists but has no offers.
type OfferResolver interface {
	OffersByArtifact(ctx context.Context, target string) ([]domain.ContractOffer, error)
	RulesByOffer(ctx context.Context, offer domain.ContractOffer) ([]domain.Rule, error)
}

// RuleComparer decides whether an offered rule set is equivalent to a
// requested one. Equivalence semantics are policy-defined; equivalence, not
// subset.
type RuleComparer interface {
	Compare(ctx context.Context, offered, requested []domain.Rule) (bool, error)
}

// AgreementBuilder turns an accepted contract request into a contract
// agreement.
type AgreementBuilder interface {
	Build(request domain.ContractRequest) (domain.ContractAgreement, error)
}

// PayloadCodec extracts and parses the payload of an inbound message.
// PayloadString returns domain.ErrMissingPayload or
// domain.ErrMalformedPayload as typed failures.
type PayloadCodec interface {
	PayloadString(payload []byte) (string, error)
	ContractRequest(payload string) (domain.ContractRequest, error)
}

// HeaderBuilder constructs the protocol header for an outgoing message type.
type HeaderBuilder interface {
	Build(msgType domain.MessageType, correlationID, recipient string) (domain.Message, error)
}

// ResponseMapper translates each failure kind into a protocol-correct
// rejection response.
type ResponseMapper interface {
	Map(failure Failure) domain.ProtocolResponse
}

// Dispatcher sends an outbound message. It never returns an error: a failed
// attempt yields a not-sent TransportResult and the caller owns any retry.
type Dispatcher interface {
	Send(ctx context.Context, desc domain.MessageDesc, payload []byte) domain.TransportResult
}
