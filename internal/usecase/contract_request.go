package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// ContractRejectedPayload is the fixed payload of a contract rejection; the
// protocol convention is a terse plain-text answer, not a structured
// explanation.
const ContractRejectedPayload = "Contract rejected."

// ContractRequestHandler handles inbound contract request messages. It
// validates the envelope, extracts and parses the payload, matches the
// request's rules per target against the locally known contract offers and
// answers with a contract agreement or a rejection. Every invocation is
// stateless; concurrent negotiations need no locking here.
type ContractRequestHandler struct {
	Codec      PayloadCodec
	Offers     OfferResolver
	Matcher    *RuleMatcher
	Agreements AgreementBuilder
	Responses  ResponseMapper
	Headers    HeaderBuilder
	Logger     *zap.Logger
}

// Handle drives the negotiation for one inbound message and always yields
// exactly one response. Nothing propagates as a fault past this method: a
// panic anywhere below degrades to the generic processing-failed rejection.
func (h *ContractRequestHandler) Handle(ctx context.Context, msg domain.Message, payload []byte) (resp domain.ProtocolResponse) {
	defer func() {
		if r := recover(); r != nil {
			h.logger().Error("contract request handling panicked",
				zap.Any("panic", r),
				zap.String("messageId", msg.ID),
				zap.String("issuerConnector", msg.IssuerConnector),
			)
			resp = h.Responses.Map(Failure{
				Kind:      FailureProcessing,
				Err:       fmt.Errorf("unexpected failure: %v", r),
				MessageID: msg.ID,
				Issuer:    msg.IssuerConnector,
			})
		}
	}()

	if err := validateEnvelope(msg); err != nil {
		switch {
		case errors.Is(err, domain.ErrMessageEmpty):
			return h.Responses.Map(Failure{Kind: FailureEmptyMessage, Err: err})
		default:
			return h.Responses.Map(Failure{
				Kind:            FailureVersionNotSupported,
				Err:             err,
				MessageID:       msg.ID,
				Issuer:          msg.IssuerConnector,
				DeclaredVersion: msg.ModelVersion,
			})
		}
	}

	issuer := msg.IssuerConnector
	messageID := msg.ID

	payloadString, err := h.Codec.PayloadString(payload)
	if err != nil {
		kind := FailureMalformedPayload
		if errors.Is(err, domain.ErrMissingPayload) {
			kind = FailureMissingPayload
		}
		return h.Responses.Map(Failure{Kind: kind, Err: err, MessageID: messageID, Issuer: issuer})
	}

	return h.checkContractRequest(ctx, payloadString, messageID, issuer)
}

// checkContractRequest compares the consumer's contract request against the
// provider's published offers. Targets are evaluated in the order the rules
// referenced them; the first failing target decides the response and later
// targets are never touched.
func (h *ContractRequestHandler) checkContractRequest(ctx context.Context, payload, messageID, issuer string) domain.ProtocolResponse {
	request, err := h.Codec.ContractRequest(payload)
	if err != nil {
		return h.Responses.Map(Failure{Kind: FailureProcessing, Err: err, MessageID: messageID, Issuer: issuer})
	}

	if len(request.Rules) == 0 {
		return h.Responses.Map(Failure{Kind: FailureMissingRules, Err: domain.ErrMissingRules, MessageID: messageID, Issuer: issuer})
	}

	targetRules := domain.NewTargetRuleMap(request.Rules)
	if targetRules.Empty() {
		return h.Responses.Map(Failure{Kind: FailureMissingTarget, Err: domain.ErrMissingTarget, MessageID: messageID, Issuer: issuer})
	}

	for _, target := range targetRules.Targets() {
		offers, err := h.Offers.OffersByArtifact(ctx, target)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidResource):
				return h.Responses.Map(Failure{Kind: FailureInvalidResource, Err: err, MessageID: messageID, Issuer: issuer, Target: target})
			case errors.Is(err, domain.ErrResourceNotFound):
				return h.Responses.Map(Failure{Kind: FailureResourceNotFound, Err: err, MessageID: messageID, Issuer: issuer, Target: target})
			default:
				return h.Responses.Map(Failure{Kind: FailureProcessing, Err: err, MessageID: messageID, Issuer: issuer, Target: target})
			}
		}

		// Abort the negotiation if no offer exists, or none is open to
		// the requesting connector.
		if len(offers) == 0 {
			return h.Responses.Map(Failure{Kind: FailureMissingContractOffers, Err: domain.ErrMissingContractOffers, MessageID: messageID, Issuer: issuer})
		}
		validOffers := filterOffersByConsumer(offers, issuer)
		if len(validOffers) == 0 {
			return h.Responses.Map(Failure{Kind: FailureMissingContractOffers, Err: domain.ErrMissingContractOffers, MessageID: messageID, Issuer: issuer})
		}

		match, err := h.Matcher.Match(ctx, validOffers, targetRules.Rules(target))
		if err != nil {
			return h.Responses.Map(Failure{Kind: FailureProcessing, Err: err, MessageID: messageID, Issuer: issuer, Target: target})
		}
		if !match.Valid {
			return h.rejectContract(issuer, messageID)
		}
	}

	return h.acceptContract(request, issuer, messageID)
}

// acceptContract builds the agreement from the original request, so the
// agreement reflects what the consumer asked for.
func (h *ContractRequestHandler) acceptContract(request domain.ContractRequest, issuer, messageID string) domain.ProtocolResponse {
	agreement, err := h.Agreements.Build(request)
	if err != nil {
		return h.Responses.Map(Failure{Kind: FailureResponseBuild, Err: err, MessageID: messageID, Issuer: issuer})
	}
	payload, err := json.Marshal(agreement)
	if err != nil {
		return h.Responses.Map(Failure{Kind: FailureResponseBuild, Err: err, MessageID: messageID, Issuer: issuer})
	}
	header, err := h.Headers.Build(domain.MessageTypeContractAgreement, messageID, issuer)
	if err != nil {
		return h.Responses.Map(Failure{Kind: FailureResponseBuild, Err: err, MessageID: messageID, Issuer: issuer})
	}
	return domain.ProtocolResponse{Header: header, Payload: payload}
}

func (h *ContractRequestHandler) rejectContract(issuer, messageID string) domain.ProtocolResponse {
	header, err := h.Headers.Build(domain.MessageTypeContractRejection, messageID, issuer)
	if err != nil {
		return h.Responses.Map(Failure{Kind: FailureResponseBuild, Err: err, MessageID: messageID, Issuer: issuer})
	}
	header.RejectionReason = domain.RejectionContractRejected
	return domain.ProtocolResponse{
		Header:  header,
		Payload: []byte(ContractRejectedPayload),
		IsError: true,
	}
}

func (h *ContractRequestHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func validateEnvelope(msg domain.Message) error {
	if msg.ID == "" && msg.IssuerConnector == "" {
		return domain.ErrMessageEmpty
	}
	for _, version := range domain.SupportedModelVersions {
		if msg.ModelVersion == version {
			return nil
		}
	}
	return fmt.Errorf("version %q: %w", msg.ModelVersion, domain.ErrVersionNotSupported)
}
