package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// ContractAgreementBuilder builds agreements for accepted requests. An
// agreement is generated exactly once per successful negotiation and copies
// the rules of the originating request.
type ContractAgreementBuilder struct {
	Provider string
	Clock    func() time.Time
}

func NewContractAgreementBuilder(provider string) *ContractAgreementBuilder {
	return &ContractAgreementBuilder{Provider: provider, Clock: time.Now}
}

func (b *ContractAgreementBuilder) Build(request domain.ContractRequest) (domain.ContractAgreement, error) {
	if request.ID == "" {
		return domain.ContractAgreement{}, fmt.Errorf("contract request has no id")
	}
	now := time.Now
	if b.Clock != nil {
		now = b.Clock
	}
	rules := make([]domain.Rule, len(request.Rules))
	copy(rules, request.Rules)
	return domain.ContractAgreement{
		ID:        uuid.NewString(),
		RequestID: request.ID,
		Provider:  b.Provider,
		Consumer:  request.Consumer,
		Rules:     rules,
		IssuedAt:  now().UTC(),
	}, nil
}
