package usecase

import (
	"context"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// RuleMatcher checks whether any candidate offer's rule set is equivalent to
// the rules requested for one target. It holds no state and is safe for
// concurrent use; the result depends only on its inputs.
type RuleMatcher struct {
	Offers   OfferResolver
	Comparer RuleComparer
}

// Match tests each candidate in order and stops at the first offer whose
// rule set the comparer considers equivalent to the requested one.
func (m *RuleMatcher) Match(ctx context.Context, offers []domain.ContractOffer, requested []domain.Rule) (domain.MatchResult, error) {
	for _, offer := range offers {
		offered, err := m.Offers.RulesByOffer(ctx, offer)
		if err != nil {
			return domain.MatchResult{}, err
		}
		equivalent, err := m.Comparer.Compare(ctx, offered, requested)
		if err != nil {
			return domain.MatchResult{}, err
		}
		if equivalent {
			matched := offer
			return domain.MatchResult{Valid: true, Offer: &matched}, nil
		}
	}
	return domain.MatchResult{}, nil
}

// filterOffersByConsumer drops offers whose consumer restriction excludes the
// requesting connector. Unrestricted offers always survive.
func filterOffersByConsumer(offers []domain.ContractOffer, issuer string) []domain.ContractOffer {
	var valid []domain.ContractOffer
	for _, offer := range offers {
		if offer.Consumer == "" || offer.Consumer == issuer {
			valid = append(valid, offer)
		}
	}
	return valid
}
