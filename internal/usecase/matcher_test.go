package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

type countingComparer struct {
	equal map[string]bool
	calls int
	err   error
}

func (c *countingComparer) Compare(_ context.Context, offered, _ []domain.Rule) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	if len(offered) == 0 {
		return false, nil
	}
	return c.equal[offered[0].Action], nil
}

func TestMatch_FirstEquivalentOfferWins(t *testing.T) {
	resolver := &offerResolverStub{}
	comparer := &countingComparer{equal: map[string]bool{"READ": true}}
	m := &RuleMatcher{Offers: resolver, Comparer: comparer}

	offers := []domain.ContractOffer{
		{ID: "offer-1", Rules: []domain.Rule{{Action: "USE", Target: testTarget}}},
		{ID: "offer-2", Rules: []domain.Rule{{Action: "READ", Target: testTarget}}},
		{ID: "offer-3", Rules: []domain.Rule{{Action: "READ", Target: testTarget}}},
	}
	result, err := m.Match(context.Background(), offers, []domain.Rule{{Action: "READ", Target: testTarget}})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !result.Valid {
		t.Fatal("expected a match")
	}
	if result.Offer == nil || result.Offer.ID != "offer-2" {
		t.Fatalf("matched offer = %+v, want offer-2", result.Offer)
	}
	if comparer.calls != 2 {
		t.Fatalf("comparer calls = %d, want 2 (stop at first match)", comparer.calls)
	}
}

func TestMatch_NoEquivalentOffer(t *testing.T) {
	resolver := &offerResolverStub{}
	comparer := &countingComparer{equal: map[string]bool{}}
	m := &RuleMatcher{Offers: resolver, Comparer: comparer}

	offers := []domain.ContractOffer{
		{ID: "offer-1", Rules: []domain.Rule{{Action: "USE", Target: testTarget}}},
	}
	result, err := m.Match(context.Background(), offers, []domain.Rule{{Action: "READ", Target: testTarget}})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if result.Valid || result.Offer != nil {
		t.Fatalf("result = %+v, want no match", result)
	}
}

func TestMatch_ComparerError(t *testing.T) {
	resolver := &offerResolverStub{}
	comparer := &countingComparer{err: errors.New("policy engine down")}
	m := &RuleMatcher{Offers: resolver, Comparer: comparer}

	offers := []domain.ContractOffer{{ID: "offer-1", Rules: []domain.Rule{{Action: "USE"}}}}
	if _, err := m.Match(context.Background(), offers, nil); err == nil {
		t.Fatal("expected the comparer error to propagate")
	}
}

func TestFilterOffersByConsumer(t *testing.T) {
	offers := []domain.ContractOffer{
		{ID: "open"},
		{ID: "mine", Consumer: testConsumer},
		{ID: "theirs", Consumer: "https://other.example/connector"},
	}
	valid := filterOffersByConsumer(offers, testConsumer)
	if len(valid) != 2 {
		t.Fatalf("len = %d, want 2", len(valid))
	}
	if valid[0].ID != "open" || valid[1].ID != "mine" {
		t.Fatalf("valid = %+v", valid)
	}
}
