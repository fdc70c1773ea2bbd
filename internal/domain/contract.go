package domain

import "time"

// Constraint narrows a rule, e.g. {"dateTime", "BEFORE", "2026-12-31"}.
type Constraint struct {
	LeftOperand  string `json:"leftOperand"`
	Operator     string `json:"operator"`
	RightOperand string `json:"rightOperand"`
}

// Rule is one usage rule bound to exactly one target artifact.
type Rule struct {
	Action      string       `json:"action"`
	Target      string       `json:"target"`
	Constraints []Constraint `json:"constraints,omitempty"`
}

// ContractRequest is a consumer's proposed rule set for one or more targets.
type ContractRequest struct {
	ID       string `json:"id"`
	Consumer string `json:"consumer"`
	Rules    []Rule `json:"rules"`
}

// ContractOffer is a provider-published rule set for one artifact. An empty
// Consumer means the offer is open to any requesting connector.
type ContractOffer struct {
	ID       string `json:"id"`
	Artifact string `json:"artifact"`
	Consumer string `json:"consumer,omitempty"`
	Rules    []Rule `json:"rules"`
}

// ContractAgreement is the binding result of a successful negotiation. The
// rules are copied from the originating request, not from the matched offer.
type ContractAgreement struct {
	ID        string    `json:"id"`
	RequestID string    `json:"requestId"`
	Provider  string    `json:"provider"`
	Consumer  string    `json:"consumer"`
	Rules     []Rule    `json:"rules"`
	IssuedAt  time.Time `json:"issued"`
}

// MatchResult is the outcome of comparing one target's requested rules
// against its candidate offers.
type MatchResult struct {
	Valid bool
	Offer *ContractOffer
}

// TargetRuleMap groups a request's rules by target, preserving the order in
// which targets first appear. Rules without a target are skipped.
type TargetRuleMap struct {
	targets []string
	rules   map[string][]Rule
}

func NewTargetRuleMap(rules []Rule) TargetRuleMap {
	m := TargetRuleMap{rules: make(map[string][]Rule)}
	for _, rule := range rules {
		if rule.Target == "" {
			continue
		}
		if _, ok := m.rules[rule.Target]; !ok {
			m.targets = append(m.targets, rule.Target)
		}
		m.rules[rule.Target] = append(m.rules[rule.Target], rule)
	}
	return m
}

// Targets returns the distinct targets in first-appearance order.
func (m TargetRuleMap) Targets() []string {
	return m.targets
}

func (m TargetRuleMap) Rules(target string) []Rule {
	return m.rules[target]
}

func (m TargetRuleMap) Empty() bool {
	return len(m.targets) == 0
}
