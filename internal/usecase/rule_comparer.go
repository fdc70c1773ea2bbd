package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

// CanonicalRuleComparer compares rule sets by order-insensitive equality of
// their canonical forms. It is the default comparer when no policy bundle is
// configured.
type CanonicalRuleComparer struct{}

func (c *CanonicalRuleComparer) Compare(_ context.Context, offered, requested []domain.Rule) (bool, error) {
	if len(offered) != len(requested) {
		return false, nil
	}
	left := canonicalRuleSet(offered)
	right := canonicalRuleSet(requested)
	for i := range left {
		if left[i] != right[i] {
			return false, nil
		}
	}
	return true, nil
}

func canonicalRuleSet(rules []domain.Rule) []string {
	canonical := make([]string, 0, len(rules))
	for _, rule := range rules {
		canonical = append(canonical, canonicalRule(rule))
	}
	sort.Strings(canonical)
	return canonical
}

func canonicalRule(rule domain.Rule) string {
	constraints := make([]string, 0, len(rule.Constraints))
	for _, c := range rule.Constraints {
		constraints = append(constraints, c.LeftOperand+"\x1e"+c.Operator+"\x1e"+c.RightOperand)
	}
	sort.Strings(constraints)

	var b strings.Builder
	b.WriteString(rule.Action)
	b.WriteByte('\x1f')
	b.WriteString(rule.Target)
	for _, c := range constraints {
		b.WriteByte('\x1f')
		b.WriteString(c)
	}
	return b.String()
}
