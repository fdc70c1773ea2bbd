package policyopa

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/open-policy-agent/opa/rego"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
)

const defaultQuery = "data.connector.policy.result"

// Engine evaluates rule-set equivalence through a rego policy bundle. The
// bundle owns the comparison semantics (set equality, constraint
// equivalence, tolerated orderings); this engine only feeds it both rule
// sets and reads the verdict.
type Engine struct {
	query rego.PreparedEvalQuery
}

type comparisonInput struct {
	Offered   []domain.Rule `json:"offered"`
	Requested []domain.Rule `json:"requested"`
}

type comparisonResult struct {
	Match bool `json:"match"`
}

func NewEngineFromBundlePath(ctx context.Context, bundlePath string) (*Engine, error) {
	if err := ValidateBundlePath(bundlePath); err != nil {
		return nil, err
	}
	r := rego.New(
		rego.Query(defaultQuery),
		rego.StrictBuiltinErrors(true),
		rego.Load([]string{bundlePath}, nil),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{query: prepared}, nil
}

// Compare implements usecase.RuleComparer.
func (e *Engine) Compare(ctx context.Context, offered, requested []domain.Rule) (bool, error) {
	if e == nil {
		return false, errors.New("policy engine is nil")
	}
	input := comparisonInput{Offered: offered, Requested: requested}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, errors.New("empty policy result")
	}
	result, err := decodeComparisonResult(results[0].Expressions[0].Value)
	if err != nil {
		return false, err
	}
	return result.Match, nil
}

func decodeComparisonResult(value any) (comparisonResult, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return comparisonResult{}, err
	}
	var result comparisonResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return comparisonResult{}, err
	}
	return result, nil
}
