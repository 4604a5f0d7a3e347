// Package classifier assigns settlement categories to canonical transaction records.
//
// Classification is pure and total: every record yields a category, and a
// transaction type without a rule branch is returned unchanged.
package classifier

import (
	"fmt"
	"strings"

	"github.com/Kris2339/MEO-PayDay/internal/models"
)

// Policy selects how the 정상출고 rule table is evaluated.
type Policy string

const (
	// PolicyOverride applies every rule in order; the last matching rule wins.
	PolicyOverride Policy = "override"
	// PolicyFirstMatch returns the first matching rule.
	PolicyFirstMatch Policy = "first-match"
)

// ParsePolicy converts a configuration value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyOverride, "":
		return PolicyOverride, nil
	case PolicyFirstMatch:
		return PolicyFirstMatch, nil
	default:
		return "", fmt.Errorf("unknown classification policy %q (must be %q or %q)", s, PolicyOverride, PolicyFirstMatch)
	}
}

// ProductSet is the market-product membership test used by the rules.
type ProductSet interface {
	Contains(name string) bool
}

// Classifier maps a record to a category.
type Classifier interface {
	Classify(record models.TransactionRecord, products ProductSet) string
	Policy() Policy
}

// Engine evaluates one RuleSet.
type Engine struct {
	rules RuleSet
}

// New returns an Engine for the given policy.
func New(policy Policy) *Engine {
	if policy == PolicyFirstMatch {
		return NewWithRules(FirstMatchRules())
	}
	return NewWithRules(OverrideRules())
}

// NewWithRules returns an Engine evaluating a custom rule table.
func NewWithRules(rules RuleSet) *Engine {
	return &Engine{rules: rules}
}

// Policy returns the evaluation policy of the engine's rule table.
func (e *Engine) Policy() Policy {
	return e.rules.Policy
}

// Classify returns the proposed category for record.
func (e *Engine) Classify(record models.TransactionRecord, products ProductSet) string {
	f := prepare(record)

	// Remarks are checked before any transaction-type branching.
	for _, rule := range e.rules.Remarks {
		if rule.matches(f.remarks) {
			return rule.Category
		}
	}

	switch f.transactionType {
	case models.TypeMinusAdjustment:
		if strings.Contains(f.remarks, "세트") {
			return models.CategorySetOutbound
		}
		return models.CategoryOutboundAdjustment
	case models.TypePlusAdjustment:
		if strings.Contains(f.remarks, "세트") {
			return models.CategorySetInbound
		}
		if strings.Contains(f.remarks, "가구매") {
			return models.CategoryPrePurchaseInbound
		}
		return models.CategoryInboundAdjustment
	case models.TypeNormalReceipt:
		if strings.Contains(f.remarks, "세트") {
			return models.CategorySetInbound
		}
		return models.CategoryNormalReceipt
	case models.TypeReturnReceipt:
		return models.CategoryReturnReceipt
	case models.TypeNormalShip:
		return e.classifyNormalShip(f, products)
	}

	return record.TransactionType
}

func (e *Engine) classifyNormalShip(f fields, products ProductSet) string {
	if e.rules.Policy == PolicyFirstMatch {
		for _, rule := range e.rules.NormalShip {
			if rule.Match(f, products) {
				return rule.Category
			}
		}
		return models.CategoryGeneral
	}

	result := models.CategoryGeneral
	for _, rule := range e.rules.NormalShip {
		if rule.Match(f, products) {
			result = rule.Category
		}
	}
	return result
}

// Explainer is implemented by classifiers that can name the rules behind a result.
type Explainer interface {
	Explain(record models.TransactionRecord, products ProductSet) []string
}

// Explain lists the names of the 정상출고 rules that match record, in table order.
// It does not affect Classify.
func (e *Engine) Explain(record models.TransactionRecord, products ProductSet) []string {
	f := prepare(record)
	var matched []string
	for _, rule := range e.rules.NormalShip {
		if rule.Match(f, products) {
			matched = append(matched, rule.Name)
		}
	}
	return matched
}
