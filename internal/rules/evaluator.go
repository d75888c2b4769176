package rules

import (
	"fmt"
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
)

// Flag messages for records that could not be checked against thresholds
const (
	MsgMachineTypeNotIdentified = "Machine type not identified"
	MsgFamilyNotFound           = "Die family not found"
	MsgNoRulesForFamily         = "No rules defined for family: "
)

// MachineType identifies which rule table applies to a sheet
type MachineType int

const (
	MachineUnknown MachineType = iota
	MachineType1
	MachineType2
)

func (m MachineType) String() string {
	switch m {
	case MachineType1:
		return "machine_type_1"
	case MachineType2:
		return "machine_type_2"
	default:
		return "unknown"
	}
}

// State is the terminal state of one evaluation
type State string

const (
	StateMachineUnidentified State = "machine_type_unidentified"
	StateFamilyNotFound      State = "family_not_found"
	StateNoRuleSet           State = "no_ruleset_for_family"
	StateEvaluated           State = "evaluated"
)

// Outcome is the result of evaluating one record
type Outcome struct {
	State      State
	Machine    MachineType
	RuleKey    string         // Family after machine-specific merging
	Violations []model.Metric // Metrics below their limit, in evaluation order
	Reasons    []string
}

// Reason joins all reasons with " and ". Empty means the record passed.
func (o Outcome) Reason() string {
	return strings.Join(o.Reasons, " and ")
}

// Evaluator applies machine-specific thresholds to records
type Evaluator struct {
	type1  model.MachineRules
	type2  model.MachineRules
	merges mergeIndex // Applied to machine type 1 only
}

// NewEvaluator creates an evaluator over a rule store snapshot
func NewEvaluator(store *model.RuleStore) *Evaluator {
	return &Evaluator{
		type1:  store.MachineType1,
		type2:  store.MachineType2,
		merges: newMergeIndex(MachineType1Merges),
	}
}

// MachineType resolves the raw machine cell of a sheet. Token 1 is tested
// first, so a value containing both tokens resolves to machine type 1.
func (e *Evaluator) MachineType(raw string) MachineType {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	if containsToken(norm, e.type1.Token) {
		return MachineType1
	}
	if containsToken(norm, e.type2.Token) {
		return MachineType2
	}
	return MachineUnknown
}

func containsToken(norm, token string) bool {
	token = strings.ToUpper(strings.TrimSpace(token))
	return token != "" && strings.Contains(norm, token)
}

// Evaluate checks a classified record against the rules of its machine type
func (e *Evaluator) Evaluate(rec *model.Record, machineType string) Outcome {
	out := Outcome{Machine: e.MachineType(machineType)}

	var table model.RuleTable
	switch out.Machine {
	case MachineType1:
		out.RuleKey = e.merges.key(rec.Family)
		table = e.type1.Rules
	case MachineType2:
		out.RuleKey = rec.Family
		table = e.type2.Rules
	default:
		out.State = StateMachineUnidentified
		out.Reasons = []string{fmt.Sprintf("%s: '%s'", MsgMachineTypeNotIdentified, machineType)}
		return out
	}

	ruleset, ok := table[out.RuleKey]
	if !ok || out.RuleKey == "" {
		if out.RuleKey != "" {
			out.State = StateNoRuleSet
			out.Reasons = []string{MsgNoRulesForFamily + out.RuleKey}
		} else {
			out.State = StateFamilyNotFound
			out.Reasons = []string{MsgFamilyNotFound}
		}
		return out
	}

	out.State = StateEvaluated
	for _, m := range model.Metrics {
		threshold := ruleset.Threshold(m)
		value := rec.Value(m)
		if threshold == nil || value == nil {
			continue
		}
		if *value < threshold.Limit {
			out.Violations = append(out.Violations, m)
			out.Reasons = append(out.Reasons, threshold.Message)
		}
	}
	return out
}
