package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadStore reads a rule store from a YAML file. An empty path returns the
// built-in defaults. Sections missing from the file are taken from the
// defaults; sections present replace the default section as a whole.
func LoadStore(path string) (*model.RuleStore, error) {
	if path == "" {
		return DefaultStore(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	store, err := ParseStore(data)
	if err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return store, nil
}

// ParseStore decodes a YAML rule store and validates it
func ParseStore(data []byte) (*model.RuleStore, error) {
	var store model.RuleStore
	if err := yaml.Unmarshal(data, &store); err != nil {
		return nil, err
	}

	defaults := DefaultStore()
	if store.MachineType1.Token == "" && store.MachineType1.Rules == nil {
		store.MachineType1 = defaults.MachineType1
	}
	if store.MachineType2.Token == "" && store.MachineType2.Rules == nil {
		store.MachineType2 = defaults.MachineType2
	}
	if store.Keywords == nil {
		store.Keywords = defaults.Keywords
	}
	if store.Departments == nil {
		store.Departments = defaults.Departments
	}

	if err := Validate(&store); err != nil {
		return nil, err
	}
	return &store, nil
}

// SaveStore writes a rule store as YAML
func SaveStore(store *model.RuleStore, path string) error {
	data, err := yaml.Marshal(store)
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create rules dir: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}
	return nil
}

// Validate checks that a store can drive a pipeline run
func Validate(store *model.RuleStore) error {
	var errs []error

	t1 := strings.ToUpper(strings.TrimSpace(store.MachineType1.Token))
	t2 := strings.ToUpper(strings.TrimSpace(store.MachineType2.Token))
	if t1 == "" {
		errs = append(errs, errors.New("machine_type_1: token is empty"))
	}
	if t2 == "" {
		errs = append(errs, errors.New("machine_type_2: token is empty"))
	}
	if t1 != "" && t1 == t2 {
		errs = append(errs, fmt.Errorf("machine types share token %q", t1))
	}

	errs = append(errs, validateTable("machine_type_1", store.MachineType1.Rules)...)
	errs = append(errs, validateTable("machine_type_2", store.MachineType2.Rules)...)

	for i, kw := range store.Keywords {
		if strings.TrimSpace(kw.Keyword) == "" {
			errs = append(errs, fmt.Errorf("keywords[%d]: keyword is empty", i))
		}
		if strings.TrimSpace(kw.Family) == "" {
			errs = append(errs, fmt.Errorf("keywords[%d] (%s): family is empty", i, kw.Keyword))
		}
	}

	for code, name := range store.Departments {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("departments[%d]: name is empty", code))
		}
	}

	return errors.Join(errs...)
}

func validateTable(scope string, table model.RuleTable) []error {
	var errs []error
	for family, ruleset := range table {
		if strings.TrimSpace(family) == "" {
			errs = append(errs, fmt.Errorf("%s: empty family name", scope))
		}
		for _, m := range model.Metrics {
			t := ruleset.Threshold(m)
			if t != nil && strings.TrimSpace(t.Message) == "" {
				errs = append(errs, fmt.Errorf("%s: %s.%s: message is empty", scope, family, m))
			}
		}
	}
	return errs
}

// Clone returns a deep copy of a store. Pipelines hold clones so that
// edits to the source never leak into a running batch.
func Clone(store *model.RuleStore) *model.RuleStore {
	return &model.RuleStore{
		MachineType1: cloneMachine(store.MachineType1),
		MachineType2: cloneMachine(store.MachineType2),
		Keywords:     append(model.KeywordTable(nil), store.Keywords...),
		Departments:  cloneDepartments(store.Departments),
	}
}

func cloneMachine(m model.MachineRules) model.MachineRules {
	out := model.MachineRules{Token: m.Token}
	if m.Rules == nil {
		return out
	}
	out.Rules = make(model.RuleTable, len(m.Rules))
	for family, rs := range m.Rules {
		out.Rules[family] = model.FamilyRuleSet{
			ProductionRate:  cloneThreshold(rs.ProductionRate),
			RecoveryPercent: cloneThreshold(rs.RecoveryPercent),
			Speed:           cloneThreshold(rs.Speed),
		}
	}
	return out
}

func cloneThreshold(t *model.RuleThreshold) *model.RuleThreshold {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneDepartments(d model.DepartmentCodeMap) model.DepartmentCodeMap {
	if d == nil {
		return nil
	}
	out := make(model.DepartmentCodeMap, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Fingerprint returns a stable hash of a store's contents
func Fingerprint(store *model.RuleStore) (string, error) {
	data, err := yaml.Marshal(store)
	if err != nil {
		return "", fmt.Errorf("marshal rules: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
