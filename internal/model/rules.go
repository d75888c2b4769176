package model

// Metric identifies one measured value of a record
type Metric string

const (
	MetricProductionRate  Metric = "production_rate"
	MetricRecoveryPercent Metric = "recovery_percent"
	MetricSpeed           Metric = "speed"
)

// Metrics lists every metric in evaluation order
var Metrics = []Metric{MetricProductionRate, MetricRecoveryPercent, MetricSpeed}

// RuleThreshold is a numeric floor and the message emitted when a metric falls below it
type RuleThreshold struct {
	Limit   float64 `yaml:"limit" json:"limit"`
	Message string  `yaml:"message" json:"message"`
}

// FamilyRuleSet holds the thresholds that apply to one family.
// A nil threshold means the metric is not checked.
type FamilyRuleSet struct {
	ProductionRate  *RuleThreshold `yaml:"production_rate,omitempty" json:"production_rate,omitempty"`
	RecoveryPercent *RuleThreshold `yaml:"recovery_percent,omitempty" json:"recovery_percent,omitempty"`
	Speed           *RuleThreshold `yaml:"speed,omitempty" json:"speed,omitempty"`
}

// Threshold returns the threshold for a metric, or nil
func (s FamilyRuleSet) Threshold(m Metric) *RuleThreshold {
	switch m {
	case MetricProductionRate:
		return s.ProductionRate
	case MetricRecoveryPercent:
		return s.RecoveryPercent
	case MetricSpeed:
		return s.Speed
	default:
		return nil
	}
}

// RuleTable maps a canonical family name to its rule set
type RuleTable map[string]FamilyRuleSet

// MachineRules is the rule table of one machine type together with the
// token that identifies that machine in a sheet (e.g. "P1")
type MachineRules struct {
	Token string    `yaml:"token" json:"token"`
	Rules RuleTable `yaml:"rules" json:"rules"`
}

// KeywordRule maps a die name keyword to a family
type KeywordRule struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Family  string `yaml:"family" json:"family"`
}

// KeywordTable is ordered from most specific to most general.
// The first matching keyword wins.
type KeywordTable []KeywordRule

// DepartmentCodeMap maps a department code to its name
type DepartmentCodeMap map[int]string

// RemarkCodeMap maps a folded remark to a department code.
// It is built fresh from each workbook.
type RemarkCodeMap map[string]int

// RuleStore is the complete rule configuration for one pipeline run
type RuleStore struct {
	MachineType1 MachineRules      `yaml:"machine_type_1" json:"machine_type_1"`
	MachineType2 MachineRules      `yaml:"machine_type_2" json:"machine_type_2"`
	Keywords     KeywordTable      `yaml:"keywords" json:"keywords"`
	Departments  DepartmentCodeMap `yaml:"departments" json:"departments"`
}
