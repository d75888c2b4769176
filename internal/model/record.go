package model

import "strconv"

// Record is one normalized row of the production table
type Record struct {
	Row             int      `json:"row"`                        // 0-based row index in the sheet
	DieNumber       int64    `json:"die_number"`                 // Required
	DieName         string   `json:"die_name"`                   // Required, non-blank
	ProductionRate  *float64 `json:"production_rate,omitempty"`  // nil when the cell is not numeric
	RecoveryPercent *float64 `json:"recovery_percent,omitempty"` // nil when the cell is not numeric
	Speed           *float64 `json:"speed,omitempty"`            // nil when the cell is not numeric
	Remark          string   `json:"remark,omitempty"`           // Empty means no remark

	// Derived during the run
	Family         string `json:"family,omitempty"`          // Empty when no keyword matched
	DepartmentCode *int   `json:"department_code,omitempty"` // nil when the remark is not mapped
	DepartmentName string `json:"department_name,omitempty"` // Empty when the code is not mapped
	FlagReason     string `json:"flag_reason,omitempty"`     // Empty when the record passed
}

// Value returns the record's value for a metric, or nil
func (r *Record) Value(m Metric) *float64 {
	switch m {
	case MetricProductionRate:
		return r.ProductionRate
	case MetricRecoveryPercent:
		return r.RecoveryPercent
	case MetricSpeed:
		return r.Speed
	default:
		return nil
	}
}

// Flagged reports whether the record carries a flag reason
func (r *Record) Flagged() bool {
	return r.FlagReason != ""
}

// BatchMeta is sheet-level metadata shared by every record of a run
type BatchMeta struct {
	Date        string `json:"date"`
	MachineType string `json:"machine_type"`
	Operator    string `json:"operator"`
	Supervisor  string `json:"supervisor"`
}

// FlaggedRow is one line of the final report
type FlaggedRow struct {
	Date           string `json:"date"`
	MachineType    string `json:"machine_type"`
	DieNumber      int64  `json:"die_number"`
	DieName        string `json:"die_name"`
	FlagReason     string `json:"flag_reason"`
	Operator       string `json:"operator"`
	Supervisor     string `json:"supervisor"`
	Remark         string `json:"remark"`
	DepartmentName string `json:"department_name"`
}

// ReportColumns are the report headers, in output order
var ReportColumns = []string{
	"Date", "Press", "Die Number", "Profile Name", "Flagging Reason",
	"Operator Name", "Supervisor Name", "Remark", "Department",
}

// Cells returns the row in ReportColumns order
func (f FlaggedRow) Cells() []string {
	return []string{
		f.Date,
		f.MachineType,
		strconv.FormatInt(f.DieNumber, 10),
		f.DieName,
		f.FlagReason,
		f.Operator,
		f.Supervisor,
		f.Remark,
		f.DepartmentName,
	}
}
