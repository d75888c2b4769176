package model

import "time"

// Result is the outcome of one pipeline run over one production sheet
type Result struct {
	RunID       string       `json:"run_id"`
	Source      string       `json:"source,omitempty"`       // Workbook path, if any
	SheetName   string       `json:"sheet_name,omitempty"`   // Production sheet that was analyzed
	MappingName string       `json:"mapping_name,omitempty"` // Remark mapping sheet, if found
	AnalyzedAt  time.Time    `json:"analyzed_at"`
	Meta        BatchMeta    `json:"meta"`
	Records     []Record     `json:"records"` // Every normalized record, flagged or not
	Flagged     []FlaggedRow `json:"flagged"` // Report rows for flagged records only
	Diagnostics Diagnostics  `json:"diagnostics"`
	Warnings    []Warning    `json:"warnings,omitempty"`
	Cached      bool         `json:"-"`
}

// Diagnostics summarizes what happened to the rows of a sheet
type Diagnostics struct {
	DataRows          int `json:"data_rows"`          // Non-empty rows below the header
	RejectedRows      int `json:"rejected_rows"`      // Rows dropped for a bad die number or name
	Records           int `json:"records"`            // Rows that became records
	FlaggedRecords    int `json:"flagged_records"`    // Records with a flag reason
	UnclassifiedRows  int `json:"unclassified_rows"`  // Records whose die name matched no keyword
	RemarkMappings    int `json:"remark_mappings"`    // Entries in the remark code map
	UnresolvedRemarks int `json:"unresolved_remarks"` // Non-empty remarks with no code
	UnknownDeptCodes  int `json:"unknown_dept_codes"` // Records whose code has no department
}

// WarningKind classifies a non-fatal condition
type WarningKind string

const (
	WarningRemarkMarkerFallback  WarningKind = "remark_marker_fallback"
	WarningMappingSheetMissing   WarningKind = "mapping_sheet_missing"
	WarningUnknownDepartmentCode WarningKind = "unknown_department_code"
	WarningMetadataMissing       WarningKind = "metadata_missing"
)

// Warning is a side-channel diagnostic reported alongside a successful result
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// HasWarning reports whether the result carries a warning of the given kind
func (r *Result) HasWarning(kind WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
