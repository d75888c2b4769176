package rules

import (
	"strings"

	"github.com/ppiankov/pressflag/internal/model"
)

// DepartmentResolver resolves a remark to a department in two steps:
// remark to code through the workbook's mapping, code to name through
// the rule store.
type DepartmentResolver struct {
	remarks     model.RemarkCodeMap
	departments model.DepartmentCodeMap
}

// NewDepartmentResolver creates a resolver for one workbook
func NewDepartmentResolver(remarks model.RemarkCodeMap, departments model.DepartmentCodeMap) *DepartmentResolver {
	return &DepartmentResolver{
		remarks:     remarks,
		departments: departments,
	}
}

// Resolution is the result of resolving one remark
type Resolution struct {
	Code        *int
	Name        string
	UnknownCode bool // A code was found but no department carries it
}

// Resolve looks up a remark. Blank remarks are never looked up.
func (r *DepartmentResolver) Resolve(remark string) Resolution {
	key := FoldRemark(remark)
	if key == "" {
		return Resolution{}
	}

	code, ok := r.remarks[key]
	if !ok {
		return Resolution{}
	}

	res := Resolution{Code: &code}
	if name, ok := r.departments[code]; ok {
		res.Name = name
	} else {
		res.UnknownCode = true
	}
	return res
}

// Apply resolves the record's remark and stores the result on the record
func (r *DepartmentResolver) Apply(rec *model.Record) Resolution {
	res := r.Resolve(rec.Remark)
	rec.DepartmentCode = res.Code
	rec.DepartmentName = res.Name
	return res
}

// FoldRemark normalizes a remark for lookup
func FoldRemark(remark string) string {
	return strings.ToLower(strings.TrimSpace(remark))
}
