package rules

import (
	"testing"

	"github.com/ppiankov/pressflag/internal/model"
)

func TestDepartmentResolver_Resolve(t *testing.T) {
	remarks := model.RemarkCodeMap{
		"die polish":    1,
		"operator late": 2,
		"new code":      9,
	}
	r := NewDepartmentResolver(remarks, DefaultStore().Departments)

	tests := []struct {
		name        string
		remark      string
		code        *int
		deptName    string
		unknownCode bool
	}{
		{"mapped", "die polish", intPtr(1), "Tool Room", false},
		{"folded", "  Operator LATE ", intPtr(2), "Production Department", false},
		{"absent", "absent", nil, "", false},
		{"blank", "   ", nil, "", false},
		{"code without department", "new code", intPtr(9), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.remark)

			switch {
			case tt.code == nil && res.Code != nil:
				t.Errorf("Expected nil code, got %d", *res.Code)
			case tt.code != nil && res.Code == nil:
				t.Errorf("Expected code %d, got nil", *tt.code)
			case tt.code != nil && *res.Code != *tt.code:
				t.Errorf("Expected code %d, got %d", *tt.code, *res.Code)
			}
			if res.Name != tt.deptName {
				t.Errorf("Expected department %q, got %q", tt.deptName, res.Name)
			}
			if res.UnknownCode != tt.unknownCode {
				t.Errorf("Expected unknownCode=%v, got %v", tt.unknownCode, res.UnknownCode)
			}
		})
	}
}

func TestDepartmentResolver_Apply(t *testing.T) {
	r := NewDepartmentResolver(model.RemarkCodeMap{"die polish": 1}, DefaultStore().Departments)

	rec := &model.Record{Remark: "Die Polish"}
	r.Apply(rec)
	if rec.DepartmentCode == nil || *rec.DepartmentCode != 1 || rec.DepartmentName != "Tool Room" {
		t.Errorf("Expected Tool Room (1), got %v %q", rec.DepartmentCode, rec.DepartmentName)
	}

	// A stale resolution is cleared
	rec.Remark = ""
	r.Apply(rec)
	if rec.DepartmentCode != nil || rec.DepartmentName != "" {
		t.Errorf("Expected cleared department, got %v %q", rec.DepartmentCode, rec.DepartmentName)
	}
}

func intPtr(v int) *int { return &v }
