package rules

import "github.com/ppiankov/pressflag/internal/model"

// DefaultStore returns the built-in rule store for the two presses.
// Callers get a fresh copy and may modify it freely.
func DefaultStore() *model.RuleStore {
	return &model.RuleStore{
		MachineType1: model.MachineRules{
			Token: "P1",
			Rules: defaultP1Rules(),
		},
		MachineType2: model.MachineRules{
			Token: "P2",
			Rules: defaultP2Rules(),
		},
		Keywords:    defaultKeywords(),
		Departments: defaultDepartments(),
	}
}

func defaultP1Rules() model.RuleTable {
	return model.RuleTable{
		"Equal Angle / Unequal Angle": {
			ProductionRate:  &model.RuleThreshold{Limit: 180, Message: "Production rate below 180 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4, Message: "Speed less than 4 mm"},
		},
		"Rectangular Tube": {
			ProductionRate:  &model.RuleThreshold{Limit: 220, Message: "Production rate below 220 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 5.5, Message: "Speed less than 5.5 mm"},
		},
		"Square Tube": {
			ProductionRate:  &model.RuleThreshold{Limit: 280, Message: "Production rate below 280 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 82, Message: "Recovery below 82%"},
			Speed:           &model.RuleThreshold{Limit: 5.5, Message: "Speed less than 5.5 mm"},
		},
		"Round Pipe": {
			ProductionRate:  &model.RuleThreshold{Limit: 230, Message: "Production rate below 230 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 78, Message: "Recovery below 78%"},
			Speed:           &model.RuleThreshold{Limit: 4.5, Message: "Speed less than 4.5 mm"},
		},
		"Single Track Top / Single Track Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 240, Message: "Production rate below 240 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 81, Message: "Recovery below 81%"},
			Speed:           &model.RuleThreshold{Limit: 5.0, Message: "Speed less than 5.0 mm"},
		},
		"Mini Dumal": {
			ProductionRate:  &model.RuleThreshold{Limit: 250, Message: "Production rate below 250 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 5.0, Message: "Speed less than 5.0 mm"},
		},
		"40 mm Clip": {
			ProductionRate:  &model.RuleThreshold{Limit: 230, Message: "Production rate below 230 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 79, Message: "Recovery below 79%"},
			Speed:           &model.RuleThreshold{Limit: 4.8, Message: "Speed less than 4.8 mm"},
		},
		"40 mm Outer": {
			ProductionRate:  &model.RuleThreshold{Limit: 260, Message: "Production rate below 260 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 5.0, Message: "Speed less than 5.0 mm"},
		},
		"40 mm Frame": {
			ProductionRate:  &model.RuleThreshold{Limit: 260, Message: "Production rate below 260 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 5.0, Message: "Speed less than 5.0 mm"},
		},
		"Two Track Top / Two Track Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 240, Message: "Production rate below 240 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.5, Message: "Speed less than 4.5 mm"},
		},
		"Handle / Interlock / Top Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 220, Message: "Production rate below 220 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.7, Message: "Speed less than 4.7 mm"},
		},
		"Three Track Top": {
			ProductionRate:  &model.RuleThreshold{Limit: 250, Message: "Production rate below 250 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.5, Message: "Speed less than 4.5 mm"},
		},
		"Three Track Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 330, Message: "Production rate below 330 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 82, Message: "Recovery below 82%"},
			Speed:           &model.RuleThreshold{Limit: 5.0, Message: "Speed less than 5.0 mm"},
		},
	}
}

func defaultP2Rules() model.RuleTable {
	return model.RuleTable{
		"Equal Angle / Unequal Angle": {
			ProductionRate:  &model.RuleThreshold{Limit: 550, Message: "Production rate below 550 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 5, Message: "Speed less than 5 mm"},
		},
		"Rectangular Tube": {
			ProductionRate:  &model.RuleThreshold{Limit: 300, Message: "Production rate below 300 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 3.5, Message: "Speed less than 3.5 mm"},
		},
		"Square Tube": {
			ProductionRate:  &model.RuleThreshold{Limit: 400, Message: "Production rate below 400 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 3.5, Message: "Speed less than 3.5 mm"},
		},
		"Round Pipe": {
			ProductionRate:  &model.RuleThreshold{Limit: 450, Message: "Production rate below 450 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4, Message: "Speed less than 4 mm"},
		},
		"Handle": {
			ProductionRate:  &model.RuleThreshold{Limit: 450, Message: "Production rate below 450 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 79, Message: "Recovery below 79%"},
			Speed:           &model.RuleThreshold{Limit: 3.8, Message: "Speed less than 3.8 mm"},
		},
		"Interlock": {
			ProductionRate:  &model.RuleThreshold{Limit: 450, Message: "Production rate below 450 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 79, Message: "Recovery below 79%"},
			Speed:           &model.RuleThreshold{Limit: 3.7, Message: "Speed less than 3.7 mm"},
		},
		"Top Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 450, Message: "Production rate below 450 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 79, Message: "Recovery below 79%"},
			Speed:           &model.RuleThreshold{Limit: 3.8, Message: "Speed less than 3.8 mm"},
		},
		"Glass Meeting": {
			ProductionRate:  &model.RuleThreshold{Limit: 450, Message: "Production rate below 450 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 79, Message: "Recovery below 79%"},
			Speed:           &model.RuleThreshold{Limit: 3.5, Message: "Speed less than 3.5 mm"},
		},
		"Bearing Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 450, Message: "Production rate below 450 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 79, Message: "Recovery below 79%"},
			Speed:           &model.RuleThreshold{Limit: 3.4, Message: "Speed less than 3.4 mm"},
		},
		"Single Track Top": {
			ProductionRate:  &model.RuleThreshold{Limit: 525, Message: "Production rate below 525 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 5.5, Message: "Speed less than 5.5 mm"},
		},
		"Single Track Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 525, Message: "Production rate below 525 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 5.25, Message: "Speed less than 5.25 mm"},
		},
		"Two Track Top": {
			ProductionRate:  &model.RuleThreshold{Limit: 525, Message: "Production rate below 525 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 5.0, Message: "Speed less than 5.0 mm"},
		},
		"Two Track Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 525, Message: "Production rate below 525 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.9, Message: "Speed less than 4.9 mm"},
		},
		"Three Track Top": {
			ProductionRate:  &model.RuleThreshold{Limit: 525, Message: "Production rate below 525 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.5, Message: "Speed less than 4.5 mm"},
		},
		"Three Track Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 525, Message: "Production rate below 525 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.5, Message: "Speed less than 4.5 mm"},
		},
		"Four Track Top": {
			ProductionRate:  &model.RuleThreshold{Limit: 525, Message: "Production rate below 525 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.5, Message: "Speed less than 4.5 mm"},
		},
		"Four Track Bottom": {
			ProductionRate:  &model.RuleThreshold{Limit: 525, Message: "Production rate below 525 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.5, Message: "Speed less than 4.5 mm"},
		},
		"Dumal / Dumal 2 Track / Dumal 3 Track / Dumal 4 Track": {
			ProductionRate:  &model.RuleThreshold{Limit: 470, Message: "Production rate below 470 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 3.5, Message: "Speed less than 3.5 mm"},
		},
		"Curtain Wall": {
			ProductionRate:  &model.RuleThreshold{Limit: 500, Message: "Production rate below 500 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.0, Message: "Speed less than 4.0 mm"},
		},
		"52 MM / 42 MM": {
			ProductionRate:  &model.RuleThreshold{Limit: 520, Message: "Production rate below 520 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 4.0, Message: "Speed less than 4.0 mm"},
		},
		"Mini Dumal": {
			ProductionRate:  &model.RuleThreshold{Limit: 400, Message: "Production rate below 400 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 3.0, Message: "Speed less than 3.0 mm"},
		},
		"Dumal Shutter": {
			ProductionRate:  &model.RuleThreshold{Limit: 380, Message: "Production rate below 380 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 3.0, Message: "Speed less than 3.0 mm"},
		},
		"40 MM Outer Clip Mullion": {
			ProductionRate:  &model.RuleThreshold{Limit: 280, Message: "Production rate below 280 Prod/hour"},
			RecoveryPercent: &model.RuleThreshold{Limit: 80, Message: "Recovery below 80%"},
			Speed:           &model.RuleThreshold{Limit: 5.7, Message: "Speed less than 5.7 mm"},
		},
	}
}

// defaultKeywords is ordered from most specific to most general.
// "mini dumal", "dumal shutter" and the numbered dumal tracks must stay
// ahead of "dumal".
func defaultKeywords() model.KeywordTable {
	return model.KeywordTable{
		{Keyword: "40 mm outer clip mullion", Family: "40 MM Outer Clip Mullion"},
		{Keyword: "mini dumal", Family: "Mini Dumal"},
		{Keyword: "dumal shutter", Family: "Dumal Shutter"},
		{Keyword: "dumal 2 track", Family: "Dumal / Dumal 2 Track / Dumal 3 Track / Dumal 4 Track"},
		{Keyword: "dumal 3 track", Family: "Dumal / Dumal 2 Track / Dumal 3 Track / Dumal 4 Track"},
		{Keyword: "dumal 4 track", Family: "Dumal / Dumal 2 Track / Dumal 3 Track / Dumal 4 Track"},
		{Keyword: "dumal", Family: "Dumal / Dumal 2 Track / Dumal 3 Track / Dumal 4 Track"},
		{Keyword: "glass meeting", Family: "Glass Meeting"},
		{Keyword: "bearing bottom", Family: "Bearing Bottom"},
		{Keyword: "four track top", Family: "Four Track Top"},
		{Keyword: "four track bottom", Family: "Four Track Bottom"},
		{Keyword: "curtain wall", Family: "Curtain Wall"},
		{Keyword: "52 mm", Family: "52 MM / 42 MM"},
		{Keyword: "42 mm", Family: "52 MM / 42 MM"},
		{Keyword: "three track top", Family: "Three Track Top"},
		{Keyword: "three track bottom", Family: "Three Track Bottom"},
		{Keyword: "two track top", Family: "Two Track Top"},
		{Keyword: "two track bottom", Family: "Two Track Bottom"},
		{Keyword: "single track top", Family: "Single Track Top"},
		{Keyword: "single track bottom", Family: "Single Track Bottom"},
		{Keyword: "handle", Family: "Handle"},
		{Keyword: "interlock", Family: "Interlock"},
		{Keyword: "top bottom", Family: "Top Bottom"},
		{Keyword: "equal angle", Family: "Equal Angle / Unequal Angle"},
		{Keyword: "unequal angle", Family: "Equal Angle / Unequal Angle"},
		{Keyword: "r.t", Family: "Rectangular Tube"},
		{Keyword: "rectangular tube", Family: "Rectangular Tube"},
		{Keyword: "s.t", Family: "Square Tube"},
		{Keyword: "square tube", Family: "Square Tube"},
		{Keyword: "round tube", Family: "Round Pipe"},
		{Keyword: "round pipe", Family: "Round Pipe"},
		{Keyword: "40 mm clip", Family: "40 mm Clip"},
		{Keyword: "40 mm outer", Family: "40 mm Outer"},
		{Keyword: "40 mm frame", Family: "40 mm Frame"},
	}
}

func defaultDepartments() model.DepartmentCodeMap {
	return model.DepartmentCodeMap{
		0: "No Department",
		1: "Tool Room",
		2: "Production Department",
		3: "Tool Room and Production Department",
		4: "Foundry",
		5: "Maintainance",
	}
}
