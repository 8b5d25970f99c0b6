package action

import "testing"

func TestClassifyTotality(t *testing.T) {
	for _, kind := range Kinds() {
		c := Classify(kind)
		if c.Category == "" || c.Severity == "" {
			t.Errorf("Classify(%s) returned incomplete classification", kind)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for _, kind := range Kinds() {
		first := Classify(kind)
		second := Classify(kind)
		if first != second {
			t.Errorf("Classify(%s) not deterministic: %+v vs %+v", kind, first, second)
		}
	}
}

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		kind       Kind
		category   Category
		severity   Severity
		reversible bool
	}{
		{KindCreate, CategoryObject, SeverityMedium, true},
		{KindDelete, CategoryObject, SeverityHigh, true},
		{KindCut, CategoryObject, SeverityHigh, true},
		{KindCopy, CategoryObject, SeverityLow, false},
		{KindMove, CategoryLayout, SeverityMedium, true},
		{KindResize, CategoryLayout, SeverityMedium, true},
		{KindRotate, CategoryLayout, SeverityMedium, true},
		{KindGroup, CategoryLayout, SeverityMedium, true},
		{KindUngroup, CategoryLayout, SeverityMedium, true},
		{KindStyle, CategoryStyle, SeverityMedium, true},
		{KindUndo, CategorySystem, SeverityLow, false},
		{KindRedo, CategorySystem, SeverityLow, false},
		{KindBatch, CategorySystem, SeverityMedium, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			c := Classify(tt.kind)
			if c.Category != tt.category {
				t.Errorf("category = %s, want %s", c.Category, tt.category)
			}
			if c.Severity != tt.severity {
				t.Errorf("severity = %s, want %s", c.Severity, tt.severity)
			}
			if c.Reversible != tt.reversible {
				t.Errorf("reversible = %v, want %v", c.Reversible, tt.reversible)
			}
		})
	}
}

func TestClassifyUnknownFallback(t *testing.T) {
	for _, kind := range []Kind{KindUnknown, Kind("checkpoint"), Kind("teleport")} {
		c := Classify(kind)
		if c.Category != CategorySystem {
			t.Errorf("Classify(%q).Category = %s, want system", kind, c.Category)
		}
		if c.Severity != SeverityLow {
			t.Errorf("Classify(%q).Severity = %s, want low", kind, c.Severity)
		}
		if c.Reversible {
			t.Errorf("Classify(%q).Reversible = true, want false", kind)
		}
	}
}

func TestKindIsValid(t *testing.T) {
	for _, kind := range Kinds() {
		if !kind.IsValid() {
			t.Errorf("%s should be valid", kind)
		}
	}
	if Kind("teleport").IsValid() {
		t.Error("unmapped kind should not be valid")
	}
}
