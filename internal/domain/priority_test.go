package domain

import "testing"

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{"critical", Critical},
		{"CRITICAL", Critical},
		{" High ", High},
		{"low", Low},
		{"normal", Normal},
		{"garbage", Normal},
		{"", Normal},
	}
	for _, tt := range tests {
		if got := ParsePriority(tt.in); got != tt.want {
			t.Errorf("ParsePriority(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPriorityStronger(t *testing.T) {
	if !Critical.Stronger(Normal) {
		t.Error("Critical should be stronger than Normal")
	}
	if Normal.Stronger(Critical) {
		t.Error("Normal should not be stronger than Critical")
	}
	if Low.Stronger(Low) {
		t.Error("a priority is never stronger than itself")
	}
}

func TestPriorityString(t *testing.T) {
	tests := map[Priority]string{
		Critical: "critical",
		High:     "high",
		Normal:   "normal",
		Low:      "low",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", p, got, want)
		}
	}
}
