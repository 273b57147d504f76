package pomodoro

import (
	"errors"
	"testing"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		total int
		want  Plan
	}{
		{60, Plan{Sessions: 2, FocusMinutes: 25, BreakMinutes: 5}},
		{80, Plan{Sessions: 2, FocusMinutes: 35, BreakMinutes: 5}},
		{30, Plan{Sessions: 1, FocusMinutes: 25, BreakMinutes: 5}},
		{90, Plan{Sessions: 3, FocusMinutes: 25, BreakMinutes: 5}},
		{120, Plan{Sessions: 4, FocusMinutes: 25, BreakMinutes: 5}},
		// 3×28 is 3 away, 4×20 is 5 away.
		{100, Plan{Sessions: 3, FocusMinutes: 28, BreakMinutes: 5}},
		// 1×45 is 20 away, 2×20 only 5.
		{50, Plan{Sessions: 2, FocusMinutes: 20, BreakMinutes: 5}},
		{240, Plan{Sessions: 8, FocusMinutes: 25, BreakMinutes: 5}},
		// Nothing reaches 15 minutes: keep a single short session.
		{12, Plan{Sessions: 1, FocusMinutes: 7, BreakMinutes: 5}},
	}
	for _, tt := range tests {
		got, err := Suggest(tt.total)
		if err != nil {
			t.Errorf("Suggest(%d) error: %v", tt.total, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Suggest(%d) = %+v, want %+v", tt.total, got, tt.want)
		}
	}
}

func TestSuggestOverrideDiffersFromScan(t *testing.T) {
	// Without the carve-out 79 and 81 follow the scan.
	got, err := Suggest(81)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sessions != 3 || got.FocusMinutes != 22 {
		t.Errorf("Suggest(81) = %+v", got)
	}
}

func TestSuggestTieKeepsFirst(t *testing.T) {
	// 40: 1×35 and 2×15 are both 10 away; fewer sessions win.
	got, _ := Suggest(40)
	if got.Sessions != 1 || got.FocusMinutes != 35 {
		t.Errorf("Suggest(40) = %+v", got)
	}
	// 110: 4×22 (3) and 3×31 (6); 5×17 (8). Closest is 4.
	got, _ = Suggest(110)
	if got.Sessions != 4 {
		t.Errorf("Suggest(110) = %+v", got)
	}
}

func TestSuggestRejectsInvalid(t *testing.T) {
	for _, total := range []int{0, -5, 3, 5} {
		if _, err := Suggest(total); !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("Suggest(%d) err = %v, want ErrInvalidBudget", total, err)
		}
	}
}

func TestSuggestInput(t *testing.T) {
	for _, in := range []string{"abc", "", "-5", "0", "12.5"} {
		if _, err := SuggestInput(in); !errors.Is(err, ErrInvalidBudget) {
			t.Errorf("SuggestInput(%q) err = %v", in, err)
		}
	}
	got, err := SuggestInput(" 60 ")
	if err != nil || got.FocusMinutes != 25 {
		t.Errorf("SuggestInput(60) = %+v, %v", got, err)
	}
}
