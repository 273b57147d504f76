package bot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"habit-planner/internal/model"
)

func isSkipInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == "-" || value == strings.ToLower(btnSkip) || value == "skip"
}

// isDoneInput ends a list stage. Skip counts as done.
func isDoneInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnDone) || value == "done" || isSkipInput(text)
}

func isClearInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnClear) || value == "clear"
}

// parseListLines splits a message into one entry per non-empty line,
// dropping leading bullets.
func parseListLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "-*•·")
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseShoppingItem reads "name qty price"; the name may contain spaces and
// numbers accept a decimal comma.
func parseShoppingItem(line string) (model.ShoppingItem, error) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return model.ShoppingItem{}, fmt.Errorf("%q: expected name, quantity and price", line)
	}
	n := len(parts)
	qty, err := parseAmount(parts[n-2])
	if err != nil || qty <= 0 {
		return model.ShoppingItem{}, fmt.Errorf("%q: quantity must be a positive number", line)
	}
	price, err := parseAmount(parts[n-1])
	if err != nil || price < 0 {
		return model.ShoppingItem{}, fmt.Errorf("%q: price must be a number", line)
	}
	return model.ShoppingItem{Name: strings.Join(parts[:n-2], " "), Quantity: qty, UnitPrice: price}, nil
}

func parseAmount(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel"
}

func typeButton(t model.TaskType) string {
	return t.Icon + " " + t.Label
}

// typeFromInput accepts a keyboard button, a label or a type key.
func typeFromInput(text string) (model.TaskType, bool) {
	value := strings.TrimSpace(text)
	for _, t := range model.TaskTypes {
		if value == typeButton(t) || strings.EqualFold(value, t.Label) || strings.EqualFold(value, t.Key) {
			return t, true
		}
	}
	return model.TaskType{}, false
}

func frequencyButton(f model.Frequency, taskType string) string {
	switch f {
	case model.FrequencyOnce:
		return "Once"
	case model.FrequencyDaily:
		return "Every day"
	case model.FrequencyWeekly:
		if taskType == model.TypeShopping {
			return "Every 8 days"
		}
		return "Every week"
	case model.FrequencyBiweekly:
		return "Every 15 days"
	case model.FrequencySpecificDays:
		return "Specific days"
	case model.FrequencyMonthly:
		return "Every month"
	case model.FrequencyYearly:
		return "Every year"
	default:
		return string(f)
	}
}

func frequencyFromInput(text string) (model.Frequency, error) {
	value := strings.TrimSpace(text)
	for _, f := range model.Frequencies {
		if strings.EqualFold(value, frequencyButton(f, "")) || strings.EqualFold(value, frequencyButton(f, model.TypeShopping)) {
			return f, nil
		}
	}
	if value == "" {
		return "", fmt.Errorf("frequency is required")
	}
	return model.ParseFrequency(value)
}

// parseDateInput accepts YYYY-MM-DD, "today" and "tomorrow".
func parseDateInput(text string, now time.Time) (string, error) {
	value := strings.TrimSpace(strings.ToLower(text))
	switch value {
	case strings.ToLower(btnToday):
		return model.FormatDate(now), nil
	case strings.ToLower(btnTomor):
		return model.FormatDate(now.AddDate(0, 0, 1)), nil
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return "", err
	}
	return model.FormatDate(d), nil
}

var weekdayNames = map[string]int{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

// parseWeekdays reads names or indices (0 = Sunday) separated by spaces or
// commas and returns them sorted without duplicates.
func parseWeekdays(text string) ([]int, error) {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("pick at least one day")
	}

	seen := make(map[int]bool)
	var days []int
	for _, f := range fields {
		d, ok := weekdayNames[f]
		if !ok {
			n, err := strconv.Atoi(f)
			if err != nil || n < 0 || n > 6 {
				return nil, fmt.Errorf("unknown day %q", f)
			}
			d = n
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days, nil
}

var fieldLabels = map[string]string{
	"muscleGroup":  "Muscle group",
	"exerciseType": "Exercise type",
}

func fieldLabel(name string) string {
	if label, ok := fieldLabels[name]; ok {
		return label
	}
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

var colorDots = map[string]string{
	"#FFEB3B": "🟡", "#FF8A80": "🔴", "#80D8FF": "🔵", "#CCFF90": "🟢", "#CFD8DC": "⚪", "#FFD180": "🟠",
	"#5D4037": "🟤", "#1A237E": "🔵", "#B71C1C": "🔴", "#1B5E20": "🟢", "#263238": "⚫", "#4A148C": "🟣",
}

func colorDot(hex string) string {
	if dot, ok := colorDots[strings.ToUpper(hex)]; ok {
		return dot
	}
	return "▪️"
}

// colorFromInput finds the palette entry named in text.
func colorFromInput(text string, palette []string) (string, bool) {
	value := strings.ToUpper(strings.TrimSpace(text))
	for _, c := range palette {
		if strings.Contains(value, c) {
			return c, true
		}
	}
	return "", false
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func refData(prefix, date string, index int) string {
	return fmt.Sprintf("%s%s:%d", prefix, date, index)
}

func parseRef(data, prefix string) (taskRef, error) {
	date, rawIdx, ok := strings.Cut(strings.TrimPrefix(data, prefix), ":")
	if !ok {
		return taskRef{}, fmt.Errorf("malformed callback %q", data)
	}
	if _, err := model.ParseDate(date); err != nil {
		return taskRef{}, err
	}
	index, err := strconv.Atoi(rawIdx)
	if err != nil || index < 0 {
		return taskRef{}, fmt.Errorf("malformed callback %q", data)
	}
	return taskRef{date: date, index: index}, nil
}

// parseSubtaskRef reads "sub:<date>:<index>:<subtask id>".
func parseSubtaskRef(data string) (taskRef, string, error) {
	rest := strings.TrimPrefix(data, cbSubtaskPrefix)
	date, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return taskRef{}, "", fmt.Errorf("malformed callback %q", data)
	}
	rawIdx, subID, ok := strings.Cut(rest, ":")
	if !ok || subID == "" {
		return taskRef{}, "", fmt.Errorf("malformed callback %q", data)
	}
	ref, err := parseRef(date+":"+rawIdx, "")
	if err != nil {
		return taskRef{}, "", err
	}
	return ref, subID, nil
}
