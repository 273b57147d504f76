package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Frequency is the recurrence rule attached to a task template.
type Frequency string

const (
	FrequencyOnce         Frequency = "once"
	FrequencyDaily        Frequency = "daily"
	FrequencyWeekly       Frequency = "weekly"
	FrequencyBiweekly     Frequency = "biweekly"
	FrequencySpecificDays Frequency = "specificDays"
	FrequencyMonthly      Frequency = "monthly"
	FrequencyYearly       Frequency = "yearly"
)

// Frequencies lists every supported rule in display order.
var Frequencies = []Frequency{
	FrequencyOnce,
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyBiweekly,
	FrequencySpecificDays,
	FrequencyMonthly,
	FrequencyYearly,
}

// ParseFrequency accepts an empty value as "once".
func ParseFrequency(raw string) (Frequency, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return FrequencyOnce, nil
	}
	for _, f := range Frequencies {
		if strings.EqualFold(value, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown frequency %q", raw)
}

// Subtask is a checklist entry inside a task.
type Subtask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ShoppingItem belongs to shopping tasks only.
type ShoppingItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"qty"`
	UnitPrice float64 `json:"price"`
}

// Task is both the user-authored template and a dated instance of it.
// Instances are independent copies; only Done changes after expansion.
type Task struct {
	Type         string
	Title        string
	Description  string
	Time         string
	Color        string
	Frequency    Frequency
	DaysOfWeek   []int
	Subtasks     []Subtask
	ShoppingList []ShoppingItem
	Done         bool
	// SeriesID is shared by every instance produced by one expansion.
	SeriesID string
	// Fields holds type-specific values (age, distance, book, ...).
	Fields map[string]string
}

// SeriesKey is the structural identity used to match repetitions.
type SeriesKey struct {
	Type        string
	Title       string
	Time        string
	Description string
}

func (t Task) Key() SeriesKey {
	return SeriesKey{Type: t.Type, Title: t.Title, Time: t.Time, Description: t.Description}
}

// SameAs reports structural equality.
func (t Task) SameAs(other Task) bool {
	return t.Key() == other.Key()
}

// Field returns a type-specific value.
func (t Task) Field(name string) string {
	if t.Fields == nil {
		return ""
	}
	return t.Fields[name]
}

// SetField sets a type-specific value, allocating the map on first use.
func (t *Task) SetField(name, value string) {
	if t.Fields == nil {
		t.Fields = make(map[string]string)
	}
	t.Fields[name] = value
}

// DisplayColor falls back to the type's default colour.
func (t Task) DisplayColor() string {
	if c := strings.TrimSpace(t.Color); c != "" {
		return c
	}
	return LookupType(t.Type).Color
}

// DisplayTitle falls back to the type label when the title is empty.
func (t Task) DisplayTitle() string {
	if title := strings.TrimSpace(t.Title); title != "" {
		return title
	}
	return LookupType(t.Type).Label
}

func (t Task) ShoppingTotal() float64 {
	var total float64
	for _, item := range t.ShoppingList {
		total += item.Quantity * item.UnitPrice
	}
	return total
}

// Clone returns a deep copy so instances never share slices or maps.
func (t Task) Clone() Task {
	out := t
	if t.DaysOfWeek != nil {
		out.DaysOfWeek = append([]int(nil), t.DaysOfWeek...)
	}
	if t.Subtasks != nil {
		out.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	if t.ShoppingList != nil {
		out.ShoppingList = append([]ShoppingItem(nil), t.ShoppingList...)
	}
	if t.Fields != nil {
		out.Fields = make(map[string]string, len(t.Fields))
		for k, v := range t.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

type taskDocument struct {
	Type         string         `json:"type"`
	Title        string         `json:"title,omitempty"`
	Description  string         `json:"description,omitempty"`
	Time         string         `json:"time,omitempty"`
	Color        string         `json:"color,omitempty"`
	Frequency    Frequency      `json:"frequency,omitempty"`
	DaysOfWeek   []int          `json:"daysOfWeek,omitempty"`
	Subtasks     []Subtask      `json:"subtasks,omitempty"`
	ShoppingList []ShoppingItem `json:"shoppingList,omitempty"`
	Done         bool           `json:"done"`
	SeriesID     string         `json:"seriesId,omitempty"`
}

var documentKeys = map[string]bool{
	"type": true, "title": true, "description": true, "time": true, "color": true,
	"frequency": true, "daysOfWeek": true, "subtasks": true, "shoppingList": true,
	"done": true, "seriesId": true,
}

// MarshalJSON writes type-specific fields inline next to the known ones.
func (t Task) MarshalJSON() ([]byte, error) {
	doc, err := json.Marshal(taskDocument{
		Type:         t.Type,
		Title:        t.Title,
		Description:  t.Description,
		Time:         t.Time,
		Color:        t.Color,
		Frequency:    t.Frequency,
		DaysOfWeek:   t.DaysOfWeek,
		Subtasks:     t.Subtasks,
		ShoppingList: t.ShoppingList,
		Done:         t.Done,
		SeriesID:     t.SeriesID,
	})
	if err != nil || len(t.Fields) == 0 {
		return doc, err
	}

	merged := make(map[string]json.RawMessage, len(t.Fields)+8)
	if err := json.Unmarshal(doc, &merged); err != nil {
		return nil, err
	}
	for k, v := range t.Fields {
		if documentKeys[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// UnmarshalJSON keeps unknown string and number members as Fields.
func (t *Task) UnmarshalJSON(data []byte) error {
	var doc taskDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	*t = Task{
		Type:         doc.Type,
		Title:        doc.Title,
		Description:  doc.Description,
		Time:         doc.Time,
		Color:        doc.Color,
		Frequency:    doc.Frequency,
		DaysOfWeek:   doc.DaysOfWeek,
		Subtasks:     doc.Subtasks,
		ShoppingList: doc.ShoppingList,
		Done:         doc.Done,
		SeriesID:     doc.SeriesID,
	}
	for k, raw := range members {
		if documentKeys[k] {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			t.SetField(k, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			t.SetField(k, n.String())
		}
	}
	return nil
}

// TaskStore maps YYYY-MM-DD to the ordered instances of that day.
type TaskStore map[string][]Task

// Insert appends task under date unless a structurally equal one exists.
func (s TaskStore) Insert(date string, task Task) bool {
	for _, existing := range s[date] {
		if existing.SameAs(task) {
			return false
		}
	}
	s[date] = append(s[date], task)
	return true
}

// RemoveAt deletes one instance and drops the date when it empties.
func (s TaskStore) RemoveAt(date string, index int) (Task, bool) {
	day := s[date]
	if index < 0 || index >= len(day) {
		return Task{}, false
	}
	removed := day[index]
	rest := make([]Task, 0, len(day)-1)
	rest = append(rest, day[:index]...)
	rest = append(rest, day[index+1:]...)
	if len(rest) == 0 {
		delete(s, date)
	} else {
		s[date] = rest
	}
	return removed, true
}

// RemoveMatching deletes every instance with the given key across all dates.
func (s TaskStore) RemoveMatching(key SeriesKey) int {
	return s.removeWhere(func(t Task) bool { return t.Key() == key })
}

// RemoveSeries deletes every instance carrying the series identifier.
func (s TaskStore) RemoveSeries(seriesID string) int {
	if seriesID == "" {
		return 0
	}
	return s.removeWhere(func(t Task) bool { return t.SeriesID == seriesID })
}

func (s TaskStore) removeWhere(match func(Task) bool) int {
	removed := 0
	for date, day := range s {
		kept := day[:0:0]
		for _, t := range day {
			if match(t) {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		if len(kept) == 0 {
			delete(s, date)
		} else {
			s[date] = kept
		}
	}
	return removed
}

// Dates returns the populated dates in ascending order.
func (s TaskStore) Dates() []string {
	dates := make([]string, 0, len(s))
	for date := range s {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func (s TaskStore) Clone() TaskStore {
	out := make(TaskStore, len(s))
	for date, day := range s {
		copied := make([]Task, len(day))
		for i, t := range day {
			copied[i] = t.Clone()
		}
		out[date] = copied
	}
	return out
}

const dateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD key as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// FormatDate renders the calendar date of t as a store key.
func FormatDate(t time.Time) string {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

// ValidClock accepts 24-hour HH:MM.
func ValidClock(value string) bool {
	parts := strings.Split(value, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	return err == nil && minute >= 0 && minute <= 59
}
