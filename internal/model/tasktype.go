package model

import "strings"

// TaskType describes a predefined habit category.
type TaskType struct {
	Key   string
	Label string
	Icon  string
	Color string
}

const (
	TypeBirthday = "birthday"
	TypeShopping = "shopping"
	TypeCustom   = "custom"
)

// TaskTypes is the catalogue in display order, grouped as in the app menu.
var TaskTypes = []TaskType{
	{Key: "shower", Label: "Take a shower", Icon: "🚿", Color: "#4FC3F7"},
	{Key: "skincare", Label: "Skincare", Icon: "✨", Color: "#F06292"},
	{Key: "haircare", Label: "Hair care", Icon: "💇", Color: "#BA68C8"},
	{Key: "mask", Label: "Face mask", Icon: "🧖", Color: "#AED581"},
	{Key: "run", Label: "Run", Icon: "🏃", Color: "#FF8A65"},
	{Key: "walk", Label: "Walk", Icon: "🚶", Color: "#FFD54F"},
	{Key: "gym", Label: "Go to the gym", Icon: "🏋️", Color: "#90A4AE"},
	{Key: "yoga", Label: "Yoga", Icon: "🧘", Color: "#9575CD"},
	{Key: "water", Label: "Drink water", Icon: "💧", Color: "#29B6F6"},
	{Key: "fruit", Label: "Eat fruit", Icon: "🍎", Color: "#66BB6A"},
	{Key: "early", Label: "Wake up early", Icon: "⏰", Color: "#FFCA28"},
	{Key: "sun", Label: "Get some sun", Icon: "☀️", Color: "#FFA726"},
	{Key: "read", Label: "Read", Icon: "📖", Color: "#8D6E63"},
	{Key: "course", Label: "Take a course", Icon: "🎓", Color: "#5C6BC0"},
	{Key: "instrument", Label: "Practice an instrument", Icon: "🎵", Color: "#EC407A"},
	{Key: TypeBirthday, Label: "Birthday", Icon: "🎁", Color: "#FF6B6B"},
	{Key: "study", Label: "Study", Icon: "📚", Color: "#4ECDC4"},
	{Key: "exercise", Label: "Exercise", Icon: "💪", Color: "#45B7D1"},
	{Key: "house", Label: "House", Icon: "🏠", Color: "#FFA07A"},
	{Key: TypeShopping, Label: "Shopping", Icon: "🛒", Color: "#F4D03F"},
	{Key: TypeCustom, Label: "Custom", Icon: "📝", Color: "#96CEB4"},
}

// TypeFields names the type-specific inputs a composer asks for.
var TypeFields = map[string][]string{
	"shower":   {"note"},
	"skincare": {"products", "routine"},
	"run":      {"distance", "route"},
	"gym":      {"muscleGroup", "duration"},
	"water":    {"liters"},
	"read":     {"book", "pages"},
	"walk":     {"place", "duration"},
	"birthday": {"name", "age"},
	"study":    {"subject", "topic"},
	"exercise": {"exerciseType", "duration"},
	"house":    {"task", "details"},
}

// LookupType resolves a key, falling back to the custom type.
func LookupType(key string) TaskType {
	k := strings.TrimSpace(key)
	for _, t := range TaskTypes {
		if t.Key == k {
			return t
		}
	}
	return TaskTypes[len(TaskTypes)-1]
}

// IsKnownType reports whether key is in the catalogue.
func IsKnownType(key string) bool {
	for _, t := range TaskTypes {
		if t.Key == key {
			return true
		}
	}
	return false
}
