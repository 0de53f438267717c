package encode

import (
	"fmt"

	"github.com/fatih/color"
)

// Colors maps output roles to sprintf-style painters.
type Colors struct {
	Field  func(format string, a ...any) string
	String func(format string, a ...any) string
	Number func(format string, a ...any) string
	Bool   func(format string, a ...any) string
	Null   func(format string, a ...any) string
	Punct  func(format string, a ...any) string
}

var plainColors = &Colors{
	Field:  fmt.Sprintf,
	String: fmt.Sprintf,
	Number: fmt.Sprintf,
	Bool:   fmt.Sprintf,
	Null:   fmt.Sprintf,
	Punct:  fmt.Sprintf,
}

func NewColors() *Colors {
	return &Colors{
		Field:  color.RGB(196, 96, 16).SprintfFunc(),
		String: color.RGB(8, 196, 16).SprintfFunc(),
		Number: color.RGB(128, 216, 236).SprintfFunc(),
		Bool:   color.CyanString,
		Null:   color.RGB(168, 0, 196).SprintfFunc(),
		Punct:  fmt.Sprintf,
	}
}
