package tag

import (
	"errors"
	"strings"
	"time"
)

// MaxNameLength is the maximum length for a tag name.
const MaxNameLength = 50

// Colour presets for tag chips.
const (
	ColorOrange = "orange" // default
	ColorRed    = "red"
	ColorGreen  = "green"
	ColorBlue   = "blue"
	ColorPurple = "purple"
	ColorTeal   = "teal"
	ColorGrey   = "grey"
)

// ColorHex maps preset names to hex values.
var ColorHex = map[string]string{
	ColorOrange: "#F9B232",
	ColorRed:    "#e74c3c",
	ColorGreen:  "#27ae60",
	ColorBlue:   "#2980b9",
	ColorPurple: "#8e44ad",
	ColorTeal:   "#16a085",
	ColorGrey:   "#7f8c8d",
}

// Domain errors
var (
	ErrEmptyName    = errors.New("tag name cannot be empty")
	ErrNameTooLong  = errors.New("tag name cannot exceed 50 characters")
	ErrEmptyTeamID  = errors.New("tag team ID cannot be empty")
	ErrInvalidColor = errors.New("tag color must be one of: orange, red, green, blue, purple, teal, grey")
	ErrDuplicate    = errors.New("a tag with that name already exists")
	ErrUnknownTag   = errors.New("unknown tag")
)

// Tag labels activities (e.g. "conditioning", "defense") so plans can be
// filtered by what they practise.
type Tag struct {
	ID        string
	TeamID    string
	Name      string
	Color     string
	CreatedAt time.Time
}

// NormalizeName trims and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Validate checks the tag's invariants.
// PRE: none
// POST: returns nil if valid, error describing first violation otherwise
func (t *Tag) Validate() error {
	if strings.TrimSpace(t.TeamID) == "" {
		return ErrEmptyTeamID
	}
	if NormalizeName(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if t.Color != "" {
		if _, ok := ColorHex[t.Color]; !ok {
			return ErrInvalidColor
		}
	}
	return nil
}

// EffectiveColor returns the colour hex value, defaulting to orange.
func (t *Tag) EffectiveColor() string {
	if hex, ok := ColorHex[t.Color]; ok {
		return hex
	}
	return ColorHex[ColorOrange]
}
