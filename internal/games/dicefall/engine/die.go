// Package engine implements the deterministic grid core of Dicefall: board
// storage, per-die collision and locking, match detection, cascades and
// scoring. It is UI-agnostic and advances only when Step is called.
package engine

import (
	"fmt"
	"strings"
)

// Color is the color tag of a die.
type Color uint8

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple
	ColorBlack
	ColorCount // Sentinel value for iteration
)

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorPurple:
		return "purple"
	case ColorBlack:
		return "black"
	default:
		return "unknown"
	}
}

// Char returns a single character for ASCII rendering.
func (c Color) Char() rune {
	switch c {
	case ColorRed:
		return 'R'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	case ColorYellow:
		return 'Y'
	case ColorPurple:
		return 'P'
	case ColorBlack:
		return 'K'
	default:
		return '?'
	}
}

// ParseColor converts a string to a Color.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(s) {
	case "red", "r":
		return ColorRed, true
	case "green", "g":
		return ColorGreen, true
	case "blue", "b":
		return ColorBlue, true
	case "yellow", "y":
		return ColorYellow, true
	case "purple", "p":
		return ColorPurple, true
	case "black", "k":
		return ColorBlack, true
	default:
		return ColorRed, false
	}
}

// DieColors returns the colors a regular die can roll.
func DieColors() []Color {
	return []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow, ColorPurple}
}

// Booster is a cosmetic tag carried by a die. It never affects matching;
// its score effect is applied by an external BoosterSource.
type Booster uint8

const (
	BoosterNone Booster = iota
	BoosterStar
	BoosterBomb
	BoosterMultiplier
)

// String returns the string representation of a booster.
func (b Booster) String() string {
	switch b {
	case BoosterNone:
		return "none"
	case BoosterStar:
		return "star"
	case BoosterBomb:
		return "bomb"
	case BoosterMultiplier:
		return "multiplier"
	default:
		return "unknown"
	}
}

// ParseBooster converts a string to a Booster.
func ParseBooster(s string) (Booster, bool) {
	switch strings.ToLower(s) {
	case "none", "":
		return BoosterNone, true
	case "star":
		return BoosterStar, true
	case "bomb":
		return BoosterBomb, true
	case "multiplier":
		return BoosterMultiplier, true
	default:
		return BoosterNone, false
	}
}

// BlackDieFaces is the fixed face count of a black die.
const BlackDieFaces = 20

// validFaces lists the supported face counts.
var validFaces = [...]int{4, 6, 8, 10, 12, 20}

// IsValidFaceCount reports whether n is a supported face count.
func IsValidFaceCount(n int) bool {
	for _, f := range validFaces {
		if f == n {
			return true
		}
	}
	return false
}

// Die is the smallest placeable and matchable unit.
type Die struct {
	ID      int
	Faces   int // One of 4, 6, 8, 10, 12, 20
	Value   int // Always within [1, Faces]
	Color   Color
	Wild    bool
	Black   bool // Wild variant that also triggers area conversion
	Booster Booster
}

// NewDie creates a regular die. The value is clamped into [1, faces].
func NewDie(id, faces, value int, color Color) *Die {
	return &Die{
		ID:    id,
		Faces: faces,
		Value: clampInt(value, 1, faces),
		Color: color,
	}
}

// NewWildDie creates a wild die.
func NewWildDie(id, faces, value int, color Color) *Die {
	d := NewDie(id, faces, value, color)
	d.Wild = true
	return d
}

// NewBlackDie creates a black die. Black dice are always 20-sided and wild.
func NewBlackDie(id, value int) *Die {
	return &Die{
		ID:    id,
		Faces: BlackDieFaces,
		Value: clampInt(value, 1, BlackDieFaces),
		Color: ColorBlack,
		Wild:  true,
		Black: true,
	}
}

// Clone returns a copy of the die.
func (d *Die) Clone() *Die {
	c := *d
	return &c
}

// String returns a compact description such as "d6:4:red".
func (d *Die) String() string {
	kind := ""
	switch {
	case d.Black:
		kind = "#"
	case d.Wild:
		kind = "*"
	}
	return fmt.Sprintf("%sd%d:%d:%s", kind, d.Faces, d.Value, d.Color)
}

// Roller is the random source used for face rolls and rerolls.
// *math/rand.Rand satisfies it.
type Roller interface {
	Intn(n int) int
	Float64() float64
}

// Roll returns a uniform face value in [1, faces].
func Roll(r Roller, faces int) int {
	if faces < 1 {
		return 1
	}
	return r.Intn(faces) + 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
