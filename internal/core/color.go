package core

// Color is the foreground color of a screen cell. The platform maps it to a
// terminal style; games only pick from this palette.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple
	ColorBlack // Drawn as bright white on a dark background
	ColorGray
	ColorCyan
	ColorWhite
	ColorCount // Sentinel value for iteration
)

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
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
	case ColorGray:
		return "gray"
	case ColorCyan:
		return "cyan"
	case ColorWhite:
		return "white"
	default:
		return "unknown"
	}
}
