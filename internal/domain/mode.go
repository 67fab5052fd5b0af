package domain

// Mode names an increment operation.
type Mode string

const (
	ModeIota      Mode = "iota"
	ModePre       Mode = "pre"
	ModePatch     Mode = "patch"
	ModeMinor     Mode = "minor"
	ModeMajor     Mode = "major"
	ModeMinorIota Mode = "minor-iota"
	ModeMinorRC   Mode = "minor-rc"
	ModeRelease   Mode = "release"
)

// Modes lists every valid mode in display order.
var Modes = []Mode{
	ModeIota, ModePre, ModePatch, ModeMinor, ModeMajor, ModeMinorIota, ModeMinorRC, ModeRelease,
}

// Valid reports whether m is one of Modes.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMode validates a mode token.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", &InvalidModeError{Mode: s}
	}
	return m, nil
}

// IsMode reports whether s names a mode rather than a literal tag.
func IsMode(s string) bool {
	return Mode(s).Valid()
}
