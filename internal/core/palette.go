package core

import "strings"

// Alphabet is the fixed set of one-character tile codes used on the wire.
// Letters map to palette shades, '0' is the empty road cell, and the
// remaining digits are reserved.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// EmptyCode marks a walkable cell in a maze row. It doubles as the darkest
// Aluminium shade, so a fully faded sprite and an empty tile render alike.
const EmptyCode byte = '0'

// Kind identifies a color family from the Tango palette. The first seven
// are enemy families; Aluminium is used for walls, the hero, and the
// hero's bullets.
type Kind int

const (
	Butter Kind = iota
	Orange
	Chocolate
	Chameleon
	SkyBlue
	Plum
	ScarletRed
	Aluminium
)

// EnemyKinds lists the families an enemy can spawn as.
var EnemyKinds = [...]Kind{Butter, Orange, Chocolate, Chameleon, SkyBlue, Plum, ScarletRed}

// shades holds the Tango hex values per family, light to dark. Enemy
// families carry three shades (one per hit point); Aluminium carries six.
var shades = [...][]string{
	Butter:     {"#fce94f", "#edd400", "#c4a000"},
	Orange:     {"#fcaf3e", "#f57900", "#ce5c00"},
	Chocolate:  {"#e9b96e", "#c17d11", "#8f5902"},
	Chameleon:  {"#8ae234", "#73d216", "#4e9a06"},
	SkyBlue:    {"#729fcf", "#3465a4", "#204a87"},
	Plum:       {"#ad7fa8", "#75507b", "#5c3566"},
	ScarletRed: {"#ef2929", "#cc0000", "#a40000"},
	Aluminium:  {"#eeeeec", "#d3d7cf", "#babdb6", "#888a85", "#555753", "#2e3436"},
}

// codes assigns tile codes family by family: the seven enemy families
// take a..u (three codes each), Aluminium takes v, w, x, y, z, 0.
var (
	kindBase [len(shades)]int
	codeHex  map[byte]string
)

func init() {
	codeHex = make(map[byte]string)
	i := 0
	for k := range shades {
		kindBase[k] = i
		for _, hex := range shades[k] {
			codeHex[Alphabet[i]] = hex
			i++
		}
	}
}

func (k Kind) String() string {
	switch k {
	case Butter:
		return "Butter"
	case Orange:
		return "Orange"
	case Chocolate:
		return "Chocolate"
	case Chameleon:
		return "Chameleon"
	case SkyBlue:
		return "SkyBlue"
	case Plum:
		return "Plum"
	case ScarletRed:
		return "ScarletRed"
	case Aluminium:
		return "Aluminium"
	default:
		return "Unknown"
	}
}

// Shades returns how many shades the family has.
func (k Kind) Shades() int {
	return len(shades[k])
}

// Code returns the tile code for the family at the given shade. Shades
// past the last one clamp to it, so an over-wounded sprite stays at the
// darkest code instead of panicking.
func (k Kind) Code(shade int) byte {
	shade = Clamp(shade, 0, len(shades[k])-1)
	return Alphabet[kindBase[k]+shade]
}

// HexOf returns the terminal color for a tile code, or the empty string
// when the code has no palette entry (reserved digits).
func HexOf(code byte) string {
	return codeHex[code]
}

// ValidCode reports whether b belongs to the tile alphabet.
func ValidCode(b byte) bool {
	return strings.IndexByte(Alphabet, b) >= 0
}
