package catalog

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StatIndex is a position in Detail.Stats. The remote API uses a fixed order.
type StatIndex int

const (
	StatHP StatIndex = iota
	StatAttack
	StatDefense
	StatSpecialAttack
	StatSpecialDefense
	StatSpeed
)

// CardStats are the stats shown on a card, in display order.
var CardStats = []StatIndex{StatHP, StatAttack, StatDefense, StatSpeed}

var statLabels = [...]string{"HP", "ATK", "DEF", "SP.ATK", "SP.DEF", "SPD"}

// Highest base value any entry reaches for each stat.
var statMax = [...]int{255, 181, 230, 194, 230, 180}

// Stat bar colors; stats without an entry render in the neutral color.
var statColors = map[StatIndex]string{
	StatHP:      "#FF5959",
	StatAttack:  "#F5AC78",
	StatDefense: "#FAE078",
	StatSpeed:   "#FA92B2",
}

// Label returns the short display label.
func (s StatIndex) Label() string {
	if s < 0 || int(s) >= len(statLabels) {
		return "?"
	}
	return statLabels[s]
}

// Max returns the highest known base value, 0 for unknown stats.
func (s StatIndex) Max() int {
	if s < 0 || int(s) >= len(statMax) {
		return 0
	}
	return statMax[s]
}

// Color returns the stat bar color.
func (s StatIndex) Color() string {
	if c, ok := statColors[s]; ok {
		return c
	}
	return "#E0E0E0"
}

// StatPercent returns value as a percentage of the stat's maximum, capped
// at 100. Unknown stats yield 0.
func StatPercent(value int, s StatIndex) float64 {
	maxValue := s.Max()
	if maxValue == 0 {
		return 0
	}
	return min(float64(value)/float64(maxValue)*100, 100)
}

// TypeColors maps type names to their display colors.
var TypeColors = map[string]string{
	"normal":   "#A8A878",
	"fire":     "#F08030",
	"water":    "#6890F0",
	"electric": "#F8D030",
	"grass":    "#78C850",
	"ice":      "#98D8D8",
	"fighting": "#C03028",
	"poison":   "#A040A0",
	"ground":   "#E0C068",
	"flying":   "#A890F0",
	"psychic":  "#F85888",
	"bug":      "#A8B820",
	"rock":     "#B8A038",
	"ghost":    "#705898",
	"dragon":   "#7038F8",
	"dark":     "#705848",
	"steel":    "#B8B8D0",
	"fairy":    "#EE99AC",
}

// TypeColor returns the color for a type, falling back to normal.
func TypeColor(typeName string) string {
	if c, ok := TypeColors[typeName]; ok {
		return c
	}
	return TypeColors["normal"]
}

// MainColor returns the color of the first type.
func MainColor(types []string) string {
	if len(types) == 0 {
		return TypeColors["normal"]
	}
	return TypeColor(types[0])
}

// Colors returns one color per type, or the normal color when there are none.
func Colors(types []string) []string {
	if len(types) == 0 {
		return []string{TypeColors["normal"]}
	}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = TypeColor(t)
	}
	return out
}

// FormatDexNumber renders an id as a zero-padded dex number: 1 -> "#001".
func FormatDexNumber(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// FormatHeight renders decimeters as meters.
func FormatHeight(decimeters int) string {
	return fmt.Sprintf("%.1f m", float64(decimeters)/10)
}

// FormatWeight renders hectograms as kilograms.
func FormatWeight(hectograms int) string {
	return fmt.Sprintf("%.1f kg", float64(hectograms)/10)
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// DisplayName turns "mr-mime" into "Mr Mime".
func DisplayName(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		words[i] = Capitalize(w)
	}
	return strings.Join(words, " ")
}
