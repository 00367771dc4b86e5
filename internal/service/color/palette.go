// Package color classifies garment images into a fixed palette and scores
// how well two palette colors go together.
package color

import "strings"

// Label is a palette color name.
type Label string

// Palette labels.
const (
	Black      Label = "black"
	White      Label = "white"
	Gray       Label = "gray"
	Anthracite Label = "anthracite"
	Red        Label = "red"
	Brown      Label = "brown"
	Orange     Label = "orange"
	Beige      Label = "beige"
	Yellow     Label = "yellow"
	Khaki      Label = "khaki"
	Green      Label = "green"
	Turquoise  Label = "turquoise"
	Navy       Label = "navy"
	Blue       Label = "blue"
	Purple     Label = "purple"
	Pink       Label = "pink"
	Burgundy   Label = "burgundy"
	Unknown    Label = "unknown"
)

// Palette lists every known label except Unknown.
var Palette = []Label{
	Black, White, Gray, Anthracite, Red, Brown, Orange, Beige, Yellow,
	Khaki, Green, Turquoise, Navy, Blue, Purple, Pink, Burgundy,
}

var legacyNames = map[string]Label{
	"siyah":      Black,
	"beyaz":      White,
	"gri":        Gray,
	"antrasit":   Anthracite,
	"kırmızı":    Red,
	"kahverengi": Brown,
	"turuncu":    Orange,
	"bej":        Beige,
	"sarı":       Yellow,
	"haki":       Khaki,
	"yeşil":      Green,
	"turkuaz":    Turquoise,
	"lacivert":   Navy,
	"mavi":       Blue,
	"mor":        Purple,
	"pembe":      Pink,
	"bordo":      Burgundy,
	"bilinmiyor": Unknown,
}

// Parse maps a stored color name to a Label. Rows written by the first
// version of the app carry Turkish names; both forms are accepted. Anything
// else is Unknown.
func Parse(name string) Label {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, l := range Palette {
		if n == string(l) {
			return l
		}
	}
	if l, ok := legacyNames[n]; ok {
		return l
	}
	return Unknown
}

// IsNeutral reports whether l is black, white or gray.
func (l Label) IsNeutral() bool {
	return l == Black || l == White || l == Gray
}

// isDark reports whether l is one of the dark neutrals that shadows and
// backdrops tend to produce.
func (l Label) isDark() bool {
	return l == Black || l == Gray || l == Anthracite
}
