package color

// harmony lists, per color, the colors it is usually paired with.
var harmony = map[Label][]Label{
	Black:      {White, Gray, Red, Blue, Black, Beige, Khaki, Yellow},
	White:      {Black, Blue, Beige, Brown, Gray, Green, Red, Navy, Purple},
	Gray:       {Black, White, Blue, Red, Pink, Purple, Yellow},
	Navy:       {Beige, White, Gray, Khaki, Yellow, Red, Orange},
	Blue:       {White, Beige, Brown, Black, Gray, Orange},
	Beige:      {Navy, Blue, Black, White, Khaki, Green, Brown, Burgundy},
	Brown:      {Beige, Blue, White, Green, Turquoise},
	Red:        {Black, White, Navy, Gray, Beige},
	Green:      {Beige, Black, White, Brown, Navy, Gray},
	Khaki:      {Black, White, Beige, Navy, Orange},
	Yellow:     {Navy, Black, Gray, White, Purple},
	Pink:       {Gray, White, Black, Navy, Green},
	Orange:     {Blue, Navy, White, Black, Khaki},
	Purple:     {Gray, White, Black, Yellow, Beige},
	Anthracite: {White, Black, Red, Blue, Yellow},
	Turquoise:  {White, Black, Brown, Beige},
}

// Score weights.
const (
	harmonyPoints   = 10
	neutralPoints   = 5
	identicalPoints = 3
)

func pairs(a, b Label) bool {
	for _, c := range harmony[a] {
		if c == b {
			return true
		}
	}
	return false
}

// Compatibility scores how well two colors go together. Names are parsed
// with Parse, so legacy labels work too. The score is symmetric.
func Compatibility(a, b string) int {
	return Score(Parse(a), Parse(b))
}

// Score is Compatibility over parsed labels.
func Score(a, b Label) int {
	score := 0
	if pairs(a, b) {
		score += harmonyPoints
	}
	if pairs(b, a) {
		score += harmonyPoints
	}
	if a.IsNeutral() || b.IsNeutral() {
		score += neutralPoints
	}
	if a == b {
		score += identicalPoints
	}
	return score
}
