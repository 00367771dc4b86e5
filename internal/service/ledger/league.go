package ledger

// League is a gamification tier derived from total XP.
type League struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Class    string `json:"class"`
	Progress int    `json:"progress"`   // percent towards the next tier, 0-100
	XPToNext *int   `json:"xp_to_next"` // nil at the top tier
}

// League thresholds.
const (
	SilverXP  = 150
	GoldXP    = 500
	DiamondXP = 1500
)

// LeagueFor derives the league for a total XP value. Negative XP counts as zero.
func LeagueFor(xp int) League {
	if xp < 0 {
		xp = 0
	}

	switch {
	case xp >= DiamondXP:
		return League{Name: "Diamond League", Icon: "💎", Class: "diamond", Progress: 100}
	case xp >= GoldXP:
		return tier("Gold League", "🏆", "gold", xp, GoldXP, DiamondXP)
	case xp >= SilverXP:
		return tier("Silver League", "🥈", "silver", xp, SilverXP, GoldXP)
	default:
		return tier("Bronze League", "🥉", "bronze", xp, 0, SilverXP)
	}
}

func tier(name, icon, class string, xp, floor, next int) League {
	needed := next - xp
	return League{
		Name:     name,
		Icon:     icon,
		Class:    class,
		Progress: (xp - floor) * 100 / (next - floor),
		XPToNext: &needed,
	}
}

// Rank orders leagues, Bronze being 0.
func (l League) Rank() int {
	switch l.Class {
	case "silver":
		return 1
	case "gold":
		return 2
	case "diamond":
		return 3
	}
	return 0
}
