package effects

import "strings"

// Keyword is an evergreen ability or a rules flag carried like one.
type Keyword string

const (
	Flying         Keyword = "flying"
	Reach          Keyword = "reach"
	Trample        Keyword = "trample"
	FirstStrike    Keyword = "first_strike"
	DoubleStrike   Keyword = "double_strike"
	Vigilance      Keyword = "vigilance"
	Haste          Keyword = "haste"
	Menace         Keyword = "menace"
	Deathtouch     Keyword = "deathtouch"
	Lifelink       Keyword = "lifelink"
	Indestructible Keyword = "indestructible"
	Hexproof       Keyword = "hexproof"
	Defender       Keyword = "defender"
	CantBlock      Keyword = "cant_block"
	DoesntUntap    Keyword = "doesnt_untap"
	Convoke        Keyword = "convoke"
)

var knownKeywords = map[Keyword]struct{}{
	Flying: {}, Reach: {}, Trample: {}, FirstStrike: {}, DoubleStrike: {}, Vigilance: {},
	Haste: {}, Menace: {}, Deathtouch: {}, Lifelink: {}, Indestructible: {}, Hexproof: {},
	Defender: {}, CantBlock: {}, DoesntUntap: {}, Convoke: {},
}

// ParseKeyword normalizes "First Strike" / "first-strike" / "first_strike".
func ParseKeyword(s string) (Keyword, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(norm)
	kw := Keyword(norm)
	_, ok := knownKeywords[kw]
	return kw, ok
}
