package domain

// Match is one span of text attributed to a category. Start and End are byte
// offsets into the scanned text.
type Match struct {
	Category Category
	Start    int
	End      int
}

// RuleTableVersion identifies the revision of the built-in rule table.
const RuleTableVersion = 1

// MaskGlyph replaces each masked character.
const MaskGlyph = "•"

// MaxMaskRun caps the number of glyphs emitted for a single masked span.
const MaxMaskRun = 20
