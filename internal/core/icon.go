package core

import "strconv"

// Material Design Icon code points, stored as hex strings.
const (
	DefaultCategoryIcon = "F0770" // tag
	DefaultAccountIcon  = "F0070" // bank
	CashAccountIcon     = "F0115" // cash
	TransferIcon        = "F0A27" // bank-transfer
)

// DisplayIcon converts a hex icon code to its displayable glyph, falling
// back to the given default and finally to the generic tag icon. Bad
// codes degrade, they never fail.
func DisplayIcon(iconCode, defaultCode string) string {
	if s, ok := glyph(iconCode); ok {
		return s
	}
	if s, ok := glyph(defaultCode); ok {
		return s
	}
	s, _ := glyph(DefaultCategoryIcon)
	return s
}

// CategoryDisplayIcon resolves a category icon code to its glyph.
func CategoryDisplayIcon(iconCode string) string {
	return DisplayIcon(iconCode, DefaultCategoryIcon)
}

// AccountDisplayIcon resolves an account icon code to its glyph.
func AccountDisplayIcon(iconCode string) string {
	return DisplayIcon(iconCode, DefaultAccountIcon)
}

func glyph(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	cp, err := strconv.ParseInt(code, 16, 32)
	if err != nil || cp <= 0 || cp > 0x10FFFF {
		return "", false
	}
	return string(rune(cp)), true
}
