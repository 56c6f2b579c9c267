// =============================================================================
// Swedbank pain.001 Generator - Character Set Sanitizer
// =============================================================================
//
// This module converts arbitrary text into the restricted character set that
// Swedbank accepts in ISO 20022 messages. It has two modes:
//
//   - Free text (names, addresses, remittance info): the base Latin set plus,
//     when enabled, the Swedish letters å Å ä Ä ö Ö.
//   - Identifiers (MsgId, PmtInfId, InstrId, EndToEndId): base Latin set only,
//     and the value may not start or end with '/'.
//
// Characters outside the allowed set are transliterated where a replacement
// exists (é -> e, æ -> ae, ß -> ss, ...) and dropped silently otherwise.
// Runs of '/' are collapsed to a single '/' because "//" is reserved as a
// delimiter in ISO 20022 identification fields.
//
// All functions are pure: no I/O, no errors, empty input yields "".
//
// =============================================================================

package sanitize

import (
	"strings"
	"unicode"
)

// =============================================================================
// CHARACTER TABLES
// =============================================================================

// baseAllowed is the Swedbank Latin character set for SEPA/ISO 20022 messages.
const baseAllowed = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"/-?:().,'+ "

// swedishAllowed are the additional letters permitted in domestic payments.
const swedishAllowed = "åÅäÄöÖ"

// replacements maps lowercase characters outside the allowed set to their
// ASCII transliteration. Uppercase input is looked up in lowercase and the
// replacement is upper-cased to follow the case of the input.
var replacements = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a", 'æ': "ae",
	'ç': "c", 'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ñ': "n", 'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u", 'ý': "y", 'ÿ': "y",
	'ß': "ss", 'œ': "oe",
}

var (
	baseSet    = makeRuneSet(baseAllowed)
	swedishSet = makeRuneSet(swedishAllowed)
)

func makeRuneSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}

// =============================================================================
// PUBLIC API
// =============================================================================

// Text sanitizes free-text fields (names, address lines, remittance info).
//
// PARAMETERS:
//   - s: The raw input text.
//   - maxLen: Maximum length in runes; the result is truncated to this length.
//   - allowSwedish: Permit å Å ä Ä ö Ö unchanged (domestic payments).
//
// RETURNS:
//   - The sanitized text. Characters with no transliteration are dropped.
func Text(s string, maxLen int, allowSwedish bool) string {
	out, _ := sanitize(s, maxLen, allowSwedish)
	return out
}

// TextReport behaves like Text but also reports how many runes were dropped
// because no transliteration exists. Callers can surface the count as a
// non-fatal data-loss warning.
func TextReport(s string, maxLen int, allowSwedish bool) (string, int) {
	return sanitize(s, maxLen, allowSwedish)
}

// Identifier sanitizes identification fields (MsgId, PmtInfId, InstrId,
// EndToEndId). Identifiers are Latin-only and must not begin or end with '/'.
func Identifier(s string, maxLen int) string {
	out, _ := sanitize(s, maxLen, false)
	out = strings.Trim(out, "/")
	return truncate(out, maxLen)
}

// =============================================================================
// IMPLEMENTATION
// =============================================================================

// sanitize is the shared worker for Text, TextReport and Identifier.
func sanitize(s string, maxLen int, allowSwedish bool) (string, int) {
	if s == "" {
		return "", 0
	}

	var b strings.Builder
	b.Grow(len(s))
	dropped := 0

	for _, r := range s {
		switch {
		case baseSet[r]:
			b.WriteRune(r)

		case allowSwedish && swedishSet[r]:
			b.WriteRune(r)

		default:
			repl, ok := replacements[r]
			if !ok {
				lower := unicode.ToLower(r)
				if repl, ok = replacements[lower]; ok && unicode.IsUpper(r) {
					repl = strings.ToUpper(repl)
				}
			}
			if ok {
				b.WriteString(repl)
			} else {
				dropped++
			}
		}
	}

	out := collapseSlashes(b.String())
	return truncate(out, maxLen), dropped
}

// collapseSlashes replaces every run of two or more '/' with a single '/'.
func collapseSlashes(s string) string {
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	return s
}

// truncate cuts a string to maxLen runes. Non-positive maxLen means no limit.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
