// =============================================================================
// Swedbank pain.001 Generator - Swedish Account Classifier
// =============================================================================
//
// This module derives the Swedish account type (IBAN, BBAN, Bankgiro or
// Plusgiro) from a raw account number plus an optional clearing code, and
// produces the canonical wire representation of the number for each type.
//
// CLASSIFICATION RULES:
//   - Declared type on the bank record               -> that type
//   - 7-8 digits, no clearing code                   -> bankgiro
//   - <= 10 digits, clearing code 9960               -> plusgiro
//   - anything else                                  -> bban
//
// A declared type always wins: a Bankgiro account keeps its Bankgiro
// classification even when a clearing code (9900) is stored alongside it.
//
// The clearing-system/member pair used in ClrSysMmbId follows the Swedish
// Bankers Association scheme (SESBA): Bankgiro settles via member 9900,
// Plusgiro via 9960, plain BBAN accounts via their own clearing code.
//
// =============================================================================

package account

import (
	"regexp"
	"strings"
)

// Type identifies the Swedish account classification of a bank account.
type Type string

const (
	TypeIBAN     Type = "iban"
	TypeBBAN     Type = "bban"
	TypeBankgiro Type = "bankgiro"
	TypePlusgiro Type = "plusgiro"
)

// ClearingSystem is the clearing system code for Swedish domestic payments.
const ClearingSystem = "SESBA"

const (
	// bankgiroMember is the clearing member that settles Bankgiro payments.
	bankgiroMember = "9900"

	// plusgiroClearing doubles as the Plusgiro sentinel clearing code and
	// the clearing member that settles Plusgiro payments.
	plusgiroClearing = "9960"
)

var (
	clearingCodePattern = regexp.MustCompile(`^[0-9]{4,5}$`)
	bankgiroPattern     = regexp.MustCompile(`^[0-9]{7,8}$`)
	plusgiroPattern     = regexp.MustCompile(`^[0-9]{1,10}$`)
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

// ParseType maps a declared account type string to a Type. Matching is
// case-insensitive; ok is false for unknown values.
func ParseType(s string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeIBAN:
		return TypeIBAN, true
	case TypeBBAN:
		return TypeBBAN, true
	case TypeBankgiro:
		return TypeBankgiro, true
	case TypePlusgiro:
		return TypePlusgiro, true
	default:
		return "", false
	}
}

// Classify determines the account type from the raw account number, the
// type declared on the bank record (empty when undeclared) and the clearing
// code. The declared type is authoritative; digits and clearing are only
// consulted to derive a type for undeclared accounts.
func Classify(number string, declared Type, clearing string) Type {
	if declared != "" {
		return declared
	}

	acc := Normalize(number)
	switch {
	case acc == "":
		return TypeBBAN
	case bankgiroPattern.MatchString(acc) && clearing == "":
		return TypeBankgiro
	case plusgiroPattern.MatchString(acc) && clearing == plusgiroClearing:
		return TypePlusgiro
	default:
		return TypeBBAN
	}
}

// Format produces the wire representation of an account number for its type.
//
// FORMATTING RULES:
//   - iban:      uppercase, separators removed
//   - bankgiro:  digits zero-padded to 8, rightmost 8 kept
//   - plusgiro:  digits as-is
//   - bban, clearing 8xxxx: clearing padded to 5 + account padded to 10
//   - bban, clearing 7xxx:  first 4 clearing digits + account padded to 7
//   - bban otherwise:       clearing concatenated with the digits
func Format(number string, typ Type, clearing string) string {
	acc := Normalize(number)
	if acc == "" {
		return ""
	}

	switch {
	case typ == TypeIBAN:
		return strings.ToUpper(acc)
	case typ == TypeBankgiro:
		return padLeftZeros(acc, 8)
	case typ == TypePlusgiro:
		return acc
	case strings.HasPrefix(clearing, "8"):
		return padClearing(clearing, 5) + padLeftZeros(acc, 10)
	case strings.HasPrefix(clearing, "7"):
		return clearing[:min(4, len(clearing))] + padLeftZeros(acc, 7)
	default:
		return clearing + acc
	}
}

// ClearingInfo derives the ClrSysMmbId pair for the wire message.
//
// RETURNS:
//   - system, member: the clearing system code and member ID.
//   - ok: false when the account carries no clearing information at all.
func ClearingInfo(typ Type, clearing string) (system, member string, ok bool) {
	switch {
	case typ == TypeBankgiro:
		return ClearingSystem, bankgiroMember, true
	case typ == TypePlusgiro:
		return ClearingSystem, plusgiroClearing, true
	case clearing != "":
		return ClearingSystem, clearing, true
	default:
		return "", "", false
	}
}

// ValidClearingCode reports whether a clearing code matches the 4-5 digit
// format. Enforced when configuration is loaded, not at generation time.
func ValidClearingCode(s string) bool {
	return clearingCodePattern.MatchString(s)
}

// =============================================================================
// HELPERS
// =============================================================================

// Normalize strips spaces and dashes from an account number.
func Normalize(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	return strings.ReplaceAll(number, "-", "")
}

// padLeftZeros zero-pads to length, keeping the rightmost digits on overflow.
func padLeftZeros(s string, length int) string {
	for len(s) < length {
		s = "0" + s
	}
	return s[len(s)-length:]
}

// padClearing zero-pads a clearing code and keeps the leftmost digits.
func padClearing(s string, length int) string {
	for len(s) < length {
		s = "0" + s
	}
	return s[:length]
}
