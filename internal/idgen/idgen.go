// =============================================================================
// Swedbank pain.001 Generator - Identifier Source
// =============================================================================
//
// Message, payment-information and end-to-end identifiers must be unique per
// generated document. Instead of reading the wall clock inline, the document
// builder receives a Source so tests can supply deterministic identifiers and
// a frozen clock.
//
// The production implementation derives MsgId/PmtInfId from an identity
// prefix plus a high-resolution timestamp, and end-to-end fallbacks from a
// random UUID, both truncated to the 35-character identifier limit by the
// sanitizer at the call site.
//
// =============================================================================

package idgen

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source supplies per-document identifiers and the generation timestamp.
type Source interface {
	// MessageID returns the group header MsgId for the given initiating
	// party identity.
	MessageID(identity string) string

	// PaymentInfoID returns the PmtInfId for the n-th payment group.
	PaymentInfoID(identity string, n int) string

	// EndToEndID returns a fresh fallback end-to-end identification.
	EndToEndID() string

	// Now returns the generation timestamp.
	Now() time.Time
}

// =============================================================================
// PRODUCTION SOURCE
// =============================================================================

// Clock returns the production Source backed by the wall clock and random
// UUIDs.
func Clock() Source {
	return clockSource{}
}

type clockSource struct{}

func (clockSource) MessageID(identity string) string {
	return fmt.Sprintf("MSG-%s-%s", identity, time.Now().Format("20060102150405.000000"))
}

func (clockSource) PaymentInfoID(identity string, n int) string {
	return fmt.Sprintf("PMTINF-%s-%d-%s", identity, n, time.Now().Format("20060102150405.000000"))
}

func (clockSource) EndToEndID() string {
	return uuid.New().String()
}

func (clockSource) Now() time.Time {
	return time.Now()
}

// =============================================================================
// FIXED SOURCE (TESTS)
// =============================================================================

// Fixed returns a deterministic Source: identifiers carry a running sequence
// number and Now always returns the given instant.
func Fixed(at time.Time) Source {
	return &fixedSource{at: at}
}

type fixedSource struct {
	at  time.Time
	seq int
}

func (f *fixedSource) MessageID(identity string) string {
	return fmt.Sprintf("MSG-%s-FIXED", identity)
}

func (f *fixedSource) PaymentInfoID(identity string, n int) string {
	return fmt.Sprintf("PMTINF-%s-%d", identity, n)
}

func (f *fixedSource) EndToEndID() string {
	f.seq++
	return fmt.Sprintf("E2E-%06d", f.seq)
}

func (f *fixedSource) Now() time.Time {
	return f.at
}
