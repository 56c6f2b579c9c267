// =============================================================================
// Swedbank pain.001 Generator - Batch Validation
// =============================================================================
//
// This module enforces the business preconditions on a batch of payment
// instructions before any XML is assembled.
//
// VALIDATION STRATEGY:
//   1. Batch-level: the journal must carry a well-formed Swedbank agreement
//      ID and a configured debtor account (ConfigurationError).
//   2. Per-payment: partner present, amount strictly positive, service level
//      and category purpose overrides limited to the supported codes, and
//      for SEPA service level the currency must be EUR and any creditor
//      account must be an IBAN (BatchValidationError).
//
// ERROR HANDLING:
//   Validation fails fast on the first violation. Every error names the
//   offending payment and the violated rule; the caller never receives a
//   partially built document.
//
// =============================================================================

package validation

import (
	"fmt"

	"github.com/nordkonto/swedbank-pain001/internal/config"
	"github.com/nordkonto/swedbank-pain001/internal/model"
)

// SEPACurrency is the settlement currency required by SEPA Credit Transfer.
const SEPACurrency = "EUR"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ConfigurationError reports missing or malformed journal configuration.
// Fatal: no document is produced.
type ConfigurationError struct {
	// Journal is the display name of the offending journal.
	Journal string

	// Reason describes what is missing or malformed.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("journal %q: %s", e.Journal, e.Reason)
}

// BatchValidationError reports a payment failing a business rule.
// Fatal, raised on the first offending payment.
type BatchValidationError struct {
	// Payment is the display name of the offending payment.
	Payment string

	// Rule is the short identifier of the violated rule.
	Rule string

	// Reason is the human-readable description.
	Reason string
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("payment %q: %s", e.Payment, e.Reason)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateConfig checks the batch-level journal preconditions.
func ValidateConfig(journal *config.JournalConfig) error {
	if journal.AgreementID == "" {
		return &ConfigurationError{
			Journal: journal.Name,
			Reason:  "Swedbank agreement ID is not configured",
		}
	}
	if !config.AgreementIDPattern.MatchString(journal.AgreementID) {
		return &ConfigurationError{
			Journal: journal.Name,
			Reason:  "Swedbank agreement ID is malformed, expected nnnnnnnnnnnnAnnn",
		}
	}
	if !journal.HasDebtorAccount() {
		return &ConfigurationError{
			Journal: journal.Name,
			Reason:  "bank account is not configured",
		}
	}
	return nil
}

// ValidateBatch checks the journal configuration and every payment in the
// batch, failing fast on the first violation.
func ValidateBatch(journal *config.JournalConfig, payments []model.PaymentInstruction) error {
	if err := ValidateConfig(journal); err != nil {
		return err
	}

	for i := range payments {
		if err := validatePayment(journal, &payments[i]); err != nil {
			return err
		}
	}

	return nil
}

// validatePayment applies the per-payment rules.
func validatePayment(journal *config.JournalConfig, p *model.PaymentInstruction) error {
	if p.Partner.Name == "" {
		return &BatchValidationError{
			Payment: p.DisplayName(),
			Rule:    "partner_required",
			Reason:  "no partner defined; all Swedbank payments require a partner",
		}
	}

	if p.Amount.Sign() <= 0 {
		return &BatchValidationError{
			Payment: p.DisplayName(),
			Rule:    "positive_amount",
			Reason:  "invalid amount; amount must be positive",
		}
	}

	// Row-level overrides come from batch files, so they are checked against
	// the same enumerations the journal configuration is held to.
	if p.ServiceLevel != "" && !config.ValidServiceLevel(p.ServiceLevel) {
		return &BatchValidationError{
			Payment: p.DisplayName(),
			Rule:    "valid_service_level",
			Reason:  fmt.Sprintf("unknown service level %q", p.ServiceLevel),
		}
	}
	if p.CategoryPurpose != "" && !config.ValidCategoryPurpose(p.CategoryPurpose) {
		return &BatchValidationError{
			Payment: p.DisplayName(),
			Rule:    "valid_category_purpose",
			Reason:  fmt.Sprintf("unknown category purpose %q", p.CategoryPurpose),
		}
	}

	if serviceLevel(journal, p) == "SEPA" {
		if p.Currency != SEPACurrency {
			return &BatchValidationError{
				Payment: p.DisplayName(),
				Rule:    "sepa_currency",
				Reason: fmt.Sprintf(
					"SEPA Credit Transfer requires %s currency, payment uses %s",
					SEPACurrency, p.Currency),
			}
		}

		if p.Account != nil && !p.Account.IsIBAN() {
			return &BatchValidationError{
				Payment: p.DisplayName(),
				Rule:    "sepa_iban",
				Reason:  "SEPA Credit Transfer requires an IBAN creditor account",
			}
		}
	}

	return nil
}

// serviceLevel resolves the effective service level for a payment.
func serviceLevel(journal *config.JournalConfig, p *model.PaymentInstruction) string {
	if p.ServiceLevel != "" {
		return p.ServiceLevel
	}
	return journal.ServiceLevel
}
