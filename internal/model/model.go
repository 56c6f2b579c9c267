// =============================================================================
// Swedbank pain.001 Generator - Shared Payment Model
// =============================================================================
//
// This package contains the immutable view structures that flow through the
// generation pipeline. They are constructed fresh for every generation request
// from host data (configuration files, batch files) and are never mutated
// afterwards; the pipeline is a pure transformation from (journal config,
// payments) to (bytes, validation result).
//
// Types defined here are used by:
//   - validation
//   - painxml
//   - pipeline
//   - batchreader
//
// =============================================================================

package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nordkonto/swedbank-pain001/internal/account"
)

// =============================================================================
// PARTIES
// =============================================================================

// Partner is the payee identity and postal address.
type Partner struct {
	Name    string
	Street  string
	City    string
	Zip     string
	Country string
}

// =============================================================================
// BANK ACCOUNTS
// =============================================================================

// BankAccount is a classified bank account, used for both the debtor account
// (from journal configuration) and creditor accounts (from payment rows).
// Construct it with NewBankAccount so Type and Formatted stay consistent
// with the raw inputs.
type BankAccount struct {
	// Number is the raw account number as entered (may contain spaces/dashes).
	Number string

	// DeclaredType is the account type declared on the bank record, empty
	// when the type must be derived from the number and clearing code.
	DeclaredType account.Type

	// ClearingCode is the Swedish clearing code (4-5 digits), optional.
	ClearingCode string

	// BIC is the bank identifier code, optional.
	BIC string

	// Country is the ISO country code of the account's bank, optional.
	Country string

	// Currency is the account currency, optional. Only meaningful for the
	// debtor account, where it drives the DbtrAcct/Ccy element.
	Currency string

	// Type is the derived Swedish account classification.
	Type account.Type

	// Formatted is the wire representation of the account number.
	Formatted string
}

// NewBankAccount classifies and formats a raw account number. A non-empty
// declared type takes precedence over derivation from digits and clearing.
func NewBankAccount(number string, declared account.Type, clearingCode, bic, country, currency string) BankAccount {
	typ := account.Classify(number, declared, clearingCode)
	return BankAccount{
		Number:       number,
		DeclaredType: declared,
		ClearingCode: clearingCode,
		BIC:          bic,
		Country:      country,
		Currency:     currency,
		Type:         typ,
		Formatted:    account.Format(number, typ, clearingCode),
	}
}

// ClearingInfo returns the clearing-system/member pair for the ClrSysMmbId
// element. ok is false when the account carries no clearing information.
// Every creditor-account abstraction handed to the document builder must
// provide this method; there is no runtime attribute probing.
func (a BankAccount) ClearingInfo() (system, member string, ok bool) {
	return account.ClearingInfo(a.Type, a.ClearingCode)
}

// IsIBAN reports whether the account goes into an <IBAN> element.
func (a BankAccount) IsIBAN() bool {
	return a.Type == account.TypeIBAN
}

// =============================================================================
// PAYMENT INSTRUCTIONS
// =============================================================================

// PaymentInstruction is one outbound payment in a batch.
type PaymentInstruction struct {
	// Name is the payment's display name. It seeds the InstrId and is quoted
	// in every validation error concerning this payment.
	Name string

	// Partner is the payee. Required.
	Partner Partner

	// Amount is the instructed amount, positive with 2-digit precision.
	Amount decimal.Decimal

	// Currency is the ISO currency code of the instructed amount.
	Currency string

	// Reference is the payment reference (OCR or invoice number). Seeds the
	// EndToEndId and the remittance information.
	Reference string

	// Memo is free text used for remittance info when Reference is empty.
	Memo string

	// Account is the creditor bank account. Optional; payments without one
	// omit CdtrAgt and CdtrAcct.
	Account *BankAccount

	// ExecutionDate is the requested execution date. The zero value means
	// "today" at generation time.
	ExecutionDate time.Time

	// ServiceLevel and CategoryPurpose override the journal defaults for
	// this payment when non-empty.
	ServiceLevel    string
	CategoryPurpose string

	// EndToEndID is a pre-assigned end-to-end identification. When empty a
	// fresh identifier is generated during document assembly.
	EndToEndID string

	// Row is the source row number in the batch file, for error reporting.
	Row int
}

// DisplayName returns the name used in error messages, falling back to the
// source row when the payment has no name.
func (p PaymentInstruction) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Partner.Name != "" {
		return p.Partner.Name
	}
	return "(unnamed payment)"
}

// =============================================================================
// GROUPS AND RESULTS
// =============================================================================

// PaymentGroup is a set of payments sharing (debtor account, execution date).
// Each group becomes one PmtInf block.
type PaymentGroup struct {
	// AccountID identifies the debtor account of the group.
	AccountID string

	// ExecutionDate is the group's requested execution date (ISO date).
	ExecutionDate string

	// Payments are the group members in first-seen order.
	Payments []PaymentInstruction
}

// ControlSum is the arithmetic sum of the group's amounts.
func (g PaymentGroup) ControlSum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range g.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// GeneratedDocument is the serialized pain.001 document plus its schema
// validation outcome.
type GeneratedDocument struct {
	// Filename follows swedbank_pain001_<journal>_<YYYYMMDD_HHMMSS>.xml.
	Filename string

	// Content is the serialized XML document.
	Content []byte

	// Valid reports the schema validation outcome.
	Valid bool

	// Errors holds schema violation messages, capped by the pipeline.
	Errors []string

	// Advisory is set when schema validation was skipped (XSD unavailable).
	Advisory string
}
