package pipeline

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordkonto/swedbank-pain001/internal/account"
	"github.com/nordkonto/swedbank-pain001/internal/config"
	"github.com/nordkonto/swedbank-pain001/internal/idgen"
	"github.com/nordkonto/swedbank-pain001/internal/model"
	"github.com/nordkonto/swedbank-pain001/internal/schema"
	"github.com/nordkonto/swedbank-pain001/internal/validation"
)

var generatedAt = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func testJournal() *config.JournalConfig {
	return &config.JournalConfig{
		Name:            "Supplier Payments",
		Code:            "SUPPLIER",
		AgreementID:     "123456789012A001",
		PainVersion:     "pain.001.001.03",
		ServiceLevel:    "NURG",
		CategoryPurpose: "SUPP",
		ChargeBearer:    "SHAR",
		Currency:        "SEK",
		Company: config.Company{
			Name:     "Nordkonto AB",
			OrgID:    "5560001234",
			Country:  "SE",
			Currency: "SEK",
		},
		DebtorAccount: config.DebtorAccount{
			Number:   "SE4550000000058398257466",
			IBAN:     true,
			Currency: "SEK",
		},
	}
}

func testPayments() []model.PaymentInstruction {
	acct := model.NewBankAccount("12345678", account.Type(""), "", "", "", "")
	return []model.PaymentInstruction{{
		Name:      "INV-2026-001",
		Partner:   model.Partner{Name: "Acme Industrial AB", Country: "SE"},
		Amount:    decimal.RequireFromString("1000.00"),
		Currency:  "SEK",
		Reference: "99912345678",
		Account:   &acct,
	}}
}

// newTestPipeline uses a schema path that does not exist, so validation
// degrades to the advisory skip.
func newTestPipeline() *Pipeline {
	return New(idgen.Fixed(generatedAt), schema.NewValidator("testdata/does-not-exist.xsd"))
}

func TestGenerateValidated(t *testing.T) {
	doc, err := newTestPipeline().GenerateValidated(testJournal(), testPayments())
	require.NoError(t, err)

	assert.True(t, doc.Valid)
	assert.NotEmpty(t, doc.Advisory)
	assert.Contains(t, string(doc.Content), "<CstmrCdtTrfInitn>")
	assert.Equal(t, "swedbank_pain001_supplier_20260302_093000.xml", doc.Filename)
}

func TestGenerateValidatedRejectsBadBatch(t *testing.T) {
	payments := testPayments()
	payments[0].Amount = decimal.Zero

	doc, err := newTestPipeline().GenerateValidated(testJournal(), payments)

	assert.Nil(t, doc)
	var batchErr *validation.BatchValidationError
	require.ErrorAs(t, err, &batchErr)
}

func TestFilename(t *testing.T) {
	pipe := newTestPipeline()

	journal := testJournal()
	assert.Equal(t, "swedbank_pain001_supplier_20260302_093000.xml", pipe.Filename(journal))

	journal.Code = ""
	assert.Equal(t, "swedbank_pain001_payment_20260302_093000.xml", pipe.Filename(journal))
}

func TestSchemaViolationErrorCapsMessages(t *testing.T) {
	var violations []string
	for i := 0; i < 14; i++ {
		violations = append(violations, fmt.Sprintf("violation %d", i))
	}

	err := &SchemaViolationError{Journal: "SUPPLIER", Violations: violations}
	msg := err.Error()

	assert.Contains(t, msg, "violation 0")
	assert.Contains(t, msg, "violation 9")
	assert.NotContains(t, msg, "violation 10")
	assert.Contains(t, msg, "and 4 more")
	assert.Equal(t, 10, strings.Count(msg, "\n  - "))
}

func TestSchemaViolationErrorShortList(t *testing.T) {
	err := &SchemaViolationError{Journal: "SUPPLIER", Violations: []string{"only one"}}
	msg := err.Error()

	assert.Contains(t, msg, "only one")
	assert.NotContains(t, msg, "more")
}
