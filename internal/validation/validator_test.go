package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordkonto/swedbank-pain001/internal/account"
	"github.com/nordkonto/swedbank-pain001/internal/config"
	"github.com/nordkonto/swedbank-pain001/internal/model"
)

// testJournal returns a journal configuration that passes ValidateConfig.
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

// testPayment returns a payment that passes every rule under the NURG default.
func testPayment() model.PaymentInstruction {
	acct := model.NewBankAccount("12345678", account.Type(""), "", "", "", "")
	return model.PaymentInstruction{
		Name:     "INV-2026-001",
		Partner:  model.Partner{Name: "Acme Industrial AB", Country: "SE"},
		Amount:   decimal.RequireFromString("1000.00"),
		Currency: "SEK",
		Account:  &acct,
	}
}

func TestValidateConfig(t *testing.T) {
	t.Run("valid journal passes", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(testJournal()))
	})

	t.Run("missing agreement ID", func(t *testing.T) {
		journal := testJournal()
		journal.AgreementID = ""

		err := ValidateConfig(journal)
		require.Error(t, err)

		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "Supplier Payments", cfgErr.Journal)
		assert.Contains(t, cfgErr.Reason, "agreement ID is not configured")
	})

	t.Run("malformed agreement ID", func(t *testing.T) {
		journal := testJournal()
		journal.AgreementID = "12345A001"

		var cfgErr *ConfigurationError
		require.ErrorAs(t, ValidateConfig(journal), &cfgErr)
		assert.Contains(t, cfgErr.Reason, "malformed")
	})

	t.Run("missing debtor account", func(t *testing.T) {
		journal := testJournal()
		journal.DebtorAccount = config.DebtorAccount{}

		var cfgErr *ConfigurationError
		require.ErrorAs(t, ValidateConfig(journal), &cfgErr)
		assert.Contains(t, cfgErr.Reason, "bank account is not configured")
	})
}

func TestValidateBatch(t *testing.T) {
	t.Run("valid batch passes", func(t *testing.T) {
		assert.NoError(t, ValidateBatch(testJournal(), []model.PaymentInstruction{testPayment()}))
	})

	t.Run("missing partner", func(t *testing.T) {
		p := testPayment()
		p.Partner = model.Partner{}

		var batchErr *BatchValidationError
		require.ErrorAs(t, ValidateBatch(testJournal(), []model.PaymentInstruction{p}), &batchErr)
		assert.Equal(t, "partner_required", batchErr.Rule)
		assert.Equal(t, "INV-2026-001", batchErr.Payment)
	})

	t.Run("zero amount rejected and names the payment", func(t *testing.T) {
		p := testPayment()
		p.Amount = decimal.Zero

		var batchErr *BatchValidationError
		require.ErrorAs(t, ValidateBatch(testJournal(), []model.PaymentInstruction{p}), &batchErr)
		assert.Equal(t, "positive_amount", batchErr.Rule)
		assert.Equal(t, "INV-2026-001", batchErr.Payment)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		p := testPayment()
		p.Amount = decimal.RequireFromString("-5.00")

		var batchErr *BatchValidationError
		require.ErrorAs(t, ValidateBatch(testJournal(), []model.PaymentInstruction{p}), &batchErr)
		assert.Equal(t, "positive_amount", batchErr.Rule)
	})

	t.Run("unknown service level override rejected", func(t *testing.T) {
		p := testPayment()
		p.ServiceLevel = "EXPRESS"

		var batchErr *BatchValidationError
		require.ErrorAs(t, ValidateBatch(testJournal(), []model.PaymentInstruction{p}), &batchErr)
		assert.Equal(t, "valid_service_level", batchErr.Rule)
		assert.Contains(t, batchErr.Reason, "EXPRESS")
	})

	t.Run("unknown category purpose override rejected", func(t *testing.T) {
		p := testPayment()
		p.CategoryPurpose = "MISC"

		var batchErr *BatchValidationError
		require.ErrorAs(t, ValidateBatch(testJournal(), []model.PaymentInstruction{p}), &batchErr)
		assert.Equal(t, "valid_category_purpose", batchErr.Rule)
		assert.Contains(t, batchErr.Reason, "MISC")
	})

	t.Run("known overrides pass", func(t *testing.T) {
		p := testPayment()
		p.ServiceLevel = "URGP"
		p.CategoryPurpose = "TREA"

		assert.NoError(t, ValidateBatch(testJournal(), []model.PaymentInstruction{p}))
	})

	t.Run("fails fast on the first offending payment", func(t *testing.T) {
		bad := testPayment()
		bad.Name = "FIRST-BAD"
		bad.Amount = decimal.Zero
		alsoBad := testPayment()
		alsoBad.Name = "SECOND-BAD"
		alsoBad.Partner = model.Partner{}

		var batchErr *BatchValidationError
		require.ErrorAs(t, ValidateBatch(testJournal(), []model.PaymentInstruction{bad, alsoBad}), &batchErr)
		assert.Equal(t, "FIRST-BAD", batchErr.Payment)
	})
}

func TestValidateBatchSEPA(t *testing.T) {
	sepaJournal := func() *config.JournalConfig {
		journal := testJournal()
		journal.ServiceLevel = "SEPA"
		journal.ChargeBearer = "SLEV"
		return journal
	}

	sepaPayment := func() model.PaymentInstruction {
		acct := model.NewBankAccount("DE89370400440532013000", account.TypeIBAN, "", "COBADEFF", "DE", "")
		p := testPayment()
		p.Currency = "EUR"
		p.Account = &acct
		return p
	}

	t.Run("eur to iban passes", func(t *testing.T) {
		assert.NoError(t, ValidateBatch(sepaJournal(), []model.PaymentInstruction{sepaPayment()}))
	})

	t.Run("non-eur currency rejected", func(t *testing.T) {
		p := sepaPayment()
		p.Currency = "SEK"

		var batchErr *BatchValidationError
		require.ErrorAs(t, ValidateBatch(sepaJournal(), []model.PaymentInstruction{p}), &batchErr)
		assert.Equal(t, "sepa_currency", batchErr.Rule)
		assert.Contains(t, batchErr.Reason, "SEK")
	})

	t.Run("non-iban creditor account rejected", func(t *testing.T) {
		acct := model.NewBankAccount("12345678", account.Type(""), "", "", "", "")
		p := sepaPayment()
		p.Account = &acct

		var batchErr *BatchValidationError
		require.ErrorAs(t, ValidateBatch(sepaJournal(), []model.PaymentInstruction{p}), &batchErr)
		assert.Equal(t, "sepa_iban", batchErr.Rule)
	})

	t.Run("payment-level service level override triggers sepa rules", func(t *testing.T) {
		p := testPayment() // SEK, bankgiro account
		p.ServiceLevel = "SEPA"

		var batchErr *BatchValidationError
		require.ErrorAs(t, ValidateBatch(testJournal(), []model.PaymentInstruction{p}), &batchErr)
		assert.Equal(t, "sepa_currency", batchErr.Rule)
	})
}
