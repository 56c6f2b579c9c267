package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nordkonto/swedbank-pain001/internal/account"
)

func TestNewBankAccount(t *testing.T) {
	bg := NewBankAccount("123-4567", account.Type(""), "", "", "", "")
	assert.Equal(t, account.TypeBankgiro, bg.Type)
	assert.Equal(t, "01234567", bg.Formatted)
	assert.False(t, bg.IsIBAN())

	system, member, ok := bg.ClearingInfo()
	assert.True(t, ok)
	assert.Equal(t, "SESBA", system)
	assert.Equal(t, "9900", member)

	iban := NewBankAccount("se45 5000 0000 0583 9825 7466", account.TypeIBAN, "", "SWEDSESS", "SE", "SEK")
	assert.True(t, iban.IsIBAN())
	assert.Equal(t, "SE4550000000058398257466", iban.Formatted)

	_, _, ok = iban.ClearingInfo()
	assert.False(t, ok)

	declared := NewBankAccount("12345678", account.TypeBankgiro, "9900", "", "", "")
	assert.Equal(t, account.TypeBankgiro, declared.Type)
	assert.Equal(t, "12345678", declared.Formatted)

	system, member, ok = declared.ClearingInfo()
	assert.True(t, ok)
	assert.Equal(t, "SESBA", system)
	assert.Equal(t, "9900", member)
}

func TestDisplayName(t *testing.T) {
	p := PaymentInstruction{Name: "INV-1", Partner: Partner{Name: "Acme"}}
	assert.Equal(t, "INV-1", p.DisplayName())

	p.Name = ""
	assert.Equal(t, "Acme", p.DisplayName())

	p.Partner.Name = ""
	assert.Equal(t, "(unnamed payment)", p.DisplayName())
}

func TestControlSum(t *testing.T) {
	g := PaymentGroup{Payments: []PaymentInstruction{
		{Amount: decimal.RequireFromString("100.25")},
		{Amount: decimal.RequireFromString("0.10")},
		{Amount: decimal.RequireFromString("899.65")},
	}}
	assert.Equal(t, "1000.00", g.ControlSum().StringFixed(2))

	assert.Equal(t, "0.00", PaymentGroup{}.ControlSum().StringFixed(2))
}
