package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		declared Type
		clearing string
		want     Type
	}{
		{
			name:     "declared IBAN wins over everything",
			number:   "SE4550000000058398257466",
			declared: TypeIBAN,
			want:     TypeIBAN,
		},
		{
			name:     "declared bankgiro keeps its type despite a clearing code",
			number:   "12345678",
			declared: TypeBankgiro,
			clearing: "9900",
			want:     TypeBankgiro,
		},
		{
			name:     "declared plusgiro keeps its type",
			number:   "12345678901",
			declared: TypePlusgiro,
			clearing: "9960",
			want:     TypePlusgiro,
		},
		{
			name:   "seven digits without clearing derives bankgiro",
			number: "1234567",
			want:   TypeBankgiro,
		},
		{
			name:   "eight digits without clearing derives bankgiro",
			number: "12345678",
			want:   TypeBankgiro,
		},
		{
			name:     "undeclared eight digits with bank clearing derives bban",
			number:   "12345678",
			clearing: "8105",
			want:     TypeBBAN,
		},
		{
			name:     "plusgiro clearing with short number",
			number:   "4789",
			clearing: "9960",
			want:     TypePlusgiro,
		},
		{
			name:     "plusgiro clearing with too long number is bban",
			number:   "12345678901",
			clearing: "9960",
			want:     TypeBBAN,
		},
		{
			name:   "dashes are ignored for classification",
			number: "123-4567",
			want:   TypeBankgiro,
		},
		{
			name:   "empty number is bban",
			number: "",
			want:   TypeBBAN,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.number, tt.declared, tt.clearing))
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input string
		want  Type
		ok    bool
	}{
		{input: "iban", want: TypeIBAN, ok: true},
		{input: "Bankgiro", want: TypeBankgiro, ok: true},
		{input: "  PLUSGIRO  ", want: TypePlusgiro, ok: true},
		{input: "bban", want: TypeBBAN, ok: true},
		{input: "girobank", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseType(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		typ      Type
		clearing string
		want     string
	}{
		{
			name:   "iban uppercased with separators removed",
			number: "se45 5000 0000 0583 9825 7466",
			typ:    TypeIBAN,
			want:   "SE4550000000058398257466",
		},
		{
			name:   "bankgiro padded to eight digits",
			number: "123-4567",
			typ:    TypeBankgiro,
			want:   "01234567",
		},
		{
			name:   "eight digit bankgiro unchanged",
			number: "12345678",
			typ:    TypeBankgiro,
			want:   "12345678",
		},
		{
			name:   "plusgiro digits as entered",
			number: "4789-2",
			typ:    TypePlusgiro,
			want:   "47892",
		},
		{
			name:     "bban with 8-series clearing pads to 5 plus 10",
			number:   "123456",
			typ:      TypeBBAN,
			clearing: "8105",
			want:     "081050000123456",
		},
		{
			name:     "bban with 7-series clearing pads account to 7",
			number:   "12345",
			typ:      TypeBBAN,
			clearing: "7000",
			want:     "70000012345",
		},
		{
			name:     "bban with other clearing concatenates",
			number:   "1234567",
			typ:      TypeBBAN,
			clearing: "5491",
			want:     "54911234567",
		},
		{
			name:   "empty number formats empty",
			number: "",
			typ:    TypeBBAN,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.number, tt.typ, tt.clearing))
		})
	}
}

func TestClearingInfo(t *testing.T) {
	system, member, ok := ClearingInfo(TypeBankgiro, "")
	assert.True(t, ok)
	assert.Equal(t, "SESBA", system)
	assert.Equal(t, "9900", member)

	system, member, ok = ClearingInfo(TypePlusgiro, "9960")
	assert.True(t, ok)
	assert.Equal(t, "SESBA", system)
	assert.Equal(t, "9960", member)

	system, member, ok = ClearingInfo(TypeBBAN, "8105")
	assert.True(t, ok)
	assert.Equal(t, "SESBA", system)
	assert.Equal(t, "8105", member)

	_, _, ok = ClearingInfo(TypeIBAN, "")
	assert.False(t, ok)

	_, _, ok = ClearingInfo(TypeBBAN, "")
	assert.False(t, ok)
}

func TestValidClearingCode(t *testing.T) {
	assert.True(t, ValidClearingCode("8105"))
	assert.True(t, ValidClearingCode("81055"))
	assert.False(t, ValidClearingCode("810"))
	assert.False(t, ValidClearingCode("810555"))
	assert.False(t, ValidClearingCode("81a5"))
	assert.False(t, ValidClearingCode(""))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1234567", Normalize("123-45 67"))
	assert.Equal(t, "", Normalize(""))
}
