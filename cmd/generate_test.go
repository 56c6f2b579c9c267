package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordkonto/swedbank-pain001/internal/config"
)

func TestMatchJournal(t *testing.T) {
	journals := map[string]*config.JournalConfig{
		"SUPPLIER": {Code: "SUPPLIER", FileMatchingPatterns: []string{"supplier_*.csv"}},
		"SEPA":     {Code: "SEPA", FileMatchingPatterns: []string{"sepa_*.csv"}},
	}

	t.Run("matches by file pattern", func(t *testing.T) {
		journal := matchJournal("/data/in/supplier_batch.csv", journals)
		require.NotNil(t, journal)
		assert.Equal(t, "SUPPLIER", journal.Code)
	})

	t.Run("no pattern matches", func(t *testing.T) {
		assert.Nil(t, matchJournal("/data/in/payroll_batch.csv", journals))
	})

	t.Run("explicit journal flag wins", func(t *testing.T) {
		journalCode = "SEPA"
		defer func() { journalCode = "" }()

		journal := matchJournal("/data/in/supplier_batch.csv", journals)
		require.NotNil(t, journal)
		assert.Equal(t, "SEPA", journal.Code)
	})

	t.Run("overlapping patterns route stably", func(t *testing.T) {
		overlapping := map[string]*config.JournalConfig{
			"SUPPLIER": {Code: "SUPPLIER", FileMatchingPatterns: []string{"*.csv"}},
			"SEPA":     {Code: "SEPA", FileMatchingPatterns: []string{"*.csv"}},
			"INTERNAL": {Code: "INTERNAL", FileMatchingPatterns: []string{"*.csv"}},
		}

		for i := 0; i < 20; i++ {
			journal := matchJournal("/data/in/supplier_batch.csv", overlapping)
			require.NotNil(t, journal)
			assert.Equal(t, "INTERNAL", journal.Code)
		}
	})
}
