// =============================================================================
// Swedbank pain.001 Generator - Configuration Module
// =============================================================================
//
// This module loads and validates all configuration files.
//
// CONFIGURATION FILES:
//   1. Main Config (config.yaml): directories, schema location, logging,
//      concurrency settings.
//   2. Journal Configs (configs/*.yaml): one file per payment journal with
//      the Swedbank agreement, company identity, debtor account and the
//      ISO 20022 defaults (service level, category purpose, charge bearer).
//
// All pattern and enum constraints are enforced here, at load time, so the
// generation pipeline can assume well-formed configuration:
//   - agreement ID matches ^[0-9]{12}[A-Z][0-9]{3}$
//   - clearing codes match ^[0-9]{4,5}$
//   - service level / category purpose / charge bearer take enumerated values
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/nordkonto/swedbank-pain001/internal/account"
	"github.com/nordkonto/swedbank-pain001/internal/model"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration, loaded from the
// main config.yaml file.
type MainConfig struct {
	// InputDir is scanned for payment batch files (CSV/XLSX).
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the generated pain.001 XML files.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives batch files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives copies of generated XML for long-term storage.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// JournalsDir contains the per-journal YAML configurations.
	// Default: "./configs"
	JournalsDir string `yaml:"journals_dir"`

	// SchemaPath points at the Swedbank pain.001.001.03 XSD. When the file
	// is absent, schema validation degrades to an advisory warning instead
	// of blocking generation.
	// Default: "./schemas/pain.001.001.03.xsd"
	SchemaPath string `yaml:"schema_path"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// MaxConcurrency is the number of batch files processed concurrently.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps processing other batch files when one fails.
	ContinueOnError bool `yaml:"continue_on_error"`
}

// =============================================================================
// JOURNAL CONFIGURATION STRUCTURE
// =============================================================================

// JournalConfig holds the per-journal settings the document builder reads.
// The core never writes these back; they are an immutable snapshot of host
// configuration.
type JournalConfig struct {
	// Name is the human-readable journal name, used in error messages.
	Name string `yaml:"name"`

	// Code is the short journal code used in output file names.
	Code string `yaml:"code"`

	// AgreementID is the Swedbank payment file agreement ID.
	// Format: nnnnnnnnnnnnAnnn (e.g. 123456789012A001).
	AgreementID string `yaml:"agreement_id"`

	// PainVersion is the ISO 20022 message version. Only pain.001.001.03
	// is supported.
	PainVersion string `yaml:"pain_version"`

	// ServiceLevel is the default service level: NURG, SEPA, URGP, SDVA.
	ServiceLevel string `yaml:"service_level"`

	// CategoryPurpose is the default category purpose: SUPP, CORT, TREA, INTC.
	CategoryPurpose string `yaml:"category_purpose"`

	// ChargeBearer is the default charge bearer: SHAR, SLEV, DEBT, CRED.
	// SEPA payments always emit SLEV regardless of this setting.
	ChargeBearer string `yaml:"charge_bearer"`

	// Currency is the journal currency, the second fallback for DbtrAcct/Ccy.
	Currency string `yaml:"currency"`

	// Company is the debtor party identity and address.
	Company Company `yaml:"company"`

	// DebtorAccount is the account debited by every payment in the journal.
	DebtorAccount DebtorAccount `yaml:"debtor_account"`

	// FileMatchingPatterns are glob patterns matched against batch file
	// names to route a file to this journal.
	FileMatchingPatterns []string `yaml:"file_matching_patterns"`
}

// Company is the debtor party (initiating company).
type Company struct {
	Name string `yaml:"name"`

	// OrgID is the company identity used as the MsgId/PmtInfId prefix.
	OrgID string `yaml:"org_id"`

	Street   string `yaml:"street"`
	City     string `yaml:"city"`
	Zip      string `yaml:"zip"`
	Country  string `yaml:"country"`
	Currency string `yaml:"currency"`
}

// DebtorAccount is the journal's bank account as configured.
type DebtorAccount struct {
	// Number is the account number; normally an IBAN.
	Number string `yaml:"number"`

	// Type is the declared account type: iban, bban, bankgiro or plusgiro.
	// When empty the type is derived from the number and clearing code.
	Type string `yaml:"type"`

	// IBAN declares the number as an IBAN; shorthand for type: iban.
	IBAN bool `yaml:"iban"`

	// ClearingCode is the Swedish clearing code, optional.
	ClearingCode string `yaml:"clearing_code"`

	// Currency is the account currency, first choice for DbtrAcct/Ccy.
	Currency string `yaml:"currency"`
}

// BankAccount returns the debtor account as a classified model account.
func (j JournalConfig) BankAccount() model.BankAccount {
	declared, _ := account.ParseType(j.DebtorAccount.Type)
	if declared == "" && j.DebtorAccount.IBAN {
		declared = account.TypeIBAN
	}
	return model.NewBankAccount(
		j.DebtorAccount.Number,
		declared,
		j.DebtorAccount.ClearingCode,
		"", "",
		j.DebtorAccount.Currency,
	)
}

// HasDebtorAccount reports whether a debtor account is configured.
func (j JournalConfig) HasDebtorAccount() bool {
	return j.DebtorAccount.Number != ""
}

// =============================================================================
// ENUMERATIONS AND PATTERNS
// =============================================================================

// AgreementIDPattern is the Swedbank agreement ID format.
var AgreementIDPattern = regexp.MustCompile(`^[0-9]{12}[A-Z][0-9]{3}$`)

var (
	serviceLevels     = map[string]bool{"NURG": true, "SEPA": true, "URGP": true, "SDVA": true}
	categoryPurposes  = map[string]bool{"SUPP": true, "CORT": true, "TREA": true, "INTC": true}
	chargeBearers     = map[string]bool{"SHAR": true, "SLEV": true, "DEBT": true, "CRED": true}
	supportedVersions = map[string]bool{"pain.001.001.03": true}
)

// ValidServiceLevel reports whether s is an allowed service level code.
func ValidServiceLevel(s string) bool { return serviceLevels[s] }

// ValidCategoryPurpose reports whether s is an allowed category purpose code.
func ValidCategoryPurpose(s string) bool { return categoryPurposes[s] }

// ValidChargeBearer reports whether s is an allowed charge bearer code.
func ValidChargeBearer(s string) bool { return chargeBearers[s] }

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file, applies
// defaults and creates any missing working directories.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg MainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&cfg)

	if err := ensureDirectories(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyMainConfigDefaults sets default values for any unset options.
func applyMainConfigDefaults(cfg *MainConfig) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.OutputArchiveDir == "" {
		cfg.OutputArchiveDir = "./output_archive"
	}
	if cfg.JournalsDir == "" {
		cfg.JournalsDir = "./configs"
	}
	if cfg.SchemaPath == "" {
		cfg.SchemaPath = "./schemas/pain.001.001.03.xsd"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
}

// ensureDirectories creates the working directories when missing.
func ensureDirectories(cfg *MainConfig) error {
	dirs := []string{
		cfg.InputDir,
		cfg.OutputDir,
		cfg.InputArchiveDir,
		cfg.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	return nil
}

// LoadJournalConfigs loads all journal configurations from a directory,
// keyed by journal code.
func LoadJournalConfigs(journalsDir string) (map[string]*JournalConfig, error) {
	journals := make(map[string]*JournalConfig)

	files, err := filepath.Glob(filepath.Join(journalsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list journal configs: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(journalsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list journal configs: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		journal, err := LoadJournalConfig(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}

		key := journal.Code
		if key == "" {
			key = filepath.Base(file)
		}
		journals[key] = journal
	}

	return journals, nil
}

// LoadJournalConfig loads and validates a single journal configuration file.
func LoadJournalConfig(path string) (*JournalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var journal JournalConfig
	if err := yaml.Unmarshal(data, &journal); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	applyJournalDefaults(&journal)

	if err := ValidateJournal(&journal); err != nil {
		return nil, err
	}

	return &journal, nil
}

// applyJournalDefaults sets the ISO 20022 defaults matching the Swedbank MIG.
func applyJournalDefaults(journal *JournalConfig) {
	if journal.PainVersion == "" {
		journal.PainVersion = "pain.001.001.03"
	}
	if journal.ServiceLevel == "" {
		journal.ServiceLevel = "NURG"
	}
	if journal.CategoryPurpose == "" {
		journal.CategoryPurpose = "SUPP"
	}
	if journal.ChargeBearer == "" {
		journal.ChargeBearer = "SHAR"
	}
}

// ValidateJournal checks the pattern and enumeration constraints on a
// journal configuration. The agreement ID may be empty here; its presence is
// re-checked by the batch validator so an incomplete journal fails at
// generation time with a configuration error rather than failing the load.
func ValidateJournal(journal *JournalConfig) error {
	if journal.AgreementID != "" && !AgreementIDPattern.MatchString(journal.AgreementID) {
		return fmt.Errorf(
			"journal %q: invalid agreement ID format, expected nnnnnnnnnnnnAnnn (e.g. 123456789012A001)",
			journal.Name)
	}

	if !supportedVersions[journal.PainVersion] {
		return fmt.Errorf("journal %q: unsupported PAIN version %q", journal.Name, journal.PainVersion)
	}

	if !ValidServiceLevel(journal.ServiceLevel) {
		return fmt.Errorf("journal %q: invalid service level %q", journal.Name, journal.ServiceLevel)
	}
	if !ValidCategoryPurpose(journal.CategoryPurpose) {
		return fmt.Errorf("journal %q: invalid category purpose %q", journal.Name, journal.CategoryPurpose)
	}
	if !ValidChargeBearer(journal.ChargeBearer) {
		return fmt.Errorf("journal %q: invalid charge bearer %q", journal.Name, journal.ChargeBearer)
	}

	if cc := journal.DebtorAccount.ClearingCode; cc != "" && !account.ValidClearingCode(cc) {
		return fmt.Errorf("journal %q: clearing code must be 4 or 5 digits", journal.Name)
	}

	if dt := journal.DebtorAccount.Type; dt != "" {
		if _, ok := account.ParseType(dt); !ok {
			return fmt.Errorf("journal %q: unknown account type %q", journal.Name, dt)
		}
	}

	return nil
}
