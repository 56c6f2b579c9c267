// =============================================================================
// Swedbank pain.001 Generator - Document Builder
// =============================================================================
//
// This module assembles the Swedbank-specific pain.001.001.03 element tree
// from a journal configuration and a validated batch of payments.
//
// DOCUMENT STRUCTURE:
//
//   <Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.03" ...>
//     <CstmrCdtTrfInitn>
//       <GrpHdr>...</GrpHdr>
//       <PmtInf>            <!-- one per (debtor account, execution date) -->
//         ...
//         <CdtTrfTxInf>...</CdtTrfTxInf>   <!-- one per payment -->
//       </PmtInf>
//     </CstmrCdtTrfInitn>
//   </Document>
//
// The schema is order-sensitive: every block emits its children in the exact
// sequence required by the Swedbank MIG. Free text goes through the
// sanitizer, identifiers through its identifier mode, and amounts are
// decimals formatted to exactly two places.
//
// =============================================================================

package painxml

import (
	"strconv"
	"time"

	"github.com/nordkonto/swedbank-pain001/internal/account"
	"github.com/nordkonto/swedbank-pain001/internal/config"
	"github.com/nordkonto/swedbank-pain001/internal/idgen"
	"github.com/nordkonto/swedbank-pain001/internal/model"
	"github.com/nordkonto/swedbank-pain001/internal/sanitize"
	"github.com/nordkonto/swedbank-pain001/internal/validation"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// Namespace is the pain.001.001.03 document namespace.
	Namespace = "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03"

	// xsiNamespace is the XML Schema instance namespace on the root element.
	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

	// swedbankBIC is the fixed debtor agent BIC.
	swedbankBIC = "SWEDSESS"

	// homeCountry is Swedbank's home country, the last-resort agent country.
	homeCountry = "SE"

	// isoDate is the layout for ReqdExctnDt.
	isoDate = "2006-01-02"
)

// Field length limits from the Swedbank MIG.
const (
	maxNameLen     = 140
	maxCdtrNameLen = 70
	maxStreetLen   = 70
	maxCdtrAddrLen = 35
	maxCityLen     = 35
	maxZipLen      = 16
	maxIDLen       = 35
	maxRmtInfLen   = 140
)

// =============================================================================
// BUILDER
// =============================================================================

// Builder assembles pain.001 documents for one journal. It holds no mutable
// state across Build calls and is safe for concurrent use as long as the ID
// source is.
type Builder struct {
	journal *config.JournalConfig
	ids     idgen.Source
}

// NewBuilder creates a Builder for a journal.
func NewBuilder(journal *config.JournalConfig, ids idgen.Source) *Builder {
	return &Builder{journal: journal, ids: ids}
}

// Build validates the batch and serializes the document tree.
//
// RETURNS:
//   - The document bytes (XML declaration + pretty-printed markup).
//   - A ConfigurationError or BatchValidationError when validation fails;
//     no partial document is ever returned.
func (b *Builder) Build(payments []model.PaymentInstruction) ([]byte, error) {
	if err := validation.ValidateBatch(b.journal, payments); err != nil {
		return nil, err
	}

	root := NewElement("Document")
	root.SetAttr("xmlns", Namespace)
	root.SetAttr("xmlns:xsi", xsiNamespace)

	initn := root.Add("CstmrCdtTrfInitn")
	initn.Append(b.groupHeader(payments))

	groups := GroupPayments(b.journal, payments, b.ids.Now())
	for i, group := range groups {
		initn.Append(b.paymentInfo(group, i+1))
	}

	return Serialize(root), nil
}

// =============================================================================
// PAYMENT GROUPING
// =============================================================================

// GroupPayments splits a batch into one group per (debtor account identity,
// execution date) pair. Groups and the payments within them keep first-seen
// order, so identical inputs always produce identical group layouts.
//
// A zero execution date means "execute today" and is resolved against the
// supplied generation timestamp.
func GroupPayments(journal *config.JournalConfig, payments []model.PaymentInstruction, now time.Time) []model.PaymentGroup {
	accountID := journal.BankAccount().Formatted

	index := make(map[string]int)
	var groups []model.PaymentGroup

	for _, p := range payments {
		date := now.Format(isoDate)
		if !p.ExecutionDate.IsZero() {
			date = p.ExecutionDate.Format(isoDate)
		}

		key := accountID + "|" + date
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.PaymentGroup{
				AccountID:     accountID,
				ExecutionDate: date,
			})
		}
		groups[i].Payments = append(groups[i].Payments, p)
	}

	return groups
}

// =============================================================================
// GROUP HEADER
// =============================================================================

// groupHeader builds the GrpHdr element.
func (b *Builder) groupHeader(payments []model.PaymentInstruction) *Element {
	grpHdr := NewElement("GrpHdr")

	msgID := sanitize.Identifier(b.ids.MessageID(b.journal.Company.OrgID), maxIDLen)
	grpHdr.AddText("MsgId", msgID)
	grpHdr.AddText("CreDtTm", b.ids.Now().Format("2006-01-02T15:04:05"))
	grpHdr.AddText("NbOfTxs", itoa(len(payments)))
	grpHdr.AddText("CtrlSum", controlSum(payments))

	initgPty := grpHdr.Add("InitgPty")
	othr := initgPty.Add("Id").Add("OrgId").Add("Othr")
	othr.AddText("Id", b.journal.AgreementID)
	othr.Add("SchmeNm").AddText("Cd", "BANK")

	return grpHdr
}

// =============================================================================
// PAYMENT INFORMATION
// =============================================================================

// paymentInfo builds one PmtInf block for a payment group.
func (b *Builder) paymentInfo(group model.PaymentGroup, n int) *Element {
	pmtInf := NewElement("PmtInf")
	first := group.Payments[0]

	pmtInfID := sanitize.Identifier(b.ids.PaymentInfoID(b.journal.Company.OrgID, n), maxIDLen)
	pmtInf.AddText("PmtInfId", pmtInfID)
	pmtInf.AddText("PmtMtd", "TRF")
	pmtInf.AddText("BtchBookg", "true")
	pmtInf.AddText("NbOfTxs", itoa(len(group.Payments)))
	pmtInf.AddText("CtrlSum", group.ControlSum().StringFixed(2))

	pmtInf.Append(b.paymentTypeInfo(first))
	pmtInf.AddText("ReqdExctnDt", group.ExecutionDate)

	pmtInf.Append(b.debtor())
	pmtInf.Append(b.debtorAccount())
	pmtInf.Append(b.debtorAgent())

	pmtInf.AddText("ChrgBr", b.chargeBearer(first))

	for _, p := range group.Payments {
		pmtInf.Append(b.creditTransferTx(p))
	}

	return pmtInf
}

// paymentTypeInfo builds PmtTpInf, defaulting codes from the journal when
// the payment carries no override.
func (b *Builder) paymentTypeInfo(p model.PaymentInstruction) *Element {
	pmtTpInf := NewElement("PmtTpInf")
	pmtTpInf.Add("SvcLvl").AddText("Cd", b.serviceLevel(p))

	categoryPurpose := p.CategoryPurpose
	if categoryPurpose == "" {
		categoryPurpose = b.journal.CategoryPurpose
	}
	pmtTpInf.Add("CtgyPurp").AddText("Cd", categoryPurpose)

	return pmtTpInf
}

// serviceLevel resolves the effective service level for a payment.
func (b *Builder) serviceLevel(p model.PaymentInstruction) string {
	if p.ServiceLevel != "" {
		return p.ServiceLevel
	}
	return b.journal.ServiceLevel
}

// chargeBearer resolves ChrgBr. SEPA forces SLEV per the Swedbank MIG.
func (b *Builder) chargeBearer(p model.PaymentInstruction) string {
	if b.serviceLevel(p) == "SEPA" {
		return "SLEV"
	}
	return b.journal.ChargeBearer
}

// =============================================================================
// DEBTOR SIDE
// =============================================================================

// debtor builds the Dbtr element from the company identity.
func (b *Builder) debtor() *Element {
	company := b.journal.Company
	dbtr := NewElement("Dbtr")
	dbtr.AddText("Nm", sanitize.Text(company.Name, maxNameLen, true))

	pstlAdr := dbtr.Add("PstlAdr")
	if company.Country != "" {
		pstlAdr.AddText("Ctry", company.Country)
	}
	if company.Street != "" {
		pstlAdr.AddText("AdrLine", sanitize.Text(company.Street, maxStreetLen, true))
	}
	if company.City != "" {
		pstlAdr.AddText("TwnNm", sanitize.Text(company.City, maxCityLen, true))
	}
	if company.Zip != "" {
		pstlAdr.AddText("PstCd", sanitize.Text(company.Zip, maxZipLen, true))
	}

	return dbtr
}

// debtorAccount builds DbtrAcct. The settlement currency falls back from
// account currency to journal currency to company currency.
func (b *Builder) debtorAccount() *Element {
	acct := b.journal.BankAccount()
	dbtrAcct := NewElement("DbtrAcct")
	id := dbtrAcct.Add("Id")

	if acct.IsIBAN() {
		id.AddText("IBAN", acct.Formatted)
	} else {
		othr := id.Add("Othr")
		othr.AddText("Id", acct.Formatted)
		schmeNm := othr.Add("SchmeNm")
		if len(acct.Formatted) <= 8 && isDigits(acct.Formatted) {
			schmeNm.AddText("Prtry", "BGNR")
		} else {
			schmeNm.AddText("Cd", "BBAN")
		}
	}

	switch {
	case acct.Currency != "":
		dbtrAcct.AddText("Ccy", acct.Currency)
	case b.journal.Currency != "":
		dbtrAcct.AddText("Ccy", b.journal.Currency)
	default:
		dbtrAcct.AddText("Ccy", b.journal.Company.Currency)
	}

	return dbtrAcct
}

// debtorAgent builds DbtrAgt with the fixed Swedbank BIC.
func (b *Builder) debtorAgent() *Element {
	dbtrAgt := NewElement("DbtrAgt")
	finInstnID := dbtrAgt.Add("FinInstnId")
	finInstnID.AddText("BIC", swedbankBIC)
	finInstnID.Add("PstlAdr").AddText("Ctry", homeCountry)
	return dbtrAgt
}

// =============================================================================
// CREDIT TRANSFER TRANSACTIONS
// =============================================================================

// creditTransferTx builds one CdtTrfTxInf block.
func (b *Builder) creditTransferTx(p model.PaymentInstruction) *Element {
	tx := NewElement("CdtTrfTxInf")

	pmtID := tx.Add("PmtId")
	pmtID.AddText("InstrId", b.instructionID(p))
	pmtID.AddText("EndToEndId", b.endToEndID(p))

	amt := tx.Add("Amt")
	instdAmt := amt.AddText("InstdAmt", p.Amount.StringFixed(2))
	instdAmt.SetAttr("Ccy", p.Currency)

	tx.Append(b.creditorAgent(p))
	tx.Append(b.creditor(p))
	tx.Append(b.creditorAccount(p))
	tx.Append(b.remittanceInfo(p))

	return tx
}

// instructionID derives InstrId from the payment name with a row-based
// fallback for unnamed payments.
func (b *Builder) instructionID(p model.PaymentInstruction) string {
	name := p.Name
	if name == "" {
		name = "PMT-" + strconv.Itoa(p.Row)
	}
	return sanitize.Identifier(name, maxIDLen)
}

// endToEndID derives EndToEndId: pre-assigned ID, then reference, then name,
// then a fresh identifier.
func (b *Builder) endToEndID(p model.PaymentInstruction) string {
	for _, candidate := range []string{p.EndToEndID, p.Reference, p.Name} {
		if candidate != "" {
			return sanitize.Identifier(candidate, maxIDLen)
		}
	}
	return sanitize.Identifier(b.ids.EndToEndID(), maxIDLen)
}

// creditorAgent builds CdtrAgt, or nil when the payment has no creditor
// bank account.
func (b *Builder) creditorAgent(p model.PaymentInstruction) *Element {
	if p.Account == nil {
		return nil
	}

	cdtrAgt := NewElement("CdtrAgt")
	finInstnID := cdtrAgt.Add("FinInstnId")

	if p.Account.BIC != "" {
		finInstnID.AddText("BIC", p.Account.BIC)
	}

	if system, member, ok := p.Account.ClearingInfo(); ok {
		clrSysMmbID := finInstnID.Add("ClrSysMmbId")
		clrSysMmbID.Add("ClrSysId").AddText("Cd", system)
		clrSysMmbID.AddText("MmbId", member)
	}

	country := homeCountry
	if p.Account.Country != "" {
		country = p.Account.Country
	} else if p.Partner.Country != "" {
		country = p.Partner.Country
	}
	finInstnID.Add("PstlAdr").AddText("Ctry", country)

	return cdtrAgt
}

// creditor builds the Cdtr element from the partner.
func (b *Builder) creditor(p model.PaymentInstruction) *Element {
	cdtr := NewElement("Cdtr")
	cdtr.AddText("Nm", sanitize.Text(p.Partner.Name, maxCdtrNameLen, true))

	pstlAdr := cdtr.Add("PstlAdr")
	if p.Partner.Street != "" {
		pstlAdr.AddText("StrtNm", sanitize.Text(p.Partner.Street, maxCdtrAddrLen, true))
	}
	if p.Partner.Zip != "" {
		pstlAdr.AddText("PstCd", sanitize.Text(p.Partner.Zip, maxZipLen, true))
	}
	if p.Partner.City != "" {
		pstlAdr.AddText("TwnNm", sanitize.Text(p.Partner.City, maxCityLen, true))
	}
	if p.Partner.Country != "" {
		pstlAdr.AddText("Ctry", p.Partner.Country)
	}

	return cdtr
}

// creditorAccount builds CdtrAcct, or nil when the payment carries no
// account number. Bankgiro accounts use the BGNR proprietary scheme; other
// domestic accounts fall back to the BBAN code.
func (b *Builder) creditorAccount(p model.PaymentInstruction) *Element {
	if p.Account == nil || p.Account.Number == "" {
		return nil
	}

	cdtrAcct := NewElement("CdtrAcct")
	id := cdtrAcct.Add("Id")

	if p.Account.IsIBAN() {
		id.AddText("IBAN", p.Account.Formatted)
	} else {
		othr := id.Add("Othr")
		othr.AddText("Id", p.Account.Formatted)
		schmeNm := othr.Add("SchmeNm")
		if p.Account.Type == account.TypeBankgiro {
			schmeNm.AddText("Prtry", "BGNR")
		} else {
			schmeNm.AddText("Cd", "BBAN")
		}
	}

	return cdtrAcct
}

// remittanceInfo builds RmtInf from the reference or memo, or nil when
// neither is present.
func (b *Builder) remittanceInfo(p model.PaymentInstruction) *Element {
	communication := p.Reference
	if communication == "" {
		communication = p.Memo
	}
	if communication == "" {
		return nil
	}

	rmtInf := NewElement("RmtInf")
	rmtInf.AddText("Ustrd", sanitize.Text(communication, maxRmtInfLen, true))
	return rmtInf
}

// =============================================================================
// HELPERS
// =============================================================================

// controlSum formats the arithmetic sum of the batch amounts to 2 decimals.
func controlSum(payments []model.PaymentInstruction) string {
	group := model.PaymentGroup{Payments: payments}
	return group.ControlSum().StringFixed(2)
}

// itoa keeps the count conversions short at the call sites.
func itoa(n int) string {
	return strconv.Itoa(n)
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
