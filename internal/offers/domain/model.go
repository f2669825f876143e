package domain

import "time"

// FinancingType enumerates the supported financing arrangements for an offer.
type FinancingType string

const (
	FinancingCash         FinancingType = "cash"
	FinancingConventional FinancingType = "conventional"
	FinancingFHA          FinancingType = "fha"
	FinancingVA           FinancingType = "va"
)

// ValidFinancing checks if a financing type is valid
func ValidFinancing(f FinancingType) bool {
	return f == FinancingCash ||
		f == FinancingConventional ||
		f == FinancingFHA ||
		f == FinancingVA
}

// AmountMode selects how a user-entered amount is interpreted.
type AmountMode string

const (
	ModePercent AmountMode = "percent"
	ModeDollar  AmountMode = "dollar"
)

// Wizard step positions. The step stored on a draft is always clamped
// into [StepProperty, StepReview].
const (
	StepProperty = iota
	StepBuyer
	StepTerms
	StepContingencies
	StepReview

	LastStep = StepReview
)

// ClampStep forces a wizard position into the valid range.
func ClampStep(step int) int {
	if step < StepProperty {
		return StepProperty
	}
	if step > LastStep {
		return LastStep
	}
	return step
}

// Contingency is one toggleable offer contingency. Days is meaningful for
// every contingency except appraisal, which has no deadline of its own.
type Contingency struct {
	Enabled bool `json:"enabled"`
	Days    int  `json:"days,omitempty"`
}

// OfferDraft is the canonical snapshot of one offer-in-progress.
// ID is empty until the first named save and immutable afterwards.
type OfferDraft struct {
	ID      string    `json:"id,omitempty"`
	Name    string    `json:"name,omitempty"`
	SavedAt time.Time `json:"saved_at,omitempty"`

	// Property
	Address         string  `json:"address"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	Zip             string  `json:"zip"`
	ListPrice       Lenient `json:"list_price"`
	MonthlyHOA      Lenient `json:"monthly_hoa"`
	AnnualTaxes     Lenient `json:"annual_taxes"`
	AnnualInsurance Lenient `json:"annual_insurance"`

	// Buyer & financing
	BuyerName       string        `json:"buyer_name"`
	BuyerEmail      string        `json:"buyer_email"`
	BuyerPhone      string        `json:"buyer_phone"`
	Financing       FinancingType `json:"financing"`
	InterestRate    Lenient       `json:"interest_rate"`
	TermYears       Lenient       `json:"term_years"`
	DownPaymentMode AmountMode    `json:"down_payment_mode"`
	DownPayment     Lenient       `json:"down_payment"`
	PreApproved     bool          `json:"pre_approved"`

	// Offer terms
	OfferPrice          Lenient    `json:"offer_price"`
	EarnestMode         AmountMode `json:"earnest_mode"`
	EarnestMoney        Lenient    `json:"earnest_money"`
	ClosingDate         string     `json:"closing_date"`
	EscalationEnabled   bool       `json:"escalation_enabled"`
	EscalationCap       Lenient    `json:"escalation_cap"`
	EscalationIncrement Lenient    `json:"escalation_increment"`
	SellerConcessions   string     `json:"seller_concessions"`

	// Contingencies
	Inspection     Contingency `json:"inspection"`
	Appraisal      Contingency `json:"appraisal"`
	FinancingCont  Contingency `json:"financing_contingency"`
	HomeSale       Contingency `json:"home_sale"`

	Attachments []Attachment `json:"attachments"`

	Step int `json:"step"`
}

// NewDraft returns a fresh draft with the product defaults applied.
func NewDraft() *OfferDraft {
	return &OfferDraft{
		Financing:       FinancingConventional,
		TermYears:       30,
		DownPaymentMode: ModePercent,
		DownPayment:     20,
		EarnestMode:     ModePercent,
		EarnestMoney:    1,
		Inspection:      Contingency{Enabled: true, Days: 10},
		Appraisal:       Contingency{Enabled: true},
		FinancingCont:   Contingency{Enabled: true, Days: 21},
		HomeSale:        Contingency{},
		Attachments:     []Attachment{},
		Step:            StepProperty,
	}
}

// DraftMeta is one catalog entry. Exactly one exists per persisted named
// draft; the catalog is the authoritative index over draft bodies.
type DraftMeta struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
}

// CatalogExport is the full multi-draft backup snapshot.
type CatalogExport struct {
	ExportedAt time.Time    `json:"exported_at"`
	Metas      []DraftMeta  `json:"metas"`
	Drafts     []OfferDraft `json:"drafts"`
}

// AttachmentSource tags where an attachment's payload lives.
type AttachmentSource string

const (
	SourceInline AttachmentSource = "inline" // base64 data URL, small files
	SourceRemote AttachmentSource = "remote" // signed URL into object storage
	SourceFailed AttachmentSource = "failed" // upload failed, payload unavailable
)

// Attachment records one ingested file. Immutable after creation except for
// removal. DataURL is empty exactly when Source is SourceFailed; that state
// means the upload failed, not that the file was dropped.
type Attachment struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Size    int64            `json:"size"`
	Type    string           `json:"type"`
	Source  AttachmentSource `json:"source"`
	DataURL string           `json:"data_url,omitempty"`
}
