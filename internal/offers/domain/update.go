package domain

// ContingencyUpdate carries optional changes to one contingency.
type ContingencyUpdate struct {
	Enabled *bool `json:"enabled,omitempty"`
	Days    *int  `json:"days,omitempty"`
}

// DraftUpdate is the field-by-field mutation shape shared by live edits and
// JSON import. Every field is optional; only present fields are assigned.
// Numeric fields use Lenient so partially-shaped or older-version payloads
// merge without crashing, while wrong-typed string fields reject the whole
// payload.
type DraftUpdate struct {
	Name *string `json:"name,omitempty"`

	Address         *string  `json:"address,omitempty"`
	City            *string  `json:"city,omitempty"`
	State           *string  `json:"state,omitempty"`
	Zip             *string  `json:"zip,omitempty"`
	ListPrice       *Lenient `json:"list_price,omitempty"`
	MonthlyHOA      *Lenient `json:"monthly_hoa,omitempty"`
	AnnualTaxes     *Lenient `json:"annual_taxes,omitempty"`
	AnnualInsurance *Lenient `json:"annual_insurance,omitempty"`

	BuyerName       *string        `json:"buyer_name,omitempty"`
	BuyerEmail      *string        `json:"buyer_email,omitempty"`
	BuyerPhone      *string        `json:"buyer_phone,omitempty"`
	Financing       *FinancingType `json:"financing,omitempty"`
	InterestRate    *Lenient       `json:"interest_rate,omitempty"`
	TermYears       *Lenient       `json:"term_years,omitempty"`
	DownPaymentMode *AmountMode    `json:"down_payment_mode,omitempty"`
	DownPayment     *Lenient       `json:"down_payment,omitempty"`
	PreApproved     *bool          `json:"pre_approved,omitempty"`

	OfferPrice          *Lenient    `json:"offer_price,omitempty"`
	EarnestMode         *AmountMode `json:"earnest_mode,omitempty"`
	EarnestMoney        *Lenient    `json:"earnest_money,omitempty"`
	ClosingDate         *string     `json:"closing_date,omitempty"`
	EscalationEnabled   *bool       `json:"escalation_enabled,omitempty"`
	EscalationCap       *Lenient    `json:"escalation_cap,omitempty"`
	EscalationIncrement *Lenient    `json:"escalation_increment,omitempty"`
	SellerConcessions   *string     `json:"seller_concessions,omitempty"`

	Inspection    *ContingencyUpdate `json:"inspection,omitempty"`
	Appraisal     *ContingencyUpdate `json:"appraisal,omitempty"`
	FinancingCont *ContingencyUpdate `json:"financing_contingency,omitempty"`
	HomeSale      *ContingencyUpdate `json:"home_sale,omitempty"`

	Step *int `json:"step,omitempty"`
}
