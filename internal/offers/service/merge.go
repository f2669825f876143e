package service

import "github.com/offerdesk/offer-backend/internal/offers/domain"

// mergeUpdate assigns every present update field onto the draft. Enum fields
// only take recognized values; money values are floored at zero per the
// non-negative invariant on user-entered amounts.
func mergeUpdate(d *domain.OfferDraft, u *domain.DraftUpdate) {
	if u.Name != nil {
		d.Name = *u.Name
	}

	if u.Address != nil {
		d.Address = *u.Address
	}
	if u.City != nil {
		d.City = *u.City
	}
	if u.State != nil {
		d.State = *u.State
	}
	if u.Zip != nil {
		d.Zip = *u.Zip
	}
	if u.ListPrice != nil {
		d.ListPrice = *u.ListPrice
	}
	if u.MonthlyHOA != nil {
		d.MonthlyHOA = *u.MonthlyHOA
	}
	if u.AnnualTaxes != nil {
		d.AnnualTaxes = *u.AnnualTaxes
	}
	if u.AnnualInsurance != nil {
		d.AnnualInsurance = *u.AnnualInsurance
	}

	if u.BuyerName != nil {
		d.BuyerName = *u.BuyerName
	}
	if u.BuyerEmail != nil {
		d.BuyerEmail = *u.BuyerEmail
	}
	if u.BuyerPhone != nil {
		d.BuyerPhone = *u.BuyerPhone
	}
	if u.Financing != nil && domain.ValidFinancing(*u.Financing) {
		d.Financing = *u.Financing
	}
	if u.InterestRate != nil {
		d.InterestRate = *u.InterestRate
	}
	if u.TermYears != nil {
		d.TermYears = *u.TermYears
	}
	if u.DownPaymentMode != nil && validMode(*u.DownPaymentMode) {
		d.DownPaymentMode = *u.DownPaymentMode
	}
	if u.DownPayment != nil {
		d.DownPayment = clampNonNegative(*u.DownPayment)
	}
	if u.PreApproved != nil {
		d.PreApproved = *u.PreApproved
	}

	if u.OfferPrice != nil {
		d.OfferPrice = *u.OfferPrice
	}
	if u.EarnestMode != nil && validMode(*u.EarnestMode) {
		d.EarnestMode = *u.EarnestMode
	}
	if u.EarnestMoney != nil {
		d.EarnestMoney = clampNonNegative(*u.EarnestMoney)
	}
	if u.ClosingDate != nil {
		d.ClosingDate = *u.ClosingDate
	}
	if u.EscalationEnabled != nil {
		d.EscalationEnabled = *u.EscalationEnabled
	}
	if u.EscalationCap != nil {
		d.EscalationCap = *u.EscalationCap
	}
	if u.EscalationIncrement != nil {
		d.EscalationIncrement = *u.EscalationIncrement
	}
	if u.SellerConcessions != nil {
		d.SellerConcessions = *u.SellerConcessions
	}

	mergeContingency(&d.Inspection, u.Inspection)
	mergeContingency(&d.Appraisal, u.Appraisal)
	mergeContingency(&d.FinancingCont, u.FinancingCont)
	mergeContingency(&d.HomeSale, u.HomeSale)

	if u.Step != nil {
		d.Step = domain.ClampStep(*u.Step)
	}
}

func mergeContingency(c *domain.Contingency, u *domain.ContingencyUpdate) {
	if u == nil {
		return
	}
	if u.Enabled != nil {
		c.Enabled = *u.Enabled
	}
	if u.Days != nil && *u.Days >= 0 {
		c.Days = *u.Days
	}
}

func validMode(m domain.AmountMode) bool {
	return m == domain.ModePercent || m == domain.ModeDollar
}

func clampNonNegative(v domain.Lenient) domain.Lenient {
	if v.Float() < 0 {
		return 0
	}
	return v
}
