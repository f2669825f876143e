// Package compute holds the pure numeric derivation functions for the offer
// builder. Nothing here has side effects and nothing here errors: all inputs
// are coerced defensively, matching the lenient-numeric policy of the forms.
package compute

import (
	"math"
	"strconv"
	"strings"

	"github.com/offerdesk/offer-backend/internal/offers/domain"
)

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ToDollar resolves a percent-or-dollar amount against a base price.
// Percent mode returns base*value/100; dollar mode returns value unchanged.
func ToDollar(mode domain.AmountMode, value, base float64) float64 {
	value = sanitize(value)
	base = sanitize(base)
	if mode == domain.ModePercent {
		return base * value / 100
	}
	return value
}

// ToPercent is the inverse of ToDollar: given a resolved dollar amount, it
// recovers the mode's stored representation. A zero base yields 0 instead of
// a division fault.
func ToPercent(mode domain.AmountMode, value, base float64) float64 {
	value = sanitize(value)
	base = sanitize(base)
	if mode == domain.ModePercent {
		if base == 0 {
			return 0
		}
		return value / base * 100
	}
	return value
}

// AmortizedPayment computes the fixed-rate monthly payment for a loan.
// A zero rate degrades to straight-line principal/n; zero or absent
// principal, rate bundle, or term yields 0.
func AmortizedPayment(principal, annualRatePercent, termYears float64) float64 {
	principal = sanitize(principal)
	annualRatePercent = sanitize(annualRatePercent)
	termYears = sanitize(termYears)

	if principal <= 0 || termYears <= 0 {
		return 0
	}

	n := termYears * 12
	r := annualRatePercent / 100 / 12
	if r == 0 {
		return principal / n
	}

	pow := math.Pow(1+r, n)
	return principal * r * pow / (pow - 1)
}

// MonthlyEscrow spreads annual taxes and insurance across twelve months and
// adds the monthly HOA dues.
func MonthlyEscrow(annualTaxes, annualInsurance, monthlyHOA float64) float64 {
	return sanitize(annualTaxes)/12 + sanitize(annualInsurance)/12 + sanitize(monthlyHOA)
}

// Derived holds every value recomputed from the draft's raw fields on each
// read. None of these are ever persisted; storing them would risk staleness
// against edited inputs.
type Derived struct {
	DownPaymentDollar  float64 `json:"down_payment_dollar"`
	DownPaymentPercent float64 `json:"down_payment_percent"`
	LoanAmount         float64 `json:"loan_amount"`
	EarnestDollar      float64 `json:"earnest_dollar"`
	MonthlyPI          float64 `json:"monthly_pi"`
	MonthlyEscrow      float64 `json:"monthly_escrow"`
	TotalMonthly       float64 `json:"total_monthly"`
}

// Derive recomputes the full affordability roll-up for a draft.
// For cash financing the principal-and-interest contribution is 0 by
// definition; the total monthly is escrow alone.
func Derive(d *domain.OfferDraft) Derived {
	offer := d.OfferPrice.Float()

	down := ToDollar(d.DownPaymentMode, d.DownPayment.Float(), offer)
	loan := offer - down
	if loan < 0 {
		loan = 0
	}

	escrow := MonthlyEscrow(d.AnnualTaxes.Float(), d.AnnualInsurance.Float(), d.MonthlyHOA.Float())

	var pi float64
	if d.Financing != domain.FinancingCash {
		pi = AmortizedPayment(loan, d.InterestRate.Float(), d.TermYears.Float())
	}

	return Derived{
		DownPaymentDollar:  down,
		DownPaymentPercent: ToPercent(domain.ModePercent, down, offer),
		LoanAmount:         loan,
		EarnestDollar:      ToDollar(d.EarnestMode, d.EarnestMoney.Float(), offer),
		MonthlyPI:          pi,
		MonthlyEscrow:      escrow,
		TotalMonthly:       pi + escrow,
	}
}

// FormatMoney renders a dollar amount with thousands separators, rounded to
// whole dollars ("$1,234,567"). Negative amounts keep the sign ahead of the
// dollar symbol.
func FormatMoney(v float64) string {
	v = sanitize(v)
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(math.Round(v)), 'f', 0, 64)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
		if len(s) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
