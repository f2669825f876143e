package service

import (
	"fmt"
	"time"

	"github.com/offerdesk/offer-backend/internal/offers/compute"
	"github.com/offerdesk/offer-backend/internal/offers/domain"
)

// Document is the static snapshot handed to an external rendering surface
// (print-to-PDF and the like). Assembling it reads state only; nothing
// persisted changes.
type Document struct {
	GeneratedAt time.Time `json:"generated_at"`

	PropertyAddress string `json:"property_address"`
	ListPrice       string `json:"list_price"`
	OfferPrice      string `json:"offer_price"`

	Financing          string `json:"financing"`
	DownPayment        string `json:"down_payment"`
	DownPaymentPercent string `json:"down_payment_percent"`
	LoanAmount         string `json:"loan_amount"`
	InterestRate       string `json:"interest_rate"`
	TermYears          int    `json:"term_years"`
	EarnestMoney       string `json:"earnest_money"`
	MonthlyPayment     string `json:"monthly_payment"`

	ClosingDate       string   `json:"closing_date"`
	Escalation        string   `json:"escalation,omitempty"`
	SellerConcessions string   `json:"seller_concessions,omitempty"`
	Contingencies     []string `json:"contingencies"`

	Attachments []domain.Attachment `json:"attachments"`
	Flags       []string            `json:"flags"`
}

// Document assembles the printable snapshot of the current draft plus its
// derived values and compliance flags.
func (s *Session) Document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draft
	st := s.stateLocked()

	doc := Document{
		GeneratedAt:        time.Now(),
		PropertyAddress:    joinAddress(d),
		ListPrice:          compute.FormatMoney(d.ListPrice.Float()),
		OfferPrice:         compute.FormatMoney(d.OfferPrice.Float()),
		Financing:          string(d.Financing),
		DownPayment:        compute.FormatMoney(st.Derived.DownPaymentDollar),
		DownPaymentPercent: fmt.Sprintf("%.1f%%", st.Derived.DownPaymentPercent),
		LoanAmount:         compute.FormatMoney(st.Derived.LoanAmount),
		InterestRate:       fmt.Sprintf("%.3f%%", d.InterestRate.Float()),
		TermYears:          int(d.TermYears.Float()),
		EarnestMoney:       compute.FormatMoney(st.Derived.EarnestDollar),
		MonthlyPayment:     compute.FormatMoney(st.Derived.TotalMonthly),
		ClosingDate:        d.ClosingDate,
		SellerConcessions:  d.SellerConcessions,
		Attachments:        append([]domain.Attachment{}, d.Attachments...),
		Flags:              st.Flags,
	}

	if d.EscalationEnabled {
		doc.Escalation = fmt.Sprintf("up to %s in %s increments",
			compute.FormatMoney(d.EscalationCap.Float()),
			compute.FormatMoney(d.EscalationIncrement.Float()))
	}

	doc.Contingencies = describeContingencies(d)
	return doc
}

func joinAddress(d *domain.OfferDraft) string {
	if d.Address == "" {
		return ""
	}
	return fmt.Sprintf("%s, %s, %s %s", d.Address, d.City, d.State, d.Zip)
}

func describeContingencies(d *domain.OfferDraft) []string {
	out := make([]string, 0, 4)
	if d.Inspection.Enabled {
		out = append(out, fmt.Sprintf("Inspection (%d days)", d.Inspection.Days))
	}
	if d.Appraisal.Enabled {
		out = append(out, "Appraisal")
	}
	if d.FinancingCont.Enabled {
		out = append(out, fmt.Sprintf("Financing (%d days)", d.FinancingCont.Days))
	}
	if d.HomeSale.Enabled {
		out = append(out, fmt.Sprintf("Home sale (%d days)", d.HomeSale.Days))
	}
	return out
}
