// Package compliance maps full draft state to an ordered list of
// human-readable deficiency flags. The check order is fixed and every check
// runs; callers re-evaluate on each relevant field change rather than
// caching results across edits.
package compliance

import (
	"github.com/offerdesk/offer-backend/internal/offers/compute"
	"github.com/offerdesk/offer-backend/internal/offers/domain"
)

// Evaluate returns the deficiency flags for a draft, in check order.
func Evaluate(d *domain.OfferDraft) []string {
	flags := make([]string, 0, 8)

	if d.Address == "" || d.City == "" || d.State == "" || d.Zip == "" {
		flags = append(flags, "Missing property address")
	}

	if d.OfferPrice.Float() <= 0 {
		flags = append(flags, "Offer price required")
	}

	financed := d.Financing != domain.FinancingCash

	if financed && !d.PreApproved && len(d.Attachments) == 0 {
		flags = append(flags, "Attach pre-approval letter")
	}

	if financed && (d.InterestRate.Float() <= 0 || d.TermYears.Float() <= 0) {
		flags = append(flags, "Interest rate and term required")
	}

	if d.ClosingDate == "" {
		flags = append(flags, "Closing date not set")
	}

	if d.EscalationEnabled && d.EscalationCap.Float() <= 0 {
		flags = append(flags, "Escalation cap missing")
	}
	if d.EscalationEnabled && d.EscalationIncrement.Float() <= 0 {
		flags = append(flags, "Escalation increment missing")
	}

	if compute.ToDollar(d.DownPaymentMode, d.DownPayment.Float(), d.OfferPrice.Float()) < 0 {
		flags = append(flags, "Down payment invalid")
	}

	return flags
}
