package service

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/offerdesk/offer-backend/internal/offers/compliance"
	"github.com/offerdesk/offer-backend/internal/offers/compute"
	"github.com/offerdesk/offer-backend/internal/offers/domain"
	"github.com/offerdesk/offer-backend/internal/offers/repository"
	"github.com/offerdesk/offer-backend/internal/offers/storage"
)

// State is what the UI renders after every interaction: the raw draft plus
// everything recomputed from it. Derived values and flags are never
// persisted; they are rebuilt on each read.
type State struct {
	Draft   *domain.OfferDraft `json:"draft"`
	Derived compute.Derived    `json:"derived"`
	Flags   []string           `json:"flags"`
}

// Session is the live editable state for one user's offer-in-progress. All
// mutations are serialized behind the mutex; each one recomputes derived
// values, re-evaluates compliance, and best-effort writes the autosave slot.
type Session struct {
	mu     sync.Mutex
	userID string
	draft  *domain.OfferDraft

	repo        *repository.DraftRepository
	attachments *storage.AttachmentStore
	log         *zap.Logger
}

// State returns the current draft with fresh derived values and flags.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		Draft:   s.draft,
		Derived: compute.Derive(s.draft),
		Flags:   compliance.Evaluate(s.draft),
	}
}

// autosaveLocked writes the autosave slot. Persistence is best-effort: on
// failure the in-memory session stays authoritative and editing continues.
func (s *Session) autosaveLocked(ctx context.Context) {
	if err := s.repo.SaveAutosave(ctx, s.userID, s.draft); err != nil {
		s.log.Warn("autosave failed", zap.String("user_id", s.userID), zap.Error(err))
	}
}

// Apply merges a field-by-field update into the draft, then recomputes and
// autosaves.
func (s *Session) Apply(ctx context.Context, u *domain.DraftUpdate) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	mergeUpdate(s.draft, u)
	s.seedOfferPriceLocked()
	s.autosaveLocked(ctx)
	return s.stateLocked()
}

// Next advances the wizard one step, clamping at the review step.
func (s *Session) Next(ctx context.Context) State {
	return s.step(ctx, 1)
}

// Back moves the wizard one step back, clamping at the property step.
func (s *Session) Back(ctx context.Context) State {
	return s.step(ctx, -1)
}

func (s *Session) step(ctx context.Context, delta int) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Step = domain.ClampStep(s.draft.Step + delta)
	s.seedOfferPriceLocked()
	s.autosaveLocked(ctx)
	return s.stateLocked()
}

// seedOfferPriceLocked copies the list price into the offer price when the
// user is on the property step and has not priced the offer yet.
func (s *Session) seedOfferPriceLocked() {
	if s.draft.Step == domain.StepProperty &&
		s.draft.OfferPrice.Float() == 0 &&
		s.draft.ListPrice.Float() > 0 {
		s.draft.OfferPrice = s.draft.ListPrice
	}
}

// Save promotes the live draft into a named draft. An empty name keeps the
// draft's current label.
func (s *Session) Save(ctx context.Context, name string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name != "" {
		s.draft.Name = name
	}
	if err := s.repo.Save(ctx, s.userID, s.draft); err != nil {
		return s.stateLocked(), err
	}
	s.autosaveLocked(ctx)
	return s.stateLocked(), nil
}

// SaveAs always stores a new named draft with a fresh ID, leaving any
// previously saved draft untouched.
func (s *Session) SaveAs(ctx context.Context, name string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.ID = ""
	if name != "" {
		s.draft.Name = name
	}
	if err := s.repo.Save(ctx, s.userID, s.draft); err != nil {
		return s.stateLocked(), err
	}
	s.autosaveLocked(ctx)
	return s.stateLocked(), nil
}

// Load replaces the live draft with a stored named draft.
func (s *Session) Load(ctx context.Context, id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.repo.Load(ctx, s.userID, id)
	if err != nil {
		return s.stateLocked(), err
	}
	s.draft = d
	s.autosaveLocked(ctx)
	return s.stateLocked(), nil
}

// Rename relabels a stored draft in the catalog. The live draft's name
// changes only when it is the renamed draft.
func (s *Session) Rename(ctx context.Context, id, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Rename(ctx, s.userID, id, newName); err != nil {
		return err
	}
	if s.draft.ID == id {
		s.draft.Name = newName
	}
	return nil
}

// Delete removes a stored draft body and its catalog entry. The live
// in-memory draft is kept even when it was loaded from the deleted entry.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(ctx, s.userID, id)
}

// List returns the user's draft catalog.
func (s *Session) List(ctx context.Context) ([]domain.DraftMeta, error) {
	return s.repo.List(ctx, s.userID)
}

// ClearAutosave empties the autosave slot without touching named drafts.
func (s *Session) ClearAutosave(ctx context.Context) error {
	return s.repo.ClearAutosave(ctx, s.userID)
}

// ExportCatalog returns the full multi-draft backup snapshot.
func (s *Session) ExportCatalog(ctx context.Context) (*domain.CatalogExport, error) {
	return s.repo.ExportCatalog(ctx, s.userID)
}

// ExportJSON serializes the live draft for manual backup and transfer.
func (s *Session) ExportJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.draft, "", "  ")
}

// ImportJSON applies a previously exported draft onto the live session.
// Fields are merged one by one; absent or unknown fields are ignored so
// older-version exports still import. Malformed JSON rejects the whole
// import and leaves the session untouched.
func (s *Session) ImportJSON(ctx context.Context, text []byte) (State, error) {
	var u domain.DraftUpdate
	if err := json.Unmarshal(text, &u); err != nil {
		return s.State(), domain.ErrInvalidImport
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mergeUpdate(s.draft, &u)
	s.autosaveLocked(ctx)
	return s.stateLocked(), nil
}

// IngestAttachment runs the file through the attachment store and appends
// the result. The attachment joins the draft only once ingestion has fully
// completed (success or recorded failure); a partial attachment is never
// visible to the rest of the session.
func (s *Session) IngestAttachment(ctx context.Context, filename, contentType string, data []byte) (domain.Attachment, State) {
	s.mu.Lock()
	draftID := s.draft.ID
	s.mu.Unlock()

	att := s.attachments.Ingest(ctx, s.userID, draftID, filename, contentType, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Attachments = append(s.draft.Attachments, att)
	s.autosaveLocked(ctx)
	return att, s.stateLocked()
}

// RemoveAttachment deletes the local reference only. Any remote object stays
// in the bucket; cleanup there is explicitly not guaranteed.
func (s *Session) RemoveAttachment(ctx context.Context, attachmentID string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.draft.Attachments {
		if a.ID == attachmentID {
			s.draft.Attachments = append(s.draft.Attachments[:i], s.draft.Attachments[i+1:]...)
			s.autosaveLocked(ctx)
			return s.stateLocked(), true
		}
	}
	return s.stateLocked(), false
}
