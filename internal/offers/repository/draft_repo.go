package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/offerdesk/offer-backend/internal/offers/domain"
)

const (
	autosaveKeyPrefix = "offer:autosave:" // Single slot per user: offer:autosave:{user_id}
	draftKeyPrefix    = "offer:draft:"    // Named draft bodies: offer:draft:{user_id}:{draft_id}
	catalogKeyPrefix  = "offer:catalog:"  // Sorted []DraftMeta per user: offer:catalog:{user_id}
)

// DraftRepository handles Redis operations for offer drafts. Bodies and the
// catalog are separate addressable resources; multi-key writes go through a
// pipeline so a save or delete never leaves an orphaned body or meta.
type DraftRepository struct {
	client *redis.Client
}

// NewDraftRepository creates a new DraftRepository
func NewDraftRepository(client *redis.Client) *DraftRepository {
	return &DraftRepository{client: client}
}

// SaveAutosave overwrites the user's autosave slot with the current draft.
func (r *DraftRepository) SaveAutosave(ctx context.Context, userID string, d *domain.OfferDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal autosave draft: %w", err)
	}
	if err := r.client.Set(ctx, r.autosaveKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write autosave slot: %w", err)
	}
	return nil
}

// LoadAutosave returns the autosaved draft, or nil when the slot is empty.
func (r *DraftRepository) LoadAutosave(ctx context.Context, userID string) (*domain.OfferDraft, error) {
	data, err := r.client.Get(ctx, r.autosaveKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read autosave slot: %w", err)
	}

	var d domain.OfferDraft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal autosave draft: %w", err)
	}
	return &d, nil
}

// ClearAutosave removes the autosave slot without touching named drafts.
func (r *DraftRepository) ClearAutosave(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, r.autosaveKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear autosave slot: %w", err)
	}
	return nil
}

// Save upserts a named draft body and its catalog entry. A draft without an
// ID gets a fresh one; the ID never changes afterwards. The catalog drops
// any stale meta for the same ID before the new entry is inserted, then is
// re-sorted most-recently-saved first.
func (r *DraftRepository) Save(ctx context.Context, userID string, d *domain.OfferDraft) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.SavedAt = time.Now()
	d.Step = domain.ClampStep(d.Step)

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	metas, err := r.List(ctx, userID)
	if err != nil {
		return err
	}

	kept := make([]domain.DraftMeta, 0, len(metas)+1)
	for _, m := range metas {
		if m.ID != d.ID {
			kept = append(kept, m)
		}
	}
	kept = append(kept, domain.DraftMeta{ID: d.ID, Name: d.Name, SavedAt: d.SavedAt})
	sortMetas(kept)

	catalogData, err := json.Marshal(kept)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.draftKey(userID, d.ID), data, 0)
	pipe.Set(ctx, r.catalogKey(userID), catalogData, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return nil
}

// Load returns a named draft body. It never mutates the catalog.
func (r *DraftRepository) Load(ctx context.Context, userID, id string) (*domain.OfferDraft, error) {
	data, err := r.client.Get(ctx, r.draftKey(userID, id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var d domain.OfferDraft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	d.Step = domain.ClampStep(d.Step)
	return &d, nil
}

// List returns the catalog, most-recently-saved first.
func (r *DraftRepository) List(ctx context.Context, userID string) ([]domain.DraftMeta, error) {
	data, err := r.client.Get(ctx, r.catalogKey(userID)).Result()
	if err == redis.Nil {
		return []domain.DraftMeta{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	var metas []domain.DraftMeta
	if err := json.Unmarshal([]byte(data), &metas); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return metas, nil
}

// Rename updates the catalog entry's name only. The stored body keeps its
// embedded name until the next save.
func (r *DraftRepository) Rename(ctx context.Context, userID, id, newName string) error {
	metas, err := r.List(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range metas {
		if metas[i].ID == id {
			metas[i].Name = newName
			found = true
			break
		}
	}
	if !found {
		return domain.ErrDraftNotFound
	}

	data, err := json.Marshal(metas)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := r.client.Set(ctx, r.catalogKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to rename draft: %w", err)
	}
	return nil
}

// Delete removes the body and the catalog entry together.
func (r *DraftRepository) Delete(ctx context.Context, userID, id string) error {
	metas, err := r.List(ctx, userID)
	if err != nil {
		return err
	}

	kept := make([]domain.DraftMeta, 0, len(metas))
	found := false
	for _, m := range metas {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return domain.ErrDraftNotFound
	}

	catalogData, err := json.Marshal(kept)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.draftKey(userID, id))
	pipe.Set(ctx, r.catalogKey(userID), catalogData, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// ExportCatalog assembles the full backup snapshot: every catalog entry plus
// every draft body, in catalog order.
func (r *DraftRepository) ExportCatalog(ctx context.Context, userID string) (*domain.CatalogExport, error) {
	metas, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &domain.CatalogExport{
		ExportedAt: time.Now(),
		Metas:      metas,
		Drafts:     make([]domain.OfferDraft, 0, len(metas)),
	}
	for _, m := range metas {
		d, err := r.Load(ctx, userID, m.ID)
		if err == domain.ErrDraftNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Drafts = append(out.Drafts, *d)
	}
	return out, nil
}

// Users lists every user ID that currently has a catalog.
func (r *DraftRepository) Users(ctx context.Context) ([]string, error) {
	var users []string
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, catalogKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalogs: %w", err)
		}
		for _, k := range keys {
			users = append(users, strings.TrimPrefix(k, catalogKeyPrefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return users, nil
}

// RepairCatalog reconciles the catalog against the stored bodies: entries
// without a body are dropped and bodies missing from the catalog are
// re-indexed. The KV store spans no transactions across keys, so this sweep
// backstops the consistency invariant after a partial failure.
func (r *DraftRepository) RepairCatalog(ctx context.Context, userID string) (dropped, indexed int, err error) {
	metas, err := r.List(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	bodyIDs := make(map[string]bool)
	prefix := draftKeyPrefix + userID + ":"
	var cursor uint64
	for {
		keys, next, scanErr := r.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if scanErr != nil {
			return 0, 0, fmt.Errorf("failed to scan draft bodies: %w", scanErr)
		}
		for _, k := range keys {
			bodyIDs[strings.TrimPrefix(k, prefix)] = true
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	kept := make([]domain.DraftMeta, 0, len(metas))
	indexedIDs := make(map[string]bool)
	for _, m := range metas {
		if !bodyIDs[m.ID] {
			dropped++
			continue
		}
		kept = append(kept, m)
		indexedIDs[m.ID] = true
	}

	for id := range bodyIDs {
		if indexedIDs[id] {
			continue
		}
		d, loadErr := r.Load(ctx, userID, id)
		if loadErr != nil {
			continue
		}
		kept = append(kept, domain.DraftMeta{ID: d.ID, Name: d.Name, SavedAt: d.SavedAt})
		indexed++
	}

	if dropped == 0 && indexed == 0 {
		return 0, 0, nil
	}

	sortMetas(kept)
	data, err := json.Marshal(kept)
	if err != nil {
		return dropped, indexed, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := r.client.Set(ctx, r.catalogKey(userID), data, 0).Err(); err != nil {
		return dropped, indexed, fmt.Errorf("failed to write repaired catalog: %w", err)
	}
	return dropped, indexed, nil
}

func sortMetas(metas []domain.DraftMeta) {
	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].SavedAt.After(metas[j].SavedAt)
	})
}

// Helper methods for key generation
func (r *DraftRepository) autosaveKey(userID string) string {
	return autosaveKeyPrefix + userID
}

func (r *DraftRepository) draftKey(userID, id string) string {
	return fmt.Sprintf("%s%s:%s", draftKeyPrefix, userID, id)
}

func (r *DraftRepository) catalogKey(userID string) string {
	return catalogKeyPrefix + userID
}
