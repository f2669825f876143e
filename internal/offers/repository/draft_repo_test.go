package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerdesk/offer-backend/internal/offers/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func sampleDraft(name string) *domain.OfferDraft {
	d := domain.NewDraft()
	d.Name = name
	d.Address = "12 Maple Ave"
	d.City = "Springfield"
	d.State = "IL"
	d.Zip = "62704"
	d.ListPrice = 500000
	d.OfferPrice = 495000
	d.BuyerName = "Pat Rowan"
	d.ClosingDate = "2026-10-15"
	d.Step = 2
	return d
}

func TestDraftRepository_SaveLoadRoundTrip(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)
	ctx := context.Background()

	before := time.Now()
	d := sampleDraft("First Offer")
	require.NoError(t, repo.Save(ctx, "user1", d))
	require.NotEmpty(t, d.ID)

	got, err := repo.Load(ctx, "user1", d.ID)
	require.NoError(t, err)

	assert.False(t, got.SavedAt.Before(before))

	// Every field except SavedAt round-trips exactly.
	got.SavedAt = d.SavedAt
	assert.Equal(t, d, got)
}

func TestDraftRepository_SaveKeepsID(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)
	ctx := context.Background()

	d := sampleDraft("First Offer")
	require.NoError(t, repo.Save(ctx, "user1", d))
	id := d.ID

	d.OfferPrice = 505000
	require.NoError(t, repo.Save(ctx, "user1", d))
	assert.Equal(t, id, d.ID)

	metas, err := repo.List(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, metas, 1, "re-saving must not duplicate the catalog entry")
	assert.Equal(t, id, metas[0].ID)
}

func TestDraftRepository_LoadMissing(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)

	_, err := repo.Load(context.Background(), "user1", "nope")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestDraftRepository_CatalogSortedBySavedAtDesc(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)
	ctx := context.Background()

	first := sampleDraft("older")
	require.NoError(t, repo.Save(ctx, "user1", first))

	time.Sleep(5 * time.Millisecond)

	second := sampleDraft("newer")
	require.NoError(t, repo.Save(ctx, "user1", second))

	metas, err := repo.List(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "newer", metas[0].Name)
	assert.Equal(t, "older", metas[1].Name)
}

func TestDraftRepository_Rename(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)
	ctx := context.Background()

	d := sampleDraft("before")
	require.NoError(t, repo.Save(ctx, "user1", d))

	require.NoError(t, repo.Rename(ctx, "user1", d.ID, "after"))

	metas, err := repo.List(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "after", metas[0].Name)

	// The stored body keeps its embedded name until the next save.
	body, err := repo.Load(ctx, "user1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", body.Name)

	assert.ErrorIs(t, repo.Rename(ctx, "user1", "nope", "x"), domain.ErrDraftNotFound)
}

func TestDraftRepository_DeleteRemovesExactlyOne(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)
	ctx := context.Background()

	keep := sampleDraft("keep")
	drop := sampleDraft("drop")
	require.NoError(t, repo.Save(ctx, "user1", keep))
	require.NoError(t, repo.Save(ctx, "user1", drop))

	require.NoError(t, repo.Delete(ctx, "user1", drop.ID))

	metas, err := repo.List(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, keep.ID, metas[0].ID)

	_, err = repo.Load(ctx, "user1", drop.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	// The surviving draft's body is untouched.
	body, err := repo.Load(ctx, "user1", keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", body.Name)

	assert.ErrorIs(t, repo.Delete(ctx, "user1", drop.ID), domain.ErrDraftNotFound)
}

func TestDraftRepository_AutosaveSlot(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)
	ctx := context.Background()

	empty, err := repo.LoadAutosave(ctx, "user1")
	require.NoError(t, err)
	assert.Nil(t, empty)

	d := sampleDraft("")
	require.NoError(t, repo.SaveAutosave(ctx, "user1", d))

	got, err := repo.LoadAutosave(ctx, "user1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.Address, got.Address)

	named := sampleDraft("named")
	require.NoError(t, repo.Save(ctx, "user1", named))

	require.NoError(t, repo.ClearAutosave(ctx, "user1"))

	cleared, err := repo.LoadAutosave(ctx, "user1")
	require.NoError(t, err)
	assert.Nil(t, cleared)

	// Clearing autosave never touches named drafts.
	metas, err := repo.List(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}

func TestDraftRepository_UserScoping(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)
	ctx := context.Background()

	d := sampleDraft("mine")
	require.NoError(t, repo.Save(ctx, "user1", d))

	_, err := repo.Load(ctx, "user2", d.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	metas, err := repo.List(ctx, "user2")
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestDraftRepository_ExportCatalog(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)
	ctx := context.Background()

	a := sampleDraft("a")
	b := sampleDraft("b")
	require.NoError(t, repo.Save(ctx, "user1", a))
	require.NoError(t, repo.Save(ctx, "user1", b))

	export, err := repo.ExportCatalog(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, export.Metas, 2)
	assert.Len(t, export.Drafts, 2)
	assert.False(t, export.ExportedAt.IsZero())
}

func TestDraftRepository_RepairCatalog(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewDraftRepository(client)
	ctx := context.Background()

	kept := sampleDraft("kept")
	orphanMeta := sampleDraft("orphan-meta")
	orphanBody := sampleDraft("orphan-body")
	require.NoError(t, repo.Save(ctx, "user1", kept))
	require.NoError(t, repo.Save(ctx, "user1", orphanMeta))
	require.NoError(t, repo.Save(ctx, "user1", orphanBody))

	// Simulate partial failures: a body lost under a live meta, and a meta
	// lost over a live body.
	require.NoError(t, client.Del(ctx, repo.draftKey("user1", orphanMeta.ID)).Err())
	metas, err := repo.List(ctx, "user1")
	require.NoError(t, err)
	trimmed := make([]domain.DraftMeta, 0, len(metas))
	for _, m := range metas {
		if m.ID != orphanBody.ID {
			trimmed = append(trimmed, m)
		}
	}
	data, err := json.Marshal(trimmed)
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, repo.catalogKey("user1"), data, 0).Err())

	dropped, indexed, err := repo.RepairCatalog(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 1, indexed)

	metas, err = repo.List(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	ids := []string{metas[0].ID, metas[1].ID}
	assert.Contains(t, ids, kept.ID)
	assert.Contains(t, ids, orphanBody.ID)

	// A clean catalog repairs to a no-op.
	dropped, indexed, err = repo.RepairCatalog(ctx, "user1")
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Zero(t, indexed)
}
