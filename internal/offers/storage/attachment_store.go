package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/offerdesk/offer-backend/internal/offers/domain"
	"github.com/offerdesk/offer-backend/internal/offers/utils"
)

const (
	// InlineThreshold is the cutoff below which a file is base64-encoded
	// into the attachment itself instead of uploaded to object storage.
	InlineThreshold = 500000

	// DefaultSignedURLTTL is the validity window for remote attachment URLs.
	DefaultSignedURLTTL = 7 * 24 * time.Hour
)

// AttachmentStore turns raw file bytes into Attachments. Small files are
// inlined as data URLs; larger files are uploaded into a private bucket and
// referenced through a time-limited signed URL. Storage failures degrade to
// a recorded "failed" attachment rather than an error: the caller's save
// must never abort because an upload did.
type AttachmentStore struct {
	objects   ObjectStore // nil means remote storage is unavailable
	bucket    string
	ttl       time.Duration
	threshold int
	limiter   *rate.Limiter
	log       *zap.Logger

	mu          sync.Mutex
	bucketReady bool
}

// NewAttachmentStore creates an AttachmentStore. objects may be nil, in
// which case anything over the inline threshold records as failed.
func NewAttachmentStore(objects ObjectStore, bucket string, log *zap.Logger) *AttachmentStore {
	return &AttachmentStore{
		objects:   objects,
		bucket:    bucket,
		ttl:       DefaultSignedURLTTL,
		threshold: InlineThreshold,
		limiter:   rate.NewLimiter(rate.Limit(5), 10),
		log:       log,
	}
}

// WithThreshold overrides the inline cutoff (used by config wiring and tests).
func (s *AttachmentStore) WithThreshold(threshold int) *AttachmentStore {
	s.threshold = threshold
	return s
}

// WithSignedURLTTL overrides the signed URL validity window.
func (s *AttachmentStore) WithSignedURLTTL(ttl time.Duration) *AttachmentStore {
	s.ttl = ttl
	return s
}

// Ingest converts one selected file into an Attachment. It always returns a
// fully-formed Attachment; Source tells the caller whether the payload is
// inline, remote, or lost to an upload failure.
func (s *AttachmentStore) Ingest(ctx context.Context, userID, draftID, filename, contentType string, data []byte) domain.Attachment {
	id, err := utils.NewID("att")
	if err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to a
		// timestamp so the attachment still gets a usable key.
		id = fmt.Sprintf("att_%d", time.Now().UnixNano())
	}

	att := domain.Attachment{
		ID:   id,
		Name: filename,
		Size: int64(len(data)),
		Type: contentType,
	}

	if len(data) < s.threshold {
		att.Source = domain.SourceInline
		att.DataURL = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
		return att
	}

	url, err := s.upload(ctx, userID, draftID, filename, contentType, data)
	if err != nil {
		s.log.Warn("attachment upload failed",
			zap.String("user_id", userID),
			zap.String("draft_id", draftID),
			zap.String("file", filename),
			zap.Error(err))
		att.Source = domain.SourceFailed
		return att
	}

	att.Source = domain.SourceRemote
	att.DataURL = url
	return att
}

func (s *AttachmentStore) upload(ctx context.Context, userID, draftID, filename, contentType string, data []byte) (string, error) {
	if s.objects == nil {
		return "", fmt.Errorf("object storage not configured")
	}

	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	// user/draft/timestamp-filename keeps concurrent ingestions from
	// colliding on a shared name.
	key := path.Join("users", userID, "drafts", draftID,
		fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filename))

	if err := s.objects.Upload(ctx, s.bucket, key, data, contentType); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	url, err := s.objects.CreateSignedURL(ctx, s.bucket, key, s.ttl)
	if err != nil {
		return "", fmt.Errorf("sign url: %w", err)
	}
	return url, nil
}

// ensureBucket lazily creates the private attachment bucket on first use.
func (s *AttachmentStore) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketReady {
		return nil
	}

	names, err := s.objects.ListBuckets(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == s.bucket {
			s.bucketReady = true
			return nil
		}
	}

	if err := s.objects.CreateBucket(ctx, s.bucket, false); err != nil {
		return err
	}
	s.bucketReady = true
	return nil
}
