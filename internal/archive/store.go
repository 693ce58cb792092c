// Package archive exports reviewed learning suggestions to S3 so the
// promotion history survives database resets and can be audited offline.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/wolfman30/symptom-advisor/internal/learning"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store archives settled suggestions. With no bucket every call is a no-op.
type Store struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
	now      func() time.Time
}

func NewStore(s3Client S3API, bucket string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{bucket: bucket, s3Client: s3Client, logger: logger, now: time.Now}
}

// Enabled returns true if archival is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// ArchiveSuggestion writes the scrubbed suggestion as JSON and appends it to
// the monthly manifest. A manifest failure is logged, not returned.
func (s *Store) ArchiveSuggestion(ctx context.Context, sug learning.Suggestion) error {
	if !s.Enabled() {
		return nil
	}

	now := s.now().UTC()
	record := newRecord(sug, now)
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("archive: marshal record: %w", err)
	}

	key := fmt.Sprintf("learning/v1/suggestions/%d/%02d/%02d/%d.json",
		now.Year(), now.Month(), now.Day(), sug.ID)
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put %s: %w", key, err)
	}
	s.logger.Info("archived learning suggestion", "suggestion_id", sug.ID, "s3_key", key, "status", sug.Status)

	entry := ManifestEntry{
		SuggestionID: sug.ID,
		S3Key:        key,
		Status:       string(sug.Status),
		Confidence:   sug.ConfidenceScore,
		SymptomCount: len(sug.DetectedSymptoms),
		ProductCount: len(sug.DetectedProducts),
		ArchivedAt:   now.Format(time.RFC3339),
	}
	if err := s.AppendManifest(ctx, entry); err != nil {
		s.logger.Warn("failed to append manifest", "error", err, "suggestion_id", sug.ID)
	}
	return nil
}

func newRecord(sug learning.Suggestion, now time.Time) SuggestionRecord {
	var reviewer int64
	if sug.ReviewedBy != nil {
		reviewer = *sug.ReviewedBy
	}
	return SuggestionRecord{
		Version:         recordVersion,
		SuggestionID:    sug.ID,
		Status:          string(sug.Status),
		ReviewerID:      reviewer,
		ConfidenceScore: sug.ConfidenceScore,
		Symptoms:        sug.DetectedSymptoms,
		ProductIDs:      sug.DetectedProducts,
		UserMessage:     ScrubPII(sug.UserMessage),
		AIResponse:      ScrubPII(sug.AIResponse),
		MessageHash:     HashText(sug.UserMessage),
		CreatedAt:       sug.CreatedAt,
		ReviewedAt:      sug.ReviewedAt,
		ArchivedAt:      now,
	}
}

// AppendManifest appends a JSONL line to the monthly manifest file.
// S3 has no append, so this is a read-modify-write.
func (s *Store) AppendManifest(ctx context.Context, entry ManifestEntry) error {
	if !s.Enabled() {
		return nil
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("archive: marshal manifest entry: %w", err)
	}

	now := s.now().UTC()
	manifestKey := fmt.Sprintf("learning/v1/manifests/%d-%02d.jsonl", now.Year(), now.Month())

	existing, err := s.readObject(ctx, manifestKey)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if len(existing) > 0 {
		buf.Write(existing)
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	buf.Write(line)
	buf.WriteByte('\n')

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(manifestKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put manifest: %w", err)
	}
	return nil
}

// readObject returns nil content when the key does not exist yet.
func (s *Store) readObject(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			s.logger.Debug("manifest not found, creating new", "key", key)
			return nil, nil
		}
		return nil, fmt.Errorf("archive: s3 get %s: %w", key, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("archive: read %s: %w", key, err)
	}
	return data, nil
}
