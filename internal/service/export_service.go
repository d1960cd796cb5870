package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blog-server/internal/domain"
	"blog-server/internal/repository"
	"blog-server/internal/storage"
)

const exportURLTTL = 15 * time.Minute

// ErrStorageDisabled is returned when no export bucket is configured.
var ErrStorageDisabled = errors.New("storage not configured")

// Export describes one uploaded snapshot of an author's posts.
type Export struct {
	Location string
	URL      string
	Posts    int
}

// ExportService snapshots an author's posts into object storage.
type ExportService interface {
	Export(ctx context.Context, authorID string) (*Export, error)
	List(ctx context.Context, authorID string) ([]storage.ObjectInfo, error)
	Purge(ctx context.Context, authorID string) error
}

type exportService struct {
	posts     repository.PostRepository
	store     storage.Service
	bucket    string
	keyPrefix string
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewExportService returns a service that reports ErrStorageDisabled for every
// call when store is nil or bucket is empty.
func NewExportService(posts repository.PostRepository, store storage.Service, bucket, keyPrefix string, log logrus.FieldLogger) ExportService {
	return &exportService{
		posts:     posts,
		store:     store,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		log:       log,
		now:       time.Now,
	}
}

type exportDocument struct {
	Author     string       `json:"author"`
	ExportedAt time.Time    `json:"exportedAt"`
	Posts      []exportPost `json:"posts"`
}

type exportPost struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *exportService) Export(ctx context.Context, authorID string) (*Export, error) {
	if err := s.check(authorID); err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := exportDocument{
		Author:     authorID,
		ExportedAt: now,
		Posts:      make([]exportPost, len(posts)),
	}
	for i, p := range posts {
		doc.Posts[i] = exportPost{ID: p.ID, Title: p.Title, Content: p.Content, CreatedAt: p.CreatedAt}
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	name := now.Format("20060102T150405.000000000Z") + "-" + uuid.NewString()[:8] + ".json"
	key := path.Join(s.authorPrefix(authorID), name)
	location, err := s.store.PutObject(ctx, s.bucket, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	export := &Export{Location: location, Posts: len(posts)}
	if url, err := s.store.GetObjectURL(ctx, s.bucket, key, exportURLTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("presign export url")
	} else {
		export.URL = url
	}

	s.log.WithFields(logrus.Fields{"author": authorID, "posts": len(posts)}).Info("posts exported")
	return export, nil
}

func (s *exportService) List(ctx context.Context, authorID string) ([]storage.ObjectInfo, error) {
	if err := s.check(authorID); err != nil {
		return nil, err
	}
	return s.store.ListObjects(ctx, s.bucket, s.authorPrefix(authorID)+"/")
}

func (s *exportService) Purge(ctx context.Context, authorID string) error {
	if err := s.check(authorID); err != nil {
		return err
	}
	return s.store.DeletePrefix(ctx, s.bucket, s.authorPrefix(authorID)+"/")
}

func (s *exportService) check(authorID string) error {
	if s.store == nil || s.bucket == "" {
		return ErrStorageDisabled
	}
	if isBlank(authorID) || strings.ContainsAny(authorID, "/\\") || authorID == "." || authorID == ".." {
		verr := &domain.ValidationError{}
		verr.Add("id", "Invalid author id")
		return verr
	}
	return nil
}

func (s *exportService) authorPrefix(authorID string) string {
	if s.keyPrefix == "" {
		return authorID
	}
	return s.keyPrefix + "/" + authorID
}
