package services

import (
	"context"
	"errors"
	"time"

	"a3project/models"
	repository "a3project/repositories"
	"a3project/versioning"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrSeriesNotFound  = errors.New("series not found")
	ErrVersionNotFound = errors.New("version not found")
)

type VersionService interface {
	// Publish stores the first snapshot of a series under label "A" and
	// rewrites the live document's id to embed that label.
	Publish(ctx context.Context, a3 *models.A3, author string) (*models.A3, error)
	// CreateVersion snapshots the current live document under the next
	// label, diffing against the most recent snapshot for the changelog.
	CreateVersion(ctx context.Context, series, author string) (string, *models.VersionMeta, error)
	GetSeriesVersions(ctx context.Context, series string) (map[string]models.VersionSnapshot, error)
	GetVersion(ctx context.Context, series, label string) (*models.VersionSnapshot, error)
	// DeleteSeries drops a series' snapshot history when the live document
	// is deleted.
	DeleteSeries(ctx context.Context, series string) error
}

type versionService struct {
	docs     repository.DocumentRepository
	versions repository.VersionRepository
	now      func() time.Time
}

func NewVersionService(docs repository.DocumentRepository, versions repository.VersionRepository) VersionService {
	return &versionService{
		docs:     docs,
		versions: versions,
		now:      time.Now,
	}
}

func (s *versionService) Publish(ctx context.Context, a3 *models.A3, author string) (*models.A3, error) {
	oldID := a3.Header.ID
	newID := a3.Header.IDWithLabel("A")

	snapshot := *a3
	snapshot.Header.ID = newID
	snapshot.Published = true

	// The publication snapshot carries only the message; changelogs start
	// with the first created version.
	meta := models.VersionMeta{
		Timestamp: s.now().UTC(),
		Message:   "A3 Published.",
		Author:    author,
	}

	err := s.versions.PutVersion(ctx, a3.Header.Series(), "A", models.VersionSnapshot{
		Snapshot: snapshot,
		Meta:     meta,
	})
	if err != nil {
		return nil, err
	}

	if oldID != newID {
		if err := s.docs.RewriteID(ctx, oldID, newID); err != nil {
			return nil, err
		}
	}

	a3.Header.ID = newID
	return a3, nil
}

func (s *versionService) CreateVersion(ctx context.Context, series, author string) (string, *models.VersionMeta, error) {
	a3, err := s.docs.GetBySeries(ctx, series)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, ErrSeriesNotFound
		}
		return "", nil, err
	}

	stored, err := s.versions.GetSeries(ctx, series)
	if err != nil {
		return "", nil, err
	}

	labels := make([]string, 0, len(stored))
	for label := range stored {
		labels = append(labels, label)
	}
	last := versioning.LatestLabel(labels)

	var next string
	var previous *models.A3
	if last == "" {
		next = "B"
	} else {
		next = versioning.NextLabel(last)
		prev := stored[last]
		previous = &prev.Snapshot
	}

	oldID := a3.Header.ID
	newID := a3.Header.IDWithLabel(next)

	snapshot := *a3
	snapshot.Header.ID = newID

	meta := models.VersionMeta{
		Timestamp: s.now().UTC(),
		Changelog: versioning.ComputeChangelog(a3, previous),
		Author:    author,
	}

	err = s.versions.PutVersion(ctx, series, next, models.VersionSnapshot{
		Snapshot: snapshot,
		Meta:     meta,
	})
	if err != nil {
		return "", nil, err
	}

	if err := s.docs.RewriteID(ctx, oldID, newID); err != nil {
		return "", nil, err
	}

	return next, &meta, nil
}

func (s *versionService) GetSeriesVersions(ctx context.Context, series string) (map[string]models.VersionSnapshot, error) {
	return s.versions.GetSeries(ctx, series)
}

func (s *versionService) DeleteSeries(ctx context.Context, series string) error {
	return s.versions.DeleteSeries(ctx, series)
}

func (s *versionService) GetVersion(ctx context.Context, series, label string) (*models.VersionSnapshot, error) {
	stored, err := s.versions.GetSeries(ctx, series)
	if err != nil {
		return nil, err
	}

	snapshot, ok := stored[label]
	if !ok {
		return nil, ErrVersionNotFound
	}

	return &snapshot, nil
}
