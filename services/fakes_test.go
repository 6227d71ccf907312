package services

import (
	"context"
	"fmt"
	"sync"

	"a3project/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeDocumentRepository is an in-memory DocumentRepository keyed by header
// id.
type fakeDocumentRepository struct {
	mu   sync.Mutex
	docs map[string]models.A3
}

func newFakeDocumentRepository(docs ...models.A3) *fakeDocumentRepository {
	r := &fakeDocumentRepository{docs: map[string]models.A3{}}
	for _, d := range docs {
		r.docs[d.Header.ID] = d
	}
	return r
}

func (r *fakeDocumentRepository) GetBySeries(ctx context.Context, series string) (*models.A3, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.Header.Series() == series {
			doc := d
			return &doc, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeDocumentRepository) GetByID(ctx context.Context, id string) (*models.A3, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	doc := d
	return &doc, nil
}

func (r *fakeDocumentRepository) GetAll(ctx context.Context) ([]models.A3, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.A3, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDocumentRepository) Insert(ctx context.Context, a3 *models.A3) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[a3.Header.ID]; ok {
		return fmt.Errorf("duplicate id %s", a3.Header.ID)
	}
	r.docs[a3.Header.ID] = *a3
	return nil
}

func (r *fakeDocumentRepository) ReplaceBySeries(ctx context.Context, series string, a3 *models.A3) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.docs {
		if d.Header.Series() == series {
			delete(r.docs, id)
			r.docs[a3.Header.ID] = *a3
			return nil
		}
	}
	return fmt.Errorf("no document found for series %s", series)
}

func (r *fakeDocumentRepository) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("no document found with id %s", id)
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepository) UpdateRefs(ctx context.Context, id string, refs, refBy []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("no document found with id %s", id)
	}
	d.Header.Refs = refs
	d.Header.RefBy = refBy
	r.docs[id] = d
	return nil
}

func (r *fakeDocumentRepository) RewriteID(ctx context.Context, oldID, newID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[oldID]
	if !ok {
		return fmt.Errorf("no document found with id %s", oldID)
	}
	delete(r.docs, oldID)
	d.Header.ID = newID
	r.docs[newID] = d

	for id, other := range r.docs {
		if id == newID {
			continue
		}
		other.Header.Refs = swapID(other.Header.Refs, oldID, newID)
		other.Header.RefBy = swapID(other.Header.RefBy, oldID, newID)
		r.docs[id] = other
	}
	return nil
}

func (r *fakeDocumentRepository) GetPortfolioCounts(ctx context.Context) ([]bson.M, error) {
	return []bson.M{}, nil
}

func swapID(list []string, oldID, newID string) []string {
	if list == nil {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(list))
	for _, x := range list {
		if x == oldID {
			x = newID
		}
		if seen[x] {
			continue
		}
		seen[x] = true
		out = append(out, x)
	}
	return out
}

// fakeVersionRepository is an in-memory VersionRepository.
type fakeVersionRepository struct {
	mu     sync.Mutex
	series map[string]map[string]models.VersionSnapshot
}

func newFakeVersionRepository() *fakeVersionRepository {
	return &fakeVersionRepository{series: map[string]map[string]models.VersionSnapshot{}}
}

func (r *fakeVersionRepository) GetSeries(ctx context.Context, series string) (map[string]models.VersionSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]models.VersionSnapshot{}
	for label, snap := range r.series[series] {
		out[label] = snap
	}
	return out, nil
}

func (r *fakeVersionRepository) PutVersion(ctx context.Context, series, label string, snapshot models.VersionSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.series[series] == nil {
		r.series[series] = map[string]models.VersionSnapshot{}
	}
	r.series[series][label] = snapshot
	return nil
}

func (r *fakeVersionRepository) DeleteSeries(ctx context.Context, series string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.series, series)
	return nil
}
