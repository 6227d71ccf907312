package services

import (
	"context"
	"testing"

	"a3project/buckets"
	"a3project/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func newA3ServiceForTest(docs *fakeDocumentRepository, versions *fakeVersionRepository) *a3Service {
	return &a3Service{
		repo:     docs,
		versions: newVersionServiceForTest(docs, versions),
		now:      fixedClock(),
	}
}

// TestCreateA3AssignsNextSeries verifies new documents get the next free
// zero-padded series number at label A.
func TestCreateA3AssignsNextSeries(t *testing.T) {
	docs := newFakeDocumentRepository(
		models.A3{Header: models.Header{ID: "A3-001-A"}},
		models.A3{Header: models.Header{ID: "A3-003-B"}},
	)
	svc := newA3ServiceForTest(docs, newFakeVersionRepository())

	created, err := svc.CreateA3(context.Background(), &models.A3{Header: models.Header{Title: "New effort"}}, "jane")
	require.NoError(t, err)
	assert.Equal(t, "A3-004-A", created.Header.ID)

	stored, err := docs.GetByID(context.Background(), "A3-004-A")
	require.NoError(t, err)
	assert.Equal(t, "New effort", stored.Header.Title)
}

// TestCreateA3PublishesWhenFlagged verifies a document created as published
// immediately gets its label-A snapshot.
func TestCreateA3PublishesWhenFlagged(t *testing.T) {
	docs := newFakeDocumentRepository()
	versions := newFakeVersionRepository()
	svc := newA3ServiceForTest(docs, versions)

	created, err := svc.CreateA3(context.Background(), &models.A3{
		Header:    models.Header{Title: "Launch"},
		Published: true,
	}, "jane")
	require.NoError(t, err)
	assert.Equal(t, "A3-001-A", created.Header.ID)

	stored, err := versions.GetSeries(context.Background(), "001")
	require.NoError(t, err)
	require.Contains(t, stored, "A")
	assert.Equal(t, "A3 Published.", stored["A"].Meta.Message)
}

// TestSaveA3PreservesID verifies incoming payloads can never change the
// versioned document id.
func TestSaveA3PreservesID(t *testing.T) {
	docs := newFakeDocumentRepository(models.A3{Header: models.Header{ID: "A3-001-B", Title: "Existing"}})
	svc := newA3ServiceForTest(docs, newFakeVersionRepository())

	saved, err := svc.SaveA3(context.Background(), "001", &models.A3{
		Header: models.Header{ID: "A3-001-ZZ", Title: "Edited"},
	}, "jane")
	require.NoError(t, err)
	assert.Equal(t, "A3-001-B", saved.Header.ID)
	assert.Equal(t, "Edited", saved.Header.Title)
}

// TestSaveA3NotFound verifies saving into an unknown series fails
// explicitly.
func TestSaveA3NotFound(t *testing.T) {
	svc := newA3ServiceForTest(newFakeDocumentRepository(), newFakeVersionRepository())

	_, err := svc.SaveA3(context.Background(), "404", &models.A3{Header: models.Header{Title: "x"}}, "jane")
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

// TestSaveA3RegeneratesSamples verifies a metric's sample series is rebuilt
// to match the timeline and frequency, preserving values by date, with the
// first sample mirroring the initial value.
func TestSaveA3RegeneratesSamples(t *testing.T) {
	docs := newFakeDocumentRepository(models.A3{Header: models.Header{ID: "A3-001-A", Title: "Existing"}})
	svc := newA3ServiceForTest(docs, newFakeVersionRepository())

	incoming := &models.A3{
		Header: models.Header{Title: "Existing", Start: "2024-01-01", End: "2024-01-03"},
		Metrics: models.Metrics{
			Lag: models.Metric{
				Name:    "Scrap",
				Initial: fptr(5),
				Display: models.Display{Freq: buckets.Daily},
				Samples: []models.Sample{{Date: "2024-01-02", Value: fptr(4)}},
			},
		},
	}

	saved, err := svc.SaveA3(context.Background(), "001", incoming, "jane")
	require.NoError(t, err)

	samples := saved.Metrics.Lag.Samples
	require.Len(t, samples, 3)
	assert.Equal(t, "2024-01-01", samples[0].Date)
	require.NotNil(t, samples[0].Value)
	assert.Equal(t, 5.0, *samples[0].Value)
	require.NotNil(t, samples[1].Value)
	assert.Equal(t, 4.0, *samples[1].Value)
	assert.Nil(t, samples[2].Value)
}

// TestSaveA3KeepsRecordedFirstSample verifies a recorded first sample
// survives the save untouched; the initial value only fills an empty slot.
func TestSaveA3KeepsRecordedFirstSample(t *testing.T) {
	docs := newFakeDocumentRepository(models.A3{Header: models.Header{ID: "A3-001-A", Title: "Existing"}})
	svc := newA3ServiceForTest(docs, newFakeVersionRepository())

	incoming := &models.A3{
		Header: models.Header{Title: "Existing", Start: "2024-01-01", End: "2024-01-03"},
		Metrics: models.Metrics{
			Lag: models.Metric{
				Name:    "Scrap",
				Initial: fptr(5),
				Display: models.Display{Freq: buckets.Daily},
				Samples: []models.Sample{{Date: "2024-01-01", Value: fptr(7)}},
			},
			Leads: []models.Metric{{
				Name:    "Checks",
				Display: models.Display{Freq: buckets.Daily},
				Samples: []models.Sample{{Date: "2024-01-01", Value: fptr(7)}},
			}},
		},
	}

	saved, err := svc.SaveA3(context.Background(), "001", incoming, "jane")
	require.NoError(t, err)

	lag := saved.Metrics.Lag.Samples
	require.NotEmpty(t, lag)
	require.NotNil(t, lag[0].Value)
	assert.Equal(t, 7.0, *lag[0].Value)

	lead := saved.Metrics.Leads[0].Samples
	require.NotEmpty(t, lead)
	require.NotNil(t, lead[0].Value)
	assert.Equal(t, 7.0, *lead[0].Value)
}

// TestSaveA3ClampsActionProgress verifies saved progress values land on the
// quarter steps the table offers, with fractions scaled to percent first.
func TestSaveA3ClampsActionProgress(t *testing.T) {
	docs := newFakeDocumentRepository(models.A3{Header: models.Header{ID: "A3-001-A", Title: "Existing"}})
	svc := newA3ServiceForTest(docs, newFakeVersionRepository())

	incoming := &models.A3{
		Header: models.Header{Title: "Existing"},
		Actions: []models.Action{
			{Description: "Install sensor", Progress: fptr(0.5)},
			{Description: "Calibrate line", Progress: fptr(60)},
			{Description: "Train crew"},
		},
	}

	saved, err := svc.SaveA3(context.Background(), "001", incoming, "jane")
	require.NoError(t, err)

	require.NotNil(t, saved.Actions[0].Progress)
	assert.Equal(t, 50.0, *saved.Actions[0].Progress)
	require.NotNil(t, saved.Actions[1].Progress)
	assert.Equal(t, 0.0, *saved.Actions[1].Progress)
	assert.Nil(t, saved.Actions[2].Progress)
}

// TestSaveA3RefreshesProgressLedger verifies saving refreshes today's
// ledger entry from the live action totals and assigns missing action ids.
func TestSaveA3RefreshesProgressLedger(t *testing.T) {
	docs := newFakeDocumentRepository(models.A3{Header: models.Header{ID: "A3-001-A", Title: "Existing"}})
	svc := newA3ServiceForTest(docs, newFakeVersionRepository())

	incoming := &models.A3{
		Header:  models.Header{Title: "Existing", Start: "2024-03-10", End: "2024-03-20"},
		Actions: []models.Action{{Description: "Install sensor", Progress: fptr(50)}},
	}

	saved, err := svc.SaveA3(context.Background(), "001", incoming, "jane")
	require.NoError(t, err)

	assert.Equal(t, 1, saved.Actions[0].ID)

	require.Len(t, saved.Progress, 11)
	today := saved.Progress[5]
	assert.Equal(t, "2024-03-15", today.Date)
	require.NotNil(t, today.Total)
	assert.Equal(t, 1.0, *today.Total)
	require.NotNil(t, today.Completed)
	assert.Equal(t, 0.5, *today.Completed)
}

// TestSaveA3ReconcilesReferences verifies refs/refBy symmetry is maintained
// across saves.
func TestSaveA3ReconcilesReferences(t *testing.T) {
	docs := newFakeDocumentRepository(
		models.A3{Header: models.Header{ID: "A3-001-A", Title: "Owner"}},
		models.A3{Header: models.Header{ID: "A3-002-A", Title: "Target"}},
	)
	svc := newA3ServiceForTest(docs, newFakeVersionRepository())

	_, err := svc.SaveA3(context.Background(), "001", &models.A3{
		Header: models.Header{Title: "Owner", Refs: []string{"A3-002-A"}},
	}, "jane")
	require.NoError(t, err)

	target, err := docs.GetByID(context.Background(), "A3-002-A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A3-001-A"}, target.Header.RefBy)

	_, err = svc.SaveA3(context.Background(), "001", &models.A3{
		Header: models.Header{Title: "Owner"},
	}, "jane")
	require.NoError(t, err)

	target, err = docs.GetByID(context.Background(), "A3-002-A")
	require.NoError(t, err)
	assert.Empty(t, target.Header.RefBy)
}

// TestDeleteA3ScrubsReferences verifies deletion removes the id from every
// other document and drops the version history.
func TestDeleteA3ScrubsReferences(t *testing.T) {
	docs := newFakeDocumentRepository(
		models.A3{Header: models.Header{ID: "A3-001-A", Refs: []string{"A3-002-A"}}},
		models.A3{Header: models.Header{ID: "A3-002-A", RefBy: []string{"A3-001-A"}}},
	)
	versions := newFakeVersionRepository()
	require.NoError(t, versions.PutVersion(context.Background(), "002", "A", models.VersionSnapshot{}))
	svc := newA3ServiceForTest(docs, versions)

	require.NoError(t, svc.DeleteA3(context.Background(), "A3-002-A"))

	_, err := docs.GetByID(context.Background(), "A3-002-A")
	assert.Error(t, err)

	referrer, err := docs.GetByID(context.Background(), "A3-001-A")
	require.NoError(t, err)
	assert.Empty(t, referrer.Header.Refs)

	stored, err := versions.GetSeries(context.Background(), "002")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

// TestDeleteA3NotFound verifies deleting an unknown id fails explicitly.
func TestDeleteA3NotFound(t *testing.T) {
	svc := newA3ServiceForTest(newFakeDocumentRepository(), newFakeVersionRepository())
	assert.ErrorIs(t, svc.DeleteA3(context.Background(), "A3-404-A"), ErrSeriesNotFound)
}
