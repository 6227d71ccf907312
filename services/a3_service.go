package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"a3project/actions"
	"a3project/buckets"
	"a3project/models"
	repository "a3project/repositories"

	"go.mongodb.org/mongo-driver/mongo"
)

type A3Service interface {
	CreateA3(ctx context.Context, a3 *models.A3, author string) (*models.A3, error)
	GetAllA3s(ctx context.Context) ([]models.A3, error)
	GetA3BySeries(ctx context.Context, series string) (*models.A3, error)
	SaveA3(ctx context.Context, series string, a3 *models.A3, author string) (*models.A3, error)
	DeleteA3(ctx context.Context, id string) error
}

type a3Service struct {
	repo     repository.DocumentRepository
	versions VersionService
	now      func() time.Time
}

func NewA3Service(repo repository.DocumentRepository, versions VersionService) A3Service {
	return &a3Service{
		repo:     repo,
		versions: versions,
		now:      time.Now,
	}
}

func (s *a3Service) CreateA3(ctx context.Context, a3 *models.A3, author string) (*models.A3, error) {
	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	a3.Header.ID = nextA3ID(existing)
	s.repair(a3)

	if err := s.repo.Insert(ctx, a3); err != nil {
		return nil, err
	}

	if err := s.reconcileRefs(ctx, a3.Header.ID, nil, a3.Header.Refs); err != nil {
		return nil, err
	}

	if a3.Published {
		return s.versions.Publish(ctx, a3, author)
	}

	return a3, nil
}

func (s *a3Service) GetAllA3s(ctx context.Context) ([]models.A3, error) {
	return s.repo.GetAll(ctx)
}

func (s *a3Service) GetA3BySeries(ctx context.Context, series string) (*models.A3, error) {
	a3, err := s.repo.GetBySeries(ctx, series)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	return a3, nil
}

func (s *a3Service) SaveA3(ctx context.Context, series string, a3 *models.A3, author string) (*models.A3, error) {
	existing, err := s.GetA3BySeries(ctx, series)
	if err != nil {
		return nil, err
	}

	// The id is managed exclusively by versioning; incoming payloads never
	// change it.
	a3.Header.ID = existing.Header.ID
	s.repair(a3)

	if err := s.repo.ReplaceBySeries(ctx, series, a3); err != nil {
		return nil, err
	}

	if err := s.reconcileRefs(ctx, a3.Header.ID, existing.Header.Refs, a3.Header.Refs); err != nil {
		return nil, err
	}

	if a3.Published && !existing.Published {
		return s.versions.Publish(ctx, a3, author)
	}

	return a3, nil
}

func (s *a3Service) DeleteA3(ctx context.Context, id string) error {
	a3, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrSeriesNotFound
		}
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	// Scrub the deleted id from every other document's reference arrays.
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, other := range all {
		refs, changedRefs := removeString(other.Header.Refs, id)
		refBy, changedRefBy := removeString(other.Header.RefBy, id)
		if !changedRefs && !changedRefBy {
			continue
		}
		if err := s.repo.UpdateRefs(ctx, other.Header.ID, refs, refBy); err != nil {
			return err
		}
	}

	// Snapshot history is best-effort cleanup; the document itself is gone.
	if err := s.versions.DeleteSeries(ctx, a3.Header.Series()); err != nil {
		log.Printf("failed to delete version history for series %s: %v", a3.Header.Series(), err)
	}

	return nil
}

// reconcileRefs keeps refs/refBy symmetric: documents newly referenced by
// ownerID gain it in their refBy, documents no longer referenced lose it.
func (s *a3Service) reconcileRefs(ctx context.Context, ownerID string, before, after []string) error {
	added, removed := diffStrings(before, after)

	for _, refID := range added {
		target, err := s.repo.GetByID(ctx, refID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				continue
			}
			return err
		}
		refBy := appendUnique(target.Header.RefBy, ownerID)
		if err := s.repo.UpdateRefs(ctx, refID, target.Header.Refs, refBy); err != nil {
			return err
		}
	}

	for _, refID := range removed {
		target, err := s.repo.GetByID(ctx, refID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				continue
			}
			return err
		}
		refBy, changed := removeString(target.Header.RefBy, ownerID)
		if !changed {
			continue
		}
		if err := s.repo.UpdateRefs(ctx, refID, target.Header.Refs, refBy); err != nil {
			return err
		}
	}

	return nil
}

// repair normalizes a document before it is stored: regenerates sample
// series when the timeline or frequency no longer matches, assigns missing
// action ids, drops non-finite numbers, refreshes the progress ledger and
// late flags.
func (s *a3Service) repair(a3 *models.A3) {
	now := s.now()

	repairMetric(&a3.Metrics.Lag, a3.Header.Start, a3.Header.End)
	for i := range a3.Metrics.Leads {
		repairMetric(&a3.Metrics.Leads[i], a3.Header.Start, a3.Header.End)
	}
	if len(a3.Metrics.Leads) > models.MaxLeads {
		a3.Metrics.Leads = a3.Metrics.Leads[:models.MaxLeads]
	}

	for i := range a3.Actions {
		if a3.Actions[i].ID <= 0 {
			a3.Actions[i].ID = actions.NextActionID(a3.Actions)
		}
		if a3.Actions[i].Progress != nil {
			clamped := actions.ClampProgress(actions.NormalizeProgress(a3.Actions[i].Progress))
			a3.Actions[i].Progress = &clamped
		}
	}

	totals := actions.AggregateTotals(a3.Actions, a3.ActionsSettings.Weighted)
	today := actions.Today(now)
	a3.Progress = actions.BuildProgressSeries(a3.Progress, a3.Header.Start, a3.Header.End, totals, today)
	a3.Actions = actions.EnsureLateFlags(a3.Actions, now)
}

func repairMetric(m *models.Metric, start, end string) {
	m.Initial = models.SanitizeNumber(m.Initial)
	m.Target.Value = models.SanitizeNumber(m.Target.Value)
	for i := range m.Samples {
		m.Samples[i].Value = models.SanitizeNumber(m.Samples[i].Value)
	}

	if m.Display.Freq != "" {
		dates := buckets.Generate(start, end, m.Display.Freq)
		if len(dates) > 0 && !sameDates(m.Samples, dates) {
			byDate := make(map[string]*float64, len(m.Samples))
			for _, sample := range m.Samples {
				byDate[sample.Date] = sample.Value
			}
			rebuilt := make([]models.Sample, len(dates))
			for i, date := range dates {
				rebuilt[i] = models.Sample{Date: date, Value: byDate[date]}
			}
			m.Samples = rebuilt
		}
	}

	// The first sample is the recorded starting point; fill it from the
	// initial value only when nothing was recorded there.
	if len(m.Samples) > 0 && m.Samples[0].Value == nil && m.Initial != nil {
		m.Samples[0].Value = m.Initial
	}
}

func sameDates(samples []models.Sample, dates []string) bool {
	if len(samples) != len(dates) {
		return false
	}
	for i, sample := range samples {
		if sample.Date != dates[i] {
			return false
		}
	}
	return true
}

func nextA3ID(existing []models.A3) string {
	max := 0
	for _, a3 := range existing {
		n, err := strconv.Atoi(a3.Header.Series())
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("A3-%03d-A", max+1)
}

func diffStrings(before, after []string) (added, removed []string) {
	beforeSet := make(map[string]bool, len(before))
	for _, x := range before {
		beforeSet[x] = true
	}
	afterSet := make(map[string]bool, len(after))
	for _, x := range after {
		afterSet[x] = true
		if !beforeSet[x] {
			added = append(added, x)
		}
	}
	for _, x := range before {
		if !afterSet[x] {
			removed = append(removed, x)
		}
	}
	return added, removed
}

func appendUnique(list []string, x string) []string {
	for _, existing := range list {
		if existing == x {
			return list
		}
	}
	return append(list, x)
}

func removeString(list []string, x string) ([]string, bool) {
	out := list[:0:0]
	changed := false
	for _, existing := range list {
		if existing == x {
			changed = true
			continue
		}
		out = append(out, existing)
	}
	return out, changed
}
