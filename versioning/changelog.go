package versioning

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"a3project/buckets"
	"a3project/models"
	"a3project/utils"
)

// InitialChangelog is the changelog of the very first snapshot, which has
// nothing to diff against.
func InitialChangelog() models.Changelog {
	return models.Changelog{models.SectionGeneral: {"Initial snapshot."}}
}

// ComputeChangelog produces a structured, human-readable diff between the
// current document and the previous snapshot, bucketed into the fixed
// sections. A failure during diffing must never block a version from being
// created: panics are recovered, logged, and replaced with a single generic
// entry under General.
func ComputeChangelog(current, previous *models.A3) (cl models.Changelog) {
	if previous == nil {
		return InitialChangelog()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("changelog generation failed: %v", r)
			cl = models.Changelog{models.SectionGeneral: {"Changelog generation failed."}}
		}
	}()

	b := builder{cl: models.Changelog{}}
	for _, section := range models.ChangelogSections {
		switch section {
		case models.SectionGeneral:
			b.diffGeneral(current, previous)
		case models.SectionProblemDef:
			b.diffProblemDef(current, previous)
		case models.SectionCurrentState:
			b.diffCurrentState(current, previous)
		case models.SectionFutureState:
			b.diffFutureState(current, previous)
		case models.SectionActions:
			b.diffActions(current, previous)
		case models.SectionMetrics:
			b.diffMetrics(current, previous)
		}
	}
	return b.cl
}

type builder struct {
	cl models.Changelog
}

func (b *builder) add(section models.ChangelogSection, format string, args ...interface{}) {
	b.cl[section] = append(b.cl[section], fmt.Sprintf(format, args...))
}

func (b *builder) diffGeneral(cur, prev *models.A3) {
	if cur.Header.Title != prev.Header.Title {
		b.add(models.SectionGeneral, "Title changed from %q to %q.", orUntitled(prev.Header.Title), orUntitled(cur.Header.Title))
	}

	added, removed := diffStringSets(cur.Header.Team, prev.Header.Team)
	if len(added) > 0 {
		b.add(models.SectionGeneral, "Team members added: %s.", joinNames(added))
	}
	if len(removed) > 0 {
		b.add(models.SectionGeneral, "Team members removed: %s.", joinNames(removed))
	}

	if cur.Header.Start != prev.Header.Start || cur.Header.End != prev.Header.End {
		b.add(models.SectionGeneral, "Project timeline changed from %s - %s to %s - %s.",
			formatDateForLog(prev.Header.Start), formatDateForLog(prev.Header.End),
			formatDateForLog(cur.Header.Start), formatDateForLog(cur.Header.End))
	}
	if !sameStringSet(cur.Header.Refs, prev.Header.Refs) {
		b.add(models.SectionGeneral, "External A3 references changed.")
	}
	if !sameStringSet(cur.Header.Attachments, prev.Header.Attachments) {
		b.add(models.SectionGeneral, "File attachments changed.")
	}
	if !jsonEqual(cur.Layout.Sections, prev.Layout.Sections) {
		b.add(models.SectionGeneral, "Layout changed.")
	}
	if !sameStringSet(cur.Layout.CanEdit, prev.Layout.CanEdit) {
		b.add(models.SectionGeneral, "(OWNER) Layout edit permissions changed.")
	}
}

func (b *builder) diffProblemDef(cur, prev *models.A3) {
	if cur.ProbDef.Why != prev.ProbDef.Why {
		b.add(models.SectionProblemDef, `"Why" statement updated.`)
	}
	if cur.ProbDef.Where != prev.ProbDef.Where {
		b.add(models.SectionProblemDef, `"Where" statement updated.`)
	}
	if cur.ProbDef.Extra != prev.ProbDef.Extra {
		b.add(models.SectionProblemDef, "Additional problem details updated.")
	}
	if !jsonEqual(cur.Metrics.Lag.Placeholder, prev.Metrics.Lag.Placeholder) {
		b.add(models.SectionProblemDef, "Problem placeholder updated.")
	}
	if !sameStringSet(cur.ProbDef.CanEdit, prev.ProbDef.CanEdit) {
		b.add(models.SectionProblemDef, "(OWNER) Problem Definition edit permissions changed.")
	}
}

func (b *builder) diffCurrentState(cur, prev *models.A3) {
	if !jsonEqual(cur.CurrentState, prev.CurrentState) {
		b.add(models.SectionCurrentState, "Current State canvas updated.")
	}
	if cur.Layout.ExtraCurrentState.Enabled != prev.Layout.ExtraCurrentState.Enabled {
		b.add(models.SectionCurrentState, "Current State comment section %s.", enabledWord(cur.Layout.ExtraCurrentState.Enabled))
	}
	if cur.Layout.ExtraCurrentState.Text != prev.Layout.ExtraCurrentState.Text {
		b.add(models.SectionCurrentState, "Current State comments updated.")
	}
	if !sameStringSet(cur.CurrentState.CanEdit, prev.CurrentState.CanEdit) {
		b.add(models.SectionCurrentState, "(OWNER) Current State edit permissions changed.")
	}
}

func (b *builder) diffFutureState(cur, prev *models.A3) {
	if cur.Layout.IncludeFutureState != prev.Layout.IncludeFutureState {
		b.add(models.SectionFutureState, "Section %s.", enabledWord(cur.Layout.IncludeFutureState))
	}
	if !jsonEqual(cur.ActionPlan, prev.ActionPlan) {
		b.add(models.SectionFutureState, "Future State canvas updated.")
	}
	if !sameStringSet(cur.ActionPlan.CanEdit, prev.ActionPlan.CanEdit) {
		b.add(models.SectionFutureState, "(OWNER) Future State edit permissions changed.")
	}
}

func (b *builder) diffActions(cur, prev *models.A3) {
	curByID := actionsByID(cur.Actions)
	prevByID := actionsByID(prev.Actions)

	var added, removed []string
	for _, a := range cur.Actions {
		if _, ok := prevByID[a.ID]; !ok {
			added = append(added, strings.TrimSpace(fmt.Sprintf("#%d %s", a.ID, a.Description)))
		}
	}
	for _, a := range prev.Actions {
		if _, ok := curByID[a.ID]; !ok {
			removed = append(removed, strings.TrimSpace(fmt.Sprintf("#%d %s", a.ID, a.Description)))
		}
	}
	if len(added) > 0 {
		b.add(models.SectionActions, "Added actions: %s.", strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		b.add(models.SectionActions, "Removed actions: %s.", strings.Join(removed, ", "))
	}

	for _, a := range cur.Actions {
		p, ok := prevByID[a.ID]
		if !ok {
			continue
		}
		var deltas []string
		if !floatPtrEqual(a.Progress, p.Progress) {
			deltas = append(deltas, fmt.Sprintf("progress %s → %s", fmtProgress(p.Progress), fmtProgress(a.Progress)))
		}
		if a.Owner != p.Owner {
			deltas = append(deltas, fmt.Sprintf("owner %s → %s", orDash(utils.ToInitialLast(p.Owner)), orDash(utils.ToInitialLast(a.Owner))))
		}
		if a.Limit != p.Limit {
			deltas = append(deltas, fmt.Sprintf("limit %s → %s", orDash(p.Limit), orDash(a.Limit)))
		}
		if a.Weight != p.Weight {
			deltas = append(deltas, fmt.Sprintf("weight %s → %s", orDash(string(p.Weight)), orDash(string(a.Weight))))
		}
		if len(deltas) > 0 {
			b.add(models.SectionActions, "Action #%d (%s): %s.", a.ID, a.Description, strings.Join(deltas, "; "))
		}
	}

	if cur.ActionsSettings.Weighted != prev.ActionsSettings.Weighted {
		b.add(models.SectionActions, "Weighting %s.", enabledWord(cur.ActionsSettings.Weighted))
	}
}

func (b *builder) diffMetrics(cur, prev *models.A3) {
	curLag := cur.Metrics.Lag
	prevLag := prev.Metrics.Lag
	lagName := curLag.Name
	if lagName == "" {
		lagName = prevLag.Name
	}
	if lagName == "" {
		lagName = "lag"
	}

	if curLag.Name != prevLag.Name {
		b.add(models.SectionMetrics, "Metric name changed: %q → %q.", orDash(prevLag.Name), orDash(curLag.Name))
	}
	if curLag.Unit != prevLag.Unit {
		b.add(models.SectionMetrics, "Metric %s unit changed: %q → %q.", lagName, orDash(prevLag.Unit), orDash(curLag.Unit))
	}
	if !floatPtrEqual(curLag.Initial, prevLag.Initial) {
		b.add(models.SectionMetrics, "Metric %s initial value changed: %q → %q.", lagName, fmtNum(prevLag.Initial), fmtNum(curLag.Initial))
	}

	var targetDeltas []string
	if !floatPtrEqual(curLag.Target.Value, prevLag.Target.Value) {
		targetDeltas = append(targetDeltas, fmt.Sprintf("value %s → %s", fmtNum(prevLag.Target.Value), fmtNum(curLag.Target.Value)))
	}
	if curLag.Target.Mode != prevLag.Target.Mode {
		targetDeltas = append(targetDeltas, fmt.Sprintf("mode %s → %s", orDash(string(prevLag.Target.Mode)), orDash(string(curLag.Target.Mode))))
	}
	if !floatPtrEqual(curLag.Target.Percent(curLag.Initial), prevLag.Target.Percent(prevLag.Initial)) {
		targetDeltas = append(targetDeltas, fmt.Sprintf("percent %s → %s", fmtNum(prevLag.Target.Percent(prevLag.Initial)), fmtNum(curLag.Target.Percent(curLag.Initial))))
	}
	if len(targetDeltas) > 0 {
		b.add(models.SectionMetrics, "Metric %s target changed: %s.", lagName, strings.Join(targetDeltas, "; "))
	}
	if !jsonEqual(curLag.Samples, prevLag.Samples) {
		b.add(models.SectionMetrics, "Metric %s data updated.", lagName)
	}

	curLeads := metricsByName(cur.Metrics.Leads)
	prevLeads := metricsByName(prev.Metrics.Leads)

	var addedLeads, removedLeads []string
	for _, m := range cur.Metrics.Leads {
		if _, ok := prevLeads[m.Name]; !ok {
			addedLeads = append(addedLeads, orUnnamed(m.Name))
		}
	}
	for _, m := range prev.Metrics.Leads {
		if _, ok := curLeads[m.Name]; !ok {
			removedLeads = append(removedLeads, orUnnamed(m.Name))
		}
	}
	if len(addedLeads) > 0 {
		b.add(models.SectionMetrics, "Added metrics: %s.", strings.Join(addedLeads, ", "))
	}
	if len(removedLeads) > 0 {
		b.add(models.SectionMetrics, "Removed metrics: %s.", strings.Join(removedLeads, ", "))
	}

	for _, m := range cur.Metrics.Leads {
		p, ok := prevLeads[m.Name]
		if !ok {
			continue
		}
		var deltas []string
		if m.Unit != p.Unit {
			deltas = append(deltas, fmt.Sprintf("unit %s → %s", orDash(p.Unit), orDash(m.Unit)))
		}
		if !floatPtrEqual(m.Initial, p.Initial) {
			deltas = append(deltas, fmt.Sprintf("initial %s → %s", fmtNum(p.Initial), fmtNum(m.Initial)))
		}
		if !floatPtrEqual(m.Target.Value, p.Target.Value) {
			deltas = append(deltas, fmt.Sprintf("target value %s → %s", fmtNum(p.Target.Value), fmtNum(m.Target.Value)))
		}
		if m.Target.Mode != p.Target.Mode {
			deltas = append(deltas, fmt.Sprintf("target mode %s → %s", orDash(string(p.Target.Mode)), orDash(string(m.Target.Mode))))
		}
		if len(deltas) > 0 {
			b.add(models.SectionMetrics, "Metric %s: %s.", m.Name, strings.Join(deltas, "; "))
		}
		if !jsonEqual(m.Samples, p.Samples) {
			b.add(models.SectionMetrics, "Metric %s data updated.", m.Name)
		}
	}

	if !sameStringSet(cur.Metrics.CanEditObjectives, prev.Metrics.CanEditObjectives) {
		b.add(models.SectionMetrics, "(OWNER) Objectives edit permissions changed.")
	}
	if !sameStringSet(cur.Metrics.CanEditMetrics, prev.Metrics.CanEditMetrics) {
		b.add(models.SectionMetrics, "(OWNER) Check Act edit permissions changed.")
	}

	if cur.Layout.ExtraCheckAct.Enabled != prev.Layout.ExtraCheckAct.Enabled {
		b.add(models.SectionMetrics, "Check/Act comment section %s.", enabledWord(cur.Layout.ExtraCheckAct.Enabled))
	}
	if cur.Layout.ExtraCheckAct.Text != prev.Layout.ExtraCheckAct.Text {
		b.add(models.SectionMetrics, "Check/Act comments updated.")
	}
	if !sameStringSet(cur.Layout.ExtraCheckAct.CanEdit, prev.Layout.ExtraCheckAct.CanEdit) {
		b.add(models.SectionMetrics, "(OWNER) Check/Act edit permissions changed.")
	}
}

func actionsByID(list []models.Action) map[int]models.Action {
	m := make(map[int]models.Action, len(list))
	for _, a := range list {
		m[a.ID] = a
	}
	return m
}

func metricsByName(list []models.Metric) map[string]models.Metric {
	m := make(map[string]models.Metric, len(list))
	for _, lead := range list {
		m[lead.Name] = lead
	}
	return m
}

// diffStringSets returns the members only in a and only in b.
func diffStringSets(a, b []string) (added, removed []string) {
	inB := make(map[string]bool, len(b))
	for _, x := range b {
		inB[x] = true
	}
	inA := make(map[string]bool, len(a))
	for _, x := range a {
		inA[x] = true
	}
	for _, x := range a {
		if !inB[x] {
			added = append(added, x)
		}
	}
	for _, x := range b {
		if !inA[x] {
			removed = append(removed, x)
		}
	}
	return added, removed
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

func jsonEqual(a, b interface{}) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return errA == nil && errB == nil
	}
	return string(ja) == string(jb)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func joinNames(names []string) string {
	short := make([]string, len(names))
	for i, n := range names {
		short[i] = utils.ToInitialLast(n)
	}
	return strings.Join(short, ", ")
}

func formatDateForLog(date string) string {
	t, ok := buckets.ParseDate(date)
	if !ok {
		if date == "" {
			return "N/A"
		}
		return date
	}
	return t.Format("02-01-2006")
}

func fmtNum(p *float64) string {
	if p == nil {
		return "—"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func fmtProgress(p *float64) string {
	if p == nil {
		return "—"
	}
	v := *p
	if v <= 1 {
		v *= 100
	}
	return fmt.Sprintf("%d%%", int(math.Round(v)))
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func orUntitled(s string) string {
	if s == "" {
		return "Untitled"
	}
	return s
}

func orUnnamed(s string) string {
	if s == "" {
		return "unnamed"
	}
	return s
}
