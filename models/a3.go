package models

import (
	"strings"

	"a3project/buckets"
)

// A3 is one continuous-improvement report document. The whole document is
// persisted as a single record; saves are whole-document replacements with
// last-writer-wins semantics.
type A3 struct {
	Header          Header          `json:"header" bson:"header"`
	ProbDef         ProbDef         `json:"probDef" bson:"probDef"`
	Metrics         Metrics         `json:"metrics" bson:"metrics"`
	Actions         []Action        `json:"actions" bson:"actions"`
	ActionsSettings ActionsSettings `json:"actionsSettings" bson:"actionsSettings"`
	Progress        []ProgressPoint `json:"progress" bson:"progress"`
	CurrentState    Canvas          `json:"currentState" bson:"currentState"`
	ActionPlan      Canvas          `json:"actionPlan" bson:"actionPlan"`
	Layout          Layout          `json:"layout" bson:"layout"`
	Published       bool            `json:"published" bson:"published"`
	Draft           bool            `json:"draft" bson:"draft"`
}

// Header identifies the document. IDs follow "A3-<series>-<versionLabel>"
// where series is a zero-padded sequential number and the version label is
// managed exclusively by the versioning service.
type Header struct {
	ID          string   `json:"id" bson:"id"`
	Title       string   `json:"title" bson:"title" validate:"required"`
	Team        []string `json:"team" bson:"team"`
	Start       string   `json:"start" bson:"start"` // YYYY-MM-DD
	End         string   `json:"end" bson:"end"`     // YYYY-MM-DD
	Refs        []string `json:"refs,omitempty" bson:"refs,omitempty"`
	RefBy       []string `json:"refBy,omitempty" bson:"refBy,omitempty"`
	Attachments []string `json:"attachments,omitempty" bson:"attachments,omitempty"`
}

// Series extracts the stable series identifier (the middle part of the id).
// Empty when the id is not in the expected three-part form.
func (h Header) Series() string {
	parts := strings.Split(h.ID, "-")
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}

// VersionLabel extracts the version label part of the id.
func (h Header) VersionLabel() string {
	parts := strings.Split(h.ID, "-")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// IDWithLabel returns the header id with its version label replaced.
func (h Header) IDWithLabel(label string) string {
	parts := strings.Split(h.ID, "-")
	if len(parts) < 3 {
		return h.ID
	}
	parts[2] = label
	return strings.Join(parts, "-")
}

type ProbDef struct {
	Why     string   `json:"why" bson:"why"`
	Where   string   `json:"where" bson:"where"`
	Extra   string   `json:"extra" bson:"extra"`
	CanEdit []string `json:"canEdit,omitempty" bson:"canEdit,omitempty"`
}

type Metrics struct {
	Lag               Metric   `json:"lag" bson:"lag"`
	Leads             []Metric `json:"leads" bson:"leads"`
	CanEditObjectives []string `json:"canEditObjectives,omitempty" bson:"canEditObjectives,omitempty"`
	CanEditMetrics    []string `json:"canEditMetrics,omitempty" bson:"canEditMetrics,omitempty"`
}

// MaxLeads caps the supporting metrics per document.
const MaxLeads = 5

// Metric is one tracked quantity: the single lag metric or one of the
// supporting lead metrics.
type Metric struct {
	Name        string              `json:"metricName" bson:"metricName"`
	Unit        string              `json:"unit" bson:"unit"`
	Initial     *float64            `json:"initial" bson:"initial"`
	Target      Target              `json:"target" bson:"target"`
	Samples     []Sample            `json:"data" bson:"data"`
	Display     Display             `json:"display" bson:"display"`
	Granularity buckets.Granularity `json:"granularity,omitempty" bson:"granularity,omitempty"`
	Placeholder *Placeholder        `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
}

// Placeholder holds the pre-data problem framing shown before initial and
// target values are known: the intended direction and a gap label.
type Placeholder struct {
	Up  *bool  `json:"up" bson:"up"`
	Gap string `json:"gap,omitempty" bson:"gap,omitempty"`
}

// Display controls how a metric renders in the Check/Act view.
type Display struct {
	Enabled     bool              `json:"enabled" bson:"enabled"`
	GraphType   string            `json:"graphType,omitempty" bson:"graphType,omitempty"`
	ShowOverlay bool              `json:"showOverlay" bson:"showOverlay"`
	ShowGrid    bool              `json:"showGrid" bson:"showGrid"`
	Freq        buckets.Frequency `json:"freq,omitempty" bson:"freq,omitempty"`
}

type ActionsSettings struct {
	Weighted bool `json:"weighted" bson:"weighted"`
}

type Weight string

const (
	WeightLow    Weight = "low"
	WeightMedium Weight = "medium"
	WeightHigh   Weight = "high"
)

// Action is one discrete task in the action-tracking table. LateFlags is an
// append-only history of missed-deadline detections (RFC3339 timestamps),
// capped at the 3 most recent.
type Action struct {
	ID          int      `json:"id" bson:"id"`
	Description string   `json:"description" bson:"description"`
	Owner       string   `json:"owner,omitempty" bson:"owner,omitempty"`
	Progress    *float64 `json:"progress" bson:"progress"`
	Limit       string   `json:"limit,omitempty" bson:"limit,omitempty"` // YYYY-MM-DD
	Weight      Weight   `json:"weight,omitempty" bson:"weight,omitempty"`
	LateFlags   []string `json:"lateFlags,omitempty" bson:"lateFlags,omitempty"`
}

// ProgressPoint is one day's aggregate project status. Nil values mean "not
// recorded"; past days are frozen once filled, only the current day tracks
// live state.
type ProgressPoint struct {
	Date      string   `json:"date" bson:"date"`
	Total     *float64 `json:"total" bson:"total"`
	Completed *float64 `json:"completed" bson:"completed"`
}

// Canvas is the drag-and-drop diagram content. The core never interprets it;
// it is carried opaquely and compared only for structural equality.
type Canvas struct {
	Nodes   []map[string]interface{} `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges   []map[string]interface{} `json:"edges,omitempty" bson:"edges,omitempty"`
	CanEdit []string                 `json:"canEdit,omitempty" bson:"canEdit,omitempty"`
}

type Layout struct {
	Sections           []map[string]interface{} `json:"sections,omitempty" bson:"sections,omitempty"`
	CanEdit            []string                 `json:"canEdit,omitempty" bson:"canEdit,omitempty"`
	IncludeFutureState bool                     `json:"includeFutureState" bson:"includeFutureState"`
	ExtraCurrentState  ExtraSection             `json:"extraCurrentState" bson:"extraCurrentState"`
	ExtraCheckAct      ExtraSection             `json:"extraCheckAct" bson:"extraCheckAct"`
}

// ExtraSection is an optional free-text comment block attached to a section.
type ExtraSection struct {
	Enabled bool     `json:"enabled" bson:"enabled"`
	Text    string   `json:"text,omitempty" bson:"text,omitempty"`
	CanEdit []string `json:"canEdit,omitempty" bson:"canEdit,omitempty"`
}
