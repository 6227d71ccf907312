package models

import "time"

// ChangelogSection is the fixed set of section names a changelog entry can
// be filed under. A typed enumeration keeps a typo from silently creating a
// new section.
type ChangelogSection string

const (
	SectionGeneral      ChangelogSection = "General"
	SectionProblemDef   ChangelogSection = "Problem Definition"
	SectionCurrentState ChangelogSection = "Current State"
	SectionFutureState  ChangelogSection = "Future State"
	SectionActions      ChangelogSection = "Actions"
	SectionMetrics      ChangelogSection = "Metrics & Objectives"
)

// ChangelogSections is the fixed evaluation order.
var ChangelogSections = []ChangelogSection{
	SectionGeneral,
	SectionProblemDef,
	SectionCurrentState,
	SectionFutureState,
	SectionActions,
	SectionMetrics,
}

// Changelog maps a section to its ordered list of human-readable change
// descriptions.
type Changelog map[ChangelogSection][]string

// VersionSnapshot is an immutable copy of a document at versioning time,
// keyed by (series, label). Once written it is never mutated, only
// superseded by a newer label.
type VersionSnapshot struct {
	Snapshot A3          `json:"snapshot" bson:"snapshot"`
	Meta     VersionMeta `json:"meta" bson:"meta"`
}

type VersionMeta struct {
	Timestamp time.Time `json:"ts" bson:"ts"`
	Changelog Changelog `json:"changelog,omitempty" bson:"changelog,omitempty"`
	Message   string    `json:"message,omitempty" bson:"message,omitempty"`
	Author    string    `json:"author,omitempty" bson:"author,omitempty"`
}
