package models

import "time"

// ObjectKind distinguishes pages from databases
type ObjectKind string

const (
	ObjectPage     ObjectKind = "page"
	ObjectDatabase ObjectKind = "database"
)

// ParentWorkspace is the parent type the API reports for top-level pages
const ParentWorkspace = "workspace"

// PageMeta holds the metadata of one page or database as returned by the
// fetch layer.
type PageMeta struct {
	ID             string
	Title          string
	ObjectKind     ObjectKind
	ParentType     string
	ParentID       string
	CreatedTime    time.Time
	LastEditedTime time.Time
	URL            string
}

// UnsupportedFeature records one fidelity-loss event encountered during
// conversion. Entries are append-only and consumed in bulk by the reporter.
type UnsupportedFeature struct {
	BlockType string
	Feature   string
	BlockID   string
}

// User identifies the authenticated integration
type User struct {
	Name string
	Type string
}
