package models

import "strings"

// Affiliation classifies roster entries and ad-hoc reservations.
type Affiliation string

const (
	AffiliationDirect     Affiliation = "DIRECT"
	AffiliationContractor Affiliation = "CONTRACTOR"
	AffiliationVisitor    Affiliation = "VISITOR"
)

var affiliationAliases = map[string]Affiliation{
	"direct":     AffiliationDirect,
	"직영":         AffiliationDirect,
	"contractor": AffiliationContractor,
	"협력사":        AffiliationContractor,
	"visitor":    AffiliationVisitor,
	"방문자":        AffiliationVisitor,
}

// ParseAffiliation accepts the canonical codes case-insensitively as well as
// the Korean labels used by the legacy roster sheets.
func ParseAffiliation(raw string) (Affiliation, bool) {
	a, ok := affiliationAliases[strings.ToLower(strings.TrimSpace(raw))]
	return a, ok
}

// Valid returns true when the affiliation is a supported value.
func (a Affiliation) Valid() bool {
	switch a {
	case AffiliationDirect, AffiliationContractor, AffiliationVisitor:
		return true
	default:
		return false
	}
}

// Label returns the display name used in reports.
func (a Affiliation) Label() string {
	switch a {
	case AffiliationDirect:
		return "직영"
	case AffiliationContractor:
		return "협력사"
	case AffiliationVisitor:
		return "방문자"
	default:
		return string(a)
	}
}

// Tier orders affiliations in summary reports.
func (a Affiliation) Tier() int {
	switch a {
	case AffiliationDirect:
		return 0
	case AffiliationContractor:
		return 1
	case AffiliationVisitor:
		return 2
	default:
		return 3
	}
}

const (
	LevelMember = 1
	LevelAdmin  = 3
)

// Employee is a roster entry.
type Employee struct {
	ID     string      `db:"id" json:"id"`
	Name   string      `db:"name" json:"name"`
	Type   Affiliation `db:"type" json:"type"`
	Dept   string      `db:"dept" json:"dept"`
	Rank   string      `db:"rank" json:"rank"`
	Region string      `db:"region" json:"region"`
	Level  int         `db:"level" json:"level"`
}

// IsTraveling reports whether a Direct employee is posted away from the primary site.
func (e Employee) IsTraveling(primaryRegion string) bool {
	return e.Type == AffiliationDirect && e.Region != primaryRegion
}

// EmployeeFilter narrows roster listings.
type EmployeeFilter struct {
	Name string
	Type Affiliation
}
