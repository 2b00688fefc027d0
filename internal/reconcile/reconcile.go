// Package reconcile compares a provider snapshot against local store records
// and classifies every entity into a diff status. It is pure: no store or
// network access, output depends only on the inputs.
package reconcile

import (
	"sort"
	"time"
)

// Source tells which side(s) an entity was found on.
type Source string

const (
	SourceDB       Source = "db"
	SourceProvider Source = "provider"
	SourceBoth     Source = "both"
)

// Status is the diff classification of one unified entity.
type Status string

const (
	StatusOK          Status = "ok"
	StatusMismatch    Status = "mismatch"
	StatusMissingInDB Status = "missing-in-db"
	StatusExtraInDB   Status = "extra-in-db"
)

// Record is the comparable view of one entity on either side. Raw carries the
// original row/DTO for caller inspection and is never compared.
type Record struct {
	ExternalID string      `json:"external_id"`
	Name       string      `json:"name"`
	State      string      `json:"state"`
	Result     string      `json:"result"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Raw        interface{} `json:"raw,omitempty"`
}

// Unified joins a store-side and a provider-side record under one external id.
// At least one of DB/Provider is always non-nil.
type Unified struct {
	ExternalID string   `json:"external_id"`
	Source     Source   `json:"source"`
	Status     Status   `json:"status"`
	Diffs      []string `json:"diffs,omitempty"`
	DB         *Record  `json:"db,omitempty"`
	Provider   *Record  `json:"provider,omitempty"`
}

// Summary holds per-status counts over a unified list. The status counts
// always sum to Total.
type Summary struct {
	Total         int `json:"total"`
	OK            int `json:"ok"`
	Mismatch      int `json:"mismatch"`
	MissingInDB   int `json:"missing_in_db"`
	ExtraInDB     int `json:"extra_in_db"`
	DBCount       int `json:"db_count"`
	ProviderCount int `json:"provider_count"`
}

// SortField selects the output ordering.
type SortField string

const (
	SortByUpdatedAt  SortField = "updated_at" // most recent first, the default
	SortByExternalID SortField = "external_id"
	SortByName       SortField = "name"
)

// Options tunes Reconcile behavior.
type Options struct {
	SortBy SortField
}

// Reconcile produces one Unified entry per external id in the union of both
// snapshots. Duplicate ids within one snapshot are not expected; the last one
// wins. Runs in O(n) over the combined entity count plus the final sort.
func Reconcile(db, provider []Record, opts Options) []Unified {
	dbByID := indexByExternalID(db)
	provByID := indexByExternalID(provider)

	keys := make([]string, 0, len(dbByID)+len(provByID))
	seen := make(map[string]bool, len(dbByID)+len(provByID))
	for _, r := range db {
		k := normalizeKey(r.ExternalID)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	for _, r := range provider {
		k := normalizeKey(r.ExternalID)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}

	out := make([]Unified, 0, len(keys))
	for _, key := range keys {
		d, hasDB := dbByID[key]
		p, hasProv := provByID[key]

		u := Unified{ExternalID: key}
		switch {
		case hasDB && hasProv:
			u.Source = SourceBoth
			u.DB = d
			u.Provider = p
			u.Diffs = compareRecords(d, p)
			if len(u.Diffs) == 0 {
				u.Status = StatusOK
			} else {
				u.Status = StatusMismatch
			}
		case hasDB:
			u.Source = SourceDB
			u.DB = d
			u.Status = StatusExtraInDB
		default:
			u.Source = SourceProvider
			u.Provider = p
			u.Status = StatusMissingInDB
		}
		out = append(out, u)
	}

	sortUnified(out, opts.SortBy)
	return out
}

// Summarize derives per-status counts in a single pass. Consistent with the
// per-entity statuses by construction.
func Summarize(unified []Unified) Summary {
	var s Summary
	s.Total = len(unified)
	for _, u := range unified {
		switch u.Status {
		case StatusOK:
			s.OK++
		case StatusMismatch:
			s.Mismatch++
		case StatusMissingInDB:
			s.MissingInDB++
		case StatusExtraInDB:
			s.ExtraInDB++
		}
		if u.DB != nil {
			s.DBCount++
		}
		if u.Provider != nil {
			s.ProviderCount++
		}
	}
	return s
}

func indexByExternalID(records []Record) map[string]*Record {
	out := make(map[string]*Record, len(records))
	for i := range records {
		key := normalizeKey(records[i].ExternalID)
		if key == "" {
			continue
		}
		out[key] = &records[i]
	}
	return out
}

// compareRecords returns the names of comparable fields that differ after
// normalization.
func compareRecords(db, provider *Record) []string {
	var diffs []string
	if normalizeName(db.Name) != normalizeName(provider.Name) {
		diffs = append(diffs, "name")
	}
	if normalizeName(db.State) != normalizeName(provider.State) {
		diffs = append(diffs, "state")
	}
	if normalizeResult(db.Result) != normalizeResult(provider.Result) {
		diffs = append(diffs, "result")
	}
	return diffs
}

func sortUnified(out []Unified, by SortField) {
	switch by {
	case SortByExternalID:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ExternalID < out[j].ExternalID
		})
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			ni, nj := displayName(out[i]), displayName(out[j])
			if ni == nj {
				return out[i].ExternalID < out[j].ExternalID
			}
			return ni < nj
		})
	default: // SortByUpdatedAt, most recent first
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := latestUpdate(out[i]), latestUpdate(out[j])
			if ti.Equal(tj) {
				return out[i].ExternalID < out[j].ExternalID
			}
			return ti.After(tj)
		})
	}
}

func displayName(u Unified) string {
	if u.Provider != nil {
		return normalizeName(u.Provider.Name)
	}
	return normalizeName(u.DB.Name)
}

func latestUpdate(u Unified) time.Time {
	var t time.Time
	if u.DB != nil {
		t = u.DB.UpdatedAt
	}
	if u.Provider != nil && u.Provider.UpdatedAt.After(t) {
		t = u.Provider.UpdatedAt
	}
	return t
}
