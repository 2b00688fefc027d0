package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, name string) Record {
	return Record{ExternalID: id, Name: name}
}

func TestReconcileMatchAndMissing(t *testing.T) {
	db := []Record{rec("1", "A")}
	provider := []Record{rec("1", "A"), rec("2", "B")}

	unified := Reconcile(db, provider, Options{SortBy: SortByExternalID})
	require.Len(t, unified, 2)

	assert.Equal(t, "1", unified[0].ExternalID)
	assert.Equal(t, StatusOK, unified[0].Status)
	assert.Equal(t, SourceBoth, unified[0].Source)

	assert.Equal(t, "2", unified[1].ExternalID)
	assert.Equal(t, StatusMissingInDB, unified[1].Status)
	assert.Equal(t, SourceProvider, unified[1].Source)

	sum := Summarize(unified)
	assert.Equal(t, Summary{Total: 2, OK: 1, MissingInDB: 1, DBCount: 1, ProviderCount: 2}, sum)
}

func TestReconcileExtraInDB(t *testing.T) {
	db := []Record{rec("7", "Orphan")}

	unified := Reconcile(db, nil, Options{})
	require.Len(t, unified, 1)
	assert.Equal(t, StatusExtraInDB, unified[0].Status)
	assert.Equal(t, SourceDB, unified[0].Source)
	assert.NotNil(t, unified[0].DB)
	assert.Nil(t, unified[0].Provider)
}

func TestReconcileMismatchReportsFields(t *testing.T) {
	db := []Record{{ExternalID: "10", Name: "Arsenal", State: "finished", Result: "2:1"}}
	provider := []Record{{ExternalID: "10", Name: "Arsenal FC", State: "finished", Result: "2:1"}}

	unified := Reconcile(db, provider, Options{})
	require.Len(t, unified, 1)
	assert.Equal(t, StatusMismatch, unified[0].Status)
	assert.Equal(t, []string{"name"}, unified[0].Diffs)
}

func TestReconcileNormalizationEquivalences(t *testing.T) {
	db := []Record{{ExternalID: " 10 ", Name: "  arsenal ", State: "Finished", Result: "2-1"}}
	provider := []Record{{ExternalID: "10", Name: "Arsenal", State: "finished", Result: "2 : 1"}}

	unified := Reconcile(db, provider, Options{})
	require.Len(t, unified, 1)
	assert.Equal(t, StatusOK, unified[0].Status)
	assert.Empty(t, unified[0].Diffs)
}

func TestReconcileUnionCountsConsistent(t *testing.T) {
	db := []Record{rec("1", "A"), rec("2", "B"), rec("3", "C")}
	provider := []Record{rec("2", "B"), rec("3", "X"), rec("4", "D")}

	unified := Reconcile(db, provider, Options{})
	sum := Summarize(unified)

	// Every key in the union appears exactly once.
	seen := make(map[string]int)
	for _, u := range unified {
		seen[u.ExternalID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %s appears %d times", id, n)
	}

	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, sum.Total, sum.OK+sum.Mismatch+sum.MissingInDB+sum.ExtraInDB)
	assert.Equal(t, 3, sum.DBCount)
	assert.Equal(t, 3, sum.ProviderCount)
}

func TestReconcileDuplicateLastWins(t *testing.T) {
	db := []Record{rec("1", "Old"), rec("1", "New")}
	provider := []Record{rec("1", "New")}

	unified := Reconcile(db, provider, Options{})
	require.Len(t, unified, 1)
	assert.Equal(t, StatusOK, unified[0].Status)
}

func TestReconcileDefaultSortMostRecentFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db := []Record{
		{ExternalID: "1", Name: "A", UpdatedAt: base},
		{ExternalID: "2", Name: "B", UpdatedAt: base.Add(time.Hour)},
	}

	unified := Reconcile(db, nil, Options{})
	require.Len(t, unified, 2)
	assert.Equal(t, "2", unified[0].ExternalID)
	assert.Equal(t, "1", unified[1].ExternalID)
}

func TestNormalizeResultIdempotent(t *testing.T) {
	inputs := []string{"2-1", "2 : 1", " 0:0 ", "", "3 - 2"}
	for _, in := range inputs {
		once := normalizeResult(in)
		assert.Equal(t, once, normalizeResult(once), "input %q", in)
	}
}

func TestReconcileBlankIDsIgnored(t *testing.T) {
	db := []Record{rec("", "noid"), rec("1", "A")}

	unified := Reconcile(db, nil, Options{})
	require.Len(t, unified, 1)
	assert.Equal(t, "1", unified[0].ExternalID)
}
