// Package snapshots answers read-only queries over cluster snapshots. The
// provider narrows by identifier and type; pattern matching, status
// filtering, sorting, and slicing happen client-side here.
package snapshots

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/aurorec/aurorec/faults"
	"github.com/aurorec/aurorec/providers"
	"github.com/aurorec/aurorec/types"
)

// Sort keys accepted by Query.SortBy.
const (
	SortByID         = "id"
	SortByCreateTime = "create_time"
)

// Sort orders accepted by Query.SortOrder.
const (
	OrderAscending  = "ascending"
	OrderDescending = "descending"
)

// Query selects and orders snapshot records. SnapshotID and ClusterID are
// mutually exclusive; SortStart and SortEnd slice the sorted result and
// only apply when a sort key is set.
type Query struct {
	SnapshotID string
	ClusterID  string
	Type       string
	Status     string
	IDPattern  string
	MaxRecords int32

	SortBy    string
	SortOrder string
	SortStart *int
	SortEnd   *int
}

// Validate rejects contradictory or malformed queries before any provider
// call is made.
func (q Query) Validate() error {
	if q.SnapshotID != "" && q.ClusterID != "" {
		return faults.Validation("", "query snapshots",
			fmt.Errorf("snapshot_id and cluster_id are mutually exclusive"))
	}
	if q.IDPattern != "" {
		if _, err := regexp.Compile(q.IDPattern); err != nil {
			return faults.Validation("", "query snapshots",
				fmt.Errorf("invalid snapshot id pattern %q: %w", q.IDPattern, err))
		}
	}
	switch q.SortBy {
	case "", SortByID, SortByCreateTime:
	default:
		return faults.Validation("", "query snapshots",
			fmt.Errorf("unknown sort key %q", q.SortBy))
	}
	switch q.SortOrder {
	case "", OrderAscending, OrderDescending:
	default:
		return faults.Validation("", "query snapshots",
			fmt.Errorf("unknown sort order %q", q.SortOrder))
	}
	if q.SortBy == "" && (q.SortStart != nil || q.SortEnd != nil) {
		return faults.Validation("", "query snapshots",
			fmt.Errorf("sort slicing requires a sort key"))
	}
	return nil
}

// Run lists snapshots through reader and applies the query. The returned
// slice is freshly allocated; running a query never mutates remote state.
func Run(ctx context.Context, reader providers.StateReader, q Query) ([]types.SnapshotRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	records, err := reader.ListSnapshots(ctx, types.SnapshotListFilter{
		SnapshotID: q.SnapshotID,
		ClusterID:  q.ClusterID,
		Type:       q.Type,
		MaxRecords: q.MaxRecords,
	})
	if err != nil {
		return nil, err
	}

	records = filter(records, q)
	if q.SortBy != "" {
		sortRecords(records, q.SortBy, q.SortOrder)
		records = slice(records, q.SortStart, q.SortEnd)
	}
	return records, nil
}

func filter(records []types.SnapshotRecord, q Query) []types.SnapshotRecord {
	var pattern *regexp.Regexp
	if q.IDPattern != "" {
		// Validate already compiled it once.
		pattern = regexp.MustCompile(q.IDPattern)
	}

	kept := make([]types.SnapshotRecord, 0, len(records))
	for _, record := range records {
		if q.Status != "" && record.Status != q.Status {
			continue
		}
		if pattern != nil && !pattern.MatchString(record.SnapshotID) {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}

func sortRecords(records []types.SnapshotRecord, key, order string) {
	less := func(a, b types.SnapshotRecord) bool { return a.SnapshotID < b.SnapshotID }
	if key == SortByCreateTime {
		less = func(a, b types.SnapshotRecord) bool {
			return a.SnapshotCreateTime.Before(b.SnapshotCreateTime)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if order == OrderDescending {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

// slice applies python-style start/end bounds to the sorted records.
func slice(records []types.SnapshotRecord, start, end *int) []types.SnapshotRecord {
	lo, hi := 0, len(records)
	if start != nil {
		lo = clamp(*start, 0, len(records))
	}
	if end != nil {
		hi = clamp(*end, 0, len(records))
	}
	if lo > hi {
		lo = hi
	}
	return records[lo:hi]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
