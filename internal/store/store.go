package store

import (
	"slices"

	"github.com/nhle/calendar/internal/model"
)

// Record is the raw persisted form of one task. It is not validated until it
// is loaded back into a TaskStore.
type Record struct {
	Tag         string
	Description string
	Priority    string
	Dates       []string
	Times       []string
}

// RecordOf converts a task into its persisted form.
func RecordOf(t model.Task) Record {
	return Record{
		Tag:         t.Type().Tag(),
		Description: t.GetDescription(),
		Priority:    t.GetPriority().String(),
		Dates:       t.Dates(),
		Times:       t.Times(),
	}
}

// Snapshot is the full task mapping at a point in time, as exchanged with
// the task file.
type Snapshot map[model.Date][]Record

// Dates returns the snapshot's dates in calendar order.
func (s Snapshot) Dates() []model.Date {
	dates := make([]model.Date, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, model.Date.Compare)
	return dates
}

// Len returns the number of records across all dates.
func (s Snapshot) Len() int {
	n := 0
	for _, recs := range s {
		n += len(recs)
	}
	return n
}

// Persister writes a full snapshot to durable storage.
type Persister interface {
	Save(snap Snapshot) error
}
