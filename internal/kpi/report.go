package kpi

import "fmt"

// Entry is one row of a report.
type Entry struct {
	Key   string
	Value float64
}

// Report is the ordered KPI mapping of one run. It always holds the full key
// set and is read-only once Aggregate returns it.
type Report struct {
	values map[string]float64
}

func newReport() *Report {
	return &Report{values: make(map[string]float64, len(orderedKeys))}
}

func (r *Report) set(key string, v float64) {
	r.values[key] = v
}

// complete fails if any fixed key was never set.
func (r *Report) complete() error {
	for _, k := range orderedKeys {
		if _, ok := r.values[k]; !ok {
			return fmt.Errorf("report key %q not computed", k)
		}
	}
	return nil
}

// Keys returns the report keys in order.
func (r *Report) Keys() []string {
	return Keys()
}

// Get returns the value for key.
func (r *Report) Get(key string) (float64, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of KPIs.
func (r *Report) Len() int {
	return len(orderedKeys)
}

// Entries returns all KPIs in report order.
func (r *Report) Entries() []Entry {
	out := make([]Entry, 0, len(orderedKeys))
	for _, k := range orderedKeys {
		out = append(out, Entry{Key: k, Value: r.values[k]})
	}
	return out
}
