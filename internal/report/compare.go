package report

import (
	"context"
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/samber/lo"
)

// Comparison row labels
const (
	RowAvgKill   = "avg_kill"
	RowAvgDeath  = "avg_death"
	RowAvgAssist = "avg_assist"
)

// Table is a small labelled float matrix, Values[row][col]
type Table struct {
	Index   []string
	Columns []string
	Values  [][]float64
}

// Get returns the cell at (row, col) by label
func (t *Table) Get(row, col string) (float64, bool) {
	ri := lo.IndexOf(t.Index, row)
	ci := lo.IndexOf(t.Columns, col)
	if ri < 0 || ci < 0 {
		return 0, false
	}
	return t.Values[ri][ci], true
}

// Column returns every value of column ci in row order
func (t *Table) Column(ci int) []float64 {
	return lo.Map(t.Values, func(row []float64, _ int) float64 { return row[ci] })
}

// String renders the table with aligned columns, NaN shown as "NaN"
func (t *Table) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "\t%s\t\n", strings.Join(t.Columns, "\t"))
	for i, label := range t.Index {
		cells := lo.Map(t.Values[i], func(v float64, _ int) string { return fmt.Sprintf("%.2f", v) })
		fmt.Fprintf(w, "%s\t%s\t\n", label, strings.Join(cells, "\t"))
	}
	w.Flush()
	return b.String()
}

// MarshalJSON encodes NaN cells as null
func (t *Table) MarshalJSON() ([]byte, error) {
	values := lo.Map(t.Values, func(row []float64, _ int) []*float64 {
		return lo.Map(row, func(v float64, _ int) *float64 {
			if math.IsNaN(v) {
				return nil
			}
			return &v
		})
	})
	return json.Marshal(struct {
		Index   []string     `json:"index"`
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{t.Index, t.Columns, values})
}

// Averages returns mean kills, deaths and assists. With no records all three
// are NaN.
func Averages(records []MatchRecord) (kills, deaths, assists float64) {
	if len(records) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	kills = lo.MeanBy(records, func(m MatchRecord) float64 { return float64(m.Kills) })
	deaths = lo.MeanBy(records, func(m MatchRecord) float64 { return float64(m.Deaths) })
	assists = lo.MeanBy(records, func(m MatchRecord) float64 { return float64(m.Assists) })
	return kills, deaths, assists
}

// ComparisonTable lays out per-player averages as rows avg_kill, avg_death,
// avg_assist with one column per player.
func ComparisonTable(names []string, records [][]MatchRecord) *Table {
	t := &Table{
		Index:   []string{RowAvgKill, RowAvgDeath, RowAvgAssist},
		Columns: names,
		Values:  [][]float64{make([]float64, len(names)), make([]float64, len(names)), make([]float64, len(names))},
	}
	for ci := range names {
		k, d, a := Averages(records[ci])
		t.Values[0][ci] = k
		t.Values[1][ci] = d
		t.Values[2][ci] = a
	}
	return t
}

// ComparePlayers averages each player's last CompareCount matches side by side.
// The same name given twice yields a single column.
// Rendering is left to the caller (see render.BarChart).
func (r *Reporter) ComparePlayers(ctx context.Context, name1, name2 string) (*Table, error) {
	names := lo.Uniq([]string{name1, name2})
	records := make([][]MatchRecord, len(names))
	for i, name := range names {
		recs, err := r.RecentGames(ctx, name, CompareCount)
		if err != nil {
			return nil, err
		}
		records[i] = recs
	}
	return ComparisonTable(names, records), nil
}
