package format

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gosuri/uitable"
)

// preferredColumns lead the table in this order when present.
var preferredColumns = []string{"id", "kind", "title", "name", "view", "order", "type", "ts", "entityId"}

const maxCellWidth = 60

// WriteTable renders v as a table. A {"data": ...} envelope is unwrapped. A
// list of objects becomes one row per object; a single object becomes
// key/value rows.
func WriteTable(w io.Writer, v any) error {
	x, err := normalize(v)
	if err != nil {
		return err
	}
	if m, ok := x.(map[string]any); ok {
		if data, ok := m["data"]; ok {
			x = data
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = maxCellWidth
	tbl.Wrap = false

	switch t := x.(type) {
	case []any:
		cols := columnsOf(t)
		if len(cols) == 0 {
			for _, v := range t {
				tbl.AddRow(cell(v))
			}
			break
		}
		header := make([]any, 0, len(cols))
		for _, c := range cols {
			header = append(header, strings.ToUpper(c))
		}
		tbl.AddRow(header...)
		for _, row := range t {
			m, _ := row.(map[string]any)
			cells := make([]any, 0, len(cols))
			for _, c := range cols {
				cells = append(cells, cell(m[c]))
			}
			tbl.AddRow(cells...)
		}
	case map[string]any:
		keys := orderedKeys(t)
		for _, k := range keys {
			tbl.AddRow(k, cell(t[k]))
		}
	default:
		tbl.AddRow(cell(t))
	}
	_, err = fmt.Fprintln(w, tbl)
	return err
}

// columnsOf returns the scalar keys present across rows, preferred ones
// first then alphabetical.
func columnsOf(rows []any) []string {
	seen := map[string]bool{}
	for _, r := range rows {
		m, ok := r.(map[string]any)
		if !ok {
			return nil
		}
		for k, v := range m {
			switch v.(type) {
			case map[string]any:
				continue
			}
			seen[k] = true
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return sortKeys(out)
}

func orderedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return sortKeys(out)
}

func sortKeys(keys []string) []string {
	rank := map[string]int{}
	for i, k := range preferredColumns {
		rank[k] = i + 1
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank[keys[i]], rank[keys[j]]
		switch {
		case ri != 0 && rj != 0:
			return ri < rj
		case ri != 0:
			return true
		case rj != 0:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, x := range t {
			parts = append(parts, cell(x))
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return fmt.Sprintf("{%d keys}", len(t))
	default:
		return fmt.Sprint(t)
	}
}
