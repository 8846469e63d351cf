package dataset

// Selection names the columns and label used to pick the headcount rows.
type Selection struct {
	LabelColumn    string
	CategoryColumn string
	FilterLabel    string
}

// Extract is the latest-period slice of the filtered rows. Categories[i] and Values[i]
// come from the same source row, recorded in Records[i].
type Extract struct {
	Period     string
	Categories []string
	Values     []string
	Records    []int
}

// Len is the number of extracted categories.
func (e *Extract) Len() int { return len(e.Categories) }

// ExtractLatest filters t by sel and reads the category name and latest-period value of every
// matching row. Missing cells come through as empty strings so the aggregator can report
// them against their record.
func ExtractLatest(t *Table, sel Selection) (*Extract, error) {
	if _, ok := t.ColumnIndex(sel.CategoryColumn); !ok {
		return nil, &FilterError{Column: sel.CategoryColumn, Msg: "not present in table"}
	}
	rows, err := t.Filter(sel.LabelColumn, sel.FilterLabel)
	if err != nil {
		return nil, err
	}
	period := t.LatestPeriod()
	ex := &Extract{
		Period:     period,
		Categories: make([]string, 0, len(rows)),
		Values:     make([]string, 0, len(rows)),
		Records:    make([]int, 0, len(rows)),
	}
	for _, r := range rows {
		cat, _ := t.Value(r, sel.CategoryColumn)
		val, _ := t.Value(r, period)
		ex.Categories = append(ex.Categories, cat)
		ex.Values = append(ex.Values, val)
		ex.Records = append(ex.Records, r.Record)
	}
	return ex, nil
}
