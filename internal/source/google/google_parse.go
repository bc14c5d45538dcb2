package google

import (
	"fmt"
	"strconv"
	"strings"

	"frota/internal/core"
)

// parseTable converts a values matrix (as returned by the Sheets API with
// UNFORMATTED_VALUE rendering) into raw rows. Blank rows are skipped; the
// first row is treated as a header when its amount cell is not numeric.
func parseTable(values [][]interface{}) ([]core.RawRow, error) {
	rows := make([]core.RawRow, 0, len(values))
	for i, cells := range values {
		if isBlank(cells) {
			continue
		}
		label := strings.TrimSpace(fmt.Sprint(safeGet(cells, 0)))
		spent, spentErr := cellMoney(safeGet(cells, 1))
		if spentErr != nil && i == 0 && !numericCell(safeGet(cells, 1)) {
			continue // header
		}
		if spentErr != nil {
			return nil, &core.DataError{Row: i, Label: label, Reason: "amount: " + spentErr.Error(), Err: spentErr}
		}
		km, err := cellNumber(safeGet(cells, 2))
		if err != nil {
			return nil, fmt.Errorf("row %d: distance: %w", i+1, err)
		}
		rows = append(rows, core.RawRow{Label: label, Spent: spent, Distance: km})
	}
	return rows, nil
}

func cellMoney(v interface{}) (core.Money, error) {
	switch x := v.(type) {
	case float64:
		return core.MoneyFromFloat(x)
	case nil:
		return core.Money{}, fmt.Errorf("empty cell")
	default:
		m, err := core.ParseSourceAmount(fmt.Sprint(x))
		if err != nil {
			return core.Money{}, fmt.Errorf("%q: %w", fmt.Sprint(x), err)
		}
		return m, nil
	}
}

// numericCell reports whether v holds a number, so that an out-of-range
// amount in the first row is not mistaken for a header.
func numericCell(v interface{}) bool {
	switch x := v.(type) {
	case float64:
		return true
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(x), "-")
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	default:
		return false
	}
}

func cellNumber(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case nil:
		return 0, fmt.Errorf("empty cell")
	default:
		s := strings.TrimSpace(fmt.Sprint(x))
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q: not a number", fmt.Sprint(x))
		}
		return f, nil
	}
}

func isBlank(cells []interface{}) bool {
	for _, c := range cells {
		if strings.TrimSpace(fmt.Sprint(c)) != "" {
			return false
		}
	}
	return true
}

func safeGet(arr []interface{}, idx int) interface{} {
	if idx < 0 || idx >= len(arr) {
		return nil
	}
	return arr[idx]
}
