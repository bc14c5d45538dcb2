package http

import (
	"encoding/csv"
	"io"

	"frota/internal/core"
	"frota/internal/format"
)

const exportFilename = "custos_frota.csv"

var exportHeaders = map[string][]string{
	core.LocalePT.Name: {"mes", "gasto_real", "km_rodado", "custo_por_km"},
	core.LocaleEN.Name: {"month", "actual_spend", "km_driven", "cost_per_km"},
}

// WriteCSV writes records as a semicolon separated table with full month
// names and amounts in the locale's number format. Months with undefined cost per kilometre
// get an empty last cell.
func WriteCSV(w io.Writer, records []core.Record, loc core.Locale) error {
	header, ok := exportHeaders[loc.Name]
	if !ok {
		header = exportHeaders[core.LocalePT.Name]
	}
	f := format.For(loc)

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			loc.Label(r.Period),
			f.Amount(r.Spent),
			f.Distance(r.Distance),
			f.Number(r.Efficiency),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
