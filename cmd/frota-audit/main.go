// Command frota-audit prints the fleet table with the deviation tier of
// every month, or of a single month with -period.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"frota/internal/cli"
	"frota/internal/core"
	"frota/internal/format"
	apphttp "frota/internal/http"
	applog "frota/internal/log"
	"frota/internal/services"
)

func main() {
	period := flag.String("period", "", "month to classify (label or 1-12); all months when empty")
	asCSV := flag.Bool("csv", false, "write the table as semicolon separated CSV instead")
	timeout := flag.Duration("timeout", 30*time.Second, "source read timeout")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentAudit)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	source, closeSource, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", applog.FieldError, err)
		os.Exit(1)
	}
	defer closeSource()

	thresholds := cfg.Thresholds()
	reports := services.NewReportService(source, services.Options{
		Locale:     cfg.MonthLocale(),
		Thresholds: &thresholds,
		InstanceID: cfg.InstanceID,
	})

	if err := run(ctx, os.Stdout, reports, *period, *asCSV); err != nil {
		logger.Error("Audit failed", applog.FieldError, err)
		closeSource()
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, reports *services.ReportService, period string, asCSV bool) error {
	var filter core.Filter
	if period != "" {
		p, err := core.ParsePeriod(period, reports.Locale())
		if err != nil {
			return err
		}
		filter.Periods = []core.Period{p}
	}

	d, err := reports.Dashboard(ctx, filter, nil)
	if err != nil {
		return err
	}
	if asCSV {
		return apphttp.WriteCSV(w, d.Records, d.Locale)
	}

	f := format.For(d.Locale)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "month\tspent\tkm\tcost/km\tdeviation\ttier\t")
	for _, r := range d.Records {
		deviation, tier := "-", "-"
		c, err := reports.Diagnostic(ctx, r.Period)
		switch {
		case err == nil:
			deviation, tier = f.Percent(c.DeviationPercent), string(c.Tier)
		case errors.Is(err, core.ErrDivisionUndefined):
			tier = "undefined"
		default:
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			d.Locale.Short(r.Period),
			f.Money(r.Spent),
			f.Distance(r.Distance),
			f.Efficiency(r.Efficiency),
			deviation,
			tier)
	}
	fmt.Fprintf(tw, "total\t%s\t%s\t%s\t\t\t\n",
		f.Money(d.Summary.TotalSpent),
		f.Distance(d.Summary.TotalDistance),
		f.Efficiency(d.Summary.Efficiency))
	return tw.Flush()
}
