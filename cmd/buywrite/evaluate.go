package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aristath/buywrite/internal/domain"
	"github.com/aristath/buywrite/internal/modules/evaluation"
	"github.com/aristath/buywrite/internal/report"
	"github.com/aristath/buywrite/pkg/formulas"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	shares       int
	purchaseDate string
	csvPath      string
	bestCSVPath  string
	diagnostics  bool
	workers      int
}

func newEvaluateCmd(a *app) *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate SYMBOL",
		Short: "Score every in-band call for a stock bought on a date",
		Example: `  buywrite evaluate KO --shares 100 --purchase-date 2025-01-02
  buywrite evaluate KO --csv ko.csv --best-csv ko_best.csv --diagnostics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEvaluate(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.shares, "shares", 100, "number of shares bought")
	cmd.Flags().StringVar(&opts.purchaseDate, "purchase-date", "", "purchase date YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "write all rows to this CSV file")
	cmd.Flags().StringVar(&opts.bestCSVPath, "best-csv", "", "write the best row to this CSV file")
	cmd.Flags().BoolVar(&opts.diagnostics, "diagnostics", false, "show per-expiration dividend projections")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent expiration fetches (defaults to BUYWRITE_WORKERS)")

	return cmd
}

func (a *app) runEvaluate(cmd *cobra.Command, symbol string, opts *evaluateOptions) error {
	purchase, err := parsePurchaseDate(opts.purchaseDate, time.Now())
	if err != nil {
		return err
	}

	provider, _, closeProvider, err := a.openProvider()
	if err != nil {
		return err
	}
	defer closeProvider()

	evalCfg := a.cfg.EvaluationConfig()
	if opts.workers > 0 {
		evalCfg.Workers = opts.workers
	}
	service := evaluation.NewService(provider, evalCfg, a.log)

	result, err := service.Evaluate(cmd.Context(), evaluation.Request{
		Symbol:             symbol,
		Shares:             opts.shares,
		PurchaseDate:       purchase,
		IncludeDiagnostics: opts.diagnostics,
	})
	if err != nil {
		var inputErr *evaluation.InputDataError
		if errors.As(err, &inputErr) {
			for _, w := range inputErr.Warnings {
				a.log.Warn().Str("reason", string(w.Reason)).Msg(w.Message)
			}
		}
		return err
	}

	if _, err := io.WriteString(cmd.OutOrStdout(), report.NewRenderer(report.DefaultTheme).Render(result)); err != nil {
		return err
	}

	if opts.csvPath != "" {
		if err := writeFile(opts.csvPath, func(w io.Writer) error { return report.WriteCSV(w, result.Rows) }); err != nil {
			return err
		}
		a.log.Info().Str("path", opts.csvPath).Int("rows", len(result.Rows)).Msg("CSV written")
	}
	if opts.bestCSVPath != "" {
		if err := writeFile(opts.bestCSVPath, func(w io.Writer) error { return report.WriteBestCSV(w, result) }); err != nil {
			return err
		}
		a.log.Info().Str("path", opts.bestCSVPath).Msg("Best option CSV written")
	}

	return nil
}

// parsePurchaseDate reads YYYY-MM-DD in the exchange timezone; empty means
// the current exchange date.
func parsePurchaseDate(s string, now time.Time) (time.Time, error) {
	loc := domain.ExchangeLocation()
	if s == "" {
		return formulas.StartOfDay(now, loc), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --purchase-date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
