package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/buywrite/internal/domain"
	"github.com/aristath/buywrite/internal/modules/dividends"
	"github.com/aristath/buywrite/internal/modules/options"
	"github.com/aristath/buywrite/internal/modules/scoring"
	"github.com/aristath/buywrite/pkg/formulas"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultWorkers is the number of expirations processed concurrently.
const DefaultWorkers = 4

// Config holds the evaluation parameters.
type Config struct {
	Workers int
	Band    options.Band
	Window  options.Window
	Policy  scoring.Policy
}

// DefaultConfig returns the standard band, window and early-call policy.
func DefaultConfig() Config {
	return Config{
		Workers: DefaultWorkers,
		Band:    options.DefaultBand,
		Window:  options.DefaultWindow,
		Policy:  scoring.DefaultPolicy(),
	}
}

// Service evaluates buy-write opportunities against a market-data provider.
type Service struct {
	provider domain.MarketDataProvider
	cfg      Config
	pool     *workerPool
	log      zerolog.Logger
}

// NewService creates a new evaluation service
func NewService(provider domain.MarketDataProvider, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		pool:     newWorkerPool(cfg.Workers),
		log:      log.With().Str("service", "evaluation").Logger(),
	}
}

// Config returns the parameters the service evaluates with.
func (s *Service) Config() Config {
	return s.cfg
}

// expirationOutcome is what one expiration contributes to a run
type expirationOutcome struct {
	rows    []Row
	trace   *scoring.ExpirationTrace
	warning *ExpirationError
	err     error
}

// run is the read-only state shared by every expiration of one evaluation
type run struct {
	req        Request
	stockPrice float64
	profile    dividends.Profile
	scorer     *scoring.Scorer
}

// Evaluate scores every in-band call across the expiration window.
//
// Run-level problems return *InputDataError or a wrapped fetch error and no
// result. Expirations that fail on their own are skipped and reported in
// Result.Warnings.
func (s *Service) Evaluate(ctx context.Context, req Request) (*Result, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	log := s.log.With().
		Str("symbol", req.Symbol).
		Str("purchase_date", req.PurchaseDate.Format("2006-01-02")).
		Logger()
	start := time.Now()

	prices, err := s.provider.PriceHistory(ctx, req.Symbol, req.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history for %s: %w", req.Symbol, err)
	}
	last, ok := domain.LastCloseOnOrBefore(prices, req.PurchaseDate)
	if !ok {
		return nil, &InputDataError{Reason: ReasonNoPriceHistory, Detail: req.Symbol}
	}

	history, err := s.provider.DividendHistory(ctx, req.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dividend history for %s: %w", req.Symbol, err)
	}
	profile, err := dividends.ComputeProfile(history, req.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("dividend profile for %s: %w", req.Symbol, err)
	}

	listed, err := s.provider.Expirations(ctx, req.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expirations for %s: %w", req.Symbol, err)
	}
	expirations := options.SelectExpirations(listed, req.PurchaseDate, s.cfg.Window)
	if len(expirations) == 0 {
		return nil, &InputDataError{
			Reason: ReasonNoExpirations,
			Detail: fmt.Sprintf("%d listed, none %d-%d days out", len(listed), s.cfg.Window.MinDays, s.cfg.Window.MaxDays),
		}
	}

	log.Debug().
		Float64("stock_price", last.Close).
		Int("dividend_frequency", profile.Frequency).
		Float64("yearly_dividend", profile.YearlyAmount).
		Int("expirations", len(expirations)).
		Msg("Scoring expirations")

	r := run{
		req:        req,
		stockPrice: last.Close,
		profile:    profile,
		scorer:     scoring.NewScorer(req.Shares, s.cfg.Policy),
	}
	outcomes := s.pool.run(expirations, func(exp time.Time) expirationOutcome {
		return s.evaluateExpiration(ctx, r, exp)
	})

	result := &Result{
		RunID:        uuid.New(),
		Symbol:       req.Symbol,
		Shares:       req.Shares,
		PurchaseDate: req.PurchaseDate,
		StockPrice:   last.Close,
		Profile:      profile,
		Policy: PolicySnapshot{
			Band:               s.cfg.Band,
			Window:             s.cfg.Window,
			EarlyCallOffsetDay: s.cfg.Policy.EarlyCallOffset.Hours() / 24,
		},
		Rows: []Row{},
	}

	for _, o := range outcomes {
		if o.err != nil {
			return nil, o.err
		}
		if o.warning != nil {
			log.Warn().Err(o.warning.Err).
				Time("expiration", o.warning.Expiration).
				Str("reason", string(o.warning.Reason)).
				Msg("Skipping expiration")
			result.Warnings = append(result.Warnings, o.warning.Warning())
			continue
		}
		result.Rows = append(result.Rows, o.rows...)
		if req.IncludeDiagnostics && o.trace != nil {
			result.Traces = append(result.Traces, *o.trace)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation of %s interrupted: %w", req.Symbol, err)
	}

	if len(result.Rows) == 0 {
		return nil, &InputDataError{
			Reason:   ReasonNoCandidates,
			Detail:   fmt.Sprintf("%d expirations checked", len(expirations)),
			Warnings: result.Warnings,
		}
	}

	result.BestIndex = BestIndex(result.Rows)

	log.Info().
		Str("run_id", result.RunID.String()).
		Int("rows", len(result.Rows)).
		Int("skipped", len(result.Warnings)).
		Dur("elapsed", time.Since(start)).
		Msg("Evaluation completed")

	return result, nil
}

func (s *Service) evaluateExpiration(ctx context.Context, r run, exp time.Time) expirationOutcome {
	skip := func(reason SkipReason, err error) expirationOutcome {
		return expirationOutcome{warning: &ExpirationError{Expiration: exp, Reason: reason, Err: err}}
	}

	chain, err := s.provider.CallChain(ctx, r.req.Symbol, exp)
	if err != nil {
		return skip(SkipFetchFailed, err)
	}
	if len(chain) == 0 {
		return skip(SkipEmptyChain, nil)
	}

	candidates := options.FilterCandidates(chain, r.stockPrice, s.cfg.Band)
	if len(candidates) == 0 {
		return skip(SkipEmptyBand, fmt.Errorf("none of %d strikes within %.0f%%-%.0f%% of %.2f",
			len(chain), s.cfg.Band.Lower*100, s.cfg.Band.Upper*100, r.stockPrice))
	}

	scenarios, trace, err := r.scorer.ScoreExpiration(candidates, r.profile, r.req.PurchaseDate, exp)
	if err != nil {
		if errors.Is(err, dividends.ErrDegenerateSchedule) {
			return expirationOutcome{err: err}
		}
		return expirationOutcome{err: fmt.Errorf("scoring %s: %w", exp.Format("2006-01-02"), err)}
	}

	rows := make([]Row, len(candidates))
	for i, c := range candidates {
		rows[i] = r.row(c, exp, scenarios[i])
		if r.req.IncludeDiagnostics {
			rows[i].Diagnostics = &trace
		}
	}
	return expirationOutcome{rows: rows, trace: &trace}
}

func (r run) row(c options.Candidate, exp time.Time, sc scoring.Scenarios) Row {
	return Row{
		Symbol:       r.req.Symbol,
		PurchaseDate: r.req.PurchaseDate,
		StockPrice:   r.stockPrice,
		Expiration:   exp,

		ContractName: c.ContractName,
		Strike:       c.Strike,
		Bid:          *c.Bid,
		Ask:          *c.Ask,
		Mid:          c.Mid,
		OpenInterest: c.OpenInterest,
		NetDebit:     c.NetDebit,
		Premium:      c.Premium,

		Hold:      sc.Hold,
		EarlyCall: sc.EarlyCall,

		ForwardDividend:         r.profile.YearlyAmount,
		ForwardDividendPercent:  formulas.PercentOf(r.profile.YearlyAmount, r.stockPrice),
		DividendFrequency:       r.profile.Frequency,
		NextDividendDate:        r.profile.NextPaymentEstimate,
		DividendAtStrikePercent: formulas.PercentOf(r.profile.YearlyAmount, c.Strike),
		PremiumLessDividend:     c.Premium - r.profile.SingleDividend(),
	}
}

func validateRequest(req Request) error {
	var problems []string
	if req.Symbol == "" {
		problems = append(problems, "symbol is required")
	}
	if req.Shares <= 0 {
		problems = append(problems, "shares must be positive")
	}
	if req.PurchaseDate.IsZero() {
		problems = append(problems, "purchase date is required")
	}
	if len(problems) > 0 {
		return &InputDataError{Reason: ReasonInvalidRequest, Detail: strings.Join(problems, ", ")}
	}
	return nil
}
