package claimer

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/WhereIsMyMindDL/ReyaOGClaimer/accounts"
	"github.com/WhereIsMyMindDL/ReyaOGClaimer/blockchain"
	"github.com/WhereIsMyMindDL/ReyaOGClaimer/config"
)

// APIFactory builds the API client for one wallet; proxy is empty for direct connections.
type APIFactory func(proxy string) (API, error)

// Runner drives one workflow per wallet record through a Gate.
type Runner struct {
	settings Settings
	newAPI   APIFactory
	gate     *Gate
	delay    config.DelayRange
	log      *zap.Logger
}

type RunnerOption func(*Runner)

// WithDelayBetweenAccounts keeps the slot for a random pause after each wallet.
func WithDelayBetweenAccounts(d config.DelayRange) RunnerOption {
	return func(r *Runner) {
		r.delay = d
	}
}

func NewRunner(settings Settings, threads int, newAPI APIFactory, log *zap.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		settings: settings,
		newAPI:   newAPI,
		gate:     NewGate(threads),
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every record and returns one report per record, in input order.
// A failing wallet never stops the others.
func (r *Runner) Run(ctx context.Context, records []accounts.Record) []Report {
	log := r.log.With(zap.String("run_id", uuid.NewString()))
	log.Info("total wallets", zap.Int("count", len(records)), zap.Int("threads", r.gate.Capacity()))

	reports := make([]Report, len(records))
	var wg sync.WaitGroup

	for i, record := range records {
		id := i + 1
		if err := r.gate.Acquire(ctx); err != nil {
			reports[i] = Report{ID: id, Outcome: OutcomeAborted, Err: err}
			continue
		}

		wg.Add(1)
		go func(i, id int, record accounts.Record) {
			defer wg.Done()
			defer r.gate.Release()
			reports[i] = r.runOne(ctx, id, record, log)
		}(i, id, record)
	}
	wg.Wait()

	r.summarize(log, reports)
	return reports
}

func (r *Runner) runOne(ctx context.Context, id int, record accounts.Record, log *zap.Logger) (report Report) {
	report = Report{ID: id, Outcome: OutcomeAborted}

	defer func() {
		if p := recover(); p != nil {
			report.Outcome = OutcomeAborted
			report.Err = errors.Errorf("panic: %v", p)
			log.Error("account failed", zap.Int("id", id), zap.Any("panic", p))
		}
	}()

	wallet, err := blockchain.NewWallet(record.PrivateKey)
	if err != nil {
		report.Err = err
		log.Error("account failed", zap.Int("id", id), zap.Error(err))
		return report
	}
	report.Address = wallet.Address()

	api, err := r.newAPI(record.Proxy)
	if err != nil {
		report.Err = errors.Wrap(err, "failed on create api client")
		log.Error("account failed", zap.Int("id", id), zap.Error(report.Err))
		return report
	}

	report = NewWorkflow(id, wallet, api, r.settings, log).Run(ctx)

	if err := r.delay.Sleep(ctx); err != nil {
		log.Debug("delay between accounts interrupted", zap.Int("id", id), zap.Error(err))
	}
	return report
}

func (r *Runner) summarize(log *zap.Logger, reports []Report) {
	counts := make(map[string]int)
	for _, rep := range reports {
		counts[rep.Outcome.String()]++
	}
	log.Info("batch finished", zap.Int("total", len(reports)), zap.Any("outcomes", counts))
}
