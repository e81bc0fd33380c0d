// Command signalctl runs the signal simulator offline for a fixed number of
// ticks and prints the resulting signal book.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	"github.com/winnervic367/trading-analyser/internal/repository"
	"github.com/winnervic367/trading-analyser/internal/scheduler"
	"github.com/winnervic367/trading-analyser/internal/service/market"
	"github.com/winnervic367/trading-analyser/internal/service/signals"
	"github.com/winnervic367/trading-analyser/internal/usecase"
	applogger "github.com/winnervic367/trading-analyser/pkg/logger"
	"github.com/winnervic367/trading-analyser/pkg/metrics"
	"github.com/winnervic367/trading-analyser/pkg/util"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		fmt.Fprintln(os.Stderr, "signalctl:", err)
		os.Exit(1)
	}
}

type options struct {
	seed      int64
	ticks     int
	market    string
	timeFrame string
	journal   string
	verbose   bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("signalctl", flag.ContinueOnError)
	fs.Int64Var(&o.seed, "seed", 1, "random seed for prices and signals")
	fs.IntVar(&o.ticks, "ticks", 0, "number of ticks to run before printing")
	fs.StringVar(&o.market, "market", "crypto", "market type: crypto|forex|commodities")
	fs.StringVar(&o.timeFrame, "timeframe", "", "optional timeframe filter: short|medium|long")
	fs.StringVar(&o.journal, "journal", "", "sqlite path to record completed signals (\":memory:\" for a throwaway journal)")
	fs.BoolVar(&o.verbose, "verbose", false, "log every tick")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.ticks < 0 {
		return o, fmt.Errorf("ticks must be >= 0, got %d", o.ticks)
	}
	return o, nil
}

func run(args []string, out io.Writer, now func() time.Time) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	lg := applogger.Nop()
	if o.verbose {
		if lg, err = applogger.New(&applogger.Config{Level: "debug", Format: "console", Output: "stderr"}); err != nil {
			return err
		}
	}

	reg := market.NewDefaultRegistry()
	store := signals.NewStore(signals.NewGenerator(reg, rand.New(rand.NewSource(o.seed+1)), now))
	mutator := market.NewMutator(reg, rand.New(rand.NewSource(o.seed)))
	evaluator := signals.NewEvaluator(store, reg, lg)

	var opts []usecase.RealtimeOption
	opts = append(opts, usecase.WithClock(now))

	var journal *repository.SQLiteJournal
	if o.journal != "" {
		journal, err = repository.NewSQLiteJournal(o.journal)
		if err != nil {
			return err
		}
		defer journal.Close()
		if err := journal.Init(context.Background()); err != nil {
			return err
		}
		opts = append(opts, usecase.WithOutcomeRecorder(usecase.NewOutcomeRecorder(nil, journal, metrics.Nop{}, usecase.RouteDirect)))
	}

	ctx := context.Background()
	sigUC := usecase.NewSignalsUseCase(store, reg, nil, lg)
	// generate before the first tick so the evaluator has something to settle
	if _, err := sigUC.FilteredSignals(ctx, models.MarketType(o.market), o.timeFrame); err != nil {
		return err
	}

	updater := usecase.NewRealtimeUpdater(scheduler.NewManual(), mutator, evaluator, metrics.Nop{}, lg, opts...)
	completed := 0
	for i := 0; i < o.ticks; i++ {
		completed += updater.Tick(ctx).Completed
	}

	list, err := sigUC.FilteredSignals(ctx, models.MarketType(o.market), o.timeFrame)
	if err != nil {
		return err
	}
	insts, err := sigUC.MarketsByType(ctx, models.MarketType(o.market))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "seed=%d ticks=%d market=%s completed_during_run=%d\n\n", o.seed, o.ticks, o.market, completed)
	printInstruments(out, insts)
	printSignals(out, list)

	if journal != nil {
		summary, err := journal.Summary(ctx, time.Time{})
		if err != nil {
			return err
		}
		printSummary(out, summary)
	}
	return nil
}

func printInstruments(out io.Writer, insts []models.Instrument) {
	table := tablewriter.NewWriter(out)
	table.Header("ID", "Symbol", "Price")
	for _, inst := range insts {
		table.Append(inst.ID, inst.Symbol, util.FormatPrice(inst.CurrentPrice))
	}
	table.Render()
	fmt.Fprintln(out)
}

func printSignals(out io.Writer, list []models.Signal) {
	table := tablewriter.NewWriter(out)
	table.Header("ID", "Asset", "Dir", "TF", "Entry", "Target", "Stop", "Potential", "R:R", "Prob", "Status", "Result")
	for _, s := range list {
		result := "-"
		if c, ok := s.Outcome(); ok {
			result = string(c.Result) + " " + util.FormatPercentage(c.ResultAmount)
		}
		table.Append(
			s.ID,
			s.AssetSymbol,
			string(s.Direction),
			string(s.TimeFrame),
			util.FormatPrice(s.EntryPrice),
			util.FormatPrice(s.TargetPrice),
			util.FormatPrice(s.StopLoss),
			util.FormatPercentage(s.ProfitPotential),
			util.FormatNumber(s.RiskReward),
			strconv.Itoa(s.Probability)+"%",
			string(s.Status()),
			result,
		)
	}
	table.Render()
}

func printSummary(out io.Writer, summary []repository.OutcomeSummary) {
	fmt.Fprintln(out)
	table := tablewriter.NewWriter(out)
	table.Header("Result", "Count", "Avg")
	for _, s := range summary {
		table.Append(s.Result, strconv.FormatInt(s.Count, 10), util.FormatPercentage(s.Avg))
	}
	table.Render()
}
