package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"ShoppingAssistant/internal/app"
	"ShoppingAssistant/internal/composer"
	"ShoppingAssistant/internal/config"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/logging"
	"ShoppingAssistant/internal/usecase"
)

type options struct {
	query       string
	format      string
	share       bool
	shared      string
	importPath  string
	importTable string
	dumpMetrics bool
	metricsAddr string
	hints       domain.Hints
}

func main() {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application failed to start", "error", err)
		os.Exit(1)
	}

	runErr := run(ctx, application, opts, os.Stdin, os.Stdout)

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := application.Close(shutdown); err != nil {
		logger.Warn("shutdown", "error", err)
	}

	if runErr != nil {
		logger.Error("application stopped", "error", runErr)
		os.Exit(1)
	}
}

func parseFlags() options {
	var (
		opts        options
		people      int
		budget      float64
		minProtein  float64
		maxCalories float64
	)
	flag.StringVar(&opts.query, "q", "", "query to answer once; without it queries are read from stdin")
	flag.StringVar(&opts.format, "format", "message", "output format: message, text, json or csv")
	flag.BoolVar(&opts.share, "share", false, "store the list for sharing and print its id")
	flag.StringVar(&opts.shared, "shared", "", "print a previously shared list by id")
	flag.StringVar(&opts.importPath, "import", "", "copy a JSON/YAML catalog file into Postgres and exit")
	flag.StringVar(&opts.importTable, "import-table", "products", "table used by -import")
	flag.BoolVar(&opts.dumpMetrics, "metrics", false, "print Prometheus metrics to stderr on exit")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics on this address in interactive mode")

	flag.StringVar(&opts.hints.EventType, "event", "", "event type hint (bbq, dinner, breakfast, ...)")
	flag.IntVar(&people, "people", 0, "number of people hint")
	flag.Float64Var(&budget, "budget", 0, "budget hint")
	flag.StringVar(&opts.hints.Dietary, "dietary", "", "dietary hint (vegetarian, vegan, halal, gluten-free, healthy, organic, no-beef, no-chicken)")
	flag.Float64Var(&minProtein, "min-protein", 0, "minimum protein per 100g")
	flag.Float64Var(&maxCalories, "max-calories", 0, "maximum calories per 100g")
	flag.BoolVar(&opts.hints.FilterHealthy, "healthy", false, "only healthy products")
	flag.BoolVar(&opts.hints.FilterGlutenFree, "gluten-free", false, "only gluten-free products")
	flag.Parse()

	// Only explicitly passed numeric flags become hints.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "people":
			opts.hints.NumPeople = &people
		case "budget":
			opts.hints.Budget = &budget
		case "min-protein":
			opts.hints.MinProtein = &minProtein
		case "max-calories":
			opts.hints.MaxCalories = &maxCalories
		}
	})
	if opts.query == "" && flag.NArg() > 0 {
		opts.query = strings.Join(flag.Args(), " ")
	}
	return opts
}

func run(ctx context.Context, application *app.Application, opts options, in io.Reader, out io.Writer) error {
	if opts.dumpMetrics {
		defer func() {
			_ = application.Metrics().Dump(os.Stderr)
		}()
	}

	pipeline := application.Pipeline()

	switch {
	case opts.importPath != "":
		store := strings.TrimSuffix(filepath.Base(opts.importPath), filepath.Ext(opts.importPath))
		n, err := application.ImportCatalog(ctx, opts.importPath, store, opts.importTable)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "imported %d products into %s\n", n, opts.importTable)
		return err

	case opts.shared != "":
		list, err := pipeline.Shared(ctx, opts.shared)
		if err != nil {
			return err
		}
		return writeList(out, opts.format, list)

	case opts.query != "":
		return answer(ctx, pipeline, opts, opts.query, out)
	}

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("start refresher: %w", err)
	}
	if opts.metricsAddr != "" {
		server := &http.Server{Addr: opts.metricsAddr, Handler: metricsMux(application), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
		defer server.Close()
	}
	return repl(ctx, pipeline, opts, in, out)
}

func repl(ctx context.Context, pipeline *usecase.Pipeline, opts options, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
		case "quit", "exit":
			return nil
		default:
			if err := answer(ctx, pipeline, opts, line, out); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
		fmt.Fprint(out, "\n> ")
	}
	return scanner.Err()
}

func answer(ctx context.Context, pipeline *usecase.Pipeline, opts options, query string, out io.Writer) error {
	reply, err := pipeline.Handle(ctx, query, opts.hints)
	if err != nil {
		return err
	}

	if reply.Result == nil || opts.format == "message" {
		if _, err := fmt.Fprintln(out, reply.Message.Text); err != nil {
			return err
		}
	} else if err := writeList(out, opts.format, reply.Result.List); err != nil {
		return err
	}

	if opts.share && reply.Result != nil && !reply.Result.List.Empty() {
		id, err := pipeline.Share(ctx, reply.Result.List)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\nshared as %s\n", composer.ShareText(reply.Result.List), id)
	}
	return nil
}

func writeList(out io.Writer, format string, list domain.ShoppingList) error {
	switch format {
	case "json":
		payload, err := composer.ExportJSON(list, time.Now())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(payload))
		return err
	case "csv":
		return composer.ExportCSV(out, list)
	default:
		_, err := fmt.Fprintln(out, composer.ExportText(list))
		return err
	}
}

func metricsMux(application *app.Application) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", application.Metrics().Handler())
	return mux
}
