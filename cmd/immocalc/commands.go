package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/immorechner/property-calculator/internal/config"
	"github.com/immorechner/property-calculator/internal/domain"
	"github.com/immorechner/property-calculator/internal/output"
	"github.com/immorechner/property-calculator/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	configFile string
	format     string
	outputDir  string
	horizon    int
	persist    bool
}

func (rf *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&rf.configFile, "config", "c", "", "scenario file with household and properties (YAML)")
	cmd.Flags().StringVarP(&rf.format, "format", "f", "console", "output format: console, csv, detailed-csv, json")
	cmd.Flags().StringVar(&rf.outputDir, "output-dir", "", "write the report to a timestamped file in this directory instead of stdout")
	cmd.Flags().IntVar(&rf.horizon, "horizon", 0, "projection years (overrides the scenario file)")
	cmd.Flags().BoolVar(&rf.persist, "persist", false, "use the configured redis cache and postgres store")
	_ = cmd.MarkFlagRequired("config")
}

func newSimulateCmd(flags *rootFlags) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project every property of a scenario on its own",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScenario(cmd, flags, rf, false)
		},
	}
	rf.register(cmd)
	return cmd
}

func newPortfolioCmd(flags *rootFlags) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Project all properties of a scenario as one household portfolio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScenario(cmd, flags, rf, true)
		},
	}
	rf.register(cmd)
	return cmd
}

func runScenario(cmd *cobra.Command, flags *rootFlags, rf *runFlags, portfolio bool) error {
	formatter := output.GetFormatterByName(rf.format)
	if formatter == nil {
		return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, rf.format)
	}
	a, err := setupApp(flags)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	scenario, err := config.NewInputParser().LoadFromFile(rf.configFile)
	if err != nil {
		return err
	}
	years := scenario.HorizonYears
	if rf.horizon > 0 {
		years = rf.horizon
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, cleanup, err := a.newService(ctx, rf.persist)
	if err != nil {
		return err
	}
	defer cleanup()

	var report *output.Report
	if portfolio {
		run, err := svc.SimulatePortfolio(ctx, scenario.Properties, scenario.Household, years)
		if err != nil {
			return err
		}
		report = run.Report
	} else {
		for _, p := range scenario.Properties {
			run, err := svc.SimulateProperty(ctx, p, scenario.Household, years)
			if err != nil {
				return err
			}
			if report == nil {
				report = run.Report
				continue
			}
			report.Properties = append(report.Properties, run.Report.Properties...)
		}
	}
	if report.Degraded() {
		a.logger.Warn("report contains rough estimates", zap.String("config", rf.configFile))
	}

	if rf.outputDir != "" {
		path, err := output.WriteFormatted(formatter, report, rf.outputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	return output.Write(cmd.OutOrStdout(), report, formatter.Name())
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example scenario file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "example_scenario.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			parser := config.NewInputParser()
			if err := parser.SaveToFile(parser.CreateExampleConfiguration(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example scenario written to %s\n", path)
			return nil
		},
	}
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulation API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setupApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := a.newService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			cfg := a.settings.Server
			if addr != "" {
				cfg.Address = addr
			}
			srv, err := server.NewServer(cfg, svc, a.logger)
			if err != nil {
				return err
			}
			if err := srv.Run(ctx, 15*time.Second); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "immocalc %s (tax tables %d)\n", version, domain.DefaultRules().IncomeTax.Year)
		},
	}
}
