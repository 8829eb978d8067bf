package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"policy-analytics/internal/aggregate"
	"policy-analytics/internal/cache"
	"policy-analytics/internal/config"
	"policy-analytics/internal/event"
	"policy-analytics/internal/ingest"
	"policy-analytics/internal/pipeline"
	"policy-analytics/internal/publish"
	"policy-analytics/internal/report"
	"policy-analytics/internal/reserve"
	"policy-analytics/internal/warehouse"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := config.New()
	if len(os.Args) > 1 {
		cfg.InputPath = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Pipeline run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AnalyticsConfig) error {
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}

	slog.Info("Starting policy analytics run",
		"input", cfg.InputPath,
		"output_dir", cfg.OutputDir,
		"strictness", cfg.Strictness,
		"workers", cfg.ScoringWorkers)

	records, readErrs, err := ingest.ReadPoliciesFile(cfg.InputPath)
	if err != nil {
		return err
	}
	slog.Info("Input loaded", "records", len(records), "unparseable_rows", len(readErrs))

	p := pipeline.New(cfg.Strictness, cfg.ScoringWorkers, rules)
	result, err := p.Enrich(ctx, records, readErrs)
	if err != nil {
		return err
	}
	slog.Info("Enrichment complete",
		"run_id", result.RunID,
		"policies", len(result.Policies),
		"excluded", len(result.Excluded))

	summaries := make(map[string][]aggregate.Summary)
	for _, dim := range aggregate.Dimensions() {
		s, err := aggregate.Summarize(result.Policies, dim, aggregate.Options{})
		if err != nil {
			return err
		}
		summaries[dim.Name] = s
	}

	portfolio, err := reserve.AssessPortfolio(result.Policies, rules)
	if err != nil {
		return err
	}
	byCategory, err := reserve.AnalyzeByCategory(result.Policies, rules)
	if err != nil {
		return err
	}
	methods, err := reserve.Methods(result.Policies, rules)
	if err != nil {
		return err
	}
	stress, err := reserve.RunStressTest(result.Policies, rules)
	if err != nil {
		return err
	}
	recommendations := reserve.Recommendations(portfolio, byCategory)

	kpis, err := report.ComputeKPIs(result.RunID, result.Policies, len(result.Excluded))
	if err != nil {
		return err
	}
	slog.Info("Portfolio assessed",
		"total_premium", kpis.TotalPremium,
		"overall_loss_ratio", kpis.OverallLossRatio.String(),
		"capital_status", portfolio.Status)

	if err := writeArtifacts(cfg.OutputDir, rules, result, summaries, portfolio, byCategory, methods, stress, recommendations, kpis); err != nil {
		return err
	}
	slog.Info("Artifacts written", "dir", cfg.OutputDir)

	// Downstream sinks are best-effort: a dead warehouse or broker must never
	// invalidate an otherwise complete run.
	if cfg.WarehouseEnabled {
		exportWarehouse(ctx, cfg, warehouse.RunExport{
			KPIs:       kpis,
			Policies:   result.Policies,
			Summaries:  summaries,
			Portfolio:  portfolio,
			ByCategory: byCategory,
			Stress:     stress,
		})
	}
	if cfg.CacheEnabled {
		storeKPIs(ctx, cfg, kpis)
	}
	if cfg.PublishEnabled {
		publishArtifacts(ctx, cfg, result)
	}
	if cfg.EventsEnabled {
		announceRun(ctx, cfg, result, kpis, portfolio)
	}

	slog.Info("Run complete", "run_id", result.RunID)
	return nil
}

func writeArtifacts(
	dir string,
	rules config.Rules,
	result *pipeline.Result,
	summaries map[string][]aggregate.Summary,
	portfolio reserve.Assessment,
	byCategory []reserve.Assessment,
	methods reserve.MethodFigures,
	stress []reserve.ScenarioResult,
	recommendations []reserve.Recommendation,
	kpis report.KPISet,
) error {
	if err := report.WriteEnrichedPolicies(filepath.Join(dir, "enriched_policies.csv"), result.Policies); err != nil {
		return err
	}
	for _, dim := range aggregate.Dimensions() {
		path := filepath.Join(dir, "summary_"+dim.Name+".csv")
		if err := report.WriteSummary(path, dim.Name, summaries[dim.Name]); err != nil {
			return err
		}
	}
	if err := report.WriteReserveAnalysis(filepath.Join(dir, "reserve_analysis.csv"), portfolio, byCategory, methods); err != nil {
		return err
	}
	if err := report.WriteStressResults(filepath.Join(dir, "stress_test.csv"), stress); err != nil {
		return err
	}
	if err := report.WriteRecommendations(filepath.Join(dir, "reserve_recommendations.csv"), recommendations); err != nil {
		return err
	}
	if err := report.WriteKPIs(filepath.Join(dir, "kpis.csv"), kpis); err != nil {
		return err
	}
	if err := report.WriteExclusions(filepath.Join(dir, "exclusions.csv"), result.Excluded); err != nil {
		return err
	}
	if err := report.WriteDashboardSQL(filepath.Join(dir, "dashboard_queries.sql"), rules); err != nil {
		return err
	}
	return report.WriteWorkbook(filepath.Join(dir, "management_report.xlsx"), report.WorkbookInput{
		KPIs:           kpis,
		ByRiskCategory: summaries[aggregate.ByRiskCategory.Name],
		ByAgeGroup:     summaries[aggregate.ByAgeGroup.Name],
		Portfolio:      portfolio,
		ByCategory:     byCategory,
		Methods:        methods,
		Stress:         stress,
	})
}

func exportWarehouse(ctx context.Context, cfg *config.AnalyticsConfig, exp warehouse.RunExport) {
	wh, err := warehouse.Connect(cfg.PostgresCfg)
	if err != nil {
		slog.Warn("Warehouse unavailable, skipping export", "error", err)
		return
	}
	defer wh.Close()

	if err := wh.Export(ctx, exp); err != nil {
		slog.Warn("Warehouse export failed", "error", err)
	}
}

func storeKPIs(ctx context.Context, cfg *config.AnalyticsConfig, kpis report.KPISet) {
	client, err := cache.NewClient(cfg.RedisCfg)
	if err != nil {
		slog.Warn("Redis unavailable, skipping KPI snapshot", "error", err)
		return
	}
	defer client.Close()

	if err := client.StoreKPIs(ctx, kpis); err != nil {
		slog.Warn("KPI snapshot store failed", "error", err)
	}
}

func publishArtifacts(ctx context.Context, cfg *config.AnalyticsConfig, result *pipeline.Result) {
	pub, err := publish.NewPublisher(cfg.MinioCfg)
	if err != nil {
		slog.Warn("MinIO unavailable, skipping artifact publish", "error", err)
		return
	}

	if _, err := pub.UploadRunArtifacts(ctx, result.RunID, cfg.OutputDir); err != nil {
		slog.Warn("Artifact publish failed", "error", err)
	}
}

func announceRun(ctx context.Context, cfg *config.AnalyticsConfig, result *pipeline.Result, kpis report.KPISet, portfolio reserve.Assessment) {
	conn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, skipping run event", "error", err)
		return
	}
	defer conn.Close()

	pub := event.NewRunPublisher(conn)
	err = pub.PublishRunCompleted(ctx, event.RunCompletedEvent{
		RunID:           result.RunID,
		TotalPolicies:   kpis.TotalPolicies,
		ExcludedRecords: kpis.ExcludedRecords,
		TotalPremium:    kpis.TotalPremium,
		LossRatio:       kpis.OverallLossRatio,
		CapitalStatus:   portfolio.Status,
		ArtifactDir:     cfg.OutputDir,
	})
	if err != nil {
		slog.Warn("Run event publish failed", "error", err)
	}
}
