package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopfloor-io/planner/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// RenderMRP writes an MRP result in the configured format
func RenderMRP(result *dto.MRPResult, config Config) error {
	switch config.Format {
	case "text", "":
		return renderMRPText(result, config)
	case "json":
		return renderJSON(result, config, "mrp_results.json")
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// RenderCapacity writes a capacity analysis in the configured format
func RenderCapacity(analysis *dto.CapacityAnalysis, config Config) error {
	switch config.Format {
	case "text", "":
		return renderCapacityText(analysis)
	case "json":
		return renderJSON(analysis, config, "capacity_analysis.json")
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// RenderSchedule writes a schedule report in the configured format
func RenderSchedule(report *dto.ScheduleReport, config Config) error {
	switch config.Format {
	case "text", "":
		return renderScheduleText(report)
	case "json":
		return renderJSON(report, config, "schedule.json")
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func renderMRPText(result *dto.MRPResult, config Config) error {
	fmt.Printf("MRP Results: %s\n", result.ProductID)
	fmt.Printf("=====================================\n\n")
	fmt.Printf("Horizon: %s + %d days\n",
		result.HorizonStart.Format("2006-01-02"), result.HorizonDays)
	fmt.Printf("Lead time: %d production + %d purchasing = %d days\n\n",
		result.ProductionLeadDays,
		result.TotalLeadDays-result.ProductionLeadDays,
		result.TotalLeadDays)

	fmt.Printf("%-12s %-10s %-10s %-10s %-8s %-10s %-10s\n",
		"Date", "Gross", "Receipts", "On Hand", "Net", "Planned", "Release")
	for _, b := range result.Buckets {
		if b.GrossRequirement.IsZero() && b.ScheduledReceipts.IsZero() &&
			b.PlannedOrderReceipt.IsZero() && b.PlannedOrderRelease.IsZero() {
			continue
		}
		fmt.Printf("%-12s %-10s %-10s %-10s %-8s %-10s %-10s\n",
			b.Date.Format("2006-01-02"),
			b.GrossRequirement, b.ScheduledReceipts, b.ProjectedOnHand,
			b.NetRequirement, b.PlannedOrderReceipt, b.PlannedOrderRelease)
	}
	fmt.Println()

	if len(result.PurchaseRecommendations) > 0 {
		fmt.Printf("Purchase Recommendations:\n")
		fmt.Printf("%-12s %-10s %-6s %-12s %-12s %-10s\n",
			"Component", "Qty", "Unit", "Release", "Due", "Est. Cost")
		for _, rec := range result.PurchaseRecommendations {
			fmt.Printf("%-12s %-10s %-6s %-12s %-12s %-10s\n",
				rec.ComponentID, rec.Quantity, rec.Unit,
				rec.ReleaseDate.Format("2006-01-02"),
				rec.DueDate.Format("2006-01-02"),
				rec.EstimatedCost)
		}
		fmt.Println()
	}

	if len(result.ProductionRecommendations) > 0 {
		fmt.Printf("Production Recommendations:\n")
		fmt.Printf("%-12s %-10s %-12s %-12s\n", "Product", "Qty", "Start", "Due")
		for _, rec := range result.ProductionRecommendations {
			fmt.Printf("%-12s %-10s %-12s %-12s\n",
				rec.ProductID, rec.Quantity,
				rec.StartDate.Format("2006-01-02"),
				rec.DueDate.Format("2006-01-02"))
		}
		fmt.Println()
	}

	return nil
}

func renderCapacityText(analysis *dto.CapacityAnalysis) error {
	fmt.Printf("Capacity Analysis: %s\n", analysis.WorkCenterID)
	fmt.Printf("=====================================\n\n")
	fmt.Printf("Window: %s to %s\n",
		analysis.Start.Format("2006-01-02"), analysis.End.Format("2006-01-02"))
	fmt.Printf("Average utilization: %.1f%%\n\n", analysis.AverageUtilization)

	fmt.Printf("%-12s %-10s %-10s %-8s %-14s %-10s\n",
		"Date", "Capacity", "Load", "Util%", "Status", "Overload")
	for _, day := range analysis.Days {
		if !day.Operating && day.LoadMinutes == 0 {
			continue
		}
		fmt.Printf("%-12s %-10.0f %-10.0f %-8.1f %-14s %-10.0f\n",
			day.Date.Format("2006-01-02"),
			day.CapacityMinutes, day.LoadMinutes, day.Utilization,
			day.Status, day.OverloadMinutes)
	}
	fmt.Println()

	if len(analysis.Bottlenecks) > 0 {
		fmt.Printf("Bottlenecks: %d overloaded days\n", len(analysis.Bottlenecks))
		for _, b := range analysis.Bottlenecks {
			fmt.Printf("  %s: %.0f minutes over capacity\n",
				b.Date.Format("2006-01-02"), b.OverloadMinutes)
		}
		fmt.Println()
	}
	for _, rec := range analysis.Recommendations {
		fmt.Printf("Recommendation: %s\n", rec)
	}

	return nil
}

func renderScheduleText(report *dto.ScheduleReport) error {
	fmt.Printf("Schedule (%s)\n", report.Strategy)
	fmt.Printf("=====================================\n\n")
	fmt.Printf("Makespan:      %.2f h\n", report.Makespan)
	fmt.Printf("Avg flow time: %.2f h\n", report.AvgFlowTime)
	fmt.Printf("Avg lateness:  %.2f h\n\n", report.AvgLateness)

	RenderGantt(os.Stdout, report.Schedule)

	fmt.Printf("\nWork center utilization:\n")
	for wc, util := range report.Utilization {
		fmt.Printf("  %-12s %.1f%%\n", wc, util*100)
	}

	return nil
}

func renderJSON(v interface{}, config Config, filename string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(config.OutputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if config.Verbose {
		fmt.Printf("Results saved to %s\n", path)
	}
	return nil
}
