package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mdmfern/WifiThreatAssessorProject/internal/speedtest"
	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

var speedtestCmd = &cobra.Command{
	Use:   "speedtest",
	Short: "Run a single speed test and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		eng := speedtest.New(cfg.SpeedTest.Config, speedtest.NewHTTPProber())
		rep, err := eng.Run(cmd.Context(), cfg.SpeedTest.Servers)
		if err != nil {
			return err
		}

		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(rep)
		}

		renderReportTable(rep)
		return nil
	},
}

func init() {
	speedtestCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
}

func renderReportTable(rep *types.SpeedTestReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Metric", "Value", "Quality"})
	t.AppendRow(metricRow("Ping", rep.Ping, "%.1f ms"))
	t.AppendRow(metricRow("Download", rep.Download, "%.2f Mbps"))
	t.AppendRow(metricRow("Upload", rep.Upload, "%.2f Mbps"))
	t.Render()

	fmt.Printf("\nStatus: %s", rep.Status)
	if rep.ServerName != "" {
		fmt.Printf("  (server: %s)", rep.ServerName)
	}
	fmt.Println()
	if rep.Reason != "" {
		fmt.Printf("Reason: %s\n", rep.Reason)
	}
	for _, fp := range rep.FailedPhases {
		fmt.Printf("  failed phase: %s\n", fp)
	}
}

func metricRow(name string, m types.SpeedMetric, format string) table.Row {
	if !m.OK {
		return table.Row{name, "-", m.FailReason}
	}
	return table.Row{name, fmt.Sprintf(format, m.Value), m.Quality}
}
