package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mdmfern/WifiThreatAssessorProject/internal/scan"
	"github.com/mdmfern/WifiThreatAssessorProject/internal/secscore"
	"github.com/mdmfern/WifiThreatAssessorProject/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan nearby networks and print their security assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		scanner := scan.NewScanner(cfg.Scan.CacheTTL)
		nets, err := scanner.Scan(cmd.Context(), true)
		if err != nil {
			return err
		}

		recs := make([]types.AssessmentRecord, 0, len(nets))
		now := time.Now()
		for _, n := range nets {
			recs = append(recs, types.AssessmentRecord{
				Network:    n,
				Assessment: secscore.Assess(n.Attrs),
				AssessedAt: now,
			})
		}

		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(recs)
		}

		renderNetworkTable(recs)
		renderAuditSummary(nets)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
}

func renderNetworkTable(recs []types.AssessmentRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"SSID", "BSSID", "Band", "Security", "Signal", "Score", "Tier"})

	for _, rec := range recs {
		ssid := rec.Network.SSID
		if rec.Network.Hidden {
			ssid = "<hidden>"
		}
		security := rec.Network.RawAuth
		if security == "" {
			security = string(rec.Network.Attrs.Proto)
		}
		t.AppendRow(table.Row{
			ssid,
			rec.Network.BSSID,
			rec.Network.Attrs.Band,
			security,
			fmt.Sprintf("%d%%", rec.Network.Attrs.Signal),
			rec.Assessment.Score,
			tierColors(rec.Assessment.Color).Sprint(rec.Assessment.Tier),
		})
	}
	t.Render()
}

func renderAuditSummary(nets []types.ScannedNetwork) {
	rep := secscore.NewAuditor(secscore.DefaultPolicy()).Audit(nets)

	fmt.Printf("\nEnvironment: %s (average score %.1f over %d networks)\n",
		rep.EnvRisk, rep.EnvScore, rep.TotalNetworks)
	for _, rec := range rep.Recs {
		fmt.Printf("  [%s] %s: %s\n", rec.Priority, rec.Issue, rec.Recommendation)
	}
}

// tierColors maps an assessment display color onto terminal colors.
func tierColors(color string) text.Colors {
	switch color {
	case "red":
		return text.Colors{text.FgRed}
	case "orange":
		return text.Colors{text.FgHiYellow}
	case "yellow":
		return text.Colors{text.FgYellow}
	case "green":
		return text.Colors{text.FgGreen}
	case "blue":
		return text.Colors{text.FgBlue}
	default:
		return text.Colors{}
	}
}
