package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"github.com/EDEN0412/techquiz/internal/audit"
	"github.com/EDEN0412/techquiz/internal/mirror"
	"github.com/EDEN0412/techquiz/internal/provision"
	"github.com/EDEN0412/techquiz/internal/schema"
	"github.com/EDEN0412/techquiz/internal/source"
	"github.com/EDEN0412/techquiz/internal/syncer"
)

var (
	entityNames []string
	checkOnly   bool
	fixDrift    bool
	writeReport bool
	syncDryRun  bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Provision mirror tables and reconcile rows against the source of record",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}

		targets, err := resolveEntities(entityNames)
		if err != nil {
			return err
		}

		fmt.Printf("Synchronizing %d entities:\n", len(targets))
		for _, e := range targets {
			fmt.Printf(" - %s -> %s\n", e.Name, e.Table)
		}

		if syncDryRun {
			fmt.Println("[SIMULATION] Dry-Run Mode Active: mirror will not be touched.")
			return nil
		}

		client, err := mirror.Open(cfg.MirrorDSN)
		if err != nil {
			return fmt.Errorf("connect mirror: %w", err)
		}
		defer client.Close()

		reader, err := source.Open(cfg.SourceDSN)
		if err != nil {
			return fmt.Errorf("connect source of record: %w", err)
		}
		defer reader.Close()

		policy := mirror.Policy{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Log: Log}
		probe := &provision.Probe{Client: client, Log: Log, SuppressFailures: cfg.SuppressProbeFailures}
		provisioner := &provision.Provisioner{Client: client, Probe: probe, Retry: policy, Log: Log}
		synchronizer := &syncer.Synchronizer{Client: client, Retry: policy, Log: Log}
		auditor := &audit.Auditor{Client: client, Source: reader, Retry: policy, Log: Log}
		reconciler := &audit.Reconciler{Auditor: auditor, Provisioner: provisioner, Sync: synchronizer, Log: Log}

		ctx := cmd.Context()
		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(len(targets)).AppendCompleted().PrependElapsed()
		var rowsProcessed int
		bar.AppendFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf(" rows: %d", rowsProcessed)
		})
		progress := func() { rowsProcessed++ }

		var reports []audit.EntityReport
		for _, e := range targets {
			entityStart := time.Now()
			rep := audit.EntityReport{Entity: e.Name, Table: e.Table}

			switch {
			case checkOnly && !fixDrift:
				res, err := auditor.Audit(ctx, e)
				if err != nil {
					rep.Status, rep.Err = "error", err.Error()
				} else {
					rep.Audit = res
					if res.Mismatched == 0 {
						rep.Status = "ok"
					} else {
						rep.Status = "mismatch"
					}
				}
			default:
				if !checkOnly {
					if err := provisioner.Ensure(ctx, e); err != nil {
						rep.Status, rep.Err = "error", err.Error()
						rep.Elapsed = time.Since(entityStart)
						reports = append(reports, rep)
						bar.Incr()
						continue
					}
				}
				out, err := reconciler.Reconcile(ctx, e, progress)
				if err != nil {
					rep.Status, rep.Err = "error", err.Error()
				} else {
					rep.Outcome = out
					switch {
					case out.Failed > 0:
						rep.Status = "partial"
					case out.Repaired > 0:
						rep.Status = "fixed"
					default:
						rep.Status = "ok"
					}
				}
			}
			rep.Elapsed = time.Since(entityStart)
			reports = append(reports, rep)
			bar.Incr()
		}
		uiprogress.Stop()

		printSummary(reports, time.Since(start))

		if writeReport {
			path := filepath.Join(cfg.ReportDir,
				fmt.Sprintf("mirror_sync_report_%s.txt", time.Now().Format("20060102_150405")))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create report file: %w", err)
			}
			defer f.Close()
			if err := audit.WriteReport(f, time.Now(), reports); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("Report written: %s\n", path)
		}

		// Per-entity failures are part of the report, not the exit code:
		// partial success is a valid terminal state for this tool.
		return nil
	},
}

func resolveEntities(names []string) ([]*schema.Entity, error) {
	all := schema.Registry()
	if len(names) == 0 {
		return all, nil
	}
	requested := make(map[string]bool, len(names))
	for _, n := range names {
		requested[strings.ToLower(n)] = true
	}
	var targets []*schema.Entity
	for _, e := range all {
		if requested[strings.ToLower(e.Name)] || requested[strings.ToLower(e.Table)] {
			targets = append(targets, e)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no matching entities for inputs: %v", names)
	}
	return targets, nil
}

func printSummary(reports []audit.EntityReport, elapsed time.Duration) {
	fmt.Println("\nSummary Report:")
	for i, r := range reports {
		icon := "✓"
		if r.Status != "ok" && r.Status != "fixed" {
			icon = "!"
		}
		line := fmt.Sprintf("[%s] [%02d/%02d] %-28s : %s", icon, i+1, len(reports), r.Entity, r.Status)
		if r.Audit != nil {
			line += fmt.Sprintf(" (matched: %d, mismatched: %d)", r.Audit.Matched, r.Audit.Mismatched)
		}
		if r.Outcome != nil {
			line += fmt.Sprintf(" (untouched: %d, repaired: %d, failed: %d)",
				r.Outcome.Untouched, r.Outcome.Repaired, r.Outcome.Failed)
		}
		fmt.Println(line)
		if r.Err != "" {
			fmt.Printf("    └ Error: %s\n", r.Err)
		}
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Done in %s\n", elapsed)
}

func init() {
	RootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringSliceVarP(&entityNames, "entities", "t", []string{}, "specific entities to process (name or table, comma-separated)")
	syncCmd.Flags().BoolVar(&checkOnly, "check", false, "audit consistency without provisioning")
	syncCmd.Flags().BoolVar(&fixDrift, "fix", false, "repair mismatches found by --check")
	syncCmd.Flags().BoolVar(&writeReport, "report", false, "write a textual report file")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "list entities without touching the mirror")
}
