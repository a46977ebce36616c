package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hamed0406/statusdash/internal/config"
	"github.com/hamed0406/statusdash/internal/domain"
	"github.com/hamed0406/statusdash/internal/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Run every configured check once and print the results",
	Args:  cobra.NoArgs,
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg := loadSettings()
	doc, err := config.LoadDocument(cfg.ConfigPath)
	if err != nil {
		return err
	}

	errored := probeAll(cmd.Context(), cmd.OutOrStdout(), doc.Checks(),
		probe.NewDispatcher(probe.DefaultTimeout), probe.NewDNSDiagnoser())
	if errored > 0 {
		return fmt.Errorf("%d check(s) errored", errored)
	}
	return nil
}

// probeAll runs each check once, in order, and returns how many ended in
// StatusError. Errors get a DNS diagnosis of the check's host.
func probeAll(ctx context.Context, w io.Writer, checks []domain.ConfiguredCheck, exec probe.Executor, dns *probe.DNSDiagnoser) int {
	errored := 0
	for _, c := range checks {
		out := exec.Execute(ctx, c.Spec)
		label := fmt.Sprintf("%s (%.0fms)", c.ID, out.LatencyMS)
		if out.Version != nil {
			label += " v" + *out.Version
		}

		switch out.Status {
		case domain.StatusHealthy:
			printOK(w, "%s", label)
		case domain.StatusUnhealthy:
			printWarn(w, "%s", label)
		default:
			errored++
			printFail(w, "%s", label)
		}

		if out.Status != domain.StatusHealthy && out.Reason != "" {
			printDetail(w, "%s", out.Reason)
		}
		for _, s := range out.SubChecks {
			if !s.Healthy() {
				printDetail(w, "%s: %s", s.Name, s.Status)
			}
		}
		if out.Status == domain.StatusError && dns != nil {
			st := dns.Diagnose(ctx, c.Spec.URL)
			printDetail(w, "dns %s: %s", st.Host, st.Class)
		}
	}
	return errored
}
