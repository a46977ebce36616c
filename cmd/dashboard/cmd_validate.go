package main

import (
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/hamed0406/statusdash/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the dashboard document",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg := loadSettings()
	w := cmd.OutOrStdout()

	doc, err := config.LoadDocument(cfg.ConfigPath)
	if err != nil {
		printFail(w, "%s", cfg.ConfigPath)
		printDetail(w, "%v", err)
		return err
	}

	printOK(w, "%s: project %q, stale after %s", cfg.ConfigPath, doc.ProjectName, doc.StaleAfter())
	for _, env := range doc.Environments {
		printDetail(w, "%s: %s", env.Name, english.Plural(len(env.Checks), "check", "checks"))
	}
	for _, id := range doc.KeywordlessChecks() {
		printWarn(w, "%s: keyword check without keyword will always report an error", id)
	}
	fmt.Fprintf(w, "%s configured\n", english.Plural(len(doc.Checks()), "check", "checks"))
	return nil
}
