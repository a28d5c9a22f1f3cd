package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/corpmatch/pkg/dedup"
	"github.com/Ramsey-B/corpmatch/pkg/ingest"
	"github.com/Ramsey-B/corpmatch/pkg/legalform"
	"github.com/Ramsey-B/corpmatch/pkg/matching"
)

var findDuplicatesCmd = &cobra.Command{
	Use:   "find-duplicates",
	Short: "Find likely-duplicate company names in a CSV",
	Long: `Reads a company-name CSV (one companyName column, blank lines ignored)
and reports every pair whose matcher score clears the duplicate threshold.

Examples:
  # Find duplicates, default country and concurrency
  corpmatch find-duplicates --input names.csv

  # French entities, wider worker pool, write CSV results
  corpmatch find-duplicates --input names.csv --country FR --concurrency 16 --format csv --output dupes.csv`,
	RunE: runFindDuplicates,
}

func init() {
	f := findDuplicatesCmd.Flags()
	f.String("input", "", "path to the company-name CSV (required)")
	f.String("country", "", "country code used for legal-form-aware scoring (overrides config default)")
	f.Int("concurrency", 0, "number of blocks scored in parallel (0=use config default)")
	f.String("output", "", "output file path (default: stdout)")
	f.String("format", "table", "output format: table or csv")
	_ = findDuplicatesCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(findDuplicatesCmd)
}

func runFindDuplicates(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inputPath, _ := cmd.Flags().GetString("input")
	country, _ := cmd.Flags().GetString("country")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	names, err := ingest.ReadCompanyNamesFile(inputPath)
	if err != nil {
		return err
	}
	logger.Infof("loaded %d company names from %s", len(names), inputPath)

	catalog := legalform.LoadCatalog(logger, cfg.LegalFormsPath, cfg.AdditionLegalFormsPath)
	replacements := legalform.LoadReplacements(logger, cfg.LegalFormReplacementsPath)
	retriever := legalform.NewRetriever(catalog, replacements)
	matcher := matching.NewMatcher(catalog, retriever)

	opts := dedup.Options{Concurrency: concurrency, CountryCode: country}
	if opts.Concurrency <= 0 {
		opts.Concurrency = cfg.DedupWorkerCount
	}
	if opts.CountryCode == "" {
		opts.CountryCode = cfg.DefaultCountryCode
	}

	results := dedup.FindDuplicates(ctx, matcher, names, opts)
	logger.Infof("found %d candidate duplicate pairs", len(results))

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("find-duplicates: open output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "csv":
		return writeResultsCSV(out, results)
	default:
		return writeResultsTable(out, results)
	}
}

func writeResultsTable(out *os.File, results []dedup.MatchResult) error {
	if len(results) == 0 {
		fmt.Fprintln(out, "no duplicate pairs found")
		return nil
	}
	fmt.Fprintf(out, "%-40s %-40s %s\n", "NAME 1", "NAME 2", "SCORE")
	for _, r := range results {
		fmt.Fprintf(out, "%-40s %-40s %s\n", r.Name1, r.Name2, strconv.FormatFloat(r.Score, 'f', 4, 64))
	}
	return nil
}

func writeResultsCSV(out *os.File, results []dedup.MatchResult) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"name1", "name2", "score"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{r.Name1, r.Name2, strconv.FormatFloat(r.Score, 'f', 4, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
