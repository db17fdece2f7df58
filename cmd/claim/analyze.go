package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/claim-core/internal/application/handlers"
	"github.com/ersonp/claim-core/internal/domain/services"
)

func newAnalyzeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "analyze <claim>",
		Short: "Analyze a claim for truthfulness",
		Long:  "Checks the cache for a previously analyzed similar claim, otherwise gathers web evidence and asks the LLM for a verdict.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the cache and re-analyze")

	return cmd
}

func runAnalyze(cmd *cobra.Command, claimText string, force bool) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		result, err := d.AnalyzeHandler.Handle(ctx, claimText, handlers.AnalyzeOptions{Force: force})
		if err != nil {
			return err
		}

		printAnalysis(result)
		return nil
	})
}

func printAnalysis(result *services.AnalysisResult) {
	fmt.Printf("Claim:   %s\n", result.ClaimText)
	fmt.Printf("Verdict: %s\n", result.Verdict)
	if result.Explanation != "" {
		fmt.Printf("Why:     %s\n", result.Explanation)
	}

	if result.CacheHit {
		fmt.Printf("\nServed from cache (similarity %.2f)\n", result.Similarity)
		if result.MatchedClaim != "" && result.MatchedClaim != result.ClaimText {
			fmt.Printf("Matched claim: %s\n", result.MatchedClaim)
		}
	} else {
		if result.SearchQuery != "" && result.SearchQuery != result.ClaimText {
			fmt.Printf("\nSearch query: %s\n", result.SearchQuery)
		}
		if !result.Persisted {
			fmt.Println("\nNote: result was not saved to the cache.")
		}
	}

	if result.TimeDependency.IsTimeDependent {
		fmt.Printf("\nTime-sensitive: verdict expires after %d day(s)\n", result.TimeDependency.DurationDays)
	}

	if len(result.Evidence) > 0 {
		fmt.Printf("\nEvidence (%d sources):\n", len(result.Evidence))
		for i, link := range result.Evidence {
			fmt.Printf("%d. %s [%s]\n   %s\n", i+1, link.Title, link.Source, link.URL)
		}
	}
}
