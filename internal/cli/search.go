package cli

import (
	"fmt"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <course> <query>",
	Short: "Semantic search within a course",
	Long: `Finds the chunks of a course closest in meaning to the query.
Needs Qdrant and an embedding api key (search.enabled in the settings).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := serviceFor(cmd, false)
		if err != nil {
			return err
		}
		matches, err := svc.SearchCourse(cmd.Context(), args[0], args[1], searchLimit)
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, matches)
		}
		out := cmd.OutOrStdout()
		if len(matches) == 0 {
			fmt.Fprintln(out, "No results found.")
			return nil
		}
		for i, m := range matches {
			fmt.Fprintf(out, "[%d] chunk %d, units %v (%.2f)\n    %s\n", i+1, m.ChunkIndex, m.Units, m.Score, m.Snippet)
		}
		return nil
	},
}

var warmCmd = &cobra.Command{
	Use:   "warm <course>",
	Short: "Generate questions for every unit that has no valid cached set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := serviceFor(cmd, false)
		if err != nil {
			return err
		}
		res, err := svc.WarmCourse(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: generated %v, already cached %v\n", res.CourseId, res.Generated, res.Skipped)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", config.SearchDefaultLimit, "maximum number of results")
	for _, c := range []*cobra.Command{searchCmd, warmCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
		rootCmd.AddCommand(c)
	}
}
