package cli

import (
	"fmt"
	"strconv"

	"github.com/akolanti/StudyAPI/internal/domain/courseModel"
	"github.com/spf13/cobra"
)

var regenerate bool

var questionsCmd = &cobra.Command{
	Use:   "questions <course> <unit>",
	Short: "Show practice questions for a unit",
	Long: `Shows the multiple-choice practice questions for one unit of a course.

The cached set is used while the course document is unchanged; otherwise a new
set is generated and cached. --regenerate always generates a new set.`,
	Args: cobra.ExactArgs(2),
	RunE: runQuestions,
}

func init() {
	questionsCmd.Flags().BoolVar(&regenerate, "regenerate", false, "ignore the cache and generate a new set")
	questionsCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, args []string) error {
	unit, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("unit must be a number, got %q", args[1])
	}
	svc, err := serviceFor(cmd, false)
	if err != nil {
		return err
	}

	get := svc.GetQuestions
	if regenerate {
		get = svc.RegenerateQuestions
	}
	res, err := get(cmd.Context(), args[0], unit)
	if err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd, res)
	}
	printQuestions(cmd, res)
	return nil
}

func printQuestions(cmd *cobra.Command, res courseModel.QuestionSetResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, unit %d: %s (%s, %s)\n\n", res.CourseId, res.Unit, res.Title, res.Source, res.Origin)
	for i, q := range res.Questions {
		fmt.Fprintf(out, "%d. %s\n", i+1, q.Question)
		for j, o := range q.Options {
			fmt.Fprintf(out, "   %c) %s\n", 'A'+j, o)
		}
		fmt.Fprintf(out, "   Answer: %s. %s\n\n", q.Answer, q.Explanation)
	}
}
