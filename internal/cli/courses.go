package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := serviceFor(cmd, false)
		if err != nil {
			return err
		}
		courses := svc.ListCourses(cmd.Context())
		if outputJSON {
			return printJSON(cmd, courses)
		}
		if len(courses) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No courses found.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COURSE\tUNITS\tCHUNKS\tSTRATEGY")
		for _, c := range courses {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", c.CourseId, c.UnitCount, c.ChunkCount, c.Strategy)
		}
		return tw.Flush()
	},
}

var unitsCmd = &cobra.Command{
	Use:   "units <course>",
	Short: "List the units of a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := serviceFor(cmd, false)
		if err != nil {
			return err
		}
		listing, err := svc.ListUnits(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, listing)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "UNIT\tCACHED\tTITLE")
		for _, u := range listing.Units {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", strconv.Itoa(u.Number), yesNo(u.Cached), u.Title)
		}
		return tw.Flush()
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	for _, c := range []*cobra.Command{coursesCmd, unitsCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
		rootCmd.AddCommand(c)
	}
}
