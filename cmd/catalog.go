package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeworkhelper/internal/grades"
	"github.com/abhisek/homeworkhelper/internal/plans"
)

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "List the supported grades",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-5s  %s\n", "Grade", "Focus")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, g := range grades.All() {
			fmt.Fprintf(out, "%5d  %s\n", g.Number, g.Description)
		}
	},
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for i, p := range plans.All() {
			if i > 0 {
				fmt.Fprintln(out)
			}
			name := p.Name
			if p.Popular {
				name += "  ★ Most Popular"
			}
			fmt.Fprintf(out, "%s (%s)\n", name, p.Tier)
			fmt.Fprintf(out, "  %s %s\n", p.Price, p.Period)
			fmt.Fprintf(out, "  %s\n", p.Description)
			for _, f := range p.Features {
				fmt.Fprintf(out, "  ✓ %s\n", f)
			}
		}
	},
}
