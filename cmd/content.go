package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeworkhelper/internal/grades"
	"github.com/abhisek/homeworkhelper/internal/tutor"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Inspect and validate tutoring content packs",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a YAML content pack against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: version %s, %d subjects\n", args[0], c.Version(), len(c.Subjects()))
		return nil
	},
}

var contentShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the keyword and response tables in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		subjectVal, _ := cmd.Flags().GetString("subject")
		grade, _ := cmd.Flags().GetInt("grade")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, err := loadCatalog(cfg.ContentPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if subjectVal == "" {
			showOverview(cmd, c)
			return nil
		}

		subject := tutor.Subject(strings.ToLower(strings.TrimSpace(subjectVal)))
		levels := []int{grade}
		if grade == 0 {
			levels = nil
			for _, g := range grades.All() {
				levels = append(levels, g.Number)
			}
		}

		for _, g := range levels {
			templates, ok := c.Templates(subject, g)
			label := fmt.Sprintf("%s, Grade %d", tutor.SubjectDisplayName(subject), g)
			if subject == tutor.SubjectGeneral || !ok {
				templates = c.FallbackTemplates(g)
				label += " (fallback)"
			}
			fmt.Fprintln(out, label)
			for _, t := range templates {
				fmt.Fprintf(out, "  - %s\n", t)
			}
		}
		return nil
	},
}

// showOverview prints the keyword table and which grades each subject covers.
func showOverview(cmd *cobra.Command, c *tutor.Catalog) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Content version %s\n\n", c.Version())

	fmt.Fprintf(out, "%-14s  %-12s  %s\n", "Subject", "Grades", "Keywords")
	fmt.Fprintln(out, strings.Repeat("─", 80))

	keywords := make(map[tutor.Subject][]string)
	for _, kw := range c.Keywords() {
		keywords[kw.Subject] = kw.Keywords
	}
	for _, s := range c.Subjects() {
		var covered []string
		for _, g := range grades.All() {
			if _, ok := c.Templates(s, g.Number); ok {
				covered = append(covered, fmt.Sprint(g.Number))
			}
		}
		coverage := strings.Join(covered, ",")
		if coverage == "" {
			coverage = "-"
		}
		fmt.Fprintf(out, "%-14s  %-12s  %s\n", tutor.SubjectDisplayName(s), coverage, strings.Join(keywords[s], ", "))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Questions matching no keywords use the fallback replies.")
}

func init() {
	contentShowCmd.Flags().String("subject", "", "Subject to print (e.g. mathematics)")
	contentShowCmd.Flags().Int("grade", 0, "Grade to print (default all)")

	contentCmd.AddCommand(contentValidateCmd)
	contentCmd.AddCommand(contentShowCmd)
}
