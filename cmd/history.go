package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/homeworkhelper/internal/store"
	"github.com/abhisek/homeworkhelper/internal/tutor"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past conversations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return withStore(cmd, func(s *store.Store) error {
			convs, err := s.EventRepo().ConversationSummaries(cmd.Context(), store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query conversations: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(convs) == 0 {
				fmt.Fprintln(out, "No conversations yet.")
				return nil
			}

			// Header.
			fmt.Fprintf(out, "%-36s  %-14s  %5s  %9s  %s\n",
				"ID", "Last Active", "Grade", "Questions", "First Question")
			fmt.Fprintln(out, strings.Repeat("─", 110))

			for _, c := range convs {
				first := c.FirstQuestion
				if len([]rune(first)) > 40 {
					first = string([]rune(first)[:37]) + "..."
				}
				fmt.Fprintf(out, "%-36s  %-14s  %5d  %9d  %s\n",
					c.ConversationID,
					humanize.Time(c.LastActivity),
					c.Grade,
					c.Questions,
					first,
				)
			}
			return nil
		})
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <conversation-id>",
	Short: "Print the full transcript of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		return withStore(cmd, func(s *store.Store) error {
			msgs, err := s.EventRepo().Conversation(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get conversation: %w", err)
			}
			if len(msgs) == 0 {
				return fmt.Errorf("conversation %s not found", id)
			}

			out := cmd.OutOrStdout()
			first := msgs[0]
			fmt.Fprintf(out, "Conversation: %s\n", id)
			fmt.Fprintf(out, "Grade:        %d\n", first.Grade)
			fmt.Fprintf(out, "Started:      %s\n", first.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintln(out, strings.Repeat("─", 60))

			for _, m := range msgs {
				who := "You"
				if m.Role == "bot" {
					who = "Tutor"
					if m.Subject != "" {
						who += " · " + tutor.SubjectDisplayName(tutor.Subject(m.Subject))
					}
				} else if m.Modality != "" && m.Modality != string(tutor.ModalityText) {
					who += " (" + m.Modality + ")"
				}
				fmt.Fprintf(out, "[%s] %s\n%s\n\n", m.Timestamp.Local().Format("15:04"), who, m.Content)
			}
			return nil
		})
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of conversations to show")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
