package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/homeworkhelper/internal/grades"
	"github.com/abhisek/homeworkhelper/internal/plans"
	"github.com/abhisek/homeworkhelper/internal/profile"
	"github.com/abhisek/homeworkhelper/internal/store"
)

var errSignedOut = errors.New("not signed in (run: homeworkhelper login)")

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfiles(cmd, func(profiles *profile.Store) error {
			u, err := profiles.Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if u == nil {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}
			fmt.Fprintf(out, "Name:     %s\n", u.Name)
			fmt.Fprintf(out, "Email:    %s\n", u.Email)
			fmt.Fprintf(out, "Plan:     %s\n", u.PlanName())
			if u.Plan.Metered() {
				credits := 0
				if u.Credits != nil {
					credits = *u.Credits
				}
				fmt.Fprintf(out, "Credits:  %d\n", credits)
			}
			fmt.Fprintf(out, "Joined:   %s\n", humanize.Time(u.CreatedAt))
			if len(u.Children) > 0 {
				fmt.Fprintln(out, "Children:")
				for _, c := range u.Children {
					line := fmt.Sprintf("  - %s, Grade %d", c.Name, c.Grade)
					if len(c.Subjects) > 0 {
						line += " (" + strings.Join(c.Subjects, ", ") + ")"
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in, or create an account when --name is given",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		form := profile.Form{
			Name:            name,
			Email:           email,
			Password:        password,
			ConfirmPassword: password,
			SignUp:          name != "",
		}
		u, err := profile.SignIn(form, time.Now())
		if err != nil {
			return err
		}

		return withProfiles(cmd, func(profiles *profile.Store) error {
			if err := profiles.Save(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s on the %s plan.\n", u.Name, u.PlanName())
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProfiles(cmd, func(profiles *profile.Store) error {
			if err := profiles.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		})
	},
}

var planSelectCmd = &cobra.Command{
	Use:   "select <tier>",
	Short: "Switch the signed-in account to a plan (free, payper, family, school)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := plans.ParseTier(args[0])
		if err != nil {
			return err
		}
		return withProfiles(cmd, func(profiles *profile.Store) error {
			u, err := profiles.Load(cmd.Context())
			if err != nil {
				return err
			}
			if u == nil {
				return errSignedOut
			}
			u.SelectPlan(tier)
			if err := profiles.Save(cmd.Context(), u); err != nil {
				return err
			}
			msg := fmt.Sprintf("You're on the %s now.", u.PlanName())
			if u.Plan.Metered() && u.Credits != nil {
				msg += fmt.Sprintf(" %d credits available.", *u.Credits)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		})
	},
}

var childrenCmd = &cobra.Command{
	Use:   "children",
	Short: "Manage the child learners on the signed-in account",
}

var childAddCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Add a child learner",
	Example: `  homeworkhelper children add Wanjiru --grade 4 --subjects mathematics,science`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return errors.New("child name must not be empty")
		}
		grade, _ := cmd.Flags().GetInt("grade")
		if !grades.Valid(grade) {
			return fmt.Errorf("grade %d is not offered (choose %d-%d)", grade, grades.Min, grades.Max)
		}
		subjectsVal, _ := cmd.Flags().GetString("subjects")
		var subjects []string
		for _, sub := range strings.Split(subjectsVal, ",") {
			if sub = strings.ToLower(strings.TrimSpace(sub)); sub != "" {
				subjects = append(subjects, sub)
			}
		}

		return withProfiles(cmd, func(profiles *profile.Store) error {
			u, err := profiles.Load(cmd.Context())
			if err != nil {
				return err
			}
			if u == nil {
				return errSignedOut
			}
			c := u.AddChild(name, grade, subjects...)
			if err := profiles.Save(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (Grade %d).\n", c.Name, c.Grade)
			return nil
		})
	},
}

func init() {
	childAddCmd.Flags().Int("grade", 0, "Grade level (1-9)")
	childAddCmd.Flags().String("subjects", "", "Comma-separated subjects, e.g. mathematics,science")
	_ = childAddCmd.MarkFlagRequired("grade")
	childrenCmd.AddCommand(childAddCmd)

	loginCmd.Flags().String("name", "", "Learner name (creates a new account)")
	loginCmd.Flags().String("email", "", "Email address (required)")
	loginCmd.Flags().String("password", "", "Password, at least 6 characters (required)")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	plansCmd.AddCommand(planSelectCmd)
}

// withProfiles opens the database and runs fn with the saved-session store.
func withProfiles(cmd *cobra.Command, fn func(*profile.Store) error) error {
	return withStore(cmd, func(s *store.Store) error {
		return fn(profile.NewStore(s.SessionRepo()))
	})
}

// withStore opens the database for the duration of fn.
func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
