package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeworkhelper/internal/app"
	"github.com/abhisek/homeworkhelper/internal/chat"
	"github.com/abhisek/homeworkhelper/internal/logging"
	"github.com/abhisek/homeworkhelper/internal/profile"
	sess "github.com/abhisek/homeworkhelper/internal/session"
	"github.com/abhisek/homeworkhelper/internal/speech"
	"github.com/abhisek/homeworkhelper/internal/tutor"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Mode, cfg.Log.Path)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	catalog, err := loadCatalog(cfg.ContentPath)
	if err != nil {
		return err
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	speaker := speech.New(cfg.Speech.Enabled, cfg.Speech.Command, cfg.Speech.Rate)
	defer speaker.Stop()

	session := sess.New(sess.Options{
		Profiles:  profile.NewStore(st.SessionRepo()),
		Events:    st.EventRepo(),
		Responder: tutor.NewResponder(catalog, replySource(cfg)),
		Speaker:   speaker,
		Pacing: chat.Pacing{
			BeforeTyping: cfg.Pacing.BeforeTyping,
			Typing:       cfg.Pacing.Typing,
		},
		Logger: logger,
	})
	if err := session.Restore(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Saved sign-in could not be restored:", err)
		fmt.Fprintln(os.Stderr, "You will need to sign in again.")
	}

	logger.Info("app started", "content_version", catalog.Version(), "signed_in", session.SignedIn())

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{Session: session, SkipWelcome: noSplash})
}
