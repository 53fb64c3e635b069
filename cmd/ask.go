package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/homeworkhelper/internal/chat"
	"github.com/abhisek/homeworkhelper/internal/logging"
	"github.com/abhisek/homeworkhelper/internal/tutor"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Get a single reply without starting the app",
	Long: `Compose one tutoring reply for a question and print it.

Nothing is saved and no credits are charged. Voice questions need no text;
image and file questions take the homework through --attach.`,
	Example: `  homeworkhelper ask --grade 4 "how do I add fractions?"
  homeworkhelper ask --grade 6 --attach worksheet.pdf
  homeworkhelper ask --grade 2 --modality voice --seed 7 --explain`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int("grade", 0, "Learner grade (required)")
	askCmd.Flags().String("modality", "text", "How the question was asked: "+tutor.ModalityNames())
	askCmd.Flags().String("attach", "", "Homework photo or document to attach")
	askCmd.Flags().Uint64("seed", 0, "Seed for reproducible reply selection")
	askCmd.Flags().Bool("explain", false, "Show how the reply was chosen")
	askCmd.Flags().Bool("pace", false, "Wait like the chat window before replying")
	_ = askCmd.MarkFlagRequired("grade")
}

func runAsk(cmd *cobra.Command, args []string) error {
	grade, _ := cmd.Flags().GetInt("grade")
	modalityVal, _ := cmd.Flags().GetString("modality")
	attachPath, _ := cmd.Flags().GetString("attach")
	explain, _ := cmd.Flags().GetBool("explain")
	pace, _ := cmd.Flags().GetBool("pace")

	modality, err := tutor.ParseModality(modalityVal)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		cfg.Seed = &seed
	}

	logger, err := logging.New(cfg.Log.Mode, cfg.Log.Path)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	in, err := askInput(strings.Join(args, " "), modality, attachPath, cmd.Flags().Changed("modality"))
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(cfg.ContentPath)
	if err != nil {
		return err
	}
	reply := tutor.NewResponder(catalog, replySource(cfg)).Reply(in.Text, grade, in.Modality)
	logger.Info("one-shot reply", "grade", grade, "modality", string(in.Modality), "subject", string(reply.Subject), "fallback", reply.Fallback)

	out := cmd.OutOrStdout()
	if pace {
		fmt.Fprintln(out, "Tutor is typing...")
		pacing := chat.Pacing{BeforeTyping: cfg.Pacing.BeforeTyping, Typing: cfg.Pacing.Typing}
		if err := pacing.Wait(cmd.Context()); err != nil {
			return err
		}
	}

	if in.Modality != tutor.ModalityText {
		fmt.Fprintf(out, "You: %s\n\n", in.Text)
	}
	fmt.Fprintln(out, reply.Text())

	if explain {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Subject:   %s\n", tutor.SubjectDisplayName(reply.Subject))
		fmt.Fprintf(out, "Grade:     %d\n", reply.Grade)
		fmt.Fprintf(out, "Modality:  %s\n", reply.Modality)
		fmt.Fprintf(out, "Fallback:  %v\n", reply.Fallback)
		fmt.Fprintf(out, "Prefix:    %q\n", reply.Prefix)
		fmt.Fprintf(out, "Template:  %q\n", reply.Template)
		fmt.Fprintf(out, "Follow-up: %q\n", reply.FollowUp)
		fmt.Fprintf(out, "Content:   %s\n", catalog.Version())
	}
	return nil
}

// askInput builds the submission the chat window would have made. An
// explicit --modality picks the image or file picker for an attachment,
// otherwise the attachment's type decides.
func askInput(question string, modality tutor.Modality, attachPath string, explicit bool) (chat.Input, error) {
	if attachPath != "" {
		a, err := chat.AttachmentFromPath(attachPath)
		if err != nil {
			return chat.Input{}, err
		}
		in := chat.AttachmentInput(a)
		if explicit {
			switch modality {
			case tutor.ModalityImage:
				in = chat.ImageInput(a)
			case tutor.ModalityFile:
				in = chat.FileInput(a)
			default:
				return chat.Input{}, fmt.Errorf("--attach needs --modality image or file, not %s", modality)
			}
		}
		if in.Modality == tutor.ModalityImage {
			err = a.ValidateImage()
		} else {
			err = a.ValidateFile()
		}
		return in, err
	}

	switch modality {
	case tutor.ModalityVoice:
		return chat.VoiceInput(), nil
	case tutor.ModalityImage, tutor.ModalityFile:
		return chat.Input{}, errors.New("image and file questions need --attach")
	}
	if strings.TrimSpace(question) == "" {
		return chat.Input{}, chat.ErrEmptyMessage
	}
	return chat.TextInput(question), nil
}
