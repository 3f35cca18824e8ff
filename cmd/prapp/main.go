package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"prapp/internal/bootstrap"
	profilein "prapp/internal/modules/profile/adapter/in"
	profiledto "prapp/internal/modules/profile/dto"
	sessiondto "prapp/internal/modules/session/dto"
	"prapp/internal/platform/config"
	"prapp/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "prapp",
		Short:         "Practice interviews, meetings and negotiations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newProfileCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	return root
}

// loadApp wires the app with CLI logging on stderr.
func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New(cfg.LogLevel, os.Stderr))
}

// loadScreenApp logs to a file so the terminal UI owns the screen.
func loadScreenApp(dataDir string) (*bootstrap.App, io.Closer, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, nil, err
	}
	logger, logFile, err := logging.NewFile(cfg.LogLevel, filepath.Join(cfg.StateDir(), "prapp.log"))
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		_ = logFile.Close()
		return nil, nil, err
	}
	return app, logFile, nil
}

func runScreen(dataDir string, startSession bool, sessionID string) error {
	app, logFile, err := loadScreenApp(dataDir)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	defer func() { _ = app.Close() }()
	return bootstrap.RunTUI(app, startSession, sessionID)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the prapp terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runScreen(*dataDir, false, "")
		},
	}
}

func newProfileCmd(dataDir *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Inspect and edit the practice profile"}

	withApp := func(fn func(cmd *cobra.Command, args []string, app *bootstrap.App) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return fn(cmd, args, app)
		}
	}

	profile.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current profile",
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out := app.ProfileCLI.Show(context.Background())
			printProfile(cmd.OutOrStdout(), out)
			warnDurability(cmd.ErrOrStderr(), out)
			return nil
		}),
	})

	profile.AddCommand(&cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set a profile field (" + strings.Join(profilein.Fields, "|") + ")",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.ProfileCLI.Set(context.Background(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
			warnDurability(cmd.ErrOrStderr(), out)
			return nil
		}),
	})

	profile.AddCommand(&cobra.Command{
		Use:   "clear-focus",
		Short: "Remove the training focus",
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out, err := app.ProfileCLI.ClearFocus(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "training focus cleared")
			warnDurability(cmd.ErrOrStderr(), out)
			return nil
		}),
	})

	profile.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset the profile to defaults",
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			out := app.ProfileCLI.Reset(context.Background())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "profile reset")
			warnDurability(cmd.ErrOrStderr(), out)
			return nil
		}),
	})

	profile.AddCommand(&cobra.Command{
		Use:   "import-cv <path>",
		Short: "Replace the CV text with a PDF or text file",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.ProfileCLI.ImportCV(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported cv (%d chars)\n", len(out.CVText))
			warnDurability(cmd.ErrOrStderr(), out)
			return nil
		}),
	})

	profile.AddCommand(&cobra.Command{
		Use:   "import-context <path>",
		Short: "Apply a markdown brief with frontmatter",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			out, err := app.ProfileCLI.ImportContext(context.Background(), args[0])
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), out)
			warnDurability(cmd.ErrOrStderr(), out)
			return nil
		}),
	})

	var outPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Render the profile as a markdown brief",
		RunE: withApp(func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			brief, err := app.ProfileCLI.Export(context.Background())
			if err != nil {
				return err
			}
			if outPath == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), brief)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(brief), 0o644); err != nil {
				return fmt.Errorf("write brief: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		}),
	}
	exportCmd.Flags().StringVar(&outPath, "out", "", "write to a file instead of stdout")
	profile.AddCommand(exportCmd)

	return profile
}

func newSessionCmd(dataDir *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Practice session commands"}

	session.AddCommand(&cobra.Command{
		Use:   "run [id]",
		Short: "Open the session screen",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			sessionID := ""
			if len(args) == 1 {
				sessionID = args[0]
			}
			return runScreen(*dataDir, true, sessionID)
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "complete <id>",
		Short: "Run a session to completion without the screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Run(cmd.Context(), args[0], func(state sessiondto.StateOutput) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), state.Greeting)
			})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "\nsession %s %s, score %d\n", out.Session.ID, out.Session.Status, *out.Session.Score)
			for _, item := range out.Improvements {
				_, _ = fmt.Fprintf(w, "- %s\n", item)
			}
			if !out.Durable {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: profile not saved")
			}
			return nil
		},
	})

	return session
}

func printProfile(w io.Writer, p profiledto.ProfileOutput) {
	kind := p.PreparationType
	if p.MeetingSubtype != "" {
		kind += " / " + p.MeetingSubtype
	}
	_, _ = fmt.Fprintf(w, "state:   %s\n", p.ActivationState)
	_, _ = fmt.Fprintf(w, "type:    %s\n", kind)
	_, _ = fmt.Fprintf(w, "tone:    %s\n", p.Tone)
	if p.Agenda != "" {
		_, _ = fmt.Fprintf(w, "agenda:  %s\n", p.Agenda)
	}
	if p.CVText != "" {
		_, _ = fmt.Fprintf(w, "cv:      %d chars\n", len(p.CVText))
	}
	if p.TrainingFocus != nil {
		_, _ = fmt.Fprintf(w, "focus:   %s [%s]\n", p.TrainingFocus.Title, strings.Join(p.TrainingFocus.Tags, ", "))
	}
	_, _ = fmt.Fprintf(w, "sessions: %d\n", len(p.Sessions))
	for _, s := range p.Sessions {
		line := fmt.Sprintf("  %s  %s  %s  %s", s.ID, s.Date.Format("2006-01-02 15:04"), s.Type, s.Status)
		if s.Score != nil {
			line += fmt.Sprintf("  %d", *s.Score)
		}
		_, _ = fmt.Fprintln(w, line)
	}
	for _, item := range p.Improvements {
		_, _ = fmt.Fprintf(w, "- %s\n", item)
	}
}

func warnDurability(w io.Writer, p profiledto.ProfileOutput) {
	if p.Durable {
		return
	}
	_, _ = fmt.Fprintf(w, "warning: profile not saved: %s\n", p.DurabilityError)
}
