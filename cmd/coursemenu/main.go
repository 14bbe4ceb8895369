package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"coursemenu/internal/bootstrap"
	"coursemenu/internal/platform/config"
	apperrors "coursemenu/internal/platform/errors"
	"coursemenu/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()
	if err != nil {
		code := exitCode(err, interrupted)
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		if hints := likelyCauses(err); len(hints) > 0 {
			_, _ = fmt.Fprintln(os.Stderr, "likely causes:")
			for _, h := range hints {
				_, _ = fmt.Fprintln(os.Stderr, "  - "+h)
			}
		}
		os.Exit(code)
	}
}

type globalFlags struct {
	configPath string
	outDir     string
	logMode    string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "coursemenu",
		Short:         "Export the structure of a Stepik course to Markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&flags.outDir, "out", "", "output root (default ./"+config.DefaultOutputDir+")")
	root.PersistentFlags().StringVar(&flags.logMode, "log-mode", "", "log mode: dev|prod")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	})

	root.AddCommand(newExportCmd(&flags))
	root.AddCommand(newPreviewCmd(&flags))
	root.AddCommand(newCoursesCmd(&flags))
	root.AddCommand(newExportsCmd(&flags))
	return root
}

// loadConfig layers flags over environment over the config file.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = flags.outDir
	}
	if cmd.Flags().Changed("log-mode") {
		cfg.LogMode = flags.logMode
	}
	return cfg, nil
}

func loadApp(cfg config.Config, opts bootstrap.Options) (*bootstrap.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, log, opts)
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var content string
	var concurrency int
	var noIndex bool

	cmd := &cobra.Command{
		Use:   "export [course-id]",
		Short: "Export a course menu, lesson files and TOC",
		Long:  "Export a course menu, lesson files and TOC. Without a course id an interactive picker lists your courses.",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("content") {
				cfg.Content = content
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Concurrency = concurrency
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}
			app, err := loadApp(cfg, bootstrap.Options{Progress: cmd.OutOrStdout(), Index: !noIndex})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx := cmd.Context()
			var courseID int64
			if len(args) == 1 {
				if courseID, err = parseCourseID(args[0]); err != nil {
					return err
				}
			} else {
				id, ok, err := bootstrap.PickCourse(ctx, app)
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no course selected")
					return nil
				}
				courseID = id
			}

			out, err := app.CourseCLI.Export(ctx, courseID, cfg.Content, cfg.Concurrency, noIndex)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "exported %q (%d) to %s\n", out.Title, out.CourseID, out.Dir)
			_, _ = fmt.Fprintf(w, "sections=%d lessons=%d steps=%d progress=%s run=%s\n", out.Sections, out.Lessons, out.Steps, out.Progress, out.RunID)
			for _, ref := range out.Dangling {
				_, _ = fmt.Fprintf(w, "skipped %s\n", ref)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "content", config.DefaultContent, "step content: text|full (full needs author rights)")
	cmd.Flags().IntVar(&concurrency, "concurrency", config.DefaultConcurrency, "lessons fetched in parallel")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "do not record the run in the export index")
	return cmd
}

func newPreviewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <course-id>",
		Short: "Print the course menu without writing files",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := parseCourseID(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}
			app, err := loadApp(cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			out, err := app.CourseCLI.Preview(cmd.Context(), courseID, config.DefaultContent)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out.MenuText, "\n"))
			return nil
		},
	}
}

func newCoursesCmd(flags *globalFlags) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List the courses available to your account",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}
			app, err := loadApp(cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			out, err := app.CourseCLI.ListCourses(cmd.Context(), page)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range out.Courses {
				_, _ = fmt.Fprintf(w, "%-8d %s (%d sections)\n", c.ID, c.Title, c.Sections)
			}
			if len(out.Courses) == 0 {
				_, _ = fmt.Fprintln(w, "no courses")
			}
			if out.HasNext {
				_, _ = fmt.Fprintf(w, "more: coursemenu courses --page %d\n", out.Page+1)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}

func newExportsCmd(flags *globalFlags) *cobra.Command {
	var runID string
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "List previous exports recorded in the index",
		Long:  "List previous exports recorded in the index. With --run, list the lesson files written by that run.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			app, err := loadApp(cfg, bootstrap.Options{Index: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			w := cmd.OutOrStdout()
			if runID != "" {
				lessons, err := app.CourseCLI.ExportLessons(cmd.Context(), runID)
				if err != nil {
					return err
				}
				for _, l := range lessons {
					_, _ = fmt.Fprintf(w, "%-6s %-8d steps=%-3d %s\n", l.Menu, l.LessonID, l.Steps, l.File)
				}
				return nil
			}

			records, err := app.CourseCLI.ListExports(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(w, "no exports")
				return nil
			}
			for _, r := range records {
				_, _ = fmt.Fprintf(w, "%s  %s  %-8d %s  lessons=%d steps=%d  %s\n",
					r.ExportedAt.Format("2006-01-02 15:04"), r.RunID, r.CourseID, r.Title, r.Lessons, r.Steps, r.Dir)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "list the lessons written by this run id")
	return cmd
}

func parseCourseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: course id must be a positive integer, got %q", apperrors.ErrInvalidInput, raw)
	}
	return id, nil
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
		}
		return nil
	}
}
