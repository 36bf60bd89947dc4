package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/csg33k/tugas-tracker/internal/adapters/pdf"
	"github.com/csg33k/tugas-tracker/internal/config"
	"github.com/csg33k/tugas-tracker/internal/domain"
	"github.com/csg33k/tugas-tracker/internal/ports"
	"github.com/csg33k/tugas-tracker/internal/tracker"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	isTerminalFunc   = term.IsTerminal

	errActionFailed = errors.New("action failed")
)

type cli struct {
	store ports.RemoteStore
	log   *slog.Logger
	cfg   *config.Config
	in    io.Reader
	out   io.Writer

	password string
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Lihat dan kelola link tugas mahasiswa",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.password, "password", "", "action password; prompted when empty")
	root.AddCommand(c.rosterCmd(), c.historyCmd(), c.uploadCmd(), c.deleteCmd())
	return root
}

func (c *cli) rosterCmd() *cobra.Command {
	var pdfPath string
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Daftar mahasiswa dengan jumlah tugas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tracker.NewRosterPage(c.store, c.log)
			p.Load(cmd.Context())
			v := p.View().Roster
			c.printRoster(v)
			if v.Failed {
				return errActionFailed
			}
			if pdfPath != "" {
				return c.writePDF(cmd.Context(), p.Roster().Students(), pdfPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write the roster as a PDF file")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <studentId>",
		Short: "Riwayat tugas seorang mahasiswa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := tracker.NewDetailPage(c.store, c.log)
			d.Load(cmd.Context(), args[0])
			v := d.View()
			fmt.Fprintln(c.out, v.Label)
			if !v.Found {
				return errActionFailed
			}
			c.printHistory(v.History)
			return nil
		},
	}
}

func (c *cli) uploadCmd() *cobra.Command {
	var form tracker.Form
	cmd := &cobra.Command{
		Use:   "upload <studentId>",
		Short: "Simpan link tugas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := tracker.NewRosterPage(c.store, c.log)
			p.Load(ctx)
			if err := p.Dispatch(ctx, tracker.Event{Action: tracker.Action{Kind: tracker.ActionOpenPanel, StudentID: args[0]}}); err != nil {
				return err
			}
			panel := p.View().Panel
			if !panel.Open {
				fmt.Fprintln(c.out, "Mahasiswa tidak ditemukan.")
				return errActionFailed
			}
			fmt.Fprintln(c.out, panel.Student.Label())

			pwd, err := c.askPassword()
			if err != nil {
				return err
			}
			form.Password = pwd
			if err := p.Dispatch(ctx, tracker.Event{Action: tracker.Action{Kind: tracker.ActionUpload}, Form: form}); err != nil {
				return err
			}
			panel = p.View().Panel
			return c.report(panel.Message, panel.History)
		},
	}
	cmd.Flags().StringVar(&form.TaskName, "task", "", "task name")
	cmd.Flags().StringVar(&form.Link, "link", "", "task link")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <studentId> <submissionId>",
		Short: "Hapus link tugas",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := tracker.NewDetailPage(c.store, c.log)
			d.Load(ctx, args[0])
			v := d.View()
			fmt.Fprintln(c.out, v.Label)
			if !v.Found {
				return errActionFailed
			}

			pwd, err := c.askPassword()
			if err != nil {
				return err
			}
			ev := tracker.Event{
				Action:  tracker.Action{Kind: tracker.ActionDelete, StudentID: args[0], SubmissionID: args[1]},
				Form:    tracker.Form{Password: pwd},
				Confirm: c.confirmer(yes),
			}
			if err := d.Dispatch(ctx, ev); err != nil {
				return err
			}
			v = d.View()
			return c.report(v.Message, v.History)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// askPassword returns --password, or reads one without echo when stdin is a
// terminal. Otherwise the password stays empty.
func (c *cli) askPassword() (string, error) {
	if c.password != "" {
		return c.password, nil
	}
	f, ok := c.in.(*os.File)
	if !ok || !isTerminalFunc(int(f.Fd())) {
		return "", nil
	}
	fmt.Fprint(c.out, "Sandi: ")
	pwd, err := readPasswordFunc(int(f.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(pwd), nil
}

// confirmer asks on the terminal unless yes is set. Anything but y/ya
// declines.
func (c *cli) confirmer(yes bool) tracker.Confirmer {
	if yes {
		return tracker.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	}
	in := bufio.NewReader(c.in)
	return tracker.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		fmt.Fprintf(c.out, "%s [y/N] ", prompt)
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return false, nil
			}
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "ya", "yes":
			return true, nil
		}
		return false, nil
	})
}

func (c *cli) report(msg domain.Message, history tracker.HistoryView) error {
	if !msg.IsZero() {
		fmt.Fprintln(c.out, msg.Text)
	}
	if msg.Kind == domain.MessageSuccess {
		c.printHistory(history)
		return nil
	}
	if msg.Kind == domain.MessageError {
		return errActionFailed
	}
	return nil
}

func (c *cli) printRoster(v tracker.RosterView) {
	if len(v.Rows) == 0 {
		fmt.Fprintln(c.out, v.Placeholder)
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAMA\tNIM\tTOTAL TUGAS")
	for _, row := range v.Rows {
		s := row.Student
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Number, s.SubmissionCount)
	}
	tw.Flush()
}

func (c *cli) printHistory(v tracker.HistoryView) {
	if len(v.Items) == 0 {
		fmt.Fprintln(c.out, v.Placeholder)
		return
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTUGAS\tDIUNGGAH\tLINK")
	for _, item := range v.Items {
		sub := item.Submission
		uploaded := "-"
		if !sub.UploadedAt.IsZero() {
			uploaded = sub.UploadedAt.In(c.cfg.DisplayTZ).Format(c.cfg.TimeLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sub.ID, sub.TaskName, uploaded, sub.Link)
	}
	tw.Flush()
}

func (c *cli) writePDF(ctx context.Context, students []domain.Student, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create pdf")
	}
	if err := pdf.New(c.cfg.DisplayTZ).Report(ctx, students, f); err != nil {
		f.Close()
		return errors.Wrap(err, "write pdf")
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "PDF tersimpan:", path)
	return nil
}
