package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"filmlog/internal/archive"
	"filmlog/internal/config"
	"filmlog/internal/services"
	"filmlog/internal/session"
	"filmlog/internal/verification"
)

const shellPrompt = "filmlog> "

const shellHelp = `Commands:
  title TEXT        stage the film title
  date DD/MM/YYYY   stage the watch date
  theater y|n       stage whether it was seen in a theater
  verify            look the staged title up
  commit            add the staged record to the archive
  status            show the staged record
  list              show the archive
  load [PATH]       replace the archive with PATH
  save [PATH]       write the archive (default: the loaded path)
  help              show this help
  quit              leave the shell`

type shellState struct {
	ctrl  *session.Controller
	view  *presenter
	// resolve gives extensionless paths the default archive extension.
	resolve func(string) (string, error)
	out   io.Writer
	path  string
	dirty bool
	// warnedQuit is set after quit was refused once because of unsaved records.
	warnedQuit bool
}

func newShellCommand(ctx *commandContext) *cobra.Command {
	var autosave bool

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Stage, verify, and commit records interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			view := newPresenter(out)
			ctrl, err := ctx.newController(view)
			if err != nil {
				return err
			}
			path, err := ctx.archivePath()
			if err != nil {
				return err
			}
			loaded, err := loadExisting(ctrl, path)
			if err != nil {
				return err
			}

			state := &shellState{ctrl: ctrl, view: view, out: out, path: path, resolve: ctx.resolveArchivePath}
			for _, line := range renderSectionHeader("filmlog shell", view.colorize) {
				fmt.Fprintln(out, line)
			}
			if loaded {
				view.info("Archive", fmt.Sprintf("%s (%d records)", path, ctrl.Archive().Size()))
			} else {
				view.info("Archive", path+" (new)")
			}
			fmt.Fprintln(out, `Type "help" for commands.`)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, shellPrompt)
				if !scanner.Scan() {
					fmt.Fprintln(out)
					break
				}
				if done := state.dispatch(cmd, scanner.Text()); done {
					break
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			if state.dirty {
				if !autosave {
					view.warn("Unsaved", "records committed this session were not saved")
					return nil
				}
				return state.save(cmd, "")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&autosave, "autosave", false, "Save the archive when the shell exits")
	return cmd
}

// dispatch runs one input line and reports whether the shell should exit.
func (s *shellState) dispatch(cmd *cobra.Command, line string) bool {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	staged := s.ctrl.Staged()

	switch strings.ToLower(verb) {
	case "":
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "title":
		staged.Title = rest
		s.ctrl.Stage(staged)
	case "date":
		day, month, year, err := splitDate(rest)
		if err != nil {
			s.view.failure("Date", err)
			break
		}
		staged.Day, staged.Month, staged.Year = day, month, year
		s.ctrl.Stage(staged)
	case "theater":
		seen, err := parseYesNo(rest)
		if err != nil {
			s.view.failure("Theater", err)
			break
		}
		staged.SeenInTheater = seen
		s.ctrl.Stage(staged)
	case "verify":
		if _, err := s.ctrl.Verify(cmd.Context()); err != nil {
			s.reportVerifyError(err)
		}
	case "commit":
		if _, err := s.ctrl.Commit(); err != nil {
			s.reportCommitError(err)
			break
		}
		s.dirty = true
		s.warnedQuit = false
	case "status":
		s.printStatus()
	case "list":
		s.printArchive()
	case "load":
		s.load(rest)
	case "save":
		if err := s.save(cmd, rest); err != nil {
			s.view.failure("Save", err)
		}
	case "quit", "exit":
		if s.dirty && !s.warnedQuit {
			s.warnedQuit = true
			s.view.warn("Unsaved", `archive has unsaved records; "save" first or "quit" again to discard`)
			return false
		}
		s.dirty = false
		return true
	default:
		s.view.warn("Unknown", fmt.Sprintf("%q; type \"help\" for commands", verb))
	}
	return false
}

func (s *shellState) reportVerifyError(err error) {
	if errors.Is(err, verification.ErrNotFound) {
		s.view.warn("Not found", "edit the title and verify again")
		return
	}
	s.view.failure("Verify", err)
	if hint := services.Hint(err); hint != "" {
		s.view.info("Hint", hint)
	}
}

func (s *shellState) reportCommitError(err error) {
	switch {
	case errors.Is(err, session.ErrNotVerified):
		s.view.warn("Commit", `verify the title before committing`)
	case errors.Is(err, archive.ErrValidation):
		s.view.failure("Commit", err)
		s.view.info("Hint", `fix it with "date DD/MM/YYYY" and commit again`)
	default:
		s.view.failure("Commit", err)
	}
}

func (s *shellState) printStatus() {
	staged := s.ctrl.Staged()
	title := staged.Title
	if title == "" {
		title = "(none)"
	}
	date := fmt.Sprintf("%s/%s/%s", orPlaceholder(staged.Day, "DD"), orPlaceholder(staged.Month, "MM"), orPlaceholder(staged.Year, "YYYY"))
	s.view.info("Title", title)
	s.view.info("Date", date)
	s.view.info("Theater", yesNo(staged.SeenInTheater))
	kind := statusWarn
	if s.ctrl.VerificationState() == verification.Verified {
		kind = statusOK
	}
	fmt.Fprintln(s.out, renderStatusLine("Verification", kind, s.ctrl.VerificationState().String(), s.view.colorize))
	s.view.info("Poster", s.view.poster)
	s.view.info("Archive", fmt.Sprintf("%s (%d records)", s.path, s.ctrl.Archive().Size()))
}

func (s *shellState) printArchive() {
	entries := s.ctrl.Archive().All()
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "Archive is empty")
		return
	}
	fmt.Fprintln(s.out, renderArchive(entries))
}

// target returns the archive path a load or save argument names, defaulting
// to the current one.
func (s *shellState) target(arg string) (string, error) {
	if arg == "" {
		return s.path, nil
	}
	expanded, err := config.ExpandPath(arg)
	if err != nil {
		return "", err
	}
	if s.resolve == nil {
		return expanded, nil
	}
	return s.resolve(expanded)
}

func (s *shellState) load(arg string) {
	path, err := s.target(arg)
	if err != nil {
		s.view.failure("Load", err)
		return
	}
	if err := s.ctrl.LoadArchive(path); err != nil {
		s.view.failure("Load", err)
		return
	}
	s.path = path
	s.dirty = false
	s.view.info("Archive", fmt.Sprintf("%s (%d records)", path, s.ctrl.Archive().Size()))
}

func (s *shellState) save(cmd *cobra.Command, arg string) error {
	path, err := s.target(arg)
	if err != nil {
		return err
	}
	written, err := s.ctrl.SaveArchive(cmd.Context(), path)
	if err != nil {
		return err
	}
	s.path = written
	s.dirty = false
	s.view.info("Saved", fmt.Sprintf("%s (%d records)", written, s.ctrl.Archive().Size()))
	return nil
}

func parseYesNo(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("expected y or n, got %q", value)
	}
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
