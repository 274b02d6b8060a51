package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/grantview/internal/app"
	"github.com/leapstack-labs/grantview/internal/cli/output"
	"github.com/leapstack-labs/grantview/internal/grants"
)

const shellPrompt = "grants> "

// ShellOptions holds options for the shell command.
type ShellOptions struct {
	HistoryFile string
}

// lineReader is the part of *readline.Instance the shell uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	opts := &ShellOptions{}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive grants shell",
		Long: `Start an interactive shell over one session: the tag selection persists
between commands and the list is only fetched on start, after adding a
grant, or on refresh.`,
		Example: `  grantview shell
  grants> toggle water
  grants> list
  grants> add`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.HistoryFile, "history", defaultHistoryFile(), "History file (empty disables history)")

	return cmd
}

func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "grantview", "shell_history")
}

func runShell(cmd *cobra.Command, opts *ShellOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctrl := cmdCtx.NewController()

	if opts.HistoryFile != "" {
		_ = os.MkdirAll(filepath.Dir(opts.HistoryFile), 0o750)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    newShellCompleter(ctrl),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}

	sh := &shell{ctrl: ctrl, store: cmdCtx.Store, rl: rl, r: cmdCtx.Renderer, service: cmdCtx.Client.BaseURL()}
	return sh.run(cmd.Context())
}

// shell is a line-oriented front end over a Controller.
type shell struct {
	ctrl    *app.Controller
	store   *grants.Store
	rl      lineReader
	r       *output.Renderer
	service string
}

func (s *shell) run(ctx context.Context) error {
	defer func() { _ = s.rl.Close() }()

	s.ctrl.Load(ctx)
	s.r.Println(fmt.Sprintf("grantview shell (service: %s)", s.service))
	s.r.Println("Type help for commands, quit to exit")
	s.r.Println("")
	if v := s.ctrl.View(); v.Notice != "" {
		s.r.Warning(v.Notice)
	}

	for {
		line, err := s.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := s.exec(ctx, line); quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "quit", "exit":
		return true
	case "help", "?":
		printShellHelp(s.r.Writer())
	case "list", "ls":
		s.list()
	case "tags":
		s.tags()
	case "toggle", "t":
		if arg == "" {
			s.r.Error("usage: toggle <tag>")
			return false
		}
		s.ctrl.ToggleTag(arg)
		s.selection()
	case "clear":
		s.ctrl.ClearFilters()
		s.selection()
	case "refresh":
		if err := s.ctrl.Refresh(ctx); err != nil {
			s.r.Warning(app.RefreshFailedNotice)
			return false
		}
		s.r.Success(fmt.Sprintf("Loaded %d grants", s.ctrl.View().Total))
	case "add":
		s.add(ctx)
	default:
		s.r.Error(fmt.Sprintf("unknown command %q (type help for commands)", name))
	}
	return false
}

func (s *shell) list() {
	v := s.ctrl.View()
	if v.Notice != "" {
		s.r.Warning(v.Notice)
	}
	listText(s.r, ListOutput{
		Total:    v.Total,
		Shown:    len(v.Grants),
		Selected: v.Selected,
		Grants:   v.Grants,
	}, v.EmptyText)
}

func (s *shell) tags() {
	v := s.ctrl.View()
	if len(v.Tags) == 0 {
		s.r.Muted("No tags yet.")
		return
	}
	for _, chip := range v.Tags {
		mark := "[ ]"
		if chip.Selected {
			mark = "[x]"
		}
		s.r.Println(mark + " " + chip.Name)
	}
}

func (s *shell) selection() {
	v := s.ctrl.View()
	if !v.Filtered {
		s.r.Muted(fmt.Sprintf("No filters, %d grants", v.Total))
		return
	}
	s.r.Println(fmt.Sprintf("Filter: %s (%d of %d grants)", strings.Join(v.Selected, ", "), len(v.Grants), v.Total))
}

func (s *shell) add(ctx context.Context) {
	defer s.rl.SetPrompt(shellPrompt)

	name, ok := s.prompt("name> ")
	if !ok {
		return
	}
	description, ok := s.prompt("description> ")
	if !ok {
		return
	}

	s.ctrl.SetName(name)
	s.ctrl.SetDescription(description)
	err := s.ctrl.Submit(ctx)
	if errors.Is(err, grants.ErrInvalidGrant) {
		s.r.Error("name and description must not be blank")
		return
	}

	msg := s.ctrl.View().Message
	if msg.Kind == app.MessageError {
		s.r.Error(msg.Text)
		return
	}
	s.r.Success(msg.Text)
	// The new grant may not match the active filter.
	if g, found := findGrant(s.store.Snapshot().Grants, name); found {
		s.r.KeyValue("Tags", s.r.Tags(g.Tags))
	}
}

// prompt reads one line with a temporary prompt. Interrupt or EOF aborts.
func (s *shell) prompt(p string) (string, bool) {
	s.rl.SetPrompt(p)
	line, err := s.rl.Readline()
	if err != nil {
		s.r.Muted("cancelled")
		return "", false
	}
	return line, true
}

func newShellCompleter(ctrl *app.Controller) *readline.PrefixCompleter {
	tagNames := func(string) []string {
		chips := ctrl.View().Tags
		names := make([]string, len(chips))
		for i, c := range chips {
			names[i] = c.Name
		}
		return names
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("tags"),
		readline.PcItem("toggle", readline.PcItemDynamic(tagNames)),
		readline.PcItem("clear"),
		readline.PcItem("refresh"),
		readline.PcItem("add"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  list            Show grants matching the current filter
  tags            Show every tag, [x] marks selected ones
  toggle <tag>    Select or deselect a tag filter
  clear           Clear all tag filters
  refresh         Fetch the grant list again
  add             Add a grant (prompts for name and description)
  help            Show this help message
  quit / exit     Leave the shell

Tips:
  - Grants with any selected tag are shown
  - Tab completion works for commands and tag names
`
	_, _ = fmt.Fprintln(w, help)
}
