package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CageChen/treeview/internal/config"
	"github.com/CageChen/treeview/internal/fs"
	"github.com/CageChen/treeview/internal/logging"
	"github.com/CageChen/treeview/internal/markdown"
	"github.com/CageChen/treeview/internal/render"
	"github.com/CageChen/treeview/internal/walker"
	"github.com/CageChen/treeview/internal/watcher"
)

// Version is reported by --version.
var Version = "0.1.0"

// usageError marks failures that happen before the tree is walked: bad
// flags, bad arguments, invalid options.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type flags struct {
	configFile string
	depth      int
	all        bool
	dir        bool
	file       bool
	path       bool
	size       bool
	format     string
	ref        string
	watch      bool
	verbose    bool
}

// NewRootCmd creates the treeview command.
func NewRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "treeview",
		Short: "Print the current directory as a tree",
		Long: `treeview prints the current directory as an indented tree.

Hidden entries (names starting with ".") are skipped together with
everything below them unless --all is given. --dir and --file restrict
which kinds of entries are printed without stopping the walk, so the
files inside a directory are still listed when only files are shown.

Options can also be set in ~/.config/treeview/config.yaml and
./.treeview.yaml. The local file is applied on top of the user file,
and flags win over both.`,
		Example: `  treeview                 # three levels below the current directory
  treeview -d 5 -a         # five levels, hidden entries included
  treeview -F -s           # files only, with sizes
  treeview --ref main      # the tree of the main branch
  treeview --format html   # standalone HTML page`,
		Version:       Version,
		Args:          func(cmd *cobra.Command, args []string) error { return wrapUsage(cobra.NoArgs(cmd, args)) },
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}
	cmd.SetVersionTemplate("treeview {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	fl := cmd.Flags()
	fl.IntVarP(&f.depth, "depth", "d", config.DefaultMaxDepth, "Maximum depth of the tree")
	fl.BoolVarP(&f.all, "all", "a", false, "Show hidden files and directories")
	fl.BoolVarP(&f.dir, "dir", "D", false, "Show directories")
	fl.BoolVarP(&f.file, "file", "F", false, "Show files")
	fl.BoolVarP(&f.path, "path", "p", false, "Show the full path of each entry")
	fl.BoolVarP(&f.size, "size", "s", false, "Show file sizes in KB")
	fl.StringVar(&f.format, "format", config.FormatText, "Output format: text, markdown or html")
	fl.StringVar(&f.ref, "ref", "", "Show the tree of a git revision instead of the working tree")
	fl.BoolVar(&f.watch, "watch", false, "Print the tree again whenever it changes")
	fl.StringVar(&f.configFile, "config", "", "Configuration file path")
	fl.BoolVar(&f.verbose, "verbose", false, "Log skipped entries to stderr")
	fl.BoolP("version", "v", false, "Print version information")
	fl.SortFlags = false

	return cmd
}

func wrapUsage(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err}
}

// resolveOptions loads the config file and overlays the flags the user set.
func resolveOptions(fl *pflag.FlagSet, f *flags) (config.Options, error) {
	opts, err := config.Load(f.configFile)
	if err != nil {
		return config.Options{}, err
	}

	if fl.Changed("depth") {
		opts.MaxDepth = f.depth
	}
	if fl.Changed("all") {
		opts.ShowHidden = f.all
	}
	if fl.Changed("dir") {
		opts.ShowDirOnly = f.dir
	}
	if fl.Changed("file") {
		opts.ShowFileOnly = f.file
	}
	if fl.Changed("path") {
		opts.ShowFullPath = f.path
	}
	if fl.Changed("size") {
		opts.ShowSize = f.size
	}
	if fl.Changed("format") {
		opts.Format = f.format
	}
	if fl.Changed("ref") {
		opts.Ref = f.ref
	}
	if fl.Changed("watch") {
		opts.Watch = f.watch
	}
	if fl.Changed("verbose") {
		opts.Verbose = f.verbose
	}

	if err := opts.Validate(); err != nil {
		return config.Options{}, usageError{err}
	}
	return *opts, nil
}

func run(cmd *cobra.Command, f *flags) error {
	opts, err := resolveOptions(cmd.Flags(), f)
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), opts.Verbose)
	if path := opts.GetConfigFilePath(); path != "" {
		logger.Debug().Str("path", path).Msg("loaded config file")
	}

	var fsys fs.FileSystem
	title := rootTitle()
	local := fs.NewLocalFS(walker.RootPath)
	if opts.Ref != "" {
		gitFS, err := fs.NewGitFS(walker.RootPath, opts.Ref)
		if err != nil {
			return err
		}
		fsys = gitFS
		title = title + "@" + opts.Ref
	} else {
		fsys = local
	}

	walk := walker.New(fsys, opts, walker.WithLogger(logger))
	out := cmd.OutOrStdout()
	redraw := func() error { return draw(out, walk, opts, title) }

	if err := redraw(); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}

	w, err := watcher.New(local, walk, logger)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	w.OnChange(func() error {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		return redraw()
	})
	if err := w.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}

// draw prints one full tree. The text format streams entry by entry; the
// export formats need the finished tree and render into a buffer first.
func draw(out io.Writer, walk *walker.Walker, opts config.Options, title string) error {
	if opts.Format == config.FormatText {
		return render.New(out, opts).Run(walk.Entries())
	}

	var buf bytes.Buffer
	if err := render.New(&buf, opts).Run(walk.Entries()); err != nil {
		return err
	}

	exporter := markdown.NewExporter(markdown.DefaultStyle)
	if opts.Format == config.FormatHTML {
		return exporter.WriteHTML(out, title, buf.String())
	}
	return exporter.WriteMarkdown(out, title, buf.String())
}

func rootTitle() string {
	wd, err := os.Getwd()
	if err != nil {
		return walker.RootPath
	}
	return filepath.Base(wd)
}

// Execute runs the command. Usage errors are printed on stdout and do not
// change the exit status; other failures exit with status 1.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return 0
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	return 1
}
