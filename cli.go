package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Trashbot7274/lunascope/config"
	"github.com/Trashbot7274/lunascope/logging"
	"github.com/Trashbot7274/lunascope/source"
)

// rootOptions is shared by every subcommand. cfg is loaded before any of
// them runs.
type rootOptions struct {
	debug   string
	cfg     *config.Config
	cleanup func()
}

func (o *rootOptions) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	o.cfg = cfg

	logFile := o.debug
	if logFile == "" {
		logFile = cfg.Debug
	}
	cleanup, err := logging.SetupLogging(logFile)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	o.cleanup = cleanup
	if cfg.File != "" {
		logging.Infof("config: %s", cfg.File)
	}
	return nil
}

func (o *rootOptions) teardown() {
	if o.cleanup != nil {
		o.cleanup()
		o.cleanup = nil
	}
}

// New builds the lunascope command tree. Without a subcommand it opens the
// viewer.
func New() *cobra.Command {
	o := &rootOptions{}
	vo := &viewOptions{}

	cmd := &cobra.Command{
		Use:     "lunascope [dir|slist]",
		Short:   "Browse the channels, annotations and annotation instances of sleep recordings.",
		Version: Version,
		Example: `
lunascope ./study
lunascope --slist study.lst.yaml --record n1
lunascope instances --record n1 --class Arousal --window
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			o.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(o, vo, args)
		},
	}
	cmd.PersistentFlags().StringVar(&o.debug, "debug", "", "Write debug logs to file.")
	addSListArgs(cmd, vo)

	addView(cmd, o)
	addInstances(cmd, o)
	addExpand(cmd, o)
	addSList(cmd, o)
	return cmd
}

// viewOptions picks the S-list and record to open.
type viewOptions struct {
	SList  string
	Record string
}

func addSListArgs(cmd *cobra.Command, vo *viewOptions) {
	cmd.Flags().StringVar(&vo.SList, "slist", "", "S-list file to read (defaults to the configured slist).")
	cmd.Flags().StringVarP(&vo.Record, "record", "r", "", "Record id to open (defaults to the first).")
}

func addView(topLevel *cobra.Command, o *rootOptions) {
	vo := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "view [dir|slist]",
		Short: "Open the viewer.",
		Example: `
lunascope view ./study
lunascope view --slist study.lst.yaml -r n2
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(o, vo, args)
		},
	}
	addSListArgs(cmd, vo)
	topLevel.AddCommand(cmd)
}

// resolveSList reads the S-list named by a directory or file argument, the
// --slist flag or the config, in that order. A directory is scanned.
func resolveSList(o *rootOptions, vo *viewOptions, args []string) (*source.SList, error) {
	path := vo.SList
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" && o.cfg != nil {
		path = o.cfg.SList
	}
	if path == "" {
		return nil, fmt.Errorf("no records: pass a directory or an S-list, or set slist in the config")
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if st.IsDir() {
		return source.BuildSList(path)
	}
	return source.ReadSList(path)
}

func runView(o *rootOptions, vo *viewOptions, args []string) error {
	sl, err := resolveSList(o, vo, args)
	if err != nil {
		return err
	}
	x, err := o.cfg.Expander()
	if err != nil {
		return err
	}
	m, err := newModel(sl, vo.Record, x, o.cfg.FilterColumns)
	if err != nil {
		return err
	}

	logging.Infof("lunascope %s: started with %d records", Version, len(sl.Records))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logging.Errorf("tea program: %v", err)
		return err
	}
	return nil
}
