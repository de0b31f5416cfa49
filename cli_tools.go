package main

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Trashbot7274/lunascope/annot"
	"github.com/Trashbot7274/lunascope/logging"
	"github.com/Trashbot7274/lunascope/record"
	"github.com/Trashbot7274/lunascope/source"
)

var (
	bold = color.New(color.Bold)
	warn = color.New(color.FgYellow)
)

// discardSink drops everything; the CLI only reads the session state.
type discardSink struct{}

func (discardSink) RedrawTraces([]string, map[string]string) {}

func (discardSink) RedrawAnnotations([]string, []annot.Event) {}

func (discardSink) ShowWindow(annot.Window) {}

func headerRow(names ...string) []interface{} {
	row := make([]interface{}, len(names))
	for i, n := range names {
		row[i] = bold.Sprint(n)
	}
	return row
}

// cellSecs prints seconds, or "-" for a field that did not parse.
func cellSecs(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return formatSecs(v)
}

type instancesOptions struct {
	viewOptions
	Classes []string
	Window  bool
}

func addInstances(topLevel *cobra.Command, o *rootOptions) {
	opts := &instancesOptions{}
	cmd := &cobra.Command{
		Use:   "instances [dir|slist]",
		Short: "Print the annotation instances of a record in start order.",
		Example: `
lunascope instances ./study -r n1
lunascope instances --slist study.lst.yaml -r n1 --class Arousal --class Spindle --window
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstances(cmd.OutOrStdout(), cmd.ErrOrStderr(), o, opts, args)
		},
	}
	addSListArgs(cmd, &opts.viewOptions)
	cmd.Flags().StringSliceVarP(&opts.Classes, "class", "c", nil,
		"Annotation class to list; repeatable. Defaults to every class.")
	cmd.Flags().BoolVarP(&opts.Window, "window", "w", false,
		"Add the view window of each instance.")
	topLevel.AddCommand(cmd)
}

func runInstances(out, errOut io.Writer, o *rootOptions, opts *instancesOptions, args []string) error {
	sl, err := resolveSList(o, &opts.viewOptions, args)
	if err != nil {
		return err
	}
	if len(sl.Records) == 0 {
		return fmt.Errorf("the S-list has no records")
	}
	e := sl.Records[0]
	if opts.Record != "" {
		var ok bool
		if e, ok = sl.Find(opts.Record); !ok {
			return fmt.Errorf("record %q is not in the S-list", opts.Record)
		}
	}
	rec, err := source.Load(sl.Resolve(e))
	if err != nil {
		return err
	}
	if rec.Feed == nil {
		return fmt.Errorf("record %q has no instances file", rec.ID)
	}
	x, err := o.cfg.Expander()
	if err != nil {
		return err
	}
	s, err := record.NewSession(rec, discardSink{}, x, 0)
	if err != nil {
		return err
	}

	if len(opts.Classes) == 0 {
		s.Annots.SelectAll()
	} else {
		for _, c := range opts.Classes {
			if _, ok := s.Annots.Store().IndexOfKey(c); !ok {
				warn.Fprintf(errOut, "warning: no annotation class %q in %s\n", c, rec.ID)
			}
		}
		s.Annots.SetChecked(opts.Classes)
	}
	if err := s.FeedErr(); err != nil {
		return err
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	names := append([]string(nil), record.InstanceColumns...)
	if opts.Window {
		names = append(names, "WINDOW")
	}
	tbl.AddRow(headerRow(names...)...)
	for i, ev := range s.Events() {
		row := []interface{}{i + 1, ev.Class, ev.Label, cellSecs(ev.Start), cellSecs(ev.Stop()), cellSecs(ev.Duration)}
		if opts.Window {
			w, err := x.ExpandEvent(ev)
			if err != nil {
				row = append(row, "-")
			} else {
				row = append(row, w.String())
			}
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(0)
	fmt.Fprintln(out, tbl)

	for _, w := range s.Warnings() {
		warn.Fprintf(errOut, "warning: %v\n", w)
	}
	logging.Infof("instances %s: %d events, %d warnings", rec.ID, len(s.Events()), len(s.Warnings()))
	return nil
}

func addExpand(topLevel *cobra.Command, o *rootOptions) {
	var factor, pointWidth, minLeft float64
	cmd := &cobra.Command{
		Use:   "expand <left> <right>",
		Short: "Print the view window for an interval, or a point when left equals right.",
		Example: `
lunascope expand 10 15
lunascope expand 30 30 --point-width 20
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid left %q: %w", args[0], err)
			}
			right, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid right %q: %w", args[1], err)
			}

			x := annot.Expander{Factor: o.cfg.Factor, PointWidth: o.cfg.PointWidth, MinLeft: o.cfg.MinLeft}
			if cmd.Flags().Changed("factor") {
				x.Factor = factor
			}
			if cmd.Flags().Changed("point-width") {
				x.PointWidth = pointWidth
			}
			if cmd.Flags().Changed("min-left") {
				x.MinLeft = minLeft
			}
			w, err := x.Expand(left, right)
			if err != nil {
				return err
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(headerRow("LEFT", "RIGHT", "WIDTH")...)
			tbl.AddRow(formatSecs(w.Left), formatSecs(w.Right), formatSecs(w.Width()))
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
	cmd.Flags().Float64Var(&factor, "factor", 2, "Window width as a multiple of the interval width.")
	cmd.Flags().Float64Var(&pointWidth, "point-width", 10, "Window width in seconds around a point.")
	cmd.Flags().Float64Var(&minLeft, "min-left", 0, "Earliest allowed window start in seconds.")
	topLevel.AddCommand(cmd)
}

func addSList(topLevel *cobra.Command, _ *rootOptions) {
	cmd := &cobra.Command{
		Use:   "slist",
		Short: "Work with S-lists, the manifests of records the viewer opens.",
	}

	var output string
	build := &cobra.Command{
		Use:   "build <dir>",
		Short: "Find records under a directory and print or write the S-list.",
		Example: `
lunascope slist build ./study
lunascope slist build ./study -o study.lst.yaml
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sl, err := source.BuildSList(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if output != "" {
				rel, err := sl.RelativeTo(filepath.Dir(output))
				if err != nil {
					return err
				}
				if err := source.WriteSList(output, rel); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %d records to %s\n", len(rel.Records), output)
				return nil
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.MaxColWidth = 60
			tbl.AddRow(headerRow("ID", "SIGNALS", "ANNOTS", "INSTANCES")...)
			for _, e := range sl.Records {
				tbl.AddRow(e.ID, e.Signals, e.Annots, e.Instances)
			}
			fmt.Fprintln(out, tbl)
			return nil
		},
	}
	build.Flags().StringVarP(&output, "output", "o", "", "Write the S-list to this file instead of printing it.")

	cmd.AddCommand(build)
	topLevel.AddCommand(cmd)
}
