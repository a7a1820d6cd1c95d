package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/henderiw/rangetree/pkg/rangeset"
	"github.com/spf13/cobra"
)

const (
	formatText   = "text"
	formatFlat   = "flat"
	formatPoints = "points"
)

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	domain     string
	format     string
	verbose    bool

	log      *slog.Logger
	resolver *resolver
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "rangeset",
		Short:         "Set algebra over integer ranges",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML file with the domain and named sets")
	flags.StringVarP(&a.domain, "domain", "d", "", "domain of the sets, e.g. 0-65535 (default: all code points)")
	flags.StringVarP(&a.format, "format", "f", formatText, "output format: text, flat or points")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(
		a.foldCmd("union", "Union of the given sets", (*rangeset.Set).Union),
		a.foldCmd("intersect", "Intersection of the given sets", (*rangeset.Set).Intersect),
		a.foldCmd("difference", "First set without the points of the others", (*rangeset.Set).Except),
		a.invertCmd(),
		a.containsCmd(),
		a.serializeCmd(),
		a.deserializeCmd(),
		a.subsetCmd(),
	)
	return rootCmd
}

func (a *app) setup(stderr io.Writer) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	switch a.format {
	case formatText, formatFlat, formatPoints:
	default:
		return fmt.Errorf("unknown format %q", a.format)
	}

	cfg := &Config{}
	if a.configPath != "" {
		var err error
		if cfg, err = loadConfig(a.configPath); err != nil {
			return err
		}
		a.log.Debug("config loaded", "path", a.configPath, "sets", len(cfg.Sets))
	}
	r, err := newResolver(cfg, a.domain)
	if err != nil {
		return err
	}
	a.resolver = r
	a.log.Debug("domain", "range", r.domain.String())
	return nil
}

func (a *app) print(w io.Writer, s *rangeset.Set) error {
	a.log.Debug("result", "ranges", s.RangeCount(), "points", s.Count())
	switch a.format {
	case formatFlat:
		_, err := fmt.Fprintln(w, joinInts(s.StartLengths()))
		return err
	case formatPoints:
		var pts []int
		for p := range s.Points() {
			pts = append(pts, p)
		}
		_, err := fmt.Fprintln(w, joinInts(pts))
		return err
	}
	_, err := fmt.Fprintln(w, s.String())
	return err
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
