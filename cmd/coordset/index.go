package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/beetlebugorg/coordset/pkg/coordset"
)

func newIndexCmd() *subCommand {
	sc := &subCommand{Conf: viper.New()}
	sc.Cmd = &cobra.Command{
		Use:   "index",
		Short: "Build an R-tree over a synthetic grid and query it",
		Long: `
Index builds a size x size grid of 2-D positions with unit spacing, loads it
into an R-tree and runs a box query (--query) and/or a nearest-neighbour
query (--nearest).
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, sc.Conf)
		},
	}

	addIndexFlags(sc.Cmd.Flags())
	return sc
}

func addIndexFlags(flags *pflag.FlagSet) {
	flags.Int("size", 1000, "Number of grid positions along each axis.")
	flags.StringSlice("query", nil, "Box query as minx,miny,maxx,maxy.")
	flags.StringSlice("nearest", nil, "Nearest-neighbour query position as x,y.")
	flags.Int("k", 5, "Number of neighbours returned by --nearest.")
	flags.Int("limit", 20, "Maximum number of positions printed per query.")
	flags.Bool("parallel", true, "Collect the positions in parallel while building.")
}

func runIndex(cmd *cobra.Command, conf *viper.Viper) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	size := conf.GetInt("size")
	if size <= 0 {
		return errors.Errorf("invalid grid size %d", size)
	}
	query, err := parseFloats(conf.GetStringSlice("query"), 4)
	if err != nil {
		return errors.Wrap(err, "--query")
	}
	nearest, err := parseFloats(conf.GetStringSlice("nearest"), 2)
	if err != nil {
		return errors.Wrap(err, "--nearest")
	}

	data := make([]float64, 0, 2*size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			data = append(data, float64(x), float64(y))
		}
	}
	set, err := coordset.NewDoubleSet(coordset.NewCoordinateMetadata(nil), 2, coordset.Wrap(data))
	if err != nil {
		return err
	}

	opts := coordset.DefaultIndexOptions()
	opts.Parallel = conf.GetBool("parallel")
	start := time.Now()
	idx, err := coordset.BuildIndex(ctx, set, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "indexed %s positions in %v\n", humanize.Comma(int64(idx.Len())), time.Since(start).Round(time.Microsecond))

	limit := conf.GetInt("limit")
	if query != nil {
		lower, err := coordset.NewPosition(nil, query[0], query[1])
		if err != nil {
			return err
		}
		upper, err := coordset.NewPosition(nil, query[2], query[3])
		if err != nil {
			return err
		}
		env, err := coordset.NewEnvelope(lower, upper)
		if err != nil {
			return errors.Wrap(err, "--query")
		}
		hits, err := idx.Search(env)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s hits\n", env, humanize.Comma(int64(len(hits))))
		printPositions(cmd, hits, limit)
	}
	if nearest != nil {
		p, err := coordset.NewPosition(nil, nearest...)
		if err != nil {
			return err
		}
		hits, err := idx.Nearest(p, conf.GetInt("k"))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "nearest to %s:\n", p)
		printPositions(cmd, hits, limit)
	}
	return nil
}

func printPositions(cmd *cobra.Command, positions []coordset.Position, limit int) {
	out := cmd.OutOrStdout()
	for i, p := range positions {
		if i == limit {
			fmt.Fprintf(out, "  ... %d more\n", len(positions)-limit)
			return
		}
		fmt.Fprintf(out, "  %s\n", p)
	}
}

// parseFloats parses exactly n comma-separated numbers, or returns nil when
// values is empty.
func parseFloats(values []string, n int) ([]float64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) != n {
		return nil, errors.Errorf("want %d comma-separated numbers, got %q", n, strings.Join(values, ","))
	}
	out := make([]float64, n)
	for i, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
