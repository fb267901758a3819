package main

import (
	"fmt"
	"io"
	"time"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/beetlebugorg/coordset/pkg/coordset"
)

// scanOptions are the resolved settings of the scan subcommand.
type scanOptions struct {
	Precision string
	Dimension int
	Tuples    int
	Chunks    int
	Parallel  bool
	Workers   int
	MinChunk  int
	Validate  bool
}

func newScanCmd() *subCommand {
	sc := &subCommand{Conf: viper.New()}
	sc.Cmd = &cobra.Command{
		Use:   "scan",
		Short: "Generate a synthetic coordinate set and stream it",
		Long: `
Scan fills packed buffers with tuple t holding 1000 + 10*t + d in dimension d,
splits them into chunks, then streams the set to compute its envelope.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := scanOptions{
				Precision: sc.Conf.GetString("precision"),
				Dimension: sc.Conf.GetInt("dimension"),
				Tuples:    sc.Conf.GetInt("tuples"),
				Chunks:    sc.Conf.GetInt("chunks"),
				Parallel:  sc.Conf.GetBool("parallel"),
				Workers:   sc.Conf.GetInt("workers"),
				MinChunk:  sc.Conf.GetInt("min-chunk"),
				Validate:  sc.Conf.GetBool("validate"),
			}
			return runScan(cmd, opts)
		},
	}

	addScanFlags(sc.Cmd.Flags())
	return sc
}

func addScanFlags(flags *pflag.FlagSet) {
	defaults := coordset.DefaultStreamOptions()
	flags.String("precision", "double", "Storage precision, one of [double, float].")
	flags.Int("dimension", 2, "Number of coordinates per tuple.")
	flags.Int("tuples", 1_000_000, "Number of tuples to generate.")
	flags.Int("chunks", 4, "Number of buffers the tuples are split across.")
	flags.Bool("parallel", true, "Stream the set in parallel.")
	flags.Int("workers", defaults.Workers, "Maximum number of goroutines streaming at once.")
	flags.Int("min-chunk", defaults.MinChunk, "Tuples at or below which a range is not split further.")
	flags.Bool("validate", false, "Validate the set before streaming it.")
}

func runScan(cmd *cobra.Command, opts scanOptions) error {
	ctx := cmd.Context()
	if opts.Dimension <= 0 || opts.Tuples < 0 || opts.Chunks <= 0 {
		return errors.Errorf("invalid scan shape: dimension=%d tuples=%d chunks=%d",
			opts.Dimension, opts.Tuples, opts.Chunks)
	}

	md := coordset.NewCoordinateMetadata(nil)
	var (
		set   coordset.CoordinateSet
		bytes uint64
		err   error
	)
	switch opts.Precision {
	case "double":
		buffers := synthesize[float64](opts.Tuples, opts.Dimension, opts.Chunks)
		set, err = coordset.NewDoubleSet(md, opts.Dimension, buffers...)
		bytes = storageSize(buffers)
	case "float":
		buffers := synthesize[float32](opts.Tuples, opts.Dimension, opts.Chunks)
		set, err = coordset.NewFloatSet(md, opts.Dimension, buffers...)
		bytes = storageSize(buffers)
	default:
		return errors.Errorf("unknown precision %q, want double or float", opts.Precision)
	}
	if err != nil {
		return errors.Wrap(err, "build set")
	}

	if opts.Validate {
		if err := coordset.Validate(ctx, set); err != nil {
			return errors.Wrap(err, "validate")
		}
	}

	start := time.Now()
	stream, err := coordset.StreamOf(set)
	if err != nil {
		return err
	}
	source := stream.Source()
	if opts.Parallel {
		stream.Parallel(coordset.StreamOptions{Workers: opts.Workers, MinChunk: opts.MinChunk})
	}
	env, err := coordset.ComputeEnvelope(ctx, stream)
	if err != nil {
		return errors.Wrap(err, "compute envelope")
	}
	elapsed := time.Since(start)

	stream, err = coordset.StreamOf(set)
	if err != nil {
		return err
	}
	count, err := stream.Count(ctx)
	if err != nil {
		return err
	}
	glog.V(1).Infof("scan: %d tuples in %v", count, elapsed)

	printScan(cmd.OutOrStdout(), scanReport{
		Source:   source,
		Chunks:   opts.Chunks,
		Parallel: opts.Parallel,
		Count:    count,
		Bytes:    bytes,
		Envelope: env,
		Elapsed:  elapsed,
	})
	return nil
}

type scanReport struct {
	Source   coordset.SourceKind
	Chunks   int
	Parallel bool
	Count    int
	Bytes    uint64
	Envelope *coordset.Envelope
	Elapsed  time.Duration
}

func printScan(w io.Writer, r scanReport) {
	mode := "sequential"
	if r.Parallel {
		mode = "parallel"
	}
	envelope := "empty"
	if r.Envelope != nil {
		envelope = r.Envelope.String()
	}
	fmt.Fprintf(w, "source:   %s (%d buffers, %s)\n", r.Source, r.Chunks, mode)
	fmt.Fprintf(w, "tuples:   %s\n", humanize.Comma(int64(r.Count)))
	fmt.Fprintf(w, "storage:  %s\n", humanize.Bytes(r.Bytes))
	fmt.Fprintf(w, "envelope: %s\n", envelope)
	fmt.Fprintf(w, "elapsed:  %v\n", r.Elapsed.Round(time.Microsecond))
}

// synthesize fills one backing slice with tuples 1000 + 10*t + d and windows
// it into chunks buffers of nearly equal size.
func synthesize[T coordset.Scalar](tuples, dimension, chunks int) []*coordset.Buffer[T] {
	data := make([]T, tuples*dimension)
	for t := 0; t < tuples; t++ {
		for d := 0; d < dimension; d++ {
			data[t*dimension+d] = T(1000 + 10*t + d)
		}
	}

	buffers := make([]*coordset.Buffer[T], 0, chunks)
	for i := 0; i < chunks; i++ {
		lo := i * tuples / chunks
		hi := (i + 1) * tuples / chunks
		b, err := coordset.WrapRange(data, lo*dimension, (hi-lo)*dimension)
		if err != nil {
			// Bounds are derived from len(data).
			panic(err)
		}
		buffers = append(buffers, b)
	}
	return buffers
}

func storageSize[T coordset.Scalar](buffers []*coordset.Buffer[T]) uint64 {
	var zero T
	var n uint64
	for _, b := range buffers {
		n += uint64(b.Remaining()) * uint64(unsafe.Sizeof(zero))
	}
	return n
}
