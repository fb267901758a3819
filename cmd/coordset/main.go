// Command coordset exercises coordinate sets from the command line: it
// generates synthetic packed buffers, streams them sequentially or in
// parallel, and queries them through the spatial index.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := newRootCmd()
	// Expose glog's flags (-v, --logtostderr, ...) on the root command.
	root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	_ = goflag.CommandLine.Parse(nil)

	err := root.ExecuteContext(ctx)
	stop()
	glog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
