// Command thirdvm runs the threaded-code Forth interpreter: the bundled
// prelude, then an interactive stream read from stdin, feeding a single
// VM driven to completion or to the ten-error budget.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/thirdvm"
	"github.com/jcorbin/thirdvm/internal/logio"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("thirdvm", flag.ContinueOnError)
	var (
		noPrelude = fs.Bool("no-prelude", false, "skip the bundled prelude")
		verbose   = fs.Bool("verbose", false, "trace each executed instruction to stderr")
		dump      = fs.Bool("dump", false, "dump the image and stacks to stderr on exit")
		timeout   = fs.Duration("timeout", 0, "abort after this long (0 disables)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var log logio.Logger
	log.SetOutput(writeNoCloser{os.Stderr})
	defer log.Close()

	var opts []thirdvm.Option
	if !*noPrelude {
		opts = append(opts, thirdvm.WithPrelude(strings.NewReader(thirdvm.Prelude), "prelude.f"))
	}
	opts = append(opts, thirdvm.WithInput(namedReader{os.Stdin, "<stdin>"}))
	opts = append(opts, thirdvm.WithOutput(os.Stdout))
	if *verbose {
		opts = append(opts, thirdvm.WithTrace(func(vm *thirdvm.VM) {
			log.Leveledf("trace")("%v", vm)
		}))
	}

	vm, err := thirdvm.New(opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if *timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, *timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return vm.Run(gctx) })
	err = g.Wait()
	if *dump {
		fmt.Fprint(os.Stderr, vm.Dump())
	}
	return err
}

type namedReader struct {
	io.Reader
	name string
}

func (r namedReader) Name() string { return r.name }

type writeNoCloser struct{ io.Writer }

func (writeNoCloser) Close() error { return nil }
