// Command xcompose-bench compiles a Compose file and optionally feeds a
// scripted sequence of keysym names through a matcher, printing the
// status after each one. With --bench it repeatedly recompiles the file
// instead, timing the loop the way test/compose.c's benchmark() does.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	xc "github.com/gocompose/xcompose"
	"github.com/gocompose/xcompose/keysym"
)

const benchmarkIterations = 500

type options struct {
	File   string `short:"f" long:"file" description:"Compose file to compile" value-name:"path" required:"true"`
	Locale string `short:"l" long:"locale" description:"Locale attributed to the compiled table" default:"C"`
	Bench  bool   `long:"bench" description:"Recompile the file 500 times and report elapsed time, instead of matching"`
	Feed   string `long:"feed" description:"Comma-separated keysym names to feed through a fresh matcher" value-name:"names"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options]"
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	if opts.Bench {
		runBenchmark(opts.File, opts.Locale)
		return
	}

	f, err := os.Open(opts.File)
	if err != nil {
		log.Fatalf("xcompose-bench: %v", err)
	}
	defer f.Close()

	tb, err := xc.NewFromFile(nil, f, opts.Locale, xc.FormatTextV1, 0)
	if err != nil {
		log.Fatalf("xcompose-bench: %v", err)
	}
	defer xc.Unref(tb)

	s, err := xc.StateNew(tb, 0)
	if err != nil {
		log.Fatalf("xcompose-bench: %v", err)
	}
	defer xc.StateUnref(s)

	if opts.Feed == "" {
		fmt.Println("compiled Compose table; pass --feed name,name,... to drive the matcher")
		return
	}

	for _, name := range strings.Split(opts.Feed, ",") {
		name = strings.TrimSpace(name)
		ks, ok := keysym.Lookup(name)
		if !ok {
			log.Fatalf("xcompose-bench: unknown keysym %q", name)
		}
		status := s.Feed(ks)
		fmt.Printf("%-12s -> %s", name, status)
		if status == xc.Composed {
			fmt.Printf("  utf8=%q keysym=%s", s.UTF8(), keysym.Name(s.Keysym()))
		}
		fmt.Println()
	}
}

func runBenchmark(path, locale string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("xcompose-bench: %v", err)
	}
	defer f.Close()

	start := time.Now()
	for i := 0; i < benchmarkIterations; i++ {
		if _, err := f.Seek(0, 0); err != nil {
			log.Fatalf("xcompose-bench: rewind: %v", err)
		}
		tb, err := xc.NewFromFile(nil, f, locale, xc.FormatTextV1, 0)
		if err != nil {
			log.Fatalf("xcompose-bench: %v", err)
		}
		xc.Unref(tb)
	}
	elapsed := time.Since(start)

	fmt.Fprintf(os.Stderr, "compiled %d compose tables in %s\n", benchmarkIterations, elapsed)
}
