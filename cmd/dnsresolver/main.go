package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/quietline/dnsresolver/internal/dns/common/log"
	"github.com/quietline/dnsresolver/internal/dns/config"
	"github.com/quietline/dnsresolver/internal/dns/forwarder"
	"github.com/quietline/dnsresolver/internal/dns/wire"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run implements the three CLI operations over injected streams so
// tests can exercise it without touching the real process streams.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dnsresolver", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		decode     bool
		resolve    bool
		serve      bool
		inFile     string
		outFile    string
	)
	fs.BoolVar(&decode, "decode", false, "decode a DNS datagram and print it")
	fs.BoolVar(&decode, "d", false, "alias for --decode")
	fs.BoolVar(&resolve, "resolve", false, "forward a query packet upstream and print the reply")
	fs.BoolVar(&resolve, "r", false, "alias for --resolve")
	fs.BoolVar(&serve, "serve", false, "run the UDP forwarding resolver")
	fs.BoolVar(&serve, "s", false, "alias for --serve")
	fs.StringVar(&inFile, "file", "", "input file (default: stdin)")
	fs.StringVar(&inFile, "f", "", "alias for --file")
	fs.StringVar(&outFile, "output-file", "", "output file (default: stdout)")
	fs.StringVar(&outFile, "o", "", "alias for --output-file")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	switch {
	case decode:
		return runDecode(inFile, outFile, stdin, stdout, stderr)
	case resolve:
		return runResolve(inFile, outFile, stdin, stdout, stderr)
	case serve:
		return runServe(stderr)
	default:
		return 0
	}
}

func runDecode(inFile, outFile string, stdin io.Reader, stdout, stderr io.Writer) int {
	data, err := readInput(inFile, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "decode: %v\n", err)
		return 1
	}
	msg, err := wire.Decode(data)
	if err != nil {
		fmt.Fprintf(stderr, "decode: %v\n", err)
		return 1
	}

	out, closeOut, err := openOutput(outFile, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "decode: %v\n", err)
		return 1
	}
	defer closeOut()

	dumpMessage(out, msg)
	return 0
}

func runResolve(inFile, outFile string, stdin io.Reader, stdout, stderr io.Writer) int {
	data, err := readInput(inFile, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "resolve: %v\n", err)
		return 1
	}
	query, err := wire.Decode(data)
	if err != nil {
		fmt.Fprintf(stderr, "resolve: %v\n", err)
		return 1
	}
	if len(query.Questions) == 0 {
		fmt.Fprintf(stderr, "resolve: query has no question\n")
		return 1
	}

	fwd := forwarder.New(config.Defaults.Server.Upstream, config.Defaults.Server.Timeout, log.NewNoopLogger())
	q := query.Questions[0]
	resp, err := fwd.Query(context.Background(), q.Name, q.Type)
	if err != nil {
		fmt.Fprintf(stderr, "resolve: %v\n", err)
		return 1
	}

	respBytes, err := wire.Encode(resp)
	if err != nil {
		fmt.Fprintf(stderr, "resolve: %v\n", err)
		return 1
	}

	out, closeOut, err := openOutput(outFile, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "resolve: %v\n", err)
		return 1
	}
	defer closeOut()

	if _, err := out.Write(respBytes); err != nil {
		fmt.Fprintf(stderr, "resolve: %v\n", err)
		return 1
	}
	return 0
}

func runServe(stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "serve: configuration error: %v\n", err)
		return 1
	}
	if err := log.Configure(cfg.Env, cfg.Log.Level); err != nil {
		fmt.Fprintf(stderr, "serve: logging configuration error: %v\n", err)
		return 1
	}

	logger := log.GetLogger()
	logger.Info(map[string]any{
		"env":      cfg.Env,
		"port":     cfg.Server.Port,
		"upstream": cfg.Server.Upstream,
		"timeout":  cfg.Server.Timeout.String(),
	}, "starting dnsresolver")

	fwd := forwarder.New(cfg.Server.Upstream, cfg.Server.Timeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info(map[string]any{"signal": sig.String()}, "shutdown signal received")
		cancel()
	}()

	if err := fwd.ListenAndServe(ctx, cfg.Server.Port); err != nil {
		fmt.Fprintf(stderr, "serve: %v\n", err)
		return 1
	}
	logger.Info(nil, "dnsresolver stopped gracefully")
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// dumpMessage writes a debug-style rendering of msg: the header fields
// on one line, then every question and record on its own line.
func dumpMessage(w io.Writer, msg wire.Message) {
	h := msg.Header
	fmt.Fprintf(w, "id=%d response=%t rd=%t ra=%t opcode=%d rcode=%s qd=%d an=%d ns=%d ar=%d\n",
		h.ID, h.Response, h.RecursionDesired, h.RecursionAvailable, h.Opcode, h.RCode,
		h.QDCount, h.ANCount, h.NSCount, h.ARCount)

	for _, q := range msg.Questions {
		fmt.Fprintf(w, "question %s %s\n", q.Name, q.Type)
	}
	for _, section := range []struct {
		name string
		rrs  []wire.Record
	}{
		{"answer", msg.Answers},
		{"authority", msg.Authorities},
		{"additional", msg.Additionals},
	} {
		for _, rr := range section.rrs {
			dumpRecord(w, section.name, rr)
		}
	}
}

func dumpRecord(w io.Writer, section string, rr wire.Record) {
	if rr.Kind == wire.KindA {
		fmt.Fprintf(w, "%s %s A %s ttl=%d\n", section, rr.Domain, rr.Address, rr.TTL)
		return
	}
	fmt.Fprintf(w, "%s %s UNKNOWN(%d) ttl=%d rdlength=%d\n", section, rr.Domain, rr.QType, rr.TTL, rr.RDLength)
}
