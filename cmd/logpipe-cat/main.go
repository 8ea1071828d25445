// Logpipe - Buffered Multi-Transport Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/logpipe

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/logpipe/internal/config"
	"github.com/tomtom215/logpipe/internal/logging"
	"github.com/tomtom215/logpipe/internal/logpipe"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

type options struct {
	level   logpipe.Level
	domains []string
	json    bool
}

// entryLogger is the part of *logpipe.Logger that run needs.
type entryLogger interface {
	Log(ctx context.Context, e logpipe.Entry)
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	pipe, err := logpipe.NewFromConfig(cfg.Log, os.Stdout, os.Stderr)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build log pipeline")
	}

	stop := pipe.HandleSignals(os.Exit)
	runErr := run(context.Background(), pipe, os.Stdin, opts)
	stop()

	if err := pipe.Flush(context.Background(), logpipe.FlushOptions{}); err != nil {
		logging.Warn().Err(err).Msg("Log flush incomplete")
	}
	if runErr != nil {
		logging.Error().Err(runErr).Msg("Failed to read input")
		os.Exit(1)
	}
}

func parseFlags(args []string, out io.Writer) (options, error) {
	fs := flag.NewFlagSet("logpipe-cat", flag.ContinueOnError)
	fs.SetOutput(out)
	level := fs.String("level", "info", "level for plain lines")
	domain := fs.String("domain", "", "comma-separated domains attached to every entry")
	asJSON := fs.Bool("json", false, "decode each line as a JSON object")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		fmt.Fprintln(out, err)
		return options{}, err
	}

	lvl, err := logpipe.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(out, err)
		return options{}, err
	}

	opts := options{level: lvl, json: *asJSON}
	for _, d := range strings.Split(*domain, ",") {
		if d = strings.TrimSpace(d); d != "" {
			opts.domains = append(opts.domains, d)
		}
	}
	return opts, nil
}

// run logs every non-blank line of in until EOF or ctx is canceled.
func run(ctx context.Context, sink entryLogger, in io.Reader, opts options) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		sink.Log(ctx, lineEntry(line, opts))
	}
	return scanner.Err()
}

func lineEntry(line string, opts options) logpipe.Entry {
	e := logpipe.Entry{Level: opts.level, Msg: line}
	if len(opts.domains) > 0 {
		e.Domain = append([]string(nil), opts.domains...)
	}
	if !opts.json {
		return e
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil || fields == nil {
		return e
	}
	if raw, ok := fields[logpipe.KeyLevel].(string); ok {
		if lvl, err := logpipe.ParseLevel(raw); err == nil {
			e.Level = lvl
		}
	}
	if msg, ok := fields[logpipe.KeyMsg].(string); ok {
		e.Msg = msg
	}
	if ts, ok := fields[logpipe.KeyTimestamp].(float64); ok && ts > 0 {
		e.Timestamp = int64(ts)
	}
	delete(fields, logpipe.KeyLevel)
	delete(fields, logpipe.KeyMsg)
	delete(fields, logpipe.KeyTimestamp)
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}
