// Package cmd implements the docimp command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/etnz/docimport"
	"github.com/etnz/docimport/comdirect"
	"github.com/etnz/docimport/consorsbank"
	"github.com/etnz/docimport/degiro"
	"github.com/etnz/docimport/generic"
	"github.com/etnz/docimport/renderer"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&parseCmd{}, "import")
	c.Register(&classifyCmd{}, "import")
	c.Register(&reportCmd{}, "import")

	c.Register(&validateCmd{}, "activities")

	c.Register(&brokersCmd{}, "")
}

// Environment variables holding the defaults of global flags. They are
// also passed to extensions.
const (
	EnvZone      = "DOCIMP_ZONE"
	EnvLogLevel  = "DOCIMP_LOG_LEVEL"
	EnvLogPretty = "DOCIMP_LOG_PRETTY"
	EnvWorkers   = "DOCIMP_WORKERS"
	EnvTimeout   = "DOCIMP_TIMEOUT"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	zoneName  = flag.String("zone", env(EnvZone, docimport.DefaultZone), "IANA zone documents are written in")
	logLevel  = flag.String("log-level", env(EnvLogLevel, "warn"), "Log level (debug, info, warn, error)")
	logPretty = flag.Bool("log-pretty", envBool(EnvLogPretty, true), "Human readable logs instead of JSON")
	workers   = flag.Int("workers", envInt(EnvWorkers, 4), "Maximum number of documents processed at once")
	timeout   = flag.Duration("timeout", envDuration(EnvTimeout, 30*time.Second), "Maximum time spent on one document, 0 for none")
)

var dotenv sync.Once

// env returns the value of key, read from the environment or from a .env
// file in the working directory.
func env(key, def string) string {
	dotenv.Do(func() {
		// a missing .env is the common case
		_ = godotenv.Load()
	})
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(env(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(env(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(env(key, def.String()))
	if err != nil {
		return def
	}
	return v
}

// NewRegistry returns the registry of every supported broker, reading
// documents written in zone.
func NewRegistry(zone string) (*docimport.Registry, error) {
	synth, err := docimport.NewSynthesizer(docimport.SystemClock, zone)
	if err != nil {
		return nil, err
	}
	return docimport.NewRegistry(
		&comdirect.Extractor{Synth: synth},
		&consorsbank.Extractor{Synth: synth},
		&degiro.Extractor{Synth: synth},
		&generic.Extractor{Synth: synth, Locale: docimport.English},
	), nil
}

// NewPipeline returns the pipeline configured by the global flags.
func NewPipeline(companyOnly bool) (*docimport.Pipeline, error) {
	reg, err := NewRegistry(*zoneName)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(*zoneName)
	if err != nil {
		return nil, fmt.Errorf("cannot load zone %q: %w", *zoneName, err)
	}
	return &docimport.Pipeline{
		Registry: reg,
		Validator: docimport.Validator{
			AllowCompanyOnly: companyOnly,
			Clock:            docimport.SystemClock,
			Location:         loc,
		},
		Timeout: *timeout,
	}, nil
}

// importFiles loads and processes files concurrently. Entries are in the
// order of files.
//
// A file that cannot be loaded counts as a document with nothing to parse,
// unless its extension is unknown, which counts as an unsupported kind.
func importFiles(ctx context.Context, p *docimport.Pipeline, files []string, opts docimport.LoadOptions) []renderer.Entry {
	docs := make([]*docimport.Document, len(files))
	unsupported := make([]bool, len(files))
	for i, file := range files {
		doc, err := docimport.LoadDocument(file, opts)
		if err != nil {
			log.Error().Err(err).Str("doc", file).Msg("cannot load document")
			unsupported[i] = errors.Is(err, docimport.ErrUnsupportedFile)
			continue
		}
		docs[i] = doc
	}

	results := p.RunAll(ctx, docs, *workers)
	entries := make([]renderer.Entry, len(files))
	for i, file := range files {
		res := results[i]
		if unsupported[i] {
			res = docimport.Result{Status: docimport.StatusUnsupportedKind}
		}
		entries[i] = renderer.Entry{Document: file, Result: res}
	}
	return entries
}

// loadFlags are the flags of commands reading documents.
type loadFlags struct {
	rowsPath string
	comma    string
}

func (l *loadFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&l.rowsPath, "rows-path", "", "JSONPath selecting the rows of JSON exports, e.g. $.transactions[*]")
	f.StringVar(&l.comma, "comma", "", "CSV separator, sniffed from the header by default")
}

func (l *loadFlags) options() (docimport.LoadOptions, error) {
	opts := docimport.LoadOptions{RowsPath: l.rowsPath}
	switch r := []rune(l.comma); len(r) {
	case 0:
	case 1:
		opts.Comma = r[0]
	default:
		return opts, fmt.Errorf("invalid CSV separator %q: must be a single character", l.comma)
	}
	return opts, nil
}
