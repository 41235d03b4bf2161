// Command airecover recovers a structured payload from a raw content
// backend response.
//
// Usage:
//
//	airecover [-file response.json] [-kind quiz|worksheet] [-key questions] [-repair] [-html] [-json]
//	airecover -fetch "photosynthesis" [-kind quiz|worksheet]
//
// The raw response is read from -file (stdin by default) or fetched from the
// backend configured by AIRECOVER_BACKEND_URL. A .env file in the working
// directory is loaded first. On failure the user facing message is printed
// and the process exits with status 1; the diagnostic goes to the log.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/sahaayak/airecover/core/extract"
	"github.com/sahaayak/airecover/internal/utils"
	"github.com/sahaayak/airecover/providers/backend"
	"github.com/sahaayak/airecover/providers/observability"
	"github.com/sahaayak/airecover/providers/observability/slogobs"
)

const (
	kindQuiz      = "quiz"
	kindWorksheet = "worksheet"
)

type options struct {
	file       string
	fetch      string
	key        string
	kind       string
	repair     bool
	html       bool
	jsonOutput bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	observer := slogobs.New()
	client := backend.New().WithObserver(observer).WithRetry(backend.RetryPolicy{})
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, observer, client)

	stop()
	os.Exit(code)
}

// run executes one invocation and returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, observer *slogobs.Observer, client *backend.Client) int {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		observer.Error(ctx, "Invalid arguments", observability.Error(err))
		return 2
	}

	raw, err := loadResponse(ctx, opts, stdin, client)
	if err != nil {
		observer.Error(ctx, "Failed to load response", observability.Error(err))
		return 1
	}

	ex := extract.New(extractOptions(opts, observer)...)
	record, err := ex.Extract(ctx, raw)
	if err != nil {
		report := extract.Report(err)
		observer.Debug(ctx, "Extraction diagnostic",
			observability.String(observability.AttrExtractStage, string(report.Stage)),
			observability.String("diagnostic", report.Diagnostic),
		)
		fmt.Fprintln(stdout, report.Message)
		return 1
	}

	if err := printRecord(stdout, opts, record); err != nil {
		observer.Error(ctx, "Failed to write output", observability.Error(err))
		return 1
	}

	snap := observer.Snapshot()
	observer.Debug(ctx, "Run summary",
		observability.Int64(observability.MetricExtractSuccess, snap.Counters[observability.MetricExtractSuccess]),
		observability.Float64(observability.MetricExtractDuration, snap.Histograms[observability.MetricExtractDuration].Sum),
	)
	return 0
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("airecover", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.file, "file", "", "read the raw response from this file instead of stdin")
	fs.StringVar(&opts.fetch, "fetch", "", "fetch a fresh response for this topic from the backend")
	fs.StringVar(&opts.key, "key", "", "required list field (default questions for quizzes, sections for worksheets)")
	fs.StringVar(&opts.kind, "kind", kindQuiz, "payload kind: quiz or worksheet")
	fs.BoolVar(&opts.repair, "repair", false, "enable jsonrepair and JSON5 repair strategies")
	fs.BoolVar(&opts.html, "html", false, "convert HTML responses to markdown before matching fences")
	fs.BoolVar(&opts.jsonOutput, "json", false, "print the whole record as JSON")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.kind != kindQuiz && opts.kind != kindWorksheet {
		return opts, fmt.Errorf("unknown kind %q", opts.kind)
	}
	if opts.file != "" && opts.fetch != "" {
		return opts, errors.New("-file and -fetch are mutually exclusive")
	}
	if opts.key == "" {
		opts.key = extract.DefaultRequiredKey
		if opts.kind == kindWorksheet {
			opts.key = "sections"
		}
	}
	return opts, nil
}

func loadResponse(ctx context.Context, opts options, stdin io.Reader, client *backend.Client) (extract.RawResponse, error) {
	if opts.fetch != "" {
		if opts.kind == kindWorksheet {
			return client.GenerateWorksheet(ctx, backend.WorksheetRequest{Topic: opts.fetch})
		}
		return client.GenerateQuiz(ctx, backend.QuizRequest{Topic: opts.fetch})
	}

	input := stdin
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, fmt.Errorf("failed to open response: %w", err)
		}
		defer utils.CloseWithLog(f)
		input = f
	}

	data, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// A body that is not a JSON object is treated as bare model text.
	var raw extract.RawResponse
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		textKey := "quiz_text"
		if opts.kind == kindWorksheet {
			textKey = "worksheet_content"
		}
		return extract.RawResponse{textKey: string(data)}, nil
	}
	return raw, nil
}

func extractOptions(opts options, observer observability.Provider) []extract.Option {
	extractOpts := []extract.Option{
		extract.WithRequiredKey(opts.key),
		extract.WithHTMLConversion(opts.html),
		extract.WithObserver(observer),
	}
	if opts.kind == kindWorksheet {
		extractOpts = append(extractOpts,
			extract.WithShapes(extract.WorksheetShapes()...),
			extract.WithItemMapper(objectItem),
		)
	}
	if opts.repair {
		extractOpts = append(extractOpts, extract.WithRepairers(extract.JSONRepair(), extract.JSON5()))
	}
	return extractOpts
}

// objectItem keeps object elements as they are; worksheet sections have no
// fixed schema.
func objectItem(element any) (map[string]any, bool) {
	item, ok := element.(map[string]any)
	return item, ok
}

func printRecord(w io.Writer, opts options, record *extract.Record) error {
	if opts.jsonOutput || opts.kind == kindWorksheet {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(record)
	}

	for i, q := range record.Questions() {
		if _, err := fmt.Fprintf(w, "%d. %s [%s]\n", i+1, q.Text, q.Kind); err != nil {
			return err
		}
		for _, option := range q.Options {
			marker := " "
			if strings.EqualFold(strings.TrimSpace(option), strings.TrimSpace(q.CorrectAnswer)) {
				marker = "*"
			}
			fmt.Fprintf(w, "   %s %s\n", marker, option)
		}
		if q.Kind == extract.KindMultipleChoice && len(q.Options) > 0 && !q.AnswerInOptions() {
			fmt.Fprintf(w, "   (answer %q is not among the options)\n", q.CorrectAnswer)
		} else if len(q.Options) == 0 && q.CorrectAnswer != "" {
			fmt.Fprintf(w, "   answer: %s\n", q.CorrectAnswer)
		}
	}
	return nil
}
