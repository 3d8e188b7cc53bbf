package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/valtree"
	"github.com/reoring/valtree/loader"
)

type validateOptions struct {
	schema      string
	input       string
	format      string
	ndjson      bool
	asJSON      bool
	failFast    bool
	concurrency int
}

// result is the outcome for one document. In --json mode it is printed as is.
type result struct {
	Line   int            `json:"line,omitempty"`
	Valid  bool           `json:"valid"`
	Value  any            `json:"value,omitempty"`
	Title  string         `json:"title,omitempty"`
	Issues valtree.Issues `json:"issues,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (a *app) validateCmd() *cobra.Command {
	o := validateOptions{concurrency: a.cfg.Concurrency}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a document, or a batch of NDJSON documents, against a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runValidate(cmd.Context(), cmd.InOrStdin(), o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.schema, "schema", "s", "", "schema file (.json, .yaml, .yml, .hcl)")
	f.StringVarP(&o.input, "input", "i", "-", "input document, - for stdin")
	f.StringVar(&o.format, "format", "", "input format (json, yaml, hcl); defaults to the input extension, json for stdin")
	f.BoolVar(&o.ndjson, "ndjson", false, "treat the input as newline-delimited JSON documents")
	f.BoolVar(&o.asJSON, "json", false, "print results as JSON")
	f.BoolVar(&o.failFast, "fail-fast", false, "stop each document at its first issue")
	f.IntVar(&o.concurrency, "concurrency", o.concurrency, "documents validated in parallel with --ndjson")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (a *app) runValidate(ctx context.Context, stdin io.Reader, o validateOptions) error {
	s, err := a.compile(ctx, o.schema, a.cfg.Title)
	if err != nil {
		return err
	}
	data, err := readInput(stdin, o.input)
	if err != nil {
		return err
	}
	format, err := inputFormat(o)
	if err != nil {
		return err
	}
	ctx = valtree.ContextWithLogger(ctx, a.logger)
	if o.failFast {
		ctx = valtree.WithFailFast(ctx, true)
	}

	var results []result
	if o.ndjson {
		results, err = a.validateBatch(ctx, s, data, o.concurrency)
		if err != nil {
			return err
		}
	} else {
		v, err := loader.DecodeValue(data, format)
		if err != nil {
			return fmt.Errorf("decode input: %w", err)
		}
		results = []result{check(ctx, s, v)}
	}

	failed := 0
	for _, r := range results {
		if !r.Valid {
			failed++
		}
		if err := a.print(r, o.asJSON); err != nil {
			return err
		}
	}
	a.logger.Info("validation finished", "documents", len(results), "failed", failed)
	if failed > 0 {
		return ErrInvalid
	}
	return nil
}

// validateBatch validates each non-empty line of data as a JSON document,
// with at most concurrency documents in flight. Results keep input order.
func (a *app) validateBatch(ctx context.Context, s *valtree.Schema, data []byte, concurrency int) ([]result, error) {
	type doc struct {
		line int
		raw  []byte
	}
	var docs []doc
	for i, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		docs = append(docs, doc{line: i + 1, raw: line})
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, d := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := loader.DecodeValue(d.raw, loader.FormatJSON)
			if err != nil {
				results[i] = result{Line: d.line, Error: err.Error()}
				return nil
			}
			r := check(gctx, s, v)
			r.Line = d.line
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	a.logger.Debug("batch validated", "documents", len(docs), "concurrency", concurrency)
	return results, nil
}

func check(ctx context.Context, s *valtree.Schema, v any) result {
	out, err := s.Validate(ctx, v)
	if err == nil {
		return result{Valid: true, Value: out}
	}
	if ve, ok := valtree.AsValidationError(err); ok {
		return result{Title: ve.Title, Issues: ve.Issues}
	}
	return result{Error: err.Error()}
}

func (a *app) print(r result, asJSON bool) error {
	if asJSON {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = fmt.Fprintf(a.out, "%s\n", b)
		return err
	}
	if !r.Valid {
		prefix := ""
		if r.Line > 0 {
			prefix = fmt.Sprintf("line %d: ", r.Line)
		}
		msg := r.Error
		if len(r.Issues) > 0 {
			msg = (&valtree.ValidationError{Title: r.Title, Issues: r.Issues}).Error()
		}
		_, err := fmt.Fprintf(a.errOut, "%s%s\n", prefix, msg)
		return err
	}
	b, err := json.Marshal(r.Value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	_, err = fmt.Fprintf(a.out, "%s\n", b)
	return err
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}

func inputFormat(o validateOptions) (loader.Format, error) {
	switch o.format {
	case "json":
		return loader.FormatJSON, nil
	case "yaml", "yml":
		return loader.FormatYAML, nil
	case "hcl":
		return loader.FormatHCL, nil
	case "":
		if o.ndjson || o.input == "" || o.input == "-" {
			return loader.FormatJSON, nil
		}
		return loader.FormatOf(o.input)
	default:
		return 0, fmt.Errorf("%w: %q", loader.ErrUnsupportedFormat, o.format)
	}
}
