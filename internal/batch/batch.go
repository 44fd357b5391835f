package batch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-redact-mcp/internal/detection"
	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/redact"
	"github.com/ironsheep/image-redact-mcp/internal/region"
)

// DefaultJobs is the number of files processed at once when no limit is set.
const DefaultJobs = 4

// OutputSuffix is appended to the input base name for the redacted file.
const OutputSuffix = "-redacted.png"

// Result is the outcome for one input file.
type Result struct {
	Input   string        `json:"input"`
	Output  string        `json:"output,omitempty"`
	Regions int           `json:"regions"`
	Elapsed time.Duration `json:"elapsed"`
	Err     error         `json:"-"`

	// Stripped names the identifying EXIF tags of the input that the PNG
	// output no longer carries.
	Stripped []string `json:"stripped_metadata,omitempty"`
}

// OK reports whether the file was redacted and written.
func (r Result) OK() bool {
	return r.Err == nil
}

// Processor redacts red-annotated regions in many files concurrently.
type Processor struct {
	params    redact.Parameters
	detection detection.Options
	outDir    string
	jobs      int
	logger    *log.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithOutputDir writes results into dir instead of next to each input.
func WithOutputDir(dir string) Option {
	return func(p *Processor) {
		p.outDir = dir
	}
}

// WithJobs sets how many files are processed at once.
func WithJobs(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.jobs = n
		}
	}
}

// WithLogger sets the logger for per-file progress lines.
func WithLogger(l *log.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// NewProcessor creates a processor that renders with params after
// detecting regions with opts.
func NewProcessor(params redact.Parameters, opts detection.Options, options ...Option) *Processor {
	p := &Processor{
		params:    params,
		detection: opts,
		jobs:      DefaultJobs,
	}
	for _, o := range options {
		o(p)
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	return p
}

// Run processes every input and returns one Result per input, in input
// order. A failing file is recorded in its Result and does not stop the
// others. The returned error is non-nil only when ctx ends the batch early.
func (p *Processor) Run(ctx context.Context, inputs []string) ([]Result, error) {
	if p.outDir != "" {
		if err := os.MkdirAll(p.outDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	outputs := p.OutputPaths(inputs)
	results := make([]Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.jobs)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Input: input, Err: err}
				return err
			}
			results[i] = p.processFile(ctx, input, outputs[i])
			if res := results[i]; res.OK() {
				p.logger.Printf("redacted %s: %d regions -> %s", input, res.Regions, res.Output)
			} else {
				p.logger.Printf("failed %s: %v", input, res.Err)
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

func (p *Processor) processFile(ctx context.Context, input, output string) Result {
	start := time.Now()
	res := Result{Input: input}

	src, err := imaging.LoadFile(input)
	if err != nil {
		res.Err = err
		return res
	}

	for _, tag := range imaging.IdentifyingMetadata(src.Encoded) {
		res.Stripped = append(res.Stripped, tag.Name)
	}

	rects := detection.DetectRedBoxes(src.Buffer, p.detection)
	store := region.NewStore(src.Buffer.Width, src.Buffer.Height)
	for _, r := range rects {
		store.Add(region.Annotation(r, region.SourceDetected))
	}
	res.Regions = store.Len()

	out, err := redact.RenderContext(ctx, src.Buffer, store.Regions(), p.params)
	if err != nil {
		res.Err = err
		return res
	}

	res.Output = output
	if err := imaging.WritePNG(res.Output, out); err != nil {
		res.Err = err
		res.Output = ""
		return res
	}
	res.Elapsed = time.Since(start)
	return res
}

// OutputPath returns where the redacted copy of input is written.
func (p *Processor) OutputPath(input string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + OutputSuffix
	if p.outDir != "" {
		return filepath.Join(p.outDir, name)
	}
	return filepath.Join(filepath.Dir(input), name)
}

// OutputPaths returns the output path for each input. When two inputs would
// write the same file, as with a/x.png and b/x.png sharing an output
// directory, later ones get a numeric suffix: x-redacted-2.png.
func (p *Processor) OutputPaths(inputs []string) []string {
	out := make([]string, len(inputs))
	taken := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		path := p.OutputPath(input)
		stem := strings.TrimSuffix(path, filepath.Ext(path))
		for n := 2; taken[filepath.Clean(path)]; n++ {
			path = fmt.Sprintf("%s-%d%s", stem, n, filepath.Ext(OutputSuffix))
		}
		taken[filepath.Clean(path)] = true
		out[i] = path
	}
	return out
}

// Summary counts successes and failures.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Regions   int
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.OK() {
			s.Succeeded++
			s.Regions += r.Regions
		} else {
			s.Failed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d files, %d redacted, %d failed, %d regions", s.Total, s.Succeeded, s.Failed, s.Regions)
}
