package batch

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
)

// WriteMarkdown writes a Markdown report of a batch run to w.
func WriteMarkdown(w io.Writer, results []Result, generated time.Time) error {
	md := markdown.NewMarkdown(w)
	summary := Summarize(results)

	md.H1("Redaction Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", generated.Format("2006-01-02 15:04:05 MST")},
			{"Files", strconv.Itoa(summary.Total)},
			{"Redacted", strconv.Itoa(summary.Succeeded)},
			{"Failed", strconv.Itoa(summary.Failed)},
			{"Regions", strconv.Itoa(summary.Regions)},
		},
	})
	md.PlainText("")

	if summary.Failed > 0 {
		md.Warningf("%d of %d files could not be redacted.", summary.Failed, summary.Total)
		md.PlainText("")
	}

	md.H2("Files")
	md.PlainText("")
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, reportRow(r))
	}
	md.Table(markdown.TableSet{
		Header: []string{"Input", "Output", "Regions", "Stripped metadata", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	return md.Build()
}

func reportRow(r Result) []string {
	status := "ok"
	if !r.OK() {
		status = "failed: " + escapeCell(r.Err.Error())
	}
	output := "-"
	if r.Output != "" {
		output = "`" + r.Output + "`"
	}
	stripped := "-"
	if len(r.Stripped) > 0 {
		stripped = strings.Join(r.Stripped, ", ")
	}
	return []string{
		"`" + r.Input + "`",
		output,
		fmt.Sprint(r.Regions),
		stripped,
		status,
	}
}

// escapeCell keeps error text from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
