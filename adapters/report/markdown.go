package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders the report as a markdown document.
func Markdown(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# EV Analysis Report\n\n")
	fmt.Fprintf(&b, "- **Run**: %s\n", r.RunID)
	if r.Source != "" {
		fmt.Fprintf(&b, "- **Source**: %s\n", r.Source)
	}
	b.WriteString("\n")

	if r.Profile != nil {
		p := r.Profile
		b.WriteString("## Size Distribution\n\n")
		fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Events | %d |\n", p.SampleSize)
		if p.NonFiniteCount > 0 {
			fmt.Fprintf(&b, "| Dropped (non-finite) | %d |\n", p.NonFiniteCount)
		}
		fmt.Fprintf(&b, "| Mean | %.1f nm |\n", p.Mean)
		fmt.Fprintf(&b, "| Median (D50) | %.1f nm |\n", p.D50)
		fmt.Fprintf(&b, "| D10 / D90 | %.1f / %.1f nm |\n", p.D10, p.D90)
		fmt.Fprintf(&b, "| CV | %.1f%% |\n", p.CVPercent)
		b.WriteString("\n")
	}

	if r.Histogram != nil {
		h := r.Histogram
		b.WriteString("## Anomaly Summary\n\n")
		fmt.Fprintf(&b, "%d of %d events flagged anomalous (%.1f%%).\n\n",
			h.TotalAnomalies, h.TotalEvents, h.AnomalyPercentage)
		hot := 0
		for _, bin := range h.Bins {
			if bin.IsAnomalous {
				hot++
			}
		}
		if hot > 0 {
			fmt.Fprintf(&b, "%d histogram bin(s) exceed the anomaly highlight threshold.\n\n", hot)
		}
	}

	if r.Check != nil {
		c := r.Check
		b.WriteString("## Best-Practice Compliance\n\n")
		fmt.Fprintf(&b, "**Score: %d/100** — %d passed, %d warnings, %d errors (%d of %d rules evaluated, %d skipped for missing data).\n\n",
			c.Score, c.Passed, c.Warnings, c.Errors, c.Evaluated, c.TotalRules, c.Skipped)

		if len(c.Violations) > 0 {
			b.WriteString("### Violations\n\n")
			for _, v := range c.Violations {
				fmt.Fprintf(&b, "- `%s` (%s): %s\n", v.Rule.ID, v.Severity, v.Message)
			}
			b.WriteString("\n")
		}
		if len(c.Recommendations) > 0 {
			b.WriteString("### Recommendations\n\n")
			for i, rec := range c.Recommendations {
				fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// HTML renders the markdown report to an HTML fragment for embedding.
func HTML(r Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(Markdown(r)), p, renderer)
}
