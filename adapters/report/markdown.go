package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"statdesc/domain/stats"
)

const htmlTitle = "Descriptive statistics"

// Markdown renders the summary as GitHub flavoured markdown.
func Markdown(s *stats.Summary) string {
	var b strings.Builder

	b.WriteString("# Descriptive statistics\n\n")
	b.WriteString(fmt.Sprintf("%d %s, %d %s, %d missing values.\n\n",
		s.Rows, plural(s.Rows, "row"), s.Cols, plural(s.Cols, "column"), s.MissingCount))

	mdTable2(&b, s, "Mean and standard deviation", "Mean", "STD", s.MeanSD())
	mdTable2(&b, s, "95% confidence interval with unknown population STD", "Lower", "Upper", s.CI())
	mdTable2(&b, s, "Range", "Minimum", "Maximum", s.MinMax())

	b.WriteString("## Quartiles\n\n")
	b.WriteString("| Variable | Median | 25th percent. | 75th percent. |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for j, q := range s.Quartiles() {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", cell(s.Label(j)), mdNum(q[0]), mdNum(q[1]), mdNum(q[2])))
	}
	b.WriteString("\n")

	mdTable2(&b, s, "Shapiro-Wilk's test for normality", "W statistic", "p value", s.Normality())

	if s.NonEmpty > 1 {
		b.WriteString("## " + varianceTitle(s.VarianceEquality) + "\n\n")
		if s.VarianceEquality.Ran() {
			eq := s.EqVar()
			b.WriteString("| statistic | p value |\n|---:|---:|\n")
			b.WriteString(fmt.Sprintf("| %s | %s |\n\n", mdNum(eq[0]), mdNum(eq[1])))
		}
	}

	if len(s.Notices) > 0 {
		b.WriteString("## Notices\n\n")
		for _, n := range s.Notices {
			b.WriteString("- " + n + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteMarkdown writes Markdown(s) to w.
func WriteMarkdown(w io.Writer, s *stats.Summary) error {
	_, err := io.WriteString(w, Markdown(s))
	return err
}

// WriteHTML renders the markdown report as a standalone HTML page.
func WriteHTML(w io.Writer, s *stats.Summary) error {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: htmlTitle,
	})
	_, err := w.Write(markdown.ToHTML([]byte(Markdown(s)), p, renderer))
	return err
}

func mdTable2(b *strings.Builder, s *stats.Summary, title, x, y string, rows [][2]float64) {
	b.WriteString("## " + title + "\n\n")
	b.WriteString(fmt.Sprintf("| Variable | %s | %s |\n", x, y))
	b.WriteString("|---|---:|---:|\n")
	for j, r := range rows {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", cell(s.Label(j)), mdNum(r[0]), mdNum(r[1])))
	}
	b.WriteString("\n")
}

func mdNum(v float64) string {
	return formatFloat(v)
}

// cell keeps labels from breaking the table row.
func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
