// Package render prints cross results, Punnett squares and saved records as
// terminal tables.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/JKrag/punnett-simulator/internal/cross"
	"github.com/JKrag/punnett-simulator/internal/genetics"
	"github.com/JKrag/punnett-simulator/internal/model"
	"github.com/JKrag/punnett-simulator/internal/report"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorBright = lipgloss.Color("#2CD7C7")
	colorMuted  = lipgloss.Color("#2C4A54")
	colorSpots  = lipgloss.Color("#F4D03F")
)

type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Muted  lipgloss.Style
	Spots  lipgloss.Style
	Border lipgloss.Style
}

var ColorStyles = Styles{
	Title:  lipgloss.NewStyle().Bold(true).Foreground(colorBright),
	Header: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Muted:  lipgloss.NewStyle().Foreground(colorMuted),
	Spots:  lipgloss.NewStyle().Foreground(colorSpots),
	Border: lipgloss.NewStyle().Foreground(colorAccent),
}

var PlainStyles = Styles{
	Title:  lipgloss.NewStyle(),
	Header: lipgloss.NewStyle(),
	Muted:  lipgloss.NewStyle(),
	Spots:  lipgloss.NewStyle(),
	Border: lipgloss.NewStyle(),
}

type Renderer struct {
	w      io.Writer
	styles Styles
	styled bool
	now    func() time.Time
}

// New returns a renderer writing to w. Styled output uses colors and a
// bordered grid; plain output is suitable for pipes and tests.
func New(w io.Writer, styled bool) *Renderer {
	styles := PlainStyles
	if styled {
		styles = ColorStyles
	}
	return &Renderer{w: w, styles: styles, styled: styled, now: time.Now}
}

func (r *Renderer) Phenotype(g genetics.Genotype) error {
	p := g.Phenotype()
	rows := [][]string{
		{"genotype", g.String()},
		{"base color", p.BaseColor},
		{"pattern", p.Pattern},
		{"dilution", p.Dilution},
		{"hair length", p.HairLength},
		{"white spots", yesNo(p.HasWhiteSpots())},
	}
	if _, err := fmt.Fprintln(r.w, r.styles.Title.Render(p.Description)); err != nil {
		return err
	}
	return r.table([]string{"trait", "value"}, rows, nil)
}

func (r *Renderer) Gametes(g genetics.Genotype, gametes []cross.Gamete) error {
	title := fmt.Sprintf("%s: %d distinct gametes", g, len(gametes))
	if _, err := fmt.Fprintln(r.w, r.styles.Title.Render(title)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.w, strings.Join(gameteStrings(gametes), " "))
	return err
}

func (r *Renderer) Result(res cross.Result) error {
	title := fmt.Sprintf("%s offspring, %d genotypes, %d phenotypes",
		humanize.Comma(int64(res.TotalCount)), len(res.Genotypes), len(res.Phenotypes))
	if _, err := fmt.Fprintln(r.w, r.styles.Title.Render(title)); err != nil {
		return err
	}

	stats := res.SortedPhenotypes()
	rows := make([][]string, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, []string{stat.Phenotype.Description, humanize.Comma(int64(stat.Count)), fmt.Sprintf("%.2f%%", stat.Percentage)})
	}
	spots := func(row, col int) lipgloss.Style {
		if col == 0 && stats[row].Phenotype.HasWhiteSpots() {
			return r.styles.Spots
		}
		return lipgloss.NewStyle()
	}
	if err := r.table([]string{"phenotype", "count", "share"}, rows, spots); err != nil {
		return err
	}

	ratio := res.Ratio()
	parts := make([]string, 0, len(ratio))
	for _, n := range ratio {
		parts = append(parts, fmt.Sprint(n))
	}
	_, err := fmt.Fprintln(r.w, r.styles.Muted.Render("ratio "+strings.Join(parts, ":")))
	return err
}

func (r *Renderer) Genotypes(res cross.Result) error {
	rows := make([][]string, 0, len(res.Genotypes))
	for _, entry := range res.SortedGenotypes() {
		rows = append(rows, []string{entry.Genotype.String(), humanize.Comma(int64(entry.Count)), entry.Genotype.Phenotype().Description})
	}
	return r.table([]string{"genotype", "count", "phenotype"}, rows, nil)
}

// Grid prints the Punnett square with parent1 gametes down the side and
// parent2 gametes across the top.
func (r *Renderer) Grid(g cross.Grid) error {
	header := append([]string{""}, gameteStrings(g.Cols)...)
	rows := make([][]string, len(g.Rows))
	for i, gamete := range g.Rows {
		rows[i] = make([]string, 0, len(g.Cols)+1)
		rows[i] = append(rows[i], gamete.String())
	}
	for _, cell := range g.Cells {
		rows[cell.Row] = append(rows[cell.Row], cell.Offspring.String())
	}

	gametes := func(_, col int) lipgloss.Style {
		if col == 0 {
			return r.styles.Header
		}
		return lipgloss.NewStyle()
	}
	t := r.newTable(header, rows, gametes)
	if r.styled {
		t = t.BorderRow(true)
	}
	_, err := fmt.Fprintln(r.w, t.String())
	return err
}

func (r *Renderer) Pairings(pairings []model.Pairing) error {
	if len(pairings) == 0 {
		_, err := fmt.Fprintln(r.w, r.styles.Muted.Render("no saved pairings"))
		return err
	}
	rows := make([][]string, 0, len(pairings))
	for _, p := range pairings {
		rows = append(rows, []string{p.ID, p.Name, p.Parent1.String(), p.Parent2.String(), r.since(p.CreatedAtUTC)})
	}
	return r.table([]string{"id", "name", "parent1", "parent2", "saved"}, rows, nil)
}

func (r *Renderer) Reports(entries []report.IndexEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(r.w, r.styles.Muted.Render("no reports"))
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ReportID, e.Name, e.Parent1, e.Parent2, humanize.Comma(int64(e.TotalCount)), r.since(e.CreatedAtUTC)})
	}
	return r.table([]string{"id", "name", "parent1", "parent2", "offspring", "written"}, rows, nil)
}

// Report prints a written report's parents and its phenotype counts, most
// frequent first.
func (r *Renderer) Report(parents report.Parents, phenotypes map[string]int) error {
	title := parents.ReportID
	if parents.Name != "" {
		title = fmt.Sprintf("%s (%s)", parents.Name, parents.ReportID)
	}
	if _, err := fmt.Fprintln(r.w, r.styles.Title.Render(title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.w, "%s x %s\n", parents.Parent1, parents.Parent2); err != nil {
		return err
	}

	descs := make([]string, 0, len(phenotypes))
	total := 0
	for desc, n := range phenotypes {
		descs = append(descs, desc)
		total += n
	}
	sort.Slice(descs, func(i, j int) bool {
		if phenotypes[descs[i]] != phenotypes[descs[j]] {
			return phenotypes[descs[i]] > phenotypes[descs[j]]
		}
		return descs[i] < descs[j]
	})

	rows := make([][]string, 0, len(descs))
	for _, desc := range descs {
		share := 0.0
		if total > 0 {
			share = float64(phenotypes[desc]) * 100 / float64(total)
		}
		rows = append(rows, []string{desc, humanize.Comma(int64(phenotypes[desc])), fmt.Sprintf("%.2f%%", share)})
	}
	return r.table([]string{"phenotype", "count", "share"}, rows, nil)
}

func (r *Renderer) since(createdAtUTC string) string {
	ts, err := time.Parse(time.RFC3339Nano, createdAtUTC)
	if err != nil {
		return createdAtUTC
	}
	return humanize.RelTime(ts, r.now(), "ago", "from now")
}

func (r *Renderer) table(header []string, rows [][]string, emphasis cellStyler) error {
	_, err := fmt.Fprintln(r.w, r.newTable(header, rows, emphasis).String())
	return err
}

// cellStyler returns the style a body cell inherits on top of the table's
// base cell style.
type cellStyler func(row, col int) lipgloss.Style

// newTable lays out header and rows with lipgloss/table. Styled tables get a
// rounded border; plain tables are borderless with two-space gutters. Every
// table carries a header row.
func (r *Renderer) newTable(header []string, rows [][]string, emphasis cellStyler) *table.Table {
	t := table.New().Headers(header...).Rows(rows...)
	if r.styled {
		t = t.Border(lipgloss.RoundedBorder()).BorderStyle(r.styles.Border)
	} else {
		t = t.BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false).
			BorderHeader(false)
	}

	last := len(header) - 1
	return t.StyleFunc(func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle()
		switch {
		case r.styled:
			base = base.Padding(0, 1)
		case col < last:
			base = base.PaddingRight(2)
		}
		if row == table.HeaderRow {
			return base.Inherit(r.styles.Header)
		}
		if emphasis != nil {
			return base.Inherit(emphasis(row, col))
		}
		return base
	})
}

func gameteStrings(gametes []cross.Gamete) []string {
	out := make([]string, 0, len(gametes))
	for _, g := range gametes {
		out = append(out, g.String())
	}
	return out
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
