// Package report writes cross results to disk as JSON and CSV files and
// keeps an index of written reports.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/JKrag/punnett-simulator/internal/cross"
	"github.com/JKrag/punnett-simulator/internal/genetics"
)

const indexFile = "report_index.json"

var reportFiles = []string{"parents.json", "summary.json", "genotypes.csv", "phenotypes.csv"}

// ErrInvalidReportID is returned for ids that do not name a single directory
// entry under the reports directory.
var ErrInvalidReportID = errors.New("invalid report id")

type Parents struct {
	ReportID  string            `json:"report_id"`
	PairingID string            `json:"pairing_id,omitempty"`
	Name      string            `json:"name,omitempty"`
	Parent1   genetics.Genotype `json:"parent1"`
	Parent2   genetics.Genotype `json:"parent2"`
}

type Summary struct {
	ReportID       string   `json:"report_id"`
	Parent1Gametes []string `json:"parent1_gametes"`
	Parent2Gametes []string `json:"parent2_gametes"`
	TotalCount     int      `json:"total_count"`
	GenotypeCount  int      `json:"genotype_count"`
	PhenotypeCount int      `json:"phenotype_count"`
	Ratio          []int    `json:"ratio"`
}

type Report struct {
	Parents Parents
	Result  cross.Result
}

type IndexEntry struct {
	ReportID       string `json:"report_id"`
	PairingID      string `json:"pairing_id,omitempty"`
	Name           string `json:"name,omitempty"`
	Parent1        string `json:"parent1"`
	Parent2        string `json:"parent2"`
	TotalCount     int    `json:"total_count"`
	PhenotypeCount int    `json:"phenotype_count"`
	CreatedAtUTC   string `json:"created_at_utc"`
}

// Write stores the report under baseDir/<report id> and returns that
// directory.
func Write(baseDir string, r Report) (string, error) {
	id := strings.TrimSpace(r.Parents.ReportID)
	if err := CheckID(id); err != nil {
		return "", err
	}

	dir := filepath.Join(baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(dir, "parents.json"), r.Parents); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "summary.json"), summarize(id, r.Result)); err != nil {
		return "", err
	}
	if err := writeGenotypes(filepath.Join(dir, "genotypes.csv"), r.Result); err != nil {
		return "", err
	}
	if err := writePhenotypes(filepath.Join(dir, "phenotypes.csv"), r.Result); err != nil {
		return "", err
	}
	return dir, nil
}

func summarize(id string, res cross.Result) Summary {
	return Summary{
		ReportID:       id,
		Parent1Gametes: gameteStrings(res.Parent1Gametes),
		Parent2Gametes: gameteStrings(res.Parent2Gametes),
		TotalCount:     res.TotalCount,
		GenotypeCount:  len(res.Genotypes),
		PhenotypeCount: len(res.Phenotypes),
		Ratio:          res.Ratio(),
	}
}

func gameteStrings(gametes []cross.Gamete) []string {
	out := make([]string, 0, len(gametes))
	for _, g := range gametes {
		out = append(out, g.String())
	}
	return out
}

func writeGenotypes(path string, res cross.Result) error {
	rows := [][]string{{"genotype", "count", "phenotype"}}
	for _, entry := range res.SortedGenotypes() {
		rows = append(rows, []string{
			entry.Genotype.String(),
			strconv.Itoa(entry.Count),
			entry.Genotype.Phenotype().Description,
		})
	}
	return writeCSV(path, rows)
}

func writePhenotypes(path string, res cross.Result) error {
	rows := [][]string{{"phenotype", "count", "percentage"}}
	for _, stat := range res.SortedPhenotypes() {
		rows = append(rows, []string{
			stat.Phenotype.Description,
			strconv.Itoa(stat.Count),
			strconv.FormatFloat(stat.Percentage, 'f', -1, 64),
		})
	}
	return writeCSV(path, rows)
}

// ReadPhenotypes reads phenotypes.csv back as description to count.
func ReadPhenotypes(baseDir, reportID string) (map[string]int, bool, error) {
	if err := CheckID(reportID); err != nil {
		return nil, false, err
	}
	file, err := os.Open(filepath.Join(baseDir, reportID, "phenotypes.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return map[string]int{}, true, nil
		}
		return nil, false, err
	}

	counts := make(map[string]int)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, err
		}
		if len(record) < 2 {
			return nil, false, fmt.Errorf("phenotype row must have at least 2 columns")
		}
		n, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, false, err
		}
		counts[record[0]] = n
	}
	return counts, true, nil
}

func ReadParents(baseDir, reportID string) (Parents, bool, error) {
	if err := CheckID(reportID); err != nil {
		return Parents{}, false, err
	}
	data, err := os.ReadFile(filepath.Join(baseDir, reportID, "parents.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return Parents{}, false, nil
		}
		return Parents{}, false, err
	}

	var parents Parents
	if err := json.Unmarshal(data, &parents); err != nil {
		return Parents{}, false, err
	}
	return parents, true, nil
}

// AppendIndex adds entry to the index, replacing any entry with the same
// report id.
func AppendIndex(baseDir string, entry IndexEntry) error {
	if entry.ReportID == "" {
		return fmt.Errorf("report id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := readIndex(baseDir)
	if err != nil {
		return err
	}
	for i := range index {
		if index[i].ReportID == entry.ReportID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, indexFile), index)
		}
	}
	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, indexFile), index)
}

// ListIndex returns index entries newest first.
func ListIndex(baseDir string) ([]IndexEntry, error) {
	entries, err := readIndex(baseDir)
	if err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry IndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]IndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func readIndex(baseDir string) ([]IndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []IndexEntry{}, nil
		}
		return nil, err
	}

	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", indexFile, err)
	}
	return entries, nil
}

// Export copies a written report to outDir/<report id>.
func Export(baseDir, reportID, outDir string) (string, error) {
	if err := CheckID(reportID); err != nil {
		return "", err
	}

	src := filepath.Join(baseDir, reportID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, reportID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}
	for _, file := range reportFiles {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

// CheckID rejects ids that would resolve outside the reports directory.
func CheckID(reportID string) error {
	switch {
	case reportID == "", reportID == ".", reportID == "..":
	case strings.ContainsAny(reportID, `/\`):
	case filepath.Base(reportID) != reportID:
	default:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidReportID, reportID)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Sync()
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
