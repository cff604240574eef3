package punnett

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JKrag/punnett-simulator/internal/cross"
	"github.com/JKrag/punnett-simulator/internal/genetics"
	"github.com/JKrag/punnett-simulator/internal/model"
	"github.com/JKrag/punnett-simulator/internal/platform/logger"
	"github.com/JKrag/punnett-simulator/internal/platform/metrics"
	"github.com/JKrag/punnett-simulator/internal/report"
	"github.com/JKrag/punnett-simulator/internal/storage"
)

const (
	defaultReportsDir = "reports"
	defaultExportsDir = "exports"
	defaultDBPath     = "punnett.db"

	// Fixed-width UTC timestamps sort lexically in time order.
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

var (
	defaultParent1 = genetics.MustParseGenotype("BB Aa DD ss LL")
	defaultParent2 = genetics.MustParseGenotype("bb' aa Dd Ss Ll")
)

type Options struct {
	StoreKind  string
	DBPath     string
	ReportsDir string
	ExportsDir string
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	// Now overrides the clock used for timestamps.
	Now func() time.Time
}

type Client struct {
	store   storage.Store
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	reportsDir string
	exportsDir string
}

// ParentsRequest names the two parents of a cross either directly or through
// a saved pairing. A pairing id takes precedence over explicit genotypes.
type ParentsRequest struct {
	PairingID string
	Parent1   genetics.Genotype
	Parent2   genetics.Genotype
}

type SavePairingRequest struct {
	Name    string
	Parent1 genetics.Genotype
	Parent2 genetics.Genotype
}

type PairingsRequest struct {
	Limit int
}

type ReportRequest struct {
	ParentsRequest
	Name string
}

type ReportSummary struct {
	ReportID  string
	Directory string
	Result    cross.Result
}

type ReportsRequest struct {
	Limit int
}

type ExportRequest struct {
	ReportID string
	Latest   bool
	OutDir   string
}

type ExportSummary struct {
	ReportID  string
	Directory string
}

// ReportDetail is a written report read back from disk.
type ReportDetail struct {
	Parents    report.Parents
	Phenotypes map[string]int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	reportsDir := opts.ReportsDir
	if reportsDir == "" {
		reportsDir = defaultReportsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		log:        log,
		metrics:    opts.Metrics,
		now:        now,
		reportsDir: reportsDir,
		exportsDir: exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// DefaultParents returns the pair a fresh session starts with.
func DefaultParents() (genetics.Genotype, genetics.Genotype) {
	return defaultParent1, defaultParent2
}

func (c *Client) Phenotype(g genetics.Genotype) (genetics.Phenotype, error) {
	if err := requireGenotype("genotype", g); err != nil {
		return genetics.Phenotype{}, err
	}
	return g.Phenotype(), nil
}

func (c *Client) Gametes(g genetics.Genotype) ([]cross.Gamete, error) {
	if err := requireGenotype("genotype", g); err != nil {
		return nil, err
	}
	return cross.Gametes(g), nil
}

func (c *Client) Cross(ctx context.Context, req ParentsRequest) (cross.Result, error) {
	p1, p2, err := c.resolveParents(ctx, req)
	if err != nil {
		return cross.Result{}, err
	}

	res := cross.Cross(p1, p2)
	c.metrics.ObserveCross("cross", res.TotalCount)
	c.log.DebugContext(ctx, "cross computed",
		"parent1", p1.String(),
		"parent2", p2.String(),
		"total", res.TotalCount,
		"phenotypes", len(res.Phenotypes),
	)
	return res, nil
}

func (c *Client) Square(ctx context.Context, req ParentsRequest) (cross.Grid, error) {
	p1, p2, err := c.resolveParents(ctx, req)
	if err != nil {
		return cross.Grid{}, err
	}

	grid := cross.Square(p1, p2)
	c.metrics.ObserveCross("square", len(grid.Cells))
	c.log.DebugContext(ctx, "square computed", "rows", len(grid.Rows), "cols", len(grid.Cols))
	return grid, nil
}

func (c *Client) SavePairing(ctx context.Context, req SavePairingRequest) (model.Pairing, error) {
	if err := requireGenotype("parent1", req.Parent1); err != nil {
		return model.Pairing{}, err
	}
	if err := requireGenotype("parent2", req.Parent2); err != nil {
		return model.Pairing{}, err
	}

	pairing := model.Pairing{
		VersionedRecord: storage.CurrentVersion(),
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Parent1:         req.Parent1,
		Parent2:         req.Parent2,
		CreatedAtUTC:    c.timestamp(),
	}
	if pairing.Name == "" {
		pairing.Name = fmt.Sprintf("%s x %s", req.Parent1, req.Parent2)
	}
	if err := c.store.SavePairing(ctx, pairing); err != nil {
		return model.Pairing{}, fmt.Errorf("save pairing: %w", err)
	}
	c.log.InfoContext(ctx, "pairing saved", "id", pairing.ID, "name", pairing.Name)
	return pairing, nil
}

func (c *Client) Pairings(ctx context.Context, req PairingsRequest) ([]model.Pairing, error) {
	pairings, err := c.store.ListPairings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pairings: %w", err)
	}
	if req.Limit > 0 && len(pairings) > req.Limit {
		pairings = pairings[:req.Limit]
	}
	return pairings, nil
}

func (c *Client) Pairing(ctx context.Context, id string) (model.Pairing, error) {
	pairing, ok, err := c.store.GetPairing(ctx, id)
	if err != nil {
		return model.Pairing{}, fmt.Errorf("get pairing: %w", err)
	}
	if !ok {
		return model.Pairing{}, fmt.Errorf("pairing %s: %w", id, storage.ErrNotFound)
	}
	return pairing, nil
}

func (c *Client) DeletePairing(ctx context.Context, id string) error {
	removed, err := c.store.DeletePairing(ctx, id)
	if err != nil {
		return fmt.Errorf("delete pairing: %w", err)
	}
	if !removed {
		return fmt.Errorf("pairing %s: %w", id, storage.ErrNotFound)
	}
	c.log.InfoContext(ctx, "pairing deleted", "id", id)
	return nil
}

// WriteReport crosses the requested parents and writes the result under the
// reports directory.
func (c *Client) WriteReport(ctx context.Context, req ReportRequest) (ReportSummary, error) {
	p1, p2, err := c.resolveParents(ctx, req.ParentsRequest)
	if err != nil {
		return ReportSummary{}, err
	}
	res := cross.Cross(p1, p2)
	c.metrics.ObserveCross("cross", res.TotalCount)

	id := uuid.NewString()
	dir, err := report.Write(c.reportsDir, report.Report{
		Parents: report.Parents{
			ReportID:  id,
			PairingID: req.PairingID,
			Name:      req.Name,
			Parent1:   p1,
			Parent2:   p2,
		},
		Result: res,
	})
	if err != nil {
		return ReportSummary{}, fmt.Errorf("write report: %w", err)
	}
	if err := report.AppendIndex(c.reportsDir, report.IndexEntry{
		ReportID:       id,
		PairingID:      req.PairingID,
		Name:           req.Name,
		Parent1:        p1.String(),
		Parent2:        p2.String(),
		TotalCount:     res.TotalCount,
		PhenotypeCount: len(res.Phenotypes),
		CreatedAtUTC:   c.timestamp(),
	}); err != nil {
		return ReportSummary{}, fmt.Errorf("index report: %w", err)
	}

	c.log.InfoContext(ctx, "report written", "id", id, "dir", dir)
	return ReportSummary{ReportID: id, Directory: dir, Result: res}, nil
}

func (c *Client) Reports(_ context.Context, req ReportsRequest) ([]report.IndexEntry, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := report.ListIndex(c.reportsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}
	return entries, nil
}

// Report reads the parents and phenotype counts of a written report.
func (c *Client) Report(_ context.Context, id string) (ReportDetail, error) {
	if err := checkReportID(id); err != nil {
		return ReportDetail{}, err
	}

	parents, ok, err := report.ReadParents(c.reportsDir, id)
	if err != nil {
		return ReportDetail{}, fmt.Errorf("read report parents: %w", err)
	}
	if !ok {
		return ReportDetail{}, fmt.Errorf("report %s: %w", id, storage.ErrNotFound)
	}
	phenotypes, ok, err := report.ReadPhenotypes(c.reportsDir, id)
	if err != nil {
		return ReportDetail{}, fmt.Errorf("read report phenotypes: %w", err)
	}
	if !ok {
		return ReportDetail{}, fmt.Errorf("report %s phenotypes: %w", id, storage.ErrNotFound)
	}
	return ReportDetail{Parents: parents, Phenotypes: phenotypes}, nil
}

func (c *Client) ExportReport(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.ReportID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either report id or latest")
	}
	if req.ReportID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires report id or latest")
	}
	if req.ReportID != "" {
		if err := checkReportID(req.ReportID); err != nil {
			return ExportSummary{}, err
		}
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	reportID := req.ReportID
	if req.Latest {
		entries, err := report.ListIndex(c.reportsDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no reports available to export")
		}
		reportID = entries[0].ReportID
	}

	exportedDir, err := report.Export(c.reportsDir, reportID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{ReportID: reportID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveParents(ctx context.Context, req ParentsRequest) (genetics.Genotype, genetics.Genotype, error) {
	if req.PairingID != "" {
		pairing, err := c.Pairing(ctx, req.PairingID)
		if err != nil {
			return genetics.Genotype{}, genetics.Genotype{}, err
		}
		return pairing.Parent1, pairing.Parent2, nil
	}
	if err := requireGenotype("parent1", req.Parent1); err != nil {
		return genetics.Genotype{}, genetics.Genotype{}, err
	}
	if err := requireGenotype("parent2", req.Parent2); err != nil {
		return genetics.Genotype{}, genetics.Genotype{}, err
	}
	return req.Parent1, req.Parent2, nil
}

func (c *Client) timestamp() string {
	return c.now().UTC().Format(timestampLayout)
}

// checkReportID accepts only the canonical uuid form reports are written
// under.
func checkReportID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return fmt.Errorf("%w: %q", report.ErrInvalidReportID, id)
	}
	return nil
}

func requireGenotype(field string, g genetics.Genotype) error {
	if g.IsZero() {
		return fmt.Errorf("%w: %s is required", genetics.ErrInvalidGenotype, field)
	}
	return nil
}
