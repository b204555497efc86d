// Package importer turns bank and card statements into manual ledger
// entries.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/floraledger/flora/internal/ledger"
	"github.com/floraledger/flora/internal/model"
)

// Line is one statement row. Negative amounts are money out.
type Line struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
}

// Parser converts a statement file into lines.
type Parser interface {
	Parse(r io.Reader) ([]Line, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&SimpleParser{})
	return r
}

// Mapping decides how statement lines become ledger entries.
type Mapping struct {
	ExpenseCategory model.Category
	IncomeCategory  model.Category
	Source          model.Source
}

// DefaultMapping books everything as OTHER until it is recategorized.
func DefaultMapping() Mapping {
	return Mapping{
		ExpenseCategory: model.CategoryOther,
		IncomeCategory:  model.CategoryOther,
		Source:          model.SourceOther,
	}
}

// Params converts lines into manual entries. Zero-amount lines are skipped.
func (m Mapping) Params(lines []Line) []ledger.TransactionParams {
	var out []ledger.TransactionParams
	for _, l := range lines {
		if l.Amount.IsZero() {
			continue
		}
		p := ledger.TransactionParams{
			Date:        l.Date,
			Description: l.Description,
			Amount:      l.Amount.Abs(),
			Source:      m.Source,
		}
		if l.Amount.IsNegative() {
			p.Type = model.TxExpense
			p.Category = m.ExpenseCategory
		} else {
			p.Type = model.TxIncome
			p.Category = m.IncomeCategory
		}
		out = append(out, p)
	}
	return out
}

// InboxDir is the project subdirectory scanned for statements.
const InboxDir = "statements"

// processedDir receives statements once imported.
const processedDir = "statements/imported"

// FileInfo describes a statement waiting in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns the CSV files in <projectDir>/statements/.
func Scan(projectDir string) ([]FileInfo, error) {
	dir := filepath.Join(projectDir, InboxDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading statements dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a statement from the inbox to statements/imported/.
func MarkProcessed(projectDir, fileName string) error {
	dstDir := filepath.Join(projectDir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	src := filepath.Join(projectDir, InboxDir, fileName)
	if err := os.Rename(src, filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
