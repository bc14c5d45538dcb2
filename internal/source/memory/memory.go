package memory

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"frota/internal/core"
)

// SeedFile is the file NewFromFiles looks for in its base directory.
// Format: one row per line, "mes;gasto_real;km_rodado", '#' comments.
const SeedFile = "custos_frota.csv"

// ReferenceRows is the built-in fleet table used when no seed file exists.
// Labels are abbreviated and rows are deliberately not in calendar order,
// the way the original table was stored.
var ReferenceRows = []core.RawRow{
	{Label: "Abr", Spent: core.Money{Cents: 1762000}, Distance: 41010},
	{Label: "Ago", Spent: core.Money{Cents: 1893040}, Distance: 44500},
	{Label: "Dez", Spent: core.Money{Cents: 2456025}, Distance: 40200},
	{Label: "Fev", Spent: core.Money{Cents: 1698050}, Distance: 39850},
	{Label: "Jan", Spent: core.Money{Cents: 1845000}, Distance: 42300},
	{Label: "Jul", Spent: core.Money{Cents: 2015000}, Distance: 46900},
	{Label: "Jun", Spent: core.Money{Cents: 2341090}, Distance: 43780},
	{Label: "Mai", Spent: core.Money{Cents: 1987530}, Distance: 45230},
	{Label: "Mar", Spent: core.Money{Cents: 2134075}, Distance: 44120},
	{Label: "Nov", Spent: core.Money{Cents: 2101580}, Distance: 43300},
	{Label: "Out", Spent: core.Money{Cents: 1964000}, Distance: 45600},
	{Label: "Set", Spent: core.Money{Cents: 2278060}, Distance: 42950},
}

// Store serves a fixed table from memory.
type Store struct {
	mu   sync.RWMutex
	rows []core.RawRow
}

func New(rows []core.RawRow) *Store {
	return &Store{rows: append([]core.RawRow(nil), rows...)}
}

// NewFromFiles loads SeedFile from base. A missing file falls back to
// ReferenceRows; a malformed line is an error.
func NewFromFiles(base string) (*Store, error) {
	path := filepath.Join(base, SeedFile)
	lines, err := readLines(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(ReferenceRows), nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	rows := make([]core.RawRow, 0, len(lines))
	for i, line := range lines {
		row, err := parseLine(i, line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return New(ReferenceRows), nil
	}
	return New(rows), nil
}

// ReadRows returns a copy of the stored rows.
func (s *Store) ReadRows(_ context.Context) ([]core.RawRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.RawRow(nil), s.rows...), nil
}

// Replace swaps the table contents, e.g. after reloading the seed file.
func (s *Store) Replace(rows []core.RawRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]core.RawRow(nil), rows...)
}

func (s *Store) Ping(_ context.Context) error { return nil }

// parseLine keeps a negative amount so Normalize reports it like any
// other source does; an unreadable amount is a *core.DataError for row i.
func parseLine(i int, line string) (core.RawRow, error) {
	parts := strings.Split(line, ";")
	if len(parts) != 3 {
		return core.RawRow{}, fmt.Errorf("expected 3 fields, got %d", len(parts))
	}
	label := strings.TrimSpace(parts[0])
	spent, err := core.ParseSourceAmount(parts[1])
	if err != nil {
		return core.RawRow{}, &core.DataError{Row: i, Label: label, Reason: fmt.Sprintf("gasto_real %q: %v", parts[1], err), Err: err}
	}
	km, err := parseNumber(parts[2])
	if err != nil {
		return core.RawRow{}, fmt.Errorf("km_rodado %q: %w", parts[2], err)
	}
	return core.RawRow{
		Label:    label,
		Spent:    spent,
		Distance: km,
	}, nil
}

// parseNumber accepts "45230", "45230.5" and pt-BR "45.230,5".
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
