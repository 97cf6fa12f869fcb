package catalog

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("catalog: missing required column")

const defaultSynopsis = "No synopsis available"

var episodePattern = regexp.MustCompile(`话数:\s*(\d+)`)

// Column names of the source export.
const (
	colID       = "subject_id"
	colTitle    = "title"
	colSuppName = "supp_title"
	colScore    = "平均分"
	colImage    = "img_url"
	colYear     = "year"
	colTags     = "tags"
	colInfobox  = "infobox_raw"
	colSynopsis = "synopsis"
)

// LoadCSV reads a catalog from a CSV file on disk.
func LoadCSV(path string) (*Catalog, error) {
	//nolint:gosec // G304: path is supplied by the user on purpose
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return ReadCSV(f)
}

// ReadCSV parses catalog rows. Rows without a usable id or title are dropped
// and counted in Catalog.Dropped.
func ReadCSV(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for idx, name := range header {
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		columns[name] = idx
	}
	for _, required := range []string{colID, colTitle} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var items []Item
	dropped := 0
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog line %d: %w", line, err)
		}

		row := csvRow{columns: columns, record: record}
		item, ok := row.item()
		if !ok {
			dropped++
			continue
		}
		items = append(items, item)
	}

	c := New(items)
	c.dropped += dropped
	return c, nil
}

// Hash returns the hex sha256 of the file at path.
func Hash(path string) (string, error) {
	//nolint:gosec // G304: path is supplied by the user on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

type csvRow struct {
	columns map[string]int
	record  []string
}

func (r csvRow) get(name string) string {
	idx, ok := r.columns[name]
	if !ok || idx >= len(r.record) {
		return ""
	}
	value := strings.TrimSpace(r.record[idx])
	if strings.EqualFold(value, "nan") || strings.EqualFold(value, "null") {
		return ""
	}
	return value
}

func (r csvRow) item() (Item, bool) {
	id, ok := parseInt(r.get(colID))
	if !ok || id <= 0 {
		return Item{}, false
	}
	title := r.get(colTitle)
	if title == "" {
		return Item{}, false
	}

	original := r.get(colSuppName)
	if original == "" {
		original = title
	}

	synopsis := r.get(colSynopsis)
	if synopsis == "" {
		synopsis = defaultSynopsis
	}

	year, _ := parseInt(r.get(colYear))

	return Item{
		ID:            id,
		Title:         title,
		OriginalTitle: original,
		Score:         parseScore(r.get(colScore)),
		ImageRef:      r.get(colImage),
		Synopsis:      synopsis,
		EpisodeCount:  parseEpisodes(r.get(colInfobox)),
		Year:          int(year),
		Tags:          r.get(colTags),
	}, true
}

// parseInt accepts both "123" and float-formatted exports such as "123.0".
func parseInt(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func parseScore(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

func parseEpisodes(infobox string) int {
	match := episodePattern.FindStringSubmatch(infobox)
	if match == nil {
		return 1
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 1
	}
	return n
}
