package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// candidate separators, in tie-break order
var separators = []rune{'\t', ',', ';', '|'}

// sniffLines bounds how much of the file the separator detection looks at.
const sniffLines = 20

// LoadFile reads the table at path. Workbooks (.xlsx) go through excelize; everything else
// is treated as delimited text.
func LoadFile(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadWorkbook(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Msg: "open", Err: err}
	}
	defer f.Close()
	return Load(f, path)
}

// Load decodes and parses delimited text from r. name is only used in errors.
func Load(r io.Reader, name string) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Path: name, Msg: "read", Err: err}
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, &LoadError{Path: name, Msg: "decode", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, loadErrorf(name, nil, "file is empty")
	}
	sep := sniffSeparator(text)
	if sep == 0 {
		return nil, loadErrorf(name, nil, "could not detect a field separator (single-column result)")
	}
	return parseDelimited(text, sep, name)
}

// decodeText turns the raw bytes into UTF-8. A BOM decides the encoding when present. Without
// one, NUL bytes indicate 16-bit text (little-endian); clean UTF-8 is accepted as is.
func decodeText(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	fallback := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	if !hasBOM(raw) && bytes.IndexByte(raw, 0) < 0 {
		if !utf8.Valid(raw) {
			return "", errors.New("input is neither UTF-16 nor UTF-8")
		}
		return string(raw), nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hasBOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(b, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}

// sniffSeparator picks the separator that splits the leading lines into the most consistent
// multi-column shape: the field count seen most often wins, then the larger count. Returns 0
// when no candidate yields more than one column.
func sniffSeparator(text string) rune {
	sample := leadingLines(text, sniffLines)
	var (
		best      rune
		bestFreq  int
		bestCount int
	)
	for _, sep := range separators {
		count, freq := modalFieldCount(sample, sep)
		if count < 2 {
			continue
		}
		if freq > bestFreq || (freq == bestFreq && count > bestCount) {
			best, bestFreq, bestCount = sep, freq, count
		}
	}
	return best
}

func leadingLines(text string, n int) string {
	end := 0
	for i := 0; i < n; i++ {
		j := strings.IndexByte(text[end:], '\n')
		if j < 0 {
			return text
		}
		end += j + 1
	}
	return text[:end]
}

// modalFieldCount returns the most common per-record field count and how many records had it.
func modalFieldCount(sample string, sep rune) (count, freq int) {
	r := newReader(strings.NewReader(sample), sep)
	counts := map[int]int{}
	for {
		rec, err := r.Read()
		if err != nil {
			// a truncated trailing record in the sample is expected
			break
		}
		counts[len(rec)]++
	}
	for c, f := range counts {
		if f > freq || (f == freq && c > count) {
			count, freq = c, f
		}
	}
	return count, freq
}

func newReader(r io.Reader, sep rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

func parseDelimited(text string, sep rune, name string) (*Table, error) {
	r := newReader(strings.NewReader(text), sep)
	header, err := r.Read()
	if err != nil {
		return nil, &LoadError{Path: name, Msg: "read header", Err: err}
	}
	if len(header) < 2 {
		return nil, loadErrorf(name, nil, "separator %q produced a single column", sep)
	}
	var rows []Row
	for rec := 1; ; rec++ {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: name, Msg: "parse", Err: err}
		}
		rows = append(rows, Row{Record: rec, Cells: append([]string(nil), cells...)})
	}
	return NewTable(header, rows), nil
}
