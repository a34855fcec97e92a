package spotpack

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"k8s.io/klog/v2"
)

// ErrUndecodable is returned when a CSV yields no rows under any known encoding.
var ErrUndecodable = errors.New("could not read CSV with any known encoding")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type textEncoding struct {
	name   string
	decode func([]byte) ([]byte, bool)
}

// csvEncodings are tried in order. A BOM is optional for utf-8, and korean.EUCKR
// is the cp949 superset of euc-kr, so each legacy name needs only one decoder.
var csvEncodings = []textEncoding{
	{name: "utf-8", decode: decodeUTF8},
	{name: "cp949", decode: legacyDecoder(korean.EUCKR)},
	{name: "latin-1", decode: legacyDecoder(charmap.ISO8859_1)},
}

func decodeUTF8(b []byte) ([]byte, bool) {
	b = bytes.TrimPrefix(b, utf8BOM)
	return b, utf8.Valid(b)
}

// legacyDecoder rejects input that the decoder could only map to replacement runes.
func legacyDecoder(e encoding.Encoding) func([]byte) ([]byte, bool) {
	return func(b []byte) ([]byte, bool) {
		out, err := e.NewDecoder().Bytes(b)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			return nil, false
		}
		return out, true
	}
}

// Row is a CSV record keyed by header name.
type Row struct {
	Line   int
	Fields map[string]string
}

// Table is a decoded CSV file.
type Table struct {
	Path     string
	Encoding string
	Headers  []string
	Rows     []Row
}

// ReadCSV reads path, trying each known encoding until one decodes and yields at least one row.
func ReadCSV(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	for _, enc := range csvEncodings {
		text, ok := enc.decode(b)
		if !ok {
			klog.V(1).Infof("%s: not %s", path, enc.name)
			continue
		}

		t, err := parseCSV(text)
		if err != nil {
			klog.V(1).Infof("%s: parse as %s: %v", path, enc.name, err)
			continue
		}
		if len(t.Rows) == 0 {
			continue
		}

		t.Path = path
		t.Encoding = enc.name
		return t, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUndecodable, path)
}

func parseCSV(b []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, err
	}

	t := &Table{Headers: headers}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := r.FieldPos(0)
		row := Row{Line: line, Fields: make(map[string]string, len(headers))}
		for i, h := range headers {
			if i < len(rec) {
				row.Fields[h] = rec[i]
			} else {
				row.Fields[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
