package spotpack

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/text/encoding/korean"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestReadCSV_UTF8WithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spots.csv")
	writeFile(t, path, append([]byte{0xEF, 0xBB, 0xBF}, []byte("Id,Name,Lat,Lng\n1,東京駅,35.68,139.76\n")...))

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Encoding != "utf-8" {
		t.Errorf("expected utf-8, got %s", tbl.Encoding)
	}
	if !slices.Equal(tbl.Headers, []string{"Id", "Name", "Lat", "Lng"}) {
		t.Errorf("BOM should be stripped from headers, got %q", tbl.Headers)
	}
	if got := tbl.Rows[0].Fields["Name"]; got != "東京駅" {
		t.Errorf("expected name '東京駅', got %q", got)
	}
}

func TestReadCSV_EUCKR(t *testing.T) {
	body, err := korean.EUCKR.NewEncoder().String("id,name,lat,lng\n7,서울역,37.55,126.97\n")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "korea.csv")
	writeFile(t, path, []byte(body))

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Encoding != "cp949" {
		t.Errorf("expected cp949, got %s", tbl.Encoding)
	}
	if got := tbl.Rows[0].Fields["name"]; got != "서울역" {
		t.Errorf("expected name '서울역', got %q", got)
	}
}

func TestReadCSV_Latin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fr.csv")
	writeFile(t, path, []byte("id,name,lat,lng\n3,Caf\xe9 du Parc,48.85,2.35\n"))

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Encoding != "latin-1" {
		t.Errorf("expected latin-1, got %s", tbl.Encoding)
	}
	if got := tbl.Rows[0].Fields["name"]; got != "Café du Parc" {
		t.Errorf("expected 'Café du Parc', got %q", got)
	}
}

func TestReadCSV_NoRows(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"header only": "id,name,lat,lng\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "x.csv")
			writeFile(t, path, []byte(body))

			_, err := ReadCSV(path)
			if !errors.Is(err, ErrUndecodable) {
				t.Errorf("expected ErrUndecodable, got %v", err)
			}
		})
	}
}

func TestReadCSV_Missing(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrUndecodable) {
		t.Error("missing file should not be reported as undecodable")
	}
}

func TestReadCSV_RaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	writeFile(t, path, []byte("id,name,lat,lng\n1,short\n\n2,\"quoted, name\",1,2,extra\n"))

	tbl, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}

	r := tbl.Rows[0]
	if r.Fields["lat"] != "" || r.Fields["lng"] != "" {
		t.Errorf("short row should pad with empty strings, got %v", r.Fields)
	}
	if r.Line != 2 {
		t.Errorf("expected line 2, got %d", r.Line)
	}

	r = tbl.Rows[1]
	if r.Fields["name"] != "quoted, name" {
		t.Errorf("expected quoted name, got %q", r.Fields["name"])
	}
	if r.Line != 4 {
		t.Errorf("expected line 4, got %d", r.Line)
	}
}
