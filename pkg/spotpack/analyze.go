package spotpack

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

const (
	sampleRows = 3
	sampleIDs  = 5
)

// SampleRow is an abbreviated CSV row shown in a Report.
type SampleRow struct {
	ID    string
	Name  string
	Photo string
}

// SourceStats describes a CSV source.
type SourceStats struct {
	Name         string
	Path         string
	Found        bool
	Err          error
	Encoding     string
	Rows         int
	Headers      []string
	Columns      Columns
	WithID       int
	WithPhotos   int
	SamplePhotos []string
	SampleRows   []SampleRow
}

// DirStats describes a photo directory.
type DirStats struct {
	Label     string
	Path      string
	Found     bool
	Files     int
	IDs       int
	Excluded  int
	SampleIDs []string
}

// Report is the diagnostic summary of a configuration's inputs.
type Report struct {
	Sources []*SourceStats
	Dirs    []*DirStats
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

func analyzeSource(src Source) (*SourceStats, error) {
	st := &SourceStats{Name: src.Name, Path: src.Path}

	ok, err := exists(src.Path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if !ok {
		return st, nil
	}
	st.Found = true

	t, err := ReadCSV(src.Path)
	if err != nil {
		st.Err = err
		return st, nil
	}

	st.Encoding = t.Encoding
	st.Rows = len(t.Rows)
	st.Headers = t.Headers
	st.Columns = DetectColumns(t.Headers)

	for i, r := range t.Rows {
		id := strings.TrimSpace(st.Columns.Value(r.Fields, RoleID))
		photo := strings.TrimSpace(st.Columns.Value(r.Fields, RolePhoto))
		if id != "" {
			st.WithID++
		}
		if photo != "" {
			st.WithPhotos++
			if len(st.SamplePhotos) < sampleRows {
				st.SamplePhotos = append(st.SamplePhotos, photo)
			}
		}
		if i < sampleRows {
			st.SampleRows = append(st.SampleRows, SampleRow{
				ID:    id,
				Name:  truncate(st.Columns.Value(r.Fields, RoleName), 40),
				Photo: truncate(photo, 60),
			})
		}
	}
	return st, nil
}

func analyzeDir(d PhotoDir) (*DirStats, error) {
	st := &DirStats{Label: d.Label, Path: d.Path}

	ok, err := dirExists(d.Path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if !ok {
		return st, nil
	}
	st.Found = true

	names, err := listPhotos(d.Path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.Path, err)
	}

	ids := map[string]bool{}
	for _, name := range names {
		id, ok := photoID(name)
		if !ok {
			st.Excluded++
			continue
		}
		ids[id] = true
	}
	st.Files = len(names)
	st.IDs = len(ids)

	for id := range ids {
		st.SampleIDs = append(st.SampleIDs, id)
	}
	sort.Strings(st.SampleIDs)
	if len(st.SampleIDs) > sampleIDs {
		st.SampleIDs = st.SampleIDs[:sampleIDs]
	}
	return st, nil
}

// Analyze gathers statistics about the sources and photo directories in c without modifying anything.
func Analyze(c *Config) (*Report, error) {
	r := &Report{}
	for _, src := range c.Sources {
		st, err := analyzeSource(src)
		if err != nil {
			return nil, fmt.Errorf("analyze %s: %w", src.Name, err)
		}
		r.Sources = append(r.Sources, st)
	}
	for _, d := range c.PhotoDirs {
		st, err := analyzeDir(d)
		if err != nil {
			return nil, fmt.Errorf("analyze %s: %w", d.Label, err)
		}
		r.Dirs = append(r.Dirs, st)
	}
	return r, nil
}

// Render writes a human-readable report to w.
func (r *Report) Render(w io.Writer) {
	for _, s := range r.Sources {
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("=== %s ===", s.Name)))
		fmt.Fprintf(w, "Path: %s\n", s.Path)
		if !s.Found {
			fmt.Fprintln(w, warnStyle.Render("File not found!"))
			continue
		}
		if s.Err != nil {
			fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("Unreadable: %v", s.Err)))
			continue
		}
		fmt.Fprintf(w, "Encoding: %s\n", s.Encoding)
		fmt.Fprintf(w, "Total rows: %d\n", s.Rows)
		fmt.Fprintf(w, "Columns: %s\n", strings.Join(s.Headers, ", "))
		fmt.Fprintf(w, "Detected: %s\n", dimStyle.Render(s.Columns.String()))
		fmt.Fprintf(w, "Rows with ID: %d\n", s.WithID)
		fmt.Fprintf(w, "Rows with photos: %d\n", s.WithPhotos)
		if len(s.SamplePhotos) > 0 {
			fmt.Fprintf(w, "Sample photo refs: %s\n", strings.Join(s.SamplePhotos, " ; "))
		}
		fmt.Fprintln(w, "Sample rows:")
		for i, sr := range s.SampleRows {
			fmt.Fprintf(w, "  %d. ID=%s, Name=%s, Photos=%s\n", i+1, sr.ID, sr.Name, sr.Photo)
		}
		fmt.Fprintln(w)
	}

	for _, d := range r.Dirs {
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("=== %s photos ===", d.Label)))
		fmt.Fprintf(w, "Path: %s\n", d.Path)
		if !d.Found {
			fmt.Fprintln(w, warnStyle.Render("Folder not found!"))
			continue
		}
		fmt.Fprintf(w, "Total photos: %d\n", d.Files)
		fmt.Fprintf(w, "Unique IDs with photos: %d\n", d.IDs)
		if d.Excluded > 0 {
			fmt.Fprintf(w, "Excluded (no numeric id): %d\n", d.Excluded)
		}
		fmt.Fprintf(w, "Sample: %s\n", strings.Join(d.SampleIDs, ", "))
		fmt.Fprintln(w)
	}
}
