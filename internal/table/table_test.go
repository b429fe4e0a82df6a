package table

import (
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		comma rune
		want  [][]string
	}{
		{
			name: "header and rows in order",
			in:   "path,name\nx/old1.txt,new1\n,ignored\nx/missing.txt,new2\n",
			want: [][]string{
				{"path", "name"},
				{"x/old1.txt", "new1"},
				{"", "ignored"},
				{"x/missing.txt", "new2"},
			},
		},
		{
			name: "ragged rows are kept",
			in:   "a.txt\nb.txt,b2,extra\n",
			want: [][]string{{"a.txt"}, {"b.txt", "b2", "extra"}},
		},
		{
			name: "quoted fields with commas",
			in:   "\"dir, with comma/a.txt\",\"new, name\"\n",
			want: [][]string{{"dir, with comma/a.txt", "new, name"}},
		},
		{
			name: "byte order mark is stripped",
			in:   "\xEF\xBB\xBFpath,name\r\na.txt,b\r\n",
			want: [][]string{{"path", "name"}, {"a.txt", "b"}},
		},
		{
			name:  "tab separated",
			in:    "a.txt\tb\nc d.txt\te\n",
			comma: '\t',
			want:  [][]string{{"a.txt", "b"}, {"c d.txt", "e"}},
		},
		{
			name: "blank lines are ignored",
			in:   "a.txt,b\n\n\nc.txt,d\n",
			want: [][]string{{"a.txt", "b"}, {"c.txt", "d"}},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.in), Options{Format: FormatCSV, Comma: tt.comma})
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestParseCSVBareQuotes(t *testing.T) {
	got, err := ParseCSV([]byte("good.txt,renamed\n12\" vinyl.txt,record\n"), ',')
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	want := [][]string{{"good.txt", "renamed"}, {`12" vinyl.txt`, "record"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV() = %q, want %q", got, want)
	}
}

func TestParseMarkdownTable(t *testing.T) {
	src := `# Renames for March

Some notes about the batch.

| path | new name |
|------|----------|
| x/old1.txt | new1 |
|  | ignored |
| x/missing.txt | new2 |
`
	got, err := Parse([]byte(src), Options{Format: FormatMarkdown})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := [][]string{
		{"path", "new name"},
		{"x/old1.txt", "new1"},
		{"", "ignored"},
		{"x/missing.txt", "new2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() =\n%q\nwant\n%q", got, want)
	}
}

func TestParseMarkdownCodeBlockFallback(t *testing.T) {
	src := "Paste from the sheet:\n\n```csv\npath,name\na.txt,b\n```\n"
	got, err := Parse([]byte(src), Options{Format: FormatMarkdown})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := [][]string{{"path", "name"}, {"a.txt", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %q, want %q", got, want)
	}
}

func TestParseMarkdownTSVBlock(t *testing.T) {
	src := "```tsv\na.txt\tb\n```\n"
	got, err := Parse([]byte(src), Options{Format: FormatMarkdown})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := [][]string{{"a.txt", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %q, want %q", got, want)
	}
}

func TestParseMarkdownWithoutTable(t *testing.T) {
	src := "just prose\n\n```go\nfunc main() {}\n```\n"
	_, err := Parse([]byte(src), Options{Format: FormatMarkdown})
	if !errors.Is(err, ErrNoTable) {
		t.Errorf("err = %v, want ErrNoTable", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path      string
		wantFmt   Format
		wantComma rune
	}{
		{"renames.csv", FormatCSV, ','},
		{"renames.TSV", FormatCSV, '\t'},
		{"notes/renames.md", FormatMarkdown, ','},
		{"renames.markdown", FormatMarkdown, ','},
		{"Renames.XLSX", FormatXLSX, ','},
		{"-", FormatCSV, ','},
		{"", FormatCSV, ','},
	}
	for _, tt := range tests {
		f, c := DetectFormat(tt.path)
		if f != tt.wantFmt || c != tt.wantComma {
			t.Errorf("DetectFormat(%q) = (%q, %q), want (%q, %q)", tt.path, f, c, tt.wantFmt, tt.wantComma)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("Markdown"); err != nil || f != FormatMarkdown {
		t.Errorf("ParseFormat(Markdown) = (%q, %v)", f, err)
	}
	if f, err := ParseFormat("csv"); err != nil || f != FormatCSV {
		t.Errorf("ParseFormat(csv) = (%q, %v)", f, err)
	}
	if f, err := ParseFormat("excel"); err != nil || f != FormatXLSX {
		t.Errorf("ParseFormat(excel) = (%q, %v)", f, err)
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf) returned no error")
	}
}

func TestSniffComma(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"a.txt\tb\nc.txt\td\n", '\t'},
		{"a.txt,b\n", ','},
		{"a, b.txt\tc\n", ','},
		{"single\n", ','},
		{"", ','},
		{"first,line\nsecond\tline\n", ','},
	}
	for _, tt := range tests {
		if got := SniffComma([]byte(tt.in)); got != tt.want {
			t.Errorf("SniffComma(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	cells := map[string]string{
		"A1": "path", "B1": "name",
		"A2": "scans/IMG_0001.JPG", "B2": "beach",
		"A4": "notes.txt",
	}
	for cell, v := range cells {
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	rows, err := Parse(buf.Bytes(), Options{Format: FormatXLSX})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"path", "name"},
		{"scans/IMG_0001.JPG", "beach"},
		nil,
		{"notes.txt"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %q", len(rows), len(want), rows)
	}
	for i := range want {
		if len(rows[i]) == 0 && len(want[i]) == 0 {
			continue
		}
		if !reflect.DeepEqual(rows[i], want[i]) {
			t.Errorf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestParseXLSXNotAWorkbook(t *testing.T) {
	if _, err := Parse([]byte("a,b\n"), Options{Format: FormatXLSX}); err == nil {
		t.Error("expected error for non-xlsx content")
	}
}
