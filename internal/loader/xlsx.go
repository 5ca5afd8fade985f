package loader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"salesreport/pkg/records"
)

// Minimal XLSX support: an .xlsx file is a zip of XML parts. We read the
// shared-strings table and the first worksheet, which covers the flat,
// single-sheet exports this pipeline ingests. Formulas are read through
// their cached values.

type xlsxWorksheet struct {
	SheetData struct {
		Rows []xlsxRow `xml:"row"`
	} `xml:"sheetData"`
}

type xlsxRow struct {
	Cells []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	Reference string `xml:"r,attr"`
	Type      string `xml:"t,attr"`
	Value     string `xml:"v"`
	InlineStr struct {
		Text string `xml:"t"`
	} `xml:"is"`
}

type xlsxSharedStrings struct {
	Items []struct {
		Text string `xml:"t"`
	} `xml:"si"`
}

// readXLSX reads the first worksheet of an .xlsx file into records keyed by
// normalized header names from the first row, returning the headers too.
func readXLSX(path string) ([]records.Record, []string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer zr.Close()

	shared, err := loadSharedStrings(&zr.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("xlsx shared strings: %w", err)
	}

	ws, err := loadWorksheet(&zr.Reader, "sheet1.xml")
	if err != nil {
		return nil, nil, err
	}
	if len(ws.SheetData.Rows) == 0 {
		return nil, nil, fmt.Errorf("xlsx worksheet is empty")
	}

	// Header cells are positioned by their A1-style reference, same as data
	// cells; a sheet whose header row starts past column A stays aligned.
	first := ws.SheetData.Rows[0]
	width := 0
	for _, c := range first.Cells {
		if i := columnIndex(c.Reference); i >= width {
			width = i + 1
		}
	}
	headers := make([]string, width)
	for _, c := range first.Cells {
		if i := columnIndex(c.Reference); i >= 0 {
			headers[i] = c.value(shared)
		}
	}
	headers = normalizeHeaders(headers)

	out := make([]records.Record, 0, len(ws.SheetData.Rows)-1)
	for _, row := range ws.SheetData.Rows[1:] {
		rec := make(records.Record, len(headers))
		for i, key := range headers {
			if key == "" {
				continue
			}
			rec[key] = nil
			// Cells are positioned by their A1-style reference; sparse rows
			// skip empty cells entirely.
			for _, c := range row.Cells {
				if columnIndex(c.Reference) == i {
					rec[key] = emptyToNil(strings.TrimSpace(c.value(shared)))
					break
				}
			}
		}
		out = append(out, rec)
	}
	return out, headers, nil
}

func loadSharedStrings(zr *zip.Reader) (map[int]string, error) {
	strs := map[int]string{}
	for _, f := range zr.File {
		if f.Name != "xl/sharedStrings.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		var ss xlsxSharedStrings
		if err := xml.Unmarshal(data, &ss); err != nil {
			return nil, err
		}
		for i, item := range ss.Items {
			strs[i] = item.Text
		}
		return strs, nil
	}
	return strs, nil
}

func loadWorksheet(zr *zip.Reader, name string) (*xlsxWorksheet, error) {
	for _, f := range zr.File {
		if f.Name != "xl/worksheets/"+name && !strings.HasSuffix(f.Name, "/"+name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		var ws xlsxWorksheet
		if err := xml.Unmarshal(data, &ws); err != nil {
			return nil, fmt.Errorf("xlsx worksheet %s: %w", name, err)
		}
		return &ws, nil
	}
	return nil, fmt.Errorf("xlsx worksheet %q not found", name)
}

// value resolves a cell through the shared-string table when its type is "s",
// or the inline string when "inlineStr"; everything else is the literal value.
func (c xlsxCell) value(shared map[int]string) string {
	switch c.Type {
	case "s":
		if idx, err := strconv.Atoi(c.Value); err == nil {
			if s, ok := shared[idx]; ok {
				return s
			}
		}
	case "inlineStr":
		return c.InlineStr.Text
	}
	return c.Value
}

// columnIndex converts the column letters of an A1-style reference ("B7") to
// a zero-based index. Returns -1 for malformed references.
func columnIndex(ref string) int {
	n := 0
	seen := false
	for _, r := range ref {
		if r >= 'A' && r <= 'Z' {
			n = n*26 + int(r-'A') + 1
			seen = true
			continue
		}
		break
	}
	if !seen {
		return -1
	}
	return n - 1
}
