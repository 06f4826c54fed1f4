package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ehealthkit/snoclose/internal/closure"
)

func sampleRows() []closure.Row {
	return []closure.Row{
		{Cluster: "dm_cod", Code: "100", Term: "Diabetes mellitus"},
		{Cluster: "dm_cod", Code: "200", Term: "Type 2"},
		{Cluster: "pain_cod", Code: "300", Term: "Pain"},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(raw), "\xEF\xBB\xBF") {
		t.Error("csv missing UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows", len(lines))
	}
	if strings.TrimSpace(lines[0]) != "Cluster ID,Concept ID,Term" {
		t.Errorf("header = %q", lines[0])
	}
	if strings.TrimSpace(lines[1]) != "dm_cod,100,Diabetes mellitus" {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteXLSX(path, sampleRows()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Clusters")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	if rows[0][1] != "Concept ID" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "dm_cod" || rows[1][1] != "100" {
		t.Errorf("first data row = %v", rows[1])
	}

	tables, err := f.GetTables("Clusters")
	if err != nil {
		t.Fatalf("GetTables: %v", err)
	}
	if len(tables) != 1 || tables[0].Name != "ClusterTable" {
		t.Errorf("tables = %+v, want one ClusterTable", tables)
	}
}

func TestWriteXLSXNoRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteXLSX(path, nil); err != nil {
		t.Fatalf("WriteXLSX with no rows: %v", err)
	}
}

func TestWriteClusterTxt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clusters")
	if err := WriteClusterTxt(dir, sampleRows()); err != nil {
		t.Fatalf("WriteClusterTxt: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "dm_cod.txt"))
	if err != nil {
		t.Fatalf("read dm_cod.txt: %v", err)
	}
	if got := string(raw); got != "'100','200'" {
		t.Errorf("dm_cod.txt = %q", got)
	}

	raw, err = os.ReadFile(filepath.Join(dir, "pain_cod.txt"))
	if err != nil {
		t.Fatalf("read pain_cod.txt: %v", err)
	}
	if got := string(raw); got != "'300'" {
		t.Errorf("pain_cod.txt = %q", got)
	}
}
