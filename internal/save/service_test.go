package save_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fsedit/internal/save"
)

const careerTestDoc = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<careerSavegame revision="9">
    <settings>
        <savegameName>Green Valley</savegameName>
        <mapTitle>Riverbend Springs</mapTitle>
    </settings>
    <statistics>
        <money>100000</money>
        <playTime>12.5</playTime>
    </statistics>
</careerSavegame>
`

const farmsTestDoc = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<farms>
    <farm farmId="1" name="My Farm" money="100000.000000" loan="0.000000"/>
</farms>
`

const salesTestDoc = `<?xml version="1.0" encoding="utf-8" standalone="no"?>
<sales>
    <item xmlFilename="data/vehicles/a.xml" price="1000" damage="0.300000" wear="0.500000" age="12" operatingTime="36000.000000" timeLeft="3" isGenerated="true"/>
</sales>
`

func newTestSave(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "savegame1")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"careerSavegame.xml": careerTestDoc,
		"farms.xml":          farmsTestDoc,
		"sales.xml":          salesTestDoc,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

type stubBackups struct {
	calls int
	fail  bool
	path  string
}

func (b *stubBackups) Create(saveDir string) (string, error) {
	b.calls++
	if b.fail {
		return "", errors.New("disk full")
	}
	return b.path, nil
}

type stubHistory struct {
	records []save.SaveRecord
}

func (h *stubHistory) RecordSave(rec save.SaveRecord) error {
	h.records = append(h.records, rec)
	return nil
}

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

type stubIDGen struct{ id string }

func (g stubIDGen) New() string { return g.id }

func newTestService(backups *stubBackups, history *stubHistory) *save.Service {
	return save.NewService(backups, history,
		save.NewNopLogger(),
		stubClock{now: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)},
		stubIDGen{id: "txn-1"})
}

func TestService_Apply(t *testing.T) {
	t.Run("empty bundle is a no-op with no backup", func(t *testing.T) {
		dir := newTestSave(t)
		backups := &stubBackups{path: "/unused"}
		history := &stubHistory{}
		svc := newTestService(backups, history)

		before, _ := os.ReadFile(filepath.Join(dir, "careerSavegame.xml"))
		res, err := svc.Apply(dir, &save.Changes{})
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if !res.Success {
			t.Error("Success = false, want true")
		}
		if res.BackupPath != "" {
			t.Errorf("BackupPath = %q, want empty for a no-op", res.BackupPath)
		}
		if backups.calls != 0 {
			t.Errorf("backup calls = %d, want 0", backups.calls)
		}
		after, _ := os.ReadFile(filepath.Join(dir, "careerSavegame.xml"))
		if string(before) != string(after) {
			t.Error("no-op modified a file")
		}
		if len(history.records) != 0 {
			t.Error("no-op was recorded in history")
		}
	})

	t.Run("backup failure aborts before any write", func(t *testing.T) {
		dir := newTestSave(t)
		backups := &stubBackups{fail: true}
		svc := newTestService(backups, &stubHistory{})

		before, _ := os.ReadFile(filepath.Join(dir, "farms.xml"))
		ch := &save.Changes{Finance: &save.FinanceChanges{Money: fptr(555555)}}
		_, err := svc.Apply(dir, ch)
		if err == nil {
			t.Fatal("Apply() expected error when backup fails")
		}
		var serr *save.Error
		if !errors.As(err, &serr) || serr.Code != save.CodeBackup {
			t.Errorf("error = %v, want code %s", err, save.CodeBackup)
		}
		after, _ := os.ReadFile(filepath.Join(dir, "farms.xml"))
		if string(before) != string(after) {
			t.Error("file was written despite failed backup")
		}
	})

	t.Run("money fans out to career and farm documents", func(t *testing.T) {
		dir := newTestSave(t)
		backups := &stubBackups{path: "/backups/backup_2026-03-14_09h26m53s"}
		history := &stubHistory{}
		svc := newTestService(backups, history)

		ch := &save.Changes{Finance: &save.FinanceChanges{Money: fptr(555555)}}
		res, err := svc.Apply(dir, ch)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if !res.Success {
			t.Fatalf("Success = false, errors = %v", res.Errors)
		}
		if res.BackupPath != backups.path {
			t.Errorf("BackupPath = %q", res.BackupPath)
		}

		career, _ := os.ReadFile(filepath.Join(dir, "careerSavegame.xml"))
		if !strings.Contains(string(career), "<money>555555</money>") {
			t.Error("career money not rewritten")
		}
		farms, _ := os.ReadFile(filepath.Join(dir, "farms.xml"))
		if !strings.Contains(string(farms), `money="555555.000000"`) {
			t.Error("farm money not rewritten")
		}

		want := []string{"careerSavegame.xml", "farms.xml"}
		if len(res.FilesModified) != len(want) {
			t.Fatalf("FilesModified = %v, want %v", res.FilesModified, want)
		}
		for i, f := range want {
			if res.FilesModified[i] != f {
				t.Errorf("FilesModified[%d] = %q, want %q", i, res.FilesModified[i], f)
			}
		}

		if len(history.records) != 1 {
			t.Fatalf("history records = %d, want 1", len(history.records))
		}
		rec := history.records[0]
		if rec.ID != "txn-1" || rec.BackupPath != backups.path || rec.ErrorCount != 0 {
			t.Errorf("history record = %+v", rec)
		}
	})

	t.Run("money and loan modify farms once", func(t *testing.T) {
		dir := newTestSave(t)
		svc := newTestService(&stubBackups{path: "/b"}, &stubHistory{})

		ch := &save.Changes{Finance: &save.FinanceChanges{Money: fptr(1), Loan: fptr(2)}}
		res, err := svc.Apply(dir, ch)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		count := 0
		for _, f := range res.FilesModified {
			if f == "farms.xml" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("farms.xml listed %d times, want 1", count)
		}
	})

	t.Run("one failed writer does not discard the rest", func(t *testing.T) {
		dir := newTestSave(t)
		if err := os.Remove(filepath.Join(dir, "farms.xml")); err != nil {
			t.Fatal(err)
		}
		history := &stubHistory{}
		svc := newTestService(&stubBackups{path: "/b"}, history)

		ch := &save.Changes{
			Finance: &save.FinanceChanges{Money: fptr(555555)},
			Sales:   []save.SaleChange{{Index: 0, Price: iptr(900)}},
		}
		res, err := svc.Apply(dir, ch)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if res.Success {
			t.Error("Success = true despite a failed writer")
		}
		if len(res.Errors) != 1 {
			t.Fatalf("Errors = %v, want 1 entry", res.Errors)
		}
		werr := res.Errors[0]
		if werr.Code != save.CodeFileWrite || werr.Params["file"] != "farms.xml" {
			t.Errorf("error = %+v", werr)
		}

		// The career write before and the sales write after both landed.
		for _, f := range []string{"careerSavegame.xml", "sales.xml"} {
			found := false
			for _, m := range res.FilesModified {
				if m == f {
					found = true
				}
			}
			if !found {
				t.Errorf("FilesModified missing %s: %v", f, res.FilesModified)
			}
		}
		sales, _ := os.ReadFile(filepath.Join(dir, "sales.xml"))
		if !strings.Contains(string(sales), `price="900"`) {
			t.Error("sales write did not land")
		}

		if len(history.records) != 1 || history.records[0].ErrorCount != 1 {
			t.Errorf("history records = %+v", history.records)
		}

		matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
		if len(matches) > 0 {
			t.Errorf("temp files left behind: %v", matches)
		}
	})

	t.Run("delete and append against the same file compose", func(t *testing.T) {
		dir := newTestSave(t)
		svc := newTestService(&stubBackups{path: "/b"}, &stubHistory{})

		ch := &save.Changes{
			Sales: []save.SaleChange{{Index: 0, Delete: true}},
			SaleAdditions: []save.SaleAddition{{
				XMLFilename: "data/vehicles/new.xml",
				Price:       42000,
				TimeLeft:    10,
			}},
		}
		res, err := svc.Apply(dir, ch)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if !res.Success {
			t.Fatalf("errors = %v", res.Errors)
		}
		items, err := save.ReadSales(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 || items[0].XMLFilename != "data/vehicles/new.xml" {
			t.Errorf("items = %+v", items)
		}
		count := 0
		for _, f := range res.FilesModified {
			if f == "sales.xml" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("sales.xml listed %d times, want 1", count)
		}
	})

	t.Run("rejects a directory that is not a savegame", func(t *testing.T) {
		svc := newTestService(&stubBackups{}, &stubHistory{})
		_, err := svc.Apply(t.TempDir(), &save.Changes{})
		var serr *save.Error
		if !errors.As(err, &serr) || serr.Code != save.CodeSavegameNotFound {
			t.Errorf("error = %v, want code %s", err, save.CodeSavegameNotFound)
		}
	})
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
