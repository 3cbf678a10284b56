package infrastructure

import (
	"path/filepath"
	"testing"

	"attendance-calc/domain"
)

func newTestRepo(t *testing.T) *YAMLClassRepository {
	t.Helper()
	return NewYAMLClassRepository(filepath.Join(t.TempDir(), "classes.yaml"))
}

func testRecord(name string) domain.ClassRecord {
	rec := domain.ClassRecord{
		Class:             domain.RegisteredClass{Name: name},
		CurrentAttendance: 3,
	}
	rec.Class.Weekdays[0] = ip(2)
	rec.Class.Periods[0] = ip(1)
	return rec
}

func TestLoadClassesMissingFile(t *testing.T) {
	repo := newTestRepo(t)
	records, err := repo.LoadClasses()
	if err != nil {
		t.Fatalf("LoadClasses() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestAddAndLoadClasses(t *testing.T) {
	repo := newTestRepo(t)

	added, err := repo.AddClass(testRecord("数学"))
	if err != nil {
		t.Fatalf("AddClass() error = %v", err)
	}
	if added.Class.ID == "" {
		t.Errorf("IDが採番されていない")
	}
	if _, err := repo.AddClass(testRecord("英語")); err != nil {
		t.Fatalf("AddClass() error = %v", err)
	}

	records, err := repo.LoadClasses()
	if err != nil {
		t.Fatalf("LoadClasses() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	// 登録順が保存される
	if records[0].Class.Name != "数学" || records[1].Class.Name != "英語" {
		t.Errorf("順序が崩れている: %q, %q", records[0].Class.Name, records[1].Class.Name)
	}
	// YAML往復でコマ情報が保たれる
	if !intPtrEqual(records[0].Class.Weekdays[0], ip(2)) || !intPtrEqual(records[0].Class.Periods[0], ip(1)) {
		t.Errorf("コマ情報が失われた: %+v", records[0].Class)
	}
	if records[0].CurrentAttendance != 3 {
		t.Errorf("CurrentAttendance = %d, want 3", records[0].CurrentAttendance)
	}
}

func TestAddClassDuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	rec := testRecord("数学")
	rec.Class.ID = "fixed"
	if _, err := repo.AddClass(rec); err != nil {
		t.Fatalf("AddClass() error = %v", err)
	}
	if _, err := repo.AddClass(rec); err == nil {
		t.Errorf("重複IDなのにエラーにならない")
	}
}

func TestGetUpdateClass(t *testing.T) {
	repo := newTestRepo(t)
	added, err := repo.AddClass(testRecord("数学"))
	if err != nil {
		t.Fatalf("AddClass() error = %v", err)
	}
	if _, err := repo.AddClass(testRecord("英語")); err != nil {
		t.Fatalf("AddClass() error = %v", err)
	}

	got, err := repo.GetClass(added.Class.ID)
	if err != nil {
		t.Fatalf("GetClass() error = %v", err)
	}
	if got.Class.Name != "数学" {
		t.Errorf("Name = %q, want 数学", got.Class.Name)
	}

	got.Adjustment = domain.Adjustment{Add: 2, Subtract: 1}
	got.CurrentAttendance = 7
	got.FaceToFace = append(got.FaceToFace, domain.SessionRecord{Date: "2025-10-12", Content: "面談"})
	if err := repo.UpdateClass(added.Class.ID, got); err != nil {
		t.Fatalf("UpdateClass() error = %v", err)
	}

	records, err := repo.LoadClasses()
	if err != nil {
		t.Fatalf("LoadClasses() error = %v", err)
	}
	// 更新しても位置は変わらない
	if records[0].Class.ID != added.Class.ID {
		t.Errorf("更新で位置が変わった")
	}
	if records[0].Adjustment.Add != 2 || records[0].CurrentAttendance != 7 {
		t.Errorf("更新内容が反映されていない: %+v", records[0])
	}
	if len(records[0].FaceToFace) != 1 || records[0].FaceToFace[0].Content != "面談" {
		t.Errorf("実施記録が保存されていない: %+v", records[0].FaceToFace)
	}

	if _, err := repo.GetClass("no-such-id"); err == nil {
		t.Errorf("存在しないIDなのにエラーにならない")
	}
	if err := repo.UpdateClass("no-such-id", got); err == nil {
		t.Errorf("存在しないIDの更新がエラーにならない")
	}
}

// 授業を削除すると増減・実績・実施記録も一緒に消える
func TestDeleteClassCascades(t *testing.T) {
	repo := newTestRepo(t)
	rec := testRecord("数学")
	rec.Supplementary = []domain.SessionRecord{{Date: "2025-11-01", Content: "課題"}}
	added, err := repo.AddClass(rec)
	if err != nil {
		t.Fatalf("AddClass() error = %v", err)
	}
	if _, err := repo.AddClass(testRecord("英語")); err != nil {
		t.Fatalf("AddClass() error = %v", err)
	}

	if err := repo.DeleteClass(added.Class.ID); err != nil {
		t.Fatalf("DeleteClass() error = %v", err)
	}
	records, err := repo.LoadClasses()
	if err != nil {
		t.Fatalf("LoadClasses() error = %v", err)
	}
	if len(records) != 1 || records[0].Class.Name != "英語" {
		t.Errorf("records = %+v, want 英語のみ", records)
	}
	if _, err := repo.GetClass(added.Class.ID); err == nil {
		t.Errorf("削除後もIDが引ける")
	}

	if err := repo.DeleteClass("no-such-id"); err == nil {
		t.Errorf("存在しないIDの削除がエラーにならない")
	}
}

func TestNewClassIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewClassID()
		if len(id) != 10 {
			t.Fatalf("len(id) = %d, want 10", len(id))
		}
		if seen[id] {
			t.Fatalf("IDが衝突した: %s", id)
		}
		seen[id] = true
	}
}
