package infrastructure

import (
	"testing"

	"attendance-calc/domain"
)

func TestExportFileName(t *testing.T) {
	tests := []struct {
		name    string
		payload ExportPayload
		want    string
	}{
		{
			name:    "通常",
			payload: ExportPayload{AcademicYear: 2025, ClassName: "2年3組", StudentName: "山田太郎"},
			want:    "2025_2年3組_山田太郎_出席状況.xlsx",
		},
		{
			name:    "使えない文字は取り除く",
			payload: ExportPayload{AcademicYear: 2025, ClassName: "2年/3組", StudentName: "山田*太郎?"},
			want:    "2025_2年3組_山田太郎_出席状況.xlsx",
		},
		{
			name:    "未入力は埋め草",
			payload: ExportPayload{AcademicYear: 2025},
			want:    "2025_未入力_未入力_出席状況.xlsx",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportFileName(tt.payload); got != tt.want {
				t.Errorf("ExportFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.SessionRecord
		want string
	}{
		{name: "日付と内容", rec: domain.SessionRecord{Date: "2025-10-12", Content: "数学プリント"}, want: "2025/10/12(数学プリント)"},
		{name: "内容なし", rec: domain.SessionRecord{Date: "2025-10-12"}, want: "2025/10/12(—)"},
		{name: "日付なし", rec: domain.SessionRecord{Content: "面談"}, want: "—(面談)"},
		{name: "両方なし", rec: domain.SessionRecord{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRecord(tt.rec); got != tt.want {
				t.Errorf("formatRecord() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinRecords(t *testing.T) {
	records := []domain.SessionRecord{
		{Date: "2025-10-12", Content: "課題"},
		{},
		{Date: "2025-10-19", Content: "面談"},
	}
	want := "2025/10/12(課題)\n2025/10/19(面談)"
	if got := joinRecords(records); got != want {
		t.Errorf("joinRecords() = %q, want %q", got, want)
	}
	if got := joinRecords(nil); got != "" {
		t.Errorf("joinRecords(nil) = %q, want 空", got)
	}
}

func TestBuildAttendanceWorkbook(t *testing.T) {
	payload := ExportPayload{
		AcademicYear:         2025,
		ReferenceDate:        "2025-10-01",
		ClassName:            "2年3組",
		StudentName:          "山田太郎",
		SpecialConsideration: true,
		Rows: []ExportRow{
			{
				Name:                "数学",
				RequiredAttendance:  20,
				CurrentAttendance:   12,
				RemainingClassDays:  6,
				SupplementaryNeeded: 2,
				SupplementaryRecords: []domain.SessionRecord{
					{Date: "2025-09-01", Content: "課題"},
				},
			},
			{Name: "英語", RequiredAttendance: 18, CurrentAttendance: 18},
		},
	}

	f, err := BuildAttendanceWorkbook(payload)
	if err != nil {
		t.Fatalf("BuildAttendanceWorkbook() error = %v", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex("出席状況"); err != nil || idx < 0 {
		t.Fatalf("シート 出席状況 が無い: idx=%d err=%v", idx, err)
	}

	tests := []struct {
		cell string
		want string
	}{
		{cell: "A1", want: "対象年度"},
		{cell: "B1", want: "2025"},
		{cell: "B2", want: "2025-10-01"},
		{cell: "B3", want: "2年3組"},
		{cell: "B4", want: "山田太郎"},
		{cell: "B5", want: "ON"},
		{cell: "A7", want: "授業名"},
		{cell: "G7", want: "対面授業記録"},
		{cell: "A8", want: "数学"},
		{cell: "B8", want: "20"},
		{cell: "F8", want: "2025/09/01(課題)"},
		{cell: "A9", want: "英語"},
		{cell: "D9", want: "0"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue("出席状況", tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.cell, got, tt.want)
		}
	}
}
