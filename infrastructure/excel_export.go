package infrastructure

// 出席状況の印刷用Excel出力。
// 基本情報ブロック（対象年度・基準日・クラス・氏名・特別な配慮）と
// 授業ごとの明細テーブルを1シートにまとめ、A4横向き1ページに収める。

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"attendance-calc/domain"
)

// ExportRow は明細テーブルの1授業分。
type ExportRow struct {
	Name                 string
	RequiredAttendance   int
	CurrentAttendance    int
	RemainingClassDays   int
	SupplementaryNeeded  int
	SupplementaryRecords []domain.SessionRecord
	FaceToFaceRecords    []domain.SessionRecord
}

// ExportPayload は出力に必要な情報一式。
type ExportPayload struct {
	AcademicYear         int
	ReferenceDate        string // YYYY-MM-DD
	ClassName            string
	StudentName          string
	SpecialConsideration bool
	Rows                 []ExportRow
}

const exportSheetName = "出席状況"

var exportHeaders = []string{
	"授業名",
	"必要な出席日数",
	"現在の出席実績",
	"残り授業日数",
	"補修が必要な日数",
	"補修実施記録",
	"対面授業記録",
}

var exportColumnWidths = []float64{22, 14, 14, 14, 16, 36, 36}

var fileNameSanitizer = strings.NewReplacer(
	"/", "", "\\", "", ":", "", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
)

func sanitizeFileName(s string) string {
	cleaned := strings.TrimSpace(fileNameSanitizer.Replace(s))
	if cleaned == "" {
		return "未入力"
	}
	return cleaned
}

// ExportFileName はファイル名「[年度]_[クラス名]_[生徒氏名]_出席状況.xlsx」を組み立てる。
// ファイル名に使えない文字は取り除く。
func ExportFileName(p ExportPayload) string {
	parts := []string{
		strconv.Itoa(p.AcademicYear),
		sanitizeFileName(p.ClassName),
		sanitizeFileName(p.StudentName),
	}
	return strings.Join(parts, "_") + "_出席状況.xlsx"
}

// formatRecord は「2025/10/12(内容)」形式の1件分の文字列を作る。
func formatRecord(rec domain.SessionRecord) string {
	if rec.Date == "" && strings.TrimSpace(rec.Content) == "" {
		return ""
	}
	date := "—"
	if rec.Date != "" {
		date = strings.ReplaceAll(rec.Date, "-", "/")
	}
	content := strings.TrimSpace(rec.Content)
	if content == "" {
		content = "—"
	}
	return date + "(" + content + ")"
}

func joinRecords(records []domain.SessionRecord) string {
	parts := []string{}
	for _, rec := range records {
		if s := formatRecord(rec); s != "" && s != "—(—)" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// BuildAttendanceWorkbook はペイロードからワークブックを組み立てる。
func BuildAttendanceWorkbook(p ExportPayload) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	landscape := "landscape"
	a4 := 9
	one := 1
	if err := f.SetPageLayout(exportSheetName, &excelize.PageLayoutOptions{
		Orientation: &landscape,
		Size:        &a4,
		FitToWidth:  &one,
		FitToHeight: &one,
	}); err != nil {
		return nil, err
	}

	thin := []excelize.Border{
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
	}
	metaLabelStyle, err := f.NewStyle(&excelize.Style{
		Border: thin,
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E0E0E0"}},
		Font:   &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}
	metaValueStyle, err := f.NewStyle(&excelize.Style{Border: thin})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Border:    thin,
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "middle"},
	})
	if err != nil {
		return nil, err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Border:    thin,
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "middle"},
	})
	if err != nil {
		return nil, err
	}

	// 基本情報（1〜5行目）
	special := "OFF"
	if p.SpecialConsideration {
		special = "ON"
	}
	meta := []struct {
		label string
		value interface{}
	}{
		{"対象年度", p.AcademicYear},
		{"基準日", orDash(p.ReferenceDate)},
		{"クラス", orDash(p.ClassName)},
		{"生徒氏名", orDash(p.StudentName)},
		{"特別な配慮（1/2）", special},
	}
	for i, m := range meta {
		row := i + 1
		labelCell := "A" + strconv.Itoa(row)
		valueCell := "B" + strconv.Itoa(row)
		if err := f.SetCellValue(exportSheetName, labelCell, m.label); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheetName, valueCell, m.value); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(exportSheetName, labelCell, labelCell, metaLabelStyle); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(exportSheetName, valueCell, valueCell, metaValueStyle); err != nil {
			return nil, err
		}
	}

	// 明細テーブル（7行目〜）
	const dataStartRow = 7
	for c, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(c+1, dataStartRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(exportSheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, row := range p.Rows {
		r := dataStartRow + 1 + i
		values := []interface{}{
			orDash(row.Name),
			row.RequiredAttendance,
			row.CurrentAttendance,
			row.RemainingClassDays,
			row.SupplementaryNeeded,
			joinRecords(row.SupplementaryRecords),
			joinRecords(row.FaceToFaceRecords),
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheetName, cell, v); err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(exportSheetName, cell, cell, cellStyle); err != nil {
				return nil, err
			}
		}
	}

	for c, width := range exportColumnWidths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheetName, col, col, width); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteAttendanceExcel はワークブックを組み立てて書き出す。
func WriteAttendanceExcel(w io.Writer, p ExportPayload) error {
	f, err := BuildAttendanceWorkbook(p)
	if err != nil {
		return fmt.Errorf("Excelの組み立てに失敗しました: %w", err)
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("Excelの書き出しに失敗しました: %w", err)
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
