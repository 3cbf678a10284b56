package infrastructure

// 授業一括登録CSVのパーサ。
// A列=授業名、B列=授業出席数（初期値）、以降 C/D・E/F・G/H・I/J 列が
// 曜日①時限①〜曜日④時限④の4組。ヘッダー行のあり・なし両対応。

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"attendance-calc/domain"
)

// RosterRow は一括登録CSVの1行分。登録順がそのまま表示順になるため順序を保つ。
type RosterRow struct {
	Name            string
	AttendanceCount int
	Weekdays        [domain.MaxSlots]*int
	Periods         [domain.MaxSlots]*int
}

var rosterHeaderRe = regexp.MustCompile(`(?i)授業|名前|科目|name|class`)

// ParseClassRoster は一括登録CSVを解析する。授業名が空白の行は読み飛ばす。
func ParseClassRoster(r io.Reader) ([]RosterRow, error) {
	rows, err := ReadCSVRows(r)
	if err != nil {
		return nil, err
	}
	return ParseClassRosterRows(rows), nil
}

// ParseClassRosterRows は行列形式の一括登録データを解析する。
func ParseClassRosterRows(rows [][]string) []RosterRow {
	result := []RosterRow{}
	seenRow := false

	for _, row := range rows {
		if rowBlank(row) {
			continue
		}
		if !seenRow {
			seenRow = true
			if isRosterHeader(row) {
				continue
			}
		}
		name := strings.TrimSpace(cellAt(row, 0))
		if name == "" {
			continue
		}

		parsed := RosterRow{
			Name:            name,
			AttendanceCount: parseAttendanceCell(cellAt(row, 1)),
		}
		for i := 0; i < domain.MaxSlots; i++ {
			parsed.Weekdays[i] = parseWeekdayCell(cellAt(row, 2+i*2))
			parsed.Periods[i] = parsePeriodCell(cellAt(row, 3+i*2))
		}
		result = append(result, parsed)
	}
	return result
}

func isRosterHeader(row []string) bool {
	first := strings.TrimSpace(cellAt(row, 0))
	second := strings.TrimSpace(cellAt(row, 1))
	if rosterHeaderRe.MatchString(first) {
		return true
	}
	return strings.Contains(second, "出席") || strings.Contains(second, "曜日")
}

// parseWeekdayCell は曜日セルを解釈する。漢字1文字（日〜土）または 0〜6 の数字を
// 受け付け、それ以外は「未設定」として nil を返す。
func parseWeekdayCell(s string) *int {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	if w, ok := weekdayIndex[v]; ok {
		return &w
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 6 {
		return nil
	}
	return &n
}

// parsePeriodCell は時限セルを解釈する。1〜6 の数字のみ有効。
func parsePeriodCell(s string) *int {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > domain.MaxPeriod {
		return nil
	}
	return &n
}

// parseAttendanceCell は出席数セルを解釈する。空白・数値以外・負数は 0 にする。
func parseAttendanceCell(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
