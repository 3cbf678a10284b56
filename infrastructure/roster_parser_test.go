package infrastructure

import (
	"strconv"
	"strings"
	"testing"
)

const rosterCSV = `授業名,出席数,曜日①,時限①,曜日②,時限②,曜日③,時限③,曜日④,時限④
数学,12,火,1,木,2,,,,
英語,abc,2,3,,,,,,
,5,月,1,,,,,,
国語,-2,金,9,,,,,,
`

func TestParseClassRoster(t *testing.T) {
	rows, err := ParseClassRoster(strings.NewReader(rosterCSV))
	if err != nil {
		t.Fatalf("ParseClassRoster() error = %v", err)
	}
	// 見出し行と授業名が空白の行は読み飛ばされる
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	tests := []struct {
		idx        int
		name       string
		attendance int
		weekdays   [4]*int
		periods    [4]*int
	}{
		{idx: 0, name: "数学", attendance: 12,
			weekdays: [4]*int{ip(2), ip(4), nil, nil},
			periods:  [4]*int{ip(1), ip(2), nil, nil}},
		// 曜日は数字でも指定できる。出席数が数値でなければ 0
		{idx: 1, name: "英語", attendance: 0,
			weekdays: [4]*int{ip(2), nil, nil, nil},
			periods:  [4]*int{ip(3), nil, nil, nil}},
		// 範囲外の時限は未設定扱い、負数の出席数は 0
		{idx: 2, name: "国語", attendance: 0,
			weekdays: [4]*int{ip(5), nil, nil, nil},
			periods:  [4]*int{nil, nil, nil, nil}},
	}
	for _, tt := range tests {
		row := rows[tt.idx]
		if row.Name != tt.name {
			t.Errorf("rows[%d].Name = %q, want %q", tt.idx, row.Name, tt.name)
		}
		if row.AttendanceCount != tt.attendance {
			t.Errorf("rows[%d].AttendanceCount = %d, want %d", tt.idx, row.AttendanceCount, tt.attendance)
		}
		for i := 0; i < 4; i++ {
			if !intPtrEqual(row.Weekdays[i], tt.weekdays[i]) {
				t.Errorf("rows[%d].Weekdays[%d] = %s, want %s", tt.idx, i, fmtIntPtr(row.Weekdays[i]), fmtIntPtr(tt.weekdays[i]))
			}
			if !intPtrEqual(row.Periods[i], tt.periods[i]) {
				t.Errorf("rows[%d].Periods[%d] = %s, want %s", tt.idx, i, fmtIntPtr(row.Periods[i]), fmtIntPtr(tt.periods[i]))
			}
		}
	}
}

// 見出し行なしのCSVも同じ結果になる
func TestParseClassRosterWithoutHeader(t *testing.T) {
	rows, err := ParseClassRoster(strings.NewReader("数学,12,火,1,,,,,,\n"))
	if err != nil {
		t.Fatalf("ParseClassRoster() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].Name != "数学" || rows[0].AttendanceCount != 12 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if !intPtrEqual(rows[0].Weekdays[0], ip(2)) || !intPtrEqual(rows[0].Periods[0], ip(1)) {
		t.Errorf("組① = (%s, %s), want (2, 1)", fmtIntPtr(rows[0].Weekdays[0]), fmtIntPtr(rows[0].Periods[0]))
	}
}

func TestParseClassRosterEmpty(t *testing.T) {
	rows, err := ParseClassRoster(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseClassRoster() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}

func ip(n int) *int { return &n }

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntPtr(p *int) string {
	if p == nil {
		return "nil"
	}
	return strconv.Itoa(*p)
}
