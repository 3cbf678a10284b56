package infrastructure

// 年間行事予定CSVのパーサ。手作業で管理された表計算の書き出しを想定し、
// 壊れた行はエラーにせず読み飛ばす。ファイル全体が CSV として読めない
// 場合だけエラーを返す。

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"attendance-calc/domain"
)

// ScheduleDialect は年間行事予定CSVの形式。過去版と互換の無い形式が複数あるため
// 明示的に選択する。既定は現行のトークン方式。
type ScheduleDialect int

const (
	// DialectPeriodToken は現行形式。A列=日付（曜日の括弧書き付き）、
	// C〜H列=1〜6限で、セルが「授業」と完全一致する時限のみ稼働とみなす。
	DialectPeriodToken ScheduleDialect = iota
	// DialectContentBlank は旧形式。A列=日付（YYYY-MM-DD / YYYY/MM/DD）、
	// B列=内容で、内容が空白の日を授業実施日とみなす。時限情報は持たない。
	DialectContentBlank
)

// ClassToken は時限セルで「授業実施」を意味するリテラル。
// 空白以外の他の記述（行事名など）は授業として数えない。
const ClassToken = "授業"

var (
	weekdayMarkerRe = regexp.MustCompile(`[（(]\s*([日月火水木金土])\s*[)）]`)
	monthDayKanjiRe = regexp.MustCompile(`(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	monthDayPlainRe = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})`)
	fullDateRe      = regexp.MustCompile(`^(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})$`)
	headerKeywordRe = regexp.MustCompile(`(?i)日付|月日|内容|行事|date`)
)

var weekdayIndex = map[string]int{
	"日": 0, "月": 1, "火": 2, "水": 3, "木": 4, "金": 5, "土": 6,
}

// ScheduleParser は年間行事予定を ValidSchoolDay のリストに変換する。
type ScheduleParser struct {
	Dialect ScheduleDialect
	// AcademicYear は年度（4月〜翌3月）。月日しか持たない日付の年を補完するのに使う。
	// 4〜12月は年度そのまま、1〜3月は年度+1 の年になる。
	AcademicYear int
}

// NewScheduleParser はパーサを生成する。
func NewScheduleParser(dialect ScheduleDialect, academicYear int) *ScheduleParser {
	return &ScheduleParser{Dialect: dialect, AcademicYear: academicYear}
}

// Parse はCSVテキストを読み取り、授業実施日を日付昇順で返す。
// 行単位の異常は読み飛ばし、CSVとして分解できない場合のみエラー。
func (p *ScheduleParser) Parse(r io.Reader) ([]domain.ValidSchoolDay, error) {
	rows, err := ReadCSVRows(r)
	if err != nil {
		return nil, err
	}
	return p.ParseRows(rows), nil
}

// ParseRows はセルの行列（CSV・XLS・HTML表のいずれ由来でも）を解析する。
func (p *ScheduleParser) ParseRows(rows [][]string) []domain.ValidSchoolDay {
	if p.Dialect == DialectContentBlank {
		return p.parseContentBlank(rows)
	}
	return p.parsePeriodToken(rows)
}

// ReadCSVRows はCSVテキストを行列に分解する。列数の揺れは許容する。
func ReadCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSVの解析に失敗しました: %w", err)
	}
	return rows, nil
}

func (p *ScheduleParser) parsePeriodToken(rows [][]string) []domain.ValidSchoolDay {
	days := []domain.ValidSchoolDay{}
	seenRow := false

	for _, row := range rows {
		if rowBlank(row) {
			continue
		}
		dateCell := strings.TrimSpace(cellAt(row, 0))
		if !seenRow {
			seenRow = true
			// 見出し行: 先頭セルがキーワードに一致し、曜日の括弧書きを含まない
			if headerKeywordRe.MatchString(dateCell) && !weekdayMarkerRe.MatchString(dateCell) {
				continue
			}
		}
		if dateCell == "" {
			continue
		}
		marker := weekdayMarkerRe.FindStringSubmatch(dateCell)
		if marker == nil {
			continue
		}

		periods := []int{}
		for period := 1; period <= domain.MaxPeriod; period++ {
			// 時限の列はC〜H（添字 = 時限+1）
			if strings.TrimSpace(cellAt(row, period+1)) == ClassToken {
				periods = append(periods, period)
			}
		}
		if len(periods) == 0 {
			continue
		}

		days = append(days, domain.ValidSchoolDay{
			DateStr:       dateCell,
			DayOfWeek:     weekdayIndex[marker[1]],
			Date:          p.sortableDate(dateCell),
			ActivePeriods: periods,
		})
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

func (p *ScheduleParser) parseContentBlank(rows [][]string) []domain.ValidSchoolDay {
	days := []domain.ValidSchoolDay{}

	for _, row := range rows {
		if rowBlank(row) {
			continue
		}
		date, ok := parseFullDate(cellAt(row, 0))
		if !ok {
			// 見出し行も日付として読めないのでここで落ちる
			continue
		}
		if strings.TrimSpace(cellAt(row, 1)) != "" {
			continue
		}
		days = append(days, domain.ValidSchoolDay{
			DateStr:   domain.DateKey(date),
			DayOfWeek: int(date.Weekday()),
			Date:      date,
		})
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// sortableDate は日付文字列から月日を取り出し、年度で年を補完した日付を返す。
// 取り出せない場合はゼロ値を返して先頭に並べ、エラーにはしない。
func (p *ScheduleParser) sortableDate(dateCell string) time.Time {
	m := monthDayKanjiRe.FindStringSubmatch(dateCell)
	if m == nil {
		m = monthDayPlainRe.FindStringSubmatch(dateCell)
	}
	if m == nil {
		return time.Time{}
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}
	}
	year := p.AcademicYear
	if month <= 3 {
		year++
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
}

func parseFullDate(s string) (time.Time, bool) {
	m := fullDateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// SniffDialect は行列の形から形式を推定する。曜日の括弧書きと「授業」トークンを
// 持つ行があれば現行形式、A列が完全な日付なら旧形式。判定できなければ現行形式。
func SniffDialect(rows [][]string) ScheduleDialect {
	sawFullDate := false
	for _, row := range rows {
		first := strings.TrimSpace(cellAt(row, 0))
		if first == "" {
			continue
		}
		if weekdayMarkerRe.MatchString(first) {
			for period := 1; period <= domain.MaxPeriod; period++ {
				if strings.TrimSpace(cellAt(row, period+1)) == ClassToken {
					return DialectPeriodToken
				}
			}
		}
		if fullDateRe.MatchString(first) {
			sawFullDate = true
		}
	}
	if sawFullDate {
		return DialectContentBlank
	}
	return DialectPeriodToken
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func rowBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
