package domain

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// 国民の祝日（日本）。祝日法に基づく祝日のみを年ごとに YYYY-MM-DD で保持する。
// 未定義の年は空集合を返し、エラーにはしない。
// 内閣府CSVから取得した年は SetHolidays で差し替えられる。
var holidaysByYear = map[int][]string{
	2024: {
		"2024-01-01", "2024-01-08", "2024-02-11", "2024-02-12", "2024-02-23",
		"2024-03-20", "2024-04-29", "2024-05-03", "2024-05-04", "2024-05-05", "2024-05-06",
		"2024-07-15", "2024-08-11", "2024-09-16", "2024-09-22", "2024-09-23",
		"2024-10-14", "2024-11-03", "2024-11-04", "2024-11-23",
	},
	2025: {
		"2025-01-01", "2025-01-13", "2025-02-11", "2025-02-23", "2025-02-24",
		"2025-03-20", "2025-04-29", "2025-05-03", "2025-05-04", "2025-05-05", "2025-05-06",
		"2025-07-21", "2025-08-11", "2025-09-15", "2025-09-23", "2025-09-24",
		"2025-10-13", "2025-11-03", "2025-11-23", "2025-11-24",
	},
	2026: {
		"2026-01-01", "2026-01-12", "2026-02-11", "2026-02-23",
		"2026-03-20", "2026-04-29", "2026-05-03", "2026-05-04", "2026-05-05", "2026-05-06",
		"2026-07-20", "2026-08-11", "2026-09-21", "2026-09-22", "2026-09-23",
		"2026-10-12", "2026-11-03", "2026-11-23",
	},
}

var holidaysMu sync.RWMutex

// DateKey はローカルの年月日フィールドのみから YYYY-MM-DD を作る。
// タイムスタンプ経由の変換はタイムゾーンで日付が1日ずれるため使わない。
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// HolidaysForYear は指定年の祝日集合を返す。未定義の年は空集合。
func HolidaysForYear(year int) map[string]struct{} {
	holidaysMu.RLock()
	defer holidaysMu.RUnlock()

	set := make(map[string]struct{}, len(holidaysByYear[year]))
	for _, d := range holidaysByYear[year] {
		set[d] = struct{}{}
	}
	return set
}

// SetHolidays は指定年の祝日リストを差し替える。
func SetHolidays(year int, dates []string) {
	holidaysMu.Lock()
	defer holidaysMu.Unlock()

	sorted := append([]string(nil), dates...)
	sort.Strings(sorted)
	holidaysByYear[year] = sorted
}

// IsHoliday は日付が祝日かどうかを返す。
func IsHoliday(t time.Time) bool {
	_, ok := HolidaysForYear(t.Year())[DateKey(t)]
	return ok
}

// HolidaysInRange は期間内（両端含む）の祝日を昇順で返す。
func HolidaysInRange(start, end time.Time) []string {
	result := []string{}
	if start.After(end) {
		return result
	}
	startKey := DateKey(start)
	endKey := DateKey(end)
	for y := start.Year(); y <= end.Year(); y++ {
		for d := range HolidaysForYear(y) {
			if d >= startKey && d <= endKey {
				result = append(result, d)
			}
		}
	}
	sort.Strings(result)
	return result
}
