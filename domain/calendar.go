package domain

import "time"

// 授業曜日ベースのカレンダー算出。期間内の特定曜日の日数を数え、
// 必要なら祝日を除外する。

// StartOfDay はローカルの年月日だけ残して時刻を 0:00 に落とす。
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CountWeekdaysInRange は期間内（両端含む）で指定曜日の日数を数える。
// start > end のときは 0。excludeHolidays が真なら祝日の日はカウントしない。
// 祝日集合は出現した年ごとに1回だけ引く。
func CountWeekdaysInRange(start, end time.Time, weekday int, excludeHolidays bool) int {
	if weekday < 0 || weekday > 6 {
		return 0
	}
	cursor := StartOfDay(start)
	last := StartOfDay(end)
	if cursor.After(last) {
		return 0
	}

	holidaysCache := map[int]map[string]struct{}{}
	holidays := func(year int) map[string]struct{} {
		if set, ok := holidaysCache[year]; ok {
			return set
		}
		set := HolidaysForYear(year)
		holidaysCache[year] = set
		return set
	}

	count := 0
	for !cursor.After(last) {
		if int(cursor.Weekday()) == weekday {
			if excludeHolidays {
				if _, ok := holidays(cursor.Year())[DateKey(cursor)]; !ok {
					count++
				}
			} else {
				count++
			}
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return count
}

// CountWeekdaysInYear は1月1日〜12月31日を対象にした年間カウント。
func CountWeekdaysInYear(year, weekday int, excludeHolidays bool) int {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local)
	return CountWeekdaysInRange(start, end, weekday, excludeHolidays)
}

// CountWeekdaysInTerm は学期など任意の期間を指定した曜日カウント。
func CountWeekdaysInTerm(termStart, termEnd time.Time, weekday int, excludeHolidays bool) int {
	return CountWeekdaysInRange(termStart, termEnd, weekday, excludeHolidays)
}
