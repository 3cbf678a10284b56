package domain

import "time"

// コマ（曜日・時限）と年間行事予定の突き合わせによる授業時数の算出。
// すべて純粋関数で、同じ入力に対して常に同じ結果を返し、入力を変更しない。

// CountClassSlots は各コマについて「曜日が一致し、かつその時限が実施される日」を数え、
// 全コマ分を合算する。同じ曜日の別時限はそれぞれ独立に加算される（1コマ=1時数）。
func CountClassSlots(days []ValidSchoolDay, slots []ClassSlot) int {
	total := 0
	for _, slot := range slots {
		for _, day := range days {
			if day.DayOfWeek == slot.Weekday && day.HasPeriod(slot.Period) {
				total++
			}
		}
	}
	return total
}

// CountFutureClassSlots は基準日の 0:00 以降の日に限定した CountClassSlots。
// 基準日は呼び出し側が明示的に渡す（既定値の解決は最外層で行う）。
func CountFutureClassSlots(days []ValidSchoolDay, slots []ClassSlot, reference time.Time) int {
	cutoff := StartOfDay(reference)
	total := 0
	for _, slot := range slots {
		for _, day := range days {
			if day.Date.Before(cutoff) {
				continue
			}
			if day.DayOfWeek == slot.Weekday && day.HasPeriod(slot.Period) {
				total++
			}
		}
	}
	return total
}

// CountClassDays は授業実施日のうち指定曜日に当たる日数を数える。
// 時限を持たない旧形式（内容列空白方式）の日単位カウント用。
func CountClassDays(days []ValidSchoolDay, weekdays []int) int {
	set := map[int]struct{}{}
	for _, w := range weekdays {
		if w >= 0 && w <= 6 {
			set[w] = struct{}{}
		}
	}
	count := 0
	for _, day := range days {
		if _, ok := set[day.DayOfWeek]; ok {
			count++
		}
	}
	return count
}

// AdjustedHours は時数増減を適用する。結果は 0 未満にならない。
func AdjustedHours(base int, adj Adjustment) int {
	return max(0, base+adj.Add-adj.Subtract)
}

// CalcAdjustedSubjectHours は科目単位の修正時数を返す。
// 修正時数 = 予定時数 − 休講分 + 交換授業の増減（0 未満にはしない）。
func CalcAdjustedSubjectHours(planned, minus, exchange int) int {
	return max(0, planned-minus+exchange)
}

// ComputeClassResult は1授業分の算出結果をまとめる。
// 行事予定・コマが空の場合はすべて 0 になり、エラーにはならない。
func ComputeClassResult(days []ValidSchoolDay, rec ClassRecord, specialConsideration bool, reference time.Time) ClassResult {
	slots := rec.Class.Slots()
	base := CountClassSlots(days, slots)
	total := AdjustedHours(base, rec.Adjustment)
	required := ceilRatio(total, RequiredRatio(specialConsideration))

	faceToFace := 0
	if specialConsideration {
		// 通常比率と緩和比率の差分が、緩和時でも対面で出席すべき日数
		faceToFace = max(0, ceilRatio(total, RatioNormal)-ceilRatio(total, RatioSpecial))
	}

	remaining := CountFutureClassSlots(days, slots, reference)
	supplementary := max(0, (required-rec.CurrentAttendance)-remaining)

	return ClassResult{
		Class:               rec.Class,
		TotalHours:          total,
		RequiredAttendance:  required,
		IsSpecialCare:       specialConsideration,
		FaceToFaceDays:      faceToFace,
		CurrentAttendance:   rec.CurrentAttendance,
		RemainingHours:      remaining,
		SupplementaryNeeded: supplementary,
	}
}

// ComputeClassResults は登録順を保ったまま全授業分を再計算する。
func ComputeClassResults(days []ValidSchoolDay, records []ClassRecord, specialConsideration bool, reference time.Time) []ClassResult {
	results := make([]ClassResult, 0, len(records))
	for _, rec := range records {
		results = append(results, ComputeClassResult(days, rec, specialConsideration, reference))
	}
	return results
}
