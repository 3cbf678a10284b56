package domain

import "math"

// 進級・単位認定に必要な日数／時数の計算。
// 通常は 2/3、特別な配慮がある場合は 1/2 の比率で切り上げる。
const (
	RatioNormal  = 2.0 / 3.0
	RatioSpecial = 1.0 / 2.0
)

// RequiredRatio は特別な配慮の有無に応じた比率を返す。
func RequiredRatio(specialConsideration bool) float64 {
	if specialConsideration {
		return RatioSpecial
	}
	return RatioNormal
}

func ceilRatio(n int, ratio float64) int {
	return int(math.Ceil(float64(n) * ratio))
}

// CalcRequiredDays は予定日数から必要な登校日数を算出する（小数点切り上げ）。
// 不足日数 = max(0, required − actual)。エラー条件は無い。
func CalcRequiredDays(scheduledDays, actualDays int, specialConsideration bool) RequiredResult {
	ratio := RequiredRatio(specialConsideration)
	required := ceilRatio(scheduledDays, ratio)
	return RequiredResult{
		Required:  required,
		Shortfall: max(0, required-actualDays),
		Ratio:     ratio,
	}
}

// CalcRequiredHours は予定時数から必要な授業時数を算出する。計算は CalcRequiredDays と同じ。
func CalcRequiredHours(scheduledHours, actualHours int, specialConsideration bool) RequiredResult {
	return CalcRequiredDays(scheduledHours, actualHours, specialConsideration)
}
