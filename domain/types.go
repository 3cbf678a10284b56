package domain

import (
	"strconv"
	"strings"
	"time"
)

// 曜日は 0=日曜 〜 6=土曜、時限は 1〜6 で表す。
const (
	MaxSlots  = 4 // 1授業あたりの曜日・時限の組の上限
	MaxPeriod = 6
)

// WeekdayLabels は曜日番号に対応する漢字表記
var WeekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// ValidSchoolDay は年間行事予定のうち、少なくとも1時限の授業が実施される日を表す。
// 1回のパース結果の中でのみ有効で、生成後に変更されない。
type ValidSchoolDay struct {
	DateStr       string    // 元データの日付表示文字列（例 "4月8日(火)"）
	DayOfWeek     int       // 0=日 〜 6=土
	Date          time.Time // 並び替え・期間判定専用。年度から補完するため実日付と一致しない場合がある
	ActivePeriods []int     // 実施される時限（1〜6、昇順）。旧形式では空
}

// HasPeriod は指定時限がこの日に実施されるかを返す。
func (d ValidSchoolDay) HasPeriod(period int) bool {
	for _, p := range d.ActivePeriods {
		if p == period {
			return true
		}
	}
	return false
}

// ClassSlot は授業の週内コマ（曜日・時限の組）を表す。
type ClassSlot struct {
	Weekday int // 0〜6
	Period  int // 1〜6
}

// RegisteredClass は登録された授業。曜日①〜④と時限①〜④は同じ添字で1セットを成し、
// どちらかが欠けている組はコマとして扱わない。
type RegisteredClass struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Weekdays [MaxSlots]*int `yaml:"weekdays"`
	Periods  [MaxSlots]*int `yaml:"periods"`
}

// Slots は曜日・時限の両方が有効な組のみを ClassSlot に変換する。
func (c RegisteredClass) Slots() []ClassSlot {
	slots := make([]ClassSlot, 0, MaxSlots)
	for i := 0; i < MaxSlots; i++ {
		w := c.Weekdays[i]
		p := c.Periods[i]
		if w != nil && *w >= 0 && *w <= 6 && p != nil && *p >= 1 && *p <= MaxPeriod {
			slots = append(slots, ClassSlot{Weekday: *w, Period: *p})
		}
	}
	return slots
}

// SlotsDisplay は「火・1限」形式の表示文字列を返す。有効な組が無ければ「—」。
func (c RegisteredClass) SlotsDisplay() string {
	parts := []string{}
	for _, s := range c.Slots() {
		parts = append(parts, WeekdayLabels[s.Weekday]+"・"+strconv.Itoa(s.Period)+"限")
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, "、")
}

// Adjustment は授業時数の手動増減。add・subtract とも 0 以上で、
// 適用結果は max(0, 基準時数 + add − subtract) となる。
type Adjustment struct {
	Add      int `yaml:"add"`
	Subtract int `yaml:"subtract"`
}

// SessionRecord は補修・対面授業の実施記録1件。
type SessionRecord struct {
	Date    string `yaml:"date"`    // YYYY-MM-DD
	Content string `yaml:"content"` // 実施内容
}

// ClassRecord は1授業分の登録内容一式（授業定義・時数増減・出席実績・実施記録）。
// 授業を削除するとこれらすべてが一緒に消える。
type ClassRecord struct {
	Class             RegisteredClass `yaml:"class"`
	Adjustment        Adjustment      `yaml:"adjustment"`
	CurrentAttendance int             `yaml:"current_attendance"`
	Supplementary     []SessionRecord `yaml:"supplementary"`
	FaceToFace        []SessionRecord `yaml:"face_to_face"`
}

// ClassResult は授業ごとの算出結果。入力が変わるたびに全体を再計算する派生値で、
// 保存はしない。
type ClassResult struct {
	Class               RegisteredClass
	TotalHours          int  // 調整適用後の総授業時数
	RequiredAttendance  int  // 必要な出席時数（比率適用・切り上げ）
	IsSpecialCare       bool // 1/2 比率（特別な配慮）が適用されたか
	FaceToFaceDays      int  // 対面で必要な日数（特別な配慮ON時のみ > 0）
	CurrentAttendance   int
	RemainingHours      int // 基準日以降に残っている授業時数
	SupplementaryNeeded int // 補修で補う必要がある日数
}

// RequiredResult は必要日数（または必要時数）と不足分。
type RequiredResult struct {
	Required  int     // 切り上げ整数
	Shortfall int     // max(0, Required − 実績)
	Ratio     float64 // 使用した比率（2/3 または 1/2）
}
