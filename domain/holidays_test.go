package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestIsHoliday(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{name: "元日", date: date(2025, 1, 1), want: true},
		{name: "成人の日", date: date(2025, 1, 13), want: true},
		{name: "平日", date: date(2025, 1, 2), want: false},
		{name: "テーブルにない年", date: date(1999, 1, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHoliday(tt.date); got != tt.want {
				t.Errorf("IsHoliday(%s) = %v, want %v", DateKey(tt.date), got, tt.want)
			}
		})
	}
}

func TestHolidaysForYearUnknownYear(t *testing.T) {
	if got := HolidaysForYear(1999); len(got) != 0 {
		t.Errorf("未定義の年で %d 件, want 0", len(got))
	}
}

func TestHolidaysInRange(t *testing.T) {
	got := HolidaysInRange(date(2024, 12, 31), date(2025, 1, 14))
	want := []string{"2025-01-01", "2025-01-13"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HolidaysInRange() = %v, want %v", got, want)
	}

	if got := HolidaysInRange(date(2025, 2, 1), date(2025, 1, 1)); len(got) != 0 {
		t.Errorf("開始>終了で %v, want 空", got)
	}
}

func TestSetHolidays(t *testing.T) {
	// 他テストと干渉しないよう、テーブルにない年を使う
	SetHolidays(2099, []string{"2099-05-03", "2099-01-01"})
	set := HolidaysForYear(2099)
	if len(set) != 2 {
		t.Fatalf("差し替え後 %d 件, want 2", len(set))
	}
	if !IsHoliday(date(2099, 1, 1)) {
		t.Errorf("差し替えた祝日が引けない")
	}
}

func TestDateKey(t *testing.T) {
	if got := DateKey(date(2025, 4, 8)); got != "2025-04-08" {
		t.Errorf("DateKey() = %q, want %q", got, "2025-04-08")
	}
}
