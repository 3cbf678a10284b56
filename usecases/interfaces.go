package usecases

import "attendance-calc/domain"

// ClassRepository は登録授業の保存先を抽象化する。
type ClassRepository interface {
	LoadClasses() ([]domain.ClassRecord, error)
	AddClass(rec domain.ClassRecord) (domain.ClassRecord, error)
	GetClass(id string) (domain.ClassRecord, error)
	UpdateClass(id string, updated domain.ClassRecord) error
	DeleteClass(id string) error
}

// HolidayRefresher は祝日テーブルの更新手段を抽象化する。
type HolidayRefresher interface {
	Refresh(fromYear, toYear int) (int, error)
}
