package usecases

import (
	"time"

	"attendance-calc/domain"
	"attendance-calc/infrastructure"
)

// AttendanceService は行事予定の解析と授業ごとの算出のオーケストレーションを担う。
type AttendanceService struct {
	repo ClassRepository
}

// NewAttendanceService はサービスを生成する。
func NewAttendanceService(repo ClassRepository) *AttendanceService {
	return &AttendanceService{repo: repo}
}

// ComputeResults は登録済みの全授業について算出結果を作り直す。
// 結果は派生値であり、入力が変わるたびに全体を置き換える。
func (s *AttendanceService) ComputeResults(days []domain.ValidSchoolDay, specialConsideration bool, reference time.Time) ([]domain.ClassResult, error) {
	records, err := s.repo.LoadClasses()
	if err != nil {
		return nil, err
	}
	return domain.ComputeClassResults(days, records, specialConsideration, reference), nil
}

// BuildExportPayload はExcel出力用のペイロードを組み立てる。
func (s *AttendanceService) BuildExportPayload(days []domain.ValidSchoolDay, academicYear int, className, studentName string, specialConsideration bool, reference time.Time) (infrastructure.ExportPayload, error) {
	records, err := s.repo.LoadClasses()
	if err != nil {
		return infrastructure.ExportPayload{}, err
	}

	rows := make([]infrastructure.ExportRow, 0, len(records))
	for _, rec := range records {
		result := domain.ComputeClassResult(days, rec, specialConsideration, reference)
		rows = append(rows, infrastructure.ExportRow{
			Name:                 rec.Class.Name,
			RequiredAttendance:   result.RequiredAttendance,
			CurrentAttendance:    result.CurrentAttendance,
			RemainingClassDays:   result.RemainingHours,
			SupplementaryNeeded:  result.SupplementaryNeeded,
			SupplementaryRecords: rec.Supplementary,
			FaceToFaceRecords:    rec.FaceToFace,
		})
	}

	return infrastructure.ExportPayload{
		AcademicYear:         academicYear,
		ReferenceDate:        domain.DateKey(reference),
		ClassName:            className,
		StudentName:          studentName,
		SpecialConsideration: specialConsideration,
		Rows:                 rows,
	}, nil
}

// ImportRoster は一括登録CSVの行を授業として追加し、追加件数を返す。
func (s *AttendanceService) ImportRoster(rows []infrastructure.RosterRow) (int, error) {
	added := 0
	for _, row := range rows {
		rec := domain.ClassRecord{
			Class: domain.RegisteredClass{
				Name:     row.Name,
				Weekdays: row.Weekdays,
				Periods:  row.Periods,
			},
			CurrentAttendance: row.AttendanceCount,
		}
		if _, err := s.repo.AddClass(rec); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
