package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"attendance-calc/domain"
	"attendance-calc/infrastructure"
	"attendance-calc/usecases"
)

// Server は行事予定のアップロードから算出結果の表示・出力までを提供する。
// 解析済みの行事予定と特別な配慮フラグはサーバが唯一の持ち主で、
// 表示はすべてここから再計算して作る。
type Server struct {
	repo    usecases.ClassRepository
	service *usecases.AttendanceService
	fetcher usecases.HolidayRefresher

	mu           sync.Mutex
	days         []domain.ValidSchoolDay
	academicYear int
	special      bool
	className    string
	studentName  string
	warning      string

	server *http.Server
}

// ResultsResponse は /results のJSONレスポンス
type ResultsResponse struct {
	ReferenceDate        string        `json:"referenceDate"`
	SpecialConsideration bool          `json:"specialConsideration"`
	ScheduleDays         int           `json:"scheduleDays"`
	Results              []ResultEntry `json:"results"`
}

// ResultEntry は /results の1授業分
type ResultEntry struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	TotalHours          int    `json:"totalHours"`
	RequiredAttendance  int    `json:"requiredAttendance"`
	CurrentAttendance   int    `json:"currentAttendance"`
	RemainingHours      int    `json:"remainingHours"`
	SupplementaryNeeded int    `json:"supplementaryNeeded"`
	FaceToFaceDays      int    `json:"faceToFaceDays"`
	GaugeStatus         string `json:"gaugeStatus"`
}

// WeekdaysResponse は /weekdays のJSONレスポンス
type WeekdaysResponse struct {
	Weekday  int      `json:"weekday"`
	Count    int      `json:"count"`
	Holidays []string `json:"holidays"`
}

// NewServer はサーバを生成する。
func NewServer(repo usecases.ClassRepository, fetcher usecases.HolidayRefresher) *Server {
	return &Server{
		repo:         repo,
		service:      usecases.NewAttendanceService(repo),
		fetcher:      fetcher,
		academicYear: currentAcademicYear(time.Now()),
	}
}

// currentAcademicYear は日付から年度（4月始まり）を求める。
func currentAcademicYear(t time.Time) int {
	if t.Month() <= time.March {
		return t.Year() - 1
	}
	return t.Year()
}

// Start はHTTPサーバを起動する。
func (s *Server) Start(port int) error {
	http.HandleFunc("/", s.handleIndex)
	http.HandleFunc("/schedule", s.handleScheduleUpload)
	http.HandleFunc("/classes", s.handleAddClass)
	http.HandleFunc("/classes/import", s.handleImportClasses)
	http.HandleFunc("/classes/edit/", s.handleEditClass)
	http.HandleFunc("/classes/delete/", s.handleDeleteClass)
	http.HandleFunc("/classes/records/", s.handleAddRecord)
	http.HandleFunc("/special", s.handleSpecial)
	http.HandleFunc("/results", s.handleResults)
	http.HandleFunc("/weekdays", s.handleWeekdays)
	http.HandleFunc("/export", s.handleExport)
	http.HandleFunc("/holidays/refresh", s.handleHolidaysRefresh)
	http.HandleFunc("/shutdown", s.handleShutdown)
	http.HandleFunc("/static/", s.handleStatic)

	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{Addr: addr}
	log.Printf("🚀 サーバを起動しました http://localhost%s", addr)
	return s.server.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	tmpl, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		log.Printf("テンプレートの読み込みに失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	days := s.days
	special := s.special
	academicYear := s.academicYear
	className := s.className
	studentName := s.studentName
	warning := s.warning
	s.mu.Unlock()

	results, err := s.service.ComputeResults(days, special, time.Now())
	if err != nil {
		log.Printf("算出に失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}

	dashboard, err := RenderDashboard(results, special, len(days) > 0)
	if err != nil {
		log.Printf("ダッシュボードの生成に失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}

	data := struct {
		DaysCount            int
		AcademicYear         int
		SpecialConsideration bool
		ClassName            string
		StudentName          string
		Warning              string
		Dashboard            template.HTML
		SlotIndexes          []int
	}{
		DaysCount:            len(days),
		AcademicYear:         academicYear,
		SpecialConsideration: special,
		ClassName:            className,
		StudentName:          studentName,
		Warning:              warning,
		Dashboard:            template.HTML(dashboard),
		SlotIndexes:          []int{1, 2, 3, 4},
	}
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("テンプレートの描画に失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
	}
}

// handleScheduleUpload は年間行事予定（CSV・XLS・HTML表）を読み込む。
// 形式はフォームで明示するか「自動判定」を選ぶ。行単位の不備は読み飛ばし、
// 有効行が1件も無かった場合のみ警告として表示する。
func (s *Server) handleScheduleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "許可されていないメソッドです", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, "フォームの解析に失敗しました", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "ファイルが選択されていません", http.StatusBadRequest)
		return
	}
	defer file.Close()

	academicYear, err := strconv.Atoi(r.FormValue("academic_year"))
	if err != nil || academicYear < 1900 {
		academicYear = currentAcademicYear(time.Now())
	}

	rows, err := readUploadedRows(file, header.Filename)
	if err != nil {
		log.Printf("行事予定の読み込みに失敗: %v", err)
		s.setSchedule(nil, academicYear, err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	dialect := infrastructure.DialectPeriodToken
	switch r.FormValue("dialect") {
	case "legacy":
		dialect = infrastructure.DialectContentBlank
	case "auto":
		dialect = infrastructure.SniffDialect(rows)
	}

	parser := infrastructure.NewScheduleParser(dialect, academicYear)
	days := parser.ParseRows(rows)

	warning := ""
	if len(days) == 0 {
		warning = "授業実施日（C〜H列のいずれかに「授業」が入力された行）がありませんでした。"
	}
	s.setSchedule(days, academicYear, warning)
	log.Printf("授業実施データ %d 件を読み込みました", len(days))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) setSchedule(days []domain.ValidSchoolDay, academicYear int, warning string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = days
	s.academicYear = academicYear
	s.warning = warning
}

// readUploadedRows は拡張子に応じた読み込み方でセルの行列を得る。
func readUploadedRows(file io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("ファイルの読み込みに失敗しました: %w", err)
		}
		return infrastructure.ReadXLSRows(bytes.NewReader(data), "")
	case ".html", ".htm":
		return infrastructure.ReadHTMLTableRows(file)
	default:
		return infrastructure.ReadCSVRows(file)
	}
}

func (s *Server) handleAddClass(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "許可されていないメソッドです", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "フォームの解析に失敗しました", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Error(w, "授業名は必須です", http.StatusBadRequest)
		return
	}

	rec := domain.ClassRecord{
		Class:             domain.RegisteredClass{Name: name},
		CurrentAttendance: clampNonNegative(r.FormValue("attendance")),
	}
	for i := 0; i < domain.MaxSlots; i++ {
		rec.Class.Weekdays[i] = parseOptionalInt(r.FormValue(fmt.Sprintf("weekday%d", i+1)), 0, 6)
		rec.Class.Periods[i] = parseOptionalInt(r.FormValue(fmt.Sprintf("period%d", i+1)), 1, domain.MaxPeriod)
	}

	if _, err := s.repo.AddClass(rec); err != nil {
		log.Printf("授業の追加に失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleImportClasses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "許可されていないメソッドです", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, "フォームの解析に失敗しました", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "ファイルが選択されていません", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := infrastructure.ParseClassRoster(file)
	if err != nil {
		log.Printf("授業CSVの解析に失敗: %v", err)
		s.setWarning(err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	added, err := s.service.ImportRoster(rows)
	if err != nil {
		log.Printf("授業の一括登録に失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}
	warning := ""
	if added == 0 {
		warning = "登録できる授業がCSVにありませんでした。"
	}
	s.setWarning(warning)
	log.Printf("授業を %d 件登録しました", added)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) setWarning(warning string) {
	s.mu.Lock()
	s.warning = warning
	s.mu.Unlock()
}

// handleEditClass は時数増減と出席実績の保存。負数は 0 に丸める。
func (s *Server) handleEditClass(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "許可されていないメソッドです", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "フォームの解析に失敗しました", http.StatusBadRequest)
		return
	}

	id := filepath.Base(r.URL.Path)
	rec, err := s.repo.GetClass(id)
	if err != nil {
		http.Error(w, "授業が見つかりません", http.StatusNotFound)
		return
	}

	rec.Adjustment.Add = clampNonNegative(r.FormValue("add"))
	rec.Adjustment.Subtract = clampNonNegative(r.FormValue("subtract"))
	rec.CurrentAttendance = clampNonNegative(r.FormValue("attendance"))

	if err := s.repo.UpdateClass(id, rec); err != nil {
		log.Printf("授業の更新に失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteClass(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "許可されていないメソッドです", http.StatusMethodNotAllowed)
		return
	}
	if err := s.repo.DeleteClass(filepath.Base(r.URL.Path)); err != nil {
		log.Printf("授業の削除に失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAddRecord は補修・対面授業の実施記録を1件追加する。
func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "許可されていないメソッドです", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "フォームの解析に失敗しました", http.StatusBadRequest)
		return
	}

	id := filepath.Base(r.URL.Path)
	rec, err := s.repo.GetClass(id)
	if err != nil {
		http.Error(w, "授業が見つかりません", http.StatusNotFound)
		return
	}

	record := domain.SessionRecord{
		Date:    strings.TrimSpace(r.FormValue("date")),
		Content: strings.TrimSpace(r.FormValue("content")),
	}
	if r.FormValue("kind") == "face_to_face" {
		rec.FaceToFace = append(rec.FaceToFace, record)
	} else {
		rec.Supplementary = append(rec.Supplementary, record)
	}

	if err := s.repo.UpdateClass(id, rec); err != nil {
		log.Printf("実施記録の保存に失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSpecial は特別な配慮（1/2比率）フラグを切り替える。
// フラグの持ち主はサーバだけで、表示側は毎回ここから再計算する。
func (s *Server) handleSpecial(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "許可されていないメソッドです", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "フォームの解析に失敗しました", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.special = r.FormValue("special") == "on"
	s.className = strings.TrimSpace(r.FormValue("class_name"))
	s.studentName = strings.TrimSpace(r.FormValue("student_name"))
	s.mu.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	days := s.days
	special := s.special
	s.mu.Unlock()

	reference := parseReferenceDate(r.URL.Query().Get("ref"))
	results, err := s.service.ComputeResults(days, special, reference)
	if err != nil {
		log.Printf("算出に失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}

	resp := ResultsResponse{
		ReferenceDate:        domain.DateKey(reference),
		SpecialConsideration: special,
		ScheduleDays:         len(days),
		Results:              []ResultEntry{},
	}
	for _, res := range results {
		remaining := res.RequiredAttendance - res.CurrentAttendance
		resp.Results = append(resp.Results, ResultEntry{
			ID:                  res.Class.ID,
			Name:                res.Class.Name,
			TotalHours:          res.TotalHours,
			RequiredAttendance:  res.RequiredAttendance,
			CurrentAttendance:   res.CurrentAttendance,
			RemainingHours:      res.RemainingHours,
			SupplementaryNeeded: res.SupplementaryNeeded,
			FaceToFaceDays:      res.FaceToFaceDays,
			GaugeStatus:         string(domain.RemainingDaysStatus(remaining)),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleWeekdays は曜日カウント（年間または任意の期間、祝日除外可）を返す。
func (s *Server) handleWeekdays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weekday, err := strconv.Atoi(q.Get("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		http.Error(w, "weekday は 0〜6 で指定してください", http.StatusBadRequest)
		return
	}
	exclude := q.Get("exclude_holidays") != "false"

	var count int
	var start, end time.Time
	if yearStr := q.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			http.Error(w, "year が不正です", http.StatusBadRequest)
			return
		}
		count = domain.CountWeekdaysInYear(year, weekday, exclude)
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
		end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.Local)
	} else {
		start, err = time.ParseInLocation("2006-01-02", q.Get("start"), time.Local)
		if err != nil {
			http.Error(w, "start が不正です", http.StatusBadRequest)
			return
		}
		end, err = time.ParseInLocation("2006-01-02", q.Get("end"), time.Local)
		if err != nil {
			http.Error(w, "end が不正です", http.StatusBadRequest)
			return
		}
		count = domain.CountWeekdaysInTerm(start, end, weekday, exclude)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(WeekdaysResponse{
		Weekday:  weekday,
		Count:    count,
		Holidays: domain.HolidaysInRange(start, end),
	})
}

// handleExport は出席状況のExcelブックをダウンロードさせる。
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	days := s.days
	special := s.special
	academicYear := s.academicYear
	className := s.className
	studentName := s.studentName
	s.mu.Unlock()

	reference := parseReferenceDate(r.URL.Query().Get("ref"))
	payload, err := s.service.BuildExportPayload(days, academicYear, className, studentName, special, reference)
	if err != nil {
		log.Printf("出力データの組み立てに失敗: %v", err)
		http.Error(w, "サーバエラー", http.StatusInternalServerError)
		return
	}

	filename := infrastructure.ExportFileName(payload)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))

	if err := infrastructure.WriteAttendanceExcel(w, payload); err != nil {
		log.Printf("Excel出力に失敗: %v", err)
	}
}

// handleHolidaysRefresh は内閣府CSVから祝日テーブルを更新する。失敗しても
// 組み込みのテーブルがそのまま残る。
func (s *Server) handleHolidaysRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "許可されていないメソッドです", http.StatusMethodNotAllowed)
		return
	}

	year := currentAcademicYear(time.Now())
	updated, err := s.fetcher.Refresh(year-1, year+2)
	if err != nil {
		log.Printf("祝日の更新に失敗: %v", err)
		http.Error(w, "祝日の更新に失敗しました", http.StatusBadGateway)
		return
	}

	log.Printf("祝日テーブルを %d 年分更新しました", updated)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Success bool `json:"success"`
		Years   int  `json:"years"`
	}{true, updated})
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "許可されていないメソッドです", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "サーバを終了します"})

	go func() {
		log.Println("サーバを終了しています...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("終了処理でエラー: %v", err)
		}
		os.Exit(0)
	}()
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	filePath := "static/" + strings.TrimPrefix(r.URL.Path, "/static/")
	content, err := templates.ReadFile(filePath)
	if err != nil {
		http.Error(w, "ファイルが見つかりません", http.StatusNotFound)
		return
	}

	if strings.HasSuffix(r.URL.Path, ".css") {
		w.Header().Set("Content-Type", "text/css")
	} else if strings.HasSuffix(r.URL.Path, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	}
	w.Write(content)
}

// parseReferenceDate は基準日（YYYY-MM-DD）を解釈する。未指定・不正なら今日。
// 純粋な算出側には常に明示的な日付を渡す。
func parseReferenceDate(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Now()
	}
	return t
}

// parseOptionalInt は空文字・範囲外・数値以外を「未設定」として nil で返す。
func parseOptionalInt(s string, min, max int) *int {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return nil
	}
	return &n
}

// clampNonNegative は数値以外・負数を 0 に丸める。
func clampNonNegative(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
