// Package web は授業時数・出席状況のダッシュボード表示を提供する
package web

import (
	"bytes"
	"embed"
	"html/template"

	"attendance-calc/domain"
)

//go:embed templates/index.html static/*
var templates embed.FS

// ClassRow はダッシュボード表の1授業分の表示データ
type ClassRow struct {
	ID                  string
	Name                string
	SlotsDisplay        string // 「火・1限、木・2限」形式
	TotalHours          int
	RequiredAttendance  int
	CurrentAttendance   int
	AttendancePercent   int
	RemainingHours      int
	RemainingToRequired int // 必要出席まであと何日か
	SupplementaryNeeded int
	FaceToFaceDays      int
	GaugeStatus         string // cleared / soon / remaining
	BufferStatus        string // safe / warning / danger
}

// DashboardData はダッシュボード部分のテンプレートデータ
type DashboardData struct {
	HasSchedule          bool
	SpecialConsideration bool
	Rows                 []ClassRow
}

// ダッシュボードは算出結果から毎回作り直す。フラグや増減のコピーを
// 持ち回らないことで、表示間の食い違いを防ぐ。
const dashboardTemplate = `
{{if .Rows}}
{{if not .HasSchedule}}<p class="notice">年間行事予定が未読み込みのため、総授業時数は 0 として表示しています。</p>{{end}}
<table class="dashboard-table">
	<tr>
		<th>授業名</th>
		<th>曜日・時限</th>
		<th>総授業時数</th>
		<th>必要な出席{{if .SpecialConsideration}}（1/2）{{else}}（2/3）{{end}}</th>
		<th>出席実績</th>
		<th>達成率</th>
		<th>残り授業時数</th>
		<th>補修が必要な日数</th>
		<th>対面授業</th>
		<th></th>
	</tr>
	{{range .Rows}}
	<tr class="gauge-{{.GaugeStatus}}">
		<td>{{.Name}}</td>
		<td>{{.SlotsDisplay}}</td>
		<td>{{.TotalHours}}</td>
		<td>{{.RequiredAttendance}}</td>
		<td>{{.CurrentAttendance}}</td>
		<td>
			<div class="bar bar-{{.BufferStatus}}" style="width: {{.AttendancePercent}}%;"></div>
			{{.AttendancePercent}}%
		</td>
		<td>{{.RemainingHours}}</td>
		<td>{{.SupplementaryNeeded}}</td>
		<td>{{if .FaceToFaceDays}}{{.FaceToFaceDays}}日{{else}}—{{end}}</td>
		<td>
			<form method="post" action="/classes/delete/{{.ID}}" class="inline">
				<button type="submit" class="danger">削除</button>
			</form>
		</td>
	</tr>
	{{end}}
</table>
{{else}}
<p class="empty">授業が登録されていません。フォームまたはCSVで授業を追加してください。</p>
{{end}}
`

// RenderDashboard は算出結果からダッシュボード表のHTMLを生成する。
func RenderDashboard(results []domain.ClassResult, specialConsideration, hasSchedule bool) (string, error) {
	data := DashboardData{
		HasSchedule:          hasSchedule,
		SpecialConsideration: specialConsideration,
	}
	for _, res := range results {
		remaining := res.RequiredAttendance - res.CurrentAttendance
		buffer := res.RemainingHours - remaining
		data.Rows = append(data.Rows, ClassRow{
			ID:                  res.Class.ID,
			Name:                res.Class.Name,
			SlotsDisplay:        res.Class.SlotsDisplay(),
			TotalHours:          res.TotalHours,
			RequiredAttendance:  res.RequiredAttendance,
			CurrentAttendance:   res.CurrentAttendance,
			AttendancePercent:   domain.Percent(res.CurrentAttendance, res.RequiredAttendance),
			RemainingHours:      res.RemainingHours,
			RemainingToRequired: max(0, remaining),
			SupplementaryNeeded: res.SupplementaryNeeded,
			FaceToFaceDays:      res.FaceToFaceDays,
			GaugeStatus:         string(domain.RemainingDaysStatus(remaining)),
			BufferStatus:        string(domain.BufferStatusOf(buffer)),
		})
	}

	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
