package reports

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	routines "github.com/nemodouble/godlife/internal/routines/domain"
	"github.com/nemodouble/godlife/internal/shared/domain"
)

// SeasonInfo is the season header of a rendered report.
type SeasonInfo struct {
	Title string
	Start domain.Day
	End   domain.Day
}

type reportView struct {
	ScopeLabel string
	Season     *SeasonInfo
	OpenLabel  string
	Summary    Summary
	Routines   []RoutineMetrics
	Today      domain.Day
}

var templateFuncs = template.FuncMap{
	"pct": func(rate float64) string { return fmt.Sprintf("%.1f%%", rate*100) },
}

const koreanReport = `{{with .Season}}시즌: {{.Title}} ({{.Start}}~{{if .End.IsZero}}{{$.OpenLabel}}{{else}}{{.End}}{{end}})
{{end}}기간: {{.ScopeLabel}} 기준 달성률 통계
평균 달성률: {{pct .Summary.AvgRate}}
완료 횟수: {{.Summary.TotalDone}}회 / 유효 일수: {{.Summary.TotalValid}}일{{if .Summary.TotalPaused}} / 일시정지: {{.Summary.TotalPaused}}일{{end}}
{{range .Routines}}
{{.Name}}: {{pct .Rate}} ({{.Done}}/{{.Valid}})
  · 최대 연속: {{.MaxStreak}}일, 현재 연속: {{.CurrentStreak}}일{{if .Paused}}, 일시정지: {{.Paused}}일{{end}}
{{else}}
활성화된 루틴이 없거나, 선택한 시즌/기간에 집계할 데이터가 없습니다.
{{end}}
{{.Today}} 기준`

const englishReport = `{{with .Season}}Season: {{.Title}} ({{.Start}}~{{if .End.IsZero}}{{$.OpenLabel}}{{else}}{{.End}}{{end}})
{{end}}Period: {{.ScopeLabel}}
Average rate: {{pct .Summary.AvgRate}}
Done: {{.Summary.TotalDone}} / Valid days: {{.Summary.TotalValid}}{{if .Summary.TotalPaused}} / Paused: {{.Summary.TotalPaused}}{{end}}
{{range .Routines}}
{{.Name}}: {{pct .Rate}} ({{.Done}}/{{.Valid}})
  · Best streak: {{.MaxStreak}}, current streak: {{.CurrentStreak}}{{if .Paused}}, paused: {{.Paused}}{{end}}
{{else}}
No active routines or no data for the selected season and period.
{{end}}
As of {{.Today}}`

var (
	reportTemplates = map[routines.Locale]*template.Template{
		routines.LocaleKorean:  template.Must(template.New("ko").Funcs(templateFuncs).Parse(koreanReport)),
		routines.LocaleEnglish: template.Must(template.New("en").Funcs(templateFuncs).Parse(englishReport)),
	}

	scopeLabels = map[routines.Locale]map[Scope]string{
		routines.LocaleKorean:  {Scope7d: "최근 7일", Scope30d: "최근 30일", ScopeAll: "전체 기간"},
		routines.LocaleEnglish: {Scope7d: "last 7 days", Scope30d: "last 30 days", ScopeAll: "all time"},
	}

	openLabels = map[routines.Locale]string{
		routines.LocaleKorean:  "진행중",
		routines.LocaleEnglish: "ongoing",
	}
)

// Render formats metrics as a plain text report. Routines are listed by rate,
// highest first. Unknown locales render in Korean.
func Render(m *UserMetrics, season *SeasonInfo, locale routines.Locale) (string, error) {
	tmpl, ok := reportTemplates[locale]
	if !ok {
		locale = routines.LocaleKorean
		tmpl = reportTemplates[locale]
	}

	view := reportView{
		ScopeLabel: scopeLabels[locale][m.Scope],
		Season:     season,
		OpenLabel:  openLabels[locale],
		Summary:    m.Summary,
		Routines:   SortByRate(m.ByRoutine),
		Today:      m.Today,
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return b.String(), nil
}

// SortByRate returns a copy ordered by rate descending, then by name.
func SortByRate(byRoutine []RoutineMetrics) []RoutineMetrics {
	sorted := append([]RoutineMetrics(nil), byRoutine...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rate != sorted[j].Rate {
			return sorted[i].Rate > sorted[j].Rate
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
