// Package report renders a CheckResult into the subject and bodies of a
// notification. Everything here is pure.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/hamed0406/linewatch/internal/domain"
)

type Mode string

const (
	// ModeDelayedOnly lists only delayed or suspended lines.
	ModeDelayedOnly Mode = "delayed-only"
	// ModeFull lists every line with its status.
	ModeFull Mode = "full"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDelayedOnly:
		return ModeDelayedOnly, nil
	case ModeFull:
		return ModeFull, nil
	}
	return "", fmt.Errorf("unknown notify mode %q (want %q or %q)", s, ModeDelayedOnly, ModeFull)
}

type Notification struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

const (
	subjectPrefix   = "【運行情報】"
	defaultMarker   = "🚃"
	timestampLayout = "2006-01-02 15:04"
)

var jst = time.FixedZone("JST", 9*60*60)

var labels = map[domain.Status]string{
	domain.StatusNormal:    "平常運転",
	domain.StatusDelayed:   "遅延",
	domain.StatusSuspended: "運転見合わせ",
	domain.StatusUnknown:   "不明",
}

// Label is the display name of a status.
func Label(s domain.Status) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Subject names every disrupted line in configuration order.
func Subject(r domain.CheckResult) string {
	var names []string
	for _, l := range r.Disrupted() {
		names = append(names, l.Line)
	}
	if len(names) == 0 {
		return subjectPrefix + "全線平常運転"
	}
	return subjectPrefix + strings.Join(names, ", ") + "に遅延・運転見合わせ"
}

type row struct {
	Marker   string
	Line     string
	Operator string
	Label    string
	Message  string
	Normal   bool
}

// Format builds the notification for r. markers maps operator name to the
// emoji shown in front of its lines; operators without one get a default.
func Format(r domain.CheckResult, mode Mode, markers map[string]string) Notification {
	rows := rowsFor(r, mode, markers)
	checked := checkedAt(r)
	n := Notification{
		Subject: Subject(r),
		Text:    renderText(rows, checked),
	}
	n.HTML = renderHTML(n.Subject, rows, checked, n.Text)
	return n
}

func rowsFor(r domain.CheckResult, mode Mode, markers map[string]string) []row {
	lines := r.Lines
	if mode != ModeFull {
		lines = r.Disrupted()
	}
	out := make([]row, 0, len(lines))
	for _, l := range lines {
		m := markers[l.Operator]
		if m == "" {
			m = defaultMarker
		}
		out = append(out, row{
			Marker:   m,
			Line:     l.Line,
			Operator: l.Operator,
			Label:    Label(l.Status),
			Message:  l.Message,
			Normal:   l.Status == domain.StatusNormal,
		})
	}
	return out
}

// checkedAt is the latest check time in the result, shown in JST.
func checkedAt(r domain.CheckResult) string {
	var latest time.Time
	for _, l := range r.Lines {
		if l.CheckedAt.After(latest) {
			latest = l.CheckedAt
		}
	}
	if latest.IsZero() {
		return ""
	}
	return latest.In(jst).Format(timestampLayout) + " JST"
}

func renderText(rows []row, checked string) string {
	var b strings.Builder
	for _, rw := range rows {
		fmt.Fprintf(&b, "%s %s（%s）: %s\n", rw.Marker, rw.Line, rw.Operator, rw.Label)
		if rw.Message != "" {
			fmt.Fprintf(&b, "    %s\n", rw.Message)
		}
	}
	if checked != "" {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "確認時刻: %s\n", checked)
	}
	return b.String()
}

var htmlTmpl = template.Must(template.New("mail").Parse(`<!DOCTYPE html>
<html lang="ja"><head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family:sans-serif">
<table style="border-collapse:collapse">
{{- range .Rows}}
<tr style="background:{{if .Normal}}#e8f5e9{{else}}#ffebee{{end}}">
<td style="padding:6px 10px">{{.Marker}}</td>
<td style="padding:6px 10px"><strong>{{.Line}}</strong>（{{.Operator}}）</td>
<td style="padding:6px 10px;color:{{if .Normal}}#2e7d32{{else}}#c62828{{end}}">{{.Label}}</td>
<td style="padding:6px 10px">{{.Message}}</td>
</tr>
{{- end}}
</table>
{{- if .Checked}}
<p style="color:#666">確認時刻: {{.Checked}}</p>
{{- end}}
</body></html>
`))

func renderHTML(subject string, rows []row, checked, fallback string) string {
	var buf bytes.Buffer
	data := struct {
		Subject string
		Rows    []row
		Checked string
	}{subject, rows, checked}
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return "<pre>" + template.HTMLEscapeString(fallback) + "</pre>"
	}
	return buf.String()
}

// Markers collects the operator emoji configured on each line. The first
// non-empty marker for an operator wins.
func Markers(lines []domain.LineConfig) map[string]string {
	m := make(map[string]string, len(lines))
	for _, l := range lines {
		if l.Marker != "" && m[l.Operator] == "" {
			m[l.Operator] = l.Marker
		}
	}
	return m
}
