// SPDX-License-Identifier: EPL-2.0

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ik5/intake/form"
)

const (
	Title    = "BNI 台北市北區長安分會申請入會訪談"
	Subtitle = "建議 60 分鐘內完成"

	noSummary  = "尚無摘要資料"
	unanswered = "(尚未填寫)"
	unnamed    = "未命名"

	Ext = ".md"
)

// Document is everything an exported interview record contains.
type Document struct {
	Form       form.Data
	Summary    string
	Transcript string
}

// Render formats d as Markdown. The output depends only on d.
func Render(d Document) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n%s\n\n", Title, Subtitle)

	for _, f := range d.Form.Header() {
		fmt.Fprintf(&b, "**%s：** %s\n\n", f.Label, oneLine(f.Value))
	}

	for _, f := range d.Form.Preliminary() {
		fmt.Fprintf(&b, "**%s：**\n\n%s\n\n", f.Label, paragraph(f.Value))
	}

	summary := strings.TrimSpace(d.Summary)
	if summary == "" {
		summary = noSummary
	}
	fmt.Fprintf(&b, "## 會議摘要\n\n%s\n\n", summary)

	b.WriteString("## 訪談記錄\n\n")
	answers := d.Form.Answers()
	for i, q := range form.Questions {
		answer := strings.TrimSpace(answers[i])
		if answer == "" {
			answer = unanswered
		}
		fmt.Fprintf(&b, "**%d. %s**\n\n**回覆 %d：** %s\n\n", q.Number, q.Text, q.Number, answer)
	}

	if len(d.Form.Photos) > 0 {
		b.WriteString("## 照片佐證\n\n")
		for i, photo := range d.Form.Photos {
			fmt.Fprintf(&b, "照片 %d\n\n![照片 %d](%s)\n\n", i+1, i+1, dataURI(photo))
		}
	}

	if t := strings.TrimSpace(d.Transcript); t != "" {
		fmt.Fprintf(&b, "## 逐字稿\n\n%s\n", t)
	}

	return []byte(strings.TrimRight(b.String(), "\n") + "\n")
}

// Write renders d to w.
func Write(w io.Writer, d Document) error {
	if _, err := w.Write(Render(d)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// FileName is the export name for an applicant on a date, e.g.
// "BNI訪談記錄_王小明_2026-03-05.md".
func FileName(applicant string, date time.Time) string {
	name := strings.TrimSpace(applicant)
	if name == "" {
		name = unnamed
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf("BNI訪談記錄_%s_%s%s", name, date.Format("2006-01-02"), Ext)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func paragraph(s string) string {
	return strings.TrimSpace(s)
}

// dataURI accepts either bare base64 or an existing data URI.
func dataURI(photo string) string {
	if strings.HasPrefix(photo, "data:") {
		return photo
	}
	return "data:image/png;base64," + photo
}
