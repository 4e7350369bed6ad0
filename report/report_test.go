// SPDX-License-Identifier: EPL-2.0

package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ik5/intake/form"
)

func sampleDocument() Document {
	f := form.New(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	f.ApplicantName = "王小明"
	f.CompanyName = "小明保險"
	f.Q1Motivation = "拓展人脈"
	f.Q23SystemQuestions = "沒有"
	return Document{
		Form:       f,
		Summary:    "申請人希望拓展人脈。",
		Transcript: "[訪談委員]: 您好\n[申請人]: 您好",
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	out := string(Render(sampleDocument()))

	wants := []string{
		"# " + Title + "\n",
		"**姓名：** 王小明\n",
		"**申請公司：** 小明保險\n",
		"**訪談地點：** " + form.DefaultLocation + "\n",
		"## 會議摘要\n\n申請人希望拓展人脈。\n",
		"**1. " + form.Questions[0].Text + "**\n\n**回覆 1：** 拓展人脈\n",
		"**2. " + form.Questions[1].Text + "**\n\n**回覆 2：** " + unanswered + "\n",
		"**回覆 23：** 沒有\n",
		"## 逐字稿\n\n[訪談委員]: 您好\n[申請人]: 您好\n",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("Render() missing %q", w)
		}
	}

	if strings.Contains(out, "照片佐證") {
		t.Error("Render() has a photo section without photos")
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Error("Render() must end with exactly one newline")
	}
}

func TestRender_SectionOrder(t *testing.T) {
	t.Parallel()

	out := string(Render(sampleDocument()))
	order := []string{Title, "申請日期", "訪談委員：", "網路搜尋相關資訊", "會議摘要", "訪談記錄", "**1. ", "**23. ", "逐字稿"}

	last := -1
	for _, s := range order {
		i := strings.Index(out, s)
		if i < 0 {
			t.Fatalf("Render() missing %q", s)
		}
		if i < last {
			t.Errorf("%q appears out of order", s)
		}
		last = i
	}
}

func TestRender_EmptyDocument(t *testing.T) {
	t.Parallel()

	out := string(Render(Document{}))

	if !strings.Contains(out, noSummary) {
		t.Errorf("Render() missing %q placeholder", noSummary)
	}
	if n := strings.Count(out, unanswered); n != form.QuestionCount {
		t.Errorf("unanswered placeholders = %d, want %d", n, form.QuestionCount)
	}
	if strings.Contains(out, "逐字稿") {
		t.Error("Render() has a transcript section without a transcript")
	}
}

func TestRender_Photos(t *testing.T) {
	t.Parallel()

	d := sampleDocument()
	d.Form.Photos = []string{"iVBORw0KGgo=", "data:image/jpeg;base64,/9j/4AAQ"}

	out := string(Render(d))
	for _, w := range []string{
		"## 照片佐證",
		"![照片 1](data:image/png;base64,iVBORw0KGgo=)",
		"![照片 2](data:image/jpeg;base64,/9j/4AAQ)",
	} {
		if !strings.Contains(out, w) {
			t.Errorf("Render() missing %q", w)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	d := sampleDocument()
	if !bytes.Equal(Render(d), Render(d)) {
		t.Error("Render() is not deterministic")
	}
}

func TestRender_HeaderIsSingleLine(t *testing.T) {
	t.Parallel()

	d := sampleDocument()
	d.Form.CompanyName = "小明\n保險  公司"
	out := string(Render(d))
	if !strings.Contains(out, "**申請公司：** 小明 保險 公司\n") {
		t.Error("header values must be folded onto one line")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, sampleDocument()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), Render(sampleDocument())) {
		t.Error("Write() output differs from Render()")
	}

	if err := Write(failingWriter{}, sampleDocument()); err == nil {
		t.Error("Write() to a failing writer returned nil")
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		want string
	}{
		{"王小明", "BNI訪談記錄_王小明_2026-03-05.md"},
		{"  ", "BNI訪談記錄_未命名_2026-03-05.md"},
		{"a/b:c", "BNI訪談記錄_a_b_c_2026-03-05.md"},
	}

	for _, tt := range tests {
		if got := FileName(tt.name, day); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func ExampleFileName() {
	fmt.Println(FileName("王小明", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	// Output: BNI訪談記錄_王小明_2026-03-05.md
}
