// SPDX-License-Identifier: EPL-2.0

package intake

import (
	"fmt"

	"github.com/ik5/intake/policy"
)

// Stage is a user visible step of Orchestrator.Process.
type Stage string

const (
	StagePreparing   Stage = "preparing"
	StageCompressing Stage = "compressing"
	StageCompressed  Stage = "compressed"
	StageFallback    Stage = "fallback"
	StageAnalyzing   Stage = "analyzing"
	StageDone        Stage = "done"
)

type Progress struct {
	Stage   Stage
	Message string
}

const (
	preparingMessage = "正在準備分析..."
	fallbackMessage  = "壓縮失敗,使用原始文件繼續分析..."
	analyzingMessage = "正在分析訪談內容..."
	doneMessage      = "分析完成"
)

func mb(n int64) float64 { return float64(n) / policy.MiB }

func compressingMessage(size int64) string {
	return fmt.Sprintf("正在壓縮音頻 (%.2f MB)...", mb(size))
}

// compressedMessage reads e.g. "壓縮完成 (8.0MB → 1.2MB, 節省 85.0%)".
func compressedMessage(o *policy.Outcome) string {
	saved := (1 - o.Ratio()) * 100
	return fmt.Sprintf("壓縮完成 (%.1fMB → %.1fMB, 節省 %.1f%%)", mb(o.OriginalSize), mb(o.File.Size()), saved)
}
