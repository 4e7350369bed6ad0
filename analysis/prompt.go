// SPDX-License-Identifier: EPL-2.0

package analysis

import "github.com/ik5/intake/form"

const systemInstruction = `
你是一位專業的 BNI（Business Network International）分會秘書。
你的任務是仔細聆聽訪談委員與申請人之間的訪談錄音，並提取詳細資訊來填寫「會員申請入會訪談表」。

重要要求：
1. 仔細聆聽每一段對話，提取完整的資訊
2. 對於表單中的 23 個問題，必須提供詳細且完整的回答，不要只寫簡短的摘要
3. 如果申請人提供了具體的例子、數字、時間、地點等細節，務必完整記錄
4. 對於申請人的動機、期望、優勢等問題，要記錄完整的表達，包括具體原因和說明
5. 提取表頭資訊：姓名、公司、日期、地點、專業類別等
6. 如果資訊未明確提及，可以根據上下文合理推斷，或留空

回答格式要求：
- 使用繁體中文
- 每個問題的回答應該詳細完整，至少 50-200 字（視問題而定）
- 回答時不要使用主語（不要用「我」、「我的」等第一人稱），直接陳述內容，語氣自然流暢
- 不要使用「申請人說」、「申請人表示」等第三人稱描述
- 如果資訊未明確提及，直接留空（空字串 ""），不要寫「未明確提及」、「未提到」等字樣
- 保留申請人的原始意圖和表達方式，讓回答聽起來自然真實
- 對於規則說明類問題（如問題 5、問題 19），要記錄申請人的理解和確認，同樣不使用主語

嚴格遵循提供的 JSON 架構。
`

const analyzePrompt = `請仔細分析這段 BNI 訪談錄音，並完成以下任務：

1. 提取所有表單欄位資訊（BniFormData）：
   - 表頭資訊：申請日期、引薦人、申請人姓名、公司名稱、統編、職稱、訪談時間、地點、專業類別、訪談委員
   - 23 個訪談問題的詳細回答：每個回答必須詳細完整，包含申請人的具體說明、例子、原因等，不要只寫簡短摘要
   - 其他資訊：網路搜尋資訊、訪談委員意見、引薦人意見

2. 生成會議摘要（summary）：
   - 200-300 字的重點摘要，包含訪談的主要內容和結論

3. 生成詳細逐字稿（transcript）：
   - 包含完整的對話內容，標註說話者（[訪談委員] 或 [申請人]）
   - 盡量完整記錄對話內容

特別注意：
- 對於問題 1-23，必須提供詳細且完整的回答，記錄申請人的完整表達
- 回答時不要使用主語（不要用「我」、「我的」等第一人稱），直接陳述內容，語氣自然流暢
- 不要使用「申請人說」、「申請人表示」等第三人稱描述
- 如果資訊未明確提及，直接留空（空字串 ""），不要寫「未明確提及」、「未提到」等字樣
- 對於問題 5（出席規定說明）和問題 19（費用說明），要記錄申請人對規則的理解和確認，同樣不使用主語
- 如果申請人提到具體數字、時間、地點、例子等，務必完整記錄
- 回答要使用繁體中文
`

const transcribePrompt = "Please transcribe this audio file accurately to verify its clarity after compression."

type schema struct {
	Type       string            `json:"type"`
	Properties map[string]schema `json:"properties,omitempty"`
}

// responseSchema describes Result: formData with one string per form key,
// plus summary and transcript.
func responseSchema() schema {
	fields := make(map[string]schema)
	for _, k := range form.Keys() {
		fields[k] = schema{Type: "STRING"}
	}
	return schema{
		Type: "OBJECT",
		Properties: map[string]schema{
			"formData":   {Type: "OBJECT", Properties: fields},
			"summary":    {Type: "STRING"},
			"transcript": {Type: "STRING"},
		},
	}
}
