// SPDX-License-Identifier: EPL-2.0

package form

const QuestionCount = 23

// Question is one of the fixed interview questions.
type Question struct {
	Number int
	Key    string
	Text   string
}

var Questions = [QuestionCount]Question{
	{1, "q1_motivation", "您為何決定加入 BNI？為何選擇長安分會？想要成就一個什麼樣的分會？"},
	{2, "q2_advantage", "您認為自己能為 BNI 及長安分會帶來什麼優勢？"},
	{3, "q3_expectation", "您期待在 BNI 及長安分會得到什麼？"},
	{4, "q4_attendance_commitment", "每週四早上 6:30 的會議會不會影響您的行程？每週 120 分鐘的會議你能全程參與嗎？"},
	{5, "q5_attendance_rules_check", "BNI 有非常明確的出席規定。"},
	{6, "q6_substitute_availability", "如果無法親自出席，您找的到代理人嗎？"},
	{7, "q7_invite_guest", "入會當天，分會需要你至少邀請一位來賓參加例會，見證你的入會宣誓。你是否願意有承諾的邀請至少一位來賓?"},
	{8, "q8_special_events", "每一年分會都會有一些特別活動來增加引薦數量（例如 BOD 來賓日），您願意邀請能受益的人來嗎？"},
	{9, "q9_business_verification", "在審核過程中，我們想確定您在我們分會申請的代表產業別是？您提供哪些產品或服務？主要產品、服務是什麼？"},
	{10, "q10_industry_background", "什麼機緣開始接觸這個領域？從事這個領域有多久？是否有別的事業同時進行中？"},
	{11, "q11_client_source", "您主要客戶來源和背景是什麼？"},
	{12, "q12_team_status", "您是否有團隊？"},
	{13, "q13_favorite_part", "在你的專業中，您最喜歡哪一部份？"},
	{14, "q14_previous_bni", "您曾經申請加入別的 BNI 分會嗎？在那裡的經驗如何？為何離開？"},
	{15, "q15_other_organizations", "您有參加其他的交流團體嗎？有什麼經驗？"},
	{16, "q16_training_commitment", "新會員夥伴需要在入會六週內參加會員成功培訓，日後會有一對一與引薦工作坊，這如同 BNI 的使用說明書，能夠幫助新夥伴快速進入狀況，您能出席嗎？"},
	{17, "q17_one_to_one", "所有會員夥伴都要加入成功護照計畫。您願意在例會以外的時間與會員夥伴約一對一嗎？"},
	{18, "q18_leadership_role", "若未來 6 到 12 個月中將請您擔任領導職位，您願意思考適合哪個職位並在時機成熟時幫忙嗎？"},
	{19, "q19_fees_awareness", "您知道還需另外缴交餐費 / 場地費嗎？費用是每月 1700 元在大直的美福飯店實體會議，另外交給秘書財務。"},
	{20, "q20_non_refundable", "入會後會費是不能退的，在入會申請表上有註明。您目前尚未通過審核，在暸解這些資訊後，有因為哪個部分而覺得 BNI 可能不適合您或是您所屬專業嗎？"},
	{21, "q21_induction_ceremony", "訪談結束後，會員委員會會在 14 個工作天進行討論及投票，並通知你是否可以入會。通知後你需要在兩週內宣誓入會。你是否願意?"},
	{22, "q22_member_questions", "您對於 BNI 會員身份還有什麼疑問嗎？"},
	{23, "q23_system_questions", "關於 BNI 系統或長安分會還有什麼問題嗎？"},
}

// Keys lists every text field the analysis model fills, header first,
// then the preliminary notes, then the questions.
func Keys() []string {
	var d Data
	keys := make([]string, 0, 13+QuestionCount)
	for _, f := range d.Header() {
		keys = append(keys, f.Key)
	}
	for _, f := range d.Preliminary() {
		keys = append(keys, f.Key)
	}
	for _, q := range Questions {
		keys = append(keys, q.Key)
	}
	return keys
}
