// SPDX-License-Identifier: EPL-2.0

package form

import "time"

// DefaultLocation is where interviews are usually held.
const DefaultLocation = "九宮格會議室"

const dateLayout = "2006-01-02"

// Data is one membership interview form. JSON names are the ones the
// analysis model is asked to fill.
type Data struct {
	ApplicationDate string `json:"applicationDate"`
	Introducer      string `json:"introducer"`
	ApplicantName   string `json:"applicantName"`
	CompanyName     string `json:"companyName"`
	TaxID           string `json:"taxId"`
	JobTitle        string `json:"jobTitle"`
	InterviewDate   string `json:"interviewDate"`
	Location        string `json:"location"`
	Category        string `json:"category"`
	Interviewer     string `json:"interviewer"`

	WebSearchInfo      string `json:"webSearchInfo"`
	InterviewerOpinion string `json:"interviewerOpinion"`
	IntroducerOpinion  string `json:"introducerOpinion"`

	Q1Motivation             string `json:"q1_motivation"`
	Q2Advantage              string `json:"q2_advantage"`
	Q3Expectation            string `json:"q3_expectation"`
	Q4AttendanceCommitment   string `json:"q4_attendance_commitment"`
	Q5AttendanceRulesCheck   string `json:"q5_attendance_rules_check"`
	Q6SubstituteAvailability string `json:"q6_substitute_availability"`
	Q7InviteGuest            string `json:"q7_invite_guest"`
	Q8SpecialEvents          string `json:"q8_special_events"`
	Q9BusinessVerification   string `json:"q9_business_verification"`
	Q10IndustryBackground    string `json:"q10_industry_background"`
	Q11ClientSource          string `json:"q11_client_source"`
	Q12TeamStatus            string `json:"q12_team_status"`
	Q13FavoritePart          string `json:"q13_favorite_part"`
	Q14PreviousBNI           string `json:"q14_previous_bni"`
	Q15OtherOrganizations    string `json:"q15_other_organizations"`
	Q16TrainingCommitment    string `json:"q16_training_commitment"`
	Q17OneToOne              string `json:"q17_one_to_one"`
	Q18LeadershipRole        string `json:"q18_leadership_role"`
	Q19FeesAwareness         string `json:"q19_fees_awareness"`
	Q20NonRefundable         string `json:"q20_non_refundable"`
	Q21InductionCeremony     string `json:"q21_induction_ceremony"`
	Q22MemberQuestions       string `json:"q22_member_questions"`
	Q23SystemQuestions       string `json:"q23_system_questions"`

	// Photos are base64 encoded images attached by the reviewer.
	Photos []string `json:"photos"`
}

// New returns an empty form dated now.
func New(now time.Time) Data {
	today := now.Format(dateLayout)
	return Data{
		ApplicationDate: today,
		InterviewDate:   today,
		Location:        DefaultLocation,
		Photos:          []string{},
	}
}

// Field is a labelled header value.
type Field struct {
	Key   string
	Label string
	Value string
}

// Header returns the header fields in form order.
func (d *Data) Header() []Field {
	return []Field{
		{"applicationDate", "申請日期", d.ApplicationDate},
		{"introducer", "引薦人", d.Introducer},
		{"applicantName", "姓名", d.ApplicantName},
		{"companyName", "申請公司", d.CompanyName},
		{"taxId", "統編", d.TaxID},
		{"jobTitle", "職稱", d.JobTitle},
		{"interviewDate", "訪談時間", d.InterviewDate},
		{"location", "訪談地點", d.Location},
		{"category", "專業類別", d.Category},
		{"interviewer", "訪談委員", d.Interviewer},
	}
}

// Preliminary returns the notes written before the questions.
func (d *Data) Preliminary() []Field {
	return []Field{
		{"webSearchInfo", "網路搜尋相關資訊", d.WebSearchInfo},
		{"interviewerOpinion", "訪談委員個人意見", d.InterviewerOpinion},
		{"introducerOpinion", "引薦人的意見", d.IntroducerOpinion},
	}
}

// Answers returns the 23 answers, index 0 holding question 1.
func (d *Data) Answers() [QuestionCount]string {
	return [QuestionCount]string{
		d.Q1Motivation,
		d.Q2Advantage,
		d.Q3Expectation,
		d.Q4AttendanceCommitment,
		d.Q5AttendanceRulesCheck,
		d.Q6SubstituteAvailability,
		d.Q7InviteGuest,
		d.Q8SpecialEvents,
		d.Q9BusinessVerification,
		d.Q10IndustryBackground,
		d.Q11ClientSource,
		d.Q12TeamStatus,
		d.Q13FavoritePart,
		d.Q14PreviousBNI,
		d.Q15OtherOrganizations,
		d.Q16TrainingCommitment,
		d.Q17OneToOne,
		d.Q18LeadershipRole,
		d.Q19FeesAwareness,
		d.Q20NonRefundable,
		d.Q21InductionCeremony,
		d.Q22MemberQuestions,
		d.Q23SystemQuestions,
	}
}

// Answered counts non-empty answers.
func (d *Data) Answered() int {
	n := 0
	for _, a := range d.Answers() {
		if a != "" {
			n++
		}
	}
	return n
}
