package dto

// CategorySerious is accepted at the filing gateway and stored as a demerit
// flagged is_serious; clients may send it instead of the is_serious bool.
const CategorySerious = "serious"

// FileConductRecordRequest is the payload for filing a merit, demerit or
// serious infraction. Serious filings (category "serious" or is_serious=true)
// have category and sanction fields overridden server-side regardless of what
// the client sends.
type FileConductRecordRequest struct {
	StudentID       string  `json:"student_id" validate:"required,uuid4"`
	Category        string  `json:"category" validate:"omitempty,oneof=merit demerit serious"`
	IsSerious       bool    `json:"is_serious"`
	Description     string  `json:"description" validate:"required,max=2000"`
	SanctionDays    int     `json:"sanction_days" validate:"gte=0"`
	SanctionContext string  `json:"sanction_context" validate:"required,oneof=office rle"`
	SanctionOther   *string `json:"sanction_other,omitempty" validate:"omitempty,max=500"`
}

// FileServiceLogRequest is the payload for crediting extension duty served.
type FileServiceLogRequest struct {
	StudentID    string `json:"student_id" validate:"required,uuid4"`
	DaysDeducted int    `json:"days_deducted" validate:"gte=0"`
	Description  string `json:"description" validate:"required,max=2000"`
}

// ResolveInfractionRequest is the payload for adjudicating a pending serious
// infraction.
type ResolveInfractionRequest struct {
	FinalSanctionDays  int     `json:"final_sanction_days" validate:"gte=0"`
	FinalSanctionOther *string `json:"final_sanction_other,omitempty" validate:"omitempty,max=500"`
	Notes              string  `json:"notes" validate:"required,max=2000"`
}
