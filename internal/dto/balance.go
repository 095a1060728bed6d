package dto

// BalanceSummary carries every derived total a view might need. Both
// reconciliation policies are present side by side: RemainingBalance is the
// global figure (service and merits offset demerits across contexts), while
// NetOffice/NetRLE are the per-context nets that ignore service days.
// Recomputed on every read, never persisted.
type BalanceSummary struct {
	StudentID string `json:"student_id"`

	TotalMerits   int `json:"total_merits"`
	TotalDemerits int `json:"total_demerits"`
	TotalServed   int `json:"total_served"`

	OfficeMerits   int `json:"office_merits"`
	OfficeDemerits int `json:"office_demerits"`
	RLEMerits      int `json:"rle_merits"`
	RLEDemerits    int `json:"rle_demerits"`

	RemainingBalance int `json:"remaining_balance"`
	NetOffice        int `json:"net_office"`
	NetRLE           int `json:"net_rle"`
}
