package dto

import "cusoon-api/modules/slot/entity"

// SubmitPreferencesRequest carries a participant's availability
// submission: rankings keyed by timespan ID ("HH:mm-HH:mm@YYYY-MM-DD")
// and the timespans withdrawn since the last submission.
type SubmitPreferencesRequest struct {
	UserEmail          string         `json:"user_email" validate:"required,email"`
	Rankings           map[string]int `json:"rankings"`
	DeletedTimespanIDs []string       `json:"deleted_timespan_ids"`
}

// SlotResponse is one slot of the availability grid.
type SlotResponse struct {
	ID                 string         `json:"id"`
	Date               string         `json:"date"`
	StartTime          string         `json:"start_time"`
	ParticipantWeights map[string]int `json:"participant_weights"`
}

// ToSlotResponses maps slot entities for the get-preferences endpoint.
func ToSlotResponses(slots []entity.Slot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		weights := slot.ParticipantWeights
		if weights == nil {
			weights = entity.WeightMap{}
		}
		result = append(result, SlotResponse{
			ID:                 slot.ID,
			Date:               slot.Date,
			StartTime:          slot.StartTime,
			ParticipantWeights: weights,
		})
	}
	return result
}
