package dto

import (
	"time"

	"cusoon-api/modules/event/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest for creating a new event. The organizer email comes
// from the URL path, not the body.
type CreateEventRequest struct {
	Title                string         `json:"title" validate:"required"`
	AvailableDays        []string       `json:"available_days" validate:"required,min=1"`
	StartTime            string         `json:"start_time" validate:"required"`
	EndTime              string         `json:"end_time" validate:"required"`
	DurationMinutes      int            `json:"duration_minutes" validate:"required,min=15"`
	ParticipantEmails    []string       `json:"participant_emails"`
	ParticipantNecessity map[string]int `json:"participant_necessity"`
}

// ===================== Response DTOs =====================

// SlotBlockDTO is one ranked candidate meeting block.
type SlotBlockDTO struct {
	SlotIDs    []string `json:"slot_ids"`
	TotalScore float64  `json:"total_score"`
}

// EventResponse for event details.
type EventResponse struct {
	ID                    string                    `json:"id"`
	Title                 string                    `json:"title"`
	Slug                  string                    `json:"slug"`
	OrganizerEmail        string                    `json:"organizer_email"`
	AvailableDays         []string                  `json:"available_days"`
	StartTime             string                    `json:"start_time"`
	EndTime               string                    `json:"end_time"`
	DurationMinutes       int                       `json:"duration_minutes"`
	ParticipantEmails     []string                  `json:"participant_emails"`
	ParticipantNecessity  map[string]int            `json:"participant_necessity"`
	ConfirmedParticipants []string                  `json:"confirmed_participants"`
	RejectedParticipants  []string                  `json:"rejected_participants"`
	SubmittedPreferences  map[string]map[string]int `json:"submitted_preferences"`
	OptimalSlots          []SlotBlockDTO            `json:"optimal_slots"`
	CreatedAt             time.Time                 `json:"created_at"`
}

// ===================== Mapper Functions =====================

// ToEventResponse maps entity to DTO.
func ToEventResponse(e *entity.Event) *EventResponse {
	resp := &EventResponse{
		ID:                    e.ID,
		Title:                 e.Title,
		Slug:                  e.Slug,
		OrganizerEmail:        e.OrganizerEmail,
		AvailableDays:         e.AvailableDays,
		StartTime:             e.StartTime,
		EndTime:               e.EndTime,
		DurationMinutes:       e.DurationMinutes,
		ParticipantEmails:     e.ParticipantEmails,
		ParticipantNecessity:  e.ParticipantNecessity,
		ConfirmedParticipants: e.ConfirmedParticipants,
		RejectedParticipants:  e.RejectedParticipants,
		SubmittedPreferences:  e.SubmittedPreferences,
		OptimalSlots:          make([]SlotBlockDTO, 0, len(e.OptimalSlots)),
		CreatedAt:             e.CreatedAt,
	}

	for _, block := range e.OptimalSlots {
		resp.OptimalSlots = append(resp.OptimalSlots, SlotBlockDTO{
			SlotIDs:    block.SlotIDs,
			TotalScore: block.TotalScore,
		})
	}

	return resp
}

// ToSlotBlockDTOs maps a ranked block list for the optimize endpoint.
func ToSlotBlockDTOs(blocks []entity.SlotBlock) []SlotBlockDTO {
	result := make([]SlotBlockDTO, 0, len(blocks))
	for _, block := range blocks {
		result = append(result, SlotBlockDTO{
			SlotIDs:    block.SlotIDs,
			TotalScore: block.TotalScore,
		})
	}
	return result
}
