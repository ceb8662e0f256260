package response

import (
	"time"

	"suitcase-timer/internal/domain/reservation"
	"suitcase-timer/internal/usecase/queries"
)

type ReservationResponse struct {
	OwnerID   int64     `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	EndTime   time.Time `json:"end_time"`
	Countdown string    `json:"countdown"`
}

func FromReservation(res *reservation.Reservation, now time.Time) *ReservationResponse {
	return &ReservationResponse{
		OwnerID:   res.OwnerID(),
		OwnerName: res.OwnerName(),
		EndTime:   res.EndTime(),
		Countdown: reservation.FormatRemaining(res.RemainingAt(now)),
	}
}

type StatusResponse struct {
	Active           bool       `json:"active"`
	Countdown        string     `json:"countdown"`
	RemainingSeconds int64      `json:"remaining_seconds"`
	OwnerID          int64      `json:"owner_id,omitempty"`
	OwnerName        string     `json:"owner_name,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
}

func FromStatusView(view *queries.StatusView) *StatusResponse {
	return &StatusResponse{
		Active:           view.Active,
		Countdown:        view.Countdown,
		RemainingSeconds: int64(view.Remaining / time.Second),
		OwnerID:          view.OwnerID,
		OwnerName:        view.OwnerName,
		EndTime:          view.EndTime,
	}
}
