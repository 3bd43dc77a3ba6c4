package handlers

import (
	"inviter-backend/domain/core/entities"
	"inviter-backend/infrastructure/persistence/dynamodb"
)

// HangoutDetailResponse is the full hangout view: the canonical record plus
// everything in its item collection.
type HangoutDetailResponse struct {
	Hangout        HangoutResponse         `json:"hangout"`
	Polls          []PollResponse          `json:"polls"`
	Carpool        []CarResponse           `json:"carpool"`
	NeedsRide      []NeedsRideResponse     `json:"needsRide"`
	Interest       []InterestResponse      `json:"interest"`
	Attributes     []AttributeResponse     `json:"attributes"`
	Participations []ParticipationResponse `json:"participations"`
	Offers         []OfferResponse         `json:"offers"`
}

// NeedsRideResponse is one outstanding ride request
type NeedsRideResponse struct {
	UserID string `json:"userId"`
	Note   string `json:"note,omitempty"`
}

// InterestResponse is one user's attendance signal
type InterestResponse struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// AttributeResponse is one named attribute of a hangout
type AttributeResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParticipationResponse is one ticket/reservation record
type ParticipationResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Status      string `json:"status"`
	TicketCount int    `json:"ticketCount"`
}

// OfferResponse is one spare-capacity offer
type OfferResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	SeatsOffered int    `json:"seatsOffered"`
	Note         string `json:"note,omitempty"`
}

func toDetailResponse(detail *dynamodb.HangoutDetail) HangoutDetailResponse {
	resp := HangoutDetailResponse{
		Hangout:        toHangoutResponse(detail.Hangout),
		Polls:          make([]PollResponse, 0, len(detail.Polls)),
		Carpool:        make([]CarResponse, 0, len(detail.Cars)),
		NeedsRide:      make([]NeedsRideResponse, 0, len(detail.NeedsRide)),
		Interest:       make([]InterestResponse, 0, len(detail.InterestLevels)),
		Attributes:     make([]AttributeResponse, 0, len(detail.Attributes)),
		Participations: make([]ParticipationResponse, 0, len(detail.Participations)),
		Offers:         make([]OfferResponse, 0, len(detail.Offers)),
	}
	for _, poll := range detail.Polls {
		resp.Polls = append(resp.Polls, toPollResponse(poll))
	}
	ridersByCar := make(map[string][]entities.CarRider)
	for _, rider := range detail.Riders {
		key := rider.CarID.String()
		ridersByCar[key] = append(ridersByCar[key], rider)
	}
	for _, car := range detail.Cars {
		resp.Carpool = append(resp.Carpool, toCarResponse(dynamodb.CarDetail{
			Car:    car,
			Riders: ridersByCar[car.CarID.String()],
		}))
	}
	for _, n := range detail.NeedsRide {
		resp.NeedsRide = append(resp.NeedsRide, NeedsRideResponse{
			UserID: n.UserID.String(),
			Note:   n.Note,
		})
	}
	for _, level := range detail.InterestLevels {
		resp.Interest = append(resp.Interest, InterestResponse{
			UserID: level.UserID.String(),
			Status: string(level.Status),
		})
	}
	for _, a := range detail.Attributes {
		resp.Attributes = append(resp.Attributes, AttributeResponse{
			ID:    a.AttributeID,
			Name:  a.Name,
			Value: a.Value,
		})
	}
	for _, p := range detail.Participations {
		resp.Participations = append(resp.Participations, ParticipationResponse{
			ID:          p.ID,
			UserID:      p.UserID.String(),
			Status:      string(p.Status),
			TicketCount: p.TicketCount,
		})
	}
	for _, o := range detail.Offers {
		resp.Offers = append(resp.Offers, OfferResponse{
			ID:           o.ID,
			UserID:       o.UserID.String(),
			SeatsOffered: o.SeatsOffered,
			Note:         o.Note,
		})
	}
	return resp
}
