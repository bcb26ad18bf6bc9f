package response_models

import "gifty/internal/models/request_models"

type TranscriptionResponse struct {
	Text string `json:"text"`
}

type ProductImage struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Error    string `json:"error,omitempty"`
}

type NearbyStore struct {
	PlaceID       string  `json:"place_id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Rating        float64 `json:"rating,omitempty"`
	Type          string  `json:"type"`
	Distance      string  `json:"distance"`
	DistanceMeter float64 `json:"distance_meters"`
	DirectionsURL string  `json:"directions_url"`
}

type NearbyStoresResponse struct {
	Location string        `json:"location"`
	Gift     string        `json:"gift"`
	Stores   []NearbyStore `json:"stores"`
}

// AssistantReply is one turn of the voice assistant. Request is set once the collected
// answers were submitted.
type AssistantReply struct {
	Reply   string                      `json:"reply"`
	Missing []string                    `json:"missing"`
	Done    bool                        `json:"done"`
	Request *request_models.GiftRequest `json:"request,omitempty"`
}
