package dto

type SuggestionResponse struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Coordinates []float64 `json:"coordinates"`
}

type ListSuggestionsResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
}

type AddressResponse struct {
	Address string `json:"address"`
}
