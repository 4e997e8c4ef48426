package dto

type NearestCityRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type NearestCityResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DistanceMiles float64 `json:"distance_miles"`
}
