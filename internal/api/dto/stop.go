package dto

type StopRequest struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Demand int     `json:"demand"`
}

type StopResponse struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Demand int     `json:"demand"`
}

type ListStopsResponse struct {
	Stops []StopResponse `json:"stops"`
}
