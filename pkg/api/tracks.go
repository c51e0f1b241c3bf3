package api

// StartRequest is the payload for POST /api/v1/tracks/start. All fields are
// optional; color falls back to the default swatch. Location and photo fields
// are carried through unmodified.
type StartRequest struct {
	Project      string   `json:"project"`
	Tags         []string `json:"tags"`
	Note         string   `json:"note"`
	Color        string   `json:"color"`
	LocationLat  *float64 `json:"location_lat"`
	LocationLng  *float64 `json:"location_lng"`
	LocationAddr *string  `json:"location_addr"`
	PhotoData    *string  `json:"photo_data"`
}

// StopRequest is the payload for POST /api/v1/tracks/stop. With an empty ID the
// most recently started running entry is stopped.
type StopRequest struct {
	ID string `json:"id"`
}

// UpdateRequest is the payload for PATCH /api/v1/tracks/{id}. Only non-nil
// fields are applied, so an omitted field never clears a stored value.
type UpdateRequest struct {
	Project *string   `json:"project"`
	Tags    *[]string `json:"tags"`
	Note    *string   `json:"note"`
	Color   *string   `json:"color"`
}
