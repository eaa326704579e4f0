package model

// NoteRequestBody uses pointers so a missing field can be told apart from zero.
type NoteRequestBody struct {
	Timestamp *float64 `json:"timestamp"`
	Score     *float64 `json:"score"`
}

type TrackRequestBody struct {
	Track *int `json:"track"`
}

type OffsetRequestBody struct {
	Offset *int `json:"offset"`
}

type PaletteRequestBody struct {
	Palette *string `json:"palette"`
}

type SpansResponse struct {
	Emitted  int    `json:"emitted"`
	Rejected int    `json:"rejected"`
	Spans    []Span `json:"spans"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
