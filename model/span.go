package model

// Span summarises one emitted span.
type Span struct {
	ID      string  `json:"id" parquet:"id"`
	Track   int     `json:"track" parquet:"track"`
	Offset  int     `json:"offset" parquet:"offset"`
	Palette string  `json:"palette" parquet:"palette"`
	Bars    []int   `json:"bars" parquet:"bars,list"`
	Rating  float64 `json:"rating" parquet:"rating"`
	Notes   int     `json:"notes" parquet:"notes"`
}

// ContextSnapshot is a copy of every bar stored for one TrackContext.
type ContextSnapshot struct {
	Context TrackContext `json:"context"`
	Bars    map[int]Bar  `json:"bars"`
}

// Snapshot is a point-in-time copy of the whole bar store.
type Snapshot struct {
	Track    int               `json:"track"`
	Offset   int               `json:"offset"`
	Palette  string            `json:"palette"`
	Contexts []ContextSnapshot `json:"contexts"`
}
