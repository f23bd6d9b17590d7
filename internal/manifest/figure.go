package manifest

import "time"

// Figure records one PNG written by a run.
type Figure struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Bytes     int64     `json:"bytes"`
	WrittenAt time.Time `json:"written_at"`
}
