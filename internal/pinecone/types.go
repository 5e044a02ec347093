package pinecone

import "encoding/json"

// QueryRequest is sent to POST /query on the index host.
type QueryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeValues   bool      `json:"includeValues"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace"`
}

type queryResponse struct {
	Matches []rawMatch `json:"matches"`
}

// rawMatch defers metadata decoding so one malformed record cannot fail the
// whole response.
type rawMatch struct {
	ID       string          `json:"id"`
	Score    float64         `json:"score"`
	Metadata json.RawMessage `json:"metadata"`
}

// Metadata is the validated per-passage record stored in the index.
type Metadata struct {
	Text  string `json:"text"`
	Title string `json:"title"`
	// External video identifiers for the reference line.
	YouTubeID  string `json:"ytid"`
	BilibiliID string `json:"bvid"`
}

// Match is a scored index hit with validated metadata.
type Match struct {
	ID       string
	Score    float64
	Metadata Metadata
}
