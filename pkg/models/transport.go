package models

import "github.com/anime-shed/sobel-inspector-go/internal/sobel"

// EdgeAnalysisRequest asks the service to filter the image at URL and
// optionally store the edge image at OutputURL
type EdgeAnalysisRequest struct {
	URL       string `json:"url" binding:"required"`
	OutputURL string `json:"output_url,omitempty"`
	Format    string `json:"format,omitempty"`
}

// EdgeAnalysisResponse reports the outcome of an edge analysis
type EdgeAnalysisResponse struct {
	ImageURL          string          `json:"image_url"`
	OutputURL         string          `json:"output_url,omitempty"`
	Timestamp         string          `json:"timestamp"`
	Width             int             `json:"width"`
	Height            int             `json:"height"`
	Workers           int             `json:"workers"`
	ProcessingTimeSec float64         `json:"processing_time_sec"`
	Stats             sobel.EdgeStats `json:"stats"`
}

// ThreadsRequest changes the process-wide filter worker count
type ThreadsRequest struct {
	Threads *int `json:"threads" binding:"required"`
}

// ThreadsResponse reports the worker configuration
type ThreadsResponse struct {
	Threads    int `json:"threads"`
	MaxWorkers int `json:"max_workers"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
