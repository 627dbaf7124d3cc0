package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Capture models
type CaptureRequestData struct {
	DevicePath string  `json:"devicePath" example:"/dev/video0" doc:"Path to the video device"`
	Resolution string  `json:"resolution,omitempty" example:"1920x1080" doc:"Optional resolution in format widthxheight"`
	Delay      float64 `json:"delay,omitempty" example:"2.0" doc:"Optional delay in seconds before capturing"`
}

type CaptureRequest struct {
	Body CaptureRequestData
}

type CaptureData struct {
	Status  string            `json:"status" example:"success" doc:"Capture status"`
	Message string            `json:"message" example:"Snapshot captured successfully" doc:"Status message"`
	Data    map[string]string `json:"data,omitempty" doc:"Additional data (base64 image for API requests)"`
}

type CaptureResponse struct {
	Body CaptureData
}

// Error response
type ErrorData struct {
	Status  string `json:"status" example:"error" doc:"Error status"`
	Message string `json:"message" example:"Device not found" doc:"Error message"`
}

type ErrorResponse struct {
	Body ErrorData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2024-12-15 14:30" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"a1b2c3d4" doc:"Unique build identifier"`
	GoVersion string `json:"go_version" example:"go1.21.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}
