package request_models

type SpeakRequest struct {
	Text string `json:"text" binding:"required"`
}

type AssistRequest struct {
	Text string `json:"text" binding:"required"`
}
