package dto

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	Message string        `json:"message" binding:"required,max=4000"`
	History []ChatMessage `json:"history" binding:"omitempty,dive"`
}

type Usage struct {
	PromptTokens     int32 `json:"promptTokens"`
	CompletionTokens int32 `json:"completionTokens"`
	TotalTokens      int32 `json:"totalTokens"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
	Usage Usage  `json:"usage"`
}
