package model

// ChatMessage is one turn of the safety assistant conversation.
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
