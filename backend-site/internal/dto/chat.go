package dto

import "strings"

type ChatRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}

var chatMessages = map[string]FieldMessage{
	"Message": {JSON: "message", Message: "Digite uma mensagem de até 500 caracteres"},
}

func (r *ChatRequest) Validate() FieldErrors {
	r.Message = strings.TrimSpace(r.Message)
	return validate(r, chatMessages).OrNil()
}
