// Package chat talks to chat-completion APIs.
package chat

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type Choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

type Response struct {
	Choices []Choice `json:"choices"`
}

type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
