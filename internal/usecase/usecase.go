package usecase

import "context"

type ChatbotUC interface {
	ProcessMessage(ctx context.Context, req *ProcessMessageReq) (*ProcessMessageRes, error)
	Greeting(ctx context.Context) string
}

type SeedUC interface {
	Seed(ctx context.Context) (*SeedResult, error)
}
