package service

import (
	"context"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/collaborator"
)

// MotivationService serves the daily motivational quote.
type MotivationService interface {
	Quote(ctx context.Context) string
}

type motivationService struct {
	collab *collaborator.Client
}

// NewMotivationService creates a MotivationService.
func NewMotivationService(collab *collaborator.Client) MotivationService {
	return &motivationService{collab: collab}
}

func (s *motivationService) Quote(ctx context.Context) string {
	return s.collab.Motivation(ctx)
}
