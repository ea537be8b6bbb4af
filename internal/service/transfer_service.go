package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/config"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/dto"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/store"
	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/transfer"
)

// Transfer errors are those of the codec so callers match either.
var (
	ErrTransferMalformed          = transfer.ErrMalformed
	ErrTransferMissingField       = transfer.ErrMissingField
	ErrTransferUnsupportedVersion = transfer.ErrUnsupportedVersion
)

// TransferService moves the roster between installations as a token.
type TransferService interface {
	Export(ctx context.Context) (*dto.TransferExportResponse, error)
	// Import replaces both roster collections with the token's content. A
	// token that fails to decode leaves the store untouched.
	Import(ctx context.Context, req *dto.TransferImportRequest) (*dto.TransferImportResponse, error)
}

type transferService struct {
	cfg    *config.Config
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewTransferService creates a TransferService.
func NewTransferService(cfg *config.Config, st *store.Store, logger *zap.Logger) TransferService {
	return &transferService{cfg: cfg, store: st, logger: logger, now: time.Now}
}

func (s *transferService) Export(ctx context.Context) (*dto.TransferExportResponse, error) {
	snap := s.store.Snapshot()
	at := s.now()
	token, err := transfer.Encode(snap.Instructors, snap.Students, at)
	if err != nil {
		s.logger.Error("failed to encode roster", zap.Error(err))
		return nil, err
	}
	return &dto.TransferExportResponse{
		Token:       token,
		ShareURL:    transfer.ShareURL(s.cfg.Server.BaseURL, token),
		ExportedAt:  at.UnixMilli(),
		Instructors: len(snap.Instructors),
		Students:    len(snap.Students),
	}, nil
}

func (s *transferService) Import(ctx context.Context, req *dto.TransferImportRequest) (*dto.TransferImportResponse, error) {
	token, ok := transfer.TokenFromLocation(req.Token)
	if !ok {
		return nil, fmt.Errorf("%w: no token found", ErrTransferMalformed)
	}
	snap, err := transfer.Decode(token)
	if err != nil {
		s.logger.Info("transfer token rejected", zap.Error(err))
		return nil, err
	}

	if err := s.store.ReplaceRoster(ctx, snap.Instructors, snap.Students); err != nil {
		s.logger.Error("failed to replace roster", zap.Error(err))
		return nil, err
	}
	s.logger.Info("roster imported",
		zap.Int("instructors", len(snap.Instructors)),
		zap.Int("students", len(snap.Students)),
		zap.Int("version", snap.Version),
	)
	return &dto.TransferImportResponse{
		Instructors: len(snap.Instructors),
		Students:    len(snap.Students),
		ExportedAt:  snap.ExportedAt.UnixMilli(),
		Version:     snap.Version,
	}, nil
}
