package service

import (
	"errors"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type ILogService interface {
	List(level, module string, page, limit int) ([]dto.LogListResponse, error)
	Show(id string) (*dto.LogDetailResponse, error)
}

type logService struct {
	logger logger.ILogger
}

func NewLogService(log logger.ILogger) ILogService {
	return &logService{logger: log}
}

func (s *logService) List(level, module string, page, limit int) ([]dto.LogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := s.logger.GetLogs(level, module, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	res := make([]dto.LogListResponse, len(entries))
	for i, e := range entries {
		res[i] = toLogListResponse(e)
	}
	return res, nil
}

func (s *logService) Show(id string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(id)
	if err != nil {
		if errors.Is(err, logger.ErrLogNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "log not found")
		}
		return nil, err
	}
	return &dto.LogDetailResponse{LogListResponse: toLogListResponse(*entry), Details: entry.Details}, nil
}

func toLogListResponse(e logger.LogEntry) dto.LogListResponse {
	return dto.LogListResponse{
		Id:        e.Id,
		Level:     e.Level,
		Module:    e.Module,
		Message:   e.Message,
		Timestamp: e.Timestamp,
	}
}
