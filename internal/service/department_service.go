package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"clubhub/internal/models"
	"clubhub/internal/repository"

	"go.uber.org/zap"
)

type DepartmentService struct {
	deptRepo DepartmentStore
	logger   *zap.Logger
}

func NewDepartmentService(deptRepo DepartmentStore, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{
		deptRepo: deptRepo,
		logger:   logger,
	}
}

func (s *DepartmentService) List(ctx context.Context) ([]*models.Department, error) {
	return s.deptRepo.List(ctx)
}

func (s *DepartmentService) Create(ctx context.Context, name string) (*models.Department, error) {
	dept := &models.Department{
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}

	if err := s.deptRepo.Create(ctx, dept); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDepartmentExists
		}
		return nil, err
	}

	s.logger.Info("Department created", zap.Int64("department_id", dept.ID), zap.String("name", dept.Name))
	return dept, nil
}
