package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"clubhub/internal/dto"
	"clubhub/internal/models"
	"clubhub/internal/repository"

	"go.uber.org/zap"
)

type ClubService struct {
	clubRepo ClubStore
	deptRepo DepartmentStore
	logger   *zap.Logger
}

func NewClubService(clubRepo ClubStore, deptRepo DepartmentStore, logger *zap.Logger) *ClubService {
	return &ClubService{
		clubRepo: clubRepo,
		deptRepo: deptRepo,
		logger:   logger,
	}
}

func (s *ClubService) List(ctx context.Context, activeOnly bool) ([]*models.Club, error) {
	if activeOnly {
		return s.clubRepo.ListActive(ctx)
	}
	return s.clubRepo.ListAll(ctx)
}

func (s *ClubService) Get(ctx context.Context, id int64) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return club, nil
}

func (s *ClubService) Create(ctx context.Context, req *dto.ClubRequest) (*models.Club, error) {
	deptName, err := s.departmentName(ctx, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	club := &models.Club{
		Name:           strings.TrimSpace(req.Name),
		Description:    strings.TrimSpace(req.Description),
		DepartmentID:   req.DepartmentID,
		IsActive:       req.IsActive == nil || *req.IsActive,
		CreatedAt:      now,
		UpdatedAt:      now,
		DepartmentName: deptName,
	}

	if err := s.clubRepo.Create(ctx, club); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrClubExists
		}
		return nil, err
	}

	s.logger.Info("Club created", zap.Int64("club_id", club.ID), zap.String("name", club.Name))
	return club, nil
}

// Update replaces the club's fields. IsActive is left alone when omitted.
func (s *ClubService) Update(ctx context.Context, id int64, req *dto.ClubRequest) (*models.Club, error) {
	club, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	deptName, err := s.departmentName(ctx, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	club.Name = strings.TrimSpace(req.Name)
	club.Description = strings.TrimSpace(req.Description)
	club.DepartmentID = req.DepartmentID
	club.DepartmentName = deptName
	if req.IsActive != nil {
		club.IsActive = *req.IsActive
	}
	club.UpdatedAt = time.Now()

	if err := s.clubRepo.Update(ctx, club); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrClubNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrClubExists
		}
		return nil, err
	}

	return club, nil
}

func (s *ClubService) Delete(ctx context.Context, id int64) error {
	if err := s.clubRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClubNotFound
		}
		return err
	}

	s.logger.Info("Club deleted", zap.Int64("club_id", id))
	return nil
}

func (s *ClubService) Join(ctx context.Context, userID, clubID int64) error {
	club, err := s.Get(ctx, clubID)
	if err != nil {
		return err
	}
	if !club.IsActive {
		return ErrClubInactive
	}

	if err := s.clubRepo.AddMember(ctx, userID, clubID, time.Now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return ErrAlreadyMember
		case errors.Is(err, repository.ErrForeignKey):
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info("User joined club", zap.Int64("user_id", userID), zap.Int64("club_id", clubID))
	return nil
}

func (s *ClubService) Leave(ctx context.Context, userID, clubID int64) error {
	if err := s.clubRepo.RemoveMember(ctx, userID, clubID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotMember
		}
		return err
	}

	s.logger.Info("User left club", zap.Int64("user_id", userID), zap.Int64("club_id", clubID))
	return nil
}

func (s *ClubService) MyClubs(ctx context.Context, userID int64) ([]*models.Club, error) {
	return s.clubRepo.ListByMember(ctx, userID)
}

func (s *ClubService) Members(ctx context.Context, clubID int64) ([]*models.ClubMember, error) {
	if _, err := s.Get(ctx, clubID); err != nil {
		return nil, err
	}
	return s.clubRepo.ListMembers(ctx, clubID)
}

func (s *ClubService) departmentName(ctx context.Context, id *int64) (string, error) {
	if id == nil {
		return "", nil
	}

	dept, err := s.deptRepo.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrDepartmentNotFound
		}
		return "", err
	}
	return dept.Name, nil
}
