package service

import (
	"context"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/jmoiron/sqlx"
)

// RatingService records ratings against bookings and keeps each user's
// per-role average current.
type RatingService interface {
	RecordRating(ctx context.Context, req *models.CreateRatingRequest) (*models.RatingResponse, error)
	ListRatingsForUser(ctx context.Context, userID string) ([]models.Rating, error)
}

type ratingService struct {
	txm         TxManager
	ratingRepo  repository.RatingRepository
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
}

func NewRatingService(
	txm TxManager,
	ratingRepo repository.RatingRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
) RatingService {
	return &ratingService{
		txm:         txm,
		ratingRepo:  ratingRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
	}
}

func (s *ratingService) RecordRating(ctx context.Context, req *models.CreateRatingRequest) (*models.RatingResponse, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, apperrors.InvalidScore()
	}

	fromUser, err := s.userRepo.GetByID(ctx, req.FromUserID)
	if err != nil {
		return nil, err
	}
	if fromUser == nil {
		return nil, apperrors.NotFound("from user")
	}

	toUser, err := s.userRepo.GetByID(ctx, req.ToUserID)
	if err != nil {
		return nil, err
	}
	if toUser == nil {
		return nil, apperrors.NotFound("to user")
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NotFound("booking")
	}

	rating := &models.Rating{
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		BookingID:  req.BookingID,
		RatedRole:  models.RatingRole(req.RatedRole),
		Score:      req.Score,
	}
	if req.Comment != "" {
		comment := req.Comment
		rating.Comment = &comment
	}

	// Insert and average refresh commit together so the stored average
	// always reflects the stored ratings.
	var avg float64
	var count int
	err = s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.ratingRepo.Create(ctx, tx, rating); err != nil {
			return err
		}
		avg, count, err = s.ratingRepo.RecomputeUserAverage(ctx, tx, req.ToUserID, rating.RatedRole)
		return err
	})
	if err == apperrors.ErrBookingRated {
		return nil, apperrors.BookingAlreadyRated()
	}
	if err != nil {
		return nil, err
	}

	return &models.RatingResponse{
		Rating:      rating,
		AvgRating:   avg,
		RatingCount: count,
	}, nil
}

func (s *ratingService) ListRatingsForUser(ctx context.Context, userID string) ([]models.Rating, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}
	return s.ratingRepo.ListByToUser(ctx, userID)
}
