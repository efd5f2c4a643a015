package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	itemDomain "github.com/shareit-team/shareit-server/internal/domain/item"
	requestDomain "github.com/shareit-team/shareit-server/internal/domain/request"
	userDomain "github.com/shareit-team/shareit-server/internal/domain/user"
	"github.com/shareit-team/shareit-server/pkg/domain"
)

// RequestService manages wanted-item posts and collects the items listed in answer.
type RequestService struct {
	repo   requestDomain.ItemRequestRepository
	items  itemDomain.ItemRepository
	users  userDomain.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	repo requestDomain.ItemRequestRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{repo: repo, items: items, users: users, logger: logger, now: utcNow}
}

// CreateRequest posts a new item request for userID.
func (s *RequestService) CreateRequest(ctx context.Context, userID int64, req CreateItemRequestRequest) (*ItemRequestDTO, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	r, err := requestDomain.NewItemRequest(userID, req.Description, s.now())
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, r)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item request created", zap.Int64("request_id", saved.ID()), zap.Int64("requestor_id", userID))
	result := toItemRequestDTO(saved, nil)
	return &result, nil
}

// ListOwnRequests returns userID's requests, newest first, with their answers.
func (s *RequestService) ListOwnRequests(ctx context.Context, userID int64) ([]ItemRequestDTO, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.FindByRequestorID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withAnswers(ctx, requests)
}

// ListOtherRequests returns requests posted by everyone else, newest first.
func (s *RequestService) ListOtherRequests(ctx context.Context, userID int64, from, size int) ([]ItemRequestDTO, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.FindOthers(ctx, userID, domain.NewPage(from, size))
	if err != nil {
		return nil, err
	}
	return s.withAnswers(ctx, requests)
}

// GetRequest returns one request with its answers.
func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*ItemRequestDTO, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.withAnswers(ctx, []*requestDomain.ItemRequest{r})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *RequestService) withAnswers(ctx context.Context, requests []*requestDomain.ItemRequest) ([]ItemRequestDTO, error) {
	if len(requests) == 0 {
		return []ItemRequestDTO{}, nil
	}
	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID()
	}

	answers, err := s.items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[int64][]*itemDomain.Item, len(requests))
	for _, it := range answers {
		if it.RequestID() != nil {
			byRequest[*it.RequestID()] = append(byRequest[*it.RequestID()], it)
		}
	}

	dtos := make([]ItemRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = toItemRequestDTO(r, byRequest[r.ID()])
	}
	return dtos, nil
}
