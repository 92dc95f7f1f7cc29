package contest

import (
	"context"
	"strings"
	"time"

	"contesthub/internal/domain"
	"contesthub/internal/repository"
)

type Service struct {
	contests ContestRepositoryInterface
}

func NewService(contests ContestRepositoryInterface) *Service {
	return &Service{contests: contests}
}

var validCategories = map[domain.ContestCategory]bool{
	domain.CategoryImageDesign:       true,
	domain.CategoryArticleWriting:    true,
	domain.CategoryMarketingStrategy: true,
	domain.CategoryDigitalAd:         true,
	domain.CategoryGamingReview:      true,
	domain.CategoryBusinessIdea:      true,
}

// Create registers a new contest in pending status, awaiting admin review.
func (s *Service) Create(ctx context.Context, creator *domain.User, req CreateContestRequest) (*domain.Contest, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Task) == "" {
		return nil, ErrValidation
	}
	if !validCategories[domain.ContestCategory(req.Category)] {
		return nil, ErrValidation
	}
	if req.Price < 0 || req.PrizeMoney <= 0 {
		return nil, ErrValidation
	}

	now := time.Now()
	if !req.Deadline.After(now) {
		return nil, ErrValidation
	}
	if req.StartDate != nil && !req.StartDate.Before(req.Deadline) {
		return nil, ErrValidation
	}

	c := &domain.Contest{
		Name:        strings.TrimSpace(req.Name),
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Task:        req.Task,
		Category:    domain.ContestCategory(req.Category),
		Price:       req.Price,
		PrizeMoney:  req.PrizeMoney,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
		Status:      domain.ContestPending,
		CreatorID:   creator.ID,
	}

	if err := s.contests.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Contest, error) {
	c, err := s.contests.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// allowedTransitions is the review state machine. No transition runs backward
// except the rejected -> approved re-review; completed is written only by the
// settlement workflow.
var allowedTransitions = map[domain.ContestStatus][]domain.ContestStatus{
	domain.ContestPending:  {domain.ContestApproved, domain.ContestRejected},
	domain.ContestRejected: {domain.ContestApproved},
}

// UpdateStatus applies an admin review decision.
func (s *Service) UpdateStatus(ctx context.Context, id int64, next domain.ContestStatus) (*domain.Contest, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ok := false
	for _, allowed := range allowedTransitions[c.Status] {
		if next == allowed {
			ok = true
			break
		}
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	if err := s.contests.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Update applies structural edits. Creators may edit only their own pending
// contests; admins may edit regardless of status. A settled contest is
// immutable for everyone.
func (s *Service) Update(ctx context.Context, id int64, actor *domain.User, req UpdateContestRequest) (*domain.Contest, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		if c.CreatorID != actor.ID {
			return nil, ErrForbidden
		}
		if c.Status != domain.ContestPending {
			return nil, ErrNotEditable
		}
	}
	if c.WinnerDeclared {
		return nil, ErrNotEditable
	}

	fields := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrValidation
		}
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Task != nil {
		fields["task"] = *req.Task
	}
	if req.Category != nil {
		if !validCategories[domain.ContestCategory(*req.Category)] {
			return nil, ErrValidation
		}
		fields["category"] = *req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, ErrValidation
		}
		fields["price"] = *req.Price
	}
	if req.PrizeMoney != nil {
		if *req.PrizeMoney <= 0 {
			return nil, ErrValidation
		}
		fields["prize_money"] = *req.PrizeMoney
	}

	start := c.StartDate
	deadline := c.Deadline
	if req.StartDate != nil {
		start = req.StartDate
		fields["start_date"] = req.StartDate
	}
	if req.Deadline != nil {
		deadline = *req.Deadline
		fields["deadline"] = *req.Deadline
	}
	if start != nil && !start.Before(deadline) {
		return nil, ErrValidation
	}

	if err := s.contests.UpdateContent(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a contest. Creators may delete only their own pending
// contests; admins may delete at any status.
func (s *Service) Delete(ctx context.Context, id int64, actor *domain.User) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		if c.CreatorID != actor.ID {
			return ErrForbidden
		}
		if c.Status != domain.ContestPending {
			return ErrNotEditable
		}
	}

	return s.contests.Delete(ctx, id)
}

type ListQuery struct {
	Category string
	Timeline string
	Search   string
	Page     int
	Limit    int
}

// List returns the public contest listing: approved and completed contests,
// optionally narrowed by category, timeline bucket and search term.
func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Contest, int64, error) {
	page, limit := clampPage(q.Page, q.Limit)

	return s.contests.List(ctx, repository.ContestFilters{
		Category: q.Category,
		Timeline: domain.Timeline(q.Timeline),
		Search:   strings.TrimSpace(q.Search),
		Statuses: []domain.ContestStatus{domain.ContestApproved, domain.ContestCompleted},
		Now:      time.Now(),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
}

// TimelineBuckets groups the public contests into past/ongoing/upcoming with
// per-bucket counts. Buckets are always recomputed against the wall clock.
type TimelineBuckets struct {
	Past     TimelineBucket `json:"past"`
	Ongoing  TimelineBucket `json:"ongoing"`
	Upcoming TimelineBucket `json:"upcoming"`
}

type TimelineBucket struct {
	Count    int64            `json:"count"`
	Contests []domain.Contest `json:"contests"`
}

func (s *Service) ByTimeline(ctx context.Context, limit int) (*TimelineBuckets, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	out := &TimelineBuckets{}
	now := time.Now()
	for _, tl := range []domain.Timeline{domain.TimelinePast, domain.TimelineOngoing, domain.TimelineUpcoming} {
		contests, total, err := s.contests.List(ctx, repository.ContestFilters{
			Timeline: tl,
			Statuses: []domain.ContestStatus{domain.ContestApproved, domain.ContestCompleted},
			Now:      now,
			Limit:    limit,
		})
		if err != nil {
			return nil, err
		}

		bucket := TimelineBucket{Count: total, Contests: contests}
		switch tl {
		case domain.TimelinePast:
			out.Past = bucket
		case domain.TimelineOngoing:
			out.Ongoing = bucket
		case domain.TimelineUpcoming:
			out.Upcoming = bucket
		}
	}
	return out, nil
}

// Mine lists the creator's own contests at any status.
func (s *Service) Mine(ctx context.Context, creatorID int64, page, limit int) ([]domain.Contest, int64, error) {
	page, limit = clampPage(page, limit)
	return s.contests.ListByCreator(ctx, creatorID, limit, (page-1)*limit)
}

// ListPending lists contests awaiting admin review.
func (s *Service) ListPending(ctx context.Context, page, limit int) ([]domain.Contest, int64, error) {
	page, limit = clampPage(page, limit)
	return s.contests.List(ctx, repository.ContestFilters{
		Statuses: []domain.ContestStatus{domain.ContestPending},
		Now:      time.Now(),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
}

func clampPage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit
}
