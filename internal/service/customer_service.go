package service

import (
	"context"
	"fmt"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/dto"
	"github.com/siddronomomos/farmacia/internal/model"
	"github.com/siddronomomos/farmacia/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.SaveCustomerRequest) (*dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SaveCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, search string) ([]dto.CustomerResponse, error)
	// Delete refuses to remove a customer with sales on record.
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

// validateRFC enforces the two legal RFC lengths: 13 for individuals,
// 10 for the bare root without homoclave.
func validateRFC(rfc string) error {
	if len(rfc) != 10 && len(rfc) != 13 {
		return fmt.Errorf("rfc must be 10 or 13 characters, got %d", len(rfc))
	}
	return nil
}

func (s *customerService) Create(ctx context.Context, userID uuid.UUID, req dto.SaveCustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateRFC(req.RFC); err != nil {
		return nil, err
	}
	customer := &model.Customer{
		UserID: userID,
		Name:   req.Name,
		Phone:  req.Phone,
		RFC:    req.RFC,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.SaveCustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateRFC(req.RFC); err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.RFC = req.RFC
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, search string) ([]dto.CustomerResponse, error) {
	var (
		customers []model.Customer
		err       error
	)
	if search != "" {
		customers, err = s.repo.Search(ctx, search)
	} else {
		customers, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	hasSales, err := s.repo.HasSales(ctx, id)
	if err != nil {
		return err
	}
	if hasSales {
		return fmt.Errorf("%w: customer has sales on record", apierror.ErrReferentialConflict)
	}
	return s.repo.Delete(ctx, id)
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:     c.ID.String(),
		UserID: c.UserID.String(),
		Name:   c.Name,
		Phone:  c.Phone,
		RFC:    c.RFC,
		Points: c.Points,
	}
}
