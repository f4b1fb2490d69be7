package domain

import (
	"context"
	"errors"

	"github.com/alldenims/pricequote/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name    string
	Country string
}

type UpdateCustomerRequest struct {
	ID      string
	Name    string
	Country string
}

type GetCustomerRequest struct {
	ID string
}

type DeleteCustomerRequest struct {
	ID string
}

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
	Name      string
	Country   string
}

type ListCustomerFilter struct {
	Name    string
	Country string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	Delete(context.Context, DeleteCustomerRequest) error
}

var (
	ErrAlreadyExists  = errors.New("already_exists")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidCountry = errors.New("invalid_country")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
