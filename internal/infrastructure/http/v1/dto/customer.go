package dto

import (
	"fakturo/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code           string  `json:"code"`
	Name           string  `json:"name" binding:"required"`
	Kind           string  `json:"kind" binding:"required"`
	LegalName      *string `json:"legalName"`
	VATNumber      *string `json:"vatNumber"`
	TaxCode        *string `json:"taxCode"`
	BillingAddress *string `json:"billingAddress"`
	City           *string `json:"city"`
	ZipCode        *string `json:"zipCode"`
	Country        *string `json:"country"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	ContactPerson  *string `json:"contactPerson"`
	Comment        *string `json:"comment"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name, customer.CustomerKind(r.Kind))
	c.LegalName = r.LegalName
	c.VATNumber = r.VATNumber
	c.TaxCode = r.TaxCode
	c.BillingAddress = r.BillingAddress
	c.City = r.City
	c.ZipCode = r.ZipCode
	c.Country = r.Country
	c.Email = r.Email
	c.Phone = r.Phone
	c.ContactPerson = r.ContactPerson
	c.Comment = r.Comment
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	CreateCustomerRequest
	Version int `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Code = r.Code
	c.Name = r.Name
	c.Kind = customer.CustomerKind(r.Kind)
	c.LegalName = r.LegalName
	c.VATNumber = r.VATNumber
	c.TaxCode = r.TaxCode
	c.BillingAddress = r.BillingAddress
	c.City = r.City
	c.ZipCode = r.ZipCode
	c.Country = r.Country
	c.Email = r.Email
	c.Phone = r.Phone
	c.ContactPerson = r.ContactPerson
	c.Comment = r.Comment
	c.Version = r.Version
}

// --- Response DTOs ---

// CustomerResponse is the response body for a customer.
type CustomerResponse struct {
	CatalogResponse
	Kind           string  `json:"kind"`
	LegalName      *string `json:"legalName,omitempty"`
	VATNumber      *string `json:"vatNumber,omitempty"`
	TaxCode        *string `json:"taxCode,omitempty"`
	BillingAddress *string `json:"billingAddress,omitempty"`
	City           *string `json:"city,omitempty"`
	ZipCode        *string `json:"zipCode,omitempty"`
	Country        *string `json:"country,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	ContactPerson  *string `json:"contactPerson,omitempty"`
	Comment        *string `json:"comment,omitempty"`
}

// FromCustomer creates response DTO from domain entity.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		Kind:            string(c.Kind),
		LegalName:       c.LegalName,
		VATNumber:       c.VATNumber,
		TaxCode:         c.TaxCode,
		BillingAddress:  c.BillingAddress,
		City:            c.City,
		ZipCode:         c.ZipCode,
		Country:         c.Country,
		Email:           c.Email,
		Phone:           c.Phone,
		ContactPerson:   c.ContactPerson,
		Comment:         c.Comment,
	}
}
