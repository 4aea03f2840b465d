package dto

import (
	"fakturo/internal/core/id"
	"fakturo/internal/domain/catalogs/company"
)

// --- Request DTOs ---

// CreateCompanyRequest is the request body for creating a company.
type CreateCompanyRequest struct {
	Code           string  `json:"code" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	LegalName      *string `json:"legalName"`
	VATNumber      *string `json:"vatNumber"`
	TaxCode        *string `json:"taxCode"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	ZipCode        *string `json:"zipCode"`
	Country        *string `json:"country"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	BaseCurrencyID *string `json:"baseCurrencyId"`
	IsDefault      bool    `json:"isDefault"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCompanyRequest) ToEntity() *company.Company {
	c := company.NewCompany(r.Code, r.Name)
	c.LegalName = r.LegalName
	c.VATNumber = r.VATNumber
	c.TaxCode = r.TaxCode
	c.Address = r.Address
	c.City = r.City
	c.ZipCode = r.ZipCode
	c.Country = r.Country
	c.Email = r.Email
	c.Phone = r.Phone
	c.IsDefault = r.IsDefault
	if r.BaseCurrencyID != nil {
		if curID, err := id.Parse(*r.BaseCurrencyID); err == nil {
			c.BaseCurrencyID = curID
		}
	}
	return c
}

// UpdateCompanyRequest is the request body for updating a company.
type UpdateCompanyRequest struct {
	CreateCompanyRequest
	Version int `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCompanyRequest) ApplyTo(c *company.Company) {
	c.Code = r.Code
	c.Name = r.Name
	c.LegalName = r.LegalName
	c.VATNumber = r.VATNumber
	c.TaxCode = r.TaxCode
	c.Address = r.Address
	c.City = r.City
	c.ZipCode = r.ZipCode
	c.Country = r.Country
	c.Email = r.Email
	c.Phone = r.Phone
	c.IsDefault = r.IsDefault
	c.BaseCurrencyID = id.Nil()
	if r.BaseCurrencyID != nil {
		if curID, err := id.Parse(*r.BaseCurrencyID); err == nil {
			c.BaseCurrencyID = curID
		}
	}
	c.Version = r.Version
}

// --- Response DTOs ---

// CompanyResponse is the response body for a company.
type CompanyResponse struct {
	CatalogResponse
	LegalName      *string `json:"legalName,omitempty"`
	VATNumber      *string `json:"vatNumber,omitempty"`
	TaxCode        *string `json:"taxCode,omitempty"`
	Address        *string `json:"address,omitempty"`
	City           *string `json:"city,omitempty"`
	ZipCode        *string `json:"zipCode,omitempty"`
	Country        *string `json:"country,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	BaseCurrencyID string  `json:"baseCurrencyId,omitempty"`
	IsDefault      bool    `json:"isDefault"`
}

// FromCompany creates response DTO from domain entity.
func FromCompany(c *company.Company) *CompanyResponse {
	resp := &CompanyResponse{
		CatalogResponse: FromCatalog(c.Catalog),
		LegalName:       c.LegalName,
		VATNumber:       c.VATNumber,
		TaxCode:         c.TaxCode,
		Address:         c.Address,
		City:            c.City,
		ZipCode:         c.ZipCode,
		Country:         c.Country,
		Email:           c.Email,
		Phone:           c.Phone,
		IsDefault:       c.IsDefault,
	}
	if !id.IsNil(c.BaseCurrencyID) {
		resp.BaseCurrencyID = c.BaseCurrencyID.String()
	}
	return resp
}
