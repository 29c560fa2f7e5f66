package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const invalidInputTitle = "Invalid Input"

// ValidationError is a user-facing input error: a title and a message.
type ValidationError struct {
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Title + ": " + e.Message
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Title: invalidInputTitle, Message: msg}
}

// ProductForm is raw "add product" input. Image may hold any decodable
// image format, or nothing.
type ProductForm struct {
	Name  string `validate:"required"`
	Type  string `validate:"required,ne=Product"`
	Price string `validate:"required"`
	Tax   string `validate:"required"`
	Image []byte
}

var fieldMessages = map[string]string{
	"Name":  "Product name is required.",
	"Type":  "Please select a valid product type.",
	"Price": "Price must be a valid number.",
	"Tax":   "Tax rate must be a valid number.",
}

var validate = validator.New()

// ValidProduct is a ProductForm that passed Validate.
type ValidProduct struct {
	Name  string
	Type  string
	Price decimal.Decimal
	Tax   decimal.Decimal
	Image []byte
}

// Validate checks the form in field order and reports the first problem as
// a *ValidationError.
func (f ProductForm) Validate() (ValidProduct, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.TrimSpace(f.Type)
	f.Price = strings.TrimSpace(f.Price)
	f.Tax = strings.TrimSpace(f.Tax)

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ValidProduct{}, invalid(fieldMessages[verrs[0].Field()])
		}
		return ValidProduct{}, err
	}

	price, err := parseAmount(f.Price, "Price")
	if err != nil {
		return ValidProduct{}, err
	}
	tax, err := parseAmount(f.Tax, "Tax")
	if err != nil {
		return ValidProduct{}, err
	}

	return ValidProduct{Name: f.Name, Type: f.Type, Price: price, Tax: tax, Image: f.Image}, nil
}

func parseAmount(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(fieldMessages[field])
	}
	if d.IsNegative() {
		if field == "Price" {
			return decimal.Zero, invalid("Price must not be negative.")
		}
		return decimal.Zero, invalid("Tax rate must not be negative.")
	}
	return d, nil
}
