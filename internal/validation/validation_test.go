package validation

import (
	"testing"

	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestStruct(t *testing.T) {
	ok := dto.LoginRequest{Email: "a@example.com", Password: "hunter22"}
	assert.NoError(t, Struct(&ok))

	missing := dto.LoginRequest{Email: "a@example.com"}
	err := Struct(&missing)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Password")

	badEmail := dto.LoginRequest{Email: "not-an-email", Password: "hunter22"}
	err = Struct(&badEmail)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestStructNestedDive(t *testing.T) {
	req := dto.CreateOrderRequest{
		AddressID: "0e4cbd41-10ad-43bf-91b4-74a08b07f9c9",
		Items: []dto.OrderItemRequest{
			{ProductID: "0e4cbd41-10ad-43bf-91b4-74a08b07f9c9", Quantity: 0},
		},
	}

	err := Struct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Quantity")
}

func TestStructOTP(t *testing.T) {
	assert.NoError(t, Struct(&dto.VerifyOTPRequest{Email: "a@example.com", OTP: "123456"}))
	assert.Error(t, Struct(&dto.VerifyOTPRequest{Email: "a@example.com", OTP: "12345"}))
	assert.Error(t, Struct(&dto.VerifyOTPRequest{Email: "a@example.com", OTP: "12345a"}))
}
