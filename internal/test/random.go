package test

import (
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// FakeCustomer returns randomized Nigerian checkout contact details.
func FakeCustomer() model.Customer {
	return model.Customer{
		Name:  gofakeit.Name(),
		Phone: "+234" + gofakeit.Numerify("80########"),
		Email: strings.ToLower(gofakeit.Email()),
	}
}

// FakeCode returns a random upper-case discount code.
func FakeCode() string {
	return strings.ToUpper(gofakeit.Lexify("????")) + gofakeit.Numerify("##")
}
