package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"supplyflow/errors"
)

func TestCustomer_Validate(t *testing.T) {
	valid := Customer{Name: "Acme", Address: "1 rue de la Paix", City: "Paris"}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name     string
		customer Customer
	}{
		{"missing name", Customer{Address: "1 rue de la Paix", City: "Paris"}},
		{"missing address", Customer{Name: "Acme", City: "Paris"}},
		{"missing city", Customer{Name: "Acme", Address: "1 rue de la Paix"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.customer.Validate()
			require.True(t, errors.IsValidation(err))
		})
	}
}

func TestCustomer_GetID(t *testing.T) {
	require.Equal(t, int64(42), Customer{ID: 42}.GetID())
}

func TestUser_Validate(t *testing.T) {
	valid := User{
		Email:     "marie@example.com",
		FirstName: "Marie",
		LastName:  "Curie",
		Role:      UserRoleAdmin,
	}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		user User
	}{
		{"missing email", User{FirstName: "Marie", LastName: "Curie", Role: UserRoleAdmin}},
		{"missing first name", User{Email: "marie@example.com", LastName: "Curie", Role: UserRoleAdmin}},
		{"missing last name", User{Email: "marie@example.com", FirstName: "Marie", Role: UserRoleAdmin}},
		{"unknown role", User{Email: "marie@example.com", FirstName: "Marie", LastName: "Curie", Role: "STAGIAIRE"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.Validate()
			require.True(t, errors.IsValidation(err))
		})
	}
}
