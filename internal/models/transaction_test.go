package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaturalKey(t *testing.T) {
	a := Transaction{Date: "2024-01-05", Description: "Loblaws", Merchant: "Loblaws", Amount: 82.5}
	b := Transaction{Date: "2024-01-05", Description: "Loblaws", Merchant: "Loblaws", Amount: 82.50, Category: "groceries", Provider: "amex"}
	c := Transaction{Date: "2024-01-05", Description: "Loblaws", Merchant: "Loblaws", Amount: 17.25}

	assert.Equal(t, a.NaturalKey(), b.NaturalKey(), "category and provider are not part of the identity")
	assert.NotEqual(t, a.NaturalKey(), c.NaturalKey())
}

func TestDedupe(t *testing.T) {
	txs := []Transaction{
		{Date: "2024-01-05", Description: "Loblaws", Merchant: "Loblaws", Amount: 82.5},
		{Date: "2024-01-06", Description: "Pizza", Merchant: "Pizza", Amount: 21},
		{Date: "2024-01-05", Description: "Loblaws", Merchant: "Loblaws", Amount: 82.5},
	}

	out := Dedupe(txs)
	require.Len(t, out, 2)
	assert.Equal(t, "Loblaws", out[0].Description, "first occurrence order is preserved")
	assert.Equal(t, "Pizza", out[1].Description)
}

func TestFilterByMonth(t *testing.T) {
	txs := []Transaction{
		{Date: "2024-01-05"},
		{Date: "2024-02-03"},
		{Date: "2024-01-31"},
	}

	out, err := FilterByMonth(txs, "2024-01")
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = FilterByMonth(txs, "January 2024")
	assert.Error(t, err)
}
