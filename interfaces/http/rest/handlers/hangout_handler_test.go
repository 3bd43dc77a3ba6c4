package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketInfoRequestCarriesPriceThrough(t *testing.T) {
	payload := `{"required":true,"link":"https://tickets.example.com/e/1","priceCents":129900,"currency":"EUR"}`
	var req TicketInfoRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	info := req.toTicketInfo()
	assert.True(t, info.Required)
	assert.Equal(t, "https://tickets.example.com/e/1", info.Link)
	assert.Equal(t, int64(129900), info.PriceCents)
	assert.Equal(t, "EUR", info.Currency)
}
