package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRoundTrip(t *testing.T) {
	tk := NewTickets("secret", nil, zerolog.Nop())
	ticket, err := tk.Mint("s1")
	require.NoError(t, err)

	assert.NoError(t, tk.Verify(ticket, "s1"))
	assert.ErrorIs(t, tk.Verify(ticket, "s2"), ErrBadTicket)
}

func TestTicketOtherSecret(t *testing.T) {
	ticket, err := NewTickets("one", nil, zerolog.Nop()).Mint("s1")
	require.NoError(t, err)

	err = NewTickets("two", nil, zerolog.Nop()).Verify(ticket, "s1")
	assert.ErrorIs(t, err, ErrBadTicket)
}

func TestTicketExpired(t *testing.T) {
	tk := NewTickets("secret", nil, zerolog.Nop())
	past := time.Now().Add(-time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SeatClaims{
		Session: "s1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ticketIssuer,
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	})
	ticket, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	assert.ErrorIs(t, tk.Verify(ticket, "s1"), ErrBadTicket)
}

func TestTicketGarbage(t *testing.T) {
	tk := NewTickets("secret", nil, zerolog.Nop())
	assert.ErrorIs(t, tk.Verify("not-a-jwt", "s1"), ErrBadTicket)
}

func TestTicketSecretPersisted(t *testing.T) {
	db := openTestDB(t)
	first := NewTickets("", db, zerolog.Nop())
	ticket, err := first.Mint("s1")
	require.NoError(t, err)

	second := NewTickets("", db, zerolog.Nop())
	assert.NoError(t, second.Verify(ticket, "s1"), "secret should survive a restart")
	assert.Len(t, db.GetSetting(secretSetting), secretByteLen*2)
}
