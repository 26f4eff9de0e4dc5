package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	ticketExpiry  = 24 * time.Hour
	ticketIssuer  = "terrain-arena"
	secretSetting = "ticket_secret"
	secretByteLen = 32
)

// ErrBadTicket is returned for any ticket that does not grant the seat
var ErrBadTicket = errors.New("invalid seat ticket")

// SeatClaims bind a ticket to one session
type SeatClaims struct {
	Session string `json:"sid"`
	jwt.RegisteredClaims
}

// Tickets mints and checks the HS256 tokens that grant a session's seat
type Tickets struct {
	secret []byte
}

// NewTickets uses secret when set, otherwise loads or creates one in db.
// With neither, the secret lives only as long as the process.
func NewTickets(secret string, db *DB, log zerolog.Logger) *Tickets {
	if secret != "" {
		return &Tickets{secret: []byte(secret)}
	}
	return &Tickets{secret: loadOrCreateSecret(db, log)}
}

// loadOrCreateSecret loads the signing secret from the database, or
// generates and persists a new one if none exists.
func loadOrCreateSecret(db *DB, log zerolog.Logger) []byte {
	if db != nil {
		if h := db.GetSetting(secretSetting); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == secretByteLen {
				return b
			}
		}
	}
	secret := make([]byte, secretByteLen)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate ticket secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting(secretSetting, hex.EncodeToString(secret)); err != nil {
			log.Warn().Err(err).Msg("could not persist ticket secret")
		}
	}
	return secret
}

// Mint issues a seat ticket for sessionID
func (t *Tickets) Mint(sessionID string) (string, error) {
	now := time.Now()
	claims := SeatClaims{
		Session: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ticketIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ticketExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks that ticket was minted here for sessionID and has not expired
func (t *Tickets) Verify(ticket, sessionID string) error {
	var claims SeatClaims
	_, err := jwt.ParseWithClaims(ticket, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ticketIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadTicket, err)
	}
	if claims.Session != sessionID {
		return fmt.Errorf("%w: issued for another session", ErrBadTicket)
	}
	return nil
}
