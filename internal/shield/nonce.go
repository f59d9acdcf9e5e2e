// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shield

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	// NonceAction names the edit-panel save action a nonce is bound to.
	NonceAction = "pps_shield_meta_box"

	// nonceTick is half of a nonce's lifetime. A nonce verifies during the
	// tick it was issued in and the one after.
	nonceTick = 12 * time.Hour

	// nonceLength is the number of hex characters kept from the MAC.
	nonceLength = 20
)

// Nonces issues and verifies action-scoped form tokens. A token is bound to
// one action and one user, so a token from another form or another account
// does not verify.
type Nonces struct {
	key []byte
	now func() time.Time
}

// NewNonces returns a nonce issuer signing with secret.
func NewNonces(secret []byte) *Nonces {
	return &Nonces{key: secret, now: time.Now}
}

// Create returns a token for action, valid for userID.
func (n *Nonces) Create(action string, userID uuid.UUID) string {
	return n.sign(n.tick(), action, userID)
}

// Verify reports whether token was issued for action and userID within the
// current or previous tick. Empty tokens never verify.
func (n *Nonces) Verify(token, action string, userID uuid.UUID) bool {
	if token == "" {
		return false
	}
	tick := n.tick()
	for _, t := range []int64{tick, tick - 1} {
		expected := n.sign(t, action, userID)
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1 {
			return true
		}
	}
	return false
}

func (n *Nonces) tick() int64 {
	return n.now().Unix() / int64(nonceTick/time.Second)
}

func (n *Nonces) sign(tick int64, action string, userID uuid.UUID) string {
	mac := hmac.New(sha256.New, n.key)
	mac.Write([]byte(strconv.FormatInt(tick, 10)))
	mac.Write([]byte{'|'})
	mac.Write([]byte(action))
	mac.Write([]byte{'|'})
	mac.Write([]byte(userID.String()))
	return hex.EncodeToString(mac.Sum(nil))[:nonceLength]
}
