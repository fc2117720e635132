// Package handid mints identifiers for hands and for the events in their
// logs. IDs are UUIDv7 values rendered as 26-character Crockford base32,
// so identifiers of the same kind sort in creation order.
package handid

import (
	"crypto/rand"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource supplies the random tail of an ID. Inject one for
// deterministic tests; nil uses crypto/rand.
type RandSource interface {
	Intn(n int) int
}

// Generator mints IDs with a configurable randomness source and prefix
// scheme.
type Generator struct {
	rnd RandSource
}

// NewGenerator returns a generator drawing randomness from rnd, or from
// crypto/rand when rnd is nil.
func NewGenerator(rnd RandSource) *Generator {
	return &Generator{rnd: rnd}
}

// Hand mints a hand identifier.
func (g *Generator) Hand() string { return "hand_" + g.raw() }

// Event mints an event identifier.
func (g *Generator) Event() string { return "evt_" + g.raw() }

// Hand mints a hand identifier with the default generator.
func Hand() string { return NewGenerator(nil).Hand() }

// Event mints an event identifier with the default generator.
func Event() string { return NewGenerator(nil).Event() }

func (g *Generator) raw() string {
	return encodeBase32(g.uuidv7())
}

// uuidv7 builds a 128-bit UUIDv7: a 48-bit millisecond timestamp followed
// by version, variant, and random bits.
func (g *Generator) uuidv7() [16]byte {
	var id [16]byte

	now := time.Now().UnixMilli()
	id[0] = byte(now >> 40)
	id[1] = byte(now >> 32)
	id[2] = byte(now >> 24)
	id[3] = byte(now >> 16)
	id[4] = byte(now >> 8)
	id[5] = byte(now)

	if g.rnd != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(g.rnd.Intn(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("handid: read random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}

// encodeBase32 renders 128 bits as 26 characters, five bits at a time.
func encodeBase32(data [16]byte) string {
	out := make([]byte, 26)
	for i := range out {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}
		out[i] = alphabet[value]
	}
	return string(out)
}
