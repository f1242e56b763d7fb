// Package envelope composes the header, the sequence field, packet
// serialization and the byte transform into encode and decode.
//
// Outbound layout: action, family, sequence (1 or 2 bytes), fields.
// Inbound layout: action, family, fields. The whole buffer is obfuscated
// when the multiplier is non-zero, except for the connection-init packet,
// which travels before any multiplier exists.
package envelope

import (
	"fmt"

	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/eodata"
	"github.com/danmuck/eoclient/internal/protocol/sequence"
	"github.com/danmuck/eoclient/internal/protocol/transform"
)

// Resolver turns a plain (action, family, fields) buffer into a packet.
type Resolver interface {
	TryCreate(data []byte) (protocol.Packet, bool)
}

// Marshal writes the unobfuscated outbound form of p.
func Marshal(p protocol.Packet, seq int) ([]byte, error) {
	if p == nil {
		return nil, protocol.ErrNilPacket
	}
	seqBytes, err := sequence.Encode(seq)
	if err != nil {
		return nil, err
	}
	w := eodata.NewWriter()
	w.AddByte(byte(p.Action()))
	w.AddByte(byte(p.Family()))
	w.AddBytes(seqBytes)
	if err := p.Serialize(w); err != nil {
		return nil, fmt.Errorf("serialize %s: %w", protocol.IDOf(p), err)
	}
	return w.Bytes(), nil
}

// Encode returns the outbound wire form of p.
func Encode(p protocol.Packet, multiplier int, seq int) ([]byte, error) {
	plain, err := Marshal(p, seq)
	if err != nil {
		return nil, err
	}
	if multiplier == 0 || protocol.IDOf(p).IsInit() {
		return plain, nil
	}
	return transform.Encrypt(plain, multiplier), nil
}

// EncodeInbound returns the inbound wire form of p: no sequence field.
// Peers and test harnesses use it to produce what Decode reads.
func EncodeInbound(p protocol.Packet, multiplier int) ([]byte, error) {
	if p == nil {
		return nil, protocol.ErrNilPacket
	}
	w := eodata.NewWriter()
	w.AddByte(byte(p.Action()))
	w.AddByte(byte(p.Family()))
	if err := p.Serialize(w); err != nil {
		return nil, fmt.Errorf("serialize %s: %w", protocol.IDOf(p), err)
	}
	if multiplier == 0 || protocol.IDOf(p).IsInit() {
		return w.Bytes(), nil
	}
	return transform.Encrypt(w.Bytes(), multiplier), nil
}

// Decoder resolves inbound buffers against a packet registry.
type Decoder struct {
	resolver Resolver
}

func NewDecoder(resolver Resolver) *Decoder {
	return &Decoder{resolver: resolver}
}

// Decode reads an inbound envelope, which carries no sequence field. An
// unrecognized or too-short buffer yields false; it is not an error.
func (d *Decoder) Decode(data []byte, multiplier int) (protocol.Packet, bool) {
	return d.resolver.TryCreate(reveal(data, multiplier))
}

// DecodeSequenced reads an outbound-form envelope whose sequence field is
// sized for the expected counter value. It returns the packet and the
// sequence value found on the wire.
func (d *Decoder) DecodeSequenced(data []byte, multiplier int, expected int) (protocol.Packet, int, bool) {
	plain := reveal(data, multiplier)
	if len(plain) < protocol.HeaderLen {
		return nil, 0, false
	}
	seq, n, err := sequence.Decode(plain[protocol.HeaderLen:], expected)
	if err != nil {
		return nil, 0, false
	}
	body := make([]byte, 0, len(plain)-n)
	body = append(body, plain[:protocol.HeaderLen]...)
	body = append(body, plain[protocol.HeaderLen+n:]...)
	p, ok := d.resolver.TryCreate(body)
	if !ok {
		return nil, 0, false
	}
	return p, seq, true
}

// reveal undoes the transform unless the buffer is a plain init packet.
func reveal(data []byte, multiplier int) []byte {
	if multiplier <= 0 {
		return data
	}
	// An obfuscated packet must never open with FF FF on the wire.
	if id, ok := protocol.PeekID(data); ok && id.IsInit() {
		return data
	}
	return transform.Decrypt(data, multiplier)
}
