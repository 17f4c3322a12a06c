package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// USBTMC bulk message constants (USBTMC 1.0, section 3.2).
const (
	usbtmcHeaderSize = 12

	msgDevDepMsgOut       = 1
	msgRequestDevDepMsgIn = 2

	attrEOM      = 0x01
	attrTermChar = 0x02
)

// USBTMC framing errors.
var (
	errShortHeader = errors.New("usbtmc: short bulk-in header")
	errTagMismatch = errors.New("usbtmc: bTag mismatch")
)

// nextTag advances a bTag, skipping zero which the standard reserves.
func nextTag(tag byte) byte {
	tag++
	if tag == 0 {
		tag = 1
	}
	return tag
}

// encodeDevDepMsgOut frames data as a single DEV_DEP_MSG_OUT transfer with
// EOM set, padded to a 4-byte boundary.
func encodeDevDepMsgOut(tag byte, data []byte) []byte {
	n := usbtmcHeaderSize + len(data)
	pad := (4 - n%4) % 4
	b := make([]byte, n+pad)
	b[0] = msgDevDepMsgOut
	b[1] = tag
	b[2] = ^tag
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(data)))
	b[8] = attrEOM
	copy(b[usbtmcHeaderSize:], data)
	return b
}

// encodeRequestDevDepMsgIn asks the device for up to maxSize bytes. When
// term is non-zero the device may end the transfer at that character.
func encodeRequestDevDepMsgIn(tag byte, maxSize uint32, term byte) []byte {
	b := make([]byte, usbtmcHeaderSize)
	b[0] = msgRequestDevDepMsgIn
	b[1] = tag
	b[2] = ^tag
	binary.LittleEndian.PutUint32(b[4:8], maxSize)
	if term != 0 {
		b[8] = attrTermChar
		b[9] = term
	}
	return b
}

// decodeDevDepMsgIn validates a bulk-in transfer and returns its payload and
// whether it ends the message.
func decodeDevDepMsgIn(tag byte, b []byte) ([]byte, bool, error) {
	if len(b) < usbtmcHeaderSize {
		return nil, false, errShortHeader
	}
	if b[0] != msgRequestDevDepMsgIn {
		return nil, false, fmt.Errorf("usbtmc: unexpected MsgID %d", b[0])
	}
	if b[1] != tag || b[2] != ^tag {
		return nil, false, errTagMismatch
	}
	size := int(binary.LittleEndian.Uint32(b[4:8]))
	if size > len(b)-usbtmcHeaderSize {
		return nil, false, fmt.Errorf("usbtmc: transfer size %d exceeds %d received bytes", size, len(b)-usbtmcHeaderSize)
	}
	eom := b[8]&attrEOM != 0
	return b[usbtmcHeaderSize : usbtmcHeaderSize+size], eom, nil
}
