package ptyhost

import (
	"encoding/binary"

	"github.com/go-errors/errors"
)

// Bridge frame opcodes. Each frame is one opcode byte followed by an
// opcode-specific payload, all integers big-endian.
const (
	OpData   byte = 0x01 // u32 length + raw bytes
	OpResize byte = 0x02 // u16 cols + u16 rows
	OpClose  byte = 0x03 // no payload
)

// maxDataFrame bounds a single DATA frame so a corrupt length prefix cannot
// make the decoder buffer unbounded input.
const maxDataFrame = 16 << 20

// Message is one decoded bridge frame.
type Message struct {
	Op   byte
	Data []byte // OpData payload
	Cols int    // OpResize
	Rows int    // OpResize
}

// Decoder incrementally decodes bridge frames from an arbitrary chunking of
// the byte stream. Unknown opcodes are skipped one byte at a time so the
// decoder re-synchronizes on the next valid frame.
type Decoder struct {
	buf []byte
}

// Feed appends p to the internal buffer and returns all complete frames.
// A frame split across Feed calls is held until its remainder arrives.
func (d *Decoder) Feed(p []byte) ([]Message, error) {
	d.buf = append(d.buf, p...)

	var msgs []Message
	for len(d.buf) > 0 {
		switch d.buf[0] {
		case OpData:
			if len(d.buf) < 5 {
				return msgs, nil
			}
			n := binary.BigEndian.Uint32(d.buf[1:5])
			if n > maxDataFrame {
				return msgs, errors.Errorf("data frame of %d bytes exceeds limit", n)
			}
			if len(d.buf) < 5+int(n) {
				return msgs, nil
			}
			data := make([]byte, n)
			copy(data, d.buf[5:5+n])
			msgs = append(msgs, Message{Op: OpData, Data: data})
			d.buf = d.buf[5+n:]

		case OpResize:
			if len(d.buf) < 5 {
				return msgs, nil
			}
			msgs = append(msgs, Message{
				Op:   OpResize,
				Cols: int(binary.BigEndian.Uint16(d.buf[1:3])),
				Rows: int(binary.BigEndian.Uint16(d.buf[3:5])),
			})
			d.buf = d.buf[5:]

		case OpClose:
			msgs = append(msgs, Message{Op: OpClose})
			d.buf = d.buf[1:]

		default:
			d.buf = d.buf[1:]
		}
	}
	return msgs, nil
}

// AppendData appends a DATA frame carrying payload to dst.
func AppendData(dst, payload []byte) []byte {
	dst = append(dst, OpData)
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(payload)))
	dst = append(dst, n[:]...)
	return append(dst, payload...)
}

// AppendResize appends a RESIZE frame to dst.
func AppendResize(dst []byte, cols, rows int) []byte {
	dst = append(dst, OpResize)
	var n [4]byte
	binary.BigEndian.PutUint16(n[0:2], uint16(cols))
	binary.BigEndian.PutUint16(n[2:4], uint16(rows))
	return append(dst, n[:]...)
}

// AppendClose appends a CLOSE frame to dst.
func AppendClose(dst []byte) []byte {
	return append(dst, OpClose)
}
