package ptyhost

import (
	"bytes"
	"testing"
)

func TestDecoderRoundTrip(t *testing.T) {
	var wire []byte
	wire = AppendData(wire, []byte("hello"))
	wire = AppendResize(wire, 120, 40)
	wire = AppendData(wire, nil)
	wire = AppendClose(wire)

	var d Decoder
	msgs, err := d.Feed(wire)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}

	if msgs[0].Op != OpData || !bytes.Equal(msgs[0].Data, []byte("hello")) {
		t.Errorf("msg 0 = %+v, want data 'hello'", msgs[0])
	}
	if msgs[1].Op != OpResize || msgs[1].Cols != 120 || msgs[1].Rows != 40 {
		t.Errorf("msg 1 = %+v, want resize 120x40", msgs[1])
	}
	if msgs[2].Op != OpData || len(msgs[2].Data) != 0 {
		t.Errorf("msg 2 = %+v, want empty data frame", msgs[2])
	}
	if msgs[3].Op != OpClose {
		t.Errorf("msg 3 = %+v, want close", msgs[3])
	}
}

func TestDecoderSplitFrames(t *testing.T) {
	var wire []byte
	wire = AppendData(wire, []byte("split across feeds"))
	wire = AppendResize(wire, 80, 24)

	var d Decoder
	var msgs []Message
	// Feed one byte at a time: every chunking must decode identically.
	for _, b := range wire {
		got, err := d.Feed([]byte{b})
		if err != nil {
			t.Fatalf("Feed failed: %v", err)
		}
		msgs = append(msgs, got...)
	}

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if string(msgs[0].Data) != "split across feeds" {
		t.Errorf("data = %q", msgs[0].Data)
	}
	if msgs[1].Cols != 80 || msgs[1].Rows != 24 {
		t.Errorf("resize = %dx%d, want 80x24", msgs[1].Cols, msgs[1].Rows)
	}
}

func TestDecoderSkipsUnknownOpcodes(t *testing.T) {
	wire := []byte{0x7f, 0x00}
	wire = AppendData(wire, []byte("ok"))

	var d Decoder
	msgs, err := d.Feed(wire)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if len(msgs) != 1 || string(msgs[0].Data) != "ok" {
		t.Errorf("msgs = %+v, want single data frame after resync", msgs)
	}
}

func TestDecoderRejectsOversizedFrame(t *testing.T) {
	wire := []byte{OpData, 0xff, 0xff, 0xff, 0xff}

	var d Decoder
	if _, err := d.Feed(wire); err == nil {
		t.Error("oversized data frame should be rejected")
	}
}
