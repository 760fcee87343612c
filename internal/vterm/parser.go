package vterm

import "unicode/utf8"

// parserState is the decoder's position in the escape-sequence grammar.
type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateCharset // ESC ( / ) / * / + ... one designation byte follows
	stateCSI
	stateOSC
	stateOSCEsc // saw ESC inside an OSC string; ESC \ terminates it
)

const (
	maxParams    = 32
	maxParamVal  = 65535
	maxOSCLength = 4096
)

// csiSeq is one fully decoded CSI sequence: a fixed-shape payload dispatched
// exactly once by the terminal.
type csiSeq struct {
	final   byte
	params  []int
	private byte // leading marker: '?', '>', '=', '<' or 0
	inter   byte // last intermediate byte (0x20-0x2F) or 0
}

// param returns the i-th parameter, substituting def for missing or zero
// values (the wire format's "default" convention).
func (c csiSeq) param(i, def int) int {
	if i < len(c.params) && c.params[i] != 0 {
		return c.params[i]
	}
	return def
}

// parser is a streaming VT100/ANSI decoder. It keeps all state needed to
// resume mid-sequence, so control sequences and multi-byte runes split
// across Write calls parse identically to a single contiguous write.
type parser struct {
	term  *VTerm
	state parserState

	partial []byte // incomplete trailing UTF-8 sequence from a prior chunk

	params   []int
	curParam int
	private  byte
	inter    byte

	oscBuf []byte
}

func newParser(t *VTerm) *parser {
	return &parser{
		term:   t,
		params: make([]int, 0, maxParams),
		oscBuf: make([]byte, 0, 128),
	}
}

// parse consumes a chunk of raw output. Malformed or truncated sequences are
// absorbed without desynchronizing the decoder.
func (p *parser) parse(data []byte) {
	if len(p.partial) > 0 {
		data = append(p.partial, data...)
		p.partial = nil
	}
	for i := 0; i < len(data); {
		b := data[i]
		if p.state == stateGround && b >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && size == 1 && !utf8.FullRune(data[i:]) {
				// Truncated rune at chunk end; stash for the next write.
				p.partial = append(p.partial, data[i:]...)
				return
			}
			p.term.print(r)
			i += size
			continue
		}
		p.step(b)
		i++
	}
}

// step advances the state machine by one byte.
func (p *parser) step(b byte) {
	switch p.state {
	case stateGround:
		if b == 0x1b {
			p.state = stateEscape
			return
		}
		if b < 0x20 || b == 0x7f {
			p.term.execute(b)
			return
		}
		p.term.print(rune(b))

	case stateEscape:
		switch {
		case b == '[':
			p.startCSI()
		case b == ']':
			p.state = stateOSC
			p.oscBuf = p.oscBuf[:0]
		case b == '(' || b == ')' || b == '*' || b == '+':
			p.state = stateCharset
		default:
			p.state = stateGround
			p.term.dispatchEsc(b)
		}

	case stateCharset:
		// Charset designation byte; character sets are not modeled.
		p.state = stateGround

	case stateCSI:
		switch {
		case b >= '0' && b <= '9':
			v := p.curParam*10 + int(b-'0')
			if v > maxParamVal {
				v = maxParamVal
			}
			p.curParam = v
		case b == ';' || b == ':':
			p.pushParam()
		case b == '?' || b == '>' || b == '=' || b == '<':
			p.private = b
		case b >= 0x20 && b <= 0x2f:
			p.inter = b
		case b >= 0x40 && b <= 0x7e:
			p.pushParam()
			seq := csiSeq{final: b, params: p.params, private: p.private, inter: p.inter}
			p.state = stateGround
			p.term.dispatchCSI(seq)
		case b == 0x1b:
			p.state = stateEscape
		case b == 0x18 || b == 0x1a: // CAN / SUB abort the sequence
			p.state = stateGround
		case b < 0x20:
			// xterm executes C0 controls inside a control sequence.
			p.term.execute(b)
		default:
			// Bytes that can never complete a CSI sequence; discard it.
			p.state = stateGround
		}

	case stateOSC:
		switch b {
		case 0x07: // BEL terminator
			p.state = stateGround
			p.term.handleOSC(p.oscBuf)
		case 0x1b:
			p.state = stateOSCEsc
		default:
			if len(p.oscBuf) < maxOSCLength {
				p.oscBuf = append(p.oscBuf, b)
			}
		}

	case stateOSCEsc:
		if b == '\\' { // ST terminator
			p.state = stateGround
			p.term.handleOSC(p.oscBuf)
			return
		}
		// A lone ESC inside an OSC string abandons it and starts a new
		// escape sequence with this byte.
		p.state = stateEscape
		p.step(b)
	}
}

func (p *parser) startCSI() {
	p.state = stateCSI
	p.params = p.params[:0]
	p.curParam = 0
	p.private = 0
	p.inter = 0
}

func (p *parser) pushParam() {
	if len(p.params) < maxParams {
		p.params = append(p.params, p.curParam)
	}
	p.curParam = 0
}
