package stream

import "bytes"

// Decoder reassembles newline-delimited stream-json records from raw byte
// chunks. Chunk boundaries never affect decoding: feeding the same input one
// byte at a time or all at once yields the same message sequence.
//
// The zero value is ready to use. Decoder is not safe for concurrent use;
// the orchestrator's read loop is the only writer.
type Decoder struct {
	buf []byte
}

// Decode appends a chunk to the internal buffer and decodes every complete
// line it now holds. Lines that do not decode are dropped.
func (d *Decoder) Decode(chunk []byte) []Message {
	d.buf = append(d.buf, chunk...)

	var msgs []Message
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := string(d.buf[:i])
		d.buf = d.buf[i+1:]
		if msg, ok := parseLine(line); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// Flush decodes the trailing unterminated fragment, if any. Call once at
// stream end (process exit).
func (d *Decoder) Flush() []Message {
	if len(d.buf) == 0 {
		return nil
	}
	line := string(d.buf)
	d.buf = nil
	if msg, ok := parseLine(line); ok {
		return []Message{msg}
	}
	return nil
}
