package markov

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
)

const (
	snapshotMagic   = "WCHN"
	snapshotVersion = uint16(1)

	snapshotHeaderLen  = len(snapshotMagic) + 2
	snapshotTrailerLen = 8

	flagSentenceEnd = byte(1 << 0)
)

// ErrInvalidSnapshot is wrapped by every error returned while decoding a
// snapshot that was not produced by MarshalBinary.
var ErrInvalidSnapshot = errors.New("markov: invalid snapshot")

// Wire format (version 1):
//
//	magic    = "WCHN"
//	version  = uint16 little-endian
//	words    = uvarint count, then per word in index order:
//	  wordLen  = uvarint
//	  word     = wordLen bytes
//	  flags    = uint8 (bit 0: sentence end)
//	  edgeCnt  = uvarint
//	  repeat edgeCnt times: target uvarint, weight uvarint
//	starters = uvarint count, then one uvarint index each, in insertion order
//	checksum = uint64 little-endian xxhash64 of everything before it
//
// Node totals are not stored; they are recomputed from the edge weights.

// ToBytes encodes c as an opaque snapshot.
func ToBytes(c *Chain) []byte {
	return c.appendSnapshot(nil)
}

// FromBytes decodes a snapshot produced by ToBytes or MarshalBinary.
func FromBytes(data []byte) (*Chain, error) {
	return decodeSnapshot(data)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *Chain) MarshalBinary() ([]byte, error) {
	return c.appendSnapshot(nil), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. On error the chain
// is left untouched.
func (c *Chain) UnmarshalBinary(data []byte) error {
	decoded, err := decodeSnapshot(data)
	if err != nil {
		return err
	}
	if c.logger != nil {
		decoded.logger = c.logger
	}
	*c = *decoded
	return nil
}

// WriteTo writes the snapshot of c to w.
func (c *Chain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.appendSnapshot(nil))
	return int64(n), err
}

// ReadFrom replaces c with the snapshot read from r. The whole of r is
// consumed. On error the chain is left untouched.
func (c *Chain) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	n := int64(len(data))
	if err != nil {
		return n, fmt.Errorf("read snapshot: %w", err)
	}
	return n, c.UnmarshalBinary(data)
}

func (c *Chain) appendSnapshot(dst []byte) []byte {
	start := len(dst)
	dst = append(dst, snapshotMagic...)
	dst = binary.LittleEndian.AppendUint16(dst, snapshotVersion)

	dst = binary.AppendUvarint(dst, uint64(len(c.vocab.words)))
	for i, word := range c.vocab.words {
		node := c.vocab.nodes[i]
		dst = binary.AppendUvarint(dst, uint64(len(word)))
		dst = append(dst, word...)
		var flags byte
		if node.sentenceEnd {
			flags |= flagSentenceEnd
		}
		dst = append(dst, flags)
		dst = binary.AppendUvarint(dst, uint64(len(node.edges)))
		for _, e := range node.edges {
			dst = binary.AppendUvarint(dst, uint64(e.Target))
			dst = binary.AppendUvarint(dst, uint64(e.Weight))
		}
	}

	dst = binary.AppendUvarint(dst, uint64(len(c.starters)))
	for _, idx := range c.starters {
		dst = binary.AppendUvarint(dst, uint64(idx))
	}

	return binary.LittleEndian.AppendUint64(dst, xxhash.Sum64(dst[start:]))
}

// snapshotReader walks a snapshot body, remembering the first error.
type snapshotReader struct {
	buf []byte
	off int
	err error
}

func (r *snapshotReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
	}
}

func (r *snapshotReader) remaining() int { return len(r.buf) - r.off }

func (r *snapshotReader) uvarint(what string) uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf[r.off:])
	if n <= 0 {
		r.fail("bad %s varint at offset %d", what, r.off)
		return 0
	}
	r.off += n
	return v
}

// count reads a length prefix and rejects values that cannot fit in the
// remaining input, given each element takes at least minSize bytes.
func (r *snapshotReader) count(what string, minSize int) int {
	v := r.uvarint(what)
	if r.err == nil && v > uint64(r.remaining()/minSize) {
		r.fail("%s count %d exceeds remaining %d bytes", what, v, r.remaining())
		return 0
	}
	return int(v)
}

func (r *snapshotReader) bytes(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if n > r.remaining() {
		r.fail("truncated %s at offset %d", what, r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func decodeSnapshot(data []byte) (*Chain, error) {
	if len(data) < snapshotHeaderLen+snapshotTrailerLen {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrInvalidSnapshot, len(data))
	}
	if string(data[:len(snapshotMagic)]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidSnapshot, data[:len(snapshotMagic)])
	}
	if v := binary.LittleEndian.Uint16(data[len(snapshotMagic):]); v != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, v)
	}
	body := data[:len(data)-snapshotTrailerLen]
	want := binary.LittleEndian.Uint64(data[len(body):])
	if got := xxhash.Sum64(body); got != want {
		return nil, fmt.Errorf("%w: checksum mismatch (%016x != %016x)", ErrInvalidSnapshot, got, want)
	}

	r := &snapshotReader{buf: body, off: snapshotHeaderLen}
	tmp := NewChain()

	// A word needs at least a length byte, a flags byte and an edge count.
	wordCount := r.count("word", 3)
	for i := 0; i < wordCount && r.err == nil; i++ {
		wordLen := r.count("word length", 1)
		word := string(r.bytes(wordLen, "word"))
		flags := r.bytes(1, "flags")
		edgeCount := r.count("edge", 2)
		if r.err != nil {
			break
		}
		if !isWord(word) {
			r.fail("invalid word %q at index %d", word, i)
			break
		}
		if _, dup := tmp.vocab.lookup(word); dup {
			r.fail("duplicate word %q at index %d", word, i)
			break
		}
		if flags[0]&^flagSentenceEnd != 0 {
			r.fail("unknown flags %#x for word %q", flags[0], word)
			break
		}
		if flags[0]&flagSentenceEnd != 0 && !isSentenceEnd(word) {
			r.fail("word %q flagged as sentence end", word)
			break
		}

		_, node := tmp.vocab.getOrCreate(word)
		node.sentenceEnd = flags[0]&flagSentenceEnd != 0

		for j := 0; j < edgeCount && r.err == nil; j++ {
			target := r.uvarint("edge target")
			weight := r.uvarint("edge weight")
			switch {
			case r.err != nil:
			case target >= uint64(wordCount):
				r.fail("edge target %d out of range for word %q", target, word)
			case weight == 0:
				r.fail("zero weight edge from word %q", word)
			case weight > uint64(math.MaxInt-node.total):
				r.fail("weight overflow on word %q", word)
			default:
				if _, dup := node.pos[int(target)]; dup {
					r.fail("duplicate edge %d on word %q", target, word)
					break
				}
				node.addWeight(int(target), int(weight))
			}
		}
	}

	starterCount := r.count("starter", 1)
	if r.err == nil && starterCount > wordCount {
		r.fail("%d starters for %d words", starterCount, wordCount)
	}
	for i := 0; i < starterCount && r.err == nil; i++ {
		idx := r.uvarint("starter")
		if r.err != nil {
			break
		}
		if idx >= uint64(wordCount) {
			r.fail("starter index %d out of range", idx)
			break
		}
		if _, dup := tmp.starterSet[int(idx)]; dup {
			r.fail("duplicate starter index %d", idx)
			break
		}
		tmp.addStarter(int(idx))
	}

	if r.err == nil && r.remaining() != 0 {
		r.fail("%d trailing bytes", r.remaining())
	}
	if r.err != nil {
		return nil, r.err
	}
	return tmp, nil
}
