package flexpolyline

const encodingTable = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// decodingTable maps an ASCII byte to its 6-bit value, or -1.
var decodingTable = [128]int8{
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, 62, -1, -1,
	52, 53, 54, 55, 56, 57, 58, 59, 60, 61, -1, -1, -1, -1, -1, -1,
	-1, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14,
	15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, -1, -1, -1, -1, 63,
	-1, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40,
	41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 51, -1, -1, -1, -1, -1,
}

const (
	groupBits       = 5
	groupMask       = 0x1f
	continuationBit = 0x20
)

// appendUnsigned appends the variable-length encoding of u to dst.
func appendUnsigned(dst []byte, u uint64) []byte {
	for u >= continuationBit {
		dst = append(dst, encodingTable[(u&groupMask)|continuationBit])
		u >>= groupBits
	}
	return append(dst, encodingTable[u])
}

// appendSigned zigzag-encodes v and appends it to dst.
func appendSigned(dst []byte, v int64) []byte {
	return appendUnsigned(dst, zigzag(v))
}

// zigzag maps signed to unsigned so that small magnitudes stay small:
// 0, -1, 1, -2, 2 ... become 0, 1, 2, 3, 4 ...
func zigzag(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

func unzigzag(u uint64) int64 {
	if u&1 != 0 {
		return ^int64(u >> 1)
	}
	return int64(u >> 1)
}

// cursor reads consecutive values from an encoded string.
type cursor struct {
	s   string
	pos int
}

func (c *cursor) done() bool { return c.pos >= len(c.s) }

func (c *cursor) readUnsigned() (uint64, error) {
	start := c.pos
	var (
		result uint64
		shift  uint
	)
	for {
		if c.pos >= len(c.s) {
			return 0, offsetError(ErrUnterminatedValue, start)
		}
		ch := c.s[c.pos]
		if ch >= 128 || decodingTable[ch] < 0 {
			return 0, offsetError(ErrInvalidCharacter, c.pos)
		}
		v := uint64(decodingTable[ch])
		c.pos++

		group := v & groupMask
		// 13 groups cover 65 bits; the 13th may only use its low 4.
		if shift > 60 || (shift == 60 && group > 0xf) {
			return 0, offsetError(ErrOverflow, start)
		}
		result |= group << shift
		if v&continuationBit == 0 {
			return result, nil
		}
		shift += groupBits
	}
}

func (c *cursor) readSigned() (int64, error) {
	u, err := c.readUnsigned()
	if err != nil {
		return 0, err
	}
	return unzigzag(u), nil
}
