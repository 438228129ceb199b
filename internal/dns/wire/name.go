package wire

import (
	"fmt"
	"strings"
)

// maxJumps bounds the number of compression-pointer dereferences a single
// name decode may follow. A legitimate DNS message never needs more than
// a couple; this defends against cyclic pointers designed to spin the
// decoder forever (RFC 1035 ยง4.1.4).
const maxJumps = 5

// maxLabelLen is the largest a single label may be on the wire.
const maxLabelLen = 63

// decodeName reads a domain name from c starting at its current position,
// following compression pointers as needed, and returns it as a lowercase
// dotted string. On return, c's position is advanced past the name as it
// appears at the original position (i.e. past the pointer, if the name
// started with one; past the terminating zero byte otherwise) regardless
// of how many jumps were required to resolve the rest of it.
func decodeName(c *Cursor) (string, error) {
	localPos := c.Position()
	jumped := false
	jumps := 0

	var labels []string
	for {
		if jumps > maxJumps {
			return "", fmt.Errorf("%w: too many jumps", ErrMalformedName)
		}

		lengthByte, err := c.Peek(localPos)
		if err != nil {
			return "", err
		}

		if lengthByte&0xC0 == 0xC0 {
			next, err := c.Peek(localPos + 1)
			if err != nil {
				return "", err
			}
			if !jumped {
				c.Seek(localPos + 2)
			}
			target := int(lengthByte&0x3F)<<8 | int(next)
			localPos = target
			jumped = true
			jumps++
			continue
		}

		localPos++
		if lengthByte == 0 {
			break
		}

		label, err := c.Slice(localPos, int(lengthByte))
		if err != nil {
			return "", err
		}
		labels = append(labels, strings.ToLower(string(label)))
		localPos += int(lengthByte)
	}

	if !jumped {
		c.Seek(localPos)
	}
	return strings.Join(labels, "."), nil
}

// encodeName writes name as a sequence of length-prefixed labels
// terminated by a zero byte. It never emits compression pointers: every
// response is self-contained and larger than a minimally compressed
// reply, but simpler to get byte-exact (no back-reference table needed).
func encodeName(c *Cursor, name string) error {
	name = strings.TrimSuffix(name, ".")
	var labels []string
	if name != "" {
		labels = strings.Split(name, ".")
	}
	for _, label := range labels {
		if label == "" {
			continue
		}
		if len(label) > maxLabelLen {
			return fmt.Errorf("%w: label %q exceeds %d bytes", ErrMalformedName, label, maxLabelLen)
		}
		if err := c.WriteU8(byte(len(label))); err != nil {
			return err
		}
		if err := c.WriteBytes([]byte(label)); err != nil {
			return err
		}
	}
	return c.WriteU8(0)
}
