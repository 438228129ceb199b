package wire

import (
	"fmt"
	"net"
)

// classIN is the only record class this codec ever writes, and the only
// one meaningfully supported on decode (the class field is read and
// discarded per RFC 1035's class negotiation, which this resolver does
// not implement).
const classIN = 1

// Question is the query section of a Message: a name plus the record
// type being asked about. The class is not carried on Question: decode
// reads the wire class field and throws it away whatever its value, and
// encode always writes IN.
type Question struct {
	Name string
	Type QueryType
}

// RecordKind discriminates the two shapes Record can take.
type RecordKind int

const (
	// KindA is a fully-decoded IPv4 address record.
	KindA RecordKind = iota
	// KindUnknown is any record type this codec does not interpret. Its
	// RDATA is not retained: Record captures enough to log and to skip
	// correctly on decode, but re-encoding a KindUnknown record is a
	// no-op (see encodeRecord).
	KindUnknown
)

// Record is a decoded resource record. Exactly one of the two shapes
// below is populated, selected by Kind.
type Record struct {
	Kind   RecordKind
	Domain string

	// Address is populated when Kind == KindA; TTL is populated for
	// both kinds.
	Address net.IP
	TTL     uint32

	// Populated when Kind == KindUnknown. The RDATA itself is skipped on
	// decode and not stored; re-encoding omits the record entirely.
	QType    uint16
	RDLength uint16
}

// NewARecord constructs an A record. address must be a 4-byte (or
// 4-in-16-byte) IPv4 address; it is stored in its 4-byte form.
func NewARecord(domain string, address net.IP, ttl uint32) (Record, error) {
	v4 := address.To4()
	if v4 == nil {
		return Record{}, fmt.Errorf("wire: %v is not an IPv4 address", address)
	}
	return Record{
		Kind:    KindA,
		Domain:  domain,
		Address: v4,
		TTL:     ttl,
	}, nil
}

// decodeQuestion reads a question section entry: name, qtype, class
// (discarded).
func decodeQuestion(c *Cursor) (Question, error) {
	name, err := decodeName(c)
	if err != nil {
		return Question{}, err
	}
	qtype, err := c.ReadU16()
	if err != nil {
		return Question{}, err
	}
	if _, err := c.ReadU16(); err != nil { // class, discarded
		return Question{}, err
	}
	return Question{Name: name, Type: parseQueryType(qtype)}, nil
}

// encodeQuestion writes name, qtype, and class=IN.
func encodeQuestion(c *Cursor, q Question) error {
	if err := encodeName(c, q.Name); err != nil {
		return err
	}
	if err := c.WriteU16(q.Type.Code()); err != nil {
		return err
	}
	return c.WriteU16(classIN)
}

// decodeRecord reads a single resource record: name, qtype, class
// (discarded), ttl, rdlength, then type-specific RDATA.
func decodeRecord(c *Cursor) (Record, error) {
	name, err := decodeName(c)
	if err != nil {
		return Record{}, err
	}
	qtype, err := c.ReadU16()
	if err != nil {
		return Record{}, err
	}
	if _, err := c.ReadU16(); err != nil { // class, discarded
		return Record{}, err
	}
	ttl, err := c.ReadU32()
	if err != nil {
		return Record{}, err
	}
	rdlength, err := c.ReadU16()
	if err != nil {
		return Record{}, err
	}

	if qtype == TypeA.Code() {
		if rdlength != 4 {
			c.Advance(int(rdlength))
			return Record{Kind: KindUnknown, Domain: name, QType: qtype, RDLength: rdlength, TTL: ttl}, nil
		}
		raw, err := c.Slice(c.Position(), 4)
		if err != nil {
			return Record{}, err
		}
		addr := net.IPv4(raw[0], raw[1], raw[2], raw[3])
		c.Advance(4)
		return Record{Kind: KindA, Domain: name, Address: addr, TTL: ttl}, nil
	}

	c.Advance(int(rdlength))
	return Record{Kind: KindUnknown, Domain: name, QType: qtype, RDLength: rdlength, TTL: ttl}, nil
}

// encodeRecord writes rr. KindA records are written in full (name, type,
// class, ttl, rdlength=4, four address octets). KindUnknown records are
// skipped entirely: their RDATA was never preserved, so there is nothing
// correct to re-encode.
func encodeRecord(c *Cursor, rr Record) error {
	if rr.Kind != KindA {
		return nil
	}
	if err := encodeName(c, rr.Domain); err != nil {
		return err
	}
	if err := c.WriteU16(TypeA.Code()); err != nil {
		return err
	}
	if err := c.WriteU16(classIN); err != nil {
		return err
	}
	if err := c.WriteU32(rr.TTL); err != nil {
		return err
	}
	if err := c.WriteU16(4); err != nil {
		return err
	}
	v4 := rr.Address.To4()
	if v4 == nil {
		return fmt.Errorf("wire: %v is not an IPv4 address", rr.Address)
	}
	return c.WriteBytes(v4)
}
