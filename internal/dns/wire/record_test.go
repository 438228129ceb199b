package wire

import (
	"net"
	"testing"
)

func TestNewARecordRejectsNonIPv4(t *testing.T) {
	_, err := NewARecord("example.com", net.ParseIP("::1"), 60)
	if err == nil {
		t.Fatal("NewARecord with IPv6 address: want error, got nil")
	}
}

func TestQuestionRoundTrip(t *testing.T) {
	c := NewCursor()
	q := Question{Name: "example.org", Type: TypeA}
	if err := encodeQuestion(c, q); err != nil {
		t.Fatalf("encodeQuestion: %v", err)
	}
	c.Seek(0)
	got, err := decodeQuestion(c)
	if err != nil {
		t.Fatalf("decodeQuestion: %v", err)
	}
	if got.Name != q.Name || got.Type.Code() != q.Type.Code() {
		t.Fatalf("got %+v, want %+v", got, q)
	}
}

func TestRecordRoundTripA(t *testing.T) {
	rr, err := NewARecord("host.example.com", net.IPv4(10, 0, 0, 1), 3600)
	if err != nil {
		t.Fatalf("NewARecord: %v", err)
	}
	c := NewCursor()
	if err := encodeRecord(c, rr); err != nil {
		t.Fatalf("encodeRecord: %v", err)
	}
	c.Seek(0)
	got, err := decodeRecord(c)
	if err != nil {
		t.Fatalf("decodeRecord: %v", err)
	}
	if got.Kind != KindA || got.Domain != rr.Domain || got.TTL != rr.TTL {
		t.Fatalf("got %+v, want %+v", got, rr)
	}
	if !got.Address.Equal(rr.Address) {
		t.Fatalf("Address = %v, want %v", got.Address, rr.Address)
	}
}

func TestEncodeRecordSkipsUnknownKind(t *testing.T) {
	rr := Record{Kind: KindUnknown, Domain: "example.com", QType: 28, RDLength: 16}
	c := NewCursor()
	if err := encodeRecord(c, rr); err != nil {
		t.Fatalf("encodeRecord: %v", err)
	}
	if c.Position() != 0 {
		t.Fatalf("encodeRecord wrote %d bytes for a KindUnknown record, want 0", c.Position())
	}
}

func TestDecodeRecordSkipsOddSizedARdata(t *testing.T) {
	c := NewCursor()
	if err := encodeName(c, "weird.example.com"); err != nil {
		t.Fatalf("encodeName: %v", err)
	}
	_ = c.WriteU16(TypeA.Code())
	_ = c.WriteU16(classIN)
	_ = c.WriteU32(60)
	_ = c.WriteU16(6) // malformed: A record claiming 6 bytes of RDATA
	_ = c.WriteBytes(make([]byte, 6))

	c.Seek(0)
	rr, err := decodeRecord(c)
	if err != nil {
		t.Fatalf("decodeRecord: %v", err)
	}
	if rr.Kind != KindUnknown {
		t.Fatalf("Kind = %v, want KindUnknown for a malformed-length A record", rr.Kind)
	}
	if rr.RDLength != 6 {
		t.Fatalf("RDLength = %d, want 6", rr.RDLength)
	}
}
