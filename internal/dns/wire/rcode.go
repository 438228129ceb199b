package wire

import "fmt"

// ResultCode is a DNS response code (RFC 1035 ยง4.1.1). The wire decoder is
// deliberately lenient: any 4-bit value outside the six named codes below
// decodes to NOERROR rather than failing the whole message. This mirrors
// the reference resolver this codec was distilled from; codes 6-15
// (YXDOMAIN, YXRRSET, NXRRSET, NOTAUTH, NOTZONE, and the unassigned
// range) are accepted on the wire but not distinguished from NOERROR.
type ResultCode uint8

const (
	NOERROR  ResultCode = 0
	FORMERR  ResultCode = 1
	SERVFAIL ResultCode = 2
	NXDOMAIN ResultCode = 3
	NOTIMP   ResultCode = 4
	REFUSED  ResultCode = 5
)

// String returns the textual name of r, or "NOERROR" for any value this
// codec treats leniently as unknown.
func (r ResultCode) String() string {
	switch r {
	case NOERROR:
		return "NOERROR"
	case FORMERR:
		return "FORMERR"
	case SERVFAIL:
		return "SERVFAIL"
	case NXDOMAIN:
		return "NXDOMAIN"
	case NOTIMP:
		return "NOTIMP"
	case REFUSED:
		return "REFUSED"
	default:
		return "NOERROR"
	}
}

// parseResultCode maps a raw 4-bit wire value to a ResultCode, per the
// lenient rule documented on ResultCode: anything outside the known set
// becomes NOERROR.
func parseResultCode(b byte) ResultCode {
	switch ResultCode(b) {
	case NOERROR, FORMERR, SERVFAIL, NXDOMAIN, NOTIMP, REFUSED:
		return ResultCode(b)
	default:
		return NOERROR
	}
}

// GoString supports %#v / debug dumps used by the decode CLI operation.
func (r ResultCode) GoString() string {
	return fmt.Sprintf("ResultCode(%s)", r.String())
}
