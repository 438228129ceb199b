package wire

import "testing"

func TestResultCodeString(t *testing.T) {
	cases := map[ResultCode]string{
		NOERROR:  "NOERROR",
		FORMERR:  "FORMERR",
		SERVFAIL: "SERVFAIL",
		NXDOMAIN: "NXDOMAIN",
		NOTIMP:   "NOTIMP",
		REFUSED:  "REFUSED",
	}
	for rc, want := range cases {
		if got := rc.String(); got != want {
			t.Errorf("ResultCode(%d).String() = %q, want %q", rc, got, want)
		}
	}
}

func TestParseResultCodeLenientOnUnknown(t *testing.T) {
	for b := 6; b <= 15; b++ {
		if got := parseResultCode(byte(b)); got != NOERROR {
			t.Errorf("parseResultCode(%d) = %v, want NOERROR", b, got)
		}
	}
}

func TestParseResultCodeKnownValues(t *testing.T) {
	for b := byte(0); b <= 5; b++ {
		if got := parseResultCode(b); got != ResultCode(b) {
			t.Errorf("parseResultCode(%d) = %v, want %v", b, got, ResultCode(b))
		}
	}
}

func TestResultCodeGoString(t *testing.T) {
	if got, want := FORMERR.GoString(), "ResultCode(FORMERR)"; got != want {
		t.Errorf("GoString() = %q, want %q", got, want)
	}
}
