package main

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"github.com/quietline/dnsresolver/internal/dns/wire"
)

func TestRunNoFlagsExitsZero(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
}

func TestRunDecodePrintsHumanReadableDump(t *testing.T) {
	rr, err := wire.NewARecord("example.com", net.IPv4(93, 184, 216, 34), 60)
	if err != nil {
		t.Fatalf("NewARecord: %v", err)
	}
	msg := wire.Message{
		Header: wire.Header{
			ID:       0x1234,
			Response: true,
			RCode:    wire.NOERROR,
		},
		Questions: []wire.Question{{Name: "example.com", Type: wire.TypeA}},
		Answers:   []wire.Record{rr},
	}
	data, err := wire.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--decode"}, bytes.NewReader(data), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, stderr=%s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "id=4660") {
		t.Fatalf("output missing decoded id: %q", out)
	}
	if !strings.Contains(out, "question example.com A") {
		t.Fatalf("output missing question line: %q", out)
	}
	if !strings.Contains(out, "answer example.com A 93.184.216.34 ttl=60") {
		t.Fatalf("output missing answer line: %q", out)
	}
}

func TestRunDecodeMalformedInputFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-d"}, bytes.NewReader([]byte{0x01, 0x02}), &stdout, &stderr)
	if code == 0 {
		t.Fatal("run(--decode) on a truncated header: want non-zero exit, got 0")
	}
}

func TestRunResolveRejectsQueryWithNoQuestion(t *testing.T) {
	data, err := wire.Encode(wire.Message{Header: wire.Header{ID: 1}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"--resolve"}, bytes.NewReader(data), &stdout, &stderr)
	if code == 0 {
		t.Fatal("run(--resolve) with no question: want non-zero exit, got 0")
	}
}
