package jsoncodec

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

type resource struct {
	FdkID     string `json:"fdkId"`
	Timestamp string `json:"timestamp"`
}

func TestMarshalAndUnmarshal(t *testing.T) {
	in := resource{FdkID: "abc-123", Timestamp: "2023-06-01 12:00:00.000 +0000"}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"fdkId":"abc-123"`) {
		t.Fatalf("expected camelCase key, got %s", data)
	}

	var out resource
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out != in {
		t.Fatalf("expected round trip to match, got %#v", out)
	}

	indented, err := MarshalIndent(in, "", "  ")
	if err != nil {
		t.Fatalf("marshal indent failed: %v", err)
	}
	if !strings.Contains(string(indented), "\n  \"fdkId\"") {
		t.Fatalf("expected indented output, got %s", indented)
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	var out resource
	if err := Unmarshal([]byte(`{"fdkId":"x","extra":[1,2]}`), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FdkID != "x" {
		t.Fatalf("FdkID = %q", out.FdkID)
	}
}

func TestValid(t *testing.T) {
	if !Valid([]byte(`{"a":1}`)) {
		t.Fatal("expected object to be valid")
	}
	if Valid([]byte(`{not json`)) {
		t.Fatal("expected garbage to be invalid")
	}
}

func TestEncodeAndDecodeStream(t *testing.T) {
	buf := &bytes.Buffer{}
	for _, id := range []string{"a", "b", "c"} {
		if err := Encode(buf, resource{FdkID: id}); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}

	var got []string
	err := DecodeStream(buf, func(r resource) error {
		got = append(got, r.FdkID)
		return nil
	})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if strings.Join(got, ",") != "a,b,c" {
		t.Fatalf("unexpected ids: %v", got)
	}
}

func TestDecodeStreamStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := DecodeStream(strings.NewReader(`{"fdkId":"a"} {"fdkId":"b"}`), func(resource) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestDecodeStreamSyntaxError(t *testing.T) {
	err := DecodeStream(strings.NewReader(`{"fdkId":`), func(resource) error { return nil })
	if err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestDecodeStreamTruncatedTrailingValue(t *testing.T) {
	var got []string
	err := DecodeStream(strings.NewReader(`{"fdkId":"a"} {"fdkId":`), func(r resource) error {
		got = append(got, r.FdkID)
		return nil
	})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if strings.Join(got, ",") != "a" {
		t.Fatalf("expected the complete value to be delivered, got %v", got)
	}
}

func TestDecodeStreamTrailingWhitespace(t *testing.T) {
	calls := 0
	err := DecodeStream(strings.NewReader("{\"fdkId\":\"a\"}\n\n  \t\n"), func(resource) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}
