package codec_test

import (
	"errors"
	"testing"

	"github.com/courtflow/progression/codec"
	"github.com/google/go-cmp/cmp"
)

type fooData struct {
	A string
	B *int
}

func TestRegistry(t *testing.T) {
	reg := codec.New()
	codec.Register[fooData](reg, "foo")

	b := 3
	data := fooData{A: "foo", B: &b}

	encoded, err := reg.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	decoded, err := reg.Unmarshal(encoded, "foo")
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !cmp.Equal(data, decoded) {
		t.Fatalf("decoded data should be %v; is %v\n%s", data, decoded, cmp.Diff(data, decoded))
	}
}

func TestRegistry_Unmarshal_notFound(t *testing.T) {
	reg := codec.New()

	if _, err := reg.Unmarshal([]byte(`{}`), "foo"); !errors.Is(err, codec.ErrNotFound) {
		t.Fatalf("Unmarshal should fail with %q; got %v", codec.ErrNotFound, err)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := codec.New()
	codec.Register[fooData](reg, "b")
	codec.Register[fooData](reg, "a")

	if diff := cmp.Diff([]string{"a", "b"}, reg.Names()); diff != "" {
		t.Fatalf("Names returned wrong names:\n%s", diff)
	}
}
