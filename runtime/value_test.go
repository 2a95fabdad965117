package runtime

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"zero int", IntValue(0), false},
		{"nonzero int", IntValue(1), true},
		{"empty string", StringValue(""), false},
		{"nonempty string", StringValue("x"), true},
		{"false bool", BoolValue(false), false},
		{"true bool", BoolValue(true), true},
		{"null", NullValue(), false},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("%s: Truthy() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestArraysGetSetRoundTrip(t *testing.T) {
	var arrays Arrays
	arr, err := arrays.New(3)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := arrays.Set(arr, 1, IntValue(42)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := arrays.Get(arr, 1)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Int != 42 {
		t.Fatalf("expected 42, got %d", got.Int)
	}
}

func TestArraysOutOfBounds(t *testing.T) {
	var arrays Arrays
	arr, _ := arrays.New(2)
	if _, err := arrays.Get(arr, 5); err == nil {
		t.Fatal("expected an out-of-bounds error")
	}
}

func TestArrayValueIsACopyableReference(t *testing.T) {
	var arrays Arrays
	arr, _ := arrays.New(1)
	alias := arr
	arrays.Set(alias, 0, IntValue(7))
	got, _ := arrays.Get(arr, 0)
	if got.Int != 7 {
		t.Fatal("expected writes through an aliased Value to be visible through the original")
	}
}

func TestArraysFormatExpandsElements(t *testing.T) {
	var arrays Arrays
	arr, _ := arrays.New(3)
	arrays.Set(arr, 0, IntValue(1))
	arrays.Set(arr, 1, IntValue(2))
	arrays.Set(arr, 2, IntValue(3))
	if got := arrays.Format(arr); got != "[1, 2, 3]" {
		t.Fatalf("Format() = %q, want %q", got, "[1, 2, 3]")
	}
}

func TestArraysFormatPassesThroughNonArrayValues(t *testing.T) {
	var arrays Arrays
	if got := arrays.Format(IntValue(5)); got != "5" {
		t.Fatalf("Format() = %q, want %q", got, "5")
	}
}
