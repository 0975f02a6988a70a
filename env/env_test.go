package env

import (
	"os"
	"testing"
)

func TestInt(t *testing.T) {
	os.Setenv("X_INT", "42")
	defer os.Unsetenv("X_INT")

	p := Int("X_INT", 7)
	q := Int("X_INT_UNSET", 7)
	Parse()
	if *p != 42 {
		t.Errorf("got %d, want 42", *p)
	}
	if *q != 7 {
		t.Errorf("got %d, want default 7", *q)
	}
}

func TestBool(t *testing.T) {
	os.Setenv("X_BOOL", "true")
	defer os.Unsetenv("X_BOOL")

	p := Bool("X_BOOL", false)
	Parse()
	if !*p {
		t.Error("got false, want true")
	}
}

func TestString(t *testing.T) {
	os.Setenv("X_STRING", "hello")
	defer os.Unsetenv("X_STRING")

	p := String("X_STRING", "default")
	Parse()
	if *p != "hello" {
		t.Errorf("got %q, want %q", *p, "hello")
	}
}
