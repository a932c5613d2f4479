package keys

import "testing"

func TestValid(t *testing.T) {
	good := []string{"k1", "s-12", "a:b@c#d+e_f.g", "Ünïcode42"}
	for _, k := range good {
		if !Valid(k) {
			t.Fatalf("Valid(%q) = false", k)
		}
	}
	bad := []string{"", "has space", "slash/x", "semi;colon", "nul\x00"}
	for _, k := range bad {
		if Valid(k) {
			t.Fatalf("Valid(%q) = true", k)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	cases := []string{"k1", "a:b@c", "s-12.msg", "100%", "tcp://host:1883", "Ünïcode", ".", ".."}
	for _, k := range cases {
		name := Escape(k)
		if name == "" || name == "." || name == ".." {
			t.Fatalf("Escape(%q) produced unsafe name %q", k, name)
		}
		for i := 0; i < len(name); i++ {
			if name[i] == '/' || name[i] == '\\' {
				t.Fatalf("Escape(%q) left a separator: %q", k, name)
			}
		}
		back, err := Unescape(name)
		if err != nil {
			t.Fatalf("Unescape(%q): %v", name, err)
		}
		if back != k {
			t.Fatalf("round trip %q -> %q -> %q", k, name, back)
		}
	}
}

func TestUnescapeRejectsMalformed(t *testing.T) {
	for _, name := range []string{"%", "%2", "%ZZ", "a%0"} {
		if _, err := Unescape(name); err == nil {
			t.Fatalf("Unescape(%q) accepted malformed input", name)
		}
	}
}
