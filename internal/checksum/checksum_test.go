package checksum

import "testing"

func TestSumStable(t *testing.T) {
	a := Sum([]byte("abc"))
	if a != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("Sum = %s", a)
	}
}

func TestETagMatch(t *testing.T) {
	tag := ETag([]byte(`{"Title":"x"}`))
	if len(tag) != 18 {
		t.Fatalf("tag = %s", tag)
	}
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"*", true},
		{tag, true},
		{"W/" + tag, true},
		{`"deadbeef", ` + tag, true},
		{`"deadbeef"`, false},
	}
	for _, c := range cases {
		if got := Match(c.header, tag); got != c.want {
			t.Errorf("Match(%q) = %v, want %v", c.header, got, c.want)
		}
	}
}
