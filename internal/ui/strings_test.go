package ui

import "testing"

func TestHostName(t *testing.T) {
	cases := map[string]string{
		"https://www.example.com/a/b":  "example.com",
		"http://news.ycombinator.com":  "news.ycombinator.com",
		"example.org/path":             "example.org",
		"  https://sub.www.test.io/x ": "sub.www.test.io",
		"":                             "",
	}
	for in, want := range cases {
		if got := hostName(in); got != want {
			t.Fatalf("hostName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  hello world  ", 8); got != "hello..." {
		t.Fatalf("truncate = %q, want %q", got, "hello...")
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q, want %q", got, "short")
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate = %q, want %q", got, "ab")
	}
}

func TestThemeCycle(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 || names[0] != "Nightfox" {
		t.Fatalf("ThemeNames() = %v", names)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(unknown) = %q, want Nightfox", got)
	}
	if got := GetTheme("nope").Name; got != "Nightfox" {
		t.Fatalf("GetTheme fallback = %q, want Nightfox", got)
	}
}
