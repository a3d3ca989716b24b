package util

import "testing"

func TestQuoteArgForShell(t *testing.T) {
	cases := map[string]string{
		"plain":         "'plain'",
		"with space":    "'with space'",
		"it's":          `'it'\''s'`,
		"~/docs/file":   "~/'docs/file'",
		"~/it's":        `~/'it'\''s'`,
		"":              "''",
		"$HOME; rm -rf": "'$HOME; rm -rf'",
	}
	for arg, want := range cases {
		if got := QuoteArgForShell(arg); got != want {
			t.Errorf("QuoteArgForShell(%q) = %s, want %s", arg, got, want)
		}
	}
}

func TestJoinCommand(t *testing.T) {
	got := JoinCommand("tar", "xzf", "my archive.tar.gz")
	want := "tar 'xzf' 'my archive.tar.gz'"
	if got != want {
		t.Errorf("JoinCommand = %s, want %s", got, want)
	}

	if got := JoinCommand("ls"); got != "ls" {
		t.Errorf("JoinCommand(ls) = %s", got)
	}
}
