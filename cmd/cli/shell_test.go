package cli

import (
	"strings"
	"testing"
)

func TestFunctionLibrary(t *testing.T) {
	lib := functionLibrary("'/usr/local/bin/dotkit'")

	for _, fn := range []string{"mkcd()", "up()", "gz()", "extract()", "fif()", "gcl()", "backup()", "ducks()"} {
		if !strings.Contains(lib, fn) {
			t.Errorf("library missing %s", fn)
		}
	}

	// extract and backup delegate to the dotkit binary.
	if !strings.Contains(lib, "'/usr/local/bin/dotkit' extract") {
		t.Error("extract should delegate to the binary")
	}
	if !strings.Contains(lib, "'/usr/local/bin/dotkit' backup") {
		t.Error("backup should delegate to the binary")
	}

	// The library is evaluated via eval "$(...)"; a stray unquoted backtick
	// or unbalanced quote would break the whole shell init.
	if strings.Count(lib, "`") != 0 {
		t.Error("library must not contain backticks")
	}
	if strings.Count(lib, `"`)%2 != 0 {
		t.Error("unbalanced double quotes in library")
	}
}
