package pathutil

import "testing"

func TestToRelative(t *testing.T) {
	cases := []struct {
		name    string
		abs     string
		root    string
		want    string
	}{
		{"nested file", "/home/user/project/src/main.go", "/home/user/project", "src/main.go"},
		{"root file", "/home/user/project/README.md", "/home/user/project", "README.md"},
		{"outside root", "/other/location/file.go", "/home/user/project", "/other/location/file.go"},
		{"already relative", "src/main.go", "/home/user/project", "src/main.go"},
		{"empty path", "", "/home/user/project", ""},
		{"empty root", "/home/user/project/main.go", "", "/home/user/project/main.go"},
		{"equal to root", "/home/user/project", "/home/user/project", "."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToRelative(tc.abs, tc.root)
			if got != tc.want {
				t.Errorf("ToRelative(%q, %q) = %q, want %q", tc.abs, tc.root, got, tc.want)
			}
		})
	}
}
