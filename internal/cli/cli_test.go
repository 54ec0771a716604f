package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phanxgames/tether"
	"github.com/phanxgames/tether/persist"
)

// run executes the CLI with args against a config file that does not
// exist, so every test starts from the default configuration.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { tether.SetLogger(nil) })
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestSetVersion(t *testing.T) {
	SetVersion("1.0.0", "abc123", "2024-01-01")
	t.Cleanup(func() { SetVersion("", "", "") })

	if version != "1.0.0" {
		t.Errorf("version = %q, want %q", version, "1.0.0")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2024-01-01" {
		t.Errorf("date = %q, want %q", date, "2024-01-01")
	}
}

func TestPlace(t *testing.T) {
	out, err := run(t, "place", "--target", "100,100,40,20", "--size", "60,30")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "top-left") || !strings.Contains(out, "140,120,60,30") {
		t.Errorf("output = %q", out)
	}
}

func TestPlace_JSON(t *testing.T) {
	out, err := run(t, "place",
		"--target", "100,100,40,20", "--size", "60,30",
		"--container", "50,50,400,400", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got placeOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := placeOutput{Corner: tether.TopLeft, Location: tether.Rect{X: 90, Y: 70, Width: 60, Height: 30}}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestPlace_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad target", []string{"--target", "1,2,3", "--size", "60,30"}},
		{"bad number", []string{"--target", "1,2,3,x", "--size", "60,30"}},
		{"unknown corner", []string{"--target", "1,2,3,4", "--size", "60,30", "--my", "middle"}},
		{"unknown axis", []string{"--target", "1,2,3,4", "--size", "60,30", "--shift", "diagonal"}},
		{"flip and shift", []string{"--target", "1,2,3,4", "--size", "60,30", "--flip", "top-left", "--shift", "vertical"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"place"}, tt.args...)...)
			if !errors.Is(err, tether.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestRunPlace_Flip(t *testing.T) {
	opts := placeOptions{
		target:    "700,560,40,20",
		size:      "60,30",
		container: "0,0,800,600",
		flip:      "top-left,bottom-right",
	}
	got, err := runPlace(opts, tether.DefaultConfig().Position)
	if err != nil {
		t.Fatal(err)
	}
	if got.Corner != tether.BottomRight {
		t.Errorf("corner = %v, want bottom-right", got.Corner)
	}
}

func TestTips(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "tips.yaml")

	out, err := run(t, "--dsn", dsn, "tips", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No stored tips") {
		t.Errorf("empty list output = %q", out)
	}

	doc, err := persist.Marshal([]tether.StoredTip{
		{ID: "btn", My: tether.TopLeft, Location: tether.Vec2{X: 140, Y: 120}, Config: tether.DefaultConfig()},
		{ID: "help", My: tether.BottomRight, Location: tether.Vec2{X: 10, Y: 20}, Config: tether.DefaultConfig()},
	}, "json")
	if err != nil {
		t.Fatal(err)
	}
	in := filepath.Join(dir, "in.json")
	if err := os.WriteFile(in, doc, 0o644); err != nil {
		t.Fatal(err)
	}
	if out, err = run(t, "--dsn", dsn, "tips", "import", in); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Imported 2 tips") {
		t.Errorf("import output = %q", out)
	}

	out, err = run(t, "--dsn", dsn, "tips", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"btn", "help", "140,120", "bottom-right", "2 stored"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "--dsn", dsn, "tips", "export", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	tips, err := persist.Unmarshal([]byte(out), "json")
	if err != nil {
		t.Fatal(err)
	}
	if len(tips) != 2 || tips[0].ID != "btn" {
		t.Errorf("exported = %+v", tips)
	}

	exported := filepath.Join(dir, "out.yml")
	if _, err := run(t, "--dsn", dsn, "tips", "export", exported); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(exported); err != nil {
		t.Errorf("export file: %v", err)
	}

	if _, err := run(t, "--dsn", dsn, "tips", "clear"); err != nil {
		t.Fatal(err)
	}
	out, _ = run(t, "--dsn", dsn, "tips", "list")
	if !strings.Contains(out, "No stored tips") {
		t.Errorf("list after clear = %q", out)
	}
}

func TestTips_ImportRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "tips.yaml")

	if _, err := run(t, "--dsn", dsn, "tips", "import", filepath.Join(dir, "in.txt")); !errors.Is(err, persist.ErrUnsupported) {
		t.Errorf("txt import err = %v, want ErrUnsupported", err)
	}

	noID := filepath.Join(dir, "noid.yaml")
	os.WriteFile(noID, []byte("version: 1\ntips:\n  - my: top-left\n    location: {x: 1, y: 2}\n"), 0o644)
	if _, err := run(t, "--dsn", dsn, "tips", "import", noID); !errors.Is(err, tether.ErrInvalidArgument) {
		t.Errorf("import without id err = %v, want ErrInvalidArgument", err)
	}
}

func TestUnsupportedDSN(t *testing.T) {
	if _, err := run(t, "--dsn", "ftp://example.com/tips", "tips", "list"); !errors.Is(err, persist.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestLoadElements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elements.yaml")
	os.WriteFile(path, []byte("btn: {x: 100, y: 100, width: 40, height: 20}\n"), 0o644)

	els, err := loadElements(path, "0,0,640,480")
	if err != nil {
		t.Fatal(err)
	}
	if got := els["btn"]; got != (tether.Rect{X: 100, Y: 100, Width: 40, Height: 20}) {
		t.Errorf("btn = %+v", got)
	}
	if got := els[""]; got != (tether.Rect{Width: 640, Height: 480}) {
		t.Errorf("root = %+v", got)
	}

	if _, err := loadElements("", "0,0"); !errors.Is(err, tether.ErrInvalidArgument) {
		t.Errorf("bad viewport err = %v", err)
	}
}

func TestScript(t *testing.T) {
	dir := t.TempDir()
	elements := filepath.Join(dir, "elements.yaml")
	os.WriteFile(elements, []byte("btn: {x: 100, y: 100, width: 40, height: 20}\n"), 0o644)
	script := filepath.Join(dir, "pin.json")
	os.WriteFile(script, []byte(`{"steps": [
		{"action": "register", "id": "btn"},
		{"action": "over", "id": "btn", "x": 110, "y": 105},
		{"action": "geometry", "id": "btn", "width": 60, "height": 30},
		{"action": "toggle", "id": "btn"},
		{"action": "expect", "id": "btn", "state": "pinned"}
	]}`), 0o644)

	out, err := run(t, "script", "--elements", elements, script)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "5 steps passed") || !strings.Contains(out, "btn top-left 140,120") {
		t.Errorf("output = %q", out)
	}

	fail := filepath.Join(dir, "fail.json")
	os.WriteFile(fail, []byte(`{"steps": [
		{"action": "register", "id": "btn"},
		{"action": "expect", "id": "btn", "state": "visible"}
	]}`), 0o644)
	if _, err := run(t, "script", "--elements", elements, fail); !errors.Is(err, tether.ErrExpectation) {
		t.Errorf("err = %v, want ErrExpectation", err)
	}
}
