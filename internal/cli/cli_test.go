package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	kerrors "github.com/matzehuels/keywheel/pkg/errors"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"", []string{"svg"}, false},
		{"svg", []string{"svg"}, false},
		{"SVG, png ,txt", []string{"svg", "png", "txt"}, false},
		{"svg,,json", []string{"svg", "json"}, false},
		{"gif", nil, true},
		{",", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFormats(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if tt.wantErr && !kerrors.Is(err, kerrors.ErrCodeInvalidFormat) {
				t.Errorf("parseFormats(%q) code = %s, want INVALID_FORMAT", tt.in, kerrors.GetCode(err))
			}
		})
	}
}

func TestFileStem(t *testing.T) {
	tests := map[string]string{
		"C":   "c",
		"F#m": "fsharp-minor",
		"Bb":  "bflat",
		"Bbm": "bflat-minor",
		"Ebm": "eflat-minor",
		"B":   "b",
	}
	for in, want := range tests {
		if got := fileStem(in); got != want {
			t.Errorf("fileStem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"default", "", []string{"svg"}, map[string]string{"svg": "keywheel-c.svg"}},
		{"single explicit", "out/wheel.svg", []string{"svg"}, map[string]string{"svg": "out/wheel.svg"}},
		{"single other extension", "wheel.image", []string{"png"}, map[string]string{"png": "wheel.image"}},
		{"multiple strip extension", "wheel.svg", []string{"svg", "txt"}, map[string]string{"svg": "wheel.svg", "txt": "wheel.txt"}},
		{"multiple base", "out/c", []string{"svg", "json"}, map[string]string{"svg": "out/c.svg", "json": "out/c.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "C", tt.formats)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths(%q) = %v, want %v", tt.output, got, tt.want)
			}
		})
	}
}

func TestRelatedCommand(t *testing.T) {
	out, err := execute(t, "related", "C")
	if err != nil {
		t.Fatalf("related: %v", err)
	}
	for _, want := range []string{"Degree", "Cm", "Dm", "Em", "Am", "ii", "IV", "vi"} {
		if !strings.Contains(out, want) {
			t.Errorf("related output missing %q:\n%s", want, out)
		}
	}
}

func TestRelatedCommandInvalidKey(t *testing.T) {
	_, err := execute(t, "related", "H")
	if !kerrors.Is(err, kerrors.ErrCodeInvalidKey) {
		t.Errorf("related H error = %v, want INVALID_KEY", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	out, err := execute(t, "layout", "C", "--tick", "0")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, want := range []string{"C at tick 0", "Parent", "Bm", "still growing"} {
		if !strings.Contains(out, want) {
			t.Errorf("layout output missing %q:\n%s", want, out)
		}
	}
}

func TestLayoutCommandJSON(t *testing.T) {
	out, err := execute(t, "layout", "Am", "--json")
	if err != nil {
		t.Fatalf("layout --json: %v", err)
	}
	if !strings.Contains(out, `"root": "Am"`) || !strings.Contains(out, `"saturated": true`) {
		t.Errorf("layout --json output = %s", out)
	}
}

func TestLayoutCommandTruncated(t *testing.T) {
	out, err := execute(t, "layout", "Gb")
	if err != nil {
		t.Fatalf("layout Gb: %v", err)
	}
	if !strings.Contains(out, "Gbm!") || !strings.Contains(out, "could not be expanded") {
		t.Errorf("layout Gb output does not flag truncation:\n%s", out)
	}
}

func TestLayoutCommandUnexpandableRoot(t *testing.T) {
	_, err := execute(t, "layout", "Fb")
	if !kerrors.Is(err, kerrors.ErrCodeAccidentalRange) {
		t.Errorf("layout Fb error = %v, want ACCIDENTAL_RANGE", err)
	}
}

func TestRenderCommand(t *testing.T) {
	base := filepath.Join(t.TempDir(), "frames", "c")
	out, err := execute(t, "render", "C", "-f", "svg,txt,dot", "-o", base)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg output starts with %q", svg[:min(len(svg), 20)])
	}

	txt, err := os.ReadFile(base + ".txt")
	if err != nil {
		t.Fatalf("read txt: %v", err)
	}
	if !strings.HasPrefix(string(txt), "C\n  Cm\n") {
		t.Errorf("txt output = %q", txt)
	}

	if _, err := os.Stat(base + ".dot"); err != nil {
		t.Errorf("dot output missing: %v", err)
	}
	if !strings.Contains(out, base+".txt") {
		t.Errorf("render output does not list %s:\n%s", base+".txt", out)
	}
}

func TestRenderCommandInvalidRenderer(t *testing.T) {
	_, err := execute(t, "render", "C", "-o", filepath.Join(t.TempDir(), "c"), "--renderer", "ascii")
	if !kerrors.Is(err, kerrors.ErrCodeInvalidInput) {
		t.Errorf("render --renderer ascii error = %v, want INVALID_INPUT", err)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[canvas]\nwidth = 400\nheight = 400\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "layout", "C", "--tick", "0", "--json", "--config", path)
	if err != nil {
		t.Fatalf("layout --config: %v", err)
	}
	if !strings.Contains(out, `"width": 400`) {
		t.Errorf("config canvas not applied:\n%s", out)
	}
	// The root sits at the canvas centre.
	if !strings.Contains(out, `"x": 200`) {
		t.Errorf("root not centred on the configured canvas:\n%s", out)
	}
}

func TestConfigFlagErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[canvas]\ncolour = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code kerrors.Code
	}{
		{"missing", filepath.Join(dir, "missing.toml"), kerrors.ErrCodeFileNotFound},
		{"unknown key", bad, kerrors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "related", "C", "--config", tt.path)
			if !kerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "keywheel") {
		t.Errorf("bash completion does not mention keywheel")
	}
}
