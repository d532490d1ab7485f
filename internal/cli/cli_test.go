package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/assemblage/pkg/cache"
	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/config"
	"github.com/matzehuels/assemblage/pkg/session"
)

// isolate points every XDG directory at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,png,json", []string{"svg", "png", "json"}},
		{" SVG , png ,", []string{"svg", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, fallback, want string
	}{
		{"", "collage", "collage"},
		{"out.svg", "collage", "out"},
		{"out/poster.PNG", "collage", "out/poster"},
		{"out.json", "collage", "out"},
		{"notes.txt", "collage", "notes.txt"},
		{"out/poster", "collage", "out/poster"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.fallback); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.fallback, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "out")
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"json": []byte("{}"),
	}

	paths, err := writeArtifacts(base, []string{"json", "png", "svg"}, artifacts, "")
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{base + ".json", base + ".svg"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(base + ".svg")
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg file = %q, %v", data, err)
	}

	paths, err = writeArtifacts(base, []string{"json", "svg"}, artifacts, base+".json")
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want = []string{base + "_rendered.json", base + ".svg"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestStemOf(t *testing.T) {
	if got := stemOf("dir/collage.json"); got != "dir/collage" {
		t.Errorf("stemOf = %q", got)
	}
	if got := stemOf("collage"); got != "collage" {
		t.Errorf("stemOf = %q", got)
	}
}

func TestSessionDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, want := sessionDir(), filepath.Join("/tmp/xdg", appName, "sessions"); got != want {
		t.Errorf("sessionDir() = %q, want %q", got, want)
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	if got := sessionDir(); got != "" {
		t.Errorf("sessionDir() = %q, want empty", got)
	}
}

func TestNewCache(t *testing.T) {
	dir := isolate(t)
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	cc, err := c.newCache(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(*cache.NullCache); !ok {
		t.Errorf("--no-cache gave %T, want *cache.NullCache", cc)
	}

	cc, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(*cache.FileCache); !ok {
		t.Errorf("file backend gave %T, want *cache.FileCache", cc)
	}
	got, _ := c.cacheDir()
	if want := filepath.Join(dir, "cache", appName); got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}

	c.cfg.Cache.Backend = config.BackendNone
	cc, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(*cache.NullCache); !ok {
		t.Errorf("none backend gave %T, want *cache.NullCache", cc)
	}

	c.cfg.Cache.Dir = filepath.Join(dir, "custom")
	if got, _ := c.cacheDir(); got != c.cfg.Cache.Dir {
		t.Errorf("cacheDir() = %q, want configured %q", got, c.cfg.Cache.Dir)
	}
}

func TestComposeFlagsOverlayConfig(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	c.cfg.Layout.ImageCount = 9
	c.cfg.Layout.Variation = "focal"

	cmd := c.composeCommand()
	opts := &composeOpts{}
	if err := cmd.ParseFlags([]string{"--width", "640", "--image", "a.png", "--image", "b.png", "--no-fill"}); err != nil {
		t.Fatal(err)
	}
	opts.width, _ = cmd.Flags().GetFloat64("width")
	opts.imageURLs, _ = cmd.Flags().GetStringArray("image")
	opts.noFill, _ = cmd.Flags().GetBool("no-fill")

	p := c.composePipelineOptions(cmd, opts)
	if p.Width != 640 {
		t.Errorf("Width = %g, want 640", p.Width)
	}
	if p.Height != c.cfg.Layout.Height {
		t.Errorf("Height = %g, want config %g", p.Height, c.cfg.Layout.Height)
	}
	if p.Variation != "focal" {
		t.Errorf("Variation = %q, want config value focal", p.Variation)
	}
	if p.ImageCount != 2 || len(p.ImageURLs) != 2 {
		t.Errorf("ImageCount = %d, ImageURLs = %v, want 2 from --image", p.ImageCount, p.ImageURLs)
	}
	if !p.NoFill {
		t.Error("NoFill should follow --no-fill")
	}
}

func TestComposeFillRenderCommands(t *testing.T) {
	dir := isolate(t)
	base := filepath.Join(dir, "out", "collage")

	if err := run(t, "compose", "--no-cache", "--images", "3", "--seed", "7", "-f", "svg,json", "-o", base+".svg"); err != nil {
		t.Fatalf("compose: %v", err)
	}
	for _, ext := range []string{".svg", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Fatalf("compose did not write %s: %v", base+ext, err)
		}
	}
	comp, err := collage.ReadCompositionFile(base + ".json")
	if err != nil {
		t.Fatalf("read composition: %v", err)
	}
	if comp.Seed != 7 || comp.ImageCount != 3 || len(comp.Fragments) == 0 {
		t.Errorf("composition seed=%d images=%d fragments=%d", comp.Seed, comp.ImageCount, len(comp.Fragments))
	}

	if err := run(t, "fill", "--no-cache", "--iterations", "2", base+".json"); err != nil {
		t.Fatalf("fill: %v", err)
	}
	filled, err := collage.ReadCompositionFile(base + "_filled.json")
	if err != nil {
		t.Fatalf("read filled composition: %v", err)
	}
	if filled.FillIterations > 2 {
		t.Errorf("FillIterations = %d, want <= 2", filled.FillIterations)
	}
	if len(filled.Fragments) < len(comp.Fragments) {
		t.Errorf("fill dropped fragments: %d < %d", len(filled.Fragments), len(comp.Fragments))
	}

	if err := run(t, "render", "--no-cache", "-f", "svg,json", base+"_filled.json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(base + "_filled.svg")
	if err != nil {
		t.Fatalf("render did not write svg: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("rendered file is not SVG")
	}
	if _, err := os.Stat(base + "_filled_rendered.json"); err != nil {
		t.Errorf("json render should not overwrite its input: %v", err)
	}
}

func TestComposeRejectsBadVariation(t *testing.T) {
	isolate(t)
	if err := run(t, "compose", "--no-cache", "--variation", "cubist", "-o", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("expected error for unknown variation")
	}
}

func TestComposeSession(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "c")

	for range 2 {
		if err := run(t, "compose", "--no-fill", "--session", "--max-repeats", "3", "-o", out); err != nil {
			t.Fatalf("compose --session: %v", err)
		}
	}

	store, err := session.NewCLIStore(sessionDir())
	if err != nil {
		t.Fatal(err)
	}
	sess, err := store.GetSession(context.Background())
	if err != nil || sess == nil {
		t.Fatalf("GetSession = %v, %v", sess, err)
	}
	if sess.Compositions != 2 {
		t.Errorf("Compositions = %d, want 2", sess.Compositions)
	}
	if sess.Usage.MaxRepeats != 3 || sess.Usage.Total() == 0 {
		t.Errorf("usage = %+v", sess.Usage)
	}

	if err := run(t, "session", "reset"); err != nil {
		t.Fatalf("session reset: %v", err)
	}
	sess, _ = store.GetSession(context.Background())
	if sess == nil || sess.Usage.Total() != 0 || sess.Usage.MaxRepeats != 3 {
		t.Errorf("after reset: %+v", sess)
	}

	if err := run(t, "session", "reset", "--hard"); err != nil {
		t.Fatalf("session reset --hard: %v", err)
	}
	if sess, _ := store.GetSession(context.Background()); sess != nil {
		t.Error("session should be deleted")
	}
}

func TestScaleCommand(t *testing.T) {
	isolate(t)
	if err := run(t, "scale", "100", "50", "400", "400"); err != nil {
		t.Fatalf("scale: %v", err)
	}
	if err := run(t, "scale", "100", "0", "400", "400"); err == nil {
		t.Error("expected error for zero dimension")
	}
	if err := run(t, "scale", "a", "1", "1", "1"); err == nil {
		t.Error("expected error for non-numeric dimension")
	}
}

func TestParseDimensions(t *testing.T) {
	dims, err := parseDimensions([]string{"1", "2.5", "-3"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(dims, []float64{1, 2.5, -3}) {
		t.Errorf("dims = %v", dims)
	}
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "assemblage.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, "--config", path, "config", "show"); err != nil {
		t.Fatalf("config show: %v", err)
	}
	if err := run(t, "--config", filepath.Join(dir, "missing.toml"), "config", "show"); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := isolate(t)
	if err := run(t, "compose", "--no-fill", "-o", filepath.Join(dir, "c")); err != nil {
		t.Fatalf("compose: %v", err)
	}
	cacheRoot := filepath.Join(dir, "cache", appName)
	if entries, _ := os.ReadDir(cacheRoot); len(entries) == 0 {
		t.Fatal("compose should populate the file cache")
	}
	if err := run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	var files int
	filepath.WalkDir(cacheRoot, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files++
		}
		return nil
	})
	if files != 0 {
		t.Errorf("%d files left after cache clear", files)
	}
}
