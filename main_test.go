package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"texturematch/atlas"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	runCleanups()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}

func writeSolidPNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote default configuration")

	if _, err := runCLI(t, "--config", path, "config", "init"); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}

	out, err = runCLI(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "hash_size = 8")
	requireContains(t, out, "cell_width = 88")
}

func TestIndexAndMatch(t *testing.T) {
	root := t.TempDir()
	refDir := filepath.Join(root, "ref")
	dumpDir := filepath.Join(root, "dump")
	mkdirs(t, refDir, dumpDir)
	writeSolidPNG(t, filepath.Join(refDir, "ref.png"), 10, 10, color.NRGBA{A: 255})
	writeSolidPNG(t, filepath.Join(dumpDir, "abc123.png"), 10, 10, color.NRGBA{A: 255})

	configPath := filepath.Join(root, "config.toml")
	output := filepath.Join(root, "out", "textures.ini")

	out, err := runCLI(t, "--config", configPath, "index", "--reference", refDir)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	requireContains(t, out, "Images indexed")

	out, err = runCLI(t, "--config", configPath, "match",
		"--reference", refDir, "--dump", dumpDir, "--output", output)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, out, "Unique entries")

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if want := "[hashes]\nabc123 = ref.png\n"; string(got) != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestMatchRequiresDumpFolder(t *testing.T) {
	root := t.TempDir()
	_, err := runCLI(t, "--config", filepath.Join(root, "config.toml"), "match", "--reference", root)
	if err == nil {
		t.Fatal("expected an error without a dump folder")
	}
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	smallDir := filepath.Join(root, "small")
	atlasDir := filepath.Join(root, "tiny")
	mkdirs(t, smallDir, atlasDir)
	configPath := filepath.Join(root, "config.toml")
	if err := os.WriteFile(configPath, []byte("[atlas]\ncell_width = 2\ncell_height = 2\nrows = 1\ncols = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	atlasImg := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			c := color.NRGBA{A: 255}
			if x >= 2 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			atlasImg.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(filepath.Join(atlasDir, "tiny_00.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, atlasImg); err != nil {
		t.Fatal(err)
	}
	f.Close()
	writeSolidPNG(t, filepath.Join(smallDir, "4007.png"), 2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out, err := runCLI(t, "--config", configPath, "locate", "4007", "--small", smallDir, "--atlas", atlasDir)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	requireContains(t, out, "tiny_00.png")

	_, err = runCLI(t, "--config", configPath, "locate", "4007", "--small", smallDir, "--atlas", filepath.Join(root, "missing"))
	if !errors.Is(err, atlas.ErrAtlasDirNotFound) {
		t.Fatalf("missing atlas dir: err = %v", err)
	}
}
