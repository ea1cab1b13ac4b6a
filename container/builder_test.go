package container

import (
	"reflect"
	"testing"
)

func TestComposeBuildArgs(t *testing.T) {
	args := composeBuildArgs("build", BuildOptions{
		ContextDir: "/src/app",
		Dockerfile: "Dockerfile.prod",
		Tag:        "registry.example.com/payments:abc1234",
		Platform:   "linux/amd64",
		NoCache:    true,
		BuildArgs:  map[string]string{"VERSION": "1.0", "COMMIT": "abc1234"},
		Labels:     map[string]string{"org.opencontainers.image.revision": "abc1234"},
	})

	want := []string{
		"build",
		"-t", "registry.example.com/payments:abc1234",
		"-f", "Dockerfile.prod",
		"--platform", "linux/amd64",
		"--no-cache",
		"--build-arg", "COMMIT=abc1234",
		"--build-arg", "VERSION=1.0",
		"--label", "org.opencontainers.image.revision=abc1234",
		"/src/app",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("composeBuildArgs() = %v, want %v", args, want)
	}
}

func TestComposeBuildArgsDefaultsContext(t *testing.T) {
	args := composeBuildArgs("bud", BuildOptions{Tag: "app:latest"})
	want := []string{"bud", "-t", "app:latest", "."}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("composeBuildArgs() = %v, want %v", args, want)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"docker", "docker"},
		{"podman", "podman"},
		{"buildah", "buildah"},
	}
	for _, tt := range tests {
		b := Get(tt.name)
		if b == nil || b.Name() != tt.want {
			t.Errorf("Get(%q) = %v", tt.name, b)
		}
	}
	if Get("kaniko") != nil {
		t.Error("Get with unknown name should return nil")
	}
}

func TestParseDockerImageID(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"Step 5/5 : CMD [\"/app\"]\nSuccessfully built 4f2a9c1d8e3b\nSuccessfully tagged app:latest", "4f2a9c1d8e3b"},
		{"writing image sha256:deadbeef done\nsha256:deadbeef", "sha256:deadbeef"},
		{"nothing useful", "nothing useful"},
	}
	for _, tt := range tests {
		if got := parseDockerImageID(tt.output); got != tt.want {
			t.Errorf("parseDockerImageID(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine("a\nb\nc\n"); got != "c" {
		t.Errorf("lastLine = %q", got)
	}
	if got := lastLine(""); got != "" {
		t.Errorf("lastLine of empty = %q", got)
	}
}
