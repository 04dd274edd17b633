package options

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/argus-ci/argus-cli/internal/env"
	"github.com/argus-ci/argus-cli/internal/logger"
	"github.com/argus-ci/argus-cli/internal/manifest"
)

func ptr(s string) *string {
	return &s
}

func testScripts(t *testing.T, body string) *manifest.Scripts {
	t.Helper()
	s, err := manifest.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return s
}

func buildScripts(t *testing.T) *manifest.Scripts {
	t.Helper()
	return testScripts(t, `{"scripts": {"build-storybook": "build-storybook -o storybook-static"}}`)
}

func validFlags() Flags {
	return Flags{ProjectToken: []string{"tok123"}, Interactive: true}
}

func resolve(t *testing.T, flags Flags, e env.Env, scripts *manifest.Scripts) (*Options, error) {
	t.Helper()
	return Resolve(flags, e, scripts, logger.New(io.Discard))
}

func TestResolveProjectToken(t *testing.T) {
	tests := []struct {
		name    string
		flags   Flags
		env     env.Env
		want    string
		wantErr error
	}{
		{
			name:  "from flag",
			flags: Flags{ProjectToken: []string{"tok123"}},
			want:  "tok123",
		},
		{
			name:  "last flag wins",
			flags: Flags{ProjectToken: []string{"old", "new"}},
			want:  "new",
		},
		{
			name:  "deprecated app code",
			flags: Flags{AppCode: []string{"code1"}},
			want:  "code1",
		},
		{
			name:  "project token beats app code",
			flags: Flags{ProjectToken: []string{"tok123"}, AppCode: []string{"code1"}},
			want:  "tok123",
		},
		{
			name: "from environment",
			env:  env.Env{"ARGUS_PROJECT_TOKEN": "envtok"},
			want: "envtok",
		},
		{
			name: "deprecated environment variable",
			env:  env.Env{"ARGUS_APP_CODE": "envcode"},
			want: "envcode",
		},
		{
			name: "flag beats environment",
			flags: Flags{
				ProjectToken: []string{"tok123"},
			},
			env:  env.Env{"ARGUS_PROJECT_TOKEN": "envtok"},
			want: "tok123",
		},
		{
			name:    "missing",
			wantErr: ErrMissingProjectToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := resolve(t, tt.flags, tt.env, buildScripts(t))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if o.ProjectToken != tt.want {
				t.Errorf("ProjectToken = %q, want %q", o.ProjectToken, tt.want)
			}
		})
	}
}

func TestResolvePatchBuild(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantHead string
		wantBase string
		wantErr  error
	}{
		{name: "valid", value: "feature...main", wantHead: "feature", wantBase: "main"},
		{name: "missing separator", value: "feature", wantErr: ErrInvalidPatchBuild},
		{name: "missing base", value: "feature...", wantErr: ErrInvalidPatchBuild},
		{name: "missing head", value: "...main", wantErr: ErrInvalidPatchBuild},
		{name: "same ref twice", value: "main...main", wantErr: ErrDuplicatePatchBuildRefs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := validFlags()
			flags.PatchBuild = tt.value
			o, err := resolve(t, flags, nil, buildScripts(t))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if o.PatchHeadRef != tt.wantHead || o.PatchBaseRef != tt.wantBase {
				t.Errorf("patch refs = %q...%q, want %q...%q", o.PatchHeadRef, o.PatchBaseRef, tt.wantHead, tt.wantBase)
			}
		})
	}
}

func TestResolveOnly(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "component and story", value: "Button/Primary"},
		{name: "wildcards", value: "Forms*/*"},
		{name: "nested path", value: "Atoms/Button/Primary"},
		{name: "no slash", value: "Button", wantErr: true},
		{name: "trailing slash", value: "Button/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := validFlags()
			flags.Only = tt.value
			o, err := resolve(t, flags, nil, buildScripts(t))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOnly) {
					t.Fatalf("Resolve() error = %v, want %v", err, ErrInvalidOnly)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if o.Only != tt.value {
				t.Errorf("Only = %q, want %q", o.Only, tt.value)
			}
		})
	}
}

func TestResolveRunModeConflicts(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Flags)
		wantFlags string
	}{
		{
			name: "build script and script",
			mutate: func(f *Flags) {
				f.BuildScriptName = ptr("")
				f.ScriptName = ptr("")
			},
			wantFlags: "--build-script-name, --script-name",
		},
		{
			name: "exec and url",
			mutate: func(f *Flags) {
				f.Exec = "start-storybook"
				f.StorybookURL = "http://localhost:9009"
			},
			wantFlags: "--exec, --storybook-url",
		},
		{
			name: "url and build dir",
			mutate: func(f *Flags) {
				f.StorybookURL = "http://localhost:9009"
				f.StorybookBuildDir = []string{"storybook-static"}
			},
			wantFlags: "--storybook-url, --storybook-build-dir",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := validFlags()
			tt.mutate(&flags)
			_, err := resolve(t, flags, nil, buildScripts(t))
			if !errors.Is(err, ErrIncompatibleModes) {
				t.Fatalf("Resolve() error = %v, want %v", err, ErrIncompatibleModes)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Resolve() error type = %T, want *ConfigError", err)
			}
			if got := strings.Join(ce.Flags, ", "); got != tt.wantFlags {
				t.Errorf("conflicting flags = %q, want %q", got, tt.wantFlags)
			}
		})
	}
}

func TestResolveOnlyChangedRules(t *testing.T) {
	t.Run("only with only-changed", func(t *testing.T) {
		flags := validFlags()
		flags.Only = "Button/Primary"
		flags.OnlyChanged = ptr("")
		_, err := resolve(t, flags, nil, buildScripts(t))
		if !errors.Is(err, ErrOnlyWithOnlyChanged) {
			t.Fatalf("Resolve() error = %v, want %v", err, ErrOnlyWithOnlyChanged)
		}
	})

	t.Run("untraced requires only-changed", func(t *testing.T) {
		flags := validFlags()
		flags.Untraced = []string{"package-lock.json"}
		_, err := resolve(t, flags, nil, buildScripts(t))
		if !errors.Is(err, ErrRequiresOnlyChanged) {
			t.Fatalf("Resolve() error = %v, want %v", err, ErrRequiresOnlyChanged)
		}
	})

	t.Run("externals requires only-changed", func(t *testing.T) {
		flags := validFlags()
		flags.Externals = []string{"public/**"}
		_, err := resolve(t, flags, nil, buildScripts(t))
		if !errors.Is(err, ErrRequiresOnlyChanged) {
			t.Fatalf("Resolve() error = %v, want %v", err, ErrRequiresOnlyChanged)
		}
	})

	t.Run("untraced with only-changed", func(t *testing.T) {
		flags := validFlags()
		flags.OnlyChanged = ptr("")
		flags.Untraced = []string{"package-lock.json", " ", "package-lock.json"}
		o, err := resolve(t, flags, nil, buildScripts(t))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if len(o.Untraced) != 1 || o.Untraced[0] != "package-lock.json" {
			t.Errorf("Untraced = %v, want [package-lock.json]", o.Untraced)
		}
		if !o.OnlyChanged.Enabled || o.OnlyChanged.Glob != "" {
			t.Errorf("OnlyChanged = %+v, want enabled without glob", o.OnlyChanged)
		}
	})

	t.Run("only-changed with glob", func(t *testing.T) {
		flags := validFlags()
		flags.OnlyChanged = ptr("feature/*")
		o, err := resolve(t, flags, nil, buildScripts(t))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.OnlyChanged.Glob != "feature/*" {
			t.Errorf("OnlyChanged.Glob = %q, want %q", o.OnlyChanged.Glob, "feature/*")
		}
	})
}

func TestResolveExitOnceUploaded(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Flags)
		wantErr   error
		wantFlags string
	}{
		{
			name: "with do-not-start",
			mutate: func(f *Flags) {
				f.ExitOnceUploaded = ptr("")
				f.DoNotStart = true
				f.StorybookPort = "9009"
			},
			wantErr:   ErrInvalidExitOnceUploaded,
			wantFlags: "--do-not-start",
		},
		{
			name: "with storybook url",
			mutate: func(f *Flags) {
				f.ExitOnceUploaded = ptr("")
				f.StorybookURL = "http://localhost:9009"
			},
			wantErr:   ErrInvalidExitOnceUploaded,
			wantFlags: "--storybook-url",
		},
		{
			name: "with script name",
			mutate: func(f *Flags) {
				f.ExitOnceUploaded = ptr("")
				f.ScriptName = ptr("")
			},
			wantErr:   ErrInvalidExitOnceUploaded,
			wantFlags: "--script-name",
		},
		{
			name: "with junit report",
			mutate: func(f *Flags) {
				f.ExitOnceUploaded = ptr("")
				f.JunitReport = ptr("")
			},
			wantErr: ErrJunitWithExitOnce,
		},
		{
			name: "alone in build mode",
			mutate: func(f *Flags) {
				f.ExitOnceUploaded = ptr("main")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := validFlags()
			tt.mutate(&flags)
			o, err := resolve(t, flags, nil, buildScripts(t))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				if tt.wantFlags != "" {
					var ce *ConfigError
					if !errors.As(err, &ce) {
						t.Fatalf("Resolve() error type = %T, want *ConfigError", err)
					}
					if got := strings.Join(ce.Flags, ", "); got != tt.wantFlags {
						t.Errorf("conflicting flags = %q, want %q", got, tt.wantFlags)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if o.ExitOnceUploaded.Glob != "main" {
				t.Errorf("ExitOnceUploaded.Glob = %q, want %q", o.ExitOnceUploaded.Glob, "main")
			}
		})
	}
}

func TestResolveJunitReport(t *testing.T) {
	t.Run("custom path", func(t *testing.T) {
		flags := validFlags()
		flags.JunitReport = ptr("reports/argus.xml")
		o, err := resolve(t, flags, nil, buildScripts(t))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !o.JunitReport.Set() || o.JunitReport.Path != "reports/argus.xml" {
			t.Errorf("JunitReport = %+v, want path reports/argus.xml", o.JunitReport)
		}
	})

	t.Run("bare flag", func(t *testing.T) {
		flags := validFlags()
		flags.JunitReport = ptr("")
		o, err := resolve(t, flags, nil, buildScripts(t))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !o.JunitReport.Set() || o.JunitReport.Path != "" {
			t.Errorf("JunitReport = %+v, want enabled without path", o.JunitReport)
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		flags := validFlags()
		flags.JunitReport = ptr("reports/argus.txt")
		_, err := resolve(t, flags, nil, buildScripts(t))
		if !errors.Is(err, ErrInvalidJunitPath) {
			t.Fatalf("Resolve() error = %v, want %v", err, ErrInvalidJunitPath)
		}
	})
}

func TestResolveBuildMode(t *testing.T) {
	t.Run("default script", func(t *testing.T) {
		o, err := resolve(t, validFlags(), nil, buildScripts(t))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.BuildScriptName != "build-storybook" {
			t.Errorf("BuildScriptName = %q, want %q", o.BuildScriptName, "build-storybook")
		}
		if o.NoStart || o.URL != "" {
			t.Errorf("build mode set NoStart=%v URL=%q, want false and empty", o.NoStart, o.URL)
		}
		if !o.UseTunnel {
			t.Error("UseTunnel = false, want true")
		}
	})

	t.Run("custom script name", func(t *testing.T) {
		flags := validFlags()
		flags.BuildScriptName = ptr("sb:build")
		scripts := testScripts(t, `{"scripts": {"sb:build": "build-storybook"}}`)
		o, err := resolve(t, flags, nil, scripts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.BuildScriptName != "sb:build" {
			t.Errorf("BuildScriptName = %q, want %q", o.BuildScriptName, "sb:build")
		}
	})

	t.Run("fallback by command prefix", func(t *testing.T) {
		scripts := testScripts(t, `{"scripts": {
			"test": "jest",
			"sb:build": "build-storybook -o dist",
			"sb:build-ci": "build-storybook -o ci"
		}}`)
		o, err := resolve(t, validFlags(), nil, scripts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.BuildScriptName != "sb:build" {
			t.Errorf("BuildScriptName = %q, want %q", o.BuildScriptName, "sb:build")
		}
	})

	t.Run("no build script anywhere", func(t *testing.T) {
		scripts := testScripts(t, `{"scripts": {"test": "jest"}}`)
		_, err := resolve(t, validFlags(), nil, scripts)
		if !errors.Is(err, ErrMissingBuildScript) {
			t.Fatalf("Resolve() error = %v, want %v", err, ErrMissingBuildScript)
		}
	})

	t.Run("prebuilt directory", func(t *testing.T) {
		flags := validFlags()
		flags.StorybookBuildDir = []string{"dist/storybook", "storybook-static"}
		o, err := resolve(t, flags, nil, testScripts(t, `{}`))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.StorybookBuildDir != "storybook-static" {
			t.Errorf("StorybookBuildDir = %q, want %q", o.StorybookBuildDir, "storybook-static")
		}
		if !o.NoStart {
			t.Error("NoStart = false, want true")
		}
		if o.UseTunnel {
			t.Error("UseTunnel = true, want false")
		}
		if o.URL != "" || o.BuildScriptName != "" {
			t.Errorf("URL = %q, BuildScriptName = %q, want both empty", o.URL, o.BuildScriptName)
		}
	})
}

func TestResolveServerScript(t *testing.T) {
	t.Run("inferred port", func(t *testing.T) {
		flags := validFlags()
		flags.ScriptName = ptr("")
		scripts := testScripts(t, `{"scripts": {"storybook": "start-storybook -p 9009"}}`)
		o, err := resolve(t, flags, nil, scripts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.ScriptName != "storybook" {
			t.Errorf("ScriptName = %q, want %q", o.ScriptName, "storybook")
		}
		if o.Port != "9009" {
			t.Errorf("Port = %q, want %q", o.Port, "9009")
		}
		if o.URL != "http://localhost:9009/iframe.html" {
			t.Errorf("URL = %q, want %q", o.URL, "http://localhost:9009/iframe.html")
		}
		if !o.UseTunnel {
			t.Error("UseTunnel = false, want true")
		}
	})

	t.Run("long port flag", func(t *testing.T) {
		flags := validFlags()
		flags.ScriptName = ptr("sb:dev")
		scripts := testScripts(t, `{"scripts": {"sb:dev": "storybook dev --port=6006"}}`)
		o, err := resolve(t, flags, nil, scripts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.Port != "6006" {
			t.Errorf("Port = %q, want %q", o.Port, "6006")
		}
	})

	t.Run("explicit port wins", func(t *testing.T) {
		flags := validFlags()
		flags.ScriptName = ptr("")
		flags.StorybookPort = "7007"
		scripts := testScripts(t, `{"scripts": {"storybook": "start-storybook -p 9009"}}`)
		o, err := resolve(t, flags, nil, scripts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.Port != "7007" {
			t.Errorf("Port = %q, want %q", o.Port, "7007")
		}
		if o.URL != "http://localhost:7007/iframe.html" {
			t.Errorf("URL = %q, want %q", o.URL, "http://localhost:7007/iframe.html")
		}
	})

	t.Run("script missing", func(t *testing.T) {
		flags := validFlags()
		flags.ScriptName = ptr("")
		_, err := resolve(t, flags, nil, testScripts(t, `{}`))
		if !errors.Is(err, ErrMissingScript) {
			t.Fatalf("Resolve() error = %v, want %v", err, ErrMissingScript)
		}
	})

	t.Run("no port in script", func(t *testing.T) {
		flags := validFlags()
		flags.ScriptName = ptr("")
		scripts := testScripts(t, `{"scripts": {"storybook": "start-storybook --quiet"}}`)
		_, err := resolve(t, flags, nil, scripts)
		if !errors.Is(err, ErrUnknownPort) {
			t.Fatalf("Resolve() error = %v, want %v", err, ErrUnknownPort)
		}
	})

	t.Run("https script", func(t *testing.T) {
		flags := validFlags()
		flags.ScriptName = ptr("")
		scripts := testScripts(t, `{"scripts": {
			"storybook": "start-storybook -p 9009 --https --ssl-cert ~/certs/sb.crt --ssl-key ~/certs/sb.key"
		}}`)
		o, err := resolve(t, flags, env.Env{"HOME": "/home/dev"}, scripts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.HTTPS == nil {
			t.Fatal("HTTPS = nil, want populated")
		}
		if o.HTTPS.Cert != "/home/dev/certs/sb.crt" {
			t.Errorf("HTTPS.Cert = %q, want %q", o.HTTPS.Cert, "/home/dev/certs/sb.crt")
		}
		if o.HTTPS.Key != "/home/dev/certs/sb.key" {
			t.Errorf("HTTPS.Key = %q, want %q", o.HTTPS.Key, "/home/dev/certs/sb.key")
		}
		if o.URL != "https://localhost:9009/iframe.html" {
			t.Errorf("URL = %q, want %q", o.URL, "https://localhost:9009/iframe.html")
		}
	})

	t.Run("https flags beat script", func(t *testing.T) {
		flags := validFlags()
		flags.ScriptName = ptr("")
		flags.StorybookHTTPS = true
		flags.StorybookCert = "/etc/certs/flag.crt"
		scripts := testScripts(t, `{"scripts": {
			"storybook": "start-storybook -p 9009 --https --ssl-cert /etc/certs/script.crt"
		}}`)
		o, err := resolve(t, flags, nil, scripts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.HTTPS == nil || o.HTTPS.Cert != "/etc/certs/flag.crt" {
			t.Errorf("HTTPS = %+v, want cert from flag", o.HTTPS)
		}
	})
}

func TestResolveExecMode(t *testing.T) {
	t.Run("without port", func(t *testing.T) {
		flags := validFlags()
		flags.Exec = "npx start-storybook"
		_, err := resolve(t, flags, nil, testScripts(t, `{}`))
		if !errors.Is(err, ErrMissingPort) {
			t.Fatalf("Resolve() error = %v, want %v", err, ErrMissingPort)
		}
	})

	t.Run("with port", func(t *testing.T) {
		flags := validFlags()
		flags.Exec = "npx start-storybook"
		flags.StorybookPort = "9009"
		o, err := resolve(t, flags, nil, testScripts(t, `{}`))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.Exec != "npx start-storybook" {
			t.Errorf("Exec = %q, want the command", o.Exec)
		}
		if o.ScriptName != "" {
			t.Errorf("ScriptName = %q, want empty", o.ScriptName)
		}
		if o.URL != "http://localhost:9009/iframe.html" {
			t.Errorf("URL = %q, want %q", o.URL, "http://localhost:9009/iframe.html")
		}
		if !o.UseTunnel {
			t.Error("UseTunnel = false, want true")
		}
	})
}

func TestResolveAlreadyRunning(t *testing.T) {
	flags := validFlags()
	flags.DoNotStart = true
	flags.StorybookPort = "9009"
	o, err := resolve(t, flags, nil, testScripts(t, `{}`))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if o.ScriptName != "" {
		t.Errorf("ScriptName = %q, want empty", o.ScriptName)
	}
	if o.URL != "http://localhost:9009/iframe.html" {
		t.Errorf("URL = %q, want %q", o.URL, "http://localhost:9009/iframe.html")
	}
}

func TestResolveURLMode(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "bare host", url: "http://localhost:9009", want: "http://localhost:9009/iframe.html"},
		{name: "trailing slash", url: "https://sb.example.com/", want: "https://sb.example.com/iframe.html"},
		{name: "sub path", url: "https://example.com/storybook", want: "https://example.com/storybook/iframe.html"},
		{name: "already iframe", url: "https://example.com/iframe.html", want: "https://example.com/iframe.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := validFlags()
			flags.StorybookURL = tt.url
			o, err := resolve(t, flags, nil, testScripts(t, `{}`))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if o.URL != tt.want {
				t.Errorf("URL = %q, want %q", o.URL, tt.want)
			}
			if !o.NoStart {
				t.Error("NoStart = false, want true")
			}
			if o.UseTunnel {
				t.Error("UseTunnel = true, want false")
			}
		})
	}

	t.Run("unparsable url", func(t *testing.T) {
		flags := validFlags()
		flags.StorybookURL = "http://[::1"
		_, err := resolve(t, flags, nil, testScripts(t, `{}`))
		if !errors.Is(err, ErrInvalidStorybookURL) {
			t.Fatalf("Resolve() error = %v, want %v", err, ErrInvalidStorybookURL)
		}
	})
}

func TestResolveOnlyChangedNeedsBuild(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Flags)
	}{
		{name: "with url", mutate: func(f *Flags) { f.StorybookURL = "http://localhost:9009" }},
		{name: "with exec", mutate: func(f *Flags) { f.Exec = "start-storybook"; f.StorybookPort = "9009" }},
		{name: "with script", mutate: func(f *Flags) { f.ScriptName = ptr("") }},
		{name: "with port", mutate: func(f *Flags) { f.StorybookPort = "9009" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := validFlags()
			flags.OnlyChanged = ptr("")
			tt.mutate(&flags)
			_, err := resolve(t, flags, nil, buildScripts(t))
			if !errors.Is(err, ErrOnlyChangedNeedsBuild) {
				t.Fatalf("Resolve() error = %v, want %v", err, ErrOnlyChangedNeedsBuild)
			}
		})
	}
}

func TestResolveDebug(t *testing.T) {
	log := logger.New(io.Discard)
	flags := validFlags()
	flags.Debug = true
	o, err := Resolve(flags, nil, buildScripts(t), log)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !o.Verbose {
		t.Error("Verbose = false, want true")
	}
	if o.Interactive {
		t.Error("Interactive = true, want false")
	}
	if !log.Verbose() {
		t.Error("logger left non-verbose")
	}
	if log.Interactive() {
		t.Error("logger left interactive")
	}
}

func TestResolveInteractive(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  bool
	}{
		{name: "tty", flags: Flags{ProjectToken: []string{"t"}, Interactive: true}, want: true},
		{name: "not a tty", flags: Flags{ProjectToken: []string{"t"}}, want: false},
		{name: "ci", flags: Flags{ProjectToken: []string{"t"}, Interactive: true, CI: true}, want: false},
		{name: "debug", flags: Flags{ProjectToken: []string{"t"}, Interactive: true, Debug: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := resolve(t, tt.flags, nil, buildScripts(t))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if o.Interactive != tt.want {
				t.Errorf("Interactive = %v, want %v", o.Interactive, tt.want)
			}
		})
	}
}

func TestResolveTunnelEnv(t *testing.T) {
	t.Run("build mode honors opt-out", func(t *testing.T) {
		o, err := resolve(t, validFlags(), env.Env{"ARGUS_CREATE_TUNNEL": "false"}, buildScripts(t))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if o.UseTunnel {
			t.Error("UseTunnel = true, want false")
		}
	})

	t.Run("server mode requires tunnel", func(t *testing.T) {
		flags := validFlags()
		flags.DoNotStart = true
		flags.StorybookPort = "9009"
		o, err := resolve(t, flags, env.Env{"ARGUS_CREATE_TUNNEL": "false"}, testScripts(t, `{}`))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !o.UseTunnel {
			t.Error("UseTunnel = false, want true")
		}
	})
}

func TestResolveBranchName(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantBranch string
		wantOwner  string
	}{
		{name: "plain branch", value: "main", wantBranch: "main"},
		{name: "owner prefix", value: "acme:feature/login", wantBranch: "feature/login", wantOwner: "acme"},
		{name: "nested owner", value: "acme:web:main", wantBranch: "main", wantOwner: "acme:web"},
		{name: "empty", value: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := validFlags()
			flags.BranchName = tt.value
			o, err := resolve(t, flags, nil, buildScripts(t))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if o.BranchName != tt.wantBranch || o.OwnerName != tt.wantOwner {
				t.Errorf("branch = %q owner = %q, want %q and %q", o.BranchName, o.OwnerName, tt.wantBranch, tt.wantOwner)
			}
		})
	}
}

func TestResolveLogsDetectedScript(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf)
	flags := validFlags()
	flags.ScriptName = ptr("")
	scripts := testScripts(t, `{"scripts": {"storybook": "start-storybook -p 9009"}}`)
	if _, err := Resolve(flags, nil, scripts, log); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"storybook"`) || !strings.Contains(out, "9009") {
		t.Errorf("log output = %q, want script name and port", out)
	}
}

func TestConfigErrorUnwrap(t *testing.T) {
	err := &ConfigError{Err: ErrMissingScript, Value: "storybook"}
	if !errors.Is(err, ErrMissingScript) {
		t.Error("errors.Is(err, ErrMissingScript) = false, want true")
	}
	if msg := err.Error(); !strings.Contains(msg, `"storybook"`) {
		t.Errorf("Error() = %q, want it to name the script", msg)
	}
}
