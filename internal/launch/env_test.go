package launch

import "testing"

func TestMergeEnvironment(t *testing.T) {
	t.Run("synthesizes_urls_from_application_url", func(t *testing.T) {
		env := MergeEnvironment(map[string]string{"A": "1"}, "http://localhost:5000")

		if got := env[EnvURLsKey]; got != "http://localhost:5000" {
			t.Fatalf("env[%s] = %q, want %q", EnvURLsKey, got, "http://localhost:5000")
		}
		if got := env["A"]; got != "1" {
			t.Fatalf("env[A] = %q, want %q", got, "1")
		}
	})

	t.Run("explicit_urls_wins", func(t *testing.T) {
		profileEnv := map[string]string{EnvURLsKey: "http://localhost:9999"}
		env := MergeEnvironment(profileEnv, "http://localhost:5000")

		if got := env[EnvURLsKey]; got != "http://localhost:9999" {
			t.Fatalf("env[%s] = %q, want explicit %q", EnvURLsKey, got, "http://localhost:9999")
		}
	})

	t.Run("no_url_no_key", func(t *testing.T) {
		env := MergeEnvironment(map[string]string{"A": "1"}, "")

		if _, ok := env[EnvURLsKey]; ok {
			t.Fatalf("env[%s] present, want absent", EnvURLsKey)
		}
	})

	t.Run("nil_profile_env", func(t *testing.T) {
		env := MergeEnvironment(nil, "http://localhost:5000")

		if len(env) != 1 {
			t.Fatalf("len(env) = %d, want 1", len(env))
		}
	})

	t.Run("input_not_mutated", func(t *testing.T) {
		profileEnv := map[string]string{"A": "1"}
		MergeEnvironment(profileEnv, "http://localhost:5000")

		if _, ok := profileEnv[EnvURLsKey]; ok {
			t.Fatalf("profile env mutated: %v", profileEnv)
		}
	})
}
