package launch

// EnvURLsKey is the variable the runtime reads its listen URLs from.
const EnvURLsKey = "ASPNETCORE_URLS"

// MergeEnvironment copies the profile environment and synthesizes
// ASPNETCORE_URLS from the profile's application URL. An explicit entry in
// the profile always wins over the synthesized one.
func MergeEnvironment(profileEnv map[string]string, applicationURL string) map[string]string {
	env := make(map[string]string, len(profileEnv)+1)
	for key, value := range profileEnv {
		env[key] = value
	}
	if applicationURL != "" {
		if _, ok := env[EnvURLsKey]; !ok {
			env[EnvURLsKey] = applicationURL
		}
	}
	return env
}
