// Package platform provides platform detection functionality
package platform

// ProviderAuto asks for the provider to be detected from the CI environment.
const ProviderAuto = "auto"

// DetectProvider picks the hosting provider from CI environment variables.
// Outside a recognised CI it returns "github".
func DetectProvider(getenv func(string) string) string {
	// Check GitLab CI
	if getenv("GITLAB_CI") == "true" || getenv("CI_SERVER_NAME") == "GitLab" {
		return "gitlab"
	}

	// GitHub Actions and local runs
	return "github"
}

// ResolveProvider returns configured unless it is empty or "auto", in
// which case the provider is detected.
func ResolveProvider(configured string, getenv func(string) string) string {
	if configured != "" && configured != ProviderAuto {
		return configured
	}
	return DetectProvider(getenv)
}
