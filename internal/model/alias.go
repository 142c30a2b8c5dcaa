package model

import (
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// Aliases derives semantic-version prefix aliases from concrete tag names.
// Every parseable MAJOR.MINOR.PATCH tag contributes a MAJOR alias (e.g. "9")
// and a MAJOR.MINOR alias (e.g. "9.0"), each pointing at the highest full
// version in its group. Tag names that do not parse as plain three-component
// versions (dist-style tags like "latest") are skipped, not errors.
func Aliases(tagNames []string) map[string]string {
	aliases := make(map[string]string)
	winners := make(map[string]*semver.Version)

	for _, name := range tagNames {
		version, ok := parseExactSemver(name)
		if !ok {
			continue
		}

		for _, group := range []string{majorAlias(version), minorAlias(version)} {
			current, seen := winners[group]
			// >= so that an exact duplicate processed later wins.
			if !seen || version.Compare(current) >= 0 {
				winners[group] = version
				aliases[group] = name
			}
		}
	}

	return aliases
}

// SuffixedAliases derives aliases for a variant's tag names, which all carry
// the variant's tag suffix. The suffix is removed with an exact trim before
// parsing so digits inside the suffix can never be read as version
// components, then re-appended to both alias and target.
func SuffixedAliases(tagNames []string, suffix string) map[string]string {
	stripped := make([]string, 0, len(tagNames))
	for _, name := range tagNames {
		if suffix != "" && !strings.HasSuffix(name, suffix) {
			continue
		}
		stripped = append(stripped, strings.TrimSuffix(name, suffix))
	}

	aliases := make(map[string]string)
	for alias, target := range Aliases(stripped) {
		aliases[alias+suffix] = target + suffix
	}
	return aliases
}

// parseExactSemver accepts only plain MAJOR.MINOR.PATCH names. Prerelease or
// build metadata disqualifies a tag from alias generation.
func parseExactSemver(name string) (*semver.Version, bool) {
	version, err := semver.StrictNewVersion(name)
	if err != nil {
		return nil, false
	}
	if version.Prerelease() != "" || version.Metadata() != "" {
		return nil, false
	}
	return version, true
}

func majorAlias(v *semver.Version) string {
	return strings.Split(v.Original(), ".")[0]
}

func minorAlias(v *semver.Version) string {
	parts := strings.Split(v.Original(), ".")
	return parts[0] + "." + parts[1]
}
