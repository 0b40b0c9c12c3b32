package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

var requirementPattern = regexp.MustCompile(`^\s*([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(?:\[([^\]]*)\])?\s*(.*?)\s*$`)

// ParseRequirement converts a PEP 508 requirement string, as found in
// [project].dependencies, into a name and Spec. Version specifiers are kept
// verbatim; a requirement without one becomes "*". Direct references map to
// Git (git+ URLs, with an @ref suffix as Rev), Path (file:// URLs) or URL.
func ParseRequirement(req string) (string, Spec, error) {
	body, markers, _ := strings.Cut(req, ";")
	m := requirementPattern.FindStringSubmatch(body)
	if m == nil {
		return "", Spec{}, fmt.Errorf("invalid requirement %q", req)
	}

	spec := Spec{Markers: strings.TrimSpace(markers)}
	for _, extra := range strings.Split(m[2], ",") {
		if extra = strings.TrimSpace(extra); extra != "" {
			spec.Extras = append(spec.Extras, extra)
		}
	}

	rest := m[3]
	switch {
	case strings.HasPrefix(rest, "@"):
		ref := strings.TrimSpace(rest[1:])
		switch {
		case ref == "":
			return "", Spec{}, fmt.Errorf("invalid requirement %q: empty direct reference", req)
		case strings.HasPrefix(ref, "git+"):
			spec.Git, spec.Rev = splitGitRef(strings.TrimPrefix(ref, "git+"))
		case strings.HasPrefix(ref, "file://"):
			spec.Path = strings.TrimPrefix(ref, "file://")
		default:
			spec.URL = ref
		}
	default:
		version := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")"))
		if version == "" {
			version = "*"
		}
		spec.Version = version
	}
	return m[1], spec, nil
}

// splitGitRef separates a trailing @ref from a git URL. An @ inside the
// authority (git@host) is not a ref.
func splitGitRef(u string) (repo, ref string) {
	slash := strings.LastIndex(u, "/")
	at := strings.LastIndex(u, "@")
	if at > slash && slash >= 0 {
		return u[:at], u[at+1:]
	}
	return u, ""
}
