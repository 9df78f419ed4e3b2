package fidata

// Coverage compares the versions covered by feature matrices with the
// versions covered by release notes.
type Coverage struct {
	FeatureVersions []string `json:"feature_versions"`
	IssueVersions   []string `json:"issue_versions"`
	Both            []string `json:"both"`
	FeatureOnly     []string `json:"feature_only"`
	IssueOnly       []string `json:"issue_only"`
}

// Complete reports whether every feature matrix version has release notes.
func (c *Coverage) Complete() bool {
	return len(c.FeatureOnly) == 0
}

// ComputeCoverage compares two version lists. When base is true versions
// are reduced to their X.Y.ZZ part first, so 8.0.90 matches 8.0.90mc.
func ComputeCoverage(featureVersions, issueVersions []string, base bool) *Coverage {
	norm := func(vs []string) []string {
		if !base {
			return UniqueVersions(vs)
		}
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			if pv, err := ParseVersion(v); err == nil {
				out = append(out, pv.Base())
			} else {
				out = append(out, v)
			}
		}
		return UniqueVersions(out)
	}

	c := &Coverage{
		FeatureVersions: norm(featureVersions),
		IssueVersions:   norm(issueVersions),
	}

	issues := make(map[string]struct{}, len(c.IssueVersions))
	for _, v := range c.IssueVersions {
		issues[v] = struct{}{}
	}
	features := make(map[string]struct{}, len(c.FeatureVersions))
	for _, v := range c.FeatureVersions {
		features[v] = struct{}{}
		if _, ok := issues[v]; ok {
			c.Both = append(c.Both, v)
		} else {
			c.FeatureOnly = append(c.FeatureOnly, v)
		}
	}
	for _, v := range c.IssueVersions {
		if _, ok := features[v]; !ok {
			c.IssueOnly = append(c.IssueOnly, v)
		}
	}
	return c
}
