package pipeline

// SuperscalarConfig sets how many instructions may issue in one cycle.
type SuperscalarConfig struct {
	// IssueWidth is the per-cycle issue limit. Values below 1 are treated
	// as 1.
	IssueWidth int
}

// DefaultSuperscalarConfig returns a single-issue configuration.
func DefaultSuperscalarConfig() SuperscalarConfig {
	return SuperscalarConfig{IssueWidth: 1}
}

// DualIssueConfig returns a configuration issuing two instructions per cycle.
func DualIssueConfig() SuperscalarConfig {
	return SuperscalarConfig{IssueWidth: 2}
}

// WithSuperscalar sets the issue width.
func WithSuperscalar(config SuperscalarConfig) PipelineOption {
	return func(p *Pipeline) {
		p.superscalarConfig = config
	}
}

// WithDualIssue is WithSuperscalar(DualIssueConfig()).
func WithDualIssue() PipelineOption {
	return WithSuperscalar(DualIssueConfig())
}
