package cache

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// CompositionKey identifies a planned, depth-processed layout.
	CompositionKey(opts CompositionKeyOpts) string
	// FillKey identifies the fill result for a composition.
	FillKey(compositionHash string, opts FillKeyOpts) string
	// ArtifactKey identifies one rendered format of a composition.
	ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string
}

// CompositionKeyOpts are the inputs that determine a composition.
type CompositionKeyOpts struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	ImageCount      int     `json:"image_count"`
	Variation       string  `json:"variation"`
	Complexity      float64 `json:"complexity"`
	MaxFragments    int     `json:"max_fragments"`
	AllowRepetition bool    `json:"allow_repetition"`
	Masks           bool    `json:"masks"`
	Seed            uint64  `json:"seed"`
}

// FillKeyOpts are the inputs that determine a fill result.
type FillKeyOpts struct {
	TargetBlankRatio float64 `json:"target_blank_ratio"`
	MaxIterations    int     `json:"max_iterations"`
	MinBlankAreaSize float64 `json:"min_blank_area_size"`
	Seed             uint64  `json:"seed"`
}

// ArtifactKeyOpts are the inputs that determine a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string   `json:"format"`
	Background string   `json:"background,omitempty"`
	Images     []string `json:"images,omitempty"`
	Outline    bool     `json:"outline,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
}

// DefaultKeyer hashes the options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// CompositionKey returns "composition:<sha256>".
func (DefaultKeyer) CompositionKey(opts CompositionKeyOpts) string {
	return hashKey("composition", opts)
}

// FillKey returns "fill:<sha256>".
func (DefaultKeyer) FillKey(compositionHash string, opts FillKeyOpts) string {
	return hashKey("fill", compositionHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", compositionHash, opts)
}

var _ Keyer = DefaultKeyer{}
