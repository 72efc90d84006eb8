package cache

// Keyer generates cache keys. Swapping the keyer lets a deployment
// namespace its entries without touching the pipeline.
type Keyer interface {
	// RenderKey generates a key for a rendered artifact of the graph whose
	// DOT source hashes to graphHash.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts holds the render options that change the artifact bytes.
type RenderKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer produces keys of the form "render:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey generates a key for a rendered artifact.
func (k *DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
