package extract

import "github.com/sahaayak/airecover/providers/observability"

// Option is a functional option for configuring an Extractor.
type Option func(*config)

type config struct {
	requiredKey string
	shapes      []Shape
	repairers   []Repairer
	mapper      ItemMapper
	convertHTML bool
	observer    observability.Provider
}

// WithRequiredKey sets the list field the payload must contain.
// Defaults to [DefaultRequiredKey].
func WithRequiredKey(key string) Option {
	return func(c *config) {
		c.requiredKey = key
	}
}

// WithShapes replaces the envelope shapes tried by the resolver.
// Defaults to [QuizShapes].
func WithShapes(shapes ...Shape) Option {
	return func(c *config) {
		c.shapes = append([]Shape(nil), shapes...)
	}
}

// WithRepairers enables repair strategies after the strict and slice decode
// attempts. None are enabled by default.
func WithRepairers(repairers ...Repairer) Option {
	return func(c *config) {
		c.repairers = append([]Repairer(nil), repairers...)
	}
}

// WithItemMapper replaces [QuestionItem] as the per-item mapper.
func WithItemMapper(mapper ItemMapper) Option {
	return func(c *config) {
		c.mapper = mapper
	}
}

// WithHTMLConversion converts HTML text candidates to markdown before the
// fence patterns run.
func WithHTMLConversion(enabled bool) Option {
	return func(c *config) {
		c.convertHTML = enabled
	}
}

// WithObserver sets the observability provider. Without one the extractor
// falls back to the observer carried by the context, if any.
func WithObserver(observer observability.Provider) Option {
	return func(c *config) {
		c.observer = observer
	}
}

func defaultConfig() *config {
	return &config{
		requiredKey: DefaultRequiredKey,
		shapes:      QuizShapes(),
		mapper:      QuestionItem,
	}
}

func applyOptions(opts ...Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.requiredKey == "" {
		cfg.requiredKey = DefaultRequiredKey
	}
	if cfg.mapper == nil {
		cfg.mapper = QuestionItem
	}
	return cfg
}
