package uniq

import (
	"slices"

	"github.com/xraph/go-utils/di"
	logger "github.com/xraph/go-utils/log"
)

const (
	// MetadataKind is the registration metadata key holding the descriptor kind.
	MetadataKind = "uniq.kind"

	// MetadataImplementation is the registration metadata key holding the
	// implementation key of implementation descriptors.
	MetadataImplementation = "uniq.implementation"
)

// ApplyOption configures Apply.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	implementations map[Key]Factory
	reconcile       bool
	filter          KeyFilter
	strict          bool
	logger          logger.Logger
}

// WithImplementation binds an implementation key to the factory that builds it.
// Implementation descriptors naming impl are registered with this factory.
func WithImplementation(impl Key, factory Factory) ApplyOption {
	return func(c *applyConfig) {
		c.implementations[impl] = factory
	}
}

// WithImplementations binds several implementation keys at once.
func WithImplementations(factories map[Key]Factory) ApplyOption {
	return func(c *applyConfig) {
		for impl, factory := range factories {
			c.implementations[impl] = factory
		}
	}
}

// WithReconcile runs Reconcile with filter on the table before applying it.
func WithReconcile(filter KeyFilter) ApplyOption {
	return func(c *applyConfig) {
		c.reconcile = true
		c.filter = filter
	}
}

// WithStrict makes Apply fail with DUPLICATE_SERVICE, before registering
// anything, if the table still holds duplicate keys.
func WithStrict() ApplyOption {
	return func(c *applyConfig) {
		c.strict = true
	}
}

// WithApplyLogger sets the logger used while applying.
func WithApplyLogger(l logger.Logger) ApplyOption {
	return withApplyLogger(l)
}

func withApplyLogger(l logger.Logger) ApplyOption {
	return func(c *applyConfig) {
		if !isNil(l) {
			c.logger = l
		}
	}
}

func withoutReconcile() ApplyOption {
	return func(c *applyConfig) {
		c.reconcile = false
	}
}

func newApplyConfig(opts []ApplyOption) *applyConfig {
	cfg := &applyConfig{
		implementations: make(map[Key]Factory),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// registration is a descriptor translated for the target container.
type registration struct {
	key     Key
	factory Factory
	options []RegisterOption
}

// Apply registers every entry of t with r, in table order.
//
// Lifetimes map to the container's singleton, scoped and transient options
// and the descriptor kind is attached as metadata. Instance descriptors are
// registered with a factory returning the instance. Implementation
// descriptors use the factory bound with WithImplementation; without one, an
// implementation key that differs from the service key is resolved from the
// container at construction time.
//
// Every entry is validated and bound before the first Register call, so
// malformed or unbound entries leave r untouched. A Register failure stops
// the hand-off and is returned as APPLY_FAILED.
//
// Apply does not resolve duplicates on its own: most containers reject a
// second registration of a name. Use WithReconcile, or WithStrict to get
// every offending key in one error.
func Apply(r Registrar, t Table, opts ...ApplyOption) error {
	if isNil(r) {
		return ErrNilRegistrar
	}
	if err := checkTable(t); err != nil {
		return err
	}

	cfg := newApplyConfig(opts)
	log := cfg.logger
	if log == nil {
		log = logger.NewNoopLogger()
	}

	if cfg.reconcile {
		for _, g := range Reconcile(t, cfg.filter) {
			log.Warn("collapsed duplicate service registrations",
				logger.String("service", string(g.Key)),
				logger.Int("count", g.Count),
			)
		}
	}

	if cfg.strict {
		if duplicates := FindDuplicates(t, nil); len(duplicates) > 0 {
			return ErrDuplicateService(duplicates)
		}
	}

	entries := slices.Collect(t.Scan())
	regs := make([]registration, 0, len(entries))
	for _, d := range entries {
		reg, err := cfg.bind(d)
		if err != nil {
			return err
		}
		regs = append(regs, reg)
	}

	for _, reg := range regs {
		if err := r.Register(string(reg.key), reg.factory, reg.options...); err != nil {
			return NewApplyError(reg.key, err)
		}
		log.Debug("applied service registration", logger.String("service", string(reg.key)))
	}

	log.Info("applied service registrations", logger.Int("services", len(regs)))

	return nil
}

// bind translates d into a container registration.
func (c *applyConfig) bind(d Descriptor) (registration, error) {
	if err := d.Validate(); err != nil {
		return registration{}, err
	}

	reg := registration{
		key: d.Key,
		options: []RegisterOption{
			d.Lifetime.option(),
			di.WithDIMetadata(MetadataKind, d.Kind.String()),
		},
	}

	switch d.Kind {
	case KindFactory:
		reg.factory = d.Factory

	case KindInstance:
		instance := d.Instance
		reg.factory = func(Container) (any, error) {
			return instance, nil
		}

	case KindImplementation:
		reg.options = append(reg.options, di.WithDIMetadata(MetadataImplementation, string(d.Implementation)))

		if factory, ok := c.implementations[d.Implementation]; ok && factory != nil {
			reg.factory = factory
			break
		}

		if d.Implementation == d.Key {
			return registration{}, ErrImplementationNotFound(d.Key, d.Implementation)
		}

		impl := string(d.Implementation)
		reg.factory = func(container Container) (any, error) {
			return container.Resolve(impl)
		}
		reg.options = append(reg.options, di.WithDependencies(impl))
	}

	return reg, nil
}
