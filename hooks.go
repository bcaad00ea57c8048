package uniq

import "github.com/xraph/go-utils/metrics"

// Hook observes how a Collection keeps its keys unique.
// Hooks can be used for logging, metrics or tests.
type Hook interface {
	// OnReplace is called after an upsert. removed is the number of entries
	// that were dropped for the key, zero for a first registration.
	OnReplace(key Key, removed int, d Descriptor)

	// OnReconcile is called once for every duplicate group a sweep collapsed.
	OnReconcile(group DuplicateGroup)
}

// hookChain manages multiple hooks.
type hookChain struct {
	hooks []Hook
}

// newHookChain creates a new hook chain.
func newHookChain() *hookChain {
	return &hookChain{
		hooks: make([]Hook, 0),
	}
}

// add appends a hook to the chain.
func (h *hookChain) add(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// onReplace calls OnReplace on all hooks.
func (h *hookChain) onReplace(key Key, removed int, d Descriptor) {
	if h == nil {
		return
	}
	for _, hook := range h.hooks {
		hook.OnReplace(key, removed, d)
	}
}

// onReconcile calls OnReconcile on all hooks.
func (h *hookChain) onReconcile(group DuplicateGroup) {
	if h == nil {
		return
	}
	for _, hook := range h.hooks {
		hook.OnReconcile(group)
	}
}

// FuncHook wraps functions as a Hook.
type FuncHook struct {
	OnReplaceFunc   func(key Key, removed int, d Descriptor)
	OnReconcileFunc func(group DuplicateGroup)
}

// OnReplace implements Hook.
func (f *FuncHook) OnReplace(key Key, removed int, d Descriptor) {
	if f.OnReplaceFunc != nil {
		f.OnReplaceFunc(key, removed, d)
	}
}

// OnReconcile implements Hook.
func (f *FuncHook) OnReconcile(group DuplicateGroup) {
	if f.OnReconcileFunc != nil {
		f.OnReconcileFunc(group)
	}
}

// Counter names registered by NewMetricsHook.
const (
	MetricReplacements      = "uniq_replacements_total"
	MetricCollapsedGroups   = "uniq_collapsed_groups_total"
	MetricDroppedDuplicates = "uniq_dropped_duplicates_total"
)

// MetricsHook counts replacements and collapsed duplicates. Every counter
// is labelled with the service key.
type MetricsHook struct {
	replacements metrics.Counter
	groups       metrics.Counter
	dropped      metrics.Counter
}

// NewMetricsHook creates a MetricsHook whose counters come from factory.
// It returns nil if factory is nil; WithHook ignores a nil hook.
func NewMetricsHook(factory metrics.MetricFactory) *MetricsHook {
	if isNil(factory) {
		return nil
	}

	return &MetricsHook{
		replacements: factory.Counter(MetricReplacements),
		groups:       factory.Counter(MetricCollapsedGroups),
		dropped:      factory.Counter(MetricDroppedDuplicates),
	}
}

// OnReplace implements Hook. First registrations are not counted.
func (m *MetricsHook) OnReplace(key Key, removed int, _ Descriptor) {
	if m == nil || removed == 0 {
		return
	}

	labels := serviceLabels(key)
	m.replacements.WithLabels(labels).Inc()
	m.dropped.WithLabels(labels).Add(float64(removed))
}

// OnReconcile implements Hook.
func (m *MetricsHook) OnReconcile(group DuplicateGroup) {
	if m == nil {
		return
	}

	labels := serviceLabels(group.Key)
	m.groups.WithLabels(labels).Inc()
	m.dropped.WithLabels(labels).Add(float64(group.Count - 1))
}

func serviceLabels(key Key) map[string]string {
	return map[string]string{"service": string(key)}
}
