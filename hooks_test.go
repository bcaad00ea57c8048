package uniq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	logger "github.com/xraph/go-utils/log"
	"github.com/xraph/go-utils/metrics"
	"go.uber.org/zap/zapcore"
)

// logsWithMessage returns the entries a TestLogger recorded for msg.
func logsWithMessage(log *logger.TestLogger, msg string) []logger.LogEntry {
	var entries []logger.LogEntry
	for _, e := range log.GetLogs() {
		if e.Message == msg {
			entries = append(entries, e)
		}
	}
	return entries
}

// fieldsOf decodes the structured fields of a recorded entry.
func fieldsOf(e logger.LogEntry) map[string]any {
	enc := zapcore.NewMapObjectEncoder()
	for _, v := range e.Fields {
		if f, ok := v.(logger.Field); ok {
			f.ZapField().AddTo(enc)
		}
	}
	return enc.Fields
}

// fakeCounter keeps one value per service label.
type fakeCounter struct {
	values  map[string]float64
	service string
}

func (f *fakeCounter) Inc()              { f.values[f.service]++ }
func (f *fakeCounter) Add(delta float64) { f.values[f.service] += delta }
func (f *fakeCounter) Value() float64    { return f.values[f.service] }
func (f *fakeCounter) Reset() error      { clear(f.values); return nil }

func (f *fakeCounter) WithLabels(labels map[string]string) metrics.Counter {
	return &fakeCounter{values: f.values, service: labels["service"]}
}

// fakeMetrics hands out counters by name. Other metric types are unused.
type fakeMetrics struct {
	counters map[string]*fakeCounter
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counters: make(map[string]*fakeCounter)}
}

func (f *fakeMetrics) Counter(name string, _ ...metrics.MetricOption) metrics.Counter {
	c, ok := f.counters[name]
	if !ok {
		c = &fakeCounter{values: make(map[string]float64)}
		f.counters[name] = c
	}
	return c
}

func (f *fakeMetrics) Gauge(string, ...metrics.MetricOption) metrics.Gauge         { return nil }
func (f *fakeMetrics) Histogram(string, ...metrics.MetricOption) metrics.Histogram { return nil }
func (f *fakeMetrics) Timer(string, ...metrics.MetricOption) metrics.Timer         { return nil }

func (f *fakeMetrics) value(name string, key Key) float64 {
	c, ok := f.counters[name]
	if !ok {
		return 0
	}
	return c.values[string(key)]
}

func TestHook_OnReplace(t *testing.T) {
	var calls []string
	var removedCounts []int

	hook := &FuncHook{
		OnReplaceFunc: func(key Key, removed int, d Descriptor) {
			calls = append(calls, "replace:"+string(key))
			removedCounts = append(removedCounts, removed)
		},
	}

	c := New(WithHook(hook))
	c.Append(Describe(serviceOne, serviceOneImplA, Scoped))
	c.Append(Describe(serviceOne, serviceOneImplA, Scoped))

	require.NoError(t, c.AddUnique(serviceOne, serviceOneImplB, Singleton))
	require.NoError(t, c.AddUnique(serviceTwo, serviceTwoImpl, Scoped))

	assert.Equal(t, []string{"replace:IServiceOne", "replace:IServiceTwo"}, calls)
	assert.Equal(t, []int{2, 0}, removedCounts)
}

func TestHook_NotCalledOnInvalidUpsert(t *testing.T) {
	called := false
	c := New(WithHook(&FuncHook{
		OnReplaceFunc: func(Key, int, Descriptor) { called = true },
	}))

	err := c.AddUniqueFactory(serviceOne, nil, Singleton)

	assert.Error(t, err)
	assert.False(t, called)
}

func TestHook_OnReconcile(t *testing.T) {
	var groups []DuplicateGroup
	c := New(WithHook(&FuncHook{
		OnReconcileFunc: func(g DuplicateGroup) { groups = append(groups, g) },
	}))
	c.Append(Describe(serviceOne, serviceOneImplA, Scoped))
	c.Append(Describe(serviceOne, serviceOneImplB, Singleton))
	c.Append(Describe(serviceTwo, serviceTwoImpl, Scoped))

	c.Reconcile(nil)
	c.Reconcile(nil)

	require.Len(t, groups, 1)
	assert.Equal(t, serviceOne, groups[0].Key)
	assert.Equal(t, 2, groups[0].Count)
}

func TestHook_PackageFunctionsDoNotNotify(t *testing.T) {
	called := false
	c := New(WithHook(&FuncHook{
		OnReplaceFunc: func(Key, int, Descriptor) { called = true },
	}))

	require.NoError(t, Upsert(c, Describe(serviceOne, serviceOneImplA, Scoped)))
	assert.False(t, called)
}

func TestHook_MultipleInOrder(t *testing.T) {
	var calls []string
	c := New(
		WithHook(&FuncHook{OnReplaceFunc: func(Key, int, Descriptor) { calls = append(calls, "first") }}),
		WithHook(&FuncHook{OnReplaceFunc: func(Key, int, Descriptor) { calls = append(calls, "second") }}),
		WithHook(nil),
	)

	require.NoError(t, c.AddUniqueSelf(serviceTwoImpl, Scoped))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestFuncHook_NilFuncs(t *testing.T) {
	hook := &FuncHook{}

	assert.NotPanics(t, func() {
		hook.OnReplace(serviceOne, 1, Describe(serviceOne, serviceOneImplA, Scoped))
		hook.OnReconcile(DuplicateGroup{Key: serviceOne, Count: 2})
	})
}

func TestLogger_ReplaceAndReconcile(t *testing.T) {
	log := logger.NewTestLogger().(*logger.TestLogger)
	c := New(WithLogger(log))

	c.Append(Describe(serviceOne, serviceOneImplA, Scoped))
	require.NoError(t, c.AddUnique(serviceOne, serviceOneImplB, Scoped))

	replaced := logsWithMessage(log, "replaced service registration")
	require.Len(t, replaced, 1)
	assert.Equal(t, "DEBUG", replaced[0].Level)
	assert.Equal(t, string(serviceOne), fieldsOf(replaced[0])["service"])
	assert.EqualValues(t, 1, fieldsOf(replaced[0])["removed"])

	c.Append(Describe(serviceTwo, serviceTwoImpl, Scoped))
	c.Append(Describe(serviceTwo, serviceTwoImpl, Transient))
	c.Reconcile(nil)

	collapsed := logsWithMessage(log, "collapsed duplicate service registrations")
	require.Len(t, collapsed, 1)
	assert.Equal(t, "WARN", collapsed[0].Level)
	assert.Equal(t, string(serviceTwo), fieldsOf(collapsed[0])["service"])
	assert.Equal(t, "IServiceTwo -> ServiceTwoImpl (scoped)", fieldsOf(collapsed[0])["kept"])
}

func TestLogger_FirstRegistrationIsQuiet(t *testing.T) {
	log := logger.NewTestLogger().(*logger.TestLogger)
	c := New(WithLogger(log), WithLogger(nil))

	require.NoError(t, c.AddUnique(serviceOne, serviceOneImplA, Scoped))
	assert.Empty(t, log.GetLogs())
}

func TestMetricsHook_CountsReplacementsAndCollapses(t *testing.T) {
	m := newFakeMetrics()
	c := New(WithHook(NewMetricsHook(m)))

	require.NoError(t, c.AddUnique(serviceOne, serviceOneImplA, Scoped))
	c.Append(Describe(serviceOne, serviceOneImplA, Scoped))
	require.NoError(t, c.AddUnique(serviceOne, serviceOneImplB, Singleton))

	assert.Equal(t, 1.0, m.value(MetricReplacements, serviceOne))
	assert.Equal(t, 2.0, m.value(MetricDroppedDuplicates, serviceOne))

	c.Append(Describe(serviceTwo, serviceTwoImpl, Scoped))
	c.Append(Describe(serviceTwo, serviceTwoImpl, Scoped))
	c.Append(Describe(serviceTwo, serviceTwoImpl, Transient))
	c.Reconcile(nil)
	c.Reconcile(nil)

	assert.Equal(t, 1.0, m.value(MetricCollapsedGroups, serviceTwo))
	assert.Equal(t, 2.0, m.value(MetricDroppedDuplicates, serviceTwo))
	assert.Zero(t, m.value(MetricReplacements, serviceTwo))
	assert.Zero(t, m.value(MetricCollapsedGroups, serviceOne))
}

func TestMetricsHook_NilFactory(t *testing.T) {
	hook := NewMetricsHook(nil)
	assert.Nil(t, hook)

	c := New(WithHook(hook))
	c.Append(Describe(serviceOne, serviceOneImplA, Scoped))

	assert.NotPanics(t, func() {
		require.NoError(t, c.AddUnique(serviceOne, serviceOneImplB, Scoped))
		hook.OnReconcile(DuplicateGroup{Key: serviceOne, Count: 2})
	})
}
