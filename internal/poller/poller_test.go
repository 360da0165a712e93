package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/patiwat/firewatch-go/internal/alert"
	"github.com/patiwat/firewatch-go/internal/geofence"
	"github.com/patiwat/firewatch-go/internal/hotspot"
	"github.com/patiwat/firewatch-go/internal/novelty"
	"github.com/patiwat/firewatch-go/internal/passfilter"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	bangkok = time.FixedZone("UTC+7", 7*60*60)
	// Inside the afternoon pass window, local 14:00.
	insideWindow = time.Date(2024, 3, 15, 14, 0, 0, 0, bangkok)
	// Between passes, local 11:00.
	outsideWindow = time.Date(2024, 3, 15, 11, 0, 0, 0, bangkok)
)

type stubSource struct {
	mu      sync.Mutex
	records []hotspot.RawRecord
}

func (s *stubSource) Name() string { return "firms:VIIRS_SNPP_NRT" }

func (s *stubSource) Fetch(_ context.Context) ([]hotspot.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]hotspot.RawRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *stubSource) set(records []hotspot.RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

type fakeProvider struct {
	mu      sync.Mutex
	name    string
	enabled bool
	err     error
	panics  bool
	sent    [][]string
}

func (p *fakeProvider) GetName() string       { return p.name }
func (p *fakeProvider) IsEnabled() bool       { return p.enabled }
func (p *fakeProvider) ValidateConfig() error { return nil }

func (p *fakeProvider) Send(_ context.Context, messages []string) error {
	if p.panics {
		panic("provider exploded")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, messages)
	return nil
}

func (p *fakeProvider) deliveries() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]string, len(p.sent))
	copy(out, p.sent)
	return out
}

// gatedSource parks every Fetch until release is closed, announcing each
// entry on entered. Lets a test hold one poll mid-flight while another is
// started.
type gatedSource struct {
	records []hotspot.RawRecord
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSource) Name() string { return "firms:VIIRS_SNPP_NRT" }

func (g *gatedSource) Fetch(_ context.Context) ([]hotspot.RawRecord, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.records, nil
}

func record(lat, lon float64, acqTime string) hotspot.RawRecord {
	return hotspot.RawRecord{
		Latitude: lat, Longitude: lon,
		BrightTI4: 340.0,
		AcqDate:   "2024-03-15", AcqTime: acqTime,
	}
}

type harness struct {
	poller   *Poller
	source   *stubSource
	provider *fakeProvider
	tracker  *novelty.Tracker
	now      time.Time
}

func newHarness(t *testing.T, mutate func(*Config)) *harness {
	t.Helper()

	h := &harness{
		source:   &stubSource{},
		provider: &fakeProvider{name: "fake", enabled: true},
		tracker:  novelty.NewTracker(nil),
		now:      insideWindow,
	}
	classifier := passfilter.New(bangkok,
		passfilter.Window{Name: passfilter.WindowNight, Start: 1, End: 3},
		passfilter.Window{Name: passfilter.WindowAfternoon, Start: 13, End: 16},
	)
	cfg := Config{
		Service:            hotspot.NewService([]hotspot.Source{h.source}, geofence.DefaultRegistry(), classifier, nil),
		Tracker:            h.tracker,
		Classifier:         classifier,
		Composer:           alert.NewComposer("กาญจนบุรี", []string{"เมืองกาญจนบุรี", "ไทรโยค", "ศรีสวัสดิ์"}, bangkok, 0),
		Providers:          []alert.Provider{h.provider},
		Interval:           time.Minute,
		EnforcePassWindows: true,
		Now:                func() time.Time { return h.now },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	h.poller = New(cfg)
	return h
}

func TestPollColdStartAdoptsWithoutAlerting(t *testing.T) {
	h := newHarness(t, nil)
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	res, err := h.poller.Poll(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Detections)
	assert.Equal(t, 1, res.Novel)
	assert.False(t, res.Delivered)
	assert.True(t, res.Committed)
	assert.True(t, h.tracker.Primed())
	assert.Empty(t, h.provider.deliveries())
}

func TestPollAlertsOnNovelAfterWarm(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})
	_, err := h.poller.Poll(ctx, Options{})
	require.NoError(t, err)

	// Same set again: nothing novel, nothing sent.
	res, err := h.poller.Poll(ctx, Options{})
	require.NoError(t, err)
	assert.Zero(t, res.Novel)
	assert.False(t, res.Delivered)

	// One new detection appears.
	h.source.set([]hotspot.RawRecord{
		record(14.30, 99.00, "0630"),
		record(14.35, 99.05, "0630"),
	})
	res, err = h.poller.Poll(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Detections)
	assert.Equal(t, 1, res.Novel)
	assert.True(t, res.Delivered)

	deliveries := h.provider.deliveries()
	require.Len(t, deliveries, 1)
	assert.Contains(t, deliveries[0][0], "จำนวนจุดใหม่: 1 จุด")
}

func TestPollForceNotifyDeliversEverything(t *testing.T) {
	h := newHarness(t, nil)
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	res, err := h.poller.Poll(context.Background(), Options{ForceNotify: true})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Novel)
	assert.True(t, res.Delivered)
	require.Len(t, h.provider.deliveries(), 1)
}

func TestPollColdStartNotifyOption(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.ColdStartNotify = true })
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	res, err := h.poller.Poll(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, res.Delivered)
}

func TestPollSkippedOutsidePassWindow(t *testing.T) {
	h := newHarness(t, nil)
	h.now = outsideWindow
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	res, err := h.poller.Poll(context.Background(), Options{})
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assert.False(t, h.tracker.Primed())
	assert.Empty(t, h.provider.deliveries())

	// Force overrides the gate.
	res, err = h.poller.Poll(context.Background(), Options{ForceNotify: true})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
}

func TestPollNotifyOnEmpty(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.NotifyOnEmpty = true })

	res, err := h.poller.Poll(context.Background(), Options{})
	require.NoError(t, err)

	assert.True(t, res.Delivered)
	deliveries := h.provider.deliveries()
	require.Len(t, deliveries, 1)
	assert.Contains(t, deliveries[0][0], "ไม่พบจุดความร้อนใหม่ในพื้นที่")
}

func TestPollTestModeRunsPipelineWithoutCommit(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.ColdStartNotify = true })
	ctx := context.Background()
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	res, err := h.poller.Poll(ctx, Options{TestMode: true})
	require.NoError(t, err)

	// The real pipeline ran and the real alert went out, but the baseline
	// did not move.
	assert.Equal(t, 1, res.Detections)
	assert.Equal(t, 1, res.Novel)
	assert.True(t, res.Delivered)
	assert.False(t, res.Committed)
	assert.False(t, h.tracker.Primed())
	assert.Zero(t, h.tracker.KnownCount())

	deliveries := h.provider.deliveries()
	require.Len(t, deliveries, 1)
	assert.Contains(t, deliveries[0][0], "จำนวนจุดใหม่: 1 จุด")

	// The next real poll still sees the same detection as novel.
	res, err = h.poller.Poll(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Novel)
	assert.True(t, res.Committed)
}

func TestPollTestModeIgnoresPassWindowGate(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.ColdStartNotify = true })
	h.now = outsideWindow
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	res, err := h.poller.Poll(context.Background(), Options{TestMode: true})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 1, res.Detections)
}

func TestVerifySendsChannelMessageOnly(t *testing.T) {
	h := newHarness(t, nil)
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	res, err := h.poller.Verify(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Delivered)
	assert.False(t, res.Committed)
	assert.False(t, h.tracker.Primed())
	assert.Nil(t, h.poller.Snapshot())

	deliveries := h.provider.deliveries()
	require.Len(t, deliveries, 1)
	assert.Contains(t, deliveries[0][0], "ทดสอบระบบแจ้งเตือน")
}

func TestConcurrentPollsSerialize(t *testing.T) {
	gate := &gatedSource{
		records: []hotspot.RawRecord{record(14.30, 99.00, "0630")},
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	h := newHarness(t, func(cfg *Config) {
		cfg.Service = hotspot.NewService([]hotspot.Source{gate}, geofence.DefaultRegistry(), cfg.Classifier, nil)
	})
	ctx := context.Background()

	// Warm baseline so delivery is not suppressed by cold start.
	require.NoError(t, h.tracker.Commit(ctx, nil))

	var wg sync.WaitGroup
	results := make([]Result, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = h.poller.Poll(ctx, Options{})
		}()
	}

	// One poll is inside its fetch, the other must be waiting its turn.
	<-gate.entered
	close(gate.release)
	wg.Wait()

	// Serialized polls alert exactly once: the second diffs against the
	// baseline the first committed.
	require.Len(t, h.provider.deliveries(), 1)
	assert.Equal(t, 1, results[0].Novel+results[1].Novel)
	assert.Equal(t, 1, h.tracker.KnownCount())
}

func TestPollRecoversFromPanic(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.ColdStartNotify = true })
	h.provider.panics = true
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	res, err := h.poller.Poll(context.Background(), Options{})
	require.Error(t, err)
	assert.NotEmpty(t, res.Error)
}

func TestPollDeliveryFailureStillCommits(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.ColdStartNotify = true })
	h.provider.err = assert.AnError
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	res, err := h.poller.Poll(context.Background(), Options{})
	require.NoError(t, err)

	assert.False(t, res.Delivered)
	assert.True(t, res.Committed)
	assert.True(t, h.tracker.Primed())
}

func TestSnapshotAndLastResult(t *testing.T) {
	h := newHarness(t, nil)
	h.source.set([]hotspot.RawRecord{record(14.30, 99.00, "0630")})

	_, ok := h.poller.LastResult()
	assert.False(t, ok)
	assert.Nil(t, h.poller.Snapshot())

	_, err := h.poller.Poll(context.Background(), Options{})
	require.NoError(t, err)

	snapshot := h.poller.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "14.3000_99.0000_202403150630", snapshot[0].ID)

	res, ok := h.poller.LastResult()
	require.True(t, ok)
	assert.Equal(t, 1, res.Detections)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.Interval = 10 * time.Millisecond })
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.poller.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRunRejectsNonPositiveInterval(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.Interval = 0 })
	assert.Error(t, h.poller.Run(context.Background()))
}
