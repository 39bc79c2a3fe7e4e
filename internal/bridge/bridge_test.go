// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/lyrisync/internal/destination"
	"github.com/tomtom215/lyrisync/internal/source"
)

func TestNewBundleRequiresMapping(t *testing.T) {
	t.Parallel()

	_, err := NewBundle("main", &fakeSource{}, &fakeDestination{}, nil)
	if !errors.Is(err, ErrNoMappings) {
		t.Errorf("NewBundle without mappings = %v, want ErrNoMappings", err)
	}
}

func TestNewRequiresBundles(t *testing.T) {
	t.Parallel()

	if _, err := New(DefaultSettings(), nil); !errors.Is(err, ErrNoBundles) {
		t.Errorf("New without bundles = %v, want ErrNoBundles", err)
	}
}

func TestSetTextHasNoNetworkEffect(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, DefaultSettings(), 2, WithClock(func() time.Time { return now }))
	f.run(t)

	f.dispatch(t, SetText("  amazing grace "))

	got := f.bridge.Lyrics()
	if got.Text != "AMAZING GRACE" || !got.LastUpdated.Equal(now) || got.IsBlank {
		t.Errorf("Lyrics() = %+v", got)
	}
	for i, d := range f.dests {
		if n := len(d.snapshot()); n != 0 {
			t.Errorf("destination %d received %d calls for SetText", i, n)
		}
	}
}

func TestShowFansOutToEveryBundle(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	s.MaxCharsPerLine = 13
	f := newFixture(t, s, 2)
	f.run(t)

	f.dispatch(t, SetText("amazing grace how sweet the sound"), Show())

	want := "AMAZING GRACE\nHOW SWEET THE SOUND"
	total := 0
	for i, d := range f.dests {
		texts := d.ofKind("text")
		total += len(texts)
		if len(texts) != 1 || texts[0].Text != want || texts[0].Input != "SongTitle" || texts[0].Field != "Message.Text" {
			t.Errorf("destination %d text calls = %+v", i, texts)
		}
	}
	if total != 2 {
		t.Errorf("SetText calls = %d, want 2", total)
	}

	overlays := f.dests[0].ofKind("overlay")
	if len(overlays) != 1 || overlays[0].Action != destination.OverlayShow || overlays[0].Channel != 1 {
		t.Errorf("first destination overlay calls = %+v", overlays)
	}
	if n := len(f.dests[1].ofKind("overlay")); n != 0 {
		t.Errorf("second destination received %d overlay calls, want 0", n)
	}
}

func TestShowWithSeveralMappings(t *testing.T) {
	t.Parallel()

	dst := &fakeDestination{}
	bu, err := NewBundle("multi", &fakeSource{}, dst, []Mapping{
		{Input: "SongTitle", Field: "Message.Text"},
		{Input: "LowerThird", Field: "Line1.Text"},
		{Input: "Stream", Field: "Title.Text"},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(DefaultSettings(), []*Bundle{bu})
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{bridge: b, dests: []*fakeDestination{dst}}
	f.run(t)

	f.dispatch(t, SetText("holy"), Show())

	texts := dst.ofKind("text")
	if len(texts) != 3 {
		t.Fatalf("text calls = %d, want one per mapping", len(texts))
	}
	seen := map[string]bool{}
	for _, c := range texts {
		if c.Text != "HOLY" {
			t.Errorf("call %+v carried wrong text", c)
		}
		seen[c.Input+"/"+c.Field] = true
	}
	for _, m := range bu.Mappings() {
		if !seen[m.Input+"/"+m.Field] {
			t.Errorf("mapping %+v not addressed", m)
		}
	}
}

func TestFanOutIsolatesFailures(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 3, WithWaveTimeout(200*time.Millisecond))
	f.dests[0].fail = true
	f.dests[1].hang = true
	f.run(t)

	f.dispatch(t, SetText("be thou my vision"), Show())

	texts := f.dests[2].ofKind("text")
	if len(texts) != 1 || texts[0].Text != "BE THOU MY VISION" {
		t.Errorf("healthy destination calls = %+v", texts)
	}
	for i := 0; i < 2; i++ {
		if n := len(f.dests[i].ofKind("text")); n != 1 {
			t.Errorf("failing destination %d got %d attempts, want 1", i, n)
		}
	}
}

func TestWaveTimeoutBoundsDispatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 1, WithWaveTimeout(50*time.Millisecond))
	f.dests[0].hang = true
	f.run(t)

	start := time.Now()
	f.dispatch(t, Show())
	// One wave for the text, one bounded call for the overlay.
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Show against a hanging destination took %v", elapsed)
	}
}

func TestClearChoreography(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Settings)
		wantHide bool
	}{
		{"auto out", func(*Settings) {}, true},
		{"auto out disabled", func(s *Settings) { s.AutoOverlayOutOnClear = false }, false},
		{"always on keeps overlay", func(s *Settings) { s.OverlayAlwaysOn = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := DefaultSettings()
			tt.mutate(&s)
			f := newFixture(t, s, 2)
			f.run(t)
			f.sync(t)
			f.dests[0].reset()

			f.dispatch(t, Clear())

			for i, d := range f.dests {
				texts := d.ofKind("text")
				if len(texts) != 1 || texts[0].Text != "" {
					t.Errorf("destination %d text calls = %+v, want one empty", i, texts)
				}
			}
			overlays := f.dests[0].ofKind("overlay")
			gotHide := len(overlays) == 1 && overlays[0].Action == destination.OverlayHide
			if gotHide != tt.wantHide || (!tt.wantHide && len(overlays) != 0) {
				t.Errorf("overlay calls = %+v, want hide=%v", overlays, tt.wantHide)
			}
		})
	}
}

func TestShowOverlayChoreography(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   []destination.OverlayAction
	}{
		{"auto show", func(*Settings) {}, []destination.OverlayAction{destination.OverlayShow}},
		{"auto show disabled", func(s *Settings) { s.AutoOverlayOnSend = false }, nil},
		{"always on forces", func(s *Settings) { s.OverlayAlwaysOn = true; s.AutoOverlayOnSend = false }, []destination.OverlayAction{destination.OverlayForceOn}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := DefaultSettings()
			s.OverlayChannel = 3
			tt.mutate(&s)
			f := newFixture(t, s, 1)
			f.run(t)
			f.sync(t)
			f.dests[0].reset()

			f.dispatch(t, SetText("x"), Show())

			overlays := f.dests[0].ofKind("overlay")
			if len(overlays) != len(tt.want) {
				t.Fatalf("overlay calls = %+v, want %v", overlays, tt.want)
			}
			for i, c := range overlays {
				if c.Action != tt.want[i] || c.Channel != 3 {
					t.Errorf("overlay call %d = %+v, want %v on channel 3", i, c, tt.want[i])
				}
			}
		})
	}
}

func TestAlwaysOnForcesOverlayAtStartup(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	s.OverlayAlwaysOn = true
	f := newFixture(t, s, 2)
	f.run(t)
	f.sync(t)

	overlays := f.dests[0].ofKind("overlay")
	if len(overlays) != 1 || overlays[0].Action != destination.OverlayForceOn {
		t.Errorf("startup overlay calls = %+v, want one ForceOn", overlays)
	}
	if n := len(f.dests[1].snapshot()); n != 0 {
		t.Errorf("second destination received %d calls at startup", n)
	}
}

func TestToggleOverlayRepeatsShow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 2)
	f.run(t)

	f.dispatch(t, ToggleOverlay(), ToggleOverlay())

	overlays := f.dests[0].ofKind("overlay")
	if len(overlays) != 2 {
		t.Fatalf("overlay calls = %d, want 2", len(overlays))
	}
	for _, c := range overlays {
		if c.Action != destination.OverlayShow {
			t.Errorf("toggle issued %v, want Show", c.Action)
		}
	}
	if n := len(f.dests[0].ofKind("text")); n != 0 {
		t.Errorf("toggle issued %d text calls", n)
	}
}

func TestRecordingIsOptimisticAndFirstBundleOnly(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 2)
	f.dests[0].fail = true
	f.run(t)

	f.dispatch(t, StartRecording())
	if !f.bridge.Display().Recording {
		t.Error("Recording should be true after StartRecording even when the command failed")
	}
	f.dispatch(t, StopRecording())
	if f.bridge.Display().Recording {
		t.Error("Recording should be false after StopRecording")
	}

	if n := len(f.dests[0].ofKind("start_recording")); n != 1 {
		t.Errorf("start calls on first destination = %d, want 1", n)
	}
	if n := len(f.dests[1].snapshot()); n != 0 {
		t.Errorf("second destination received %d recording calls", n)
	}
}

func TestSourceEventsKeepOrderAcrossFanOutWidth(t *testing.T) {
	t.Parallel()

	for _, width := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("%d bundles", width), func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, DefaultSettings(), width)

			var mu sync.Mutex
			var seen []string
			f.bridge.Subscribe(ObserverFuncs{Lyrics: func(s LyricsState) {
				mu.Lock()
				seen = append(seen, s.Text)
				mu.Unlock()
			}})
			f.run(t)

			relay := f.bridge.Relay()
			var want []string
			for i := 0; i < 20; i++ {
				text := fmt.Sprintf("line %d of the hymn", i)
				want = append(want, strings.ToUpper(text))
				relay.OnContent("a-bundle", source.Content{Text: text})
			}
			f.sync(t)

			mu.Lock()
			defer mu.Unlock()
			if strings.Join(seen, "|") != strings.Join(want, "|") {
				t.Errorf("lyrics sequence = %v\nwant %v", seen, want)
			}
			if got := f.bridge.Lyrics().Text; got != want[len(want)-1] {
				t.Errorf("final text = %q", got)
			}
			last := f.dests[width-1].ofKind("text")
			if len(last) != 20 || last[19].Text != want[19] {
				t.Errorf("last destination saw %d texts, want 20 ending in %q", len(last), want[19])
			}
		})
	}
}

func TestBlankEventHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		clearOnBlank bool
		wantHide     bool
	}{
		{"clear on blank", true, true},
		{"show blank text", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := DefaultSettings()
			s.ClearOnBlank = tt.clearOnBlank
			f := newFixture(t, s, 1)
			f.run(t)

			f.bridge.Relay().OnContent("a-bundle", source.Content{Text: "verse", IsBlank: true})
			f.sync(t)

			texts := f.dests[0].ofKind("text")
			if len(texts) != 1 {
				t.Fatalf("text calls = %+v, want 1", texts)
			}
			wantText := "VERSE"
			if tt.clearOnBlank {
				wantText = ""
			}
			if texts[0].Text != wantText {
				t.Errorf("text = %q, want %q", texts[0].Text, wantText)
			}
			overlays := f.dests[0].ofKind("overlay")
			if len(overlays) != 1 || (overlays[0].Action == destination.OverlayHide) != tt.wantHide {
				t.Errorf("overlay calls = %+v, want hide=%v", overlays, tt.wantHide)
			}
			if !f.bridge.Lyrics().IsBlank {
				t.Error("lyrics state should be marked blank")
			}
		})
	}
}

func TestObserverReceivesSourceChanges(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 1)
	var mu sync.Mutex
	var got []string
	unsubscribe := f.bridge.Subscribe(ObserverFuncs{Source: func(name string, connected bool) {
		mu.Lock()
		got = append(got, fmt.Sprintf("%s=%v", name, connected))
		mu.Unlock()
	}})
	f.run(t)

	relay := f.bridge.Relay()
	relay.OnConnect("a-bundle")
	relay.OnDisconnect("a-bundle")
	f.sync(t)
	unsubscribe()
	relay.OnConnect("a-bundle")
	f.sync(t)

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(got, ",") != "a-bundle=true,a-bundle=false" {
		t.Errorf("source changes = %v", got)
	}
}

func TestDispatchErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan error, 1)
	go func() { exited <- f.bridge.Run(ctx) }()
	f.sync(t)

	if err := f.bridge.Dispatch(context.Background(), Command{Action: "dance"}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("unknown action = %v, want ErrUnknownAction", err)
	}
	if err := f.bridge.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	if err := <-exited; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if err := f.bridge.Dispatch(context.Background(), Show()); !errors.Is(err, ErrStopped) {
		t.Errorf("Dispatch after stop = %v, want ErrStopped", err)
	}

	// Events after stop must not block the listener.
	done := make(chan struct{})
	go func() {
		f.bridge.Relay().OnContent("a-bundle", source.Content{Text: "late"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("relay blocked after the bridge stopped")
	}
}

func TestStartSourcesAndShutdown(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 3)
	f.bridge.StartSources(context.Background())
	if err := f.bridge.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	for i := range f.sources {
		if f.sources[i].starts.Load() != 1 || f.sources[i].stops.Load() != 1 {
			t.Errorf("source %d starts=%d stops=%d", i, f.sources[i].starts.Load(), f.sources[i].stops.Load())
		}
		if f.dests[i].closes.Load() != 1 {
			t.Errorf("destination %d closed %d times", i, f.dests[i].closes.Load())
		}
	}
}

func TestSettingsNormalize(t *testing.T) {
	t.Parallel()

	got := Settings{MaxCharsPerLine: 3, OverlayChannel: 7, PollIntervalSeconds: 0, AutoClearIdleSeconds: -4}.Normalize()
	if got.MaxCharsPerLine != MinCharsPerLine || got.OverlayChannel != 4 || got.PollIntervalSeconds != 1 || got.AutoClearIdleSeconds != 0 {
		t.Errorf("Normalize() = %+v", got)
	}
	if got := (Settings{OverlayChannel: -1}).Normalize().OverlayChannel; got != 1 {
		t.Errorf("OverlayChannel = %d, want 1", got)
	}
}

func TestBundlesDescribe(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 2)
	f.sources[1].connected.Store(true)

	infos := f.bridge.Bundles()
	if len(infos) != 2 || infos[0].Connected || !infos[1].Connected {
		t.Errorf("Bundles() = %+v", infos)
	}
	if len(infos[0].Mappings) != 1 || infos[0].Mappings[0].Input != "SongTitle" {
		t.Errorf("mappings = %+v", infos[0].Mappings)
	}
}

func TestShowTextSendsItsOwnText(t *testing.T) {
	t.Parallel()

	f := newFixture(t, DefaultSettings(), 2)
	f.run(t)

	f.dispatch(t, ShowText("  it is well "))

	for i, d := range f.dests {
		texts := d.ofKind("text")
		if len(texts) != 1 || texts[0].Text != "IT IS WELL" {
			t.Errorf("destination %d text calls = %+v", i, texts)
		}
	}
	if got := f.bridge.Lyrics(); got.Text != "IT IS WELL" || got.IsBlank {
		t.Errorf("Lyrics() = %+v", got)
	}
}

func TestShowTextNotInterleavedWithSourceEvent(t *testing.T) {
	t.Parallel()

	for i := 0; i < 10; i++ {
		f := newFixture(t, DefaultSettings(), 1)
		f.run(t)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Hold the loop so the source event and the command queue up together.
		held, release := make(chan struct{}), make(chan struct{})
		go func() {
			_ = f.bridge.submit(ctx, func(context.Context) {
				close(held)
				<-release
			})
		}()
		<-held

		sent := make(chan struct{})
		go func() {
			f.bridge.Relay().OnContent("a-bundle", source.Content{Text: "from the source"})
			close(sent)
		}()
		dispatched := make(chan error, 1)
		go func() { dispatched <- f.bridge.Dispatch(ctx, ShowText("from the api").From(OriginAPI)) }()

		close(release)
		if err := <-dispatched; err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
		<-sent
		f.sync(t)

		seen := map[string]int{}
		for _, c := range f.dests[0].ofKind("text") {
			seen[c.Text]++
		}
		if seen["FROM THE API"] != 1 || seen["FROM THE SOURCE"] != 1 {
			t.Fatalf("round %d: sent texts = %v, want each text once", i, seen)
		}
	}
}
