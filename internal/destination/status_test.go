// LyriSync - Live Lyrics to Video Title Bridge
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lyrisync

package destination

import (
	"context"
	"net/http"
	"reflect"
	"testing"
)

const flatStatus = `<?xml version="1.0"?>
<vmix>
  <version>27.0.0.49</version>
  <recording>True</recording>
  <overlay1>true</overlay1>
  <overlay2>false</overlay2>
  <overlay3></overlay3>
</vmix>`

const nestedStatus = `<vmix>
  <inputs>
    <input key="a1" number="1" type="GT" title="SongTitle" shortTitle="Song">
      <text index="0" name="Message.Text">AMAZING GRACE</text>
      <text index="1" name="Headline.Text"></text>
    </input>
    <input key="a2" number="2" type="Xaml" title="" shortTitle="Lower">
      <data><text name="Line1"/><text name="Line2"/><text name="Line1"/></data>
    </input>
    <input key="a3" number="3" type="Colour"/>
    <input key="a4" number="4" type="GT" title="SongTitle">
      <text name="Other.Text"/>
    </input>
  </inputs>
  <overlays>
    <overlay number="1"></overlay>
    <overlay number="2">1</overlay>
    <overlay number="7">3</overlay>
  </overlays>
  <recording>False</recording>
</vmix>`

func TestStatusFlatDocument(t *testing.T) {
	t.Parallel()

	srv := newRecordingServer(t, flatStatus)
	c := NewController(ControllerConfig{Name: "status-flat", APIURL: srv.URL})

	st := c.Status(context.Background())
	if !st.Reachable || !st.Recording {
		t.Fatalf("Status() = %+v, want reachable and recording", st)
	}
	if !st.OverlayOn(1) || st.OverlayOn(2) || st.OverlayOn(3) || st.OverlayOn(4) {
		t.Errorf("overlays = %v, want only channel 1", st.Overlays)
	}
	if len(srv.last(t)) != 0 {
		t.Errorf("status request carried query %v", srv.last(t))
	}
}

func TestStatusNestedOverlays(t *testing.T) {
	t.Parallel()

	srv := newRecordingServer(t, nestedStatus)
	c := NewController(ControllerConfig{Name: "status-nested", APIURL: srv.URL})

	st := c.Status(context.Background())
	if st.Recording {
		t.Error("recording should be false")
	}
	if st.OverlayOn(1) || !st.OverlayOn(2) {
		t.Errorf("overlays = %v, want channel 2 only", st.Overlays)
	}
	if _, ok := st.Overlays[7]; ok {
		t.Error("out of range overlay channel must be ignored")
	}
}

func TestStatusFailuresReturnZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed xml", "<vmix><recording>", http.StatusOK},
		{"not xml", "hello", http.StatusOK},
		{"empty body", "", http.StatusOK},
		{"server error", flatStatus, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newRecordingServer(t, tt.body)
			srv.status.Store(int32(tt.status))
			c := NewController(ControllerConfig{Name: "status-" + tt.name, APIURL: srv.URL})

			if st := c.Status(context.Background()); !reflect.DeepEqual(st, Status{}) {
				t.Errorf("Status() = %+v, want zero value", st)
			}
		})
	}
}

func TestStatusUnreachable(t *testing.T) {
	t.Parallel()

	c := NewController(ControllerConfig{Name: "status-unreachable", APIURL: "http://127.0.0.1:1/api"})
	if st := c.Status(context.Background()); st.Reachable {
		t.Errorf("Status() = %+v, want unreachable", st)
	}
}

func TestInputsDiscovery(t *testing.T) {
	t.Parallel()

	srv := newRecordingServer(t, nestedStatus)
	c := NewController(ControllerConfig{Name: "inputs", APIURL: srv.URL})

	got, err := c.Inputs(context.Background())
	if err != nil {
		t.Fatalf("Inputs() error = %v", err)
	}
	want := []Input{
		{Name: "SongTitle", Number: "1", Type: "GT", Fields: []string{"Message.Text", "Headline.Text"}},
		{Name: "Lower", Number: "2", Type: "Xaml", Fields: []string{"Line1", "Line2"}},
		{Name: "3", Number: "3", Type: "Colour", Fields: []string{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Inputs() = %+v\nwant %+v", got, want)
	}
}

func TestInputsReturnsErrors(t *testing.T) {
	t.Parallel()

	srv := newRecordingServer(t, "not xml at all <")
	c := NewController(ControllerConfig{Name: "inputs-bad", APIURL: srv.URL})
	if _, err := c.Inputs(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}
