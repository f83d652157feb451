package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"reflect"
	"testing"

	"aquamonitor/internal/models"
)

func ptr[T any](v T) *T { return &v }

func testMessages() []models.StreamMessage {
	return []models.StreamMessage{
		{
			Type: models.MessageSkeleton,
			Skeleton: &models.DashboardSkeleton{
				SourceID: "Great_Barrier_",
				Tiles: []models.TileSkeleton{
					{ID: "tile-temp", Title: "Temperature", Unit: "°C", Precision: 1},
				},
				Charts: []models.ChartSkeleton{
					{
						ID:             "chart-temp",
						Title:          "Temperature",
						Unit:           ptr("°C"),
						Kind:           models.ChartKindLine,
						YMin:           ptr(20.0),
						YMax:           ptr(30.0),
						FractionDigits: ptr(1),
						Series: []models.SeriesSkeleton{
							{ID: "series-a", Name: "Tank 1", Color: ptr("#ff8800")},
							{ID: "series-b", Name: "Sump"},
						},
					},
				},
			},
		},
		{
			Type: models.MessageTileUpdate,
			Tile: &models.TileUpdate{ID: "tile-temp", Value: 25.4},
		},
		{
			Type: models.MessageChartUpdate,
			Chart: &models.ChartUpdate{
				ID: "chart-temp",
				Series: []models.SeriesUpdate{
					{ID: "series-a", Points: []models.TimeSeriesPoint{
						{TimeMS: 1700000000000, Value: 25.1},
						{TimeMS: 1700000060000, Value: 25.3},
					}},
				},
			},
		},
		{
			Type:     models.MessageComplete,
			Complete: &models.CompletionEvent{TotalWidgets: 2, DurationMS: 812},
		},
	}
}

func TestFrameRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		for _, msg := range testMessages() {
			var buf bytes.Buffer
			fw := NewFrameWriter(&buf, compress)
			if _, err := fw.WriteMessage(msg); err != nil {
				t.Fatalf("compress=%v: write: %v", compress, err)
			}

			fr := NewFrameReader(&buf, compress)
			got, err := fr.ReadMessage()
			if err != nil {
				t.Fatalf("compress=%v: read: %v", compress, err)
			}
			if !reflect.DeepEqual(got, msg) {
				t.Errorf("compress=%v: round trip mismatch\ngot:  %+v\nwant: %+v", compress, got, msg)
			}
		}
	}
}

func TestFrameLengthPrefix(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf, false)
	n, err := fw.WriteMessage(testMessages()[1])
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := buf.Bytes()
	if n != len(raw) {
		t.Errorf("reported %d bytes; wrote %d", n, len(raw))
	}
	length := binary.BigEndian.Uint32(raw[:4])
	if int(length) != len(raw)-4 {
		t.Errorf("prefix says %d; payload is %d bytes", length, len(raw)-4)
	}
}

func TestFrameStreamSequence(t *testing.T) {
	msgs := testMessages()
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf, true)
	for _, msg := range msgs {
		if _, err := fw.WriteMessage(msg); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	fr := NewFrameReader(&buf, true)
	for i := range msgs {
		got, err := fr.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if got.Type != msgs[i].Type {
			t.Errorf("message %d type = %d; want %d", i, got.Type, msgs[i].Type)
		}
	}
	// No sentinel: a clean close is a plain EOF at a frame boundary.
	if _, err := fr.ReadMessage(); err != io.EOF {
		t.Fatalf("trailing read err = %v; want io.EOF", err)
	}
}

func TestFrameTruncatedMidFrame(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf, false)
	if _, err := fw.WriteMessage(testMessages()[3]); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := buf.Bytes()

	fr := NewFrameReader(bytes.NewReader(raw[:len(raw)-2]), false)
	if _, err := fr.ReadMessage(); err == nil || err == io.EOF {
		t.Fatalf("err = %v; want mid-frame failure distinct from EOF", err)
	}
}

func TestFrameDeterministicEncoding(t *testing.T) {
	msg := testMessages()[0]
	a, err := Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same message produced different bytes")
	}
}

func TestCompressRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("telemetry "), 100)
	compressed := Compress(payload)
	if len(compressed) >= len(payload) {
		t.Errorf("repetitive payload did not shrink: %d -> %d", len(payload), len(compressed))
	}
	restored, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(restored, payload) {
		t.Error("decompressed payload differs")
	}
}
