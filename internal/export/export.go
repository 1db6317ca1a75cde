// Package export writes audit ledger slices as zstd-compressed, deterministic
// CBOR streams and verifies them offline.
//
// A stream is a sequence of frames: one header, one frame per event in
// ascending id order, then a trailer with the event count. Every event frame
// carries the RFC 8785 canonical payload and its stored sha256 digest, so an
// archive can be checked without access to the database.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gowebpki/jcs"
	"github.com/klauspost/compress/zstd"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
	"github.com/heartmarshall/dualtrack-backend/internal/service/ledger"
)

// Format identifies the stream layout in the header frame.
const Format = "dualtrack-ledger/1"

// ErrFormat is returned by Verify for a stream that is not a ledger export.
var ErrFormat = errors.New("not a ledger export")

// Frame kinds.
const (
	kindHeader  = "header"
	kindEvent   = "event"
	kindTrailer = "trailer"
)

type frame struct {
	Kind    string   `cbor:"kind"`
	Header  *Header  `cbor:"header,omitempty"`
	Event   *Record  `cbor:"event,omitempty"`
	Trailer *Trailer `cbor:"trailer,omitempty"`
}

// Header opens a stream.
type Header struct {
	Format     string `cbor:"format"`
	ExportedAt string `cbor:"exported_at"`
	Filter     Scope  `cbor:"filter"`
}

// Scope records the filter an export was taken with.
type Scope struct {
	Track     string `cbor:"track,omitempty"`
	EventType string `cbor:"event_type,omitempty"`
	CaseID    string `cbor:"case_id,omitempty"`
	Since     string `cbor:"since,omitempty"`
	Until     string `cbor:"until,omitempty"`
}

// Record is one ledger event.
type Record struct {
	ID            int64  `cbor:"id"`
	CreatedAt     string `cbor:"created_at"`
	Track         string `cbor:"track"`
	EventType     string `cbor:"event_type"`
	ActorCategory string `cbor:"actor_category"`
	Actor         string `cbor:"actor"`
	CaseID        string `cbor:"case_id,omitempty"`
	DraftID       string `cbor:"draft_id,omitempty"`
	RiskLevel     string `cbor:"risk_level,omitempty"`
	RequestID     string `cbor:"request_id,omitempty"`
	Payload       []byte `cbor:"payload"`
	PayloadDigest string `cbor:"payload_digest"`
}

// Trailer closes a stream.
type Trailer struct {
	Events int `cbor:"events"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("export: cbor encoder: " + err.Error())
	}
}

type eventSource interface {
	Query(ctx context.Context, filter domain.AuditFilter) (ledger.Page, error)
}

// Stats summarizes a written or verified stream.
type Stats struct {
	Events     int
	Mismatched []int64
}

// Write pages through src by id, each page starting after the last id
// written, and streams every event matching filter to w. Limit, Offset,
// AfterID and ordering in filter are ignored.
// Events whose payload no longer matches its stored digest are exported
// unchanged and listed in Stats.Mismatched.
func Write(ctx context.Context, src eventSource, filter domain.AuditFilter, w io.Writer, now time.Time) (Stats, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return Stats{}, fmt.Errorf("zstd writer: %w", err)
	}
	enc := encMode.NewEncoder(zw)

	stats, err := writeFrames(ctx, enc, src, filter, now)
	if err != nil {
		zw.Close()
		return stats, err
	}
	if err := zw.Close(); err != nil {
		return stats, fmt.Errorf("flush zstd: %w", err)
	}
	return stats, nil
}

func writeFrames(ctx context.Context, enc *cbor.Encoder, src eventSource, filter domain.AuditFilter, now time.Time) (Stats, error) {
	var stats Stats

	header := Header{Format: Format, ExportedAt: now.UTC().Format(time.RFC3339Nano), Filter: scopeOf(filter)}
	if err := enc.Encode(frame{Kind: kindHeader, Header: &header}); err != nil {
		return stats, fmt.Errorf("encode header: %w", err)
	}

	var cursor int64
	filter.Ascending = true
	filter.Limit = domain.MaxAuditLimit
	filter.Offset = 0
	for {
		after := cursor
		filter.AfterID = &after
		page, err := src.Query(ctx, filter)
		if err != nil {
			return stats, fmt.Errorf("query events after id %d: %w", after, err)
		}
		for _, e := range page.Events {
			rec, ok, err := toRecord(e)
			if err != nil {
				return stats, fmt.Errorf("event %d: %w", e.ID, err)
			}
			if !ok {
				stats.Mismatched = append(stats.Mismatched, e.ID)
			}
			if err := enc.Encode(frame{Kind: kindEvent, Event: &rec}); err != nil {
				return stats, fmt.Errorf("encode event %d: %w", e.ID, err)
			}
			stats.Events++
			cursor = e.ID
		}
		if len(page.Events) < filter.Limit {
			break
		}
	}

	if err := enc.Encode(frame{Kind: kindTrailer, Trailer: &Trailer{Events: stats.Events}}); err != nil {
		return stats, fmt.Errorf("encode trailer: %w", err)
	}
	return stats, nil
}

// toRecord reports whether the canonical payload still hashes to the stored digest.
func toRecord(e domain.AuditEvent) (Record, bool, error) {
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return Record{}, false, fmt.Errorf("marshal payload: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return Record{}, false, fmt.Errorf("canonicalize payload: %w", err)
	}
	digest, err := ledger.Digest(canonical)
	if err != nil {
		return Record{}, false, err
	}

	rec := Record{
		ID:            e.ID,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339Nano),
		Track:         string(e.Track),
		EventType:     string(e.Type),
		ActorCategory: string(e.Actor.Category),
		Actor:         e.Actor.Label,
		RequestID:     e.RequestID,
		Payload:       canonical,
		PayloadDigest: e.PayloadDigest,
	}
	if e.CaseID != nil {
		rec.CaseID = e.CaseID.String()
	}
	if e.DraftID != nil {
		rec.DraftID = *e.DraftID
	}
	if e.RiskLevel != nil {
		rec.RiskLevel = string(*e.RiskLevel)
	}
	return rec, digest == e.PayloadDigest, nil
}

func scopeOf(f domain.AuditFilter) Scope {
	var s Scope
	if f.Track != nil {
		s.Track = string(*f.Track)
	}
	if f.EventType != nil {
		s.EventType = string(*f.EventType)
	}
	if f.CaseID != nil {
		s.CaseID = f.CaseID.String()
	}
	if f.Since != nil {
		s.Since = f.Since.UTC().Format(time.RFC3339Nano)
	}
	if f.Until != nil {
		s.Until = f.Until.UTC().Format(time.RFC3339Nano)
	}
	return s
}

// Verify reads a stream and recomputes every payload digest. Events whose
// digest does not match are listed in Stats.Mismatched; a missing header or
// trailer, or a trailer count that disagrees with the events read, fails
// with ErrFormat.
func Verify(r io.Reader) (Header, Stats, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return Header{}, Stats{}, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()

	dec := cbor.NewDecoder(zr)

	var first frame
	if err := dec.Decode(&first); err != nil {
		return Header{}, Stats{}, fmt.Errorf("%w: read header: %v", ErrFormat, err)
	}
	if first.Kind != kindHeader || first.Header == nil || first.Header.Format != Format {
		return Header{}, Stats{}, fmt.Errorf("%w: missing header", ErrFormat)
	}
	header := *first.Header

	var stats Stats
	for {
		var f frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return header, stats, fmt.Errorf("%w: missing trailer", ErrFormat)
			}
			return header, stats, fmt.Errorf("decode frame %d: %w", stats.Events+1, err)
		}

		switch f.Kind {
		case kindEvent:
			if f.Event == nil {
				return header, stats, fmt.Errorf("%w: empty event frame", ErrFormat)
			}
			digest, err := ledger.Digest(f.Event.Payload)
			if err != nil || digest != f.Event.PayloadDigest {
				stats.Mismatched = append(stats.Mismatched, f.Event.ID)
			}
			stats.Events++
		case kindTrailer:
			if f.Trailer == nil || f.Trailer.Events != stats.Events {
				return header, stats, fmt.Errorf("%w: trailer count does not match %d events", ErrFormat, stats.Events)
			}
			return header, stats, nil
		default:
			return header, stats, fmt.Errorf("%w: unexpected frame %q", ErrFormat, f.Kind)
		}
	}
}
