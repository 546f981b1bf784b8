package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted entities. Hand-maintained: the wire format
// is the declared field order of each struct, with UUIDs as 16 raw bytes,
// timestamps as varint microseconds since the Unix epoch, and free-form
// maps as JSON documents.
var (
	SeriesProfileMUS    = seriesProfileMUS{}
	TeiHeaderMUS        = teiHeaderMUS{}
	CanonicalEpisodeMUS = canonicalEpisodeMUS{}
	IngestionJobMUS     = ingestionJobMUS{}
	SourceDocumentMUS   = sourceDocumentMUS{}
	ApprovalEventMUS    = approvalEventMUS{}
)

func marshalUUID(id uuid.UUID, bs []byte) int {
	return ord.String.Marshal(string(id[:]), bs)
}

func unmarshalUUID(bs []byte) (uuid.UUID, int, error) {
	s, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return uuid.Nil, n, err
	}
	if len(s) != 16 {
		return uuid.Nil, n, fmt.Errorf("uuid: expected 16 bytes, got %d", len(s))
	}
	var id uuid.UUID
	copy(id[:], s)
	return id, n, nil
}

func sizeUUID(id uuid.UUID) int {
	return ord.String.Size(string(id[:]))
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

// jsonEncode renders a free-form map as its canonical JSON document.
// encoding/json sorts object keys, so identical maps always produce
// identical bytes.
func jsonEncode(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		return "null"
	}
	return string(b)
}

func jsonDecode(s string) (map[string]any, error) {
	if s == "" || s == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func marshalMap(m map[string]any, bs []byte) int {
	return ord.String.Marshal(jsonEncode(m), bs)
}

func unmarshalMap(bs []byte) (map[string]any, int, error) {
	s, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	m, err := jsonDecode(s)
	if err != nil {
		return nil, n, fmt.Errorf("map payload: %w", err)
	}
	return m, n, nil
}

func sizeMap(m map[string]any) int {
	return ord.String.Size(jsonEncode(m))
}

type seriesProfileMUS struct{}

func (seriesProfileMUS) Marshal(v SeriesProfile, bs []byte) (n int) {
	n = marshalUUID(v.Id, bs)
	n += ord.String.Marshal(v.Slug, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += marshalMap(v.Configuration, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (seriesProfileMUS) Unmarshal(bs []byte) (v SeriesProfile, n int, err error) {
	var n1 int
	v.Id, n, err = unmarshalUUID(bs)
	if err != nil {
		return v, n, err
	}
	v.Slug, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Configuration, n1, err = unmarshalMap(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return v, n, err
}

func (seriesProfileMUS) Size(v SeriesProfile) int {
	return sizeUUID(v.Id) +
		ord.String.Size(v.Slug) +
		ord.String.Size(v.Title) +
		ord.String.Size(v.Description) +
		sizeMap(v.Configuration) +
		sizeTime(v.CreatedAt) +
		sizeTime(v.UpdatedAt)
}

type teiHeaderMUS struct{}

func (teiHeaderMUS) Marshal(v TeiHeader, bs []byte) (n int) {
	n = marshalUUID(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += marshalMap(v.Payload, bs[n:])
	n += ord.String.Marshal(v.RawXML, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (teiHeaderMUS) Unmarshal(bs []byte) (v TeiHeader, n int, err error) {
	var n1 int
	v.Id, n, err = unmarshalUUID(bs)
	if err != nil {
		return v, n, err
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Payload, n1, err = unmarshalMap(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.RawXML, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return v, n, err
}

func (teiHeaderMUS) Size(v TeiHeader) int {
	return sizeUUID(v.Id) +
		ord.String.Size(v.Title) +
		sizeMap(v.Payload) +
		ord.String.Size(v.RawXML) +
		sizeTime(v.CreatedAt) +
		sizeTime(v.UpdatedAt)
}

type canonicalEpisodeMUS struct{}

func (canonicalEpisodeMUS) Marshal(v CanonicalEpisode, bs []byte) (n int) {
	n = marshalUUID(v.Id, bs)
	n += marshalUUID(v.SeriesProfileId, bs[n:])
	n += marshalUUID(v.TeiHeaderId, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.TeiXML, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += ord.String.Marshal(string(v.ApprovalState), bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (canonicalEpisodeMUS) Unmarshal(bs []byte) (v CanonicalEpisode, n int, err error) {
	var (
		n1 int
		s  string
	)
	v.Id, n, err = unmarshalUUID(bs)
	if err != nil {
		return v, n, err
	}
	v.SeriesProfileId, n1, err = unmarshalUUID(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.TeiHeaderId, n1, err = unmarshalUUID(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.TeiXML, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	s, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Status = EpisodeStatus(s)
	s, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.ApprovalState = ApprovalState(s)
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return v, n, err
}

func (canonicalEpisodeMUS) Size(v CanonicalEpisode) int {
	return sizeUUID(v.Id) +
		sizeUUID(v.SeriesProfileId) +
		sizeUUID(v.TeiHeaderId) +
		ord.String.Size(v.Title) +
		ord.String.Size(v.TeiXML) +
		ord.String.Size(string(v.Status)) +
		ord.String.Size(string(v.ApprovalState)) +
		sizeTime(v.CreatedAt) +
		sizeTime(v.UpdatedAt)
}

type ingestionJobMUS struct{}

func (ingestionJobMUS) Marshal(v IngestionJob, bs []byte) (n int) {
	n = marshalUUID(v.Id, bs)
	n += marshalUUID(v.SeriesProfileId, bs[n:])
	n += marshalUUID(v.TargetEpisodeId, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += marshalTime(v.RequestedAt, bs[n:])
	n += marshalTime(v.StartedAt, bs[n:])
	n += marshalTime(v.CompletedAt, bs[n:])
	n += ord.String.Marshal(v.ErrorMessage, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (ingestionJobMUS) Unmarshal(bs []byte) (v IngestionJob, n int, err error) {
	var (
		n1 int
		s  string
	)
	v.Id, n, err = unmarshalUUID(bs)
	if err != nil {
		return v, n, err
	}
	v.SeriesProfileId, n1, err = unmarshalUUID(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.TargetEpisodeId, n1, err = unmarshalUUID(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	s, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Status = IngestionStatus(s)
	v.RequestedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.StartedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CompletedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.ErrorMessage, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return v, n, err
}

func (ingestionJobMUS) Size(v IngestionJob) int {
	return sizeUUID(v.Id) +
		sizeUUID(v.SeriesProfileId) +
		sizeUUID(v.TargetEpisodeId) +
		ord.String.Size(string(v.Status)) +
		sizeTime(v.RequestedAt) +
		sizeTime(v.StartedAt) +
		sizeTime(v.CompletedAt) +
		ord.String.Size(v.ErrorMessage) +
		sizeTime(v.CreatedAt) +
		sizeTime(v.UpdatedAt)
}

type sourceDocumentMUS struct{}

func (sourceDocumentMUS) Marshal(v SourceDocument, bs []byte) (n int) {
	n = marshalUUID(v.Id, bs)
	n += marshalUUID(v.IngestionJobId, bs[n:])
	n += marshalUUID(v.CanonicalEpisodeId, bs[n:])
	n += ord.String.Marshal(string(v.SourceType), bs[n:])
	n += ord.String.Marshal(v.SourceURI, bs[n:])
	n += raw.Float64.Marshal(v.Weight, bs[n:])
	n += ord.String.Marshal(v.ContentHash, bs[n:])
	n += marshalMap(v.Metadata, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (sourceDocumentMUS) Unmarshal(bs []byte) (v SourceDocument, n int, err error) {
	var (
		n1 int
		s  string
	)
	v.Id, n, err = unmarshalUUID(bs)
	if err != nil {
		return v, n, err
	}
	v.IngestionJobId, n1, err = unmarshalUUID(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CanonicalEpisodeId, n1, err = unmarshalUUID(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	s, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.SourceType = SourceType(s)
	v.SourceURI, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Weight, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.ContentHash, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Metadata, n1, err = unmarshalMap(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return v, n, err
}

func (sourceDocumentMUS) Size(v SourceDocument) int {
	return sizeUUID(v.Id) +
		sizeUUID(v.IngestionJobId) +
		sizeUUID(v.CanonicalEpisodeId) +
		ord.String.Size(string(v.SourceType)) +
		ord.String.Size(v.SourceURI) +
		raw.Float64.Size(v.Weight) +
		ord.String.Size(v.ContentHash) +
		sizeMap(v.Metadata) +
		sizeTime(v.CreatedAt)
}

type approvalEventMUS struct{}

func (approvalEventMUS) Marshal(v ApprovalEvent, bs []byte) (n int) {
	n = marshalUUID(v.Id, bs)
	n += marshalUUID(v.EpisodeId, bs[n:])
	n += ord.String.Marshal(v.Actor, bs[n:])
	n += ord.String.Marshal(string(v.FromState), bs[n:])
	n += ord.String.Marshal(string(v.ToState), bs[n:])
	n += ord.String.Marshal(v.Note, bs[n:])
	n += marshalMap(v.Payload, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (approvalEventMUS) Unmarshal(bs []byte) (v ApprovalEvent, n int, err error) {
	var (
		n1 int
		s  string
	)
	v.Id, n, err = unmarshalUUID(bs)
	if err != nil {
		return v, n, err
	}
	v.EpisodeId, n1, err = unmarshalUUID(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Actor, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	s, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.FromState = ApprovalState(s)
	s, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.ToState = ApprovalState(s)
	v.Note, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Payload, n1, err = unmarshalMap(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.CreatedAt, n1, err = unmarshalTime(bs[n:])
	n += n1
	return v, n, err
}

func (approvalEventMUS) Size(v ApprovalEvent) int {
	return sizeUUID(v.Id) +
		sizeUUID(v.EpisodeId) +
		ord.String.Size(v.Actor) +
		ord.String.Size(string(v.FromState)) +
		ord.String.Size(string(v.ToState)) +
		ord.String.Size(v.Note) +
		sizeMap(v.Payload) +
		sizeTime(v.CreatedAt)
}
